// Package actions implements the executable form of every recipe
// Operation (spec.md §4.4). Each Action mutates a state.MorphState —
// most centrally its Value register — and returns it (or an error).
package actions

import (
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/morpherhq/morpher/internal/caster"
	"github.com/morpherhq/morpher/internal/morpherr"
	"github.com/morpherhq/morpher/internal/registry"
	"github.com/morpherhq/morpher/internal/state"
	"github.com/morpherhq/morpher/internal/values"
)

// Action is the common interface every recipe operation's executable
// form satisfies.
type Action interface {
	Run(s *state.MorphState) (*state.MorphState, error)
}

// passthrough reports whether the register is currently Absent or
// Null, in which case most actions should leave it untouched.
func passthrough(s *state.MorphState) bool {
	k := s.Value.Kind
	return k == values.KindAbsent || k == values.KindNull
}

// ---- Input ----

// Take resolves a field by name from TempFields, then SourceFields,
// then a TempFields key whose "$"-delimited prefix matches name (the
// keys @split produces). Absent if none match.
type Take struct {
	Name string
}

func NewTake(args []string) *Take { return &Take{Name: args[0]} }

func (a *Take) Run(s *state.MorphState) (*state.MorphState, error) {
	// Snapshot rather than alias the stored field: spec.md §4.4 allows
	// either, and snapshotting keeps later in-place mutations (Alias,
	// Prefix, Suffix, Partial) from corrupting SourceFields/TempFields
	// entries a later instruction might Take again.
	if v, ok := s.TempFields[a.Name]; ok {
		s.Value = v.Snapshot()
		return s, nil
	}
	if v, ok := s.SourceFields[a.Name]; ok {
		s.Value = v.Snapshot()
		return s, nil
	}
	for k, v := range s.TempFields {
		prefix, _, found := strings.Cut(k, "$")
		if found && prefix == a.Name {
			resolved := v.Snapshot()
			resolved.ActualName = prefix
			s.Value = resolved
			return s, nil
		}
	}
	s.Value = values.NewAbsent(a.Name)
	return s, nil
}

// Drop sets the register to Absent and records the field as dropped
// if it came from the source document (idempotent).
type Drop struct {
	Name string
}

func NewDrop(args []string) *Drop { return &Drop{Name: args[0]} }

func (a *Drop) Run(s *state.MorphState) (*state.MorphState, error) {
	s.Value = &values.Value{Kind: values.KindAbsent, OriginalName: a.Name, ActualName: a.Name}
	if _, ok := s.DroppedFields[a.Name]; ok {
		return s, nil
	}
	if v, ok := s.SourceFields[a.Name]; ok {
		s.DroppedFields[a.Name] = v
	}
	return s, nil
}

// ---- Pointer ----

// Full is the Pointer identity.
type Full struct{}

func NewFull([]string) *Full { return &Full{} }

func (a *Full) Run(s *state.MorphState) (*state.MorphState, error) { return s, nil }

// Partial requires an Object register and projects it down to the
// listed keys.
type Partial struct {
	Keys []string
}

func NewPartial(args []string) *Partial { return &Partial{Keys: args} }

func (a *Partial) Run(s *state.MorphState) (*state.MorphState, error) {
	if passthrough(s) {
		return s, nil
	}
	if s.Value.Kind != values.KindObject {
		return nil, &morpherr.TypeError{Action: "Partial", Expected: "Object", Got: s.Value.Kind.String()}
	}
	keep := make(map[string]bool, len(a.Keys))
	for _, k := range a.Keys {
		keep[k] = true
	}
	old := values.ObjectItems(s.Value)
	next := make(map[string]any, len(old))
	for k, v := range old {
		if keep[k] {
			next[k] = v
		}
	}
	projected := s.Value.Snapshot()
	projected.Payload = next
	s.Value = projected
	return s, nil
}

// First requires a List register and replaces it with its first
// element (Null if empty).
type First struct{}

func NewFirst([]string) *First { return &First{} }

func (a *First) Run(s *state.MorphState) (*state.MorphState, error) {
	if passthrough(s) {
		return s, nil
	}
	if s.Value.Kind != values.KindList {
		return nil, &morpherr.TypeError{Action: "First", Expected: "List", Got: s.Value.Kind.String()}
	}
	items := values.ListItems(s.Value)
	if len(items) == 0 {
		s.Value = values.Null(s.Value)
		return s, nil
	}
	s.Value = values.FromPrevious(s.Value, items[0])
	return s, nil
}

// Last requires a List register and replaces it with its last element
// (Null if empty).
type Last struct{}

func NewLast([]string) *Last { return &Last{} }

func (a *Last) Run(s *state.MorphState) (*state.MorphState, error) {
	if passthrough(s) {
		return s, nil
	}
	if s.Value.Kind != values.KindList {
		return nil, &morpherr.TypeError{Action: "Last", Expected: "List", Got: s.Value.Kind.String()}
	}
	items := values.ListItems(s.Value)
	if len(items) == 0 {
		s.Value = values.Null(s.Value)
		return s, nil
	}
	s.Value = values.FromPrevious(s.Value, items[len(items)-1])
	return s, nil
}

// Nth requires a List register and replaces it with the element at
// index I (which may be negative); Null if |I| >= len.
type Nth struct {
	Index int
}

func NewNth(args []string) (*Nth, error) {
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, &morpherr.TranslationError{Reason: "Pointer.NTH argument is not an integer: " + args[0]}
	}
	return &Nth{Index: i}, nil
}

func (a *Nth) Run(s *state.MorphState) (*state.MorphState, error) {
	if passthrough(s) {
		return s, nil
	}
	if s.Value.Kind != values.KindList {
		return nil, &morpherr.TypeError{Action: "Nth", Expected: "List", Got: s.Value.Kind.String()}
	}
	items := values.ListItems(s.Value)
	idx := a.Index
	abs := idx
	if abs < 0 {
		abs = -abs
	}
	if abs >= len(items) {
		s.Value = values.Null(s.Value)
		return s, nil
	}
	if idx < 0 {
		idx += len(items)
	}
	s.Value = values.FromPrevious(s.Value, items[idx])
	return s, nil
}

// ---- Transformation ----

// ID is the Transformation identity.
type ID struct{}

func NewID([]string) *ID { return &ID{} }

func (a *ID) Run(s *state.MorphState) (*state.MorphState, error) { return s, nil }

// Extract requires an Object register and evaluates a JSONPath
// expression against it. A path the library reports as unmatched, or
// an empty slice result, becomes Null; a non-empty slice result (from
// a wildcard or filter path) becomes a List, even when it holds a
// single match; any other result replaces the register.
type Extract struct {
	Path string
}

func NewExtract(args []string) *Extract { return &Extract{Path: args[0]} }

func (a *Extract) Run(s *state.MorphState) (*state.MorphState, error) {
	if passthrough(s) {
		return s, nil
	}
	if s.Value.Kind != values.KindObject {
		return nil, &morpherr.TypeError{Action: "Extract", Expected: "Object", Got: s.Value.Kind.String()}
	}
	result, err := jsonpath.Get(a.Path, values.ObjectItems(s.Value))
	if err != nil {
		// The library reports an unmatched path as an error; per
		// spec.md §4.4 that is "zero matches" rather than a failure.
		s.Value = values.Null(s.Value)
		return s, nil
	}
	if matches, ok := result.([]any); ok {
		if len(matches) == 0 {
			s.Value = values.Null(s.Value)
			return s, nil
		}
		s.Value = values.FromPrevious(s.Value, matches)
		return s, nil
	}
	s.Value = values.FromPrevious(s.Value, result)
	return s, nil
}

// Flatten requires an Object register and produces a List whose items
// are the object's values, each renamed "<parent>_<key>".
type Flatten struct{}

func NewFlatten([]string) *Flatten { return &Flatten{} }

func (a *Flatten) Run(s *state.MorphState) (*state.MorphState, error) {
	if passthrough(s) {
		return s, nil
	}
	if s.Value.Kind != values.KindObject {
		return nil, &morpherr.TypeError{Action: "Flatten", Expected: "Object", Got: s.Value.Kind.String()}
	}
	old := values.ObjectItems(s.Value)
	items := make([]*values.Value, 0, len(old))
	for k, v := range old {
		nv := values.FromPrevious(s.Value, v)
		nv.ActualName = s.Value.ActualName + "_" + k
		items = append(items, nv)
	}
	flattened := s.Value.Snapshot()
	flattened.Kind = values.KindList
	flattened.Payload = items
	s.Value = flattened
	return s, nil
}

// Apply invokes a registered function against the register's raw
// payload and rewraps the result by shape: a []any becomes a List of
// re-inferred Values, a map[string]any becomes an Object, a scalar
// becomes a Scalar of the matching TempType.
type Apply struct {
	FnName string
	fn     registry.Func
}

func NewApply(args []string, reg *registry.Registry) (*Apply, error) {
	name := args[0]
	fn, ok := reg.Lookup(name)
	if !ok {
		return nil, &morpherr.TranslationError{Reason: "Transformation.APPLY: function not registered: " + name}
	}
	return &Apply{FnName: name, fn: fn}, nil
}

func (a *Apply) Run(s *state.MorphState) (*state.MorphState, error) {
	if s.Value.Kind == values.KindAbsent {
		return s, nil
	}
	result := a.fn(s.Value.Payload)
	switch r := result.(type) {
	case []any:
		items := make([]*values.Value, len(r))
		for i, it := range r {
			items[i] = values.FromPrevious(s.Value, it)
		}
		wrapped := s.Value.Snapshot()
		wrapped.Kind = values.KindList
		wrapped.Payload = items
		s.Value = wrapped
	case map[string]any:
		wrapped := s.Value.Snapshot()
		wrapped.Kind = values.KindObject
		wrapped.Payload = r
		s.Value = wrapped
	case int, int64, float64, bool, string:
		s.Value = values.FromPrevious(s.Value, r)
	default:
		return nil, &morpherr.RuntimeError{Reason: "Transformation.APPLY: function returned unsupported shape"}
	}
	return s, nil
}

// Lower lowercases a string Scalar register; no-op otherwise.
type Lower struct{}

func NewLower([]string) *Lower { return &Lower{} }

func (a *Lower) Run(s *state.MorphState) (*state.MorphState, error) {
	if s.Value.Kind == values.KindAbsent || s.Value.Kind != values.KindScalar {
		return s, nil
	}
	if str, ok := s.Value.Payload.(string); ok {
		s.Value = values.FromPrevious(s.Value, strings.ToLower(str))
	}
	return s, nil
}

// Upper uppercases a string Scalar register; no-op otherwise.
type Upper struct{}

func NewUpper([]string) *Upper { return &Upper{} }

func (a *Upper) Run(s *state.MorphState) (*state.MorphState, error) {
	if s.Value.Kind == values.KindAbsent || s.Value.Kind != values.KindScalar {
		return s, nil
	}
	if str, ok := s.Value.Payload.(string); ok {
		s.Value = values.FromPrevious(s.Value, strings.ToUpper(str))
	}
	return s, nil
}

// ---- Naming ----
// Every Naming action also snapshots the current register into
// TempFields under its (possibly just-updated) actual name.

// Alias sets ActualName to the given name, or back to OriginalName if
// no name was supplied.
type Alias struct {
	Name string
	set  bool
}

func NewAlias(args []string) *Alias {
	if len(args) == 0 {
		return &Alias{}
	}
	return &Alias{Name: args[0], set: true}
}

func (a *Alias) Run(s *state.MorphState) (*state.MorphState, error) {
	if a.set {
		s.Value.ActualName = a.Name
	} else {
		s.Value.ActualName = s.Value.OriginalName
	}
	s.TempFields[s.Value.ActualName] = s.Value.Snapshot()
	return s, nil
}

// Prefix prepends a string to ActualName (or OriginalName if
// ActualName is empty).
type Prefix struct {
	Text string
}

func NewPrefix(args []string) *Prefix { return &Prefix{Text: args[0]} }

func (a *Prefix) Run(s *state.MorphState) (*state.MorphState, error) {
	if s.Value.ActualName != "" {
		s.Value.ActualName = a.Text + s.Value.ActualName
	} else {
		s.Value.ActualName = a.Text + s.Value.OriginalName
	}
	s.TempFields[s.Value.ActualName] = s.Value.Snapshot()
	return s, nil
}

// Suffix appends a string to ActualName (or OriginalName if
// ActualName is empty).
type Suffix struct {
	Text string
}

func NewSuffix(args []string) *Suffix { return &Suffix{Text: args[0]} }

func (a *Suffix) Run(s *state.MorphState) (*state.MorphState, error) {
	if s.Value.ActualName != "" {
		s.Value.ActualName = s.Value.ActualName + a.Text
	} else {
		s.Value.ActualName = s.Value.OriginalName + a.Text
	}
	s.TempFields[s.Value.ActualName] = s.Value.Snapshot()
	return s, nil
}

// Split requires a List register and snapshots each element into
// TempFields under "<element-actual-name>$<index>", without
// consuming the register (spec.md §9 Open Questions).
type Split struct{}

func NewSplit([]string) *Split { return &Split{} }

func (a *Split) Run(s *state.MorphState) (*state.MorphState, error) {
	if passthrough(s) {
		s.TempFields[s.Value.ActualName] = s.Value.Snapshot()
		return s, nil
	}
	if s.Value.Kind != values.KindList {
		return nil, &morpherr.TypeError{Action: "Split", Expected: "List", Got: s.Value.Kind.String()}
	}
	items := values.ListItems(s.Value)
	for i, raw := range items {
		v := values.FromPrevious(s.Value, raw)
		key := v.ActualName + "$" + strconv.Itoa(i)
		s.TempFields[key] = v.Snapshot()
	}
	s.TempFields[s.Value.ActualName] = s.Value.Snapshot()
	return s, nil
}

// ---- Casting ----
// Every Casting action is terminal: it moves the register into
// FinalFields under its actual name and resets the register to
// Absent.

func commit(s *state.MorphState, target values.FinalType, result any) {
	committed := s.Value.Snapshot()
	committed.Payload = result
	committed.ActualType = target
	s.FinalFields[committed.ActualName] = committed
	s.Value = &values.Value{Kind: values.KindAbsent}
}

// Cast is the strict casting variant: a failure propagates.
type Cast struct {
	Target values.FinalType
}

func NewCast(args []string) (*Cast, error) {
	t, err := values.ParseFinalType(args[0])
	if err != nil {
		return nil, &morpherr.TranslationError{Reason: err.Error()}
	}
	return &Cast{Target: t}, nil
}

func (a *Cast) Run(s *state.MorphState) (*state.MorphState, error) {
	result, err := caster.Cast(a.Target, s.Value.Payload, caster.Strict, nil)
	if err != nil {
		return nil, err
	}
	commit(s, a.Target, result)
	return s, nil
}

// SafeCast stores a Null payload on cast failure.
type SafeCast struct {
	Target values.FinalType
}

func NewSafeCast(args []string) (*SafeCast, error) {
	t, err := values.ParseFinalType(args[0])
	if err != nil {
		return nil, &morpherr.TranslationError{Reason: err.Error()}
	}
	return &SafeCast{Target: t}, nil
}

func (a *SafeCast) Run(s *state.MorphState) (*state.MorphState, error) {
	result, _ := caster.Cast(a.Target, s.Value.Payload, caster.Safe, nil)
	commit(s, a.Target, result)
	return s, nil
}

// DefaultCast stores the configured default (or the type's zero
// default) on cast failure.
type DefaultCast struct {
	Target  values.FinalType
	Default any
}

func NewDefaultCast(args []string) (*DefaultCast, error) {
	t, err := values.ParseFinalType(args[0])
	if err != nil {
		return nil, &morpherr.TranslationError{Reason: err.Error()}
	}
	dc := &DefaultCast{Target: t}
	if len(args) > 1 {
		dc.Default = args[1]
	}
	return dc, nil
}

func (a *DefaultCast) Run(s *state.MorphState) (*state.MorphState, error) {
	result, _ := caster.Cast(a.Target, s.Value.Payload, caster.Defaulted, a.Default)
	commit(s, a.Target, result)
	return s, nil
}
