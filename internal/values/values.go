// Package values implements the tagged Value the recipe pipeline
// threads through every action: a Scalar, List, Object, Null or
// Absent payload plus provenance (original/actual name and type).
package values

import "fmt"

// TempType is the type lattice inferred once at ingestion and mutated
// structurally as Pointer/Transformation actions reshape a Value.
type TempType int

const (
	TempUnknown TempType = iota
	TempString
	TempInteger
	TempFloat
	TempBool
	TempList
	TempObject
)

func (t TempType) String() string {
	switch t {
	case TempString:
		return "STRING"
	case TempInteger:
		return "INTEGER"
	case TempFloat:
		return "FLOAT"
	case TempBool:
		return "BOOL"
	case TempList:
		return "LIST"
	case TempObject:
		return "OBJECT"
	default:
		return "UNKNOWN"
	}
}

// FinalType is the type lattice a Value is cast into by a Casting
// action. It satisfies the same ActualType slot TempType does, so a
// Value's ActualType starts as a TempType and ends as a FinalType.
type FinalType int

const (
	FinalUnknown FinalType = iota
	FinalString
	FinalInteger
	FinalDecimal
	FinalFloat
	FinalTimestamp
	FinalUnixtime
	FinalUnixtimeMs
	FinalBool
	FinalJSON
	FinalDate
)

func (t FinalType) String() string {
	switch t {
	case FinalString:
		return "STRING"
	case FinalInteger:
		return "INTEGER"
	case FinalDecimal:
		return "DECIMAL"
	case FinalFloat:
		return "FLOAT"
	case FinalTimestamp:
		return "TIMESTAMP"
	case FinalUnixtime:
		return "UNIXTIME"
	case FinalUnixtimeMs:
		return "UNIXTIME_MS"
	case FinalBool:
		return "BOOL"
	case FinalJSON:
		return "JSON"
	case FinalDate:
		return "DATE"
	default:
		return "UNKNOWN"
	}
}

var finalTypeNames = map[string]FinalType{
	"string":      FinalString,
	"integer":     FinalInteger,
	"decimal":     FinalDecimal,
	"float":       FinalFloat,
	"timestamp":   FinalTimestamp,
	"unixtime":    FinalUnixtime,
	"unixtime_ms": FinalUnixtimeMs,
	"bool":        FinalBool,
	"json":        FinalJSON,
	"date":        FinalDate,
}

// ParseFinalType resolves a recipe-text final type name (e.g.
// "timestamp") to its FinalType constant.
func ParseFinalType(name string) (FinalType, error) {
	t, ok := finalTypeNames[name]
	if !ok {
		return FinalUnknown, fmt.Errorf("values: unknown final type %q", name)
	}
	return t, nil
}

// Kind tags which variant a Value currently is.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindObject
	KindNull
	KindAbsent
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindList:
		return "List"
	case KindObject:
		return "Object"
	case KindNull:
		return "Null"
	case KindAbsent:
		return "Absent"
	default:
		return "Unknown"
	}
}

// Typer is satisfied by both TempType and FinalType, letting
// ActualType hold either without an interface{} escape hatch at every
// call site.
type Typer interface {
	fmt.Stringer
}

// Value is the unit of data flowing through the recipe pipeline.
type Value struct {
	Kind Kind

	OriginalName string
	ActualName   string
	OriginalType TempType
	ActualType   Typer

	// Scalar: int64 | float64 | bool | string
	// List: []any (as ingested, or from Extract) or []*Value (from
	// Flatten/Apply)
	// Object: map[string]any
	// Null, Absent: nil
	Payload any
}

// NewAbsent returns an Absent placeholder Value with the given
// original name and no other provenance.
func NewAbsent(name string) *Value {
	return &Value{Kind: KindAbsent, OriginalName: name, ActualName: name}
}

// FromRaw infers a Value's Kind/TempType from a raw decoded-JSON
// shape (nil, bool, float64/int, string, []any, map[string]any) and
// sets both OriginalType and ActualType to the inferred TempType. Used
// at ingestion, when building MorphState.SourceFields from the input
// document.
func FromRaw(name string, raw any) *Value {
	v := &Value{OriginalName: name, ActualName: name}
	switch x := raw.(type) {
	case nil:
		v.Kind = KindNull
	case bool:
		v.Kind, v.OriginalType, v.Payload = KindScalar, TempBool, x
	case int:
		v.Kind, v.OriginalType, v.Payload = KindScalar, TempInteger, int64(x)
	case int64:
		v.Kind, v.OriginalType, v.Payload = KindScalar, TempInteger, x
	case float64:
		v.Kind, v.OriginalType, v.Payload = KindScalar, TempFloat, x
	case string:
		v.Kind, v.OriginalType, v.Payload = KindScalar, TempString, x
	case []any:
		v.Kind, v.OriginalType, v.Payload = KindList, TempList, x
	case map[string]any:
		v.Kind, v.OriginalType, v.Payload = KindObject, TempObject, x
	default:
		panic(fmt.Sprintf("values: unsupported raw shape %T", raw))
	}
	v.ActualType = v.OriginalType
	return v
}

// FromPrevious wraps a raw element produced mid-pipeline (e.g. a list
// item selected by First/Last/Nth, or an Apply result), inheriting
// provenance from prev but re-inferring Kind/ActualType from val's
// shape. An element that is already a *Value is returned as is.
func FromPrevious(prev *Value, val any) *Value {
	nv := &Value{
		OriginalName: prev.OriginalName,
		ActualName:   prev.ActualName,
		OriginalType: prev.OriginalType,
	}
	switch x := val.(type) {
	case nil:
		nv.Kind = KindNull
	case bool:
		nv.Kind, nv.ActualType, nv.Payload = KindScalar, TempBool, x
	case int:
		nv.Kind, nv.ActualType, nv.Payload = KindScalar, TempInteger, int64(x)
	case int64:
		nv.Kind, nv.ActualType, nv.Payload = KindScalar, TempInteger, x
	case float64:
		nv.Kind, nv.ActualType, nv.Payload = KindScalar, TempFloat, x
	case string:
		nv.Kind, nv.ActualType, nv.Payload = KindScalar, TempString, x
	case []any:
		nv.Kind, nv.ActualType, nv.Payload = KindList, TempList, x
	case map[string]any:
		nv.Kind, nv.ActualType, nv.Payload = KindObject, TempObject, x
	case *Value:
		return x
	default:
		panic(fmt.Sprintf("values: unsupported intermediate shape %T", val))
	}
	return nv
}

// Null returns a Null Value inheriting prev's provenance, produced by
// an explicit navigation failure (empty list, out-of-range index,
// zero jsonpath matches).
func Null(prev *Value) *Value {
	return &Value{
		Kind:         KindNull,
		OriginalName: prev.OriginalName,
		ActualName:   prev.ActualName,
		OriginalType: prev.OriginalType,
		ActualType:   prev.ActualType,
	}
}

// Snapshot returns a shallow copy of v: the wrapper is duplicated but
// the payload is shared, which is safe because the payload is treated
// as immutable once produced.
func (v *Value) Snapshot() *Value {
	cp := *v
	return &cp
}

// ListItems returns a List Value's elements as a plain slice,
// regardless of whether the payload is still raw ([]any, as ingested)
// or already wrapped ([]*Value, as produced by Flatten/Apply).
func ListItems(v *Value) []any {
	switch items := v.Payload.(type) {
	case []any:
		return items
	case []*Value:
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = it
		}
		return out
	case nil:
		return nil
	default:
		panic(fmt.Sprintf("values: list payload has unexpected shape %T", v.Payload))
	}
}

// ObjectItems returns an Object Value's entries as a plain map of raw
// values (as ingested, and as kept by Partial), or nil for a nil
// payload.
func ObjectItems(v *Value) map[string]any {
	switch m := v.Payload.(type) {
	case map[string]any:
		return m
	case nil:
		return nil
	default:
		panic(fmt.Sprintf("values: object payload has unexpected shape %T", v.Payload))
	}
}

// StructurallyEqual reports whether two Values carry the same kind,
// original and actual name, and payload (compared by its fmt.Sprint
// rendering); OriginalType and ActualType are not compared. It is used
// by the executor to recognize a
// final_fields entry that is really the same Value dropped earlier
// (spec.md §4.5 step 5, §9 "dropped_fields deduplication").
func (v *Value) StructurallyEqual(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind || v.OriginalName != other.OriginalName || v.ActualName != other.ActualName {
		return false
	}
	return fmt.Sprint(v.Payload) == fmt.Sprint(other.Payload)
}
