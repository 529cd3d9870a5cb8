// Package recipe lowers parsed ast.Instructions to an executable
// action list (spec.md §4.3 "Recipe translation") and runs that list
// against an input document (spec.md §4.5 "Executor").
package recipe

import (
	"fmt"

	"github.com/morpherhq/morpher/internal/actions"
	"github.com/morpherhq/morpher/internal/ast"
	"github.com/morpherhq/morpher/internal/caster"
	"github.com/morpherhq/morpher/internal/morpherr"
	"github.com/morpherhq/morpher/internal/registry"
	"github.com/morpherhq/morpher/internal/state"
	"github.com/morpherhq/morpher/internal/values"
	"github.com/rs/zerolog/log"
)

// SourceFieldStrategy controls how fields the recipe's explicit
// instructions never touch are handled.
type SourceFieldStrategy int

const (
	// AutoDrop leaves untouched source fields out of the output.
	AutoDrop SourceFieldStrategy = iota
	// AutoFinalize synthesizes a default "take NAME . #full . !id .
	// @alias . ^cast <finaltype>" instruction for every source field,
	// run before the explicit instructions.
	AutoFinalize
)

// Options configures a Recipe's translation.
type Options struct {
	SourceFieldsStrategy          SourceFieldStrategy `yaml:"source_fields_strategy"`
	WithSourceFieldsTimestampCast bool                `yaml:"with_source_fields_timestamp_cast"`
}

// Recipe is an ordered action list plus the options that produced it.
// Once Translate has run, a Recipe is immutable and safe to share
// across concurrently running morphs (spec.md §5).
type Recipe struct {
	opts     Options
	registry *registry.Registry

	actionsList []actions.Action
	isSetUp     bool
}

// New returns a Recipe with the given options, bound to reg for
// Transformation.APPLY lookups. A nil reg uses registry.Default().
func New(opts Options, reg *registry.Registry) *Recipe {
	if reg == nil {
		reg = registry.Default()
	}
	return &Recipe{opts: opts, registry: reg}
}

// Translate lowers instructions to Actions and marks the Recipe ready
// to morph. It returns the Recipe for chaining.
func (r *Recipe) Translate(instructions []ast.Instruction) (*Recipe, error) {
	list, err := translateInstructions(instructions, r.registry)
	if err != nil {
		return nil, err
	}
	r.actionsList = list
	r.isSetUp = true
	return r, nil
}

func translateInstructions(instructions []ast.Instruction, reg *registry.Registry) ([]actions.Action, error) {
	var list []actions.Action
	for _, instr := range instructions {
		for _, op := range instr.Operations {
			action, err := actionFor(op, reg)
			if err != nil {
				return nil, err
			}
			list = append(list, action)
		}
	}
	return list, nil
}

func actionFor(op ast.Operation, reg *registry.Registry) (actions.Action, error) {
	switch op.Category {
	case ast.Input:
		switch op.Opcode {
		case ast.Take:
			return actions.NewTake(op.Args), nil
		case ast.Drop:
			return actions.NewDrop(op.Args), nil
		}
	case ast.Pointer:
		switch op.Opcode {
		case ast.Full:
			return actions.NewFull(op.Args), nil
		case ast.Partial:
			return actions.NewPartial(op.Args), nil
		case ast.First:
			return actions.NewFirst(op.Args), nil
		case ast.Last:
			return actions.NewLast(op.Args), nil
		case ast.Nth:
			return actions.NewNth(op.Args)
		}
	case ast.Transformation:
		switch op.Opcode {
		case ast.ID:
			return actions.NewID(op.Args), nil
		case ast.Extract:
			return actions.NewExtract(op.Args), nil
		case ast.Flatten:
			return actions.NewFlatten(op.Args), nil
		case ast.Apply:
			return actions.NewApply(op.Args, reg)
		case ast.Lower:
			return actions.NewLower(op.Args), nil
		case ast.Upper:
			return actions.NewUpper(op.Args), nil
		}
	case ast.Naming:
		switch op.Opcode {
		case ast.Alias:
			return actions.NewAlias(op.Args), nil
		case ast.Prefix:
			return actions.NewPrefix(op.Args), nil
		case ast.Suffix:
			return actions.NewSuffix(op.Args), nil
		case ast.Split:
			return actions.NewSplit(op.Args), nil
		}
	case ast.Casting:
		switch op.Opcode {
		case ast.Cast:
			return actions.NewCast(op.Args)
		case ast.SafeCast:
			return actions.NewSafeCast(op.Args)
		case ast.DefaultCast:
			return actions.NewDefaultCast(op.Args)
		}
	}
	return nil, &morpherr.TranslationError{Reason: fmt.Sprintf("no action registered for %s operation (opcode %d)", op.Category, op.Opcode)}
}

var tempTypeToFinalTypeName = map[values.TempType]string{
	values.TempString:  "string",
	values.TempBool:    "bool",
	values.TempFloat:   "float",
	values.TempInteger: "integer",
	values.TempList:    "json",
	values.TempObject:  "json",
}

// defaultInstruction builds the synthesized "take NAME . #full . !id
// . @alias . ^cast <finaltype>" instruction AUTO_FINALIZE inserts for
// one source field.
func (r *Recipe) defaultInstruction(name string, v *values.Value) ast.Instruction {
	finalTypeName := tempTypeToFinalTypeName[v.OriginalType]

	if finalTypeName == "string" && r.opts.WithSourceFieldsTimestampCast {
		if s, ok := v.Payload.(string); ok {
			if _, err := caster.Cast(values.FinalTimestamp, s, caster.Strict, nil); err == nil {
				finalTypeName = "timestamp"
			}
		}
	}

	return ast.Instruction{Operations: []ast.Operation{
		{Category: ast.Input, Opcode: ast.Take, Args: []string{name}},
		{Category: ast.Pointer, Opcode: ast.Full},
		{Category: ast.Transformation, Opcode: ast.ID},
		{Category: ast.Naming, Opcode: ast.Alias},
		{Category: ast.Casting, Opcode: ast.Cast, Args: []string{finalTypeName}},
	}}
}

// prependAutoFinalize synthesizes default instructions for every
// source field and prepends their actions, so explicit user
// instructions can still override the alias/type (they run after).
func (r *Recipe) prependAutoFinalize(s *state.MorphState) ([]actions.Action, error) {
	if r.opts.SourceFieldsStrategy != AutoFinalize {
		return r.actionsList, nil
	}

	var instructions []ast.Instruction
	for name, v := range s.SourceFields {
		instructions = append(instructions, r.defaultInstruction(name, v))
	}
	autoActions, err := translateInstructions(instructions, r.registry)
	if err != nil {
		return nil, err
	}
	return append(autoActions, r.actionsList...), nil
}

// Morph runs the Recipe against an input document and returns the
// output document, its per-field metadata, and the final MorphState
// (spec.md §4.5).
func (r *Recipe) Morph(input map[string]any) (map[string]any, map[string]any, *state.MorphState, error) {
	if !r.isSetUp {
		return nil, nil, nil, &morpherr.RuntimeError{Reason: "Recipe.Morph called before Translate"}
	}

	s := state.New(input)
	actionsList, err := r.prependAutoFinalize(s)
	if err != nil {
		return nil, nil, nil, err
	}

	log.Debug().Str("run_id", s.RunID.String()).Int("actions", len(actionsList)).Msg("recipe: starting morph")

	for _, action := range actionsList {
		next, err := action.Run(s)
		if err != nil {
			log.Error().Str("run_id", s.RunID.String()).Err(err).Msg("recipe: action failed")
			return nil, nil, nil, err
		}
		s = next
	}

	output, metadata := stateToOutput(s)
	return output, metadata, s, nil
}

func stateToOutput(s *state.MorphState) (map[string]any, map[string]any) {
	output := make(map[string]any, len(s.FinalFields))
	metadata := make(map[string]any, len(s.FinalFields))

	for name, v := range s.FinalFields {
		if dropped, ok := s.DroppedFields[name]; ok && v.StructurallyEqual(dropped) {
			continue
		}
		output[name] = v.Payload
		metadata[name] = map[string]any{
			"from_field":      v.OriginalName,
			"from_field_type": v.OriginalType.String(),
			"type":            v.ActualType.String(),
		}
	}
	return output, metadata
}
