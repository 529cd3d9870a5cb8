// Package state defines MorphState, the mutable context threaded
// through an action list by the executor.
package state

import (
	"github.com/google/uuid"
	"github.com/morpherhq/morpher/internal/values"
)

// MorphState carries the four field maps and the current register
// Value for a single morph execution (spec.md §3 "MorphState"). It is
// never shared across concurrently running morphs; each morph() call
// builds its own.
type MorphState struct {
	// RunID correlates log lines and chained morphs to one execution;
	// it has no effect on the pipeline's output (spec.md §2 item 7,
	// §5 "for debugging and chaining").
	RunID uuid.UUID

	SourceFields  map[string]*values.Value
	TempFields    map[string]*values.Value
	FinalFields   map[string]*values.Value
	DroppedFields map[string]*values.Value

	// Value is the register: the Value currently under transformation.
	Value *values.Value
}

// New builds a MorphState from a decoded input document, inferring a
// Value per top-level field (spec.md §4.5 step 1).
func New(input map[string]any) *MorphState {
	source := make(map[string]*values.Value, len(input))
	for k, v := range input {
		source[k] = values.FromRaw(k, v)
	}
	return &MorphState{
		RunID:         uuid.New(),
		SourceFields:  source,
		TempFields:    make(map[string]*values.Value),
		FinalFields:   make(map[string]*values.Value),
		DroppedFields: make(map[string]*values.Value),
		Value:         &values.Value{Kind: values.KindAbsent},
	}
}
