// Package morpherr defines the error taxonomy spec.md §7 describes:
// one exported type per stage that can fail, each carrying enough
// context to explain itself without inspecting a generic string. The
// lex, parse and cast errors live beside their stages instead
// (lexer.LexError, parser.ParseError, caster.CastError).
package morpherr

import "fmt"

// TranslationError signals an Operation with no corresponding Action
// (an opcode the op-to-action table doesn't cover) or an Apply whose
// target function isn't registered.
type TranslationError struct {
	Reason string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation: %s", e.Reason)
}

// TypeError signals an action receiving a register Value of the
// wrong Kind (e.g. Partial on a List).
type TypeError struct {
	Action   string
	Expected string
	Got      string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error: %s expects %s, got %s", e.Action, e.Expected, e.Got)
}

// RuntimeError signals a failure with no narrower category: an Apply
// result of an unsupported shape, or morph() invoked before translate.
type RuntimeError struct {
	Reason string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s", e.Reason)
}
