package parser_test

import (
	"testing"

	"github.com/morpherhq/morpher/internal/ast"
	"github.com/morpherhq/morpher/internal/lexer"
	"github.com/morpherhq/morpher/internal/parser"
)

func mustParse(t *testing.T, src string) []ast.Instruction {
	t.Helper()
	lines, err := lexer.New().Tokenize(src)
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	instructions, err := parser.New().Parse(lines)
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	return instructions
}

func categories(instr ast.Instruction) []ast.Category {
	var out []ast.Category
	for _, op := range instr.Operations {
		out = append(out, op.Category)
	}
	return out
}

func TestDefaultsAreFilledInCanonicalOrder(t *testing.T) {
	instructions := mustParse(t, "take n . ^cast integer\n")
	if len(instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(instructions))
	}
	got := categories(instructions[0])
	want := []ast.Category{ast.Input, ast.Pointer, ast.Transformation, ast.Naming, ast.Casting}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBackwardJumpWrapsAround(t *testing.T) {
	// Two Pointer operations in a row: the second Pointer's category is
	// "equal" to the previous one, so the tie-break rule inserts the
	// full cycle (Transformation, Naming) before looping back to
	// Pointer; reaching Casting afterwards fills the cycle once more.
	instructions := mustParse(t, "take tags . #first . #last . ^cast json\n")
	got := categories(instructions[0])
	want := []ast.Category{
		ast.Input, ast.Pointer, ast.Transformation, ast.Naming,
		ast.Pointer, ast.Transformation, ast.Naming, ast.Casting,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v (%d ops), got %v (%d ops)", want, len(want), got, len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestUnknownOpcodeIsParseError(t *testing.T) {
	lines, err := lexer.New().Tokenize("take n . %bogus\n")
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	if _, err := parser.New().Parse(lines); err == nil {
		t.Fatal("expected a parse error for an unknown opcode, got nil")
	}
}

func TestBareAliasesResolveToTheirDefaults(t *testing.T) {
	instructions := mustParse(t, "take x . # . ! . @ . ^ string\n")
	ops := instructions[0].Operations
	want := []ast.Opcode{ast.Take, ast.Full, ast.ID, ast.Alias, ast.Cast}
	if len(ops) != len(want) {
		t.Fatalf("expected %d operations, got %d", len(want), len(ops))
	}
	for i, op := range ops {
		if op.Opcode != want[i] {
			t.Fatalf("operation %d: expected opcode %d, got %d", i, want[i], op.Opcode)
		}
	}
}
