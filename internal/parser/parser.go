// Package parser turns lexer output into a list of ast.Instructions,
// filling in default operations for categories the recipe author
// skipped, per the canonical Input → Pointer → Transformation →
// Naming → Casting cycle.
package parser

import (
	"fmt"

	"github.com/morpherhq/morpher/internal/ast"
	"github.com/morpherhq/morpher/internal/config"
	"github.com/morpherhq/morpher/internal/token"
	"github.com/rs/zerolog/log"
)

// ParseError is returned for an unknown opcode or an operation with
// the wrong number of arguments.
type ParseError struct {
	Opcode string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: opcode %q: %s", e.Opcode, e.Reason)
}

var opcodeTable = map[string]ast.Operation{
	config.OpTake: {Category: ast.Input, Opcode: ast.Take},
	config.OpDrop: {Category: ast.Input, Opcode: ast.Drop},

	config.OpFull:    {Category: ast.Pointer, Opcode: ast.Full},
	config.OpFullAll: {Category: ast.Pointer, Opcode: ast.Full},
	config.OpPartial: {Category: ast.Pointer, Opcode: ast.Partial},
	config.OpFirst:   {Category: ast.Pointer, Opcode: ast.First},
	config.OpLast:    {Category: ast.Pointer, Opcode: ast.Last},
	config.OpNth:     {Category: ast.Pointer, Opcode: ast.Nth},

	config.OpID:      {Category: ast.Transformation, Opcode: ast.ID},
	config.OpIDAlias: {Category: ast.Transformation, Opcode: ast.ID},
	config.OpExtract: {Category: ast.Transformation, Opcode: ast.Extract},
	config.OpFlatten: {Category: ast.Transformation, Opcode: ast.Flatten},
	config.OpApply:   {Category: ast.Transformation, Opcode: ast.Apply},
	config.OpLower:   {Category: ast.Transformation, Opcode: ast.Lower},
	config.OpUpper:   {Category: ast.Transformation, Opcode: ast.Upper},

	config.OpAlias:      {Category: ast.Naming, Opcode: ast.Alias},
	config.OpAliasAlias: {Category: ast.Naming, Opcode: ast.Alias},
	config.OpPrefix:     {Category: ast.Naming, Opcode: ast.Prefix},
	config.OpSuffix:     {Category: ast.Naming, Opcode: ast.Suffix},
	config.OpSplit:      {Category: ast.Naming, Opcode: ast.Split},

	config.OpCast:        {Category: ast.Casting, Opcode: ast.Cast},
	config.OpCastAlias:   {Category: ast.Casting, Opcode: ast.Cast},
	config.OpSafeCast:    {Category: ast.Casting, Opcode: ast.SafeCast},
	config.OpDefaultCast: {Category: ast.Casting, Opcode: ast.DefaultCast},
}

// minArgs is the minimum argument count required for opcodes that take
// mandatory arguments. Opcodes absent from this map accept any number
// of arguments (including zero).
var minArgs = map[ast.Opcode]int{
	ast.Take:       1,
	ast.Drop:       1,
	ast.Partial:    1,
	ast.Nth:        1,
	ast.Extract:    1,
	ast.Apply:      1,
	ast.Prefix:     1,
	ast.Suffix:     1,
	ast.Cast:       1,
	ast.SafeCast:   1,
	ast.DefaultCast: 1,
}

// Parser converts lexer Lines into Instructions.
type Parser struct{}

// New returns a Parser.
func New() *Parser {
	return &Parser{}
}

// operationOrder is the canonical cycle used to fill gaps between an
// instruction's operations.
var operationOrder = [numCategoriesConst]ast.Category{
	ast.Input, ast.Pointer, ast.Transformation, ast.Naming, ast.Casting,
}

const numCategoriesConst = 5

func categoryIndex(c ast.Category) int {
	for i, oc := range operationOrder {
		if oc == c {
			return i
		}
	}
	panic("parser: unknown category")
}

// fillOperations returns the default Operations to insert between an
// operation of category prev and one of category curr, following the
// cycle Input → Pointer → Transformation → Naming → Casting and
// wrapping around when curr is not strictly to the right of prev.
// Input and Casting are never auto-filled.
func fillOperations(prev, curr ast.Category) []ast.Operation {
	if curr == operationOrder[0] {
		return nil
	}

	prevIdx := categoryIndex(prev)
	currIdx := categoryIndex(curr)

	var toFill []ast.Category
	if currIdx > prevIdx {
		toFill = append(toFill, operationOrder[prevIdx+1:currIdx]...)
	} else {
		toFill = append(toFill, operationOrder[prevIdx+1:]...)
		toFill = append(toFill, operationOrder[:currIdx]...)
	}

	var result []ast.Operation
	for _, c := range toFill {
		if c == ast.Input || c == ast.Casting {
			continue
		}
		result = append(result, ast.DefaultOperation(c))
	}
	return result
}

// Parse converts lexer Lines into Instructions. Each Line becomes one
// Instruction.
func (p *Parser) Parse(lines []token.Line) ([]ast.Instruction, error) {
	instructions := make([]ast.Instruction, 0, len(lines))

	for _, line := range lines {
		var operations []ast.Operation
		prevCategory := operationOrder[0]
		havePrev := false

		for _, tok := range line {
			part, ok := tok.(token.Part)
			if !ok {
				continue // Dot (or any other non-Part token) yields no Operation.
			}

			op, err := operationFromPart(part)
			if err != nil {
				log.Error().Err(err).Str("opcode", part.Opcode()).Msg("parser: failed to build operation")
				return nil, err
			}

			if !havePrev {
				prevCategory = operationOrder[0]
				havePrev = true
			}

			operations = append(operations, fillOperations(prevCategory, op.Category)...)
			operations = append(operations, op)
			prevCategory = op.Category
		}

		instructions = append(instructions, ast.Instruction{Operations: operations})
	}

	return instructions, nil
}

func operationFromPart(part token.Part) (ast.Operation, error) {
	template, ok := opcodeTable[part.Opcode()]
	if !ok {
		return ast.Operation{}, &ParseError{Opcode: part.Opcode(), Reason: "unknown opcode"}
	}

	args := part.Args()
	if need, ok := minArgs[template.Opcode]; ok && len(args) < need {
		return ast.Operation{}, &ParseError{
			Opcode: part.Opcode(),
			Reason: fmt.Sprintf("expects at least %d argument(s), got %d", need, len(args)),
		}
	}

	// Pointer.NTH's integer argument is parsed at action-construction
	// time (see internal/actions), not here.
	return ast.Operation{Category: template.Category, Opcode: template.Opcode, Args: args}, nil
}
