// Package token defines the lexical units produced by the recipe
// lexer: a Part (a whitespace-separated run of words) and a Dot (the
// separator between parts within a line).
package token

import "strings"

// Token is the minimal interface every lexical unit satisfies.
type Token interface {
	// String returns a human-readable form, used in error messages.
	String() string
}

// Dot separates two Parts within a line. It carries no data.
type Dot struct{}

func (Dot) String() string { return "DOT" }

// Part is a non-empty sequence of whitespace-separated word tokens.
// The first word is the opcode; the remaining words are its raw
// string arguments.
type Part struct {
	Words []string
}

// NewPart splits s on whitespace into a Part. Callers must ensure s
// is non-empty after trimming.
func NewPart(s string) Part {
	return Part{Words: strings.Fields(s)}
}

// Opcode returns the first word, or "" if the Part is empty.
func (p Part) Opcode() string {
	if len(p.Words) == 0 {
		return ""
	}
	return p.Words[0]
}

// Args returns every word after the opcode.
func (p Part) Args() []string {
	if len(p.Words) <= 1 {
		return nil
	}
	return p.Words[1:]
}

func (p Part) String() string {
	return "PART: [" + strings.Join(p.Words, ", ") + "]"
}

// Line is the sequence of Parts and Dots produced for one logical
// recipe line (after continuation joining).
type Line []Token
