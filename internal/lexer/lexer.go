// Package lexer tokenizes recipe text into a sequence of Lines, each a
// flat run of token.Part / token.Dot values, ready for the parser.
package lexer

import (
	"fmt"
	"strings"

	"github.com/morpherhq/morpher/internal/config"
	"github.com/morpherhq/morpher/internal/token"
	"github.com/rs/zerolog/log"
)

// LexError is returned when a recipe line cannot be tokenized.
type LexError struct {
	Line int
	Text string
	Err  error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer: line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *LexError) Unwrap() error { return e.Err }

// Lexer tokenizes recipe source text.
type Lexer struct{}

// New returns a Lexer. It carries no state of its own; each call to
// Tokenize is independent.
func New() *Lexer {
	return &Lexer{}
}

// Tokenize splits s into Lines per spec: empty lines and comment lines
// ("--" prefix after trimming leading whitespace) are discarded, a
// line beginning with a tab continues the previous line, and each
// line is split into Parts on the literal " . " separator.
func (l *Lexer) Tokenize(s string) ([]token.Line, error) {
	var result []token.Line
	var prevLineTokens token.Line

	for i, raw := range strings.Split(s, "\n") {
		if len(raw) == 0 {
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(raw, " \t"), config.CommentMarker) {
			continue
		}

		lineTokens, err := l.tokenizeLine(raw, prevLineTokens, len(result) > 0)
		if err != nil {
			wrapped := &LexError{Line: i + 1, Text: raw, Err: err}
			log.Error().Int("line", i+1).Err(err).Msg("lexer: failed to tokenize line")
			return nil, wrapped
		}

		if strings.HasPrefix(raw, config.ContinuationPrefix) {
			// Continuation: replace the previous emitted line with the
			// extended one.
			result[len(result)-1] = lineTokens
		} else {
			result = append(result, lineTokens)
		}
		prevLineTokens = lineTokens
	}

	return result, nil
}

func (l *Lexer) tokenizeLine(raw string, prev token.Line, havePrev bool) (token.Line, error) {
	var lineTokens token.Line

	if strings.HasPrefix(raw, config.ContinuationPrefix) {
		if !havePrev {
			return nil, fmt.Errorf("continuation line has no preceding line")
		}
		lineTokens = append(token.Line{}, prev...)
		if len(lineTokens) == 0 || !isDot(lineTokens[len(lineTokens)-1]) {
			lineTokens = append(lineTokens, token.Dot{})
		}
	}

	for _, p := range strings.Split(raw, config.PartSeparator) {
		if len(p) == 0 {
			continue
		}
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		lineTokens = append(lineTokens, token.NewPart(trimmed))
		lineTokens = append(lineTokens, token.Dot{})
	}

	return lineTokens, nil
}

func isDot(t token.Token) bool {
	_, ok := t.(token.Dot)
	return ok
}
