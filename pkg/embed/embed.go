// Package embed is morpher's public embedding surface: register user
// functions, then run a recipe against a document to get back the
// output document, its metadata, and the final MorphState (spec.md
// §6). Loading source documents from a path or recipes from a path
// are thin, explicitly out-of-core conveniences — the pipeline itself
// never touches the filesystem.
package embed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/morpherhq/morpher/internal/lexer"
	"github.com/morpherhq/morpher/internal/parser"
	"github.com/morpherhq/morpher/internal/registry"
	"github.com/morpherhq/morpher/internal/state"
	rcp "github.com/morpherhq/morpher/internal/recipe"
)

// Re-exported so callers configure morphs without importing an
// internal package.
type (
	Options             = rcp.Options
	SourceFieldStrategy = rcp.SourceFieldStrategy
	Recipe              = rcp.Recipe
	MorphState          = state.MorphState
)

const (
	AutoDrop     = rcp.AutoDrop
	AutoFinalize = rcp.AutoFinalize
)

// LoadOptionsYAML decodes Options from a YAML document (see
// internal/recipe.LoadOptionsYAML).
func LoadOptionsYAML(doc []byte) (Options, error) {
	return rcp.LoadOptionsYAML(doc)
}

// Source is either an in-memory document or a path to a JSON file
// holding one (spec.md §6 "source can be an in-memory mapping or a
// filesystem path to a JSON file").
type Source struct {
	dict map[string]any
	path string
}

// FromMap wraps an already-decoded document.
func FromMap(m map[string]any) Source { return Source{dict: m} }

// FromJSONFile loads a document from a JSON file at path when a morph
// resolves the Source.
func FromJSONFile(path string) Source { return Source{path: path} }

func (s Source) resolve() (map[string]any, error) {
	if s.dict != nil {
		return s.dict, nil
	}
	if s.path == "" {
		return nil, fmt.Errorf("embed: source has neither an in-memory document nor a path")
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("embed: reading source file %s: %w", s.path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("embed: parsing source file %s: %w", s.path, err)
	}
	return doc, nil
}

// RecipeSource is a prepared Recipe, raw recipe text, or a path to a
// recipe file (spec.md §6 "recipe can be a prepared Recipe, a string,
// or a filesystem path").
type RecipeSource struct {
	recipe *Recipe
	text   string
	path   string
}

// FromRecipe wraps an already-translated Recipe.
func FromRecipe(r *Recipe) RecipeSource { return RecipeSource{recipe: r} }

// FromText wraps raw recipe source text.
func FromText(text string) RecipeSource { return RecipeSource{text: text} }

// FromFile wraps a path to a recipe file, read when Morph,
// MorphWithRegistry or CreateMorph resolves the RecipeSource.
func FromFile(path string) RecipeSource { return RecipeSource{path: path} }

func (rs RecipeSource) resolve(opts Options, reg *registry.Registry) (*Recipe, error) {
	if rs.recipe != nil {
		return rs.recipe, nil
	}

	text := rs.text
	if text == "" {
		if rs.path == "" {
			return nil, fmt.Errorf("embed: recipe has neither a Recipe, text, nor a path")
		}
		raw, err := os.ReadFile(rs.path)
		if err != nil {
			return nil, fmt.Errorf("embed: reading recipe file %s: %w", rs.path, err)
		}
		text = string(raw)
	}

	tokens, err := lexer.New().Tokenize(text)
	if err != nil {
		return nil, err
	}
	instructions, err := parser.New().Parse(tokens)
	if err != nil {
		return nil, err
	}
	return rcp.New(opts, reg).Translate(instructions)
}

// RegisterFunction adds or replaces a user-defined !apply target in
// the process-wide default registry.
func RegisterFunction(name string, f func(any) any) {
	registry.Default().Register(name, f)
}

// Morph resolves source and recipeSrc and runs the morph, using the
// process-wide default function registry.
func Morph(source Source, recipeSrc RecipeSource, opts Options) (map[string]any, map[string]any, *MorphState, error) {
	return MorphWithRegistry(source, recipeSrc, opts, registry.Default())
}

// MorphWithRegistry is Morph with an explicit, isolated function
// registry (useful for tests that register functions per case without
// leaking into the process-wide default).
func MorphWithRegistry(source Source, recipeSrc RecipeSource, opts Options, reg *registry.Registry) (map[string]any, map[string]any, *MorphState, error) {
	doc, err := source.resolve()
	if err != nil {
		return nil, nil, nil, err
	}
	r, err := recipeSrc.resolve(opts, reg)
	if err != nil {
		return nil, nil, nil, err
	}
	return r.Morph(doc)
}

// CreateMorph prepares recipeSrc once and returns a function that
// morphs any number of source documents against it.
func CreateMorph(recipeSrc RecipeSource, opts Options) (func(Source) (map[string]any, map[string]any, *MorphState, error), error) {
	r, err := recipeSrc.resolve(opts, registry.Default())
	if err != nil {
		return nil, err
	}
	return func(source Source) (map[string]any, map[string]any, *MorphState, error) {
		doc, err := source.resolve()
		if err != nil {
			return nil, nil, nil, err
		}
		return r.Morph(doc)
	}, nil
}
