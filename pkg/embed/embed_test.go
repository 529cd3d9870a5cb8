package embed_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/morpherhq/morpher/pkg/embed"
)

func TestMorphFromInMemorySourceAndText(t *testing.T) {
	out, meta, state, err := embed.Morph(
		embed.FromMap(map[string]any{"n": int64(5)}),
		embed.FromText("take n . ^cast integer\n"),
		embed.Options{},
	)
	if err != nil {
		t.Fatalf("Morph error: %v", err)
	}
	if out["n"] != int64(5) {
		t.Fatalf("expected n=5, got %#v", out)
	}
	if meta["n"] == nil {
		t.Fatal("expected metadata for n")
	}
	if state == nil {
		t.Fatal("expected a non-nil MorphState")
	}
}

func TestMorphFromFilePaths(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc.json")
	recipePath := filepath.Join(dir, "recipe.morph")

	if err := os.WriteFile(docPath, []byte(`{"n": 7}`), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	if err := os.WriteFile(recipePath, []byte("take n . ^cast integer\n"), 0o644); err != nil {
		t.Fatalf("write recipe: %v", err)
	}

	out, _, _, err := embed.Morph(
		embed.FromJSONFile(docPath),
		embed.FromFile(recipePath),
		embed.Options{},
	)
	if err != nil {
		t.Fatalf("Morph error: %v", err)
	}
	if out["n"] != int64(7) {
		t.Fatalf("expected n=7, got %#v", out)
	}
}

func TestCreateMorphReusesPreparedRecipe(t *testing.T) {
	morph, err := embed.CreateMorph(embed.FromText("take n . ^cast integer\n"), embed.Options{})
	if err != nil {
		t.Fatalf("CreateMorph error: %v", err)
	}

	out1, _, _, err := morph(embed.FromMap(map[string]any{"n": int64(1)}))
	if err != nil {
		t.Fatalf("morph call 1: %v", err)
	}
	out2, _, _, err := morph(embed.FromMap(map[string]any{"n": int64(2)}))
	if err != nil {
		t.Fatalf("morph call 2: %v", err)
	}
	if out1["n"] != int64(1) || out2["n"] != int64(2) {
		t.Fatalf("expected independent morphs to reflect their own input, got %#v and %#v", out1, out2)
	}
}

func TestRegisterFunctionIsVisibleToDefaultRegistryMorph(t *testing.T) {
	embed.RegisterFunction("embed_test_double", func(v any) any {
		n, _ := v.(int64)
		return n * 2
	})

	out, _, _, err := embed.Morph(
		embed.FromMap(map[string]any{"n": int64(21)}),
		embed.FromText("take n . !apply embed_test_double . ^cast integer\n"),
		embed.Options{},
	)
	if err != nil {
		t.Fatalf("Morph error: %v", err)
	}
	if out["n"] != int64(42) {
		t.Fatalf("expected n=42, got %#v", out)
	}
}

func TestLoadOptionsYAML(t *testing.T) {
	doc := []byte("source_fields_strategy: AUTO_FINALIZE\nwith_source_fields_timestamp_cast: true\n")
	opts, err := embed.LoadOptionsYAML(doc)
	if err != nil {
		t.Fatalf("LoadOptionsYAML error: %v", err)
	}
	if opts.SourceFieldsStrategy != embed.AutoFinalize {
		t.Fatalf("expected AUTO_FINALIZE, got %v", opts.SourceFieldsStrategy)
	}
	if !opts.WithSourceFieldsTimestampCast {
		t.Fatal("expected WithSourceFieldsTimestampCast=true")
	}
}
