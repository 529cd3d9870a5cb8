package recipe_test

import (
	"testing"

	"github.com/morpherhq/morpher/internal/lexer"
	"github.com/morpherhq/morpher/internal/parser"
	"github.com/morpherhq/morpher/internal/recipe"
	"github.com/morpherhq/morpher/internal/registry"
)

func translate(t *testing.T, src string, opts recipe.Options, reg *registry.Registry) *recipe.Recipe {
	t.Helper()
	lines, err := lexer.New().Tokenize(src)
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	instructions, err := parser.New().Parse(lines)
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	r, err := recipe.New(opts, reg).Translate(instructions)
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}
	return r
}

// S1: identity cast to integer.
func TestScenarioIdentityCastToInteger(t *testing.T) {
	r := translate(t, "take n . ^cast integer\n", recipe.Options{}, nil)
	out, meta, _, err := r.Morph(map[string]any{"n": int64(5)})
	if err != nil {
		t.Fatalf("morph error: %v", err)
	}
	if out["n"] != int64(5) {
		t.Fatalf("expected n=5, got %v", out["n"])
	}
	m, ok := meta["n"].(map[string]any)
	if !ok {
		t.Fatalf("expected metadata map for n, got %#v", meta["n"])
	}
	if m["from_field"] != "n" || m["from_field_type"] != "INTEGER" || m["type"] != "INTEGER" {
		t.Fatalf("unexpected metadata: %#v", m)
	}
}

// S2: rename and uppercase.
func TestScenarioRenameAndUppercase(t *testing.T) {
	r := translate(t, "take code . !upper . @alias CODE . ^cast string\n", recipe.Options{}, nil)
	out, meta, _, err := r.Morph(map[string]any{"code": "abc"})
	if err != nil {
		t.Fatalf("morph error: %v", err)
	}
	if out["CODE"] != "ABC" {
		t.Fatalf("expected CODE=ABC, got %#v", out)
	}
	m := meta["CODE"].(map[string]any)
	if m["from_field"] != "code" {
		t.Fatalf("expected from_field=code, got %v", m["from_field"])
	}
}

// S3: extract then safe-cast.
func TestScenarioExtractThenSafeCast(t *testing.T) {
	r := translate(t, "take payload . !extract $.user.id . @alias user_id . ^safe_cast integer\n", recipe.Options{}, nil)

	out, _, _, err := r.Morph(map[string]any{
		"payload": map[string]any{"user": map[string]any{"id": float64(42)}},
	})
	if err != nil {
		t.Fatalf("morph error: %v", err)
	}
	if out["user_id"] != int64(42) {
		t.Fatalf("expected user_id=42, got %#v", out["user_id"])
	}

	outMiss, _, _, err := r.Morph(map[string]any{"payload": map[string]any{"user": map[string]any{}}})
	if err != nil {
		t.Fatalf("morph error: %v", err)
	}
	if v, ok := outMiss["user_id"]; !ok || v != nil {
		t.Fatalf("expected user_id=Null on an unmatched path, got %#v", outMiss["user_id"])
	}
}

// S4: flatten then prefix.
func TestScenarioFlattenThenPrefix(t *testing.T) {
	r := translate(t, "take addr . !flatten . @prefix addr_ . ^cast json\n", recipe.Options{}, nil)
	out, _, _, err := r.Morph(map[string]any{"addr": map[string]any{"city": "NYC"}})
	if err != nil {
		t.Fatalf("morph error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one committed field, got %#v", out)
	}
	for k := range out {
		if k != "addr_addr" {
			t.Fatalf("expected field name addr_addr, got %q", k)
		}
	}
}

// S5: split a registered-function result, then take it again by its
// base name. @split records the Apply result under "tags" in
// TempFields (beside the "tags$<i>" element keys), and Take's exact
// TempFields match wins over SourceFields and the "$" prefix fallback.
func TestScenarioSplitAndApplyByBaseName(t *testing.T) {
	reg := registry.New()
	reg.Register("process_tags", func(payload any) any {
		tags, _ := payload.([]any)
		return []any{tags, int64(len(tags))}
	})

	r := translate(t, "take tags . !apply process_tags . @split\n"+
		"take tags . #first . !id . @alias tags_list . ^cast json\n", recipe.Options{}, reg)

	out, _, _, err := r.Morph(map[string]any{"tags": []any{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("morph error: %v", err)
	}
	if _, ok := out["tags_list"]; !ok {
		t.Fatalf("expected tags_list to be committed, got %#v", out)
	}
}

// S6: AUTO_FINALIZE upgrades an untouched string source field to
// TIMESTAMP when it parses as one.
func TestScenarioAutoFinalizeUpgradesTimestamp(t *testing.T) {
	opts := recipe.Options{
		SourceFieldsStrategy:          recipe.AutoFinalize,
		WithSourceFieldsTimestampCast: true,
	}
	r := translate(t, "take n . ^cast integer\n", opts, nil)
	out, meta, _, err := r.Morph(map[string]any{
		"n":          int64(5),
		"created_at": "2024-05-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("morph error: %v", err)
	}
	if out["created_at"] != "2024-05-01T10:00:00" {
		t.Fatalf("expected upgraded timestamp, got %#v", out["created_at"])
	}
	m := meta["created_at"].(map[string]any)
	if m["type"] != "TIMESTAMP" {
		t.Fatalf("expected type=TIMESTAMP, got %v", m["type"])
	}
	if out["n"] != int64(5) {
		t.Fatalf("expected explicit instruction n=5 to survive, got %#v", out["n"])
	}
}

func TestAutoDropOmitsUntouchedSourceFields(t *testing.T) {
	r := translate(t, "take n . ^cast integer\n", recipe.Options{SourceFieldsStrategy: recipe.AutoDrop}, nil)
	out, _, _, err := r.Morph(map[string]any{"n": int64(5), "ignored": "x"})
	if err != nil {
		t.Fatalf("morph error: %v", err)
	}
	if _, ok := out["ignored"]; ok {
		t.Fatalf("expected AUTO_DROP to omit untouched fields, got %#v", out)
	}
}
