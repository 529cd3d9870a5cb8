package values_test

import (
	"testing"

	"github.com/morpherhq/morpher/internal/values"
)

func TestFromRawInfersTempType(t *testing.T) {
	cases := []struct {
		raw  any
		kind values.Kind
		typ  values.TempType
	}{
		{nil, values.KindNull, values.TempUnknown},
		{true, values.KindScalar, values.TempBool},
		{int64(5), values.KindScalar, values.TempInteger},
		{3.14, values.KindScalar, values.TempFloat},
		{"hi", values.KindScalar, values.TempString},
		{[]any{1, 2}, values.KindList, values.TempList},
		{map[string]any{"a": 1}, values.KindObject, values.TempObject},
	}
	for _, c := range cases {
		v := values.FromRaw("f", c.raw)
		if v.Kind != c.kind {
			t.Errorf("FromRaw(%v).Kind = %v, want %v", c.raw, v.Kind, c.kind)
		}
		if v.Kind != values.KindNull && v.OriginalType != c.typ {
			t.Errorf("FromRaw(%v).OriginalType = %v, want %v", c.raw, v.OriginalType, c.typ)
		}
	}
}

func TestSnapshotIsIndependentWrapper(t *testing.T) {
	v := values.FromRaw("n", int64(5))
	cp := v.Snapshot()
	cp.ActualName = "renamed"
	if v.ActualName == "renamed" {
		t.Fatal("mutating a snapshot's wrapper must not affect the original")
	}
}

func TestNullInheritsProvenance(t *testing.T) {
	v := values.FromRaw("tags", []any{"a"})
	n := values.Null(v)
	if n.Kind != values.KindNull {
		t.Fatalf("expected KindNull, got %v", n.Kind)
	}
	if n.OriginalName != "tags" || n.ActualName != "tags" {
		t.Fatalf("Null must inherit provenance, got %+v", n)
	}
}

func TestParseFinalTypeRoundTrips(t *testing.T) {
	ft, err := values.ParseFinalType("timestamp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ft != values.FinalTimestamp {
		t.Fatalf("expected FinalTimestamp, got %v", ft)
	}
	if _, err := values.ParseFinalType("bogus"); err == nil {
		t.Fatal("expected an error for an unknown final type name")
	}
}

func TestStructurallyEqualComparesProvenanceAndPayload(t *testing.T) {
	a := values.FromRaw("n", int64(5))
	b := values.FromRaw("n", int64(5))
	if !a.StructurallyEqual(b) {
		t.Fatal("expected structurally identical values to compare equal")
	}
	c := values.FromRaw("n", int64(6))
	if a.StructurallyEqual(c) {
		t.Fatal("expected values with differing payloads to compare unequal")
	}
}

func TestListItemsHandlesRawAndWrappedPayloads(t *testing.T) {
	raw := values.FromRaw("tags", []any{"a", "b"})
	if items := values.ListItems(raw); len(items) != 2 {
		t.Fatalf("expected 2 raw items, got %d", len(items))
	}
	wrapped := &values.Value{Kind: values.KindList, Payload: []*values.Value{
		values.FromRaw("tags", "a"),
		values.FromRaw("tags", "b"),
	}}
	if items := values.ListItems(wrapped); len(items) != 2 {
		t.Fatalf("expected 2 wrapped items, got %d", len(items))
	}
}
