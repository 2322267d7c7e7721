package core

import (
	"reflect"
	"testing"
)

func TestKnownCategoriesSeedWhenEmpty(t *testing.T) {
	got := KnownCategories(nil)
	want := []string{"Gaji", "Makanan", "Transportasi"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Rows without categories still seed.
	got = KnownCategories([]Transaction{{User: "A", Category: "  "}})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestKnownCategoriesDistinctSorted(t *testing.T) {
	txs := []Transaction{
		{Category: "Makanan"},
		{Category: "Gaji"},
		{Category: "Makanan"},
		{Category: "Hiburan"},
	}
	got := KnownCategories(txs)
	want := []string{"Gaji", "Hiburan", "Makanan"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveCategory(t *testing.T) {
	cases := []struct {
		selected, freeText string
		isNew              bool
		want               string
	}{
		{"Makanan", "Liburan", true, "Liburan"},
		{"Makanan", "  Liburan  ", true, "Liburan"},
		{"Makanan", "  ", true, "Makanan"},
		{"Makanan", "Liburan", false, "Makanan"},
		{"Makanan", "", false, "Makanan"},
	}
	for i, tc := range cases {
		if got := ResolveCategory(tc.selected, tc.freeText, tc.isNew); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestDefaultCategory(t *testing.T) {
	known := []string{"Bensin", "Gaji", "Makanan"}
	if got := DefaultCategory(Income, known); got != "Gaji" {
		t.Fatalf("income default: got %q", got)
	}
	if got := DefaultCategory(Outcome, known); got != "Bensin" {
		t.Fatalf("outcome default: got %q", got)
	}
	if got := DefaultCategory(Income, []string{"Bensin"}); got != "Bensin" {
		t.Fatalf("income without Gaji: got %q", got)
	}
	if got := DefaultCategory(Income, nil); got != "" {
		t.Fatalf("empty known: got %q", got)
	}
}
