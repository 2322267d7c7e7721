package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{"2024-01-05", true, "2024-01-05"},
		{"2024-01-05 00:00:00", true, "2024-01-05"},
		{"05/01/2024", true, "2024-01-05"},
		{"5 January 2024", true, "2024-01-05"},
		{"", false, ""},
		{"not a date", false, ""},
		{"2024-13-40", false, ""},
	}
	for i, tc := range cases {
		d := ParseDate(tc.in)
		if tc.ok == d.IsZero() {
			t.Fatalf("case %d (%q): zero=%v, want ok=%v", i, tc.in, d.IsZero(), tc.ok)
		}
		if tc.ok && d.Format("2006-01-02") != tc.want {
			t.Fatalf("case %d (%q): got %s, want %s", i, tc.in, d.Format("2006-01-02"), tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
		want  int64
	}{
		{"5000000", true, 5000000},
		{"200000", true, 200000},
		{"12.4", true, 12},
		{"12.5", true, 13},
		{"12,5", true, 13},
		{"0", true, 0},
		{"", false, 0},
		{"abc", false, 0},
		{"-100", false, 0},
	}
	for i, tc := range cases {
		a := ParseAmount(tc.in)
		if a.Valid != tc.valid {
			t.Fatalf("case %d (%q): valid=%v, want %v", i, tc.in, a.Valid, tc.valid)
		}
		if a.Rupiah != tc.want {
			t.Fatalf("case %d (%q): got %d, want %d", i, tc.in, a.Rupiah, tc.want)
		}
	}
}

func TestParseTxType(t *testing.T) {
	if tt, ok := ParseTxType(" income "); !ok || tt != Income {
		t.Fatalf("got %q ok=%v", tt, ok)
	}
	if tt, ok := ParseTxType("Outcome"); !ok || tt != Outcome {
		t.Fatalf("got %q ok=%v", tt, ok)
	}
	if _, ok := ParseTxType("transfer"); ok {
		t.Fatalf("expected transfer to be rejected")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		User:     "A",
		Date:     NewDate(2024, 1, 5),
		Type:     Income,
		Category: "Gaji",
		Amount:   Amount{Rupiah: 5000000, Valid: true},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{User: "  ", Type: Income, Category: "c", Amount: Amount{Valid: true}}, ErrEmptyUser},
		{Transaction{User: "A", Type: "Transfer", Category: "c", Amount: Amount{Valid: true}}, ErrInvalidType},
		{Transaction{User: "A", Type: Income, Category: " ", Amount: Amount{Valid: true}}, ErrEmptyCategory},
		{Transaction{User: "A", Type: Income, Category: "c", Amount: Amount{}}, ErrInvalidAmount},
	}
	for i, tc := range cases {
		if err := tc.tx.Validate(); err != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}
