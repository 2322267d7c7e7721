package core

import (
	"reflect"
	"testing"
)

func amt(v int64) Amount { return Amount{Rupiah: v, Valid: true} }

func sampleLedger() []Transaction {
	return []Transaction{
		{User: "A", Date: NewDate(2024, 1, 5), Type: Income, Category: "Gaji", Amount: amt(5000000)},
		{User: "A", Date: NewDate(2024, 1, 10), Type: Outcome, Category: "Makanan", Amount: amt(200000)},
	}
}

func TestComputeTotals(t *testing.T) {
	got := ComputeTotals(sampleLedger())
	want := Totals{Income: 5000000, Outcome: 200000, Balance: 4800000}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestBalanceIdentity(t *testing.T) {
	sets := [][]Transaction{
		nil,
		sampleLedger(),
		{
			{User: "A", Type: Income, Amount: amt(1)},
			{User: "B", Type: Outcome, Amount: amt(3)},
			{User: "B", Type: Outcome, Amount: Amount{}},
		},
	}
	for i, txs := range sets {
		tot := ComputeTotals(txs)
		if tot.Balance != tot.Income-tot.Outcome {
			t.Fatalf("set %d: balance %d != %d - %d", i, tot.Balance, tot.Income, tot.Outcome)
		}
	}
}

func TestInvalidAmountContributesZero(t *testing.T) {
	txs := append(sampleLedger(),
		Transaction{User: "A", Date: NewDate(2024, 1, 10), Type: Outcome, Category: "Makanan", Amount: Amount{}},
		Transaction{User: "A", Date: NewDate(2024, 1, 12), Type: Income, Category: "Gaji", Amount: Amount{}},
	)

	if got := ComputeTotals(txs); got != ComputeTotals(sampleLedger()) {
		t.Fatalf("totals changed by invalid amounts: %+v", got)
	}
	if got := ByCategory(txs, Outcome); got[0].Amount != 200000 {
		t.Fatalf("by-category sum changed by invalid amount: %+v", got)
	}
	for _, p := range DailySeries(txs) {
		if p.Date.Format("2006-01-02") == "2024-01-12" && p.Amount != 0 {
			t.Fatalf("invalid-only group should sum to zero: %+v", p)
		}
	}
	for _, u := range PerUserTotals(txs) {
		if u.Type == Income && u.Amount != 5000000 {
			t.Fatalf("per-user income changed by invalid amount: %+v", u)
		}
	}
	for _, m := range MonthlyTrend(txs) {
		if m.Type == Outcome && m.Amount != 200000 {
			t.Fatalf("monthly outcome changed by invalid amount: %+v", m)
		}
	}
}

func TestByCategory(t *testing.T) {
	got := ByCategory(sampleLedger(), Outcome)
	want := []CategoryAmount{{Category: "Makanan", Amount: 200000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestByCategoryFirstSeenOrder(t *testing.T) {
	txs := []Transaction{
		{Type: Outcome, Category: "Transportasi", Amount: amt(10)},
		{Type: Outcome, Category: "Makanan", Amount: amt(20)},
		{Type: Outcome, Category: "Transportasi", Amount: amt(5)},
	}
	got := ByCategory(txs, Outcome)
	want := []CategoryAmount{
		{Category: "Transportasi", Amount: 15},
		{Category: "Makanan", Amount: 20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDailySeries(t *testing.T) {
	txs := []Transaction{
		{Date: NewDate(2024, 1, 5), Type: Income, Amount: amt(100)},
		{Date: NewDate(2024, 1, 5), Type: Outcome, Amount: amt(30)},
		{Date: NewDate(2024, 1, 5), Type: Income, Amount: amt(50)},
		{Type: Income, Amount: amt(999)}, // undated, excluded
	}
	got := DailySeries(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %+v", got)
	}
	if got[0].Type != Income || got[0].Amount != 150 {
		t.Fatalf("unexpected first point: %+v", got[0])
	}
	if got[1].Type != Outcome || got[1].Amount != 30 {
		t.Fatalf("unexpected second point: %+v", got[1])
	}
}

func TestPerUserTotals(t *testing.T) {
	txs := []Transaction{
		{User: "A", Type: Income, Amount: amt(100)},
		{User: "B", Type: Income, Amount: amt(40)},
		{User: "A", Type: Outcome, Amount: amt(25)},
		{User: "A", Type: Income, Amount: amt(60)},
	}
	got := PerUserTotals(txs)
	want := []UserTotal{
		{User: "A", Type: Income, Amount: 160},
		{User: "B", Type: Income, Amount: 40},
		{User: "A", Type: Outcome, Amount: 25},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMonthlyTrend(t *testing.T) {
	txs := []Transaction{
		{User: "A", Date: NewDate(2024, 1, 5), Type: Income, Amount: amt(100)},
		{User: "B", Date: NewDate(2024, 1, 20), Type: Income, Amount: amt(50)},
		{User: "A", Date: NewDate(2024, 2, 1), Type: Outcome, Amount: amt(75)},
		{User: "A", Type: Outcome, Amount: amt(999)}, // undated, excluded
	}
	got := MonthlyTrend(txs)
	want := []MonthlyPoint{
		{Month: "2024-01", Type: Income, Amount: 150},
		{Month: "2024-02", Type: Outcome, Amount: 75},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
