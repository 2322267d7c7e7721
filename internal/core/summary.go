package core

type (
	// Totals is the income/outcome/balance summary for a transaction set.
	Totals struct {
		Income  int64
		Outcome int64
		Balance int64
	}

	// CategoryAmount is an amount aggregated by category name.
	CategoryAmount struct {
		Category string
		Amount   int64
	}

	// DailyPoint is the sum for one (date, type) pair.
	DailyPoint struct {
		Date   Date
		Type   TxType
		Amount int64
	}

	// UserTotal is the sum for one (user, type) pair across all users.
	UserTotal struct {
		User   string
		Type   TxType
		Amount int64
	}

	// MonthlyPoint is the sum for one (year-month, type) pair.
	MonthlyPoint struct {
		Month  string // "2006-01"
		Type   TxType
		Amount int64
	}
)

// rupiah is the aggregate contribution of an amount: invalid amounts
// count as zero everywhere.
func rupiah(a Amount) int64 {
	if !a.Valid {
		return 0
	}
	return a.Rupiah
}

// ComputeTotals sums income and outcome over txs. Balance is always
// exactly Income - Outcome.
func ComputeTotals(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			t.Income += rupiah(tx.Amount)
		case Outcome:
			t.Outcome += rupiah(tx.Amount)
		}
	}
	t.Balance = t.Income - t.Outcome
	return t
}

// ByCategory groups rows of the given type by category, summing
// amounts. Keys keep the insertion order of first occurrence; the
// caller sorts for display if it wants to.
func ByCategory(txs []Transaction, txType TxType) []CategoryAmount {
	sums := map[string]int64{}
	var order []string
	for _, tx := range txs {
		if tx.Type != txType {
			continue
		}
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] += rupiah(tx.Amount)
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryAmount{Category: c, Amount: sums[c]})
	}
	return out
}

// DailySeries groups txs by (date, type), summing amounts. One point
// per distinct pair, first-seen order. Undated rows are skipped.
func DailySeries(txs []Transaction) []DailyPoint {
	type key struct {
		day string
		typ TxType
	}
	sums := map[key]int64{}
	var order []key
	dates := map[key]Date{}
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		k := key{day: tx.Date.Format("2006-01-02"), typ: tx.Type}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
			dates[k] = tx.Date
		}
		sums[k] += rupiah(tx.Amount)
	}
	out := make([]DailyPoint, 0, len(order))
	for _, k := range order {
		out = append(out, DailyPoint{Date: dates[k], Type: k.typ, Amount: sums[k]})
	}
	return out
}

// PerUserTotals groups the full multi-user set by (user, type),
// summing amounts. This feeds the all-users overview.
func PerUserTotals(txs []Transaction) []UserTotal {
	type key struct {
		user string
		typ  TxType
	}
	sums := map[key]int64{}
	var order []key
	for _, tx := range txs {
		k := key{user: tx.User, typ: tx.Type}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += rupiah(tx.Amount)
	}
	out := make([]UserTotal, 0, len(order))
	for _, k := range order {
		out = append(out, UserTotal{User: k.user, Type: k.typ, Amount: sums[k]})
	}
	return out
}

// MonthlyTrend groups all users' rows by (year-month, type), summing
// amounts. Undated rows are skipped.
func MonthlyTrend(txs []Transaction) []MonthlyPoint {
	type key struct {
		month string
		typ   TxType
	}
	sums := map[key]int64{}
	var order []key
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		k := key{month: tx.Date.YearMonth(), typ: tx.Type}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += rupiah(tx.Amount)
	}
	out := make([]MonthlyPoint, 0, len(order))
	for _, k := range order {
		out = append(out, MonthlyPoint{Month: k.month, Type: k.typ, Amount: sums[k]})
	}
	return out
}
