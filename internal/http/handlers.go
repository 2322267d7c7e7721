package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"keuangan/internal/core"
	"keuangan/internal/ledger"
)

type (
	transactionView struct {
		Row      int    `json:"row"`
		User     string `json:"user"`
		Date     string `json:"date,omitempty"`
		Type     string `json:"type"`
		Category string `json:"category"`
		Amount   *int64 `json:"amount"`
		Notes    string `json:"notes,omitempty"`
	}

	totalsView struct {
		Income  int64 `json:"income"`
		Outcome int64 `json:"outcome"`
		Balance int64 `json:"balance"`
	}

	overviewView struct {
		User         string            `json:"user"`
		Month        string            `json:"month"`
		Year         int               `json:"year"`
		Totals       totalsView        `json:"totals"`
		Transactions []transactionView `json:"transactions"`
		Months       []string          `json:"months"`
		Years        []int             `json:"years"`
		Message      string            `json:"message,omitempty"`
	}

	createTransactionRequest struct {
		User        string `json:"user"`
		Date        string `json:"date"`
		Type        string `json:"type"`
		Category    string `json:"category"`
		NewCategory string `json:"new_category"`
		IsNew       bool   `json:"is_new"`
		Amount      string `json:"amount"`
		Notes       string `json:"notes"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func viewOf(tx core.Transaction) transactionView {
	v := transactionView{
		Row:      tx.Row,
		User:     tx.User,
		Type:     string(tx.Type),
		Category: tx.Category,
		Notes:    tx.Notes,
	}
	if !tx.Date.IsZero() {
		v.Date = tx.Date.Format("2006-01-02")
	}
	if tx.Amount.Valid {
		amt := tx.Amount.Rupiah
		v.Amount = &amt
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady checks that the backing store answers a listing.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.snapshot(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "backend not ready")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap, err := s.snapshot(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": snap.Users()})
}

// handleCategories returns the category picker for a user: the known
// categories plus the pre-selected default for the requested type.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	txType := core.Income
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, ok := core.ParseTxType(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "type must be Income or Outcome")
			return
		}
		txType = parsed
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	known := core.KnownCategories(snap.ByUser(user))
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": known,
		"default":    core.DefaultCategory(txType, known),
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodDelete:
		s.handleDeleteTransaction(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	txType, ok := core.ParseTxType(req.Type)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "type must be Income or Outcome")
		return
	}

	date := core.Date{}
	if strings.TrimSpace(req.Date) == "" {
		now := time.Now()
		date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	} else {
		date = core.ParseDate(req.Date)
		if date.IsZero() {
			writeError(w, http.StatusUnprocessableEntity, "unrecognized date format")
			return
		}
	}

	tx := core.Transaction{
		User:     strings.TrimSpace(req.User),
		Date:     date,
		Type:     txType,
		Category: core.ResolveCategory(req.Category, req.NewCategory, req.IsNew),
		Amount:   core.ParseAmount(req.Amount),
		Notes:    req.Notes,
	}

	if err := s.repo.Append(ctx, tx); err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyUser):
			writeError(w, http.StatusUnprocessableEntity, "user must not be empty")
		case errors.Is(err, core.ErrEmptyCategory):
			writeError(w, http.StatusUnprocessableEntity, "category must not be empty")
		case errors.Is(err, core.ErrInvalidType):
			writeError(w, http.StatusUnprocessableEntity, "type must be Income or Outcome")
		case errors.Is(err, core.ErrInvalidAmount):
			writeError(w, http.StatusUnprocessableEntity, "amount must be a non-negative number")
		default:
			s.logger.ErrorContext(ctx, "Failed to save transaction", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save transaction")
		}
		return
	}

	s.invalidateSnapshot()
	s.logger.InfoContext(ctx, "Transaction saved",
		"user", tx.User,
		"type", tx.Type,
		"category", tx.Category)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	row, err := strconv.Atoi(r.URL.Query().Get("row"))
	if err != nil || row < 2 {
		writeError(w, http.StatusBadRequest, "row must be a sheet position >= 2")
		return
	}

	if err := s.repo.Delete(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete transaction", "row", row, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateSnapshot()
	s.logger.InfoContext(ctx, "Transaction deleted", "row", row)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "row": row})
}

// handleOverview returns one user's transactions and totals for a
// month/year period, defaulting to the current month.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	now := time.Now()
	month := r.URL.Query().Get("month")
	if month == "" {
		month = now.Month().String()
	}
	year := now.Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be a number")
			return
		}
		year = y
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	mine := snap.ByUser(user)
	period := ledger.FilterByPeriod(mine, month, year)
	totals := core.ComputeTotals(period)

	views := make([]transactionView, 0, len(period))
	for _, tx := range period {
		views = append(views, viewOf(tx))
	}

	out := overviewView{
		User:         user,
		Month:        month,
		Year:         year,
		Totals:       totalsView{Income: totals.Income, Outcome: totals.Outcome, Balance: totals.Balance},
		Transactions: views,
		Months:       ledger.Months(mine),
		Years:        ledger.Years(mine),
	}
	if len(period) == 0 {
		out.Message = "no transactions for this period"
	}
	writeJSON(w, http.StatusOK, out)
}

// periodFiltered resolves the common user/month/year query for the
// series endpoints. A written response means the caller should return.
func (s *Server) periodFiltered(w http.ResponseWriter, r *http.Request) ([]core.Transaction, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return nil, false
	}
	now := time.Now()
	month := r.URL.Query().Get("month")
	if month == "" {
		month = now.Month().String()
	}
	year := now.Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be a number")
			return nil, false
		}
		year = y
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return nil, false
	}
	return ledger.FilterByPeriod(snap.ByUser(user), month, year), true
}

func (s *Server) handleCategorySeries(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.periodFiltered(w, r)
	if !ok {
		return
	}
	txType := core.Outcome
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, tok := core.ParseTxType(raw)
		if !tok {
			writeError(w, http.StatusBadRequest, "type must be Income or Outcome")
			return
		}
		txType = parsed
	}
	type point struct {
		Category string `json:"category"`
		Amount   int64  `json:"amount"`
	}
	byCat := core.ByCategory(txs, txType)
	points := make([]point, 0, len(byCat))
	for _, ca := range byCat {
		points = append(points, point{Category: ca.Category, Amount: ca.Amount})
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

func (s *Server) handleDailySeries(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.periodFiltered(w, r)
	if !ok {
		return
	}
	type point struct {
		Date   string `json:"date"`
		Type   string `json:"type"`
		Amount int64  `json:"amount"`
	}
	daily := core.DailySeries(txs)
	points := make([]point, 0, len(daily))
	for _, dp := range daily {
		points = append(points, point{Date: dp.Date.Format("2006-01-02"), Type: string(dp.Type), Amount: dp.Amount})
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

// handleUserSeries sums per (user, type) across ALL users, so the
// query takes no user parameter.
func (s *Server) handleUserSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap, err := s.snapshot(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	type point struct {
		User   string `json:"user"`
		Type   string `json:"type"`
		Amount int64  `json:"amount"`
	}
	totals := core.PerUserTotals(snap.Transactions)
	points := make([]point, 0, len(totals))
	for _, ut := range totals {
		points = append(points, point{User: ut.User, Type: string(ut.Type), Amount: ut.Amount})
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

// handleMonthlyTrend sums per (year-month, type) across all users and
// the full history, not just one period.
func (s *Server) handleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap, err := s.snapshot(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	type point struct {
		Month  string `json:"month"`
		Type   string `json:"type"`
		Amount int64  `json:"amount"`
	}
	trend := core.MonthlyTrend(snap.Transactions)
	points := make([]point, 0, len(trend))
	for _, mp := range trend {
		points = append(points, point{Month: mp.Month, Type: string(mp.Type), Amount: mp.Amount})
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}
