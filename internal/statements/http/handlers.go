package statementhttp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tirta-erp/tirta/internal/shared"
	"github.com/tirta-erp/tirta/internal/statements"
)

const requestTimeout = 10 * time.Second

// StatementService defines the statement generation contract used by the
// handler.
type StatementService interface {
	GenerateBalanceSheet(ctx context.Context, branchID uuid.UUID, asOf time.Time) (*statements.BalanceSheetData, error)
	GenerateIncomeStatement(ctx context.Context, period shared.StatementPeriod) (*statements.IncomeStatementData, error)
	GenerateCashFlowStatement(ctx context.Context, period shared.StatementPeriod) (*statements.CashFlowStatementData, error)
}

// Handler coordinates HTTP requests for financial statements.
type Handler struct {
	logger   *slog.Logger
	service  StatementService
	validate *validator.Validate
}

// NewHandler constructs the statements HTTP handler.
func NewHandler(logger *slog.Logger, service StatementService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type balanceSheetQuery struct {
	BranchID string `validate:"required,uuid4"`
	AsOf     string `validate:"required,datetime=2006-01-02"`
}

type periodQuery struct {
	BranchID string `validate:"required,uuid4"`
	From     string `validate:"required,datetime=2006-01-02"`
	To       string `validate:"required,datetime=2006-01-02"`
}

func (h *Handler) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	q := balanceSheetQuery{
		BranchID: r.URL.Query().Get("branch_id"),
		AsOf:     r.URL.Query().Get("as_of"),
	}
	if q.AsOf == "" {
		q.AsOf = time.Now().Format("2006-01-02")
	}
	if err := h.validate.Struct(q); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}
	branchID, err := uuid.Parse(q.BranchID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid branch_id")
		return
	}
	asOf, _ := time.Parse("2006-01-02", q.AsOf)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	data, err := h.service.GenerateBalanceSheet(ctx, branchID, asOf)
	if err != nil {
		h.handleServiceError(w, r, "balance sheet", err)
		return
	}
	h.respondJSON(w, http.StatusOK, data)
}

func (h *Handler) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	data, err := h.service.GenerateIncomeStatement(ctx, period)
	if err != nil {
		h.handleServiceError(w, r, "income statement", err)
		return
	}
	h.respondJSON(w, http.StatusOK, data)
}

func (h *Handler) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	data, err := h.service.GenerateCashFlowStatement(ctx, period)
	if err != nil {
		h.handleServiceError(w, r, "cash flow statement", err)
		return
	}
	h.respondJSON(w, http.StatusOK, data)
}

func (h *Handler) parsePeriod(w http.ResponseWriter, r *http.Request) (shared.StatementPeriod, bool) {
	q := periodQuery{
		BranchID: r.URL.Query().Get("branch_id"),
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
	}
	if err := h.validate.Struct(q); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid query parameters")
		return shared.StatementPeriod{}, false
	}
	branchID, err := uuid.Parse(q.BranchID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid branch_id")
		return shared.StatementPeriod{}, false
	}
	from, _ := time.Parse("2006-01-02", q.From)
	to, _ := time.Parse("2006-01-02", q.To)

	period, err := shared.NewStatementPeriod(from, to, branchID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return shared.StatementPeriod{}, false
	}
	return period, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidPeriod):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.respondError(w, http.StatusGatewayTimeout, "statement generation timed out")
	default:
		h.logger.ErrorContext(r.Context(), "statement generation failed",
			slog.String("statement", what),
			slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "statement generation failed")
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", slog.Any("error", err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
