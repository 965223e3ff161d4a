package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tirta-erp/tirta/internal/shared"
	"github.com/tirta-erp/tirta/internal/statements"
)

// StatementsWarmupJob pre-generates the three financial statements so the
// first interactive request of the day hits a warm cache.
type StatementsWarmupJob struct {
	Statements *statements.Service
	Pool       *pgxpool.Pool
	Logger     *slog.Logger
	clock      func() time.Time
}

// NewStatementsWarmupJob wires dependencies for the warmup handler.
func NewStatementsWarmupJob(svc *statements.Service, pool *pgxpool.Pool, logger *slog.Logger) *StatementsWarmupJob {
	return &StatementsWarmupJob{
		Statements: svc,
		Pool:       pool,
		Logger:     logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes statement warmup tasks.
func (j *StatementsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Statements == nil {
		return errors.New("statements warmup: handler not configured")
	}
	var payload StatementsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	branches, err := j.targetBranches(ctx, payload)
	if err != nil {
		j.logger().Error("load warmup branches", slog.Any("error", err))
		return err
	}
	if len(branches) == 0 {
		j.logger().Info("no branches discovered for warmup")
		return nil
	}

	from, to := j.periodBounds(payload)
	for _, branchID := range branches {
		period, err := shared.NewStatementPeriod(from, to, branchID)
		if err != nil {
			j.logger().Warn("skip branch", slog.String("branch_id", branchID.String()), slog.Any("error", err))
			continue
		}
		if _, err := j.Statements.GenerateBalanceSheet(ctx, branchID, to); err != nil {
			j.logger().Error("warm balance sheet", slog.String("branch_id", branchID.String()), slog.Any("error", err))
			return err
		}
		if _, err := j.Statements.GenerateIncomeStatement(ctx, period); err != nil {
			j.logger().Error("warm income statement", slog.String("branch_id", branchID.String()), slog.Any("error", err))
			return err
		}
		if _, err := j.Statements.GenerateCashFlowStatement(ctx, period); err != nil {
			j.logger().Error("warm cash flow", slog.String("branch_id", branchID.String()), slog.Any("error", err))
			return err
		}
	}
	j.logger().Info("statements warmup completed",
		slog.Int("branches", len(branches)),
		slog.Time("period_from", from),
		slog.Time("period_to", to))
	return nil
}

func (j *StatementsWarmupJob) targetBranches(ctx context.Context, payload StatementsWarmupPayload) ([]uuid.UUID, error) {
	if payload.BranchID != uuid.Nil {
		return []uuid.UUID{payload.BranchID}, nil
	}
	if j.Pool == nil {
		return nil, nil
	}
	rows, err := j.Pool.Query(ctx, `SELECT id FROM branches WHERE is_active = TRUE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// periodBounds defaults to the current month when the payload leaves the
// bounds empty.
func (j *StatementsWarmupJob) periodBounds(payload StatementsWarmupPayload) (time.Time, time.Time) {
	if !payload.From.IsZero() && !payload.To.IsZero() {
		return payload.From, payload.To
	}
	now := j.clock()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, now
}

func (j *StatementsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
