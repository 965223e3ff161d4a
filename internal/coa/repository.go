package coa

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tirta-erp/tirta/internal/shared"
)

// Repository loads chart-of-accounts records. The chart is per-branch; all
// queries are scoped to one branch.
type Repository interface {
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]Account, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, name, type, normal_balance, is_header, initial_balance,
		       branch_id, parent_id, is_active, sort_order, created_at, updated_at
		FROM accounts
		WHERE branch_id = $1
		ORDER BY code`, branchID)
	if err != nil {
		return nil, fmt.Errorf("%w: list accounts: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.NormalBalance, &a.IsHeader,
			&a.InitialBalance, &a.BranchID, &a.ParentID, &a.IsActive, &a.SortOrder,
			&a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scan account: %w", shared.ErrDataRetrieval, err)
		}
		if a.NormalBalance == "" {
			a.NormalBalance = NormalBalanceFor(a.Type)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list accounts: %w", shared.ErrDataRetrieval, err)
	}
	return accounts, nil
}
