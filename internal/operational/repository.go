package operational

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tirta-erp/tirta/internal/shared"
)

// Repository reads the operational tables the balance sheet falls back to
// when ledger balances are missing. Every method tolerates an absent table:
// a branch that never ran payroll simply contributes zero, not an error.
type Repository interface {
	ListOpenTransactions(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]OpenTransaction, error)
	ListMaterials(ctx context.Context, branchID uuid.UUID) ([]Material, error)
	ListProducts(ctx context.Context, branchID uuid.UUID) ([]Product, error)
	ListInventoryBatches(ctx context.Context, branchID uuid.UUID) ([]InventoryBatch, error)
	ListPayables(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]PayableRecord, error)
	ListApprovedPayroll(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]PayrollRecord, error)
	ListActiveAssets(ctx context.Context, branchID uuid.UUID) ([]FixedAsset, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// undefinedTable is the Postgres error code for a missing relation.
const undefinedTable = "42P01"

func missingSource(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}

func (r *repository) ListOpenTransactions(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]OpenTransaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, total, paid_amount, payment_status, order_date, branch_id
		FROM transactions
		WHERE branch_id = $1
		  AND order_date <= $2
		  AND payment_status IN ('Belum Lunas', 'Kredit')`, branchID, asOf)
	if err != nil {
		if missingSource(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list open transactions: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	var out []OpenTransaction
	for rows.Next() {
		var t OpenTransaction
		if err := rows.Scan(&t.ID, &t.Total, &t.PaidAmount, &t.PaymentStatus, &t.OrderDate, &t.BranchID); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %w", shared.ErrDataRetrieval, err)
		}
		out = append(out, t)
	}
	return out, wrapRows(rows.Err(), "open transactions")
}

func (r *repository) ListMaterials(ctx context.Context, branchID uuid.UUID) ([]Material, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, stock, price_per_unit, branch_id
		FROM materials
		WHERE branch_id = $1`, branchID)
	if err != nil {
		if missingSource(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list materials: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	var out []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Stock, &m.UnitCost, &m.BranchID); err != nil {
			return nil, fmt.Errorf("%w: scan material: %w", shared.ErrDataRetrieval, err)
		}
		out = append(out, m)
	}
	return out, wrapRows(rows.Err(), "materials")
}

func (r *repository) ListProducts(ctx context.Context, branchID uuid.UUID) ([]Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, current_stock, cost_price, base_price, branch_id
		FROM products
		WHERE branch_id = $1`, branchID)
	if err != nil {
		if missingSource(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list products: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.CostPrice, &p.BasePrice, &p.BranchID); err != nil {
			return nil, fmt.Errorf("%w: scan product: %w", shared.ErrDataRetrieval, err)
		}
		out = append(out, p)
	}
	return out, wrapRows(rows.Err(), "products")
}

func (r *repository) ListInventoryBatches(ctx context.Context, branchID uuid.UUID) ([]InventoryBatch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, material_id, product_id, remaining_quantity, unit_cost, branch_id
		FROM inventory_batches
		WHERE branch_id = $1
		  AND remaining_quantity > 0`, branchID)
	if err != nil {
		if missingSource(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list inventory batches: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	var out []InventoryBatch
	for rows.Next() {
		var b InventoryBatch
		if err := rows.Scan(&b.ID, &b.MaterialID, &b.ProductID, &b.RemainingQuantity, &b.UnitCost, &b.BranchID); err != nil {
			return nil, fmt.Errorf("%w: scan inventory batch: %w", shared.ErrDataRetrieval, err)
		}
		out = append(out, b)
	}
	return out, wrapRows(rows.Err(), "inventory batches")
}

func (r *repository) ListPayables(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]PayableRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount, paid_amount, status, branch_id
		FROM accounts_payable
		WHERE branch_id = $1
		  AND created_at <= $2`, branchID, endOfDay(asOf))
	if err != nil {
		if missingSource(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list payables: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	var out []PayableRecord
	for rows.Next() {
		var p PayableRecord
		if err := rows.Scan(&p.ID, &p.Amount, &p.PaidAmount, &p.Status, &p.BranchID); err != nil {
			return nil, fmt.Errorf("%w: scan payable: %w", shared.ErrDataRetrieval, err)
		}
		out = append(out, p)
	}
	return out, wrapRows(rows.Err(), "payables")
}

func (r *repository) ListApprovedPayroll(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]PayrollRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, net_salary, status, branch_id, created_at
		FROM payroll_records
		WHERE branch_id = $1
		  AND created_at <= $2
		  AND status = 'approved'`, branchID, endOfDay(asOf))
	if err != nil {
		if missingSource(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list payroll: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	var out []PayrollRecord
	for rows.Next() {
		var p PayrollRecord
		if err := rows.Scan(&p.ID, &p.NetSalary, &p.Status, &p.BranchID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan payroll record: %w", shared.ErrDataRetrieval, err)
		}
		out = append(out, p)
	}
	return out, wrapRows(rows.Err(), "payroll")
}

func (r *repository) ListActiveAssets(ctx context.Context, branchID uuid.UUID) ([]FixedAsset, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, asset_name, category, purchase_price, current_value, account_id, status, branch_id
		FROM assets
		WHERE branch_id = $1
		  AND status = 'active'`, branchID)
	if err != nil {
		if missingSource(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list assets: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	var out []FixedAsset
	for rows.Next() {
		var a FixedAsset
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.PurchasePrice, &a.CurrentValue, &a.AccountID, &a.Status, &a.BranchID); err != nil {
			return nil, fmt.Errorf("%w: scan asset: %w", shared.ErrDataRetrieval, err)
		}
		out = append(out, a)
	}
	return out, wrapRows(rows.Err(), "assets")
}

func wrapRows(err error, what string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: list %s: %w", shared.ErrDataRetrieval, what, err)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
