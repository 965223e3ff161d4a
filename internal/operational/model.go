package operational

import (
	"time"

	"github.com/google/uuid"
)

// OpenTransaction is an unpaid or partially paid sale, used to calculate
// receivables when the ledger account carries no balance.
type OpenTransaction struct {
	ID            uuid.UUID
	Total         float64
	PaidAmount    float64
	PaymentStatus string
	OrderDate     time.Time
	BranchID      uuid.UUID
}

// Outstanding is the unpaid remainder.
func (t OpenTransaction) Outstanding() float64 {
	return t.Total - t.PaidAmount
}

// Material is a raw-material stock item.
type Material struct {
	ID       uuid.UUID
	Name     string
	Stock    float64
	UnitCost float64
	BranchID uuid.UUID
}

// Product is a finished-goods stock item. CostPrice is the valuation basis;
// BasePrice stands in when costing never ran for the product.
type Product struct {
	ID        uuid.UUID
	Name      string
	Stock     float64
	CostPrice float64
	BasePrice float64
	BranchID  uuid.UUID
}

// UnitCost returns the valuation cost for one unit.
func (p Product) UnitCost() float64 {
	if p.CostPrice != 0 {
		return p.CostPrice
	}
	return p.BasePrice
}

// InventoryBatch records a purchase lot's remaining quantity and unit cost.
// When batches exist for a material they carry the authoritative valuation;
// the material's own stock times unit cost is the coarser fallback.
type InventoryBatch struct {
	ID                uuid.UUID
	MaterialID        *uuid.UUID
	ProductID         *uuid.UUID
	RemainingQuantity float64
	UnitCost          float64
	BranchID          uuid.UUID
}

// Value is the remaining lot value.
func (b InventoryBatch) Value() float64 {
	return b.RemainingQuantity * b.UnitCost
}

// PayableStatus values for accounts-payable records.
const (
	PayableStatusOutstanding = "Outstanding"
	PayableStatusPartial     = "Partial"
	PayableStatusPaid        = "Paid"
)

// PayableRecord tracks a supplier debt outside the ledger.
type PayableRecord struct {
	ID         uuid.UUID
	Amount     float64
	PaidAmount float64
	Status     string
	BranchID   uuid.UUID
}

// Outstanding returns the open amount according to status.
func (p PayableRecord) Outstanding() float64 {
	switch p.Status {
	case PayableStatusOutstanding:
		return p.Amount
	case PayableStatusPartial:
		return p.Amount - p.PaidAmount
	default:
		return 0
	}
}

// PayrollRecord is an approved, not yet paid salary obligation.
type PayrollRecord struct {
	ID        uuid.UUID
	NetSalary float64
	Status    string
	BranchID  uuid.UUID
	CreatedAt time.Time
}

// FixedAsset is an asset-register entry. The register tracks inventory of
// assets; the balance sheet values fixed assets from the ledger and only
// surfaces register entries that no ledger account covers.
type FixedAsset struct {
	ID            uuid.UUID
	Name          string
	Category      string
	PurchasePrice float64
	CurrentValue  float64
	AccountID     *uuid.UUID
	Status        string
	BranchID      uuid.UUID
}

// Value prefers the depreciated current value over the purchase price.
func (a FixedAsset) Value() float64 {
	if a.CurrentValue != 0 {
		return a.CurrentValue
	}
	return a.PurchasePrice
}
