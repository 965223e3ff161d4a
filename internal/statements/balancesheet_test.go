package statements

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tirta-erp/tirta/internal/coa"
	"github.com/tirta-erp/tirta/internal/operational"
)

func bsAccount(code, name string, t coa.AccountType, balance float64) coa.Account {
	return coa.Account{
		ID:            uuid.New(),
		Code:          code,
		Name:          name,
		Type:          t,
		NormalBalance: coa.NormalBalanceFor(t),
		Balance:       balance,
		IsActive:      true,
	}
}

func buildInput(accounts ...coa.Account) balanceSheetInput {
	return balanceSheetInput{
		AsOf:     time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		BranchID: uuid.New(),
		Accounts: accounts,
	}
}

func TestInventoryFallsBackToBatches(t *testing.T) {
	materialID := uuid.New()
	in := buildInput(
		bsAccount("1320", "Persediaan Bahan Baku", coa.AccountTypeAsset, 0),
	)
	in.Materials = []operational.Material{
		{ID: materialID, Name: "Tepung", Stock: 100, UnitCost: 5000},
	}
	in.Batches = []operational.InventoryBatch{
		{ID: uuid.New(), MaterialID: &materialID, RemainingQuantity: 40, UnitCost: 5500},
	}

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	require.Len(t, out.CurrentAssets.Inventory, 1)
	item := out.CurrentAssets.Inventory[0]
	require.Equal(t, SourceCalculated, item.Source)
	// Batches are authoritative over stock times unit cost.
	require.InDelta(t, 220000, item.Amount.Value, 0.001)
}

func TestInventoryFallsBackToStockValuationWithoutBatches(t *testing.T) {
	in := buildInput()
	in.Products = []operational.Product{
		{ID: uuid.New(), Name: "Roti", Stock: 50, CostPrice: 8000},
		{ID: uuid.New(), Name: "Kue", Stock: 10, BasePrice: 12000},
	}

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	require.Len(t, out.CurrentAssets.Inventory, 1)
	require.InDelta(t, 520000, out.CurrentAssets.Inventory[0].Amount.Value, 0.001)
}

func TestPayrollFallbackSumsApprovedRecords(t *testing.T) {
	in := buildInput()
	in.Payroll = []operational.PayrollRecord{
		{ID: uuid.New(), NetSalary: 2500000, Status: "approved"},
		{ID: uuid.New(), NetSalary: 1500000, Status: "approved"},
	}

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	require.Len(t, out.Liabilities.PayrollPayable, 1)
	item := out.Liabilities.PayrollPayable[0]
	require.Equal(t, SourceCalculated, item.Source)
	require.InDelta(t, 4000000, item.Amount.Value, 0.001)
}

func TestFixedAssetsUnionWithRegister(t *testing.T) {
	in := buildInput()
	in.Assets = []operational.FixedAsset{
		{ID: uuid.New(), Name: "Oven", PurchasePrice: 15000000, Status: "active"},
		{ID: uuid.New(), Name: "Mixer", PurchasePrice: 8000000, CurrentValue: 6000000, Status: "active"},
	}

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	require.Len(t, out.FixedAssets.Items, 1)
	// Current value wins over purchase price per asset.
	require.InDelta(t, 21000000, out.FixedAssets.Items[0].Amount.Value, 0.001)
	require.Equal(t, SourceCalculated, out.FixedAssets.Items[0].Source)
}

func TestUnlinkedRegisterValueSurvivesLedgerBalances(t *testing.T) {
	in := buildInput(
		bsAccount("1510", "Kendaraan", coa.AccountTypeAsset, 50000000),
	)
	in.Assets = []operational.FixedAsset{
		{ID: uuid.New(), Name: "Oven", PurchasePrice: 15000000, Status: "active"},
	}

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	require.Len(t, out.FixedAssets.Items, 2)
	require.InDelta(t, 50000000, out.FixedAssets.Items[0].Amount.Value, 0.001)
	require.Equal(t, "1400", out.FixedAssets.Items[1].AccountCode)
	require.InDelta(t, 15000000, out.FixedAssets.Items[1].Amount.Value, 0.001)
	require.InDelta(t, 65000000, out.FixedAssets.Total.Value, 0.001)
}

func TestRegisterAssetLinkedToZeroBalanceAccountSurfaces(t *testing.T) {
	vehicles := bsAccount("1510", "Kendaraan", coa.AccountTypeAsset, 0)
	in := buildInput(vehicles)
	in.Assets = []operational.FixedAsset{
		{ID: uuid.New(), Name: "Truck", PurchasePrice: 20000000, AccountID: &vehicles.ID, Status: "active"},
	}

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	// The linked account holds nothing, so the register is the only record
	// of the asset's value.
	require.Len(t, out.FixedAssets.Items, 1)
	require.Equal(t, SourceCalculated, out.FixedAssets.Items[0].Source)
	require.InDelta(t, 20000000, out.FixedAssets.Items[0].Amount.Value, 0.001)
}

func TestAccumulatedDepreciationReportedNegative(t *testing.T) {
	in := buildInput(
		bsAccount("1510", "Kendaraan", coa.AccountTypeAsset, 50000000),
		bsAccount("1710", "Akumulasi Penyusutan Kendaraan", coa.AccountTypeAsset, 10000000),
	)

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	require.Len(t, out.FixedAssets.AccumulatedDepreciation, 1)
	require.InDelta(t, -10000000, out.FixedAssets.AccumulatedDepreciation[0].Amount.Value, 0.001)
	require.InDelta(t, 40000000, out.FixedAssets.Total.Value, 0.001)
}

func TestOpeningBalancesReclassifiedAsCapital(t *testing.T) {
	cash := bsAccount("1110", "Kas Besar", coa.AccountTypeAsset, 750000)
	cash.InitialBalance = 750000
	in := buildInput(cash)

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	require.Len(t, out.Equity.Contributions, 1)
	item := out.Equity.Contributions[0]
	require.Equal(t, "Modal Awal - Kas & Bank", item.AccountName)
	require.Equal(t, SourceCalculated, item.Source)
	require.InDelta(t, 750000, item.Amount.Value, 0.001)
	require.True(t, out.IsBalanced)
}

func TestOpeningJournalSkipsReclassification(t *testing.T) {
	cash := bsAccount("1110", "Kas Besar", coa.AccountTypeAsset, 750000)
	cash.InitialBalance = 750000
	in := buildInput(cash)
	in.HasOpening = map[uuid.UUID]bool{cash.ID: true}

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	require.Empty(t, out.Equity.Contributions)
}

func TestZeroBalanceItemsSuppressed(t *testing.T) {
	in := buildInput(
		bsAccount("1110", "Kas Besar", coa.AccountTypeAsset, 0),
		bsAccount("1130", "Bank BCA", coa.AccountTypeAsset, 900000),
	)

	out := buildBalanceSheet(DefaultFormatter(), in, time.Now())
	require.Len(t, out.CurrentAssets.CashAndBank, 1)
	require.Equal(t, "1130", out.CurrentAssets.CashAndBank[0].AccountCode)
}
