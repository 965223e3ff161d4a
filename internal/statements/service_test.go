package statements

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tirta-erp/tirta/internal/coa"
	"github.com/tirta-erp/tirta/internal/ledger"
	"github.com/tirta-erp/tirta/internal/operational"
	"github.com/tirta-erp/tirta/internal/shared"
)

type memoryAccountRepo struct {
	accounts []coa.Account
}

func (m *memoryAccountRepo) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]coa.Account, error) {
	return m.accounts, nil
}

type memoryJournalRepo struct {
	entries []ledger.JournalEntry
	opening map[uuid.UUID]bool
}

func (m *memoryJournalRepo) ListPostedLines(ctx context.Context, branchID uuid.UUID, from, to *time.Time) ([]ledger.PostedLine, error) {
	var out []ledger.PostedLine
	for _, e := range m.entries {
		if !e.Countable() {
			continue
		}
		if from != nil && e.EntryDate.Before(*from) {
			continue
		}
		if to != nil && e.EntryDate.After(*to) {
			continue
		}
		for _, l := range e.Lines {
			out = append(out, ledger.PostedLine{
				JournalLine:   l,
				EntryDate:     e.EntryDate,
				Status:        e.Status,
				IsVoided:      e.IsVoided,
				ReferenceType: e.ReferenceType,
			})
		}
	}
	return out, nil
}

func (m *memoryJournalRepo) ListPostedEntries(ctx context.Context, period shared.StatementPeriod) ([]ledger.JournalEntry, error) {
	var out []ledger.JournalEntry
	for _, e := range m.entries {
		if !e.Countable() || !period.Contains(e.EntryDate) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memoryJournalRepo) OpeningBalanceAccounts(ctx context.Context, branchID uuid.UUID) (map[uuid.UUID]bool, error) {
	return m.opening, nil
}

type memoryOperationalRepo struct {
	openTransactions []operational.OpenTransaction
	materials        []operational.Material
	products         []operational.Product
	batches          []operational.InventoryBatch
	payables         []operational.PayableRecord
	payroll          []operational.PayrollRecord
	assets           []operational.FixedAsset
}

func (m *memoryOperationalRepo) ListOpenTransactions(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]operational.OpenTransaction, error) {
	return m.openTransactions, nil
}

func (m *memoryOperationalRepo) ListMaterials(ctx context.Context, branchID uuid.UUID) ([]operational.Material, error) {
	return m.materials, nil
}

func (m *memoryOperationalRepo) ListProducts(ctx context.Context, branchID uuid.UUID) ([]operational.Product, error) {
	return m.products, nil
}

func (m *memoryOperationalRepo) ListInventoryBatches(ctx context.Context, branchID uuid.UUID) ([]operational.InventoryBatch, error) {
	return m.batches, nil
}

func (m *memoryOperationalRepo) ListPayables(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]operational.PayableRecord, error) {
	return m.payables, nil
}

func (m *memoryOperationalRepo) ListApprovedPayroll(ctx context.Context, branchID uuid.UUID, asOf time.Time) ([]operational.PayrollRecord, error) {
	return m.payroll, nil
}

func (m *memoryOperationalRepo) ListActiveAssets(ctx context.Context, branchID uuid.UUID) ([]operational.FixedAsset, error) {
	return m.assets, nil
}

type testWorld struct {
	branchID    uuid.UUID
	cashID      uuid.UUID
	receivableID uuid.UUID
	salesID     uuid.UUID
	cogsID      uuid.UUID
	opexID      uuid.UUID
	vehicleID   uuid.UUID
	equityID    uuid.UUID
	retainedID  uuid.UUID
	accounts    *memoryAccountRepo
	journal     *memoryJournalRepo
	operational *memoryOperationalRepo
}

func newTestWorld() *testWorld {
	w := &testWorld{
		branchID:     uuid.New(),
		cashID:       uuid.New(),
		receivableID: uuid.New(),
		salesID:      uuid.New(),
		cogsID:       uuid.New(),
		opexID:       uuid.New(),
		vehicleID:    uuid.New(),
		equityID:     uuid.New(),
		retainedID:   uuid.New(),
	}
	w.accounts = &memoryAccountRepo{accounts: []coa.Account{
		{ID: w.cashID, Code: "1110", Name: "Kas Besar", Type: coa.AccountTypeAsset, NormalBalance: coa.NormalBalanceDebit, IsActive: true},
		{ID: w.receivableID, Code: "1210", Name: "Piutang Usaha", Type: coa.AccountTypeAsset, NormalBalance: coa.NormalBalanceDebit, IsActive: true},
		{ID: w.vehicleID, Code: "1510", Name: "Kendaraan", Type: coa.AccountTypeAsset, NormalBalance: coa.NormalBalanceDebit, IsActive: true},
		{ID: w.equityID, Code: "3100", Name: "Modal Pemilik", Type: coa.AccountTypeEquity, NormalBalance: coa.NormalBalanceCredit, IsActive: true},
		{ID: w.retainedID, Code: "3200", Name: "Laba Ditahan", Type: coa.AccountTypeEquity, NormalBalance: coa.NormalBalanceCredit, IsActive: true},
		{ID: w.salesID, Code: "4100", Name: "Penjualan", Type: coa.AccountTypeRevenue, NormalBalance: coa.NormalBalanceCredit, IsActive: true},
		{ID: w.cogsID, Code: "5100", Name: "Beban Pokok Penjualan", Type: coa.AccountTypeExpense, NormalBalance: coa.NormalBalanceDebit, IsActive: true},
		{ID: w.opexID, Code: "6100", Name: "Beban Operasional", Type: coa.AccountTypeExpense, NormalBalance: coa.NormalBalanceDebit, IsActive: true},
	}}
	w.journal = &memoryJournalRepo{}
	w.operational = &memoryOperationalRepo{}
	return w
}

func (w *testWorld) addEntry(date time.Time, lines ...ledger.JournalLine) *ledger.JournalEntry {
	e := ledger.JournalEntry{
		ID:        uuid.New(),
		EntryDate: date,
		Status:    ledger.EntryStatusPosted,
		BranchID:  w.branchID,
		Lines:     lines,
	}
	w.journal.entries = append(w.journal.entries, e)
	return &w.journal.entries[len(w.journal.entries)-1]
}

func (w *testWorld) line(accountID uuid.UUID, debit, credit float64) ledger.JournalLine {
	code, name := "", ""
	for _, a := range w.accounts.accounts {
		if a.ID == accountID {
			code, name = a.Code, a.Name
			break
		}
	}
	return ledger.JournalLine{ID: uuid.New(), AccountID: accountID, AccountCode: code, AccountName: name, Debit: debit, Credit: credit}
}

func (w *testWorld) service() *Service {
	fixed := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	return NewService(w.accounts, w.journal, w.operational, nil, nil,
		WithClock(func() time.Time { return fixed }))
}

func (w *testWorld) period(t *testing.T) shared.StatementPeriod {
	t.Helper()
	period, err := shared.NewStatementPeriod(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		w.branchID,
	)
	require.NoError(t, err)
	return period
}

func TestBalanceSheetCashSaleBalances(t *testing.T) {
	w := newTestWorld()
	w.addEntry(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		w.line(w.cashID, 1000000, 0),
		w.line(w.salesID, 0, 1000000),
	)

	svc := w.service()
	bs, err := svc.GenerateBalanceSheet(context.Background(), w.branchID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.InDelta(t, 1000000, bs.TotalAssets.Value, 0.001)
	require.InDelta(t, 0, bs.Liabilities.Total.Value, 0.001)
	require.InDelta(t, 1000000, bs.Equity.RetainedEarnings.Value, 0.001)
	require.InDelta(t, 1000000, bs.Equity.CurrentPeriodEarnings.Value, 0.001)
	require.InDelta(t, 1000000, bs.TotalLiabilitiesAndEquity.Value, 0.001)
	require.True(t, bs.IsBalanced)
	require.InDelta(t, 0, bs.Difference.Value, 0.001)

	require.Len(t, bs.CurrentAssets.CashAndBank, 1)
	require.Equal(t, SourceLedger, bs.CurrentAssets.CashAndBank[0].Source)
	require.Equal(t, "Rp 1.000.000", bs.CurrentAssets.CashAndBank[0].Amount.Display)
}

func TestBalanceSheetReceivablesFallback(t *testing.T) {
	w := newTestWorld()
	w.operational.openTransactions = []operational.OpenTransaction{
		{ID: uuid.New(), Total: 500000, PaidAmount: 200000, PaymentStatus: "Belum Lunas", BranchID: w.branchID},
	}

	svc := w.service()
	bs, err := svc.GenerateBalanceSheet(context.Background(), w.branchID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, bs.CurrentAssets.TradeReceivables, 1)
	item := bs.CurrentAssets.TradeReceivables[0]
	require.Equal(t, SourceCalculated, item.Source)
	require.InDelta(t, 300000, item.Amount.Value, 0.001)
}

func TestBalanceSheetLedgerReceivablesWinOverFallback(t *testing.T) {
	w := newTestWorld()
	w.addEntry(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		w.line(w.receivableID, 450000, 0),
		w.line(w.salesID, 0, 450000),
	)
	w.operational.openTransactions = []operational.OpenTransaction{
		{ID: uuid.New(), Total: 500000, PaidAmount: 200000, BranchID: w.branchID},
	}

	svc := w.service()
	bs, err := svc.GenerateBalanceSheet(context.Background(), w.branchID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, bs.CurrentAssets.TradeReceivables, 1)
	item := bs.CurrentAssets.TradeReceivables[0]
	require.Equal(t, SourceLedger, item.Source)
	require.InDelta(t, 450000, item.Amount.Value, 0.001)
}

func TestBalanceSheetExcludesEntriesAfterAsOf(t *testing.T) {
	w := newTestWorld()
	w.addEntry(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		w.line(w.cashID, 999999, 0),
		w.line(w.salesID, 0, 999999),
	)

	svc := w.service()
	bs, err := svc.GenerateBalanceSheet(context.Background(), w.branchID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.InDelta(t, 0, bs.TotalAssets.Value, 0.001)
}

func TestVoidedEntryExcludedEverywhere(t *testing.T) {
	w := newTestWorld()
	e := w.addEntry(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		w.line(w.cashID, 1000000, 0),
		w.line(w.salesID, 0, 1000000),
	)
	e.IsVoided = true

	svc := w.service()
	ctx := context.Background()

	bs, err := svc.GenerateBalanceSheet(ctx, w.branchID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.InDelta(t, 0, bs.TotalAssets.Value, 0.001)

	is, err := svc.GenerateIncomeStatement(ctx, w.period(t))
	require.NoError(t, err)
	require.InDelta(t, 0, is.Revenue.Total.Value, 0.001)

	cf, err := svc.GenerateCashFlowStatement(ctx, w.period(t))
	require.NoError(t, err)
	require.InDelta(t, 0, cf.NetCashFlow.Value, 0.001)
}

func TestIncomeStatementIdentities(t *testing.T) {
	w := newTestWorld()
	otherIncomeID := uuid.New()
	otherExpenseID := uuid.New()
	w.accounts.accounts = append(w.accounts.accounts,
		coa.Account{ID: otherIncomeID, Code: "7100", Name: "Pendapatan Lain", Type: coa.AccountTypeRevenue, NormalBalance: coa.NormalBalanceCredit, IsActive: true},
		coa.Account{ID: otherExpenseID, Code: "8100", Name: "Beban Bunga", Type: coa.AccountTypeExpense, NormalBalance: coa.NormalBalanceDebit, IsActive: true},
	)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	w.addEntry(date, w.line(w.cashID, 1000000, 0), w.line(w.salesID, 0, 1000000))
	w.addEntry(date, w.line(w.cogsID, 400000, 0), w.line(w.cashID, 0, 400000))
	w.addEntry(date, w.line(w.opexID, 100000, 0), w.line(w.cashID, 0, 100000))
	w.addEntry(date,
		w.line(w.cashID, 50000, 0),
		ledger.JournalLine{ID: uuid.New(), AccountID: otherIncomeID, AccountCode: "7100", AccountName: "Pendapatan Lain", Credit: 50000},
	)
	w.addEntry(date,
		ledger.JournalLine{ID: uuid.New(), AccountID: otherExpenseID, AccountCode: "8100", AccountName: "Beban Bunga", Debit: 20000},
		w.line(w.cashID, 0, 20000),
	)

	svc := w.service()
	is, err := svc.GenerateIncomeStatement(context.Background(), w.period(t))
	require.NoError(t, err)

	require.InDelta(t, 1000000, is.Revenue.Total.Value, 0.001)
	require.InDelta(t, 400000, is.COGS.Total.Value, 0.001)
	require.InDelta(t, 600000, is.GrossProfit.Value, 0.001)
	require.InDelta(t, 60, is.GrossProfitMargin, 0.001)
	require.InDelta(t, 500000, is.OperatingIncome.Value, 0.001)
	require.InDelta(t, 30000, is.NetOtherIncome.Value, 0.001)
	require.InDelta(t, 530000, is.NetIncomeBeforeTax.Value, 0.001)
	require.InDelta(t, 530000, is.NetIncome.Value, 0.001)
	require.InDelta(t, 53, is.NetProfitMargin, 0.001)
}

func TestIncomeStatementZeroRevenueMargins(t *testing.T) {
	w := newTestWorld()
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	w.addEntry(date, w.line(w.opexID, 75000, 0), w.line(w.cashID, 0, 75000))

	svc := w.service()
	is, err := svc.GenerateIncomeStatement(context.Background(), w.period(t))
	require.NoError(t, err)

	require.InDelta(t, 0, is.Revenue.Total.Value, 0.001)
	require.InDelta(t, -75000, is.NetIncome.Value, 0.001)
	require.Zero(t, is.GrossProfitMargin)
	require.Zero(t, is.NetProfitMargin)
}

func TestCashFlowReconciles(t *testing.T) {
	w := newTestWorld()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	// Cash sale, vehicle purchase, owner capital injection.
	w.addEntry(date, w.line(w.cashID, 1000000, 0), w.line(w.salesID, 0, 1000000))
	w.addEntry(date, w.line(w.vehicleID, 300000, 0), w.line(w.cashID, 0, 300000))
	w.addEntry(date, w.line(w.cashID, 500000, 0), w.line(w.equityID, 0, 500000))

	svc := w.service()
	cf, err := svc.GenerateCashFlowStatement(context.Background(), w.period(t))
	require.NoError(t, err)

	require.InDelta(t, 1000000, cf.Operating.NetCash.Value, 0.001)
	require.InDelta(t, -300000, cf.Investing.NetCash.Value, 0.001)
	require.InDelta(t, 500000, cf.Financing.NetCash.Value, 0.001)
	require.InDelta(t, 500000, cf.Financing.OwnerInvestments.Value, 0.001)
	require.InDelta(t, 1200000, cf.NetCashFlow.Value, 0.001)
	require.InDelta(t, 1200000, cf.EndingCash.Value, 0.001)
	require.InDelta(t, 0, cf.BeginningCash.Value, 0.001)
	require.InDelta(t, cf.EndingCash.Value, cf.BeginningCash.Value+cf.NetCashFlow.Value, 0.001)
}

func TestCashFlowSkipsInternalTransfer(t *testing.T) {
	w := newTestWorld()
	bankID := uuid.New()
	w.accounts.accounts = append(w.accounts.accounts,
		coa.Account{ID: bankID, Code: "1130", Name: "Bank BCA", Type: coa.AccountTypeAsset, NormalBalance: coa.NormalBalanceDebit, IsActive: true},
	)
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	w.addEntry(date,
		ledger.JournalLine{ID: uuid.New(), AccountID: bankID, AccountCode: "1130", AccountName: "Bank BCA", Debit: 500000},
		w.line(w.cashID, 0, 500000),
	)

	svc := w.service()
	cf, err := svc.GenerateCashFlowStatement(context.Background(), w.period(t))
	require.NoError(t, err)
	require.InDelta(t, 0, cf.NetCashFlow.Value, 0.001)
}

func TestGenerationIdempotentExceptTimestamp(t *testing.T) {
	w := newTestWorld()
	w.addEntry(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		w.line(w.cashID, 1000000, 0),
		w.line(w.salesID, 0, 1000000),
	)

	first := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	second := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	current := first
	svc := NewService(w.accounts, w.journal, w.operational, nil, nil,
		WithClock(func() time.Time { return current }))

	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	a, err := svc.GenerateBalanceSheet(ctx, w.branchID, asOf)
	require.NoError(t, err)
	current = second
	b, err := svc.GenerateBalanceSheet(ctx, w.branchID, asOf)
	require.NoError(t, err)

	require.NotEqual(t, a.GeneratedAt, b.GeneratedAt)
	a.GeneratedAt = time.Time{}
	b.GeneratedAt = time.Time{}
	require.Equal(t, a, b)
}

func TestGenerateBalanceSheetRequiresBranch(t *testing.T) {
	w := newTestWorld()
	svc := w.service()
	_, err := svc.GenerateBalanceSheet(context.Background(), uuid.Nil, time.Now())
	require.ErrorIs(t, err, shared.ErrInvalidPeriod)
}
