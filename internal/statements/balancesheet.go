package statements

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tirta-erp/tirta/internal/coa"
	"github.com/tirta-erp/tirta/internal/operational"
)

// balanceSheetInput carries everything the builder needs, already fetched
// and with ledger balances applied as of the statement date.
type balanceSheetInput struct {
	AsOf             time.Time
	BranchID         uuid.UUID
	Accounts         []coa.Account
	HasOpening       map[uuid.UUID]bool
	OpenTransactions []operational.OpenTransaction
	Materials        []operational.Material
	Products         []operational.Product
	Batches          []operational.InventoryBatch
	Payables         []operational.PayableRecord
	Payroll          []operational.PayrollRecord
	Assets           []operational.FixedAsset
}

// buildBalanceSheet assembles the point-in-time statement. It never fails:
// missing roles fall back to operational data, and an imbalance is reported
// through Difference and IsBalanced rather than an error.
func buildBalanceSheet(f *Formatter, in balanceSheetInput, generatedAt time.Time) *BalanceSheetData {
	out := &BalanceSheetData{
		AsOf:        in.AsOf,
		BranchID:    in.BranchID,
		GeneratedAt: generatedAt,
	}

	cash := ledgerItems(f, coa.FindCashAccounts(in.Accounts))
	receivables := receivableItems(f, in)
	taxRecv := ledgerItems(f, coa.FindAllByRole(in.Accounts, coa.RoleTaxReceivable))
	inventory := inventoryItems(f, in)
	advances := ledgerItems(f, coa.FindAllByRole(in.Accounts, coa.RoleEmployeeAdvances))

	out.CurrentAssets = CurrentAssets{
		CashAndBank:      cash,
		TradeReceivables: receivables,
		TaxReceivables:   taxRecv,
		Inventory:        inventory,
		EmployeeAdvances: advances,
	}
	currentTotal := itemsTotal(cash) + itemsTotal(receivables) + itemsTotal(taxRecv) +
		itemsTotal(inventory) + itemsTotal(advances)
	out.CurrentAssets.Total = f.Money(currentTotal)

	fixed, accumDep := fixedAssetItems(f, in)
	fixedTotal := itemsTotal(fixed) + itemsTotal(accumDep)
	out.FixedAssets = FixedAssets{
		Items:                   fixed,
		AccumulatedDepreciation: accumDep,
		Total:                   f.Money(fixedTotal),
	}

	totalAssets := currentTotal + fixedTotal
	out.TotalAssets = f.Money(totalAssets)

	tradePayables := payableItems(f, in)
	bankLoans := ledgerItems(f, coa.FindAllByRole(in.Accounts, coa.RoleBankLoan))
	creditCard := ledgerItems(f, coa.FindAllByRole(in.Accounts, coa.RoleCreditCardPayable))
	otherPayables := ledgerItems(f, coa.FindAllByRole(in.Accounts, coa.RoleOtherPayable))
	payroll := payrollItems(f, in)
	taxPay := ledgerItems(f, coa.FindAllByRole(in.Accounts, coa.RoleTaxPayable))

	out.Liabilities = Liabilities{
		TradePayables:  tradePayables,
		BankLoans:      bankLoans,
		CreditCard:     creditCard,
		OtherPayables:  otherPayables,
		PayrollPayable: payroll,
		TaxPayable:     taxPay,
	}
	totalLiabilities := itemsTotal(tradePayables) + itemsTotal(bankLoans) + itemsTotal(creditCard) +
		itemsTotal(otherPayables) + itemsTotal(payroll) + itemsTotal(taxPay)
	out.Liabilities.Total = f.Money(totalLiabilities)

	retainedAcct := coa.FindByRole(in.Accounts, coa.RoleRetainedEarnings)
	contributions := contributionItems(f, in, retainedAcct)
	contributionsTotal := itemsTotal(contributions)

	// The reported retained earnings figure is the amount that makes the
	// statement balance. Its independent derivation (the retained-earnings
	// account plus the running period result) is kept alongside, and the two
	// disagreeing beyond tolerance is what flags the statement unbalanced.
	plug := totalAssets - totalLiabilities - contributionsTotal

	var retainedBalance float64
	if retainedAcct != nil {
		retainedBalance = retainedAcct.Balance
	}
	periodEarnings := currentPeriodEarnings(in.Accounts)
	independent := retainedBalance + periodEarnings

	out.Equity = Equity{
		Contributions:         contributions,
		RetainedEarnings:      f.Money(plug),
		AccountBalance:        f.Money(retainedBalance),
		CurrentPeriodEarnings: f.Money(periodEarnings),
		Total:                 f.Money(contributionsTotal + plug),
	}

	out.TotalLiabilitiesAndEquity = f.Money(totalLiabilities + contributionsTotal + plug)

	diff := plug - independent
	out.Difference = f.Money(diff)
	out.IsBalanced = math.Abs(diff) <= balanceTolerance
	return out
}

// ledgerItems renders account balances as line items, suppressing zero rows.
func ledgerItems(f *Formatter, accounts []coa.Account) []LineItem {
	items := make([]LineItem, 0, len(accounts))
	for _, a := range accounts {
		if a.Balance == 0 {
			continue
		}
		items = append(items, LineItem{
			AccountID:   a.ID,
			AccountCode: a.Code,
			AccountName: a.Name,
			Amount:      f.Money(a.Balance),
			Source:      SourceLedger,
		})
	}
	return items
}

func itemsTotal(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Amount.Value
	}
	return total
}

// receivableItems prefers the trade receivables ledger balance and falls
// back to summing outstanding amounts on unpaid sales when the ledger
// carries nothing.
func receivableItems(f *Formatter, in balanceSheetInput) []LineItem {
	accounts := coa.FindAllByRole(in.Accounts, coa.RoleReceivablesTrade)
	if total := coa.TotalBalance(accounts); total > 0 {
		return ledgerItems(f, accounts)
	}
	var outstanding float64
	for _, tx := range in.OpenTransactions {
		outstanding += tx.Outstanding()
	}
	if outstanding == 0 {
		return nil
	}
	return []LineItem{calculatedItem(f, accounts, "1210", "Piutang Usaha", outstanding)}
}

// inventoryItems values raw materials and finished goods, each from the
// ledger when a role account carries a balance, otherwise from batches, and
// from master-data stock valuation as the last resort.
func inventoryItems(f *Formatter, in balanceSheetInput) []LineItem {
	var items []LineItem

	raw := coa.FindAllByRole(in.Accounts, coa.RoleInventoryRawMaterial)
	if total := coa.TotalBalance(raw); total > 0 {
		items = append(items, ledgerItems(f, raw)...)
	} else if v := rawMaterialValue(in); v != 0 {
		items = append(items, calculatedItem(f, raw, "1320", "Persediaan Bahan Baku", v))
	}

	finished := coa.FindAllByRole(in.Accounts, coa.RoleInventoryFinishedGoods)
	if total := coa.TotalBalance(finished); total > 0 {
		items = append(items, ledgerItems(f, finished)...)
	} else if v := finishedGoodsValue(in); v != 0 {
		items = append(items, calculatedItem(f, finished, "1310", "Persediaan Barang Jadi", v))
	}
	return items
}

func rawMaterialValue(in balanceSheetInput) float64 {
	var batchValue float64
	var hasBatch bool
	costByID := make(map[uuid.UUID]float64, len(in.Materials))
	for _, m := range in.Materials {
		costByID[m.ID] = m.UnitCost
	}
	for _, b := range in.Batches {
		if b.MaterialID == nil {
			continue
		}
		hasBatch = true
		cost := b.UnitCost
		if cost == 0 {
			cost = costByID[*b.MaterialID]
		}
		batchValue += b.RemainingQuantity * cost
	}
	if hasBatch {
		return batchValue
	}
	var total float64
	for _, m := range in.Materials {
		total += m.Stock * m.UnitCost
	}
	return total
}

func finishedGoodsValue(in balanceSheetInput) float64 {
	var batchValue float64
	var hasBatch bool
	costByID := make(map[uuid.UUID]float64, len(in.Products))
	for _, p := range in.Products {
		costByID[p.ID] = p.UnitCost()
	}
	for _, b := range in.Batches {
		if b.ProductID == nil {
			continue
		}
		hasBatch = true
		cost := b.UnitCost
		if cost == 0 {
			cost = costByID[*b.ProductID]
		}
		batchValue += b.RemainingQuantity * cost
	}
	if hasBatch {
		return batchValue
	}
	var total float64
	for _, p := range in.Products {
		total += p.Stock * p.UnitCost()
	}
	return total
}

// fixedAssetItems reports ledger fixed-asset accounts, adds register value
// the ledger does not carry as one synthetic line, and returns accumulated
// depreciation as negative amounts. A register asset only counts as covered
// when its linked account holds a nonzero balance; a zero-balance link would
// otherwise swallow the register value.
func fixedAssetItems(f *Formatter, in balanceSheetInput) (items, accumDep []LineItem) {
	ledgerAssets := coa.FindAllByRole(in.Accounts, coa.RoleFixedAssets)
	items = ledgerItems(f, ledgerAssets)

	covered := make(map[uuid.UUID]bool, len(ledgerAssets))
	for _, a := range ledgerAssets {
		if a.Balance != 0 {
			covered[a.ID] = true
		}
	}
	var unlinked float64
	for _, asset := range in.Assets {
		if asset.AccountID != nil && covered[*asset.AccountID] {
			continue
		}
		unlinked += asset.Value()
	}
	if unlinked != 0 {
		items = append(items, calculatedItem(f, nil, "1400", "Aset Tetap Lainnya", unlinked))
	}

	for _, a := range coa.FindAllByRole(in.Accounts, coa.RoleAccumulatedDepreciation) {
		if a.Balance == 0 {
			continue
		}
		amount := a.Balance
		if amount > 0 {
			amount = -amount
		}
		accumDep = append(accumDep, LineItem{
			AccountID:   a.ID,
			AccountCode: a.Code,
			AccountName: a.Name,
			Amount:      f.Money(amount),
			Source:      SourceLedger,
		})
	}
	return items, accumDep
}

func payableItems(f *Formatter, in balanceSheetInput) []LineItem {
	accounts := coa.FindAllByRole(in.Accounts, coa.RolePayablesTrade)
	if total := coa.TotalBalance(accounts); total > 0 {
		return ledgerItems(f, accounts)
	}
	var outstanding float64
	for _, p := range in.Payables {
		outstanding += p.Outstanding()
	}
	if outstanding == 0 {
		return nil
	}
	return []LineItem{calculatedItem(f, accounts, "2110", "Hutang Usaha", outstanding)}
}

func payrollItems(f *Formatter, in balanceSheetInput) []LineItem {
	accounts := coa.FindAllByRole(in.Accounts, coa.RolePayrollPayable)
	if total := coa.TotalBalance(accounts); total > 0 {
		return ledgerItems(f, accounts)
	}
	var unpaid float64
	for _, rec := range in.Payroll {
		unpaid += rec.NetSalary
	}
	if unpaid == 0 {
		return nil
	}
	return []LineItem{calculatedItem(f, accounts, "2140", "Hutang Gaji", unpaid)}
}

// contributionItems lists equity-type accounts other than retained earnings,
// then reclassifies initial balances of asset accounts without an opening
// journal into synthetic opening-capital lines bucketed by asset class.
func contributionItems(f *Formatter, in balanceSheetInput, retained *coa.Account) []LineItem {
	var items []LineItem
	for _, a := range coa.FindByType(in.Accounts, coa.AccountTypeEquity) {
		if retained != nil && a.ID == retained.ID {
			continue
		}
		if a.CodeHasPrefix("33") {
			// Drawings reduce capital; keep the sign negative on the
			// contribution side.
			if a.Balance == 0 {
				continue
			}
			amount := a.Balance
			if amount > 0 {
				amount = -amount
			}
			items = append(items, LineItem{
				AccountID:   a.ID,
				AccountCode: a.Code,
				AccountName: a.Name,
				Amount:      f.Money(amount),
				Source:      SourceLedger,
			})
			continue
		}
		if a.Balance == 0 {
			continue
		}
		items = append(items, LineItem{
			AccountID:   a.ID,
			AccountCode: a.Code,
			AccountName: a.Name,
			Amount:      f.Money(a.Balance),
			Source:      SourceLedger,
		})
	}

	buckets := map[string]float64{}
	for _, a := range coa.FindByType(in.Accounts, coa.AccountTypeAsset) {
		if a.IsHeader || a.InitialBalance == 0 || in.HasOpening[a.ID] {
			continue
		}
		switch {
		case a.CodeHasPrefix("11"):
			buckets["Modal Awal - Kas & Bank"] += a.InitialBalance
		case a.CodeHasPrefix("13"):
			buckets["Modal Awal - Persediaan"] += a.InitialBalance
		case a.CodeHasPrefix("14"), a.CodeHasPrefix("15"), a.CodeHasPrefix("16"):
			buckets["Modal Awal - Aset Tetap"] += a.InitialBalance
		default:
			buckets["Modal Awal - Lainnya"] += a.InitialBalance
		}
	}
	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if buckets[name] == 0 {
			continue
		}
		items = append(items, LineItem{
			AccountName: name,
			Amount:      f.Money(buckets[name]),
			Source:      SourceCalculated,
		})
	}
	return items
}

// currentPeriodEarnings nets revenue against expense account balances.
func currentPeriodEarnings(accounts []coa.Account) float64 {
	var revenue, expense float64
	for _, a := range accounts {
		if a.IsHeader {
			continue
		}
		switch a.Type {
		case coa.AccountTypeRevenue:
			revenue += a.Balance
		case coa.AccountTypeExpense:
			expense += a.Balance
		}
	}
	return revenue - expense
}

// calculatedItem produces a fallback line, borrowing the role account's
// identity when one exists so the row stays attributable.
func calculatedItem(f *Formatter, roleAccounts []coa.Account, code, name string, amount float64) LineItem {
	item := LineItem{
		AccountCode: code,
		AccountName: name,
		Amount:      f.Money(amount),
		Source:      SourceCalculated,
	}
	if len(roleAccounts) > 0 {
		item.AccountID = roleAccounts[0].ID
		item.AccountCode = roleAccounts[0].Code
		item.AccountName = roleAccounts[0].Name
	}
	return item
}
