package statements

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tirta-erp/tirta/internal/cashflow"
	"github.com/tirta-erp/tirta/internal/coa"
	"github.com/tirta-erp/tirta/internal/ledger"
	"github.com/tirta-erp/tirta/internal/shared"
)

// cashFlowInput carries the period's posted entries, the account set with
// balances applied as of period end, and the counterpart policy to use.
type cashFlowInput struct {
	Period   shared.StatementPeriod
	Entries  []ledger.JournalEntry
	Accounts []coa.Account
	Policy   cashflow.CounterpartPolicy
}

// buildCashFlowStatement classifies the period's cash movements into the
// direct-method statement. Ending cash is the summed balance of the resolved
// cash and bank accounts at period end; beginning cash is derived from it so
// the statement reconciles by construction.
func buildCashFlowStatement(f *Formatter, in cashFlowInput, generatedAt time.Time) *CashFlowStatementData {
	byID := coa.ByID(in.Accounts)
	cashIDs := coa.CashAccountIDs(in.Accounts)
	events := cashflow.Classify(in.Entries, cashIDs, byID, in.Policy)

	out := &CashFlowStatementData{
		PeriodFrom:  in.Period.From,
		PeriodTo:    in.Period.To,
		BranchID:    in.Period.BranchID,
		GeneratedAt: generatedAt,
	}

	receiptTotals := map[cashflow.Bucket]float64{}
	paymentTotals := map[cashflow.Bucket]float64{}
	var receiptEvents, paymentEvents, investingEvents, financingEvents []cashflow.Event
	var investingNet float64
	var ownerIn, ownerOut, loansIn, loansOut float64
	var byType typeTotals

	for _, ev := range events {
		byType.add(ev)
		switch ev.Category {
		case cashflow.CategoryOperating:
			if ev.Amount >= 0 {
				receiptTotals[ev.Bucket] += ev.Amount
				receiptEvents = append(receiptEvents, ev)
			} else {
				paymentTotals[ev.Bucket] += -ev.Amount
				paymentEvents = append(paymentEvents, ev)
			}
		case cashflow.CategoryInvesting:
			investingNet += ev.Amount
			investingEvents = append(investingEvents, ev)
		case cashflow.CategoryFinancing:
			financingEvents = append(financingEvents, ev)
			equityLeg := ev.Counterpart != nil &&
				(ev.Counterpart.Type == coa.AccountTypeEquity || leadingDigit(ev.Counterpart.Code) == '3')
			switch {
			case equityLeg && ev.Amount >= 0:
				ownerIn += ev.Amount
			case equityLeg:
				ownerOut += -ev.Amount
			case ev.Amount >= 0:
				loansIn += ev.Amount
			default:
				loansOut += -ev.Amount
			}
		}
	}

	receiptsTotal := sumBuckets(receiptTotals)
	paymentsTotal := sumBuckets(paymentTotals)
	out.Operating = OperatingActivities{
		Receipts: CashReceipts{
			FromCustomers:   f.Money(receiptTotals[cashflow.BucketFromCustomers]),
			FromReceivables: f.Money(receiptTotals[cashflow.BucketFromReceivables]),
			FromAdvances:    f.Money(receiptTotals[cashflow.BucketFromAdvances]),
			Other:           f.Money(receiptTotals[cashflow.BucketOtherReceipts]),
			Total:           f.Money(receiptsTotal),
			ByAccount:       breakdown(f, receiptEvents),
		},
		Payments: CashPayments{
			ForMaterials:        f.Money(paymentTotals[cashflow.BucketForMaterials]),
			ForPayables:         f.Money(paymentTotals[cashflow.BucketForPayables]),
			ForLabor:            f.Money(paymentTotals[cashflow.BucketForLabor]),
			ForEmployeeAdvances: f.Money(paymentTotals[cashflow.BucketForAdvances]),
			ForOverhead:         f.Money(paymentTotals[cashflow.BucketForOverhead]),
			ForInterest:         f.Money(paymentTotals[cashflow.BucketForInterest]),
			ForTaxes:            f.Money(paymentTotals[cashflow.BucketForTaxes]),
			ForOperatingCosts:   f.Money(paymentTotals[cashflow.BucketForOperatingCosts]),
			Other:               f.Money(paymentTotals[cashflow.BucketOtherPayments]),
			Total:               f.Money(paymentsTotal),
			ByAccount:           breakdown(f, paymentEvents),
		},
		NetCash: f.Money(receiptsTotal - paymentsTotal),
	}

	var purchases, disposals []cashflow.Event
	for _, ev := range investingEvents {
		if ev.Amount < 0 {
			purchases = append(purchases, ev)
		} else {
			disposals = append(disposals, ev)
		}
	}
	out.Investing = InvestingActivities{
		Purchases: breakdown(f, purchases),
		Disposals: breakdown(f, disposals),
		NetCash:   f.Money(investingNet),
		ByAccount: breakdown(f, investingEvents),
	}

	financingNet := ownerIn - ownerOut + loansIn - loansOut
	out.Financing = FinancingActivities{
		OwnerInvestments: f.Money(ownerIn),
		OwnerWithdrawals: f.Money(ownerOut),
		LoansReceived:    f.Money(loansIn),
		LoanRepayments:   f.Money(loansOut),
		NetCash:          f.Money(financingNet),
		ByAccount:        breakdown(f, financingEvents),
	}

	netFlow := out.Operating.NetCash.Value + investingNet + financingNet
	ending := coa.TotalBalance(coa.FindCashAccounts(in.Accounts))
	out.NetCashFlow = f.Money(netFlow)
	out.EndingCash = f.Money(ending)
	out.BeginningCash = f.Money(ending - netFlow)
	out.TypeSummary = TypeSummary{
		Revenue:   f.Money(byType.revenue),
		Expense:   f.Money(byType.expense),
		Asset:     f.Money(byType.asset),
		Liability: f.Money(byType.liability),
		Equity:    f.Money(byType.equity),
	}
	return out
}

// breakdown aggregates events by counterpart account, with signed amounts
// netted per account and rows sorted by account code.
func breakdown(f *Formatter, events []cashflow.Event) []FlowBreakdownItem {
	type agg struct {
		item  FlowBreakdownItem
		total float64
	}
	byAccount := map[uuid.UUID]*agg{}
	var order []uuid.UUID
	for _, ev := range events {
		if ev.Counterpart == nil {
			continue
		}
		a, ok := byAccount[ev.Counterpart.AccountID]
		if !ok {
			a = &agg{item: FlowBreakdownItem{
				AccountID:   ev.Counterpart.AccountID,
				AccountCode: ev.Counterpart.Code,
				AccountName: ev.Counterpart.Name,
			}}
			byAccount[ev.Counterpart.AccountID] = a
			order = append(order, ev.Counterpart.AccountID)
		}
		a.total += ev.Amount
		a.item.Transactions++
	}
	items := make([]FlowBreakdownItem, 0, len(order))
	for _, id := range order {
		a := byAccount[id]
		if math.Abs(a.total) < 1e-9 {
			continue
		}
		a.item.Amount = f.Money(a.total)
		items = append(items, a.item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AccountCode < items[j].AccountCode })
	return items
}

type typeTotals struct {
	revenue, expense, asset, liability, equity float64
}

func (t *typeTotals) add(ev cashflow.Event) {
	if ev.Counterpart == nil {
		return
	}
	switch ev.Counterpart.Type {
	case coa.AccountTypeRevenue:
		t.revenue += ev.Amount
	case coa.AccountTypeExpense:
		t.expense += ev.Amount
	case coa.AccountTypeAsset:
		t.asset += ev.Amount
	case coa.AccountTypeLiability:
		t.liability += ev.Amount
	case coa.AccountTypeEquity:
		t.equity += ev.Amount
	}
}

func sumBuckets(totals map[cashflow.Bucket]float64) float64 {
	var total float64
	for _, v := range totals {
		total += v
	}
	return total
}
