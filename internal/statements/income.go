package statements

import (
	"sort"
	"time"

	"github.com/tirta-erp/tirta/internal/coa"
	"github.com/tirta-erp/tirta/internal/ledger"
	"github.com/tirta-erp/tirta/internal/shared"
)

// incomeStatementInput carries the period's posted lines and the account
// index for code and header resolution.
type incomeStatementInput struct {
	Period   shared.StatementPeriod
	Lines    []ledger.PostedLine
	Accounts []coa.Account
}

// buildIncomeStatement aggregates the period's activity per account and
// partitions the result by code convention: 4 revenue, 5 cost of goods
// sold, 6 operating expense, 7 other income, 8 other expense. Revenue-side
// sections net credit over debit, expense-side the reverse.
func buildIncomeStatement(f *Formatter, in incomeStatementInput, generatedAt time.Time) *IncomeStatementData {
	byID := coa.ByID(in.Accounts)
	totals := ledger.Aggregate(in.Lines, byID)

	ordered := make([]ledger.AccountTotal, 0, len(totals))
	for _, t := range totals {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Code < ordered[j].Code })

	var revenue, cogs, opex, otherInc, otherExp []LineItem
	for _, t := range ordered {
		if acct, ok := byID[t.AccountID]; ok && acct.IsHeader {
			continue
		}
		switch leadingDigit(t.Code) {
		case '4':
			revenue = appendNet(f, revenue, t, t.CreditNet())
		case '5':
			cogs = appendNet(f, cogs, t, t.DebitNet())
		case '6':
			opex = appendNet(f, opex, t, t.DebitNet())
		case '7':
			otherInc = appendNet(f, otherInc, t, t.CreditNet())
		case '8':
			otherExp = appendNet(f, otherExp, t, t.DebitNet())
		}
	}

	out := &IncomeStatementData{
		PeriodFrom:        in.Period.From,
		PeriodTo:          in.Period.To,
		BranchID:          in.Period.BranchID,
		Revenue:           section(f, revenue),
		COGS:              section(f, cogs),
		OperatingExpenses: section(f, opex),
		OtherIncome:       section(f, otherInc),
		OtherExpenses:     section(f, otherExp),
		GeneratedAt:       generatedAt,
	}

	revenueTotal := out.Revenue.Total.Value
	grossProfit := revenueTotal - out.COGS.Total.Value
	operatingIncome := grossProfit - out.OperatingExpenses.Total.Value
	netOther := out.OtherIncome.Total.Value - out.OtherExpenses.Total.Value
	beforeTax := operatingIncome + netOther

	out.GrossProfit = f.Money(grossProfit)
	out.OperatingIncome = f.Money(operatingIncome)
	out.NetOtherIncome = f.Money(netOther)
	out.NetIncomeBeforeTax = f.Money(beforeTax)
	out.TaxExpense = f.Money(0)
	out.NetIncome = f.Money(beforeTax - out.TaxExpense.Value)

	if revenueTotal != 0 {
		out.GrossProfitMargin = grossProfit / revenueTotal * 100
		out.NetProfitMargin = out.NetIncome.Value / revenueTotal * 100
	}
	return out
}

func appendNet(f *Formatter, items []LineItem, t ledger.AccountTotal, net float64) []LineItem {
	if net == 0 {
		return items
	}
	return append(items, LineItem{
		AccountID:   t.AccountID,
		AccountCode: t.Code,
		AccountName: t.Name,
		Amount:      f.Money(net),
		Source:      SourceLedger,
	})
}

func section(f *Formatter, items []LineItem) Section {
	return Section{Items: items, Total: f.Money(itemsTotal(items))}
}

// leadingDigit returns the first byte of the normalized account code, or 0
// for an empty code. Codes may be written "4", "4-100" or "4.100".
func leadingDigit(code string) byte {
	for i := 0; i < len(code); i++ {
		if code[i] == '-' || code[i] == '.' || code[i] == ' ' {
			continue
		}
		return code[i]
	}
	return 0
}
