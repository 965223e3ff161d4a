package statements

import (
	"time"

	"github.com/google/uuid"
)

// balanceTolerance is the rounding slack allowed before a balance sheet is
// flagged unbalanced. Amounts are whole-unit, so one unit covers rounding.
const balanceTolerance = 1.0

// ValueSource tags where a line item's amount came from, so a legitimate
// ledger zero is distinguishable from a fallback calculation.
type ValueSource string

const (
	SourceLedger     ValueSource = "ledger"
	SourceCalculated ValueSource = "calculated"
)

// LineItem is one presented row of a statement section.
type LineItem struct {
	AccountID   uuid.UUID   `json:"accountId"`
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	Amount      Money       `json:"amount"`
	Source      ValueSource `json:"source"`
}

// Section groups line items with their total. Zero-amount items are
// suppressed from Items but always included in Total.
type Section struct {
	Items []LineItem `json:"items"`
	Total Money      `json:"total"`
}

// CurrentAssets is the liquid half of the balance sheet's asset side.
type CurrentAssets struct {
	CashAndBank      []LineItem `json:"cashAndBank"`
	TradeReceivables []LineItem `json:"tradeReceivables"`
	TaxReceivables   []LineItem `json:"taxReceivables"`
	Inventory        []LineItem `json:"inventory"`
	EmployeeAdvances []LineItem `json:"employeeAdvances"`
	Total            Money      `json:"total"`
}

// FixedAssets unions ledger-valued fixed assets with the register remainder
// and nets accumulated depreciation (held as negative amounts).
type FixedAssets struct {
	Items                   []LineItem `json:"items"`
	AccumulatedDepreciation []LineItem `json:"accumulatedDepreciation"`
	Total                   Money      `json:"total"`
}

// Liabilities carries the current-liability breakdown.
type Liabilities struct {
	TradePayables  []LineItem `json:"tradePayables"`
	BankLoans      []LineItem `json:"bankLoans"`
	CreditCard     []LineItem `json:"creditCard"`
	OtherPayables  []LineItem `json:"otherPayables"`
	PayrollPayable []LineItem `json:"payrollPayable"`
	TaxPayable     []LineItem `json:"taxPayable"`
	Total          Money      `json:"total"`
}

// Equity reports explicit capital contributions plus the retained-earnings
// reconciliation. RetainedEarnings is the reconciliation plug
// (totalAssets − totalLiabilities − contributions); AccountBalance and
// CurrentPeriodEarnings are its independent derivation, and disagreement
// between the two beyond tolerance surfaces as IsBalanced=false on the
// statement.
type Equity struct {
	Contributions         []LineItem `json:"contributions"`
	RetainedEarnings      Money      `json:"retainedEarnings"`
	AccountBalance        Money      `json:"retainedEarningsAccount"`
	CurrentPeriodEarnings Money      `json:"currentPeriodEarnings"`
	Total                 Money      `json:"total"`
}

// BalanceSheetData is the point-in-time statement returned to callers.
// The balance invariant is computed and returned, never thrown, so an
// imbalanced statement can still be surfaced with a warning.
type BalanceSheetData struct {
	AsOf                      time.Time     `json:"asOf"`
	BranchID                  uuid.UUID     `json:"branchId"`
	CurrentAssets             CurrentAssets `json:"currentAssets"`
	FixedAssets               FixedAssets   `json:"fixedAssets"`
	TotalAssets               Money         `json:"totalAssets"`
	Liabilities               Liabilities   `json:"liabilities"`
	Equity                    Equity        `json:"equity"`
	TotalLiabilitiesAndEquity Money         `json:"totalLiabilitiesAndEquity"`
	Difference                Money         `json:"difference"`
	IsBalanced                bool          `json:"isBalanced"`
	GeneratedAt               time.Time     `json:"generatedAt"`
}

// IncomeStatementData is the period statement partitioned by code-range
// convention: revenue "4", COGS "5", operating expense "6", other income
// "7", other expense "8".
type IncomeStatementData struct {
	PeriodFrom         time.Time `json:"periodFrom"`
	PeriodTo           time.Time `json:"periodTo"`
	BranchID           uuid.UUID `json:"branchId"`
	Revenue            Section   `json:"revenue"`
	COGS               Section   `json:"cogs"`
	GrossProfit        Money     `json:"grossProfit"`
	GrossProfitMargin  float64   `json:"grossProfitMargin"`
	OperatingExpenses  Section   `json:"operatingExpenses"`
	OperatingIncome    Money     `json:"operatingIncome"`
	OtherIncome        Section   `json:"otherIncome"`
	OtherExpenses      Section   `json:"otherExpenses"`
	NetOtherIncome     Money     `json:"netOtherIncome"`
	NetIncomeBeforeTax Money     `json:"netIncomeBeforeTax"`
	TaxExpense         Money     `json:"taxExpense"`
	NetIncome          Money     `json:"netIncome"`
	NetProfitMargin    float64   `json:"netProfitMargin"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

// FlowBreakdownItem is the per-counterpart-account audit row of a cash-flow
// section, sorted by account code.
type FlowBreakdownItem struct {
	AccountID    uuid.UUID `json:"accountId"`
	AccountCode  string    `json:"accountCode"`
	AccountName  string    `json:"accountName"`
	Amount       Money     `json:"amount"`
	Transactions int       `json:"transactions"`
}

// CashReceipts names the operating inflow buckets.
type CashReceipts struct {
	FromCustomers   Money               `json:"fromCustomers"`
	FromReceivables Money               `json:"fromReceivables"`
	FromAdvances    Money               `json:"fromAdvances"`
	Other           Money               `json:"other"`
	Total           Money               `json:"total"`
	ByAccount       []FlowBreakdownItem `json:"byAccount"`
}

// CashPayments names the operating outflow buckets. All amounts are
// positive magnitudes.
type CashPayments struct {
	ForMaterials        Money               `json:"forMaterials"`
	ForPayables         Money               `json:"forPayables"`
	ForLabor            Money               `json:"forLabor"`
	ForEmployeeAdvances Money               `json:"forEmployeeAdvances"`
	ForOverhead         Money               `json:"forOverhead"`
	ForInterest         Money               `json:"forInterest"`
	ForTaxes            Money               `json:"forTaxes"`
	ForOperatingCosts   Money               `json:"forOperatingCosts"`
	Other               Money               `json:"other"`
	Total               Money               `json:"total"`
	ByAccount           []FlowBreakdownItem `json:"byAccount"`
}

// OperatingActivities is the direct-method operating section.
type OperatingActivities struct {
	Receipts CashReceipts `json:"receipts"`
	Payments CashPayments `json:"payments"`
	NetCash  Money        `json:"netCash"`
}

// InvestingActivities reports fixed-asset driven flows.
type InvestingActivities struct {
	Purchases []FlowBreakdownItem `json:"purchases"`
	Disposals []FlowBreakdownItem `json:"disposals"`
	NetCash   Money               `json:"netCash"`
	ByAccount []FlowBreakdownItem `json:"byAccount"`
}

// FinancingActivities reports equity and loan driven flows.
type FinancingActivities struct {
	OwnerInvestments Money               `json:"ownerInvestments"`
	OwnerWithdrawals Money               `json:"ownerWithdrawals"`
	LoansReceived    Money               `json:"loansReceived"`
	LoanRepayments   Money               `json:"loanRepayments"`
	NetCash          Money               `json:"netCash"`
	ByAccount        []FlowBreakdownItem `json:"byAccount"`
}

// TypeSummary nets the period's flows by counterpart account type.
type TypeSummary struct {
	Revenue   Money `json:"revenue"`
	Expense   Money `json:"expense"`
	Asset     Money `json:"asset"`
	Liability Money `json:"liability"`
	Equity    Money `json:"equity"`
}

// CashFlowStatementData is the period cash-flow statement. EndingCash is
// the summed balance of the resolved cash and bank accounts at period end;
// BeginningCash is derived as EndingCash − NetCashFlow so the statement
// reconciles by construction.
type CashFlowStatementData struct {
	PeriodFrom    time.Time           `json:"periodFrom"`
	PeriodTo      time.Time           `json:"periodTo"`
	BranchID      uuid.UUID           `json:"branchId"`
	Operating     OperatingActivities `json:"operatingActivities"`
	Investing     InvestingActivities `json:"investingActivities"`
	Financing     FinancingActivities `json:"financingActivities"`
	NetCashFlow   Money               `json:"netCashFlow"`
	BeginningCash Money               `json:"beginningCash"`
	EndingCash    Money               `json:"endingCash"`
	TypeSummary   TypeSummary         `json:"summaryByAccountType"`
	GeneratedAt   time.Time           `json:"generatedAt"`
}
