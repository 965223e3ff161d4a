package statements

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tirta-erp/tirta/internal/cashflow"
	"github.com/tirta-erp/tirta/internal/coa"
	"github.com/tirta-erp/tirta/internal/ledger"
	"github.com/tirta-erp/tirta/internal/operational"
	"github.com/tirta-erp/tirta/internal/shared"
)

// Service generates financial statements from the ledger and operational
// data of one branch. Generation is read only and idempotent apart from the
// GeneratedAt stamp, so results are safe to cache and regenerate.
type Service struct {
	accounts    coa.Repository
	journals    ledger.Repository
	operational operational.Repository
	cache       *Cache
	logger      *slog.Logger
	formatter   *Formatter
	policy      cashflow.CounterpartPolicy
	now         func() time.Time
}

// Option adjusts optional service behaviour.
type Option func(*Service)

// WithFormatter overrides the money formatter.
func WithFormatter(f *Formatter) Option {
	return func(s *Service) { s.formatter = f }
}

// WithCounterpartPolicy overrides how multi-legged cash entries attribute
// their counterpart accounts.
func WithCounterpartPolicy(p cashflow.CounterpartPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithClock overrides the GeneratedAt clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the statement generator.
func NewService(accounts coa.Repository, journals ledger.Repository, op operational.Repository, cache *Cache, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		accounts:    accounts,
		journals:    journals,
		operational: op,
		cache:       cache,
		logger:      logger,
		formatter:   DefaultFormatter(),
		policy:      cashflow.FirstCounterpart,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateBalanceSheet builds the point-in-time balance sheet for a branch.
func (s *Service) GenerateBalanceSheet(ctx context.Context, branchID uuid.UUID, asOf time.Time) (*BalanceSheetData, error) {
	if branchID == uuid.Nil {
		return nil, shared.ErrInvalidPeriod
	}
	key, err := s.cache.BuildKey(ctx, keyBalanceSheet(branchID, asOf)...)
	if err != nil {
		return nil, err
	}
	var out BalanceSheetData
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.buildBalanceSheet(ctx, branchID, asOf)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) buildBalanceSheet(ctx context.Context, branchID uuid.UUID, asOf time.Time) (*BalanceSheetData, error) {
	started := s.now()
	in := balanceSheetInput{AsOf: asOf, BranchID: branchID}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.accounts.ListByBranch(ctx, branchID)
		in.Accounts = accounts
		return err
	})
	var lines []ledger.PostedLine
	g.Go(func() error {
		var err error
		to := asOf
		lines, err = s.journals.ListPostedLines(ctx, branchID, nil, &to)
		return err
	})
	g.Go(func() error {
		opening, err := s.journals.OpeningBalanceAccounts(ctx, branchID)
		in.HasOpening = opening
		return err
	})
	g.Go(func() error {
		txs, err := s.operational.ListOpenTransactions(ctx, branchID, asOf)
		in.OpenTransactions = txs
		return err
	})
	g.Go(func() error {
		materials, err := s.operational.ListMaterials(ctx, branchID)
		in.Materials = materials
		return err
	})
	g.Go(func() error {
		products, err := s.operational.ListProducts(ctx, branchID)
		in.Products = products
		return err
	})
	g.Go(func() error {
		batches, err := s.operational.ListInventoryBatches(ctx, branchID)
		in.Batches = batches
		return err
	})
	g.Go(func() error {
		payables, err := s.operational.ListPayables(ctx, branchID, asOf)
		in.Payables = payables
		return err
	})
	g.Go(func() error {
		payroll, err := s.operational.ListApprovedPayroll(ctx, branchID, asOf)
		in.Payroll = payroll
		return err
	})
	g.Go(func() error {
		assets, err := s.operational.ListActiveAssets(ctx, branchID)
		in.Assets = assets
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.Accounts = ledger.ApplyBalances(in.Accounts, lines, in.HasOpening)
	out := buildBalanceSheet(s.formatter, in, s.now())
	s.logger.InfoContext(ctx, "balance sheet generated",
		slog.String("branch_id", branchID.String()),
		slog.Time("as_of", asOf),
		slog.Bool("balanced", out.IsBalanced),
		slog.Duration("took", s.now().Sub(started)))
	return out, nil
}

// GenerateIncomeStatement builds the period income statement for a branch.
func (s *Service) GenerateIncomeStatement(ctx context.Context, period shared.StatementPeriod) (*IncomeStatementData, error) {
	key, err := s.cache.BuildKey(ctx, keyIncomeStatement(period.BranchID, period.From, period.To)...)
	if err != nil {
		return nil, err
	}
	var out IncomeStatementData
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.buildIncomeStatement(ctx, period)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) buildIncomeStatement(ctx context.Context, period shared.StatementPeriod) (*IncomeStatementData, error) {
	started := s.now()
	in := incomeStatementInput{Period: period}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.accounts.ListByBranch(ctx, period.BranchID)
		in.Accounts = accounts
		return err
	})
	g.Go(func() error {
		from, to := period.From, period.To
		lines, err := s.journals.ListPostedLines(ctx, period.BranchID, &from, &to)
		in.Lines = lines
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := buildIncomeStatement(s.formatter, in, s.now())
	s.logger.InfoContext(ctx, "income statement generated",
		slog.String("branch_id", period.BranchID.String()),
		slog.String("period", period.Label()),
		slog.Float64("net_income", out.NetIncome.Value),
		slog.Duration("took", s.now().Sub(started)))
	return out, nil
}

// GenerateCashFlowStatement builds the period cash flow statement for a
// branch.
func (s *Service) GenerateCashFlowStatement(ctx context.Context, period shared.StatementPeriod) (*CashFlowStatementData, error) {
	key, err := s.cache.BuildKey(ctx, keyCashFlow(period.BranchID, period.From, period.To)...)
	if err != nil {
		return nil, err
	}
	var out CashFlowStatementData
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.buildCashFlowStatement(ctx, period)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) buildCashFlowStatement(ctx context.Context, period shared.StatementPeriod) (*CashFlowStatementData, error) {
	started := s.now()
	in := cashFlowInput{Period: period, Policy: s.policy}

	var accounts []coa.Account
	var lines []ledger.PostedLine
	var opening map[uuid.UUID]bool

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accounts.ListByBranch(ctx, period.BranchID)
		return err
	})
	g.Go(func() error {
		entries, err := s.journals.ListPostedEntries(ctx, period)
		in.Entries = entries
		return err
	})
	g.Go(func() error {
		var err error
		to := period.To
		lines, err = s.journals.ListPostedLines(ctx, period.BranchID, nil, &to)
		return err
	})
	g.Go(func() error {
		var err error
		opening, err = s.journals.OpeningBalanceAccounts(ctx, period.BranchID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.Accounts = ledger.ApplyBalances(accounts, lines, opening)
	out := buildCashFlowStatement(s.formatter, in, s.now())
	s.logger.InfoContext(ctx, "cash flow statement generated",
		slog.String("branch_id", period.BranchID.String()),
		slog.String("period", period.Label()),
		slog.Float64("net_cash_flow", out.NetCashFlow.Value),
		slog.Duration("took", s.now().Sub(started)))
	return out, nil
}
