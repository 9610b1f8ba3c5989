package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService builds financial statements from posted ledger lines.
// Cached account balances are never read here.
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	tolerance   decimal.Decimal
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingAuthorizer sets the company authorizer for the reporting service.
func WithReportingAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.Authorizer = authorizer
	}
}

func WithReportingTolerance(tol decimal.Decimal) ReportingServiceOption {
	return func(s *reportingService) {
		s.tolerance = tol
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		tolerance:   domain.DefaultBalanceTolerance,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// load returns the company's account tree and posted totals per account in range.
func (s *reportingService) load(ctx context.Context, companyID string, dates domain.DateRange) (*domain.AccountTree, map[string]domain.BalanceDelta, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	lines, err := s.journalRepo.ListPostedLinesInTx(ctx, nil, companyID, nil, dates)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list posted lines: %w", err)
	}
	return domain.NewAccountTree(accounts), domain.SumByAccount(lines), nil
}

// TrialBalance lists raw posted debit and credit totals per account as of a date.
func (s *reportingService) TrialBalance(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.TrialBalance, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	lines, err := s.journalRepo.ListPostedLinesInTx(ctx, nil, companyID, nil, domain.DateRange{To: asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("company_id", companyID),
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}
	totals := domain.SumByAccount(lines)

	report := &domain.TrialBalance{
		AsOf:        asOf,
		Rows:        []domain.TrialBalanceRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, acc := range accounts {
		d, ok := totals[acc.AccountID]
		if !ok {
			continue
		}
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			AccountName: acc.Name,
			AccountType: acc.Type,
			Debit:       d.Debit,
			Credit:      d.Credit,
		})
		report.TotalDebit = report.TotalDebit.Add(d.Debit)
		report.TotalCredit = report.TotalCredit.Add(d.Credit)
	}
	report.Balanced = accounting.WithinTolerance(report.TotalDebit, report.TotalCredit, s.tolerance)

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("company_id", companyID),
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// IncomeStatement rolls revenue and expense lines in the period up to their root accounts.
func (s *reportingService) IncomeStatement(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.IncomeStatement, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperrors.NewValidationError("to", "period end is before its start")
	}
	tree, totals, err := s.load(ctx, companyID, domain.DateRange{From: from, To: to})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve income statement data", slog.String("company_id", companyID))
		return nil, err
	}
	roots := accounting.RootTotals(tree, totals)

	report := &domain.IncomeStatement{From: from, To: to}
	report.Revenue, report.TotalRevenue = accounting.Section(tree, roots, domain.Revenue)
	report.Expenses, report.TotalExpense = accounting.Section(tree, roots, domain.Expense)
	report.NetProfit = report.TotalRevenue.Sub(report.TotalExpense)

	s.LogInfo(ctx, "Income statement generated successfully",
		slog.String("company_id", companyID),
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.Int("revenue_accounts", len(report.Revenue)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// BalanceSheet rolls asset, liability and equity lines up to their root
// accounts. Profit not yet closed into equity is reported separately and
// counted in total equity.
func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.BalanceSheet, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	tree, totals, err := s.load(ctx, companyID, domain.DateRange{To: asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("company_id", companyID))
		return nil, err
	}
	roots := accounting.RootTotals(tree, totals)

	report := &domain.BalanceSheet{AsOf: asOf}
	report.Assets, report.TotalAssets = accounting.Section(tree, roots, domain.Asset)
	report.Liabilities, report.TotalLiabilities = accounting.Section(tree, roots, domain.Liability)
	var equity decimal.Decimal
	report.Equity, equity = accounting.Section(tree, roots, domain.Equity)
	_, revenue := accounting.Section(tree, roots, domain.Revenue)
	_, expense := accounting.Section(tree, roots, domain.Expense)
	report.CurrentYearProfit = revenue.Sub(expense)
	report.TotalEquity = equity.Add(report.CurrentYearProfit)
	report.Balanced = accounting.WithinTolerance(report.TotalAssets, report.TotalLiabilities.Add(report.TotalEquity), s.tolerance)

	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("company_id", companyID),
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)))
	return report, nil
}

// CashFlowStatement reports cash and bank movements over a period.
func (s *reportingService) CashFlowStatement(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.CashFlowStatement, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.NewValidationError("to", "period end is before its start")
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	tree := domain.NewAccountTree(accounts)

	period, err := s.journalRepo.ListPostedLinesInTx(ctx, nil, companyID, nil, domain.DateRange{From: from, To: to})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve cash flow data", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list posted lines: %w", err)
	}
	var cashToDate []domain.PostedLine
	if cash := accounting.CashAccountIDs(tree); len(cash) > 0 {
		ids := make([]string, 0, len(cash))
		for id := range cash {
			ids = append(ids, id)
		}
		cashToDate, err = s.journalRepo.ListPostedLinesInTx(ctx, nil, companyID, ids, domain.DateRange{To: to})
		if err != nil {
			s.LogError(ctx, err, "Failed to retrieve cash balances", slog.String("company_id", companyID))
			return nil, fmt.Errorf("failed to list cash lines: %w", err)
		}
	}

	report := accounting.BuildCashFlow(tree, period, cashToDate, from, to)
	s.LogInfo(ctx, "Cash flow statement generated successfully",
		slog.String("company_id", companyID),
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.String("net_cash_flow", report.NetCashFlow.String()))
	return &report, nil
}
