package services

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.TrialBalance, error)

	// IncomeStatement generates a profit and loss report for a specific period
	IncomeStatement(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.IncomeStatement, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.BalanceSheet, error)

	// CashFlowStatement reports cash received and paid over a period with opening and closing cash
	CashFlowStatement(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.CashFlowStatement, error)
}
