package services

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

// BankAccountSvc manages bank accounts and statement lines
type BankAccountSvc interface {
	CreateBankAccount(ctx context.Context, companyID string, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error)
	GetBankAccount(ctx context.Context, companyID string, bankAccountID string, userID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, companyID string, userID string) ([]domain.BankAccount, error)
	CreateStatementLine(ctx context.Context, companyID string, bankAccountID string, req dto.CreateStatementRequest, userID string) (*domain.BankStatement, error)
	ListStatementLines(ctx context.Context, companyID string, bankAccountID string, dates domain.DateRange, userID string) ([]domain.BankStatement, error)
}

// ReconciliationSvc matches statement lines to posted journal entries
type ReconciliationSvc interface {
	// AutoMatch pairs unreconciled statement lines in the range with unmatched
	// bank journals. Re-running it over the same range matches nothing new.
	AutoMatch(ctx context.Context, companyID string, bankAccountID string, dates domain.DateRange, userID string) ([]domain.Reconciliation, error)

	// CreateReconciliation links any statement line to any journal entry of the company.
	CreateReconciliation(ctx context.Context, companyID string, req dto.CreateReconciliationRequest, userID string) (*domain.Reconciliation, error)

	// DeleteReconciliation removes a link, un-reconciling the statement line when it was the last one.
	DeleteReconciliation(ctx context.Context, companyID string, reconciliationID string, userID string) error

	// Workbench lists matched pairs and both unmatched sides for the range.
	Workbench(ctx context.Context, companyID string, bankAccountID string, dates domain.DateRange, userID string) (*domain.ReconciliationWorkbench, error)

	// AdjustmentSheet builds the bank balance adjustment statement as of a date.
	AdjustmentSheet(ctx context.Context, companyID string, bankAccountID string, asOf time.Time, userID string) (*domain.AdjustmentSheet, error)
}

// ReconciliationSvcFacade combines banking and reconciliation operations
type ReconciliationSvcFacade interface {
	BankAccountSvc
	ReconciliationSvc
}
