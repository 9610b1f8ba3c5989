package repositories

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// BankAccountRepository defines persistence for bank accounts
type BankAccountRepository interface {
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
	FindBankAccount(ctx context.Context, companyID, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, companyID string) ([]domain.BankAccount, error)

	// LockBankAccount locks the bank account row so matching runs on it serialize.
	LockBankAccount(ctx context.Context, tx pgx.Tx, companyID, bankAccountID string) (*domain.BankAccount, error)
}

// StatementRepository defines persistence for bank statement lines
type StatementRepository interface {
	SaveStatement(ctx context.Context, statement domain.BankStatement) error
	FindStatementInTx(ctx context.Context, tx pgx.Tx, companyID, statementID string) (*domain.BankStatement, error)

	// ListStatementsInTx returns a bank account's lines in the date range ordered by date.
	ListStatementsInTx(ctx context.Context, tx pgx.Tx, companyID, bankAccountID string, dates domain.DateRange) ([]domain.BankStatement, error)

	// SetStatementsReconciledInTx sets the reconciled flag on the given lines.
	SetStatementsReconciledInTx(ctx context.Context, tx pgx.Tx, statementIDs []string, reconciled bool) error
}

// ReconciliationRepository defines persistence for statement-to-journal links
type ReconciliationRepository interface {
	SaveReconciliationsInTx(ctx context.Context, tx pgx.Tx, recs []domain.Reconciliation) error
	FindReconciliationInTx(ctx context.Context, tx pgx.Tx, companyID, reconciliationID string) (*domain.Reconciliation, error)
	DeleteReconciliationInTx(ctx context.Context, tx pgx.Tx, reconciliationID string) error

	// CountReconciliationsForStatementInTx counts the links that remain on a statement line.
	CountReconciliationsForStatementInTx(ctx context.Context, tx pgx.Tx, statementID string) (int, error)

	// ListReconciliationsInTx returns every link of the company.
	ListReconciliationsInTx(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Reconciliation, error)
}

// BankRepositoryFacade combines all bank-related repository interfaces
type BankRepositoryFacade interface {
	BankAccountRepository
	StatementRepository
	ReconciliationRepository
}
