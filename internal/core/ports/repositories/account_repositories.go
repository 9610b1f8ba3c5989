package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account of a company.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its code.
	FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)

	// ListAccounts retrieves every account of a company ordered by code.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccountsInTx persists new accounts.
	SaveAccountsInTx(ctx context.Context, tx pgx.Tx, accounts []domain.Account) error

	// UpdateAccount updates the editable details of an account.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccountInTx removes an account.
	DeleteAccountInTx(ctx context.Context, tx pgx.Tx, companyID, accountID string) error
}

// AccountTransactionSupport defines operations that support postings
type AccountTransactionSupport interface {
	// FindAccountsByIDsInTx retrieves the company's accounts among accountIDs, keyed by id.
	FindAccountsByIDsInTx(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountsByCodesInTx retrieves the company's accounts among codes, keyed by code.
	FindAccountsByCodesInTx(ctx context.Context, tx pgx.Tx, companyID string, codes []string) (map[string]domain.Account, error)

	// LockAccountsForUpdate selects accounts in id order and locks them within a transaction.
	LockAccountsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// HasLedgerLinesInTx reports whether any ledger line references the account.
	HasLedgerLinesInTx(ctx context.Context, tx pgx.Tx, companyID, accountID string) (bool, error)

	// HasChildAccountsInTx reports whether any account has this one as parent.
	HasChildAccountsInTx(ctx context.Context, tx pgx.Tx, companyID, accountID string) (bool, error)

	// UpdateAccountBalancesInTx adds the deltas to the cached debit and credit aggregates.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]domain.BalanceDelta, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
