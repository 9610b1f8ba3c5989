package services

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount retrieves a specific account of a company.
	GetAccount(ctx context.Context, companyID string, accountID string, userID string) (*domain.Account, error)

	// ListAccounts retrieves the company's accounts, or the direct children of parentID when set.
	ListAccounts(ctx context.Context, companyID string, parentID string, userID string) ([]domain.Account, error)

	// GetAccountTree returns the chart of accounts as a nested tree.
	GetAccountTree(ctx context.Context, companyID string, userID string) ([]domain.AccountTreeNode, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's name or remark.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes a non-core leaf account without ledger lines.
	DeleteAccount(ctx context.Context, companyID string, accountID string, userID string) error

	// SeedCoreAccounts creates the standard accounts the company is missing.
	// It returns the number of accounts created.
	SeedCoreAccounts(ctx context.Context, companyID string, userID string) (int, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
