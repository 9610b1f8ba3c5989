package services

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

// LedgerReaderSvc defines read operations for journal data
type LedgerReaderSvc interface {
	// GetEntry retrieves a journal entry with its lines.
	GetEntry(ctx context.Context, companyID string, journalID string, userID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of journal entries, newest first.
	ListEntries(ctx context.Context, companyID string, params dto.ListJournalsParams, userID string) (*dto.ListJournalsResponse, error)
}

// LedgerWriterSvc defines write operations for journal data
type LedgerWriterSvc interface {
	// CreateEntry persists an unposted MANUAL entry.
	CreateEntry(ctx context.Context, companyID string, req dto.CreateJournalRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry posts an entry and updates the cached account balances.
	PostEntry(ctx context.Context, companyID string, journalID string, userID string) (*domain.JournalEntry, error)
}

// LedgerCalculatorSvc defines balance queries computed from posted lines
type LedgerCalculatorSvc interface {
	// ComputeAccountBalance sums the posted lines of the account and its
	// descendants up to asOf, or all history when asOf is nil.
	ComputeAccountBalance(ctx context.Context, companyID string, accountID string, asOf *time.Time, userID string) (*domain.AccountBalance, error)

	// AccountLedger lists the most recent posted lines of the account subtree with running balances.
	AccountLedger(ctx context.Context, companyID string, accountID string, limit int, userID string) ([]domain.LedgerRow, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerCalculatorSvc
}
