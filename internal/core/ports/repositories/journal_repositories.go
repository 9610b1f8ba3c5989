package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalListParams filters a journal listing.
type JournalListParams struct {
	Limit     int
	NextToken *string
	Posted    *bool
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal entry with its lines.
	FindJournalByID(ctx context.Context, companyID, journalID string) (*domain.JournalEntry, error)

	// ListJournals retrieves journal headers newest first using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, companyID string, params JournalListParams) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournalInTx persists an entry and its lines.
	SaveJournalInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// LockJournalForUpdate retrieves an entry with its lines and locks its row.
	LockJournalForUpdate(ctx context.Context, tx pgx.Tx, companyID, journalID string) (*domain.JournalEntry, error)

	// MarkPostedInTx flags an unposted entry as posted.
	MarkPostedInTx(ctx context.Context, tx pgx.Tx, journalID, userID string, at time.Time) error
}

// LedgerLineReader defines read operations over posted ledger lines
type LedgerLineReader interface {
	// ListPostedLinesInTx returns posted lines of the given accounts (all accounts when
	// accountIDs is empty) whose entry date falls in the range, ordered by date,
	// entry creation and line number.
	ListPostedLinesInTx(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string, dates domain.DateRange) ([]domain.PostedLine, error)

	// ListPostedJournalsTouchingInTx returns posted entries, with all their lines,
	// that have at least one line on the given accounts and a date in the range.
	ListPostedJournalsTouchingInTx(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string, dates domain.DateRange) ([]domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LedgerLineReader
}
