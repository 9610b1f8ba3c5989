package domain

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceType identifies the business event a journal entry was generated from.
type SourceType string

const (
	SourcePurchaseOrder SourceType = "PO"
	SourceSalesOrder    SourceType = "SO"
	SourcePayment       SourceType = "PAYMENT"
	SourceReceipt       SourceType = "RECEIPT"
	SourceManual        SourceType = "MANUAL"
)

func (s SourceType) Valid() bool {
	switch s {
	case SourcePurchaseOrder, SourceSalesOrder, SourcePayment, SourceReceipt, SourceManual:
		return true
	}
	return false
}

// DefaultBalanceTolerance is the largest accepted gap between total debit and total credit.
var DefaultBalanceTolerance = decimal.New(1, -2)

// RoundMoney rounds to the two decimal places every monetary column carries.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundQuantity rounds item and stock quantities, which share the money scale.
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// JournalEntry is a balanced debit/credit record. Once Posted it is immutable.
type JournalEntry struct {
	JournalID   string          `json:"journalID"`
	CompanyID   string          `json:"companyID"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	SourceType  SourceType      `json:"sourceType"`
	SourceID    string          `json:"sourceID,omitempty"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Posted      bool            `json:"posted"`
	PostedBy    string          `json:"postedBy,omitempty"`
	PostedAt    *time.Time      `json:"postedAt,omitempty"`
	Lines       []LedgerLine    `json:"lines"`
	AuditFields
}

// LedgerLine is one debit-or-credit component of a journal entry against one account.
type LedgerLine struct {
	LineID    string          `json:"lineID"`
	JournalID string          `json:"journalID"`
	AccountID string          `json:"accountID"`
	LineNo    int             `json:"lineNo"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// CheckBalanced verifies the totals agree within tolerance and match the lines.
func (e *JournalEntry) CheckBalanced(tolerance decimal.Decimal) error {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	if len(e.Lines) > 0 && (!debit.Equal(e.TotalDebit) || !credit.Equal(e.TotalCredit)) {
		return &apperrors.ImbalanceError{TotalDebit: debit, TotalCredit: credit, Tolerance: tolerance}
	}
	if e.TotalDebit.Sub(e.TotalCredit).Abs().GreaterThan(tolerance) {
		return &apperrors.ImbalanceError{TotalDebit: e.TotalDebit, TotalCredit: e.TotalCredit, Tolerance: tolerance}
	}
	return nil
}

// BalanceDeltas aggregates the lines per account.
func (e *JournalEntry) BalanceDeltas() map[string]BalanceDelta {
	out := make(map[string]BalanceDelta)
	for _, l := range e.Lines {
		d := out[l.AccountID]
		d.Debit = d.Debit.Add(l.Debit)
		d.Credit = d.Credit.Add(l.Credit)
		out[l.AccountID] = d
	}
	return out
}

// AccountIDs returns the distinct accounts referenced by the lines in line order.
func (e *JournalEntry) AccountIDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	return ids
}

// JournalBuilder assembles a JournalEntry and validates it once, in Build,
// instead of checking the balance on every mutation.
type JournalBuilder struct {
	entry     JournalEntry
	tolerance decimal.Decimal
	err       error
}

// NewJournalBuilder starts an unposted MANUAL entry for the company.
func NewJournalBuilder(companyID string, date time.Time) *JournalBuilder {
	return &JournalBuilder{
		entry: JournalEntry{
			JournalID:  uuid.NewString(),
			CompanyID:  companyID,
			Date:       date,
			SourceType: SourceManual,
		},
		tolerance: DefaultBalanceTolerance,
	}
}

func (b *JournalBuilder) Describe(description string) *JournalBuilder {
	b.entry.Description = description
	return b
}

func (b *JournalBuilder) Source(sourceType SourceType, sourceID string) *JournalBuilder {
	b.entry.SourceType = sourceType
	b.entry.SourceID = sourceID
	return b
}

func (b *JournalBuilder) Tolerance(tolerance decimal.Decimal) *JournalBuilder {
	b.tolerance = tolerance
	return b
}

// CreatedBy stamps the audit fields.
func (b *JournalBuilder) CreatedBy(userID string, at time.Time) *JournalBuilder {
	b.entry.AuditFields = AuditFields{CreatedAt: at, CreatedBy: userID, LastUpdatedAt: at, LastUpdatedBy: userID}
	return b
}

// PostedBy builds the entry already posted, as operational postings do.
func (b *JournalBuilder) PostedBy(userID string, at time.Time) *JournalBuilder {
	b.entry.Posted = true
	b.entry.PostedBy = userID
	b.entry.PostedAt = &at
	return b
}

func (b *JournalBuilder) Debit(accountID string, amount decimal.Decimal, memo string) *JournalBuilder {
	return b.Line(accountID, amount, decimal.Zero, memo)
}

func (b *JournalBuilder) Credit(accountID string, amount decimal.Decimal, memo string) *JournalBuilder {
	return b.Line(accountID, decimal.Zero, amount, memo)
}

// Line appends a line with explicit debit and credit amounts.
func (b *JournalBuilder) Line(accountID string, debit, credit decimal.Decimal, memo string) *JournalBuilder {
	if b.err != nil {
		return b
	}
	line := len(b.entry.Lines) + 1
	switch {
	case accountID == "":
		b.err = apperrors.NewValidationError("lines", "line %d has no account", line)
	case debit.IsNegative() || credit.IsNegative():
		b.err = apperrors.NewValidationError("lines", "line %d has a negative amount", line)
	case debit.IsZero() && credit.IsZero():
		b.err = apperrors.NewValidationError("lines", "line %d has neither debit nor credit", line)
	}
	if b.err != nil {
		return b
	}
	b.entry.Lines = append(b.entry.Lines, LedgerLine{
		LineID:    uuid.NewString(),
		JournalID: b.entry.JournalID,
		AccountID: accountID,
		LineNo:    line,
		Debit:     RoundMoney(debit),
		Credit:    RoundMoney(credit),
		Memo:      memo,
	})
	return b
}

// Build validates the entry and returns it. The entry is balanced within
// tolerance or Build fails with an ImbalanceError.
func (b *JournalBuilder) Build() (*JournalEntry, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.entry.CompanyID == "" {
		return nil, apperrors.NewValidationError("companyID", "company is required")
	}
	if b.entry.Date.IsZero() {
		return nil, apperrors.NewValidationError("date", "date is required")
	}
	if !b.entry.SourceType.Valid() {
		return nil, apperrors.NewValidationError("sourceType", "unknown source type %q", b.entry.SourceType)
	}
	if len(b.entry.Lines) < 2 {
		return nil, apperrors.NewValidationError("lines", "a journal entry needs at least two lines")
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range b.entry.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	b.entry.TotalDebit = debit
	b.entry.TotalCredit = credit
	if err := b.entry.CheckBalanced(b.tolerance); err != nil {
		return nil, err
	}
	entry := b.entry
	entry.Lines = append([]LedgerLine(nil), b.entry.Lines...)
	return &entry, nil
}
