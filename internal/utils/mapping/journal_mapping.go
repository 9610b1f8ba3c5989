package mapping

import (
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/models"
)

// ToModelJournal converts a domain JournalEntry header to a model Journal
func ToModelJournal(d domain.JournalEntry) models.Journal {
	return models.Journal{
		JournalID:   d.JournalID,
		CompanyID:   d.CompanyID,
		JournalDate: d.Date,
		Description: d.Description,
		SourceType:  string(d.SourceType),
		SourceID:    NullableString(d.SourceID),
		TotalDebit:  d.TotalDebit,
		TotalCredit: d.TotalCredit,
		Posted:      d.Posted,
		PostedBy:    NullableString(d.PostedBy),
		PostedAt:    d.PostedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal and its lines to a domain JournalEntry
func ToDomainJournal(m models.Journal, lines []models.LedgerLine) domain.JournalEntry {
	entry := domain.JournalEntry{
		JournalID:   m.JournalID,
		CompanyID:   m.CompanyID,
		Date:        m.JournalDate,
		Description: m.Description,
		SourceType:  domain.SourceType(m.SourceType),
		SourceID:    StringValue(m.SourceID),
		TotalDebit:  m.TotalDebit,
		TotalCredit: m.TotalCredit,
		Posted:      m.Posted,
		PostedBy:    StringValue(m.PostedBy),
		PostedAt:    m.PostedAt,
		Lines:       ToDomainLedgerLines(lines),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	return entry
}

// ToModelLedgerLine converts a domain LedgerLine to a model LedgerLine
func ToModelLedgerLine(d domain.LedgerLine) models.LedgerLine {
	return models.LedgerLine{
		LineID:    d.LineID,
		JournalID: d.JournalID,
		AccountID: d.AccountID,
		LineNo:    d.LineNo,
		Debit:     d.Debit,
		Credit:    d.Credit,
		Memo:      d.Memo,
	}
}

// ToDomainLedgerLines converts model LedgerLines to domain LedgerLines
func ToDomainLedgerLines(ms []models.LedgerLine) []domain.LedgerLine {
	ds := make([]domain.LedgerLine, len(ms))
	for i, m := range ms {
		ds[i] = domain.LedgerLine{
			LineID:    m.LineID,
			JournalID: m.JournalID,
			AccountID: m.AccountID,
			LineNo:    m.LineNo,
			Debit:     m.Debit,
			Credit:    m.Credit,
			Memo:      m.Memo,
		}
	}
	return ds
}
