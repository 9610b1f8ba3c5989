package dto

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerLineRequest is one line of a manual journal entry. Exactly one of
// Debit and Credit is normally non-zero.
type LedgerLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit" binding:"gte=0"`
	Credit    decimal.Decimal `json:"credit" binding:"gte=0"`
	Memo      string          `json:"memo" binding:"max=255"`
}

// CreateJournalRequest defines the data needed to create an unposted manual entry.
type CreateJournalRequest struct {
	Date        time.Time           `json:"date" binding:"required"`
	Description string              `json:"description" binding:"max=255"`
	Lines       []LedgerLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// LedgerLineResponse defines the data returned for a ledger line.
type LedgerLineResponse struct {
	LineID    string          `json:"lineID"`
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID   string               `json:"journalID"`
	Date        time.Time            `json:"date"`
	Description string               `json:"description"`
	SourceType  domain.SourceType    `json:"sourceType"`
	SourceID    string               `json:"sourceID,omitempty"`
	TotalDebit  decimal.Decimal      `json:"totalDebit"`
	TotalCredit decimal.Decimal      `json:"totalCredit"`
	Posted      bool                 `json:"posted"`
	PostedBy    string               `json:"postedBy,omitempty"`
	PostedAt    *time.Time           `json:"postedAt,omitempty"`
	Lines       []LedgerLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	CreatedBy   string               `json:"createdBy"`
}

// ToJournalResponse converts a domain.JournalEntry to JournalResponse DTO.
func ToJournalResponse(j *domain.JournalEntry) JournalResponse {
	resp := JournalResponse{
		JournalID:   j.JournalID,
		Date:        j.Date,
		Description: j.Description,
		SourceType:  j.SourceType,
		SourceID:    j.SourceID,
		TotalDebit:  j.TotalDebit,
		TotalCredit: j.TotalCredit,
		Posted:      j.Posted,
		PostedBy:    j.PostedBy,
		PostedAt:    j.PostedAt,
		CreatedAt:   j.CreatedAt,
		CreatedBy:   j.CreatedBy,
	}
	for _, l := range j.Lines {
		resp.Lines = append(resp.Lines, LedgerLineResponse{
			LineID:    l.LineID,
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		})
	}
	return resp
}

// ToJournalResponses converts a slice of domain.JournalEntry.
func ToJournalResponses(entries []domain.JournalEntry) []JournalResponse {
	res := make([]JournalResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalResponse(&entries[i])
	}
	return res
}

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
	Posted    *bool   `form:"posted"`
}

// ListJournalsResponse wraps a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// AccountLedgerParams defines query parameters for an account ledger.
type AccountLedgerParams struct {
	Limit int `form:"limit,default=100" binding:"min=1,max=1000"`
}
