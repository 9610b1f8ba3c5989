package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

func (s *Store) FindJournalByID(ctx context.Context, companyID, journalID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := s.read(func(d *dataset) error {
		j, ok := d.journals[journalID]
		if !ok || j.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		j = copyJournal(j)
		out = &j
		return nil
	})
	return out, err
}

func (s *Store) ListJournals(ctx context.Context, companyID string, params portsrepo.JournalListParams) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if params.NextToken != nil && *params.NextToken != "" {
		c, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", "%s", err.Error())
		}
		cursor = &c
	}

	var all []domain.JournalEntry
	_ = s.read(func(d *dataset) error {
		for _, j := range d.journals {
			if j.CompanyID != companyID {
				continue
			}
			if params.Posted != nil && j.Posted != *params.Posted {
				continue
			}
			if cursor != nil && !cursor.Before(j.Date, j.CreatedAt, j.JournalID) {
				continue
			}
			j.Lines = nil
			all = append(all, j)
		}
		return nil
	})
	sort.Slice(all, func(a, b int) bool {
		ja, jb := all[a], all[b]
		if !ja.Date.Equal(jb.Date) {
			return ja.Date.After(jb.Date)
		}
		if !ja.CreatedAt.Equal(jb.CreatedAt) {
			return ja.CreatedAt.After(jb.CreatedAt)
		}
		return ja.JournalID > jb.JournalID
	})

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	var next *string
	if len(all) > limit {
		all = all[:limit]
		last := all[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.JournalID})
		next = &token
	}
	if all == nil {
		all = []domain.JournalEntry{}
	}
	return all, next, nil
}

func (s *Store) SaveJournalInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	return s.write(tx, func(d *dataset) error {
		if _, ok := d.journals[entry.JournalID]; ok {
			return apperrors.ErrDuplicate
		}
		for _, l := range entry.Lines {
			acc, ok := d.accounts[l.AccountID]
			if !ok || acc.CompanyID != entry.CompanyID {
				return apperrors.NewValidationError("lines", "account %s does not exist", l.AccountID)
			}
		}
		d.journals[entry.JournalID] = copyJournal(entry)
		return nil
	})
}

func (s *Store) LockJournalForUpdate(ctx context.Context, tx pgx.Tx, companyID, journalID string) (*domain.JournalEntry, error) {
	return s.FindJournalByID(ctx, companyID, journalID)
}

func (s *Store) MarkPostedInTx(ctx context.Context, tx pgx.Tx, journalID, userID string, at time.Time) error {
	return s.write(tx, func(d *dataset) error {
		j, ok := d.journals[journalID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if j.Posted {
			return &apperrors.AlreadyPostedError{Resource: "journal", ID: journalID, Status: "posted"}
		}
		j.Posted = true
		j.PostedBy = userID
		j.PostedAt = &at
		j.LastUpdatedAt = at
		j.LastUpdatedBy = userID
		d.journals[journalID] = j
		return nil
	})
}

func (s *Store) ListPostedLinesInTx(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string, dates domain.DateRange) ([]domain.PostedLine, error) {
	want := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		want[id] = true
	}
	out := []domain.PostedLine{}
	err := s.read(func(d *dataset) error {
		for _, j := range d.journals {
			if j.CompanyID != companyID || !j.Posted || !dates.Contains(j.Date) {
				continue
			}
			for _, l := range j.Lines {
				if len(want) > 0 && !want[l.AccountID] {
					continue
				}
				out = append(out, domain.PostedLine{
					LedgerLine:  l,
					Date:        j.Date,
					Description: j.Description,
					SourceType:  j.SourceType,
					CreatedAt:   j.CreatedAt,
				})
			}
		}
		return nil
	})
	sort.Slice(out, func(a, b int) bool {
		la, lb := out[a], out[b]
		if !la.Date.Equal(lb.Date) {
			return la.Date.Before(lb.Date)
		}
		if !la.CreatedAt.Equal(lb.CreatedAt) {
			return la.CreatedAt.Before(lb.CreatedAt)
		}
		if la.JournalID != lb.JournalID {
			return la.JournalID < lb.JournalID
		}
		return la.LineNo < lb.LineNo
	})
	return out, err
}

func (s *Store) ListPostedJournalsTouchingInTx(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string, dates domain.DateRange) ([]domain.JournalEntry, error) {
	want := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		want[id] = true
	}
	out := []domain.JournalEntry{}
	err := s.read(func(d *dataset) error {
		for _, j := range d.journals {
			if j.CompanyID != companyID || !j.Posted || !dates.Contains(j.Date) {
				continue
			}
			for _, l := range j.Lines {
				if want[l.AccountID] {
					out = append(out, copyJournal(j))
					break
				}
			}
		}
		return nil
	})
	sort.Slice(out, func(a, b int) bool {
		if !out[a].Date.Equal(out[b].Date) {
			return out[a].Date.Before(out[b].Date)
		}
		return out[a].JournalID < out[b].JournalID
	})
	return out, err
}
