package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := s.read(func(d *dataset) error {
		acc, ok := d.accounts[accountID]
		if !ok || acc.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		out = &acc
		return nil
	})
	return out, err
}

func (s *Store) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	var out *domain.Account
	err := s.read(func(d *dataset) error {
		for _, acc := range d.accounts {
			if acc.CompanyID == companyID && acc.Code == code {
				out = &acc
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return out, err
}

func (s *Store) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	out := []domain.Account{}
	err := s.read(func(d *dataset) error {
		for _, acc := range d.accounts {
			if acc.CompanyID == companyID {
				out = append(out, acc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (s *Store) HasChildAccountsInTx(ctx context.Context, tx pgx.Tx, companyID, accountID string) (bool, error) {
	found := false
	err := s.read(func(d *dataset) error {
		for _, acc := range d.accounts {
			if acc.CompanyID == companyID && acc.ParentID == accountID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (s *Store) HasLedgerLinesInTx(ctx context.Context, tx pgx.Tx, companyID, accountID string) (bool, error) {
	found := false
	err := s.read(func(d *dataset) error {
		for _, j := range d.journals {
			if j.CompanyID != companyID {
				continue
			}
			for _, l := range j.Lines {
				if l.AccountID == accountID {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}

func (s *Store) SaveAccountsInTx(ctx context.Context, tx pgx.Tx, accounts []domain.Account) error {
	return s.write(tx, func(d *dataset) error {
		for i, acc := range accounts {
			for _, other := range d.accounts {
				if other.CompanyID == acc.CompanyID && (other.Code == acc.Code || other.Path == acc.Path) {
					return apperrors.ErrDuplicate
				}
			}
			for _, other := range accounts[:i] {
				if other.CompanyID == acc.CompanyID && (other.Code == acc.Code || other.Path == acc.Path) {
					return apperrors.ErrDuplicate
				}
			}
		}
		for _, acc := range accounts {
			d.accounts[acc.AccountID] = acc
		}
		return nil
	})
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	return s.write(nil, func(d *dataset) error {
		cur, ok := d.accounts[account.AccountID]
		if !ok || cur.CompanyID != account.CompanyID {
			return apperrors.ErrNotFound
		}
		cur.Name = account.Name
		cur.Remark = account.Remark
		cur.LastUpdatedAt = account.LastUpdatedAt
		cur.LastUpdatedBy = account.LastUpdatedBy
		d.accounts[account.AccountID] = cur
		return nil
	})
}

func (s *Store) DeleteAccountInTx(ctx context.Context, tx pgx.Tx, companyID, accountID string) error {
	return s.write(tx, func(d *dataset) error {
		acc, ok := d.accounts[accountID]
		if !ok || acc.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		delete(d.accounts, accountID)
		return nil
	})
}

func (s *Store) FindAccountsByIDsInTx(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := s.read(func(d *dataset) error {
		for _, id := range accountIDs {
			if acc, ok := d.accounts[id]; ok && acc.CompanyID == companyID {
				out[id] = acc
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) FindAccountsByCodesInTx(ctx context.Context, tx pgx.Tx, companyID string, codes []string) (map[string]domain.Account, error) {
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	out := make(map[string]domain.Account, len(codes))
	err := s.read(func(d *dataset) error {
		for _, acc := range d.accounts {
			if acc.CompanyID == companyID && want[acc.Code] {
				out[acc.Code] = acc
			}
		}
		return nil
	})
	return out, err
}

// LockAccountsForUpdate needs no row lock here; the open transaction already
// excludes every other writer.
func (s *Store) LockAccountsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	return s.FindAccountsByIDsInTx(ctx, tx, companyID, accountIDs)
}

func (s *Store) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]domain.BalanceDelta, userID string, now time.Time) error {
	return s.write(tx, func(d *dataset) error {
		for id := range deltas {
			if _, ok := d.accounts[id]; !ok {
				return apperrors.ErrNotFound
			}
		}
		for id, delta := range deltas {
			acc := d.accounts[id]
			acc.BalanceDebit = acc.BalanceDebit.Add(delta.Debit)
			acc.BalanceCredit = acc.BalanceCredit.Add(delta.Credit)
			acc.LastUpdatedAt = now
			acc.LastUpdatedBy = userID
			d.accounts[id] = acc
		}
		return nil
	})
}
