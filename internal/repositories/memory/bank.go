package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	return s.write(nil, func(d *dataset) error {
		for _, b := range d.bankAccounts {
			if b.BankAccountID == account.BankAccountID || (b.CompanyID == account.CompanyID && b.AccountNumber == account.AccountNumber) {
				return apperrors.ErrDuplicate
			}
		}
		d.bankAccounts[account.BankAccountID] = account
		return nil
	})
}

func (s *Store) FindBankAccount(ctx context.Context, companyID, bankAccountID string) (*domain.BankAccount, error) {
	var out *domain.BankAccount
	err := s.read(func(d *dataset) error {
		b, ok := d.bankAccounts[bankAccountID]
		if !ok || b.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		out = &b
		return nil
	})
	return out, err
}

func (s *Store) ListBankAccounts(ctx context.Context, companyID string) ([]domain.BankAccount, error) {
	out := []domain.BankAccount{}
	err := s.read(func(d *dataset) error {
		for _, b := range d.bankAccounts {
			if b.CompanyID == companyID {
				out = append(out, b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out, err
}

func (s *Store) LockBankAccount(ctx context.Context, tx pgx.Tx, companyID, bankAccountID string) (*domain.BankAccount, error) {
	return s.FindBankAccount(ctx, companyID, bankAccountID)
}

func (s *Store) SaveStatement(ctx context.Context, statement domain.BankStatement) error {
	return s.write(nil, func(d *dataset) error {
		if _, ok := d.bankAccounts[statement.BankAccountID]; !ok {
			return apperrors.ErrNotFound
		}
		if _, ok := d.statements[statement.StatementID]; ok {
			return apperrors.ErrDuplicate
		}
		d.statements[statement.StatementID] = statement
		return nil
	})
}

func (s *Store) FindStatementInTx(ctx context.Context, tx pgx.Tx, companyID, statementID string) (*domain.BankStatement, error) {
	var out *domain.BankStatement
	err := s.read(func(d *dataset) error {
		st, ok := d.statements[statementID]
		if !ok || st.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		out = &st
		return nil
	})
	return out, err
}

func (s *Store) ListStatementsInTx(ctx context.Context, tx pgx.Tx, companyID, bankAccountID string, dates domain.DateRange) ([]domain.BankStatement, error) {
	out := []domain.BankStatement{}
	err := s.read(func(d *dataset) error {
		for _, st := range d.statements {
			if st.CompanyID == companyID && st.BankAccountID == bankAccountID && dates.Contains(st.Date) {
				out = append(out, st)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StatementID < out[j].StatementID
	})
	return out, err
}

func (s *Store) SetStatementsReconciledInTx(ctx context.Context, tx pgx.Tx, statementIDs []string, reconciled bool) error {
	return s.write(tx, func(d *dataset) error {
		for _, id := range statementIDs {
			st, ok := d.statements[id]
			if !ok {
				return apperrors.ErrNotFound
			}
			st.IsReconciled = reconciled
			d.statements[id] = st
		}
		return nil
	})
}

func (s *Store) SaveReconciliationsInTx(ctx context.Context, tx pgx.Tx, recs []domain.Reconciliation) error {
	return s.write(tx, func(d *dataset) error {
		for _, r := range recs {
			if _, ok := d.statements[r.StatementID]; !ok {
				return apperrors.ErrNotFound
			}
			if _, ok := d.journals[r.JournalID]; !ok {
				return apperrors.ErrNotFound
			}
		}
		for _, r := range recs {
			d.recs[r.ReconciliationID] = r
		}
		return nil
	})
}

func (s *Store) FindReconciliationInTx(ctx context.Context, tx pgx.Tx, companyID, reconciliationID string) (*domain.Reconciliation, error) {
	var out *domain.Reconciliation
	err := s.read(func(d *dataset) error {
		r, ok := d.recs[reconciliationID]
		if !ok || r.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		out = &r
		return nil
	})
	return out, err
}

func (s *Store) DeleteReconciliationInTx(ctx context.Context, tx pgx.Tx, reconciliationID string) error {
	return s.write(tx, func(d *dataset) error {
		if _, ok := d.recs[reconciliationID]; !ok {
			return apperrors.ErrNotFound
		}
		delete(d.recs, reconciliationID)
		return nil
	})
}

func (s *Store) CountReconciliationsForStatementInTx(ctx context.Context, tx pgx.Tx, statementID string) (int, error) {
	n := 0
	err := s.read(func(d *dataset) error {
		for _, r := range d.recs {
			if r.StatementID == statementID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *Store) ListReconciliationsInTx(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Reconciliation, error) {
	out := []domain.Reconciliation{}
	err := s.read(func(d *dataset) error {
		for _, r := range d.recs {
			if r.CompanyID == companyID {
				out = append(out, r)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ReconciliationID < out[j].ReconciliationID
	})
	return out, err
}
