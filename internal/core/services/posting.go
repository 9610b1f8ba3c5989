package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// bookkeeper writes already-posted entries generated by the order and
// settlement workflows. It is used inside the caller's transaction.
type bookkeeper struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	tolerance   decimal.Decimal
}

// resolveCodes looks up core accounts by code. Missing codes are returned in
// the given order.
func (b bookkeeper) resolveCodes(ctx context.Context, tx pgx.Tx, companyID string, codes ...string) (map[string]domain.Account, []string, error) {
	found, err := b.accountRepo.FindAccountsByCodesInTx(ctx, tx, companyID, codes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}
	var missing []string
	for _, code := range codes {
		if _, ok := found[code]; !ok {
			missing = append(missing, code)
		}
	}
	return found, missing, nil
}

// requireCodes is resolveCodes that fails with MissingAccountError.
func (b bookkeeper) requireCodes(ctx context.Context, tx pgx.Tx, companyID string, codes ...string) (map[string]domain.Account, error) {
	found, missing, err := b.resolveCodes(ctx, tx, companyID, codes...)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &apperrors.MissingAccountError{Codes: missing}
	}
	return found, nil
}

// book locks every account the entries touch, in id order and in one call,
// then stores the entries and adds them to the cached balances.
func (b bookkeeper) book(ctx context.Context, tx pgx.Tx, companyID, userID string, now time.Time, entries ...*domain.JournalEntry) error {
	deltas := make(map[string]domain.BalanceDelta)
	for _, e := range entries {
		if err := e.CheckBalanced(b.tolerance); err != nil {
			return err
		}
		for id, d := range e.BalanceDeltas() {
			cur := deltas[id]
			cur.Debit = cur.Debit.Add(d.Debit)
			cur.Credit = cur.Credit.Add(d.Credit)
			deltas[id] = cur
		}
	}
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	locked, err := b.accountRepo.LockAccountsForUpdate(ctx, tx, companyID, ids)
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return apperrors.NewValidationError("accountID", "account %s does not belong to the company", id)
		}
	}
	for _, e := range entries {
		if err := b.journalRepo.SaveJournalInTx(ctx, tx, *e); err != nil {
			return fmt.Errorf("failed to save journal entry: %w", err)
		}
	}
	if err := b.accountRepo.UpdateAccountBalancesInTx(ctx, tx, deltas, userID, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}
