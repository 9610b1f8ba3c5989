package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

func itemKey(companyID, productID string) string {
	return companyID + "|" + productID
}

func (s *Store) FindItemByProduct(ctx context.Context, companyID, productID string) (*domain.InventoryItem, error) {
	var out *domain.InventoryItem
	err := s.read(func(d *dataset) error {
		it, ok := d.items[itemKey(companyID, productID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		out = &it
		return nil
	})
	return out, err
}

func (s *Store) ListItems(ctx context.Context, companyID string) ([]domain.InventoryItem, error) {
	out := []domain.InventoryItem{}
	err := s.read(func(d *dataset) error {
		for _, it := range d.items {
			if it.CompanyID == companyID {
				out = append(out, it)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, err
}

func (s *Store) ListTransactionsByProduct(ctx context.Context, companyID, productID string) ([]domain.InventoryTransaction, error) {
	out := []domain.InventoryTransaction{}
	err := s.read(func(d *dataset) error {
		for _, t := range d.invTxns {
			if t.CompanyID == companyID && t.ProductID == productID {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) LockItemsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, productIDs []string) (map[string]domain.InventoryItem, error) {
	out := make(map[string]domain.InventoryItem, len(productIDs))
	now := time.Now().UTC()
	err := s.write(tx, func(d *dataset) error {
		for _, pid := range productIDs {
			key := itemKey(companyID, pid)
			it, ok := d.items[key]
			if !ok {
				it = *domain.NewInventoryItem(companyID, pid, now)
				d.items[key] = it
			}
			out[pid] = it
		}
		return nil
	})
	return out, err
}

func (s *Store) SaveItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.InventoryItem) error {
	return s.write(tx, func(d *dataset) error {
		for _, it := range items {
			d.items[itemKey(it.CompanyID, it.ProductID)] = it
		}
		return nil
	})
}

func (s *Store) SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.InventoryTransaction) error {
	return s.write(tx, func(d *dataset) error {
		d.invTxns = append(d.invTxns, txns...)
		return nil
	})
}
