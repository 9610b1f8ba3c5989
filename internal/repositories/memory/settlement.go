package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Store) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	return s.write(tx, func(d *dataset) error {
		d.payments = append(d.payments, payment)
		return nil
	})
}

func (s *Store) ListPayments(ctx context.Context, companyID, orderID string) ([]domain.Payment, error) {
	out := []domain.Payment{}
	err := s.read(func(d *dataset) error {
		for _, p := range d.payments {
			if p.CompanyID == companyID && (orderID == "" || p.OrderID == orderID) {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaymentDate.After(out[j].PaymentDate) })
	return out, err
}

func (s *Store) SumPaymentsByOrdersInTx(ctx context.Context, tx pgx.Tx, companyID string, orderIDs []string) (map[string]decimal.Decimal, error) {
	out := zeroSums(orderIDs)
	err := s.read(func(d *dataset) error {
		for _, p := range d.payments {
			if sum, ok := out[p.OrderID]; ok && p.CompanyID == companyID {
				out[p.OrderID] = sum.Add(p.Amount)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) SaveReceiptInTx(ctx context.Context, tx pgx.Tx, receipt domain.Receipt) error {
	return s.write(tx, func(d *dataset) error {
		d.receipts = append(d.receipts, receipt)
		return nil
	})
}

func (s *Store) ListReceipts(ctx context.Context, companyID, orderID string) ([]domain.Receipt, error) {
	out := []domain.Receipt{}
	err := s.read(func(d *dataset) error {
		for _, r := range d.receipts {
			if r.CompanyID == companyID && (orderID == "" || r.OrderID == orderID) {
				out = append(out, r)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceiptDate.After(out[j].ReceiptDate) })
	return out, err
}

func (s *Store) SumReceiptsByOrdersInTx(ctx context.Context, tx pgx.Tx, companyID string, orderIDs []string) (map[string]decimal.Decimal, error) {
	out := zeroSums(orderIDs)
	err := s.read(func(d *dataset) error {
		for _, r := range d.receipts {
			if sum, ok := out[r.OrderID]; ok && r.CompanyID == companyID {
				out[r.OrderID] = sum.Add(r.Amount)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) OutstandingCreditInTx(ctx context.Context, tx pgx.Tx, companyID, customerID, excludeOrderID string) (decimal.Decimal, error) {
	debt := decimal.Zero
	err := s.read(func(d *dataset) error {
		received := make(map[string]decimal.Decimal)
		for _, r := range d.receipts {
			if r.CompanyID == companyID && r.OrderID != "" {
				received[r.OrderID] = received[r.OrderID].Add(r.Amount)
			}
		}
		for _, o := range d.salesOrders {
			if o.CompanyID != companyID || o.CustomerID != customerID || o.OrderID == excludeOrderID {
				continue
			}
			if o.Status != domain.OrderPosted || o.PaymentMethod != domain.PaymentCredit {
				continue
			}
			if out := domain.Outstanding(o.TotalAmount, received[o.OrderID]); out.IsPositive() {
				debt = debt.Add(out)
			}
		}
		return nil
	})
	return debt, err
}

func zeroSums(ids []string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		out[id] = decimal.Zero
	}
	return out
}
