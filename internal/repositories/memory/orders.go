package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

func matchesFilter(o domain.Order, partyID string, f portsrepo.OrderFilter) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.PaymentMethod != "" && o.PaymentMethod != f.PaymentMethod {
		return false
	}
	return f.PartyID == "" || f.PartyID == partyID
}

func newestFirst(a, b domain.Order) bool {
	if !a.OrderDate.Equal(b.OrderDate) {
		return a.OrderDate.After(b.OrderDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.OrderID > b.OrderID
}

func (s *Store) FindPurchaseOrder(ctx context.Context, companyID, orderID string) (*domain.PurchaseOrder, error) {
	var out *domain.PurchaseOrder
	err := s.read(func(d *dataset) error {
		o, ok := d.purchaseOrders[orderID]
		if !ok || o.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		o.Items = copyItems(o.Items)
		out = &o
		return nil
	})
	return out, err
}

func (s *Store) ListPurchaseOrders(ctx context.Context, companyID string, filter portsrepo.OrderFilter) ([]domain.PurchaseOrder, error) {
	out := []domain.PurchaseOrder{}
	err := s.read(func(d *dataset) error {
		for _, o := range d.purchaseOrders {
			if o.CompanyID == companyID && matchesFilter(o.Order, o.SupplierID, filter) {
				o.Items = nil
				out = append(out, o)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return newestFirst(out[i].Order, out[j].Order) })
	return out, err
}

func (s *Store) SavePurchaseOrderInTx(ctx context.Context, tx pgx.Tx, order domain.PurchaseOrder) error {
	return s.write(tx, func(d *dataset) error {
		if _, ok := d.purchaseOrders[order.OrderID]; ok {
			return apperrors.ErrDuplicate
		}
		order.Items = copyItems(order.Items)
		d.purchaseOrders[order.OrderID] = order
		return nil
	})
}

func (s *Store) LockPurchaseOrder(ctx context.Context, tx pgx.Tx, companyID, orderID string) (*domain.PurchaseOrder, error) {
	return s.FindPurchaseOrder(ctx, companyID, orderID)
}

func (s *Store) UpdatePurchaseOrderInTx(ctx context.Context, tx pgx.Tx, order domain.PurchaseOrder) error {
	return s.write(tx, func(d *dataset) error {
		cur, ok := d.purchaseOrders[order.OrderID]
		if !ok || cur.CompanyID != order.CompanyID {
			return apperrors.ErrNotFound
		}
		order.Items = copyItems(order.Items)
		d.purchaseOrders[order.OrderID] = order
		return nil
	})
}

func (s *Store) FindSalesOrder(ctx context.Context, companyID, orderID string) (*domain.SalesOrder, error) {
	var out *domain.SalesOrder
	err := s.read(func(d *dataset) error {
		o, ok := d.salesOrders[orderID]
		if !ok || o.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		o.Items = copyItems(o.Items)
		out = &o
		return nil
	})
	return out, err
}

func (s *Store) ListSalesOrders(ctx context.Context, companyID string, filter portsrepo.OrderFilter) ([]domain.SalesOrder, error) {
	out := []domain.SalesOrder{}
	err := s.read(func(d *dataset) error {
		for _, o := range d.salesOrders {
			if o.CompanyID == companyID && matchesFilter(o.Order, o.CustomerID, filter) {
				o.Items = nil
				out = append(out, o)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return newestFirst(out[i].Order, out[j].Order) })
	return out, err
}

func (s *Store) SaveSalesOrderInTx(ctx context.Context, tx pgx.Tx, order domain.SalesOrder) error {
	return s.write(tx, func(d *dataset) error {
		if _, ok := d.salesOrders[order.OrderID]; ok {
			return apperrors.ErrDuplicate
		}
		order.Items = copyItems(order.Items)
		d.salesOrders[order.OrderID] = order
		return nil
	})
}

func (s *Store) LockSalesOrder(ctx context.Context, tx pgx.Tx, companyID, orderID string) (*domain.SalesOrder, error) {
	return s.FindSalesOrder(ctx, companyID, orderID)
}

func (s *Store) UpdateSalesOrderInTx(ctx context.Context, tx pgx.Tx, order domain.SalesOrder) error {
	return s.write(tx, func(d *dataset) error {
		cur, ok := d.salesOrders[order.OrderID]
		if !ok || cur.CompanyID != order.CompanyID {
			return apperrors.ErrNotFound
		}
		order.Items = copyItems(order.Items)
		d.salesOrders[order.OrderID] = order
		return nil
	})
}
