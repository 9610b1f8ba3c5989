package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	return s.write(nil, func(d *dataset) error {
		if _, ok := d.suppliers[supplier.SupplierID]; ok {
			return apperrors.ErrDuplicate
		}
		d.suppliers[supplier.SupplierID] = supplier
		return nil
	})
}

func (s *Store) FindSupplier(ctx context.Context, companyID, supplierID string) (*domain.Supplier, error) {
	var out *domain.Supplier
	err := s.read(func(d *dataset) error {
		v, ok := d.suppliers[supplierID]
		if !ok || v.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		out = &v
		return nil
	})
	return out, err
}

func (s *Store) ListSuppliers(ctx context.Context, companyID string) ([]domain.Supplier, error) {
	out := []domain.Supplier{}
	err := s.read(func(d *dataset) error {
		for _, v := range d.suppliers {
			if v.CompanyID == companyID {
				out = append(out, v)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (s *Store) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	return s.write(nil, func(d *dataset) error {
		if _, ok := d.customers[customer.CustomerID]; ok {
			return apperrors.ErrDuplicate
		}
		d.customers[customer.CustomerID] = customer
		return nil
	})
}

func (s *Store) FindCustomer(ctx context.Context, companyID, customerID string) (*domain.Customer, error) {
	var out *domain.Customer
	err := s.read(func(d *dataset) error {
		v, ok := d.customers[customerID]
		if !ok || v.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		out = &v
		return nil
	})
	return out, err
}

func (s *Store) ListCustomers(ctx context.Context, companyID string) ([]domain.Customer, error) {
	out := []domain.Customer{}
	err := s.read(func(d *dataset) error {
		for _, v := range d.customers {
			if v.CompanyID == companyID {
				out = append(out, v)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	return s.write(nil, func(d *dataset) error {
		cur, ok := d.customers[customer.CustomerID]
		if !ok || cur.CompanyID != customer.CompanyID {
			return apperrors.ErrNotFound
		}
		d.customers[customer.CustomerID] = customer
		return nil
	})
}

func (s *Store) LockCustomer(ctx context.Context, tx pgx.Tx, companyID, customerID string) (*domain.Customer, error) {
	return s.FindCustomer(ctx, companyID, customerID)
}

func (s *Store) SaveProduct(ctx context.Context, product domain.Product) error {
	return s.write(nil, func(d *dataset) error {
		for _, p := range d.products {
			if p.ProductID == product.ProductID || (p.CompanyID == product.CompanyID && p.Code == product.Code) {
				return apperrors.ErrDuplicate
			}
		}
		d.products[product.ProductID] = product
		return nil
	})
}

func (s *Store) FindProduct(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	var out *domain.Product
	err := s.read(func(d *dataset) error {
		v, ok := d.products[productID]
		if !ok || v.CompanyID != companyID {
			return apperrors.ErrNotFound
		}
		out = &v
		return nil
	})
	return out, err
}

func (s *Store) ListProducts(ctx context.Context, companyID string) ([]domain.Product, error) {
	out := []domain.Product{}
	err := s.read(func(d *dataset) error {
		for _, v := range d.products {
			if v.CompanyID == companyID {
				out = append(out, v)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (s *Store) FindProductsByIDsInTx(ctx context.Context, tx pgx.Tx, companyID string, productIDs []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(productIDs))
	err := s.read(func(d *dataset) error {
		for _, id := range productIDs {
			if p, ok := d.products[id]; ok && p.CompanyID == companyID {
				out[id] = p
			}
		}
		return nil
	})
	return out, err
}
