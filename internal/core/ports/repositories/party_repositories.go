package repositories

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	SaveSupplier(ctx context.Context, supplier domain.Supplier) error
	FindSupplier(ctx context.Context, companyID, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, companyID string) ([]domain.Supplier, error)
}

// CustomerRepository defines persistence for customers
type CustomerRepository interface {
	SaveCustomer(ctx context.Context, customer domain.Customer) error
	FindCustomer(ctx context.Context, companyID, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, companyID string) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) error

	// LockCustomer locks the customer row so credit checks for the same customer serialize.
	LockCustomer(ctx context.Context, tx pgx.Tx, companyID, customerID string) (*domain.Customer, error)
}

// ProductRepository defines persistence for products
type ProductRepository interface {
	SaveProduct(ctx context.Context, product domain.Product) error
	FindProduct(ctx context.Context, companyID, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, companyID string) ([]domain.Product, error)

	// FindProductsByIDsInTx retrieves the company's products among productIDs, keyed by id.
	FindProductsByIDsInTx(ctx context.Context, tx pgx.Tx, companyID string, productIDs []string) (map[string]domain.Product, error)
}

// PartyRepositoryFacade combines the master data repositories
type PartyRepositoryFacade interface {
	SupplierRepository
	CustomerRepository
	ProductRepository
}
