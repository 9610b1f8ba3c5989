package services

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

// SupplierSvc manages suppliers
type SupplierSvc interface {
	CreateSupplier(ctx context.Context, companyID string, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error)
	GetSupplier(ctx context.Context, companyID string, supplierID string, userID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, companyID string, userID string) ([]domain.Supplier, error)
}

// CustomerSvc manages customers and their credit limits
type CustomerSvc interface {
	CreateCustomer(ctx context.Context, companyID string, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error)
	GetCustomer(ctx context.Context, companyID string, customerID string, userID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, companyID string, userID string) ([]domain.Customer, error)
	UpdateCreditLimit(ctx context.Context, companyID string, customerID string, req dto.UpdateCreditLimitRequest, userID string) (*domain.Customer, error)
}

// ProductSvc manages products
type ProductSvc interface {
	CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	GetProduct(ctx context.Context, companyID string, productID string, userID string) (*domain.Product, error)
	ListProducts(ctx context.Context, companyID string, userID string) ([]domain.Product, error)
}

// PartySvcFacade combines the master data services
type PartySvcFacade interface {
	SupplierSvc
	CustomerSvc
	ProductSvc
}
