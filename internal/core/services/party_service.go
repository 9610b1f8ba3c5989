package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/google/uuid"
)

// partyService manages suppliers, customers and products.
type partyService struct {
	BaseService
	partyRepo portsrepo.PartyRepositoryFacade
}

type PartyServiceOption func(*partyService)

func WithPartyAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) PartyServiceOption {
	return func(s *partyService) {
		s.Authorizer = authorizer
	}
}

func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade, options ...PartyServiceOption) portssvc.PartySvcFacade {
	svc := &partyService{partyRepo: partyRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("name", "name is required")
	}
	return nil
}

func (s *partyService) CreateSupplier(ctx context.Context, companyID string, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermMasterData); err != nil {
		return nil, err
	}
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	supplier := domain.Supplier{
		SupplierID:  uuid.NewString(),
		CompanyID:   companyID,
		Name:        strings.TrimSpace(req.Name),
		Contact:     req.Contact,
		Phone:       req.Phone,
		Address:     req.Address,
		AuditFields: domain.NewAuditFields(userID, time.Now().UTC()),
	}
	if err := s.partyRepo.SaveSupplier(ctx, supplier); err != nil {
		s.LogError(ctx, err, "Failed to save supplier", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Supplier created successfully", slog.String("supplier_id", supplier.SupplierID))
	return &supplier, nil
}

func (s *partyService) GetSupplier(ctx context.Context, companyID, supplierID, userID string) (*domain.Supplier, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.partyRepo.FindSupplier(ctx, companyID, supplierID)
}

func (s *partyService) ListSuppliers(ctx context.Context, companyID, userID string) ([]domain.Supplier, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.partyRepo.ListSuppliers(ctx, companyID)
}

func (s *partyService) CreateCustomer(ctx context.Context, companyID string, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermMasterData); err != nil {
		return nil, err
	}
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	if req.CreditLimit.IsNegative() {
		return nil, apperrors.NewValidationError("creditLimit", "credit limit cannot be negative")
	}
	customer := domain.Customer{
		CustomerID:  uuid.NewString(),
		CompanyID:   companyID,
		Name:        strings.TrimSpace(req.Name),
		Contact:     req.Contact,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: domain.RoundMoney(req.CreditLimit),
		AuditFields: domain.NewAuditFields(userID, time.Now().UTC()),
	}
	if err := s.partyRepo.SaveCustomer(ctx, customer); err != nil {
		s.LogError(ctx, err, "Failed to save customer", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Customer created successfully", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

func (s *partyService) GetCustomer(ctx context.Context, companyID, customerID, userID string) (*domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.partyRepo.FindCustomer(ctx, companyID, customerID)
}

func (s *partyService) ListCustomers(ctx context.Context, companyID, userID string) ([]domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.partyRepo.ListCustomers(ctx, companyID)
}

// UpdateCreditLimit changes the limit. Lowering it below the current debt is
// allowed; further credit sales are rejected until the debt falls.
func (s *partyService) UpdateCreditLimit(ctx context.Context, companyID, customerID string, req dto.UpdateCreditLimitRequest, userID string) (*domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermMasterData); err != nil {
		return nil, err
	}
	if req.CreditLimit.IsNegative() {
		return nil, apperrors.NewValidationError("creditLimit", "credit limit cannot be negative")
	}
	customer, err := s.partyRepo.FindCustomer(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	customer.CreditLimit = domain.RoundMoney(req.CreditLimit)
	customer.LastUpdatedAt = time.Now().UTC()
	customer.LastUpdatedBy = userID
	if err := s.partyRepo.UpdateCustomer(ctx, *customer); err != nil {
		s.LogError(ctx, err, "Failed to update customer", slog.String("customer_id", customerID))
		return nil, err
	}
	s.LogInfo(ctx, "Customer credit limit updated",
		slog.String("customer_id", customerID),
		slog.String("credit_limit", customer.CreditLimit.StringFixed(2)))
	return customer, nil
}

func (s *partyService) CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermMasterData); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, apperrors.NewValidationError("code", "code is required")
	}
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	product := domain.Product{
		ProductID:     uuid.NewString(),
		CompanyID:     companyID,
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		Unit:          req.Unit,
		DefaultPrice:  domain.RoundMoney(req.DefaultPrice),
		Specification: req.Specification,
		AuditFields:   domain.NewAuditFields(userID, time.Now().UTC()),
	}
	if err := s.partyRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Product created successfully", slog.String("product_id", product.ProductID))
	return &product, nil
}

func (s *partyService) GetProduct(ctx context.Context, companyID, productID, userID string) (*domain.Product, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.partyRepo.FindProduct(ctx, companyID, productID)
}

func (s *partyService) ListProducts(ctx context.Context, companyID, userID string) ([]domain.Product, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.partyRepo.ListProducts(ctx, companyID)
}
