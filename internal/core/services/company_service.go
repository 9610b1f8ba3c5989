package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/chart"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// companyService implements the CompanySvcFacade interface
type companyService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	companyRepo portsrepo.CompanyRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	template    *chart.Template
}

// CompanyServiceOption is a functional option for configuring the company service
type CompanyServiceOption func(*companyService)

// WithChartTemplate replaces the chart of accounts seeded into new companies.
func WithChartTemplate(t *chart.Template) CompanyServiceOption {
	return func(s *companyService) {
		s.template = t
	}
}

// NewCompanyService creates a new company service with the provided dependencies
func NewCompanyService(
	txManager portsrepo.TransactionManager,
	companyRepo portsrepo.CompanyRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	options ...CompanyServiceOption,
) portssvc.CompanySvcFacade {
	svc := &companyService{
		txManager:   txManager,
		companyRepo: companyRepo,
		accountRepo: accountRepo,
		template:    chart.Standard(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// Authorize resolves the user's membership and checks the role's permissions.
func (s *companyService) Authorize(ctx context.Context, companyID, userID string, perm domain.Permission) error {
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("company %s: %w", companyID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find company for authorization", slog.String("company_id", companyID))
		return err
	}
	membership, err := s.companyRepo.FindMembership(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s is not a member of company %s", apperrors.ErrForbidden, userID, companyID)
		}
		s.LogError(ctx, err, "Failed to find membership",
			slog.String("company_id", companyID),
			slog.String("user_id", userID))
		return err
	}
	if !membership.Role.Can(perm) {
		return fmt.Errorf("%w: role %s lacks permission %s", apperrors.ErrForbidden, membership.Role, perm)
	}
	return nil
}

func (s *companyService) GetCompany(ctx context.Context, companyID, userID string) (*domain.Company, error) {
	if err := s.Authorize(ctx, companyID, userID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (s *companyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompaniesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies for user", slog.String("user_id", userID))
		return nil, err
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	s.LogDebug(ctx, "Companies listed successfully",
		slog.Int("count", len(companies)),
		slog.String("user_id", userID))
	return companies, nil
}

func (s *companyService) ListMembers(ctx context.Context, companyID, userID string) ([]domain.Membership, error) {
	if err := s.Authorize(ctx, companyID, userID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.companyRepo.ListMembers(ctx, companyID)
}

// CreateCompany stores the company, its owner and its core accounts in one transaction.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	if req.Name == "" {
		return nil, apperrors.NewValidationError("name", "company name is required")
	}
	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:   uuid.NewString(),
		Name:        req.Name,
		TaxID:       req.TaxID,
		Address:     req.Address,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}
	accounts := s.template.Materialize(company.CompanyID, creatorUserID, nil, now)

	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		if err := s.companyRepo.SaveCompanyInTx(ctx, tx, company); err != nil {
			return fmt.Errorf("failed to save company: %w", err)
		}
		owner := domain.Membership{
			UserID:    creatorUserID,
			CompanyID: company.CompanyID,
			Role:      domain.RoleOwner,
			JoinedAt:  now,
		}
		if err := s.companyRepo.SaveMembershipInTx(ctx, tx, owner); err != nil {
			return fmt.Errorf("failed to add owner: %w", err)
		}
		if err := s.accountRepo.SaveAccountsInTx(ctx, tx, accounts); err != nil {
			return fmt.Errorf("failed to seed core accounts: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create company", slog.String("creator_id", creatorUserID))
		return nil, err
	}

	s.LogInfo(ctx, "Company created successfully",
		slog.String("company_id", company.CompanyID),
		slog.String("creator_id", creatorUserID),
		slog.Int("seeded_accounts", len(accounts)))
	return &company, nil
}

func (s *companyService) AddMember(ctx context.Context, companyID string, req dto.AddMemberRequest, userID string) (*domain.Membership, error) {
	if err := s.Authorize(ctx, companyID, userID, domain.PermCompanyManage); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError("role", "unknown role %q", req.Role)
	}
	membership := domain.Membership{
		UserID:    req.UserID,
		CompanyID: companyID,
		Role:      req.Role,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.companyRepo.SaveMembershipInTx(ctx, nil, membership); err != nil {
		s.LogError(ctx, err, "Failed to add member",
			slog.String("company_id", companyID),
			slog.String("member_id", req.UserID))
		return nil, err
	}
	saved, err := s.companyRepo.FindMembership(ctx, companyID, req.UserID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Member added successfully",
		slog.String("company_id", companyID),
		slog.String("member_id", req.UserID),
		slog.String("role", string(req.Role)))
	return saved, nil
}
