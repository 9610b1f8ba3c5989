package services

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// GetCompany retrieves a company the user belongs to.
	GetCompany(ctx context.Context, companyID string, userID string) (*domain.Company, error)

	// ListUserCompanies retrieves the companies a user is a member of.
	ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error)

	// ListMembers retrieves all memberships of a company.
	ListMembers(ctx context.Context, companyID string, userID string) ([]domain.Membership, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany creates the tenant, seeds the standard chart of accounts
	// and makes the creator its owner.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// AddMember adds a user to the company or changes their role.
	AddMember(ctx context.Context, companyID string, req dto.AddMemberRequest, userID string) (*domain.Membership, error)
}

// CompanyAuthorizerSvc checks permissions within a company
type CompanyAuthorizerSvc interface {
	// Authorize fails with ErrForbidden unless the user's role grants perm.
	Authorize(ctx context.Context, companyID string, userID string, perm domain.Permission) error
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
	CompanyAuthorizerSvc
}
