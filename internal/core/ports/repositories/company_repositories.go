package repositories

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a specific company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompaniesByUserID retrieves all companies a user belongs to.
	ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompanyInTx persists a new company.
	SaveCompanyInTx(ctx context.Context, tx pgx.Tx, company domain.Company) error
}

// CompanyMembershipManager defines operations for managing company memberships
type CompanyMembershipManager interface {
	// SaveMembershipInTx adds a user to a company, replacing any existing role.
	SaveMembershipInTx(ctx context.Context, tx pgx.Tx, membership domain.Membership) error

	// FindMembership retrieves the membership of a user in a company.
	FindMembership(ctx context.Context, companyID, userID string) (*domain.Membership, error)

	// ListMembers retrieves every membership of a company.
	ListMembers(ctx context.Context, companyID string) ([]domain.Membership, error)
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
	CompanyMembershipManager
}
