package dto

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
)

// CreateCompanyRequest defines data for creating a new company.
type CreateCompanyRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	TaxID   string `json:"taxID" binding:"max=50"`
	Address string `json:"address" binding:"max=255"`
}

// AddMemberRequest defines data for adding a user to a company.
type AddMemberRequest struct {
	UserID string             `json:"userID" binding:"required"`
	Role   domain.CompanyRole `json:"role" binding:"required,oneof=OWNER ACCOUNTANT CLERK VIEWER"`
}

// CompanyResponse defines data returned for a company.
type CompanyResponse struct {
	CompanyID     string    `json:"companyID"`
	Name          string    `json:"name"`
	TaxID         string    `json:"taxID,omitempty"`
	Address       string    `json:"address,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID
}

// ToCompanyResponse converts domain.Company to DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:     c.CompanyID,
		Name:          c.Name,
		TaxID:         c.TaxID,
		Address:       c.Address,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
}

// ListCompaniesResponse wraps a list of companies.
type ListCompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

// ToListCompaniesResponse converts a slice of domain.Company.
func ToListCompaniesResponse(companies []domain.Company) ListCompaniesResponse {
	res := ListCompaniesResponse{Companies: make([]CompanyResponse, len(companies))}
	for i := range companies {
		res.Companies[i] = ToCompanyResponse(&companies[i])
	}
	return res
}
