package dto

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code          string               `json:"code" binding:"required,max=20"`
	Name          string               `json:"name" binding:"required,max=100"`
	Type          domain.AccountType   `json:"type" binding:"required,oneof=Asset Liability Equity Revenue Expense Common"`
	NormalBalance domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=Debit Credit"` // Optional, derived from type when empty
	ParentID      *string              `json:"parentID"`                                              // Optional, use pointer for nullability
	Remark        string               `json:"remark"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	ParentID      string               `json:"parentID"` // Note: Empty string for root accounts
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	Type          domain.AccountType   `json:"type"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	BalanceDebit  decimal.Decimal      `json:"balanceDebit"`
	BalanceCredit decimal.Decimal      `json:"balanceCredit"`
	IsCore        bool                 `json:"isCore"`
	Path          string               `json:"path"`
	Remark        string               `json:"remark"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=100"`
	Remark *string `json:"remark"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		ParentID:      acc.ParentID,
		Code:          acc.Code,
		Name:          acc.Name,
		Type:          acc.Type,
		NormalBalance: acc.NormalBalance,
		BalanceDebit:  acc.BalanceDebit,
		BalanceCredit: acc.BalanceCredit,
		IsCore:        acc.IsCore,
		Path:          acc.Path,
		Remark:        acc.Remark,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc) // Reuse the single converter
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	ParentID string `form:"parentID"` // Optional, restricts to direct children
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountBalanceParams defines query parameters for a balance query.
type AccountBalanceParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// SeedAccountsResponse reports how many core accounts were created.
type SeedAccountsResponse struct {
	Created int `json:"created"`
}
