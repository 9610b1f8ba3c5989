package dto

import "github.com/shopspring/decimal"

// CreateSupplierRequest defines the data needed to create a supplier.
type CreateSupplierRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Contact string `json:"contact" binding:"max=50"`
	Phone   string `json:"phone" binding:"max=30"`
	Address string `json:"address" binding:"max=255"`
}

// CreateCustomerRequest defines the data needed to create a customer.
type CreateCustomerRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Contact     string          `json:"contact" binding:"max=50"`
	Phone       string          `json:"phone" binding:"max=30"`
	Address     string          `json:"address" binding:"max=255"`
	CreditLimit decimal.Decimal `json:"creditLimit" binding:"gte=0"`
}

// UpdateCreditLimitRequest changes a customer's credit limit.
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"creditLimit" binding:"gte=0"`
}

// CreateProductRequest defines the data needed to create a product.
type CreateProductRequest struct {
	Code          string          `json:"code" binding:"required,max=50"`
	Name          string          `json:"name" binding:"required,max=100"`
	Unit          string          `json:"unit" binding:"max=20"`
	DefaultPrice  decimal.Decimal `json:"defaultPrice" binding:"gte=0"`
	Specification string          `json:"specification" binding:"max=255"`
}
