package domain

import (
	"github.com/shopspring/decimal"
)

// Supplier is a vendor purchase orders are placed with.
type Supplier struct {
	SupplierID string `json:"supplierID"`
	CompanyID  string `json:"companyID"`
	Name       string `json:"name"`
	Contact    string `json:"contact,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	AuditFields
}

// Customer is a buyer. CreditLimit bounds the outstanding balance of its credit sales.
type Customer struct {
	CustomerID  string          `json:"customerID"`
	CompanyID   string          `json:"companyID"`
	Name        string          `json:"name"`
	Contact     string          `json:"contact,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	AuditFields
}

// Product is a stock-keeping unit tracked by the inventory engine.
type Product struct {
	ProductID     string          `json:"productID"`
	CompanyID     string          `json:"companyID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit,omitempty"`
	DefaultPrice  decimal.Decimal `json:"defaultPrice"`
	Specification string          `json:"specification,omitempty"`
	AuditFields
}
