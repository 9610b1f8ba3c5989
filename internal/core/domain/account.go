package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "Asset"
	Liability AccountType = "Liability"
	Equity    AccountType = "Equity"
	Revenue   AccountType = "Revenue"
	Expense   AccountType = "Expense"
	Common    AccountType = "Common"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense, Common:
		return true
	}
	return false
}

// NormalBalance is the side on which an account naturally increases.
type NormalBalance string

const (
	DebitBalance  NormalBalance = "Debit"
	CreditBalance NormalBalance = "Credit"
)

func (n NormalBalance) Valid() bool {
	return n == DebitBalance || n == CreditBalance
}

// DefaultNormalBalance derives the normal balance from the account type.
// Asset and Expense accounts are debit-normal; everything else is credit-normal.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitBalance
	default:
		return CreditBalance
	}
}

// Signed returns the balance of the given debit and credit totals seen from side n.
func (n NormalBalance) Signed(debit, credit decimal.Decimal) decimal.Decimal {
	if n == DebitBalance {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// Codes of the core accounts the posting workflows depend on.
const (
	CodeCash               = "1001"
	CodeBankDeposits       = "1002"
	CodeAccountsReceivable = "1122"
	CodeInventory          = "1405"
	CodeAccountsPayable    = "2202"
	CodeMainRevenue        = "6001"
	CodeMainCOGS           = "6401"
)

// Account represents a node in a company's chart of accounts.
type Account struct {
	AccountID     string          `json:"accountID"`
	CompanyID     string          `json:"companyID"`
	ParentID      string          `json:"parentID,omitempty"` // empty for root accounts
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Type          AccountType     `json:"type"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	BalanceDebit  decimal.Decimal `json:"balanceDebit"`  // cached aggregate of posted debits
	BalanceCredit decimal.Decimal `json:"balanceCredit"` // cached aggregate of posted credits
	IsCore        bool            `json:"isCore"`
	Path          string          `json:"path"` // slash-joined codes from the root, unique per company
	Remark        string          `json:"remark,omitempty"`
	AuditFields
}

// CachedBalance is the balance implied by the cached aggregates.
// Statements recompute from ledger lines instead of trusting this value.
func (a Account) CachedBalance() decimal.Decimal {
	return a.NormalBalance.Signed(a.BalanceDebit, a.BalanceCredit)
}

// BalanceDelta is the change applied to an account's cached aggregates by a posting.
type BalanceDelta struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// ChildPath builds the path of a child account with the given code.
func ChildPath(parent *Account, code string) string {
	if parent == nil || parent.Path == "" {
		return code
	}
	return parent.Path + "/" + code
}
