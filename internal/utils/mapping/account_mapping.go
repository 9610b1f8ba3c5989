package mapping

import (
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		CompanyID:     d.CompanyID,
		ParentID:      NullableString(d.ParentID),
		Code:          d.Code,
		Name:          d.Name,
		AccountType:   models.AccountType(d.Type),
		NormalBalance: string(d.NormalBalance),
		BalanceDebit:  d.BalanceDebit,
		BalanceCredit: d.BalanceCredit,
		IsCore:        d.IsCore,
		Path:          d.Path,
		Remark:        d.Remark,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		CompanyID:     m.CompanyID,
		ParentID:      StringValue(m.ParentID),
		Code:          m.Code,
		Name:          m.Name,
		Type:          domain.AccountType(m.AccountType),
		NormalBalance: domain.NormalBalance(m.NormalBalance),
		BalanceDebit:  m.BalanceDebit,
		BalanceCredit: m.BalanceCredit,
		IsCore:        m.IsCore,
		Path:          m.Path,
		Remark:        m.Remark,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
