package services_test

import (
	"errors"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

func (s *WorkflowSuite) TestAccountHierarchyRules() {
	cash := s.account(domain.CodeCash)

	_, err := s.svc.Account.CreateAccount(s.ctx, s.companyID, dto.CreateAccountRequest{
		Code: domain.CodeCash, Name: "Second Cash", Type: domain.Asset,
	}, s.owner)
	s.True(errors.Is(err, apperrors.ErrDuplicate))

	missing := "no-such-account"
	_, err = s.svc.Account.CreateAccount(s.ctx, s.companyID, dto.CreateAccountRequest{
		Code: "9001", Name: "Orphan", Type: domain.Expense, ParentID: &missing,
	}, s.owner)
	s.True(errors.Is(err, apperrors.ErrValidation))

	till, err := s.svc.Account.CreateAccount(s.ctx, s.companyID, dto.CreateAccountRequest{
		Code: "100101", Name: "Front Till", Type: domain.Asset, ParentID: &cash.AccountID,
	}, s.owner)
	s.Require().NoError(err)
	s.False(till.IsCore)
	s.Equal(domain.DebitBalance, till.NormalBalance)

	drawer, err := s.svc.Account.CreateAccount(s.ctx, s.companyID, dto.CreateAccountRequest{
		Code: "10010101", Name: "Drawer", Type: domain.Asset, ParentID: &till.AccountID,
	}, s.owner)
	s.Require().NoError(err)
	s.Equal("1001/100101/10010101", drawer.Path)

	children, err := s.svc.Account.ListAccounts(s.ctx, s.companyID, cash.AccountID, s.owner)
	s.Require().NoError(err)
	s.Require().Len(children, 1)
	s.Equal(till.AccountID, children[0].AccountID)

	s.True(errors.Is(s.svc.Account.DeleteAccount(s.ctx, s.companyID, cash.AccountID, s.owner), apperrors.ErrValidation), "core accounts stay")
	s.True(errors.Is(s.svc.Account.DeleteAccount(s.ctx, s.companyID, till.AccountID, s.owner), apperrors.ErrValidation), "parents stay")
	s.Require().NoError(s.svc.Account.DeleteAccount(s.ctx, s.companyID, drawer.AccountID, s.owner))
	s.Require().NoError(s.svc.Account.DeleteAccount(s.ctx, s.companyID, till.AccountID, s.owner))
	s.True(errors.Is(s.svc.Account.DeleteAccount(s.ctx, s.companyID, till.AccountID, s.owner), apperrors.ErrNotFound), "already deleted")

	tree, err := s.svc.Account.GetAccountTree(s.ctx, s.companyID, s.owner)
	s.Require().NoError(err)
	for _, root := range tree {
		if root.AccountID == cash.AccountID {
			s.Empty(root.Children)
		}
	}
}

func (s *WorkflowSuite) TestAccountsAreTenantScoped() {
	other, err := s.svc.Company.CreateCompany(s.ctx, dto.CreateCompanyRequest{Name: "Other Co"}, "owner-2")
	s.Require().NoError(err)

	cash := s.account(domain.CodeCash)
	_, err = s.svc.Account.CreateAccount(s.ctx, other.CompanyID, dto.CreateAccountRequest{
		Code: "100199", Name: "Foreign Child", Type: domain.Asset, ParentID: &cash.AccountID,
	}, "owner-2")
	s.True(errors.Is(err, apperrors.ErrValidation), "parents must belong to the same company")

	_, err = s.svc.Account.GetAccount(s.ctx, other.CompanyID, cash.AccountID, "owner-2")
	s.True(errors.Is(err, apperrors.ErrNotFound))

	_, err = s.svc.Account.ListAccounts(s.ctx, other.CompanyID, "", s.owner)
	s.True(errors.Is(err, apperrors.ErrForbidden), "non-members are refused")
}

func (s *WorkflowSuite) TestSeedCoreAccountsIsIdempotent() {
	created, err := s.svc.Account.SeedCoreAccounts(s.ctx, s.companyID, s.owner)
	s.Require().NoError(err)
	s.Zero(created)

	name := "Petty Cash"
	updated, err := s.svc.Account.UpdateAccount(s.ctx, s.companyID, s.account(domain.CodeCash).AccountID, dto.UpdateAccountRequest{Name: &name}, s.owner)
	s.Require().NoError(err)
	s.Equal(name, updated.Name)
	s.Equal(domain.CodeCash, updated.Code)
}
