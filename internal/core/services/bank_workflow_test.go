package services_test

import (
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

func (s *WorkflowSuite) TestStatementLinesStoredAtCents() {
	bank, err := s.svc.Reconciliation.CreateBankAccount(s.ctx, s.companyID, dto.CreateBankAccountRequest{
		AccountNumber: "6222-0009", BankName: "First Bank", InitialBalance: dec("10.005"),
	}, s.owner)
	s.Require().NoError(err)
	s.True(dec("10.01").Equal(bank.InitialBalance))

	balance := dec("100.005")
	stmt, err := s.svc.Reconciliation.CreateStatementLine(s.ctx, s.companyID, bank.BankAccountID, dto.CreateStatementRequest{
		Date: s.day, Amount: dec("12.345"), Type: domain.StatementCredit, Balance: &balance,
	}, s.owner)
	s.Require().NoError(err)
	s.True(dec("12.35").Equal(stmt.Amount))
	s.Require().NotNil(stmt.Balance)
	s.True(dec("100.01").Equal(*stmt.Balance), "balance %s", stmt.Balance)
	s.True(dec("100.005").Equal(balance), "request value is left untouched")

	lines, err := s.svc.Reconciliation.ListStatementLines(s.ctx, s.companyID, bank.BankAccountID, domain.DateRange{}, s.owner)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.True(dec("100.01").Equal(*lines[0].Balance))
}
