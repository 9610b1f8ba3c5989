package services_test

import (
	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

func (s *WorkflowSuite) TestCashFlowTracesReceiptsAndPayments() {
	cash := s.account(domain.CodeCash)
	capital := s.account("4001")
	contribution, err := s.svc.Ledger.CreateEntry(s.ctx, s.companyID, dto.CreateJournalRequest{
		Date:        s.day.AddDate(0, 0, -5),
		Description: "Owner contribution",
		Lines: []dto.LedgerLineRequest{
			{AccountID: cash.AccountID, Debit: dec("1000")},
			{AccountID: capital.AccountID, Credit: dec("1000")},
		},
	}, s.owner)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.PostEntry(s.ctx, s.companyID, contribution.JournalID, s.owner)
	s.Require().NoError(err)

	productID := s.product("P-1")
	po := s.postedPO(s.supplier(), productID, "10", "5")
	so := s.draftSO(s.customer("1000"), domain.PaymentCredit,
		dto.OrderItemRequest{ProductID: productID, Quantity: dec("4"), UnitPrice: dec("12")})
	_, err = s.svc.Order.PostSalesOrder(s.ctx, s.companyID, so.OrderID, s.owner)
	s.Require().NoError(err)

	_, err = s.svc.Settlement.CreateReceipt(s.ctx, s.companyID, dto.CreateReceiptRequest{
		OrderID: so.OrderID, ReceiptDate: s.day.AddDate(0, 0, 1), Amount: dec("48"), Method: domain.PaymentBankTransfer,
	}, s.owner)
	s.Require().NoError(err)
	_, err = s.svc.Settlement.CreatePayment(s.ctx, s.companyID, dto.CreatePaymentRequest{
		OrderID: po.Order.OrderID, PaymentDate: s.day.AddDate(0, 0, 2), Amount: dec("50"), Method: domain.PaymentCash,
	}, s.owner)
	s.Require().NoError(err)

	report, err := s.svc.Reporting.CashFlowStatement(s.ctx, s.companyID, s.day, s.day.AddDate(0, 0, 5), s.owner)
	s.Require().NoError(err)
	s.True(dec("48").Equal(report.Operating.CashIn), "operating in %s", report.Operating.CashIn)
	s.True(dec("50").Equal(report.Operating.CashOut), "operating out %s", report.Operating.CashOut)
	s.True(dec("-2").Equal(report.Operating.Net))
	s.True(report.Other.Net.IsZero())
	s.True(dec("1000").Equal(report.OpeningCash))
	s.True(dec("998").Equal(report.ClosingCash))

	whole, err := s.svc.Reporting.CashFlowStatement(s.ctx, s.companyID, s.day.AddDate(0, 0, -10), s.day.AddDate(0, 0, 5), s.owner)
	s.Require().NoError(err)
	s.True(whole.OpeningCash.IsZero())
	s.True(dec("1000").Equal(whole.Other.CashIn), "capital is not an operating inflow")
	s.True(dec("998").Equal(whole.NetCashFlow))

	_, err = s.svc.Reporting.CashFlowStatement(s.ctx, s.companyID, s.day, s.day.AddDate(0, 0, -1), s.owner)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Reporting.CashFlowStatement(s.ctx, s.companyID, s.day, s.day, "stranger")
	s.ErrorIs(err, apperrors.ErrForbidden)
}
