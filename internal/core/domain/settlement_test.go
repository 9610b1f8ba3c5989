package domain_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPurchasePayment_ExactOnly(t *testing.T) {
	po := &domain.PurchaseOrder{Order: domain.Order{OrderID: "po-1", TotalAmount: dec("150.00")}}

	err := domain.CheckPurchasePayment(po, decimal.Zero, dec("100"))
	var exact *apperrors.ExactSettlementRequiredError
	require.True(t, errors.As(err, &exact))
	assert.True(t, exact.Outstanding().Equal(dec("150")))

	assert.ErrorIs(t, domain.CheckPurchasePayment(po, decimal.Zero, dec("150.01")), apperrors.ErrExactSettlementRequired)
	assert.NoError(t, domain.CheckPurchasePayment(po, decimal.Zero, dec("150")))
	assert.ErrorIs(t, domain.CheckPurchasePayment(po, decimal.Zero, decimal.Zero), apperrors.ErrValidation)
}

func TestCheckSalesReceipt_PartialAllowed(t *testing.T) {
	so := &domain.SalesOrder{Order: domain.Order{OrderID: "so-1", TotalAmount: dec("300")}}

	assert.NoError(t, domain.CheckSalesReceipt(so, decimal.Zero, dec("100")))
	assert.NoError(t, domain.CheckSalesReceipt(so, dec("100"), dec("200")))
	assert.False(t, domain.IsFullySettled(so.TotalAmount, dec("100")))
	assert.True(t, domain.IsFullySettled(so.TotalAmount, dec("300")))

	err := domain.CheckSalesReceipt(so, dec("100"), dec("250"))
	var over *apperrors.OverpaymentError
	require.True(t, errors.As(err, &over))
	assert.True(t, over.Outstanding().Equal(dec("200")))

	assert.ErrorIs(t, domain.CheckSalesReceipt(so, dec("300"), dec("0.01")), apperrors.ErrOverpayment)
}

func TestCreditCheck(t *testing.T) {
	customer := &domain.Customer{CustomerID: "c1", CreditLimit: dec("1000")}

	err := domain.CreditCheck(customer, dec("800"), dec("250"))
	var limitErr *apperrors.CreditLimitExceededError
	require.True(t, errors.As(err, &limitErr))
	assert.True(t, limitErr.AvailableCredit().Equal(dec("200")))

	assert.NoError(t, domain.CreditCheck(customer, dec("800"), dec("200")))

	noCredit := &domain.Customer{CustomerID: "c2", CreditLimit: decimal.Zero}
	assert.ErrorIs(t, domain.CreditCheck(noCredit, decimal.Zero, dec("1")), apperrors.ErrCreditLimitExceeded)

	credit := domain.NewCustomerCredit(customer, dec("1200"))
	assert.True(t, credit.AvailableCredit.IsZero())
}
