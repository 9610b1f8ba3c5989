package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessErrorsUnwrapToSentinels(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", apperrors.NewValidationError("amount", "must be positive"), apperrors.ErrValidation},
		{"imbalance", &apperrors.ImbalanceError{}, apperrors.ErrImbalance},
		{"already posted", &apperrors.AlreadyPostedError{Resource: "journal_entry", ID: "j1", Status: "posted"}, apperrors.ErrAlreadyPosted},
		{"insufficient stock", &apperrors.InsufficientStockError{ProductID: "p1"}, apperrors.ErrInsufficientStock},
		{"no cost basis", &apperrors.NoCostBasisError{ProductID: "p1"}, apperrors.ErrNoCostBasis},
		{"credit limit", &apperrors.CreditLimitExceededError{}, apperrors.ErrCreditLimitExceeded},
		{"exact settlement", &apperrors.ExactSettlementRequiredError{}, apperrors.ErrExactSettlementRequired},
		{"overpayment", &apperrors.OverpaymentError{}, apperrors.ErrOverpayment},
		{"missing account", &apperrors.MissingAccountError{Codes: []string{"1405"}}, apperrors.ErrMissingAccount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("posting failed: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)

			var d apperrors.Detailer
			require.True(t, errors.As(wrapped, &d))
			assert.NotEmpty(t, d.Details())
		})
	}
}

func TestCreditLimitExceededError_AvailableCredit(t *testing.T) {
	err := &apperrors.CreditLimitExceededError{
		CustomerID:  "c1",
		CurrentDebt: decimal.NewFromInt(800),
		CreditLimit: decimal.NewFromInt(1000),
		OrderAmount: decimal.NewFromInt(250),
	}
	assert.True(t, err.AvailableCredit().Equal(decimal.NewFromInt(200)))

	over := &apperrors.CreditLimitExceededError{CurrentDebt: decimal.NewFromInt(1200), CreditLimit: decimal.NewFromInt(1000)}
	assert.True(t, over.AvailableCredit().IsZero())
}

func TestSettlementErrors_Outstanding(t *testing.T) {
	exact := &apperrors.ExactSettlementRequiredError{
		OrderID:     "po1",
		TotalAmount: decimal.NewFromInt(150),
		PaidAmount:  decimal.Zero,
		Amount:      decimal.NewFromInt(100),
	}
	assert.True(t, exact.Outstanding().Equal(decimal.NewFromInt(150)))

	over := &apperrors.OverpaymentError{
		OrderID:        "so1",
		TotalAmount:    decimal.NewFromInt(300),
		ReceivedAmount: decimal.NewFromInt(100),
		Amount:         decimal.NewFromInt(250),
	}
	assert.True(t, over.Outstanding().Equal(decimal.NewFromInt(200)))
}

func TestAppError_Unwrap(t *testing.T) {
	err := apperrors.NewAppError(500, "failed to lock accounts", apperrors.ErrNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to lock accounts")
}
