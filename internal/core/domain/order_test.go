package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderItem_Subtotal(t *testing.T) {
	tests := []struct {
		name                  string
		qty, price, discount  string
		wantSubtotal, wantUnit string
		wantErr               error
	}{
		{name: "no discount", qty: "10", price: "5.00", discount: "1", wantSubtotal: "50.00", wantUnit: "5"},
		{name: "zero discount means none", qty: "3", price: "2.50", discount: "0", wantSubtotal: "7.50", wantUnit: "2.5"},
		{name: "ninety percent", qty: "3", price: "3.33", discount: "0.9", wantSubtotal: "8.99", wantUnit: "2.997"},
		{name: "quantity and price kept at cents", qty: "2.004", price: "1.999", discount: "1", wantSubtotal: "4.00", wantUnit: "2"},
		{name: "quantity rounding to zero", qty: "0.004", price: "1", discount: "1", wantErr: apperrors.ErrValidation},
		{name: "zero quantity", qty: "0", price: "1", discount: "1", wantErr: apperrors.ErrValidation},
		{name: "discount above one", qty: "1", price: "1", discount: "1.5", wantErr: apperrors.ErrValidation},
		{name: "negative price", qty: "1", price: "-1", discount: "1", wantErr: apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := domain.NewOrderItem("p1", "", dec(tt.qty), dec(tt.price), dec(tt.discount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, item.Subtotal.Equal(dec(tt.wantSubtotal)), "subtotal %s", item.Subtotal)
			assert.True(t, item.UnitCost().Equal(dec(tt.wantUnit)), "unit cost %s", item.UnitCost())
		})
	}
}

func TestOrder_SetItemsRecalculatesTotal(t *testing.T) {
	now := time.Now()
	order, err := domain.NewOrder(domain.PurchaseOrderKind, "co", now, domain.PaymentBankTransfer, "", "u1", now)
	require.NoError(t, err)

	a, _ := domain.NewOrderItem("p2", "", dec("10"), dec("5"), decimal.Zero)
	b, _ := domain.NewOrderItem("", "freight", dec("1"), dec("12.5"), decimal.Zero)
	order.SetItems([]domain.OrderItem{a, b})
	assert.True(t, order.TotalAmount.Equal(dec("62.50")))
	assert.Equal(t, 2, order.Items[1].LineNo)
	assert.Equal(t, order.OrderID, order.Items[0].OrderID)

	upd := dec("4")
	changed, err := domain.ItemUpdate{Quantity: &upd}.Apply(order.Items[0])
	require.NoError(t, err)
	items := append([]domain.OrderItem(nil), order.Items...)
	items[0] = changed
	order.SetItems(items)
	assert.True(t, order.TotalAmount.Equal(dec("32.50")))

	order.SetItems(order.Items[1:])
	assert.True(t, order.TotalAmount.Equal(dec("12.50")))
	assert.Equal(t, 1, order.Items[0].LineNo)
}

func TestOrder_StateMachine(t *testing.T) {
	now := time.Now()
	order, err := domain.NewOrder(domain.SalesOrderKind, "co", now, domain.PaymentCredit, "", "u1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDraft, order.Status)

	assert.Error(t, order.MarkSettled("u1", now), "draft orders cannot be settled")

	require.NoError(t, order.MarkPosted("u1", now))
	assert.Equal(t, domain.OrderPosted, order.Status)
	assert.ErrorIs(t, order.MarkPosted("u1", now), apperrors.ErrAlreadyPosted)
	assert.ErrorIs(t, order.EnsureDraft(), apperrors.ErrAlreadyPosted)

	require.NoError(t, order.MarkSettled("u1", now))
	assert.Equal(t, domain.OrderCollected, order.Status)
}

func TestOrder_StockLinesSortedByProduct(t *testing.T) {
	now := time.Now()
	order, _ := domain.NewOrder(domain.SalesOrderKind, "co", now, domain.PaymentCash, "", "u1", now)
	x, _ := domain.NewOrderItem("pz", "", dec("1"), dec("1"), decimal.Zero)
	y, _ := domain.NewOrderItem("", "service", dec("1"), dec("1"), decimal.Zero)
	z, _ := domain.NewOrderItem("pa", "", dec("1"), dec("1"), decimal.Zero)
	w, _ := domain.NewOrderItem("pz", "", dec("2"), dec("1"), decimal.Zero)
	order.SetItems([]domain.OrderItem{x, y, z, w})

	lines := order.StockLines()
	require.Len(t, lines, 3)
	assert.Equal(t, "pa", lines[0].ProductID)
	assert.Equal(t, []string{"pa", "pz"}, order.ProductIDs())
	assert.Len(t, order.ShortID(), 8)
}

func TestPaymentMethod_CashAccountCode(t *testing.T) {
	assert.Equal(t, domain.CodeCash, domain.PaymentCash.CashAccountCode())
	assert.Equal(t, domain.CodeBankDeposits, domain.PaymentBankTransfer.CashAccountCode())
	assert.Equal(t, domain.CodeBankDeposits, domain.PaymentCredit.CashAccountCode())
}
