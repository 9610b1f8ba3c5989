package handlers_test

import (
	"net/http"
	"testing"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderHandlerTestSuite struct {
	handlerSuite
}

func (suite *OrderHandlerTestSuite) TestCreateSalesOrder_Success() {
	customerID := uuid.NewString()
	order := &domain.SalesOrder{
		Order:      domain.Order{OrderID: uuid.NewString(), Kind: domain.SalesOrderKind, Status: domain.OrderDraft},
		CustomerID: customerID,
	}
	suite.mockOrderService.On("CreateSalesOrder", mock.Anything, suite.companyID,
		mock.MatchedBy(func(r dto.CreateSalesOrderRequest) bool {
			return r.CustomerID == customerID && len(r.Items) == 1 && r.Items[0].Quantity.Equal(decimal.NewFromInt(2))
		}),
		suite.userID,
	).Return(order, nil).Once()

	w := suite.do(http.MethodPost, "/sales-orders", gin.H{
		"customerID":    customerID,
		"paymentMethod": "Credit",
		"items":         []gin.H{{"description": "Widget", "quantity": 2, "unitPrice": "12.50"}},
	})

	suite.Equal(http.StatusCreated, w.Code)
	body := suite.decode(w)
	suite.Equal(order.OrderID, body["orderID"])
	suite.Equal("Draft", body["status"])
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestCreateSalesOrder_ZeroQuantityRejected() {
	w := suite.do(http.MethodPost, "/sales-orders", gin.H{
		"customerID":    uuid.NewString(),
		"paymentMethod": "Cash",
		"items":         []gin.H{{"description": "Widget", "quantity": 0, "unitPrice": 5}},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "CreateSalesOrder")
}

func (suite *OrderHandlerTestSuite) TestCreateSalesOrder_DiscountAboveOneRejected() {
	w := suite.do(http.MethodPost, "/sales-orders", gin.H{
		"customerID":    uuid.NewString(),
		"paymentMethod": "Cash",
		"items":         []gin.H{{"quantity": 1, "unitPrice": 5, "discountRate": 1.5}},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *OrderHandlerTestSuite) TestPostSalesOrder_CreditLimitExceeded() {
	orderID := uuid.NewString()
	customerID := uuid.NewString()
	suite.mockOrderService.On("PostSalesOrder", mock.Anything, suite.companyID, orderID, suite.userID).
		Return(nil, &apperrors.CreditLimitExceededError{
			CustomerID:  customerID,
			CurrentDebt: decimal.NewFromInt(500),
			CreditLimit: decimal.NewFromInt(1000),
			OrderAmount: decimal.NewFromInt(800),
		}).Once()

	w := suite.do(http.MethodPost, "/sales-orders/"+orderID+"/post", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	details, ok := suite.decode(w)["details"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal(customerID, details["customerID"])
	suite.Equal("500", details["availableCredit"])
}

func (suite *OrderHandlerTestSuite) TestPostSalesOrder_InsufficientStock() {
	orderID := uuid.NewString()
	suite.mockOrderService.On("PostSalesOrder", mock.Anything, suite.companyID, orderID, suite.userID).
		Return(nil, &apperrors.InsufficientStockError{
			ProductID: "p1",
			Requested: decimal.NewFromInt(10),
			Available: decimal.NewFromInt(4),
		}).Once()

	w := suite.do(http.MethodPost, "/sales-orders/"+orderID+"/post", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("6", suite.decode(w)["details"].(map[string]any)["shortfall"])
}

func (suite *OrderHandlerTestSuite) TestPostPurchaseOrder_WithoutBody() {
	orderID := uuid.NewString()
	posting := &domain.PurchasePosting{
		Order:   domain.PurchaseOrder{Order: domain.Order{OrderID: orderID, Status: domain.OrderPosted}},
		Journal: domain.JournalEntry{JournalID: uuid.NewString(), Posted: true},
	}
	suite.mockOrderService.On("PostPurchaseOrder", mock.Anything, suite.companyID, orderID, dto.PostPurchaseOrderRequest{}, suite.userID).
		Return(posting, nil).Once()

	w := suite.do(http.MethodPost, "/purchase-orders/"+orderID+"/post", nil)

	suite.Equal(http.StatusOK, w.Code)
	journal := suite.decode(w)["journal"].(map[string]any)
	suite.Equal(posting.Journal.JournalID, journal["journalID"])
}

func (suite *OrderHandlerTestSuite) TestPostPurchaseOrder_WarehouseLocations() {
	orderID := uuid.NewString()
	suite.mockOrderService.On("PostPurchaseOrder", mock.Anything, suite.companyID, orderID,
		mock.MatchedBy(func(r dto.PostPurchaseOrderRequest) bool { return r.WarehouseLocations["p1"] == "A-01" }),
		suite.userID,
	).Return(&domain.PurchasePosting{}, nil).Once()

	w := suite.do(http.MethodPost, "/purchase-orders/"+orderID+"/post", gin.H{
		"warehouseLocations": gin.H{"p1": "A-01"},
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestAddItemToPostedOrder() {
	orderID := uuid.NewString()
	suite.mockOrderService.On("AddPurchaseItem", mock.Anything, suite.companyID, orderID, mock.AnythingOfType("dto.OrderItemRequest"), suite.userID).
		Return(nil, &apperrors.AlreadyPostedError{Resource: "purchase order", ID: orderID, Status: "Posted"}).Once()

	w := suite.do(http.MethodPost, "/purchase-orders/"+orderID+"/items", gin.H{"quantity": 1, "unitPrice": 3})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *OrderHandlerTestSuite) TestListPurchaseOrders_Filters() {
	supplierID := uuid.NewString()
	suite.mockOrderService.On("ListPurchaseOrders", mock.Anything, suite.companyID,
		dto.ListOrdersParams{Status: "Posted", PartyID: supplierID}, suite.userID,
	).Return([]domain.PurchaseOrder{}, nil).Once()

	w := suite.do(http.MethodGet, "/purchase-orders?status=Posted&partyID="+supplierID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestInternalErrorIsMasked() {
	orderID := uuid.NewString()
	suite.mockOrderService.On("GetSalesOrder", mock.Anything, suite.companyID, orderID, suite.userID).
		Return(nil, assertErr("connection reset by peer")).Once()

	w := suite.do(http.MethodGet, "/sales-orders/"+orderID, nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to retrieve sales order", suite.decode(w)["error"])
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func TestOrderHandler(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}
