package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// orderHandler serves the purchase and sales order workflows.
type orderHandler struct {
	orderService      portssvc.OrderSvcFacade
	settlementService portssvc.SettlementSvcFacade
}

func newOrderHandler(os portssvc.OrderSvcFacade, ss portssvc.SettlementSvcFacade) *orderHandler {
	return &orderHandler{orderService: os, settlementService: ss}
}

func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade, settlementService portssvc.SettlementSvcFacade) {
	h := newOrderHandler(orderService, settlementService)

	purchases := rg.Group("/purchase-orders")
	{
		purchases.POST("", h.createPurchaseOrder)
		purchases.GET("", h.listPurchaseOrders)
		purchases.GET("/:order_id", h.getPurchaseOrder)
		purchases.POST("/:order_id/items", h.addPurchaseItem)
		purchases.PUT("/:order_id/items/:item_id", h.updatePurchaseItem)
		purchases.DELETE("/:order_id/items/:item_id", h.removePurchaseItem)
		purchases.POST("/:order_id/post", h.postPurchaseOrder)
		purchases.GET("/:order_id/outstanding", h.outstanding(domain.PurchaseOrderKind))
	}

	sales := rg.Group("/sales-orders")
	{
		sales.POST("", h.createSalesOrder)
		sales.GET("", h.listSalesOrders)
		sales.GET("/:order_id", h.getSalesOrder)
		sales.POST("/:order_id/items", h.addSalesItem)
		sales.PUT("/:order_id/items/:item_id", h.updateSalesItem)
		sales.DELETE("/:order_id/items/:item_id", h.removeSalesItem)
		sales.POST("/:order_id/post", h.postSalesOrder)
		sales.GET("/:order_id/outstanding", h.outstanding(domain.SalesOrderKind))
	}
}

// createPurchaseOrder godoc
// @Summary Create a purchase order
// @Description Creates a Draft purchase order with optional items
// @Tags purchase-orders
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order body dto.CreatePurchaseOrderRequest true "Order"
// @Success 201 {object} domain.PurchaseOrder
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /companies/{company_id}/purchase-orders [post]
func (h *orderHandler) createPurchaseOrder(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	order, err := h.orderService.CreatePurchaseOrder(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to create purchase order")
		return
	}
	s.logger.Info("Purchase order created", slog.String("order_id", order.OrderID))
	c.JSON(http.StatusCreated, order)
}

// listPurchaseOrders godoc
// @Summary List purchase orders
// @Tags purchase-orders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   status query string false "Order status"
// @Param   partyID query string false "Supplier ID"
// @Success 200 {array} domain.PurchaseOrder
// @Security BearerAuth
// @Router /companies/{company_id}/purchase-orders [get]
func (h *orderHandler) listPurchaseOrders(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	orders, err := h.orderService.ListPurchaseOrders(c.Request.Context(), s.companyID, params, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list purchase orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// getPurchaseOrder godoc
// @Summary Get a purchase order with its items
// @Tags purchase-orders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Success 200 {object} domain.PurchaseOrder
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /companies/{company_id}/purchase-orders/{order_id} [get]
func (h *orderHandler) getPurchaseOrder(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetPurchaseOrder(c.Request.Context(), s.companyID, c.Param("order_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to retrieve purchase order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// addPurchaseItem godoc
// @Summary Add an item to a Draft purchase order
// @Tags purchase-orders
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Param   item body dto.OrderItemRequest true "Item"
// @Success 200 {object} domain.PurchaseOrder
// @Failure 409 {object} map[string]string "Order is no longer Draft"
// @Security BearerAuth
// @Router /companies/{company_id}/purchase-orders/{order_id}/items [post]
func (h *orderHandler) addPurchaseItem(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	order, err := h.orderService.AddPurchaseItem(c.Request.Context(), s.companyID, c.Param("order_id"), req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to add item")
		return
	}
	c.JSON(http.StatusOK, order)
}

// updatePurchaseItem godoc
// @Summary Change an item of a Draft purchase order
// @Tags purchase-orders
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Param   item_id path string true "Item ID"
// @Param   item body dto.UpdateOrderItemRequest true "Changed fields"
// @Success 200 {object} domain.PurchaseOrder
// @Failure 409 {object} map[string]string "Order is no longer Draft"
// @Security BearerAuth
// @Router /companies/{company_id}/purchase-orders/{order_id}/items/{item_id} [put]
func (h *orderHandler) updatePurchaseItem(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	order, err := h.orderService.UpdatePurchaseItem(c.Request.Context(), s.companyID, c.Param("order_id"), c.Param("item_id"), req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, order)
}

// removePurchaseItem godoc
// @Summary Remove an item from a Draft purchase order
// @Tags purchase-orders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Param   item_id path string true "Item ID"
// @Success 200 {object} domain.PurchaseOrder
// @Failure 409 {object} map[string]string "Order is no longer Draft"
// @Security BearerAuth
// @Router /companies/{company_id}/purchase-orders/{order_id}/items/{item_id} [delete]
func (h *orderHandler) removePurchaseItem(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	order, err := h.orderService.RemovePurchaseItem(c.Request.Context(), s.companyID, c.Param("order_id"), c.Param("item_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, order)
}

// postPurchaseOrder godoc
// @Summary Post a purchase order
// @Description Receives the stock at weighted-average cost and books Dr Inventory / Cr Accounts Payable in one transaction
// @Tags purchase-orders
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Param   options body dto.PostPurchaseOrderRequest false "Warehouse locations per product"
// @Success 200 {object} domain.PurchasePosting
// @Failure 409 {object} map[string]string "Order already posted"
// @Failure 422 {object} map[string]string "Required accounts missing"
// @Security BearerAuth
// @Router /companies/{company_id}/purchase-orders/{order_id}/post [post]
func (h *orderHandler) postPurchaseOrder(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.PostPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, s.logger, "request format", err)
		return
	}

	orderID := c.Param("order_id")
	posting, err := h.orderService.PostPurchaseOrder(c.Request.Context(), s.companyID, orderID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to post purchase order")
		return
	}
	s.logger.Info("Purchase order posted", slog.String("order_id", orderID), slog.String("journal_id", posting.Journal.JournalID))
	c.JSON(http.StatusOK, posting)
}

// createSalesOrder godoc
// @Summary Create a sales order
// @Description Creates a Draft sales order. Credit sales are checked against the customer's credit limit.
// @Tags sales-orders
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order body dto.CreateSalesOrderRequest true "Order"
// @Success 201 {object} domain.SalesOrder
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Credit limit exceeded"
// @Security BearerAuth
// @Router /companies/{company_id}/sales-orders [post]
func (h *orderHandler) createSalesOrder(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	order, err := h.orderService.CreateSalesOrder(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to create sales order")
		return
	}
	s.logger.Info("Sales order created", slog.String("order_id", order.OrderID))
	c.JSON(http.StatusCreated, order)
}

// listSalesOrders godoc
// @Summary List sales orders
// @Tags sales-orders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   status query string false "Order status"
// @Param   partyID query string false "Customer ID"
// @Success 200 {array} domain.SalesOrder
// @Security BearerAuth
// @Router /companies/{company_id}/sales-orders [get]
func (h *orderHandler) listSalesOrders(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	orders, err := h.orderService.ListSalesOrders(c.Request.Context(), s.companyID, params, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list sales orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// getSalesOrder godoc
// @Summary Get a sales order with its items
// @Tags sales-orders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Success 200 {object} domain.SalesOrder
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /companies/{company_id}/sales-orders/{order_id} [get]
func (h *orderHandler) getSalesOrder(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetSalesOrder(c.Request.Context(), s.companyID, c.Param("order_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to retrieve sales order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// addSalesItem godoc
// @Summary Add an item to a Draft sales order
// @Tags sales-orders
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Param   item body dto.OrderItemRequest true "Item"
// @Success 200 {object} domain.SalesOrder
// @Failure 409 {object} map[string]string "Order is no longer Draft"
// @Security BearerAuth
// @Router /companies/{company_id}/sales-orders/{order_id}/items [post]
func (h *orderHandler) addSalesItem(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	order, err := h.orderService.AddSalesItem(c.Request.Context(), s.companyID, c.Param("order_id"), req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to add item")
		return
	}
	c.JSON(http.StatusOK, order)
}

// updateSalesItem godoc
// @Summary Change an item of a Draft sales order
// @Tags sales-orders
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Param   item_id path string true "Item ID"
// @Param   item body dto.UpdateOrderItemRequest true "Changed fields"
// @Success 200 {object} domain.SalesOrder
// @Failure 409 {object} map[string]string "Order is no longer Draft"
// @Security BearerAuth
// @Router /companies/{company_id}/sales-orders/{order_id}/items/{item_id} [put]
func (h *orderHandler) updateSalesItem(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	order, err := h.orderService.UpdateSalesItem(c.Request.Context(), s.companyID, c.Param("order_id"), c.Param("item_id"), req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, order)
}

// removeSalesItem godoc
// @Summary Remove an item from a Draft sales order
// @Tags sales-orders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Param   item_id path string true "Item ID"
// @Success 200 {object} domain.SalesOrder
// @Failure 409 {object} map[string]string "Order is no longer Draft"
// @Security BearerAuth
// @Router /companies/{company_id}/sales-orders/{order_id}/items/{item_id} [delete]
func (h *orderHandler) removeSalesItem(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	order, err := h.orderService.RemoveSalesItem(c.Request.Context(), s.companyID, c.Param("order_id"), c.Param("item_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, order)
}

// postSalesOrder godoc
// @Summary Post a sales order
// @Description Checks credit, issues the stock and books revenue and cost of goods sold in one transaction
// @Tags sales-orders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Success 200 {object} domain.SalesPosting
// @Failure 409 {object} map[string]string "Order already posted"
// @Failure 422 {object} map[string]string "Insufficient stock, no cost basis, credit limit exceeded or accounts missing"
// @Security BearerAuth
// @Router /companies/{company_id}/sales-orders/{order_id}/post [post]
func (h *orderHandler) postSalesOrder(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}

	orderID := c.Param("order_id")
	posting, err := h.orderService.PostSalesOrder(c.Request.Context(), s.companyID, orderID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to post sales order")
		return
	}
	s.logger.Info("Sales order posted", slog.String("order_id", orderID), slog.String("total_cost", posting.TotalCost.String()))
	c.JSON(http.StatusOK, posting)
}

// outstandingResponse is the unsettled amount of one order.
type outstandingResponse struct {
	OrderID     string          `json:"orderID"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// outstanding godoc
// @Summary Get the unsettled amount of an order
// @Tags purchase-orders,sales-orders
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   order_id path string true "Order ID"
// @Success 200 {object} outstandingResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /companies/{company_id}/purchase-orders/{order_id}/outstanding [get]
// @Router /companies/{company_id}/sales-orders/{order_id}/outstanding [get]
func (h *orderHandler) outstanding(kind domain.OrderKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := companyScope(c)
		if !ok {
			return
		}
		orderID := c.Param("order_id")
		amount, err := h.settlementService.OutstandingBalance(c.Request.Context(), s.companyID, kind, orderID, s.userID)
		if err != nil {
			respondError(c, s.logger, err, "Failed to compute outstanding balance")
			return
		}
		c.JSON(http.StatusOK, outstandingResponse{OrderID: orderID, Outstanding: amount})
	}
}
