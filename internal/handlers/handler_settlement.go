package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// settlementHandler serves supplier payments and customer receipts.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	rg.POST("/payments", h.createPayment)
	rg.GET("/payments", h.listPayments)
	rg.POST("/receipts", h.createReceipt)
	rg.GET("/receipts", h.listReceipts)
	rg.GET("/payables", h.listPayables)
	rg.GET("/collectibles", h.listCollectibles)
}

// createPayment godoc
// @Summary Record a supplier payment
// @Description A payment linked to a purchase order must equal its outstanding amount and marks the order Paid. The Dr Accounts Payable / Cr cash journal is skipped with a warning when the accounts are missing.
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   payment body dto.CreatePaymentRequest true "Payment"
// @Success 201 {object} domain.PaymentOutcome
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Amount differs from the outstanding balance"
// @Security BearerAuth
// @Router /companies/{company_id}/payments [post]
func (h *settlementHandler) createPayment(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	outcome, err := h.settlementService.CreatePayment(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to record payment")
		return
	}
	s.logger.Info("Payment recorded",
		slog.String("payment_id", outcome.Payment.PaymentID),
		slog.Int("warnings", len(outcome.Warnings)))
	c.JSON(http.StatusCreated, outcome)
}

// listPayments godoc
// @Summary List supplier payments
// @Tags settlements
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   orderID query string false "Purchase order ID"
// @Success 200 {array} domain.Payment
// @Security BearerAuth
// @Router /companies/{company_id}/payments [get]
func (h *settlementHandler) listPayments(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.ListSettlementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	payments, err := h.settlementService.ListPayments(c.Request.Context(), s.companyID, params.OrderID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// createReceipt godoc
// @Summary Record a customer receipt
// @Description Partial receipts are accepted up to the outstanding amount of the linked sales order.
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   receipt body dto.CreateReceiptRequest true "Receipt"
// @Success 201 {object} domain.ReceiptOutcome
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Amount exceeds the outstanding balance"
// @Security BearerAuth
// @Router /companies/{company_id}/receipts [post]
func (h *settlementHandler) createReceipt(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	outcome, err := h.settlementService.CreateReceipt(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to record receipt")
		return
	}
	s.logger.Info("Receipt recorded",
		slog.String("receipt_id", outcome.Receipt.ReceiptID),
		slog.Int("warnings", len(outcome.Warnings)))
	c.JSON(http.StatusCreated, outcome)
}

// listReceipts godoc
// @Summary List customer receipts
// @Tags settlements
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   orderID query string false "Sales order ID"
// @Success 200 {array} domain.Receipt
// @Security BearerAuth
// @Router /companies/{company_id}/receipts [get]
func (h *settlementHandler) listReceipts(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.ListSettlementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	receipts, err := h.settlementService.ListReceipts(c.Request.Context(), s.companyID, params.OrderID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list receipts")
		return
	}
	c.JSON(http.StatusOK, receipts)
}

// listPayables godoc
// @Summary List posted purchase orders with an unpaid balance
// @Tags settlements
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} domain.OrderBalance
// @Security BearerAuth
// @Router /companies/{company_id}/payables [get]
func (h *settlementHandler) listPayables(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	orders, err := h.settlementService.ListPayableOrders(c.Request.Context(), s.companyID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list payable orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// listCollectibles godoc
// @Summary List posted sales orders with an unreceived balance
// @Tags settlements
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} domain.OrderBalance
// @Security BearerAuth
// @Router /companies/{company_id}/collectibles [get]
func (h *settlementHandler) listCollectibles(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	orders, err := h.settlementService.ListCollectibleOrders(c.Request.Context(), s.companyID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list collectible orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}
