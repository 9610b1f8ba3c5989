package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// inventoryHandler serves stock levels and manual movements.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

func newInventoryHandler(is portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{inventoryService: is}
}

func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	inventory := rg.Group("/inventory")
	{
		inventory.GET("", h.listItems)
		inventory.POST("/movements", h.recordMovement)
		inventory.GET("/:product_id", h.getItem)
		inventory.GET("/:product_id/transactions", h.listTransactions)
	}
}

// listItems godoc
// @Summary List stock levels
// @Tags inventory
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} domain.InventoryItem
// @Security BearerAuth
// @Router /companies/{company_id}/inventory [get]
func (h *inventoryHandler) listItems(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	items, err := h.inventoryService.ListItems(c.Request.Context(), s.companyID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list inventory")
		return
	}
	c.JSON(http.StatusOK, items)
}

// getItem godoc
// @Summary Get the stock level of a product
// @Tags inventory
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   product_id path string true "Product ID"
// @Success 200 {object} domain.InventoryItem
// @Failure 404 {object} map[string]string "Product has no stock record"
// @Security BearerAuth
// @Router /companies/{company_id}/inventory/{product_id} [get]
func (h *inventoryHandler) getItem(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	item, err := h.inventoryService.GetItem(c.Request.Context(), s.companyID, c.Param("product_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to retrieve inventory item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// listTransactions godoc
// @Summary List stock movements of a product
// @Tags inventory
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   product_id path string true "Product ID"
// @Success 200 {array} domain.InventoryTransaction
// @Security BearerAuth
// @Router /companies/{company_id}/inventory/{product_id}/transactions [get]
func (h *inventoryHandler) listTransactions(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	txns, err := h.inventoryService.ListTransactions(c.Request.Context(), s.companyID, c.Param("product_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list inventory transactions")
		return
	}
	c.JSON(http.StatusOK, txns)
}

// recordMovement godoc
// @Summary Record a manual stock movement
// @Description IN movements need a unit cost and update the weighted average. OUT movements are costed at the current average.
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   movement body dto.InventoryMovementRequest true "Movement"
// @Success 201 {object} domain.InventoryTransaction
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Insufficient stock or no cost basis"
// @Security BearerAuth
// @Router /companies/{company_id}/inventory/movements [post]
func (h *inventoryHandler) recordMovement(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.InventoryMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	txn, err := h.inventoryService.RecordMovement(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to record movement")
		return
	}

	s.logger.Info("Inventory movement recorded", slog.String("transaction_id", txn.TransactionID), slog.String("product_id", req.ProductID))
	c.JSON(http.StatusCreated, txn)
}
