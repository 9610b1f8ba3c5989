package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// partyHandler serves suppliers, customers and products.
type partyHandler struct {
	partyService      portssvc.PartySvcFacade
	settlementService portssvc.SettlementSvcFacade
}

func newPartyHandler(ps portssvc.PartySvcFacade, ss portssvc.SettlementSvcFacade) *partyHandler {
	return &partyHandler{partyService: ps, settlementService: ss}
}

func registerPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvcFacade, settlementService portssvc.SettlementSvcFacade) {
	h := newPartyHandler(partyService, settlementService)

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.createSupplier)
		suppliers.GET("", h.listSuppliers)
		suppliers.GET("/:supplier_id", h.getSupplier)
	}

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:customer_id", h.getCustomer)
		customers.PUT("/:customer_id/credit-limit", h.updateCreditLimit)
		customers.GET("/:customer_id/credit", h.getCustomerCredit)
	}

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:product_id", h.getProduct)
	}
}

// createSupplier godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   supplier body dto.CreateSupplierRequest true "Supplier details"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /companies/{company_id}/suppliers [post]
func (h *partyHandler) createSupplier(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	supplier, err := h.partyService.CreateSupplier(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to create supplier")
		return
	}
	s.logger.Info("Supplier created", slog.String("supplier_id", supplier.SupplierID))
	c.JSON(http.StatusCreated, supplier)
}

// listSuppliers godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} domain.Supplier
// @Security BearerAuth
// @Router /companies/{company_id}/suppliers [get]
func (h *partyHandler) listSuppliers(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	suppliers, err := h.partyService.ListSuppliers(c.Request.Context(), s.companyID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list suppliers")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// getSupplier godoc
// @Summary Get a supplier
// @Tags suppliers
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   supplier_id path string true "Supplier ID"
// @Success 200 {object} domain.Supplier
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /companies/{company_id}/suppliers/{supplier_id} [get]
func (h *partyHandler) getSupplier(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	supplier, err := h.partyService.GetSupplier(c.Request.Context(), s.companyID, c.Param("supplier_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to retrieve supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// createCustomer godoc
// @Summary Create a customer
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /companies/{company_id}/customers [post]
func (h *partyHandler) createCustomer(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	customer, err := h.partyService.CreateCustomer(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to create customer")
		return
	}
	s.logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, customer)
}

// listCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} domain.Customer
// @Security BearerAuth
// @Router /companies/{company_id}/customers [get]
func (h *partyHandler) listCustomers(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	customers, err := h.partyService.ListCustomers(c.Request.Context(), s.companyID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// getCustomer godoc
// @Summary Get a customer
// @Tags customers
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   customer_id path string true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /companies/{company_id}/customers/{customer_id} [get]
func (h *partyHandler) getCustomer(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	customer, err := h.partyService.GetCustomer(c.Request.Context(), s.companyID, c.Param("customer_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// updateCreditLimit godoc
// @Summary Change a customer's credit limit
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   customer_id path string true "Customer ID"
// @Param   limit body dto.UpdateCreditLimitRequest true "New credit limit"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /companies/{company_id}/customers/{customer_id}/credit-limit [put]
func (h *partyHandler) updateCreditLimit(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.UpdateCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	customer, err := h.partyService.UpdateCreditLimit(c.Request.Context(), s.companyID, c.Param("customer_id"), req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to update credit limit")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// getCustomerCredit godoc
// @Summary Get a customer's credit position
// @Description Reports the outstanding debt on posted credit sales, the limit and the available credit
// @Tags customers
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   customer_id path string true "Customer ID"
// @Success 200 {object} domain.CustomerCredit
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /companies/{company_id}/customers/{customer_id}/credit [get]
func (h *partyHandler) getCustomerCredit(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	credit, err := h.settlementService.CustomerCredit(c.Request.Context(), s.companyID, c.Param("customer_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to compute customer credit")
		return
	}
	c.JSON(http.StatusOK, credit)
}

// createProduct godoc
// @Summary Create a product
// @Tags products
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Product code already exists"
// @Security BearerAuth
// @Router /companies/{company_id}/products [post]
func (h *partyHandler) createProduct(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	product, err := h.partyService.CreateProduct(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to create product")
		return
	}
	s.logger.Info("Product created", slog.String("product_id", product.ProductID))
	c.JSON(http.StatusCreated, product)
}

// listProducts godoc
// @Summary List products
// @Tags products
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} domain.Product
// @Security BearerAuth
// @Router /companies/{company_id}/products [get]
func (h *partyHandler) listProducts(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	products, err := h.partyService.ListProducts(c.Request.Context(), s.companyID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   product_id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /companies/{company_id}/products/{product_id} [get]
func (h *partyHandler) getProduct(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	product, err := h.partyService.GetProduct(c.Request.Context(), s.companyID, c.Param("product_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, product)
}
