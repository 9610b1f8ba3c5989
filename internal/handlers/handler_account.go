package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		ledgerService:  ls,
	}
}

// registerAccountRoutes registers routes related to accounts of one company.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/tree", h.getAccountTree)
		accounts.POST("/seed", h.seedCoreAccounts)
		accounts.GET("/:account_id", h.getAccount)
		accounts.PUT("/:account_id", h.updateAccount)
		accounts.DELETE("/:account_id", h.deleteAccount)
		accounts.GET("/:account_id/balance", h.getAccountBalance)
		accounts.GET("/:account_id/ledger", h.getAccountLedger)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account, optionally under a parent. Normal balance defaults from the type.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	s.logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("type", string(req.Type)))
	account, err := h.accountService.CreateAccount(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to create account")
		return
	}

	s.logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), s.companyID, c.Param("account_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists every account of the company, or the direct children of parentID.
// @Tags accounts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   parentID query string false "Parent account ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), s.companyID, params.ParentID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list accounts")
		return
	}

	s.logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccountTree godoc
// @Summary Get the chart of accounts as a tree
// @Tags accounts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} domain.AccountTreeNode
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/tree [get]
func (h *accountHandler) getAccountTree(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}

	tree, err := h.accountService.GetAccountTree(c.Request.Context(), s.companyID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to build account tree")
		return
	}
	c.JSON(http.StatusOK, tree)
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates the name or remark of an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	accountID := c.Param("account_id")
	account, err := h.accountService.UpdateAccount(c.Request.Context(), s.companyID, accountID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to update account")
		return
	}

	s.logger.Info("Account updated successfully", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes a non-core leaf account that has no ledger lines
// @Tags accounts
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Account is core, has children or has ledger lines"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}

	accountID := c.Param("account_id")
	if err := h.accountService.DeleteAccount(c.Request.Context(), s.companyID, accountID, s.userID); err != nil {
		respondError(c, s.logger, err, "Failed to delete account")
		return
	}

	s.logger.Info("Account deleted successfully", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// seedCoreAccounts godoc
// @Summary Seed the standard chart of accounts
// @Description Creates the standard accounts the company does not have yet
// @Tags accounts
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {object} dto.SeedAccountsResponse
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/seed [post]
func (h *accountHandler) seedCoreAccounts(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}

	created, err := h.accountService.SeedCoreAccounts(c.Request.Context(), s.companyID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to seed accounts")
		return
	}

	s.logger.Info("Core accounts seeded", slog.Int("created", created))
	c.JSON(http.StatusOK, dto.SeedAccountsResponse{Created: created})
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Sums the posted lines of the account and its descendants
// @Tags accounts
// @Produce json
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Param   asOf query string false "Balance date (YYYY-MM-DD)"
// @Success 200 {object} domain.AccountBalance
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.AccountBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	balance, err := h.ledgerService.ComputeAccountBalance(c.Request.Context(), s.companyID, c.Param("account_id"), params.AsOf, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getAccountLedger godoc
// @Summary Get account ledger
// @Description Lists the latest posted lines of the account subtree with running balances
// @Tags accounts
// @Produce json
// @Param   company_id path string true "Company ID"
// @Param   account_id path string true "Account ID"
// @Param   limit query int false "Maximum number of rows" default(100)
// @Success 200 {array} domain.LedgerRow
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /companies/{company_id}/accounts/{account_id}/ledger [get]
func (h *accountHandler) getAccountLedger(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.AccountLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	rows, err := h.ledgerService.AccountLedger(c.Request.Context(), s.companyID, c.Param("account_id"), params.Limit, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to build account ledger")
		return
	}
	c.JSON(http.StatusOK, rows)
}
