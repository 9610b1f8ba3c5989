package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// bankHandler serves bank accounts, statements and reconciliation.
type bankHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newBankHandler(rs portssvc.ReconciliationSvcFacade) *bankHandler {
	return &bankHandler{reconciliationService: rs}
}

func registerBankRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newBankHandler(reconciliationService)

	banks := rg.Group("/bank-accounts")
	{
		banks.POST("", h.createBankAccount)
		banks.GET("", h.listBankAccounts)
		banks.GET("/:bank_account_id", h.getBankAccount)
		banks.POST("/:bank_account_id/statements", h.createStatementLine)
		banks.GET("/:bank_account_id/statements", h.listStatementLines)
		banks.POST("/:bank_account_id/auto-match", h.autoMatch)
		banks.GET("/:bank_account_id/workbench", h.workbench)
		banks.GET("/:bank_account_id/adjustment-sheet", h.adjustmentSheet)
	}

	recs := rg.Group("/reconciliations")
	{
		recs.POST("", h.createReconciliation)
		recs.DELETE("/:reconciliation_id", h.deleteReconciliation)
	}
}

// createBankAccount godoc
// @Summary Register a bank account
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   account body dto.CreateBankAccountRequest true "Bank account"
// @Success 201 {object} domain.BankAccount
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Account number already registered"
// @Security BearerAuth
// @Router /companies/{company_id}/bank-accounts [post]
func (h *bankHandler) createBankAccount(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	bank, err := h.reconciliationService.CreateBankAccount(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to create bank account")
		return
	}
	s.logger.Info("Bank account created", slog.String("bank_account_id", bank.BankAccountID))
	c.JSON(http.StatusCreated, bank)
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Tags banking
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} domain.BankAccount
// @Security BearerAuth
// @Router /companies/{company_id}/bank-accounts [get]
func (h *bankHandler) listBankAccounts(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	banks, err := h.reconciliationService.ListBankAccounts(c.Request.Context(), s.companyID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list bank accounts")
		return
	}
	c.JSON(http.StatusOK, banks)
}

// getBankAccount godoc
// @Summary Get a bank account
// @Tags banking
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bank_account_id path string true "Bank account ID"
// @Success 200 {object} domain.BankAccount
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /companies/{company_id}/bank-accounts/{bank_account_id} [get]
func (h *bankHandler) getBankAccount(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	bank, err := h.reconciliationService.GetBankAccount(c.Request.Context(), s.companyID, c.Param("bank_account_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, bank)
}

// createStatementLine godoc
// @Summary Add a bank statement line
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bank_account_id path string true "Bank account ID"
// @Param   line body dto.CreateStatementRequest true "Statement line"
// @Success 201 {object} domain.BankStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /companies/{company_id}/bank-accounts/{bank_account_id}/statements [post]
func (h *bankHandler) createStatementLine(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	line, err := h.reconciliationService.CreateStatementLine(c.Request.Context(), s.companyID, c.Param("bank_account_id"), req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to add statement line")
		return
	}
	c.JSON(http.StatusCreated, line)
}

// listStatementLines godoc
// @Summary List bank statement lines
// @Tags banking
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bank_account_id path string true "Bank account ID"
// @Param   from query string false "First date (YYYY-MM-DD)"
// @Param   to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {array} domain.BankStatement
// @Security BearerAuth
// @Router /companies/{company_id}/bank-accounts/{bank_account_id}/statements [get]
func (h *bankHandler) listStatementLines(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	lines, err := h.reconciliationService.ListStatementLines(c.Request.Context(), s.companyID, c.Param("bank_account_id"), params.ToDateRange(), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list statement lines")
		return
	}
	c.JSON(http.StatusOK, lines)
}

// autoMatch godoc
// @Summary Automatically reconcile statement lines
// @Description Pairs each unreconciled statement line with the first unmatched bank journal whose amount is within 0.01 and date within three days. Re-running matches nothing new.
// @Tags banking
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bank_account_id path string true "Bank account ID"
// @Param   from query string false "First date (YYYY-MM-DD)"
// @Param   to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} dto.AutoMatchResponse
// @Security BearerAuth
// @Router /companies/{company_id}/bank-accounts/{bank_account_id}/auto-match [post]
func (h *bankHandler) autoMatch(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	bankAccountID := c.Param("bank_account_id")
	recs, err := h.reconciliationService.AutoMatch(c.Request.Context(), s.companyID, bankAccountID, params.ToDateRange(), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to auto-match statement lines")
		return
	}
	s.logger.Info("Auto-match finished", slog.String("bank_account_id", bankAccountID), slog.Int("matched", len(recs)))
	c.JSON(http.StatusOK, dto.AutoMatchResponse{MatchedCount: len(recs), Reconciliations: recs})
}

// workbench godoc
// @Summary Reconciliation workbench
// @Description Matched pairs plus unmatched statement lines and unmatched bank journals for the range.
// @Tags banking
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bank_account_id path string true "Bank account ID"
// @Param   from query string false "First date (YYYY-MM-DD)"
// @Param   to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} domain.ReconciliationWorkbench
// @Security BearerAuth
// @Router /companies/{company_id}/bank-accounts/{bank_account_id}/workbench [get]
func (h *bankHandler) workbench(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	wb, err := h.reconciliationService.Workbench(c.Request.Context(), s.companyID, c.Param("bank_account_id"), params.ToDateRange(), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to build workbench")
		return
	}
	c.JSON(http.StatusOK, wb)
}

// adjustmentSheet godoc
// @Summary Bank balance adjustment sheet
// @Tags banking
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   bank_account_id path string true "Bank account ID"
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.AdjustmentSheet
// @Security BearerAuth
// @Router /companies/{company_id}/bank-accounts/{bank_account_id}/adjustment-sheet [get]
func (h *bankHandler) adjustmentSheet(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	sheet, err := h.reconciliationService.AdjustmentSheet(c.Request.Context(), s.companyID, c.Param("bank_account_id"), asOfOrToday(params.AsOf), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to build adjustment sheet")
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// createReconciliation godoc
// @Summary Manually reconcile a statement line
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation body dto.CreateReconciliationRequest true "Link"
// @Success 201 {object} domain.Reconciliation
// @Failure 404 {object} map[string]string "Statement line or journal not found"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations [post]
func (h *bankHandler) createReconciliation(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	rec, err := h.reconciliationService.CreateReconciliation(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to create reconciliation")
		return
	}
	s.logger.Info("Reconciliation created", slog.String("reconciliation_id", rec.ReconciliationID))
	c.JSON(http.StatusCreated, rec)
}

// deleteReconciliation godoc
// @Summary Remove a reconciliation link
// @Tags banking
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id} [delete]
func (h *bankHandler) deleteReconciliation(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	reconciliationID := c.Param("reconciliation_id")
	if err := h.reconciliationService.DeleteReconciliation(c.Request.Context(), s.companyID, reconciliationID, s.userID); err != nil {
		respondError(c, s.logger, err, "Failed to delete reconciliation")
		return
	}
	s.logger.Info("Reconciliation deleted", slog.String("reconciliation_id", reconciliationID))
	c.Status(http.StatusNoContent)
}
