package handlers

import (
	"net/http"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/cash-flow", h.getCashFlowStatement)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Lists posted debit and credit totals per account as of a date
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "date format, use YYYY-MM-DD", err)
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), s.companyID, asOfOrToday(params.AsOf), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getIncomeStatement godoc
// @Summary Generate income statement
// @Description Revenue, cost and expense totals with net income for a period
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "period, from and to are required as YYYY-MM-DD", err)
		return
	}
	if params.To.Before(params.From) {
		respondError(c, s.logger, apperrors.NewValidationError("to", "end date must not be before start date"), "Invalid period")
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), s.companyID, params.From, params.To, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet
// @Description Assets, liabilities and equity as of a date, with accumulated profit folded into equity
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.BalanceSheet
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "date format, use YYYY-MM-DD", err)
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), s.companyID, asOfOrToday(params.AsOf), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCashFlowStatement godoc
// @Summary Generate cash flow statement
// @Description Cash received and paid through the cash and bank accounts for a period, with opening and closing cash
// @Tags reports
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.CashFlowStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/cash-flow [get]
func (h *reportingHandler) getCashFlowStatement(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "period, from and to are required as YYYY-MM-DD", err)
		return
	}
	if params.To.Before(params.From) {
		respondError(c, s.logger, apperrors.NewValidationError("to", "end date must not be before start date"), "Invalid period")
		return
	}

	report, err := h.reportingService.CashFlowStatement(c.Request.Context(), s.companyID, params.From, params.To, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to generate cash flow statement")
		return
	}
	c.JSON(http.StatusOK, report)
}
