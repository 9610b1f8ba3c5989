package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(ls portssvc.LedgerSvcFacade) *journalHandler {
	return &journalHandler{ledgerService: ls}
}

// registerJournalRoutes registers journal routes of one company.
func registerJournalRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newJournalHandler(ledgerService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journal_id", h.getJournal)
		journals.POST("/:journal_id/post", h.postJournal)
	}
}

// createJournal godoc
// @Summary Create a manual journal entry
// @Description Creates an unposted entry. Lines must reference accounts of the company and balance within tolerance.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   journal body dto.CreateJournalRequest true "Journal entry"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input or entry does not balance"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{company_id}/journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s.logger, "request format", err)
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), s.companyID, req, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to create journal")
		return
	}

	s.logger.Info("Journal created successfully", slog.String("journal_id", entry.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(entry))
}

// getJournal godoc
// @Summary Get a journal entry
// @Tags journals
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   journal_id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Security BearerAuth
// @Router /companies/{company_id}/journals/{journal_id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), s.companyID, c.Param("journal_id"), s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(entry))
}

// listJournals godoc
// @Summary List journal entries
// @Description Lists entries newest first using a continuation token
// @Tags journals
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Param   posted query bool false "Filter by posted flag"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /companies/{company_id}/journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, s.logger, "query parameters", err)
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), s.companyID, params, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postJournal godoc
// @Summary Post a journal entry
// @Description Posts an entry and updates the cached account balances. An entry posts at most once.
// @Tags journals
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   journal_id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Entry does not balance"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal already posted"
// @Security BearerAuth
// @Router /companies/{company_id}/journals/{journal_id}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	s, ok := companyScope(c)
	if !ok {
		return
	}

	journalID := c.Param("journal_id")
	entry, err := h.ledgerService.PostEntry(c.Request.Context(), s.companyID, journalID, s.userID)
	if err != nil {
		respondError(c, s.logger, err, "Failed to post journal")
		return
	}

	s.logger.Info("Journal posted successfully", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(entry))
}
