package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/smb_books_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// scope is the request-scoped data every company handler needs.
type scope struct {
	logger    *slog.Logger
	companyID string
	userID    string
}

// companyScope reads the company id from the path and the acting user from
// the context. It writes the error response and returns false when either is
// missing.
func companyScope(c *gin.Context) (scope, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	if companyID == "" {
		logger.Warn("Company ID missing from path")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Company ID required in path"})
		return scope{}, false
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return scope{}, false
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("user_id", userID))
	return scope{logger: logger, companyID: companyID, userID: userID}, true
}

// asOfOrToday resolves an optional report date.
func asOfOrToday(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	return asOf
}
