package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ANOUAR90ESS/veto7/internal/admin"
	"github.com/ANOUAR90ESS/veto7/internal/catalog"
	"github.com/ANOUAR90ESS/veto7/internal/query"
	"github.com/ANOUAR90ESS/veto7/internal/shell"
	"github.com/ANOUAR90ESS/veto7/pkg/feed"
	"github.com/ANOUAR90ESS/veto7/pkg/llm"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, admin.ErrValidation),
		errors.Is(err, feed.ErrMalformed),
		errors.Is(err, llm.ErrInvalidImageOptions):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, admin.ErrNotQueued):
		return http.StatusNotFound
	case errors.Is(err, admin.ErrNoPendingDelete):
		return http.StatusConflict
	case errors.Is(err, shell.ErrPremiumRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, llm.ErrUnavailable),
		errors.Is(err, query.ErrDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}. Server-side failures are logged.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
