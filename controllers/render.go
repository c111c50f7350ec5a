package controllers

import (
	"errors"
	"net/http"

	"github.com/MangalNathYadav/mealmatrixx-sub000/services"

	"github.com/gin-gonic/gin"
)

// currentUserID pulls the authenticated user set by the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// renderError maps pipeline errors onto HTTP responses. Store failures get
// a retryable 503; they must block rendering, not masquerade as empty
// data. AI failures surface the upstream status verbatim.
func renderError(c *gin.Context, err error) {
	var aiErr *services.AIServiceError

	switch {
	case errors.Is(err, services.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "retryable": true})
	case errors.Is(err, services.ErrAIResponseMalformed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &aiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": aiErr.Message, "upstream_status": aiErr.Status})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
