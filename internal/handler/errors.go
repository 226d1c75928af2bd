package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/utsavjain246/shortify/internal/domain"
	"github.com/utsavjain246/shortify/pkg/response"
)

// respondError is the single place the core's error kinds become status
// codes, so every route surfaces the taxonomy the same way.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrAliasTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(c, "short link not found")
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(c, "not allowed")
	case errors.Is(err, domain.ErrGenerationExhausted),
		errors.Is(err, domain.ErrStorageUnavailable):
		// Both are transient: retrying the whole request is safe.
		response.ServiceUnavailable(c, "temporarily unavailable, retry")
	default:
		response.InternalServerError(c, "internal error")
	}
}
