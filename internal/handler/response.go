package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps engine errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Missing entities
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	// Bad input
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrUnknownCategory):
		return http.StatusBadRequest

	// Business rule: the customer may not rent this vehicle
	case errors.Is(err, domain.ErrNotEligible):
		return http.StatusForbidden

	// State conflicts
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrOverlap):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// pathID parses the numeric :id path parameter. Writes a 400 response
// and returns false when the parameter is not a valid id.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
