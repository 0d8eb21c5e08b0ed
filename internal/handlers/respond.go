package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tripnest/server/internal/models"
)

// respondError maps service errors to the response envelope. Anything
// unclassified is deferred to the ErrorHandler middleware as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), models.ErrValidation.Error()+": ")
		c.JSON(http.StatusBadRequest, models.ErrorResponse(msg))
	case errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrHostNotBookable),
		errors.Is(err, models.ErrPaymentNotAllowed):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrAccountDeactivated):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
	default:
		_ = c.Error(err)
	}
}
