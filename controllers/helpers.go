package controllers

import (
	"errors"
	"net/http"

	"grant-workflow-api/services"

	"github.com/gin-gonic/gin"
)

// respondWorkflowError maps a workflow error kind to an HTTP status. Unknown
// errors are treated as internal.
func respondWorkflowError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrTokenInvalid):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyDecided),
		errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
