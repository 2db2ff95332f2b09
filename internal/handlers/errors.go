package handlers

import (
	"errors"
	"net/http"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/utils"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{apperr.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{apperr.ErrInvalidCredentials, http.StatusBadRequest, "INVALID_CREDENTIALS"},
	{apperr.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{apperr.ErrExpired, http.StatusBadRequest, "EXPIRED"},
	{apperr.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{apperr.ErrConflict, http.StatusConflict, "CONFLICT"},
	{apperr.ErrStorage, http.StatusInternalServerError, "STORAGE_ERROR"},
}

// statusFor maps a service error onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// writeError aborts the request with the JSON error body for err.
func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusUnauthorized {
		message = "Unauthorized"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, utils.CreateErrorResponse(code, message))
}

func writeBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", message))
}
