package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/amaumene/dvmovies/internal/errors"
)

// detail is the error body of every endpoint.
type detail struct {
	Detail string `json:"detail"`
}

func abortWithDetail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, detail{Detail: msg})
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeDuplicateRecord):
		return http.StatusBadRequest
	case apperrors.IsType(err, apperrors.ErrorTypeAPIKeyMissing):
		return http.StatusServiceUnavailable
	case apperrors.IsType(err, apperrors.ErrorTypeTimeout):
		return http.StatusGatewayTimeout
	case apperrors.IsUpstreamFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
