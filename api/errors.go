package api

import (
	"errors"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// statusOf maps a module error to an HTTP status
func statusOf(err error) int {
	var verr ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	if errorsmod.IsOf(err, types.ErrTokenNotFound, types.ErrPairNotFound, types.ErrNoPendingSeed) {
		return http.StatusNotFound
	}
	switch types.KindOf(err) {
	case types.KindValidation:
		return http.StatusBadRequest
	case types.KindAuthorization:
		return http.StatusForbidden
	case types.KindInvariantViolation:
		return http.StatusUnprocessableEntity
	case types.KindLifecycleViolation:
		return http.StatusConflict
	case types.KindExternalDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// codeOf names the error class for clients
func codeOf(err error) string {
	var verr ValidationError
	if errors.As(err, &verr) {
		return "INVALID_REQUEST"
	}
	switch kind := types.KindOf(err); kind {
	case types.KindInternal:
		return "INTERNAL_ERROR"
	default:
		return kind.String()
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusOf(err)
	resp := ErrorResponse{Error: err.Error(), Code: codeOf(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		resp = ErrorResponse{Error: "Internal server error", Code: "INTERNAL_ERROR", Details: err.Error()}
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, message string, err error) {
	resp := ErrorResponse{Error: message, Code: "INVALID_REQUEST"}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}
