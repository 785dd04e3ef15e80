package httpapi

import (
	"errors"
	"net/http"

	"affiliate-dashboard/internal/application/action"
	"affiliate-dashboard/internal/domain/auth"
	"affiliate-dashboard/internal/domain/validation"
	authinfra "affiliate-dashboard/internal/infrastructure/auth"
	"affiliate-dashboard/internal/infrastructure/external/backend"

	"github.com/gin-gonic/gin"
)

const (
	errCodeBadRequest         = "BAD_REQUEST"
	errCodeValidation         = "VALIDATION_FAILED"
	errCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	errCodeUnauthorized       = "AUTH_UNAUTHORIZED"
	errCodeForbidden          = "AUTH_FORBIDDEN"
	errCodeNotFound           = "NOT_FOUND"
	errCodeUpstreamRejected   = "UPSTREAM_REJECTED"
	errCodeUpstream           = "UPSTREAM_ERROR"
)

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Success:   false,
		Error:     msg,
		ErrorCode: code,
	})
}

func writeOK(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

// writeFailure 依錯誤種類回應：檢查錯誤 400、上游 401 為 401、上游業務拒絕沿用狀態碼、其餘上游或網路錯誤 502。
func (s *Server) writeFailure(c *gin.Context, err error) {
	if verr, ok := validation.As(err); ok {
		writeError(c, http.StatusBadRequest, errCodeValidation, verr.Error())
		return
	}
	switch {
	case errors.Is(err, backend.ErrUnauthorized), errors.Is(err, authinfra.ErrInvalidToken), errors.Is(err, auth.ErrSessionNotFound):
		writeError(c, http.StatusUnauthorized, errCodeUnauthorized, "session expired, please log in again")
		return
	case errors.Is(err, auth.ErrUnknownRole):
		writeError(c, http.StatusForbidden, errCodeForbidden, "unknown role")
		return
	}

	msg, _ := action.Message(err)
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			msg = apiErr.Message
		}
		switch {
		case apiErr.Status == http.StatusForbidden:
			writeError(c, http.StatusForbidden, errCodeForbidden, fallback(msg, "forbidden"))
			return
		case apiErr.Status == http.StatusNotFound:
			writeError(c, http.StatusNotFound, errCodeNotFound, fallback(msg, "not found"))
			return
		case apiErr.Status >= 400 && apiErr.Status < 500:
			writeError(c, http.StatusBadRequest, errCodeUpstreamRejected, fallback(msg, "request rejected"))
			return
		}
	}

	_ = c.Error(err)
	s.log.Warn().Err(err).Str("path", c.FullPath()).Msg("upstream failure")
	writeError(c, http.StatusBadGateway, errCodeUpstream, fallback(msg, "upstream unavailable"))
}

func fallback(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}
