// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartadega/smartadega-api/internal/apperrors"
	"github.com/smartadega/smartadega-api/internal/i18n"
)

// ErrorBody is the only error shape the API emits.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func ErrorResponse(c *gin.Context, statusCode int, message, details string) {
	c.JSON(statusCode, ErrorBody{
		Error:   message,
		Details: details,
	})
}

func BadRequestResponse(c *gin.Context, message, details string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid)
	}
	ErrorResponse(c, http.StatusBadRequest, message, details)
}

func UnauthorizedResponse(c *gin.Context, reason apperrors.AuthReason) {
	lang := GetLangFromContext(c)
	key := i18n.KeyAuthRequired
	switch reason {
	case apperrors.AuthInvalid:
		key = i18n.KeyAuthInvalidToken
	case apperrors.AuthExpired:
		key = i18n.KeyAuthTokenExpired
	}
	ErrorResponse(c, http.StatusUnauthorized, i18n.T(lang, key), "")
}

func NotFoundResponse(c *gin.Context, key string) {
	ErrorResponse(c, http.StatusNotFound, i18n.T(GetLangFromContext(c), key), "")
}

func InternalErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, i18n.T(GetLangFromContext(c), i18n.KeyInternalError), "")
}

// HandleError maps any error returned by a service onto an HTTP response.
// Anything that is not an AppError is treated as internal.
func HandleError(c *gin.Context, err error) {
	lang := GetLangFromContext(c)

	ae, ok := apperrors.As(err)
	if !ok {
		logError(c, err)
		InternalErrorResponse(c)
		return
	}

	switch ae.Code {
	case apperrors.CodeUnauthorized:
		UnauthorizedResponse(c, ae.Reason)
	case apperrors.CodeInvalid:
		details := ae.Message
		if len(ae.Fields) > 0 {
			details = ae.Details()
		}
		BadRequestResponse(c, "", details)
	case apperrors.CodeNotFound:
		NotFoundResponse(c, i18n.KeyWineNotFound)
	case apperrors.CodeUpstream:
		logError(c, err)
		switch {
		case ae.Status == http.StatusTooManyRequests:
			ErrorResponse(c, ae.Status, i18n.T(lang, i18n.KeyUpstreamLimited), "")
		case ae.Status == http.StatusServiceUnavailable:
			ErrorResponse(c, ae.Status, i18n.T(lang, i18n.KeyUpstreamDown), "")
		case ae.Status >= 400:
			ErrorResponse(c, http.StatusBadGateway, i18n.T(lang, i18n.KeyUpstreamFailed), "")
		default:
			InternalErrorResponse(c)
		}
	default:
		logError(c, err)
		InternalErrorResponse(c)
	}
}

func logError(c *gin.Context, err error) {
	fields := logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		fields["request_id"] = requestID
	}
	if userID, ok := GetUserIDFromContext(c); ok {
		fields["user_id"] = userID
	}
	logrus.WithFields(fields).WithError(err).Error("Request failed")
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLang
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok && userIDStr != "" {
			return userIDStr, true
		}
	}
	return "", false
}
