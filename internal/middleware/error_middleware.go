package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/regwizard/internal/app/models/dto"
	"github.com/yigit/regwizard/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to JSON error responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := describeError(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func describeError(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	message := ""
	if errors.As(err, &custom) {
		message = custom.Message
	}

	pick := func(fallback string) string {
		if message != "" {
			return message
		}
		return fallback
	}

	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, pick("Form session not found"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, pick("Session token expired"))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, pick("Invalid session token"))
	case errors.Is(err, apperrors.ErrInvalidStep):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeInvalidStep, pick("Action not allowed on the current step")).
			WithSeverity(dto.ErrorSeverityWarning).
			WithDetails(err.Error())
	case errors.Is(err, apperrors.ErrUnknownField):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeUnknownField, pick("Unknown form field")).
			WithDetails(err.Error())
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, pick("Validation failed"))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
