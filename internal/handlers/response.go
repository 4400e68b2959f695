package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondDomainError maps the shared sentinel errors onto statuses so every
// handler reports validation, not-found, and misuse the same way.
func respondDomainError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, code, err)
	case errors.Is(err, apperrors.ErrInvalidPermutation):
		RespondError(c, http.StatusUnprocessableEntity, code, err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, code, err)
	case errors.Is(err, apperrors.ErrInvalidTransition):
		RespondError(c, http.StatusConflict, code, err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, code, err)
	default:
		RespondError(c, http.StatusInternalServerError, code, err)
	}
}
