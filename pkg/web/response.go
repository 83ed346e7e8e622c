// Package web defines common components for a web application.
package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// GetErrorMsg turns a validation failure into a short human readable suffix.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "min":
		return fmt.Sprintf(" must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf(" must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf(" must be one of [%s]", fe.Param())
	case "amount":
		return " must be a positive decimal amount"
	case "servicekind":
		return " must be buy or sell"
	}

	return " is invalid"
}

// BindError converts a gin binding error into the response body.
func BindError(err error) Response {
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		field := ve[0]
		return Response{Error: field.Field() + GetErrorMsg(field)}
	}

	return Response{Error: err.Error()}
}

// Fail writes the status mapped to err, matched with errors.Is. Unmapped errors are
// reported as internal errors without their details.
func Fail(gctx *gin.Context, err error, statuses map[error]int) {
	for target, status := range statuses {
		if errors.Is(err, target) {
			gctx.JSON(status, Error(err))
			return
		}
	}

	zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
	gctx.JSON(http.StatusInternalServerError, Error(errorspkg.ErrInternal))
}
