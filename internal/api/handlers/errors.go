package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"commodity-forecast/internal/api/models"
	"commodity-forecast/internal/forecast"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Error codes carried in models.ErrorDetail.Code.
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeInsufficientHistory = "INSUFFICIENT_HISTORY"
	CodeInternal            = "INTERNAL_ERROR"
)

// Outcome labels reported to the metrics recorder.
const (
	outcomeOK                  = "ok"
	outcomeInvalid             = "invalid"
	outcomeNotFound            = "not_found"
	outcomeInsufficientHistory = "insufficient_history"
	outcomeError               = "error"
)

// classify maps a service error to its HTTP status, error code and
// metrics outcome.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, forecast.ErrInvalidArgument):
		return http.StatusBadRequest, CodeInvalidRequest, outcomeInvalid
	case errors.Is(err, forecast.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, outcomeNotFound
	case errors.Is(err, forecast.ErrInsufficientHistory):
		return http.StatusInternalServerError, CodeInsufficientHistory, outcomeInsufficientHistory
	default:
		return http.StatusInternalServerError, CodeInternal, outcomeError
	}
}

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeBindError reports a request binding failure as 400. Validation
// failures are listed per field in details.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	details := make(map[string]interface{}, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		details[strings.ToLower(fe.Field())] = msg
		msgs = append(msgs, msg)
	}
	writeError(c, http.StatusBadRequest, CodeInvalidRequest, strings.Join(msgs, "; "), details)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
