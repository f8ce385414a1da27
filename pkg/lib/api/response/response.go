package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

var (
	ErrServerInternal  = errors.New("internal error")
	ErrFeatureNotFound = errors.New("feature not found")
)

func OK(msg string) Response {
	return Response{
		Status:  StatusOK,
		Message: msg,
	}
}

func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "min", "gte":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max", "lte":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "gt":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "geojson_type":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be a GeoJSON geometry type, got %q", err.Field(), err.Value()))
		case "notblank":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must not be blank", err.Field()))
		case "geojson_shape":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid geometry: %s", err.Field(), err.Param()))
		case "json_array":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be an array", err.Field()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMsgs, ", "),
	}
}
