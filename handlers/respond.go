package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panchayatworks/services"
)

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondError maps err onto a status code: validation failures are 422,
// missing records 404 and anything else a logged 500 with a generic message.
func respondError(e *core.RequestEvent, logger *zap.Logger, op string, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return e.JSON(http.StatusUnprocessableEntity, errorBody{Error: ve.Error(), Field: ve.Field})
	case IsNotFound(err):
		return e.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		LoggerFrom(e.Request, logger).Error(op+" failed", zap.Error(err))
		return e.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// IsNotFound reports whether err names a missing estimate, work or deduction.
func IsNotFound(err error) bool {
	return errors.Is(err, services.ErrEstimateNotFound) ||
		errors.Is(err, services.ErrDeductionNotFound) ||
		errors.Is(err, services.ErrWorkNotFound)
}

// badRequest reports an undecodable request body.
func badRequest(e *core.RequestEvent, err error) error {
	return e.JSON(http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid request body: %v", err)})
}

// writeFile sends a generated document as a download.
func writeFile(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(body)
	return err
}
