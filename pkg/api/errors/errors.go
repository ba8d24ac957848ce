package errors

import (
	stderrors "errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/models"
	"github.com/flipcash/partner-portal/pkg/validate"
)

// Upstream maps an upstream client error to the portal response. Backend
// domain-rule rejections (e.g. "Agent has 2 active assignments") pass
// through verbatim with their original status; the field-keyed validation
// map, when present, rides along so the dashboard can render field-level
// errors.
func Upstream(c echo.Context, err error) error {
	var apiErr *flipcash.APIError
	if stderrors.As(err, &apiErr) {
		return c.JSON(apiErr.Status, models.ErrorResponse{
			Error:   "upstream_error",
			Message: apiErr.Message,
			Fields:  apiErr.Fields,
		})
	}

	if stderrors.Is(err, flipcash.ErrOfferExpired) {
		return c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "offer_expired",
			Message: err.Error(),
		})
	}

	if stderrors.Is(err, flipcash.ErrInvalidCounterPrice) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	}

	// Transport failure or decode error: log it, answer 502
	log.Printf("[UPSTREAM ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)
	return c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error:   "upstream_unavailable",
		Message: "The backend service could not be reached. Please try again later.",
	})
}

// Validation renders a local validation failure, field-keyed when the
// validator produced field errors
func Validation(c echo.Context, err error) error {
	var fields validate.FieldErrors
	if stderrors.As(err, &fields) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: fields.Error(),
			Fields:  fields,
		})
	}

	log.Printf("[VALIDATION ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request data. Please check your input and try again.",
	})
}

// BadRequest renders a request-shape error (unparseable body, bad params)
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}

// Unauthorized renders an authentication failure
func Unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}

// NotFound renders a missing-resource error
func NotFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: message,
	})
}

// Internal renders a generic internal error without leaking details
func Internal(c echo.Context, err error) error {
	log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}
