package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/flipcash/partner-portal/pkg/api/errors"
	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/offers"
	"github.com/flipcash/partner-portal/pkg/validate"
)

// OfferHandler handles the customer-facing offer negotiation flow
type OfferHandler struct {
	service   *offers.Service
	validator *validate.Validator
}

// NewOfferHandler creates a new offer handler
func NewOfferHandler(service *offers.Service, validator *validate.Validator) *OfferHandler {
	return &OfferHandler{
		service:   service,
		validator: validator,
	}
}

// List lists offers, optionally filtered by lead or status
func (h *OfferHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	page, err := h.service.List(ctx, flipcash.OfferFilters{
		LeadID: c.QueryParam("lead_id"),
		Status: flipcash.OfferStatus(c.QueryParam("status")),
	})
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// View godoc
// @Summary Offer negotiation view
// @Description The offer with its respondability flag and suggested counter midpoint
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} models.OfferViewResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/offers/{id} [get]
func (h *OfferHandler) View(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.service.View(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Respond submits an accept/reject/counter response. A counter without a
// positive price never reaches the network; an expired offer answers 409.
func (h *OfferHandler) Respond(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var req flipcash.OfferResponse
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.Validation(c, err)
	}
	if req.Action == flipcash.OfferActionCounter {
		if req.CounterPrice == nil || *req.CounterPrice <= 0 {
			return apierrors.Upstream(c, flipcash.ErrInvalidCounterPrice)
		}
	}

	offer, err := h.service.Respond(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, offer)
}
