package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/flipcash/partner-portal/pkg/api/errors"
	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/payments"
	"github.com/flipcash/partner-portal/pkg/validate"
)

// PaymentHandler handles wallet top-up checkout and post-redirect verification
type PaymentHandler struct {
	api       *flipcash.Client
	poller    *payments.Poller
	validator *validate.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(api *flipcash.Client, poller *payments.Poller, validator *validate.Validator) *PaymentHandler {
	return &PaymentHandler{
		api:       api,
		poller:    poller,
		validator: validator,
	}
}

// CreateOrder godoc
// @Summary Create a wallet top-up order
// @Description Creates a gateway checkout order; the response Mode and payment session id drive the checkout SDK
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body flipcash.CreatePaymentOrderRequest true "Order"
// @Success 201 {object} flipcash.PaymentOrder
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/payments/create-order [post]
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var req flipcash.CreatePaymentOrderRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.Validation(c, err)
	}

	order, err := h.api.CreatePaymentOrder(ctx, req)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// Callback handles the gateway redirect after checkout. The order id is
// extracted from whichever query-parameter spelling the gateway used; a
// missing id is terminal and triggers no verification call. A pending status
// is re-polled on the configured budget before handing back to the dashboard.
func (h *PaymentHandler) Callback(c echo.Context) error {
	orderID, err := payments.ExtractOrderID(c.QueryParams())
	if err != nil {
		return c.JSON(http.StatusBadRequest, payments.Result{
			State:   payments.StateError,
			Message: err.Error(),
		})
	}

	// Budget: initial call plus up to `retries` waits at the poll interval
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	result := h.poller.Poll(ctx, orderID)
	return c.JSON(http.StatusOK, result)
}

// VerifyOrder runs a single manual status check, the escape hatch shown when
// the callback poll exhausts its retries on a still-pending order
func (h *PaymentHandler) VerifyOrder(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return apierrors.BadRequest(c, "order_id is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	result := h.poller.Verify(ctx, orderID)
	return c.JSON(http.StatusOK, result)
}
