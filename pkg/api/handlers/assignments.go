package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/flipcash/partner-portal/pkg/api/errors"
	"github.com/flipcash/partner-portal/pkg/assignments"
	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/validate"
)

// AssignmentHandler handles the lead-to-agent assignment workflow
type AssignmentHandler struct {
	service   *assignments.Service
	validator *validate.Validator
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(service *assignments.Service, validator *validate.Validator) *AssignmentHandler {
	return &AssignmentHandler{
		service:   service,
		validator: validator,
	}
}

// AvailableAgents godoc
// @Summary Agents available for a lead
// @Description Backend-filtered assignable agents with optional client-side substring search
// @Tags Assignments
// @Produce json
// @Param lead_id query string true "Lead ID"
// @Param search query string false "Substring over name/phone/employee code"
// @Success 200 {object} models.AvailableAgentsResponse
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/assignments/available-agents [get]
func (h *AssignmentHandler) AvailableAgents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	leadID := c.QueryParam("lead_id")
	if leadID == "" {
		return apierrors.BadRequest(c, "lead_id is required")
	}

	response, err := h.service.AvailableAgents(ctx, leadID, c.QueryParam("search"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

// Create binds a claimed lead to one agent. A capacity change between the
// availability fetch and this submit is rejected upstream and surfaced
// verbatim; the portal cannot re-validate capacity locally.
func (h *AssignmentHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var req flipcash.CreateAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if req.Priority == "" {
		req.Priority = flipcash.PriorityNormal
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.Validation(c, err)
	}

	assignment, err := h.service.Create(ctx, req)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusCreated, assignment)
}

// List lists assignments with optional filters
func (h *AssignmentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	leadID := c.QueryParam("lead_id")
	if leadID != "" && c.QueryParam("agent_id") == "" && c.QueryParam("status") == "" {
		// Per-lead list is the hot path behind the lead detail page
		list, err := h.service.ListForLead(ctx, leadID)
		if err != nil {
			return apierrors.Upstream(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}

	page, err := h.service.List(ctx, flipcash.AssignmentFilters{
		LeadID:  leadID,
		AgentID: c.QueryParam("agent_id"),
		Status:  flipcash.AssignmentStatus(c.QueryParam("status")),
	})
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Get fetches a single assignment
func (h *AssignmentHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	assignment, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, assignment)
}

// Cancel cancels an assignment
func (h *AssignmentHandler) Cancel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.service.Cancel(ctx, c.Param("id")); err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Reassign moves an assignment to a different agent
func (h *AssignmentHandler) Reassign(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var req flipcash.ReassignRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.Validation(c, err)
	}

	assignment, err := h.service.Reassign(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, assignment)
}

// AssignableLeads lists claimed leads still waiting for an agent
func (h *AssignmentHandler) AssignableLeads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	leads, err := h.service.AssignableLeads(ctx)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, leads)
}
