package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flipcash/partner-portal/pkg/agents"
	apierrors "github.com/flipcash/partner-portal/pkg/api/errors"
	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/validate"
)

// AgentHandler handles agent directory and lifecycle HTTP requests
type AgentHandler struct {
	service   *agents.Service
	validator *validate.Validator
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(service *agents.Service, validator *validate.Validator) *AgentHandler {
	return &AgentHandler{
		service:   service,
		validator: validator,
	}
}

// directoryFilters binds the directory query parameters
type directoryFilters struct {
	Status       string `query:"status"`
	Verification string `query:"verification_status"`
	Available    *bool  `query:"is_available"`
	Search       string `query:"search"`
	Page         int    `query:"page"`
	PageSize     int    `query:"page_size"`
}

// Directory godoc
// @Summary List field agents
// @Description Agent directory with status/verification/availability filters
// @Tags Agents
// @Produce json
// @Success 200 {object} models.DirectoryResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/agents [get]
func (h *AgentHandler) Directory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var filters directoryFilters
	if err := c.Bind(&filters); err != nil {
		return apierrors.BadRequest(c, "Invalid query parameters")
	}

	response, err := h.service.Directory(ctx, flipcash.AgentFilters{
		Status:       flipcash.AgentStatus(filters.Status),
		Verification: flipcash.VerificationStatus(filters.Verification),
		Available:    filters.Available,
		Search:       filters.Search,
		Page:         filters.Page,
		PageSize:     filters.PageSize,
	})
	if err != nil {
		return apierrors.Upstream(c, err)
	}

	return c.JSON(http.StatusOK, response)
}

// Get returns a single agent
func (h *AgentHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	agent, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}

// Create registers a new field agent
func (h *AgentHandler) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var req flipcash.CreateAgentRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.Validation(c, err)
	}

	agent, err := h.service.Create(ctx, req)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusCreated, agent)
}

// Update replaces an agent profile (PUT)
func (h *AgentHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var req flipcash.UpdateAgentRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.Validation(c, err)
	}

	agent, err := h.service.Update(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}

// Patch applies a partial update (PATCH)
func (h *AgentHandler) Patch(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if len(fields) == 0 {
		return apierrors.BadRequest(c, "No fields to update")
	}

	agent, err := h.service.Patch(ctx, c.Param("id"), fields)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}

// Delete soft-deletes an agent. A backend rejection (active assignments
// remain) is surfaced verbatim, never suppressed.
func (h *AgentHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, c.Param("id")); err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Verify submits the agent for KYC verification
func (h *AgentHandler) Verify(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	agent, err := h.service.Verify(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}

// ToggleStatus flips an agent between active and inactive
func (h *AgentHandler) ToggleStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	agent, err := h.service.ToggleStatus(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}

// ToggleAvailability flips an agent's availability. The underlying
// read-then-patch round trip is serialized per agent, so concurrent clicks
// from two dashboard tabs cannot interleave.
func (h *AgentHandler) ToggleAvailability(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 20*time.Second)
	defer cancel()

	agent, err := h.service.ToggleAvailability(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}

// Activate sets the agent active
func (h *AgentHandler) Activate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	agent, err := h.service.Activate(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}

// Deactivate sets the agent inactive
func (h *AgentHandler) Deactivate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	agent, err := h.service.Deactivate(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}

// Assignments lists one agent's assignments
func (h *AgentHandler) Assignments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	assignments, err := h.service.Assignments(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, assignments)
}

// ActivityLogs lists one agent's activity trail
func (h *AgentHandler) ActivityLogs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	logs, err := h.service.ActivityLogs(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

// Stats returns assignment statistics for one agent. Falls back to a
// client-computed approximation when the upstream lacks the stats endpoint.
func (h *AgentHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
