package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apierrors "github.com/flipcash/partner-portal/pkg/api/errors"
	"github.com/flipcash/partner-portal/pkg/auth"
	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/models"
	"github.com/flipcash/partner-portal/pkg/validate"
)

// AuthHandler handles partner login/logout against the upstream API
type AuthHandler struct {
	api           *flipcash.Client
	store         *auth.TokenStore
	validator     *validate.Validator
	sessionSecret string
	sessionHours  int
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(api *flipcash.Client, store *auth.TokenStore, validator *validate.Validator, sessionSecret string, sessionHours int) *AuthHandler {
	return &AuthHandler{
		api:           api,
		store:         store,
		validator:     validator,
		sessionSecret: sessionSecret,
		sessionHours:  sessionHours,
	}
}

// Login godoc
// @Summary Partner login
// @Description Exchanges partner credentials for a portal session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return apierrors.Validation(c, err)
	}

	resp, err := h.api.Login(ctx, flipcash.LoginRequest{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return apierrors.Upstream(c, err)
	}

	sessionID := uuid.NewString()
	ttl := time.Duration(h.sessionHours) * time.Hour
	if err := h.store.Save(ctx, sessionID, resp.Token, ttl); err != nil {
		return apierrors.Internal(c, err)
	}

	token, err := auth.GenerateJWT(resp.Partner.ID, sessionID, resp.Partner.Phone, h.sessionSecret, h.sessionHours)
	if err != nil {
		return apierrors.Internal(c, err)
	}

	return c.JSON(http.StatusOK, models.LoginResponse{
		Token:   token,
		Partner: resp.Partner,
	})
}

// Logout revokes the portal session and, best-effort, the upstream token
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sessionID, _ := c.Get("session_id").(string)
	if sessionID == "" {
		return apierrors.Unauthorized(c, "Not authenticated")
	}

	// Upstream revocation is best-effort; the session dies either way
	_ = h.api.Logout(ctx)

	if err := h.store.Delete(ctx, sessionID); err != nil {
		return apierrors.Internal(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{Message: "Logged out"})
}

// Me returns the authenticated partner profile from the upstream
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	partner, err := h.api.Me(ctx)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, partner)
}
