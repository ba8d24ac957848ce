package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/flipcash/partner-portal/pkg/auth"
	"github.com/flipcash/partner-portal/pkg/models"
)

// SessionMiddleware authenticates a portal session JWT and verifies the
// session still holds an upstream token in the store. The session id is
// planted in the request context so the upstream client's TokenSource can
// resolve the bearer token per call.
func SessionMiddleware(secret string, store *auth.TokenStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "missing_token",
					Message: "Authorization header is required",
				})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "invalid_token_format",
					Message: "Authorization header must be 'Bearer {token}'",
				})
			}

			claims, err := auth.ValidateJWT(parts[1], secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "invalid_token",
					Message: err.Error(),
				})
			}

			// The session must still be live in the store; logout or TTL
			// expiry revokes it even while the JWT itself is unexpired
			if _, err := store.Get(c.Request().Context(), claims.SessionID); err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) {
					return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
						Error:   "session_expired",
						Message: "Session has expired. Please log in again.",
					})
				}
				return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
					Error:   "session_store_unavailable",
					Message: "Could not verify session. Please try again.",
				})
			}

			c.Set("partner_id", claims.PartnerID)
			c.Set("session_id", claims.SessionID)

			ctx := auth.WithSessionID(c.Request().Context(), claims.SessionID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
