package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/auth"
)

const claimsKey = "authClaims"

// requireAuth reads the access_token cookie, verifies it and attaches the
// decoded claims to the request context. Expired tokens get their own
// message so the client can prompt a re-login.
func (h *Handler) requireAuth(c *gin.Context) {
	raw, err := c.Cookie(auth.CookieName)
	if err != nil || raw == "" {
		h.writeError(c, http.StatusUnauthorized, "No token provided, authorization denied", nil)
		return
	}

	claims, err := h.authService.VerifyToken(raw)
	if err != nil {
		message := "Invalid token, authorization denied"
		if errors.Is(err, auth.ErrTokenExpired) {
			message = "Token expired, please log in again"
		}
		h.writeError(c, http.StatusUnauthorized, message, nil)
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

func currentClaims(c *gin.Context) *auth.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.Claims)
	return claims
}
