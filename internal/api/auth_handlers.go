package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/auth"
	"blog-backend/internal/db"
	"blog-backend/internal/models"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup creates the account and signs the caller in immediately.
// Username and email shape rules are the same ones the update endpoint
// enforces; uniqueness is left to the store's indexes.
func (h *Handler) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		h.writeError(c, http.StatusBadRequest, "All fields are required", nil)
		return
	}
	if msg := validateUsername(req.Username); msg != "" {
		h.writeError(c, http.StatusBadRequest, msg, nil)
		return
	}
	if !isValidEmail(req.Email) {
		h.writeError(c, http.StatusBadRequest, "Invalid email format", nil)
		return
	}
	if len(req.Password) < 6 {
		h.writeError(c, http.StatusBadRequest, "Password must be at least 6 characters long", nil)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	now := h.now()
	user := models.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   hash,
		ProfilePicture: models.DefaultProfilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.store.InsertUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, db.ErrUserExists) {
			h.writeError(c, http.StatusConflict, "Username or email already taken", nil)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	if !h.issueCookie(c, user) {
		return
	}
	c.JSON(http.StatusCreated, user.Sanitize())
}

func (h *Handler) handleSignin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if req.Email == "" || req.Password == "" {
		h.writeError(c, http.StatusBadRequest, "All fields are required", nil)
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			h.writeError(c, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "Failed to sign in", err)
		return
	}

	if !h.authService.CheckPassword(user.PasswordHash, req.Password) {
		h.writeError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if !h.issueCookie(c, *user) {
		return
	}
	c.JSON(http.StatusOK, user.Sanitize())
}

func (h *Handler) issueCookie(c *gin.Context, user models.User) bool {
	token, expiresAt, err := h.authService.GenerateToken(user)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "Failed to issue token", err)
		return false
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(auth.CookieName, token, maxAge, "/", "", false, true)
	return true
}
