package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"blog-backend/internal/auth"
	"blog-backend/internal/db"
)

// updateUserRequest uses pointers so that an absent field and an empty
// string stay distinguishable; only present fields are validated and staged.
type updateUserRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	ProfilePicture *string `json:"profilePicture"`
}

// handleUpdateUser validates every present field before the single $set
// write, so a failed check never leaves a partial mutation behind. Only the
// user themselves may update their profile; there is deliberately no admin
// override here, unlike delete.
func (h *Handler) handleUpdateUser(c *gin.Context) {
	targetID := c.Param("userId")

	claims := currentClaims(c)
	if claims == nil || claims.Subject != targetID {
		h.writeError(c, http.StatusForbidden, "You are not allowed to update this user", nil)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	fields := bson.M{}

	if req.Password != nil {
		if len(*req.Password) < 6 {
			h.writeError(c, http.StatusBadRequest, "Password must be at least 6 characters long", nil)
			return
		}
		hash, err := h.authService.HashPassword(*req.Password)
		if err != nil {
			h.writeError(c, http.StatusInternalServerError, "Failed to update user", err)
			return
		}
		fields["password_hash"] = hash
	}

	if req.Username != nil {
		if msg := validateUsername(*req.Username); msg != "" {
			h.writeError(c, http.StatusBadRequest, msg, nil)
			return
		}
		fields["username"] = *req.Username
	}

	if req.Email != nil {
		if !isValidEmail(*req.Email) {
			h.writeError(c, http.StatusBadRequest, "Invalid email format", nil)
			return
		}
		fields["email"] = *req.Email
	}

	if req.ProfilePicture != nil {
		if !isValidURL(*req.ProfilePicture) {
			h.writeError(c, http.StatusBadRequest, "Invalid profile picture URL", nil)
			return
		}
		fields["profile_picture"] = *req.ProfilePicture
	}

	updated, err := h.store.UpdateUser(c.Request.Context(), targetID, fields)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrUserNotFound):
			h.writeError(c, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, db.ErrUserExists):
			h.writeError(c, http.StatusConflict, "Username or email already taken", nil)
		default:
			h.writeError(c, http.StatusInternalServerError, "Failed to update user", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated.Sanitize())
}

// handleDeleteUser allows self-deletion or an admin removing any account.
func (h *Handler) handleDeleteUser(c *gin.Context) {
	targetID := c.Param("userId")

	claims := currentClaims(c)
	if claims == nil || (!claims.IsAdmin && claims.Subject != targetID) {
		h.writeError(c, http.StatusForbidden, "You are not allowed to delete this user", nil)
		return
	}

	if err := h.store.DeleteUser(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			h.writeError(c, http.StatusNotFound, "User not found", nil)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "Failed to delete user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User has been deleted"})
}

func (h *Handler) handleSignout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "User has been signed out"})
}

// handleListUsers is admin-only. The lastMonthUsers window is the same
// day-of-month one month back; time.Date normalizes short months the same
// way the dashboard's previous implementation did.
func (h *Handler) handleListUsers(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil || !claims.IsAdmin {
		h.writeError(c, http.StatusForbidden, "You are not allowed to see all users", nil)
		return
	}

	startIndex := parseQueryInt(c.Query("startIndex"), 0)
	limit := parseQueryInt(c.Query("limit"), 9)
	sortAsc := c.Query("sort") == "asc"

	ctx := c.Request.Context()

	users, err := h.store.ListUsers(ctx, int64(startIndex), int64(limit), sortAsc)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	sanitized := make([]any, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitize())
	}

	totalUsers, err := h.store.CountUsers(ctx)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	now := h.now()
	oneMonthAgo := time.Date(now.Year(), now.Month()-1, now.Day(), 0, 0, 0, 0, now.Location())
	lastMonthUsers, err := h.store.CountUsersSince(ctx, oneMonthAgo)
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":          sanitized,
		"totalUsers":     totalUsers,
		"lastMonthUsers": lastMonthUsers,
	})
}

func (h *Handler) handleGetUser(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			h.writeError(c, http.StatusNotFound, "User not found", nil)
			return
		}
		h.writeError(c, http.StatusInternalServerError, "Failed to fetch user", err)
		return
	}

	c.JSON(http.StatusOK, user.Sanitize())
}

func parseQueryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	// limit=0 must not reach the store, where an unset limit means
	// "return everything".
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
