package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"blog-backend/internal/auth"
	"blog-backend/internal/models"
)

// UserStore is the persistence surface the handlers need. *db.Mongo is the
// production implementation; tests inject a fake.
type UserStore interface {
	InsertUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields bson.M) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, skip, limit int64, sortAsc bool) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersSince(ctx context.Context, since time.Time) (int64, error)
}

type Handler struct {
	authService *auth.Service
	store       UserStore
	logger      *zap.Logger

	// now is swappable so tests can pin the trailing-month window.
	now func() time.Time
}

func NewHandler(authService *auth.Service, store UserStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		authService: authService,
		store:       store,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/signup", h.handleSignup)
	authGroup.POST("/signin", h.handleSignin)

	userGroup := apiGroup.Group("/user")
	userGroup.GET("/test", h.handleTest)
	userGroup.PUT("/update/:userId", h.requireAuth, h.handleUpdateUser)
	userGroup.DELETE("/delete/:userId", h.requireAuth, h.handleDeleteUser)
	userGroup.POST("/signout", h.handleSignout)
	userGroup.GET("/getusers", h.requireAuth, h.handleListUsers)
	userGroup.GET("/:userId", h.handleGetUser)
}

func (h *Handler) handleTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API is working"})
}

// writeError is the single exit path for failed requests. Unexpected
// collaborator failures land here unmodified and are logged before the
// client sees the generic message.
func (h *Handler) writeError(c *gin.Context, status int, message string, err error) {
	if err != nil && status >= 500 {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
