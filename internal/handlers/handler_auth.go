package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/domain"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/kursboard/kursboard/internal/middleware"
	"github.com/kursboard/kursboard/internal/platform/config"
	"github.com/kursboard/kursboard/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService portssvc.UserSvcFacade
	auditSvc    portssvc.AuditSvc
	jwtSecret   string
	jwtDuration time.Duration
	jwtIssuer   string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, audit portssvc.AuditSvc, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: us,
		auditSvc:    audit,
		jwtSecret:   cfg.JWTSecret,
		jwtDuration: cfg.JWTExpiryDuration,
		jwtIssuer:   cfg.JWTIssuer,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the routes for authentication. Login is
// rate-limited separately from the global limit to slow credential guessing.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.User, services.Audit, cfg)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/logout", middleware.AuthMiddleware(cfg.JWTSecret), h.Logout)
	}
}

// Login godoc
// @Summary Operator login
// @Description Authenticates a dashboard operator and returns a JWT session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Login rejected", slog.String("username", req.Username))
			h.auditSvc.Record(c.Request.Context(), domain.ActivityLogEntry{
				Action:    domain.ActionLogin,
				Resource:  domain.ResourceUser,
				Outcome:   domain.OutcomeFailure,
				ErrorText: "invalid credentials for " + req.Username,
				CreatedAt: time.Now().UTC(),
			})
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed"})
		return
	}

	token, err := utils.GenerateJWT(user.UserID, h.jwtSecret, h.jwtDuration, h.jwtIssuer)
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.auditSvc.Record(c.Request.Context(), domain.ActivityLogEntry{
		ActorID:   &user.UserID,
		Action:    domain.ActionLogin,
		Resource:  domain.ResourceUser,
		Outcome:   domain.OutcomeSuccess,
		CreatedAt: time.Now().UTC(),
	})

	logger.Info("Login succeeded", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		UserID:    user.UserID,
		Username:  user.Username,
		Role:      string(user.Role),
		ExpiresIn: int64(h.jwtDuration.Seconds()),
	})
}

// Logout godoc
// @Summary Operator logout
// @Description Records the end of a session. Tokens are stateless so this only audits the event; the client discards the token.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	h.auditSvc.Record(c.Request.Context(), domain.ActivityLogEntry{
		ActorID:   &userID,
		Action:    domain.ActionLogout,
		Resource:  domain.ResourceUser,
		Outcome:   domain.OutcomeSuccess,
		CreatedAt: time.Now().UTC(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
