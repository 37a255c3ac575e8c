package handlers

import (
	"log/slog"
	"net/http"

	"github.com/kursboard/kursboard/internal/adapters/realtime"
	"github.com/kursboard/kursboard/internal/middleware"
	"github.com/kursboard/kursboard/internal/platform/config"
	"github.com/kursboard/kursboard/internal/utils"
	"github.com/gin-gonic/gin"
)

// wsHandler upgrades live-update subscriptions onto the realtime hub.
type wsHandler struct {
	hub       *realtime.Hub
	jwtSecret string
}

func newWSHandler(hub *realtime.Hub, jwtSecret string) *wsHandler {
	return &wsHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// registerWebsocketRoutes wires the public and admin live-update endpoints.
func registerWebsocketRoutes(r *gin.Engine, cfg *config.Config, hub *realtime.Hub) {
	h := newWSHandler(hub, cfg.JWTSecret)

	r.GET("/ws", h.subscribePublic)
	r.GET("/ws/admin", h.subscribeAdmin)
}

// subscribePublic godoc
// @Summary Subscribe to public rate updates
// @Description Upgrades to a websocket that receives a rateChanged event with the full public rate map after every accepted mutation.
// @Tags realtime
// @Success 101 {string} string "Switching Protocols"
// @Router /ws [get]
func (h *wsHandler) subscribePublic(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request, false)
}

// subscribeAdmin godoc
// @Summary Subscribe to admin rate updates
// @Description Upgrades to a websocket that receives the full rate map including hidden currencies. Browsers cannot set headers on websocket requests, so the session token is passed as a query parameter.
// @Tags realtime
// @Param token query string true "JWT session token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} ErrorResponse
// @Router /ws/admin [get]
func (h *wsHandler) subscribeAdmin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Token required"})
		return
	}

	claims, err := utils.ParseAndValidateJWT(token, h.jwtSecret)
	if err != nil || claims.Subject == "" {
		logger.Warn("Admin websocket subscription rejected")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
		return
	}

	logger.Info("Admin websocket subscribed", slog.String("user_id", claims.Subject))
	h.hub.ServeWS(c.Writer, c.Request, true)
}
