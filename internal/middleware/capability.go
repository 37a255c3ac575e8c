package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kursboard/kursboard/internal/core/domain"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// RequireCapability gates a route group behind the access gate. A denied
// call never reaches the handler, and the attempt is audited as a failure.
func RequireCapability(gate portssvc.AccessGateSvc, audit portssvc.AuditSvc, capability domain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		allowed, err := gate.Authorize(c.Request.Context(), userID, capability)
		if err != nil {
			logger.Error("Access gate check failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			return
		}
		if !allowed {
			logger.Warn("Capability denied", slog.String("capability", string(capability)))
			audit.Record(c.Request.Context(), domain.ActivityLogEntry{
				ActorID:   &userID,
				Action:    domain.ActionAccessDenied,
				Resource:  domain.ResourceUser,
				Outcome:   domain.OutcomeFailure,
				ErrorText: "capability denied: " + string(capability),
				CreatedAt: time.Now().UTC(),
			})
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}
