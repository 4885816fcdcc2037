package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"evcatalog/internal/config"
	handlers "evcatalog/internal/http/api/handlers"
	"evcatalog/internal/http/middleware"
	"evcatalog/internal/ratelimit"
	"evcatalog/internal/security"
)

// SessionCookieName is the cookie carrying the signed session credential.
const SessionCookieName = handlers.SessionCookieName

// RegisterRoutes registers routes, middleware, and handlers.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, sessions *security.Sessions, srvCfg config.ServerConfig) {
	if r == nil || db == nil || sessions == nil {
		return
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(srvCfg.AllowedOrigins))

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	limiter := ratelimit.NewMemoryLimiter()
	authHandler := handlers.NewAuthHandler(db, sessions, limiter, srvCfg.Production)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)

	modelHandler := handlers.NewVehicleModelHandler(db)
	r.GET("/models", modelHandler.List)
	r.GET("/models/:id", modelHandler.Get)

	authed := r.Group("")
	authed.Use(sessionAuthMiddleware(sessions))

	authed.GET("/auth/status", authHandler.Status)
	authed.POST("/models", modelHandler.Create)
	authed.PUT("/models/:id", modelHandler.Update)
	authed.DELETE("/models/:id", modelHandler.Delete)
}

// sessionAuthMiddleware verifies the session cookie and loads the principal
// into the request context. Verification is stateless: no store query.
func sessionAuthMiddleware(sessions *security.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errCookie := c.Cookie(SessionCookieName)
		if errCookie != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		principal, errVerify := sessions.Verify(token)
		if errVerify != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(handlers.PrincipalKey, principal)
		c.Next()
	}
}
