// Package front registers the user-facing HTTP surface.
package front

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uden-ai/uden-server/internal/billing"
	"github.com/uden-ai/uden-server/internal/config"
	handlers "github.com/uden-ai/uden-server/internal/http/api/front/handlers"
	"github.com/uden-ai/uden-server/internal/mail"
	"github.com/uden-ai/uden-server/internal/oauth"
	"github.com/uden-ai/uden-server/internal/ratelimit"
	"gorm.io/gorm"
)

// authRequestsPerMinute limits unauthenticated account endpoints per
// client IP.
const authRequestsPerMinute = 10

// RegisterFrontRoutes registers routes, middleware, and handlers for
// the user-facing API.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	if r == nil || db == nil {
		return
	}

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, errDB := db.DB()
		if errDB != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	mailer := mail.NewSMTPMailer(cfg.SMTP)
	resolver := oauth.NewResolver(db)
	gateway := billing.NewStripeGateway(cfg.Stripe.SecretAPIKey)
	catalog := billing.NewCatalog(cfg.Stripe)

	registerRoutes(r, db, mailer, resolver, gateway, catalog)
}

// registerRoutes wires handlers with injected collaborators; split out
// so tests can substitute the mailer and gateway.
func registerRoutes(r *gin.Engine, db *gorm.DB, mailer mail.Mailer, resolver *oauth.Resolver, gateway billing.Gateway, catalog *billing.Catalog) {
	limiter := ratelimit.NewMemoryLimiter()

	authHandler := handlers.NewAuthHandler(db, mailer, resolver)
	authGroup := r.Group("/auth")
	authGroup.Use(handlers.RateLimitMiddleware(limiter, authRequestsPerMinute))
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login-oauth", authHandler.LoginOAuth)

	billingHandler := handlers.NewBillingHandler(db, gateway, catalog)
	billingGroup := r.Group("/billing")
	billingGroup.Use(handlers.AuthMiddleware(db))
	billingGroup.POST("/order", billingHandler.Order)

	userHandler := handlers.NewUserHandler(db)
	r.GET("/user", userHandler.Get)
}
