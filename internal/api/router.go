package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/app"
	iauth "github.com/rosterhq/roster/internal/auth"
	"github.com/rosterhq/roster/internal/handlers"
	"github.com/rosterhq/roster/internal/middleware"
	"github.com/rosterhq/roster/internal/services"
	"github.com/rosterhq/roster/pkg/mail"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, mailer mail.Mailer) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	r.GET("/healthz", handlers.Health())

	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	memberships, err := services.NewMembershipQueries(db)
	if err != nil {
		return nil, err
	}
	invites, err := services.NewInviteService(db, mailer, audit,
		services.WithInviteBaseURL(cfg.Invites.BaseURL),
		services.WithInviteExpiryDays(cfg.Invites.ExpiryDays),
		services.WithInviteTokenSize(cfg.Invites.TokenBytes),
		services.WithMaxBatchSize(cfg.Invites.MaxBatchSize),
	)
	if err != nil {
		return nil, err
	}
	organizations, err := services.NewOrganizationService(db, audit)
	if err != nil {
		return nil, err
	}
	adminUsers, err := services.NewAdminUserService(db, audit)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	authHandler := handlers.NewAuthHandler(users, jwt)
	r.POST("/api/auth/login", authHandler.Login)

	requireAuth := middleware.Auth(jwt)
	api := r.Group("/api")
	api.Use(requireAuth)

	registerTeamRoutes(api, handlers.NewTeamHandler(invites, memberships))
	registerOrganizationRoutes(api, handlers.NewOrganizationHandler(organizations, users))
	registerAdminRoutes(api, handlers.NewAdminUserHandler(adminUsers))

	// Metrics endpoint
	if cfg.Monitoring.Prometheus.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
