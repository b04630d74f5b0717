package routes

import (
	"campus-connect/internal/delivery/http/handler"
	"campus-connect/internal/delivery/http/middleware"
	v1 "campus-connect/internal/delivery/http/routes/v1"
	"campus-connect/internal/pkg/jwt"
	"campus-connect/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	deps   v1.Deps
	jwtSvc jwt.Service
	authMw *middleware.AuthMiddleware

	health *handler.HealthHandler
	wsFeed *ws.Handler
}

func NewRegistry(deps v1.Deps) *Registry {
	jwtSvc := jwt.NewHMACService(
		deps.Cfg.JWT.AccessSecret,
		deps.Cfg.JWT.RefreshSecret,
		deps.Cfg.JWT.AccessExpiresIn,
		deps.Cfg.JWT.RefreshExpiresIn,
	)

	return &Registry{
		deps:   deps,
		jwtSvc: jwtSvc,
		authMw: middleware.NewAuthMiddleware(jwtSvc),
		health: handler.NewHealthHandler(deps.DB),
		wsFeed: ws.NewHandler(deps.Hub, deps.Logger),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.jwtSvc, r.authMw.Middleware(), r.deps)

	// The live notification feed sits outside the versioned API; it rides
	// the same access token, passed as a query parameter on the dial.
	app.Get("/ws/notifications", r.wsFeed.HandleNotificationsWS, r.authMw.Middleware())
}
