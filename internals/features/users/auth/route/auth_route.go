// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	controller "poolbooking_backend/internals/features/users/auth/controller"
	"poolbooking_backend/internals/features/users/auth/service"
	rateLimiter "poolbooking_backend/internals/middlewares"
)

// AuthRoutes mounts /auth. requireAuth guards the endpoints that need a session.
func AuthRoutes(api fiber.Router, auth *service.AuthService, requireAuth fiber.Handler) {
	ctl := controller.NewAuthController(auth)

	grp := api.Group("/auth")

	grp.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	grp.Post("/register", rateLimiter.RegisterRateLimiter(), ctl.Register)

	grp.Post("/logout", requireAuth, ctl.Logout)
	grp.Post("/change-password", requireAuth, ctl.ChangePassword)
	grp.Get("/me", requireAuth, ctl.Me)
}
