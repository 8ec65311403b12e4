// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/features/users/auth/service"
	helper "poolbooking_backend/internals/helpers"
)

// Authenticator is the part of the AuthProvider the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*service.Claims, error)
}

// AuthMiddleware verifies the bearer token (or access_token cookie) and stores
// user_id, userRole, user_name and the raw token in Locals.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return helper.FromError(c, apperrors.Unauthenticated("no token provided"))
		}

		claims, err := auth.Authenticate(c.UserContext(), raw)
		if err != nil {
			return helper.FromError(c, err)
		}

		c.Locals(helper.LocUserID, claims.UserID)
		c.Locals(helper.LocUserRole, claims.Role)
		c.Locals(helper.LocUserName, claims.UserName)
		helper.SetRawAccessToken(c, raw)
		return c.Next()
	}
}
