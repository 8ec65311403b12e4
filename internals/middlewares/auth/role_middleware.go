package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "poolbooking_backend/internals/helpers"
	"poolbooking_backend/internals/policy"
)

// OnlyAllowed rejects the request unless the gate allows action on
// resourceType for the current user. Resource-level checks (ownership) still
// happen in the service once the record is loaded.
func OnlyAllowed(gate *policy.Gate, resourceType string, action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := helper.GetActor(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		if err := gate.Authorize(c.UserContext(), actor, action, resourceType, nil); err != nil {
			return helper.FromError(c, err)
		}
		return c.Next()
	}
}
