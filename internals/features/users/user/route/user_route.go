package route

import (
	"github.com/gofiber/fiber/v2"

	userController "poolbooking_backend/internals/features/users/user/controller"
	"poolbooking_backend/internals/features/users/user/service"
	authMiddleware "poolbooking_backend/internals/middlewares/auth"
	"poolbooking_backend/internals/policy"
)

// UserRoutes mounts /users. Everything except the coach self-service edit is
// admin only.
func UserRoutes(api fiber.Router, directory *service.Directory, gate *policy.Gate, requireAuth fiber.Handler) {
	ctrl := userController.NewUserController(directory)

	users := api.Group("/users", requireAuth)

	users.Put("/me/coach-profile",
		authMiddleware.OnlyAllowed(gate, policy.Account, policy.ActionUpdateSelf),
		ctrl.UpdateCoachProfile,
	)

	users.Get("/", authMiddleware.OnlyAllowed(gate, policy.Account, policy.ActionList), ctrl.ListUsers)
	users.Post("/", authMiddleware.OnlyAllowed(gate, policy.Account, policy.ActionCreate), ctrl.CreateUser)
	users.Get("/:id", ctrl.GetUser)
	users.Delete("/:id", authMiddleware.OnlyAllowed(gate, policy.Account, policy.ActionDelete), ctrl.DeleteUser)
	users.Put("/:id/deactivate", authMiddleware.OnlyAllowed(gate, policy.Account, policy.ActionDeactivate), ctrl.DeactivateUser)
	users.Put("/:id/reactivate", authMiddleware.OnlyAllowed(gate, policy.Account, policy.ActionReactivate), ctrl.ReactivateUser)
}
