package route

import (
	"github.com/gofiber/fiber/v2"

	allocationController "poolbooking_backend/internals/features/coaches/allocation/controller"
	"poolbooking_backend/internals/features/coaches/allocation/service"
	authMiddleware "poolbooking_backend/internals/middlewares/auth"
	"poolbooking_backend/internals/policy"
)

func AllocationRoutes(api fiber.Router, ledger *service.Ledger, gate *policy.Gate, requireAuth fiber.Handler) {
	ctrl := allocationController.NewAllocationController(ledger)
	adminOnly := func(action policy.Action) fiber.Handler {
		return authMiddleware.OnlyAllowed(gate, policy.Allocation, action)
	}

	grp := api.Group("/coach-allocations", requireAuth)

	grp.Get("/", ctrl.List)
	grp.Get("/:date", ctrl.Get)

	grp.Post("/", adminOnly(policy.ActionCreate), ctrl.Assign)
	grp.Post("/recurring", adminOnly(policy.ActionCreate), ctrl.AssignRecurring)
	grp.Delete("/:date", adminOnly(policy.ActionDelete), ctrl.Remove)
}
