package route

import (
	"github.com/gofiber/fiber/v2"

	bookingController "poolbooking_backend/internals/features/bookings/booking/controller"
	"poolbooking_backend/internals/features/bookings/booking/service"
	authMiddleware "poolbooking_backend/internals/middlewares/auth"
	"poolbooking_backend/internals/policy"
)

func BookingRoutes(api fiber.Router, ledger *service.Ledger, gate *policy.Gate, requireAuth fiber.Handler) {
	ctrl := bookingController.NewBookingController(ledger)
	allow := func(action policy.Action) fiber.Handler {
		return authMiddleware.OnlyAllowed(gate, policy.Booking, action)
	}

	grp := api.Group("/bookings", requireAuth)

	grp.Post("/", ctrl.Create)
	grp.Get("/mybookings", ctrl.Mine)

	// staff / admin / coach
	grp.Post("/verify", allow(policy.ActionVerify), ctrl.Verify)
	grp.Get("/day", allow(policy.ActionListDay), ctrl.Day)

	// admin
	grp.Get("/stats", allow(policy.ActionStats), ctrl.Stats)

	grp.Get("/:id", ctrl.Get)
	grp.Put("/:id/cancel", ctrl.Cancel)
}
