package route

import (
	"github.com/gofiber/fiber/v2"

	noticeController "poolbooking_backend/internals/features/notices/notice/controller"
	"poolbooking_backend/internals/features/notices/notice/service"
	authMiddleware "poolbooking_backend/internals/middlewares/auth"
	"poolbooking_backend/internals/policy"
)

// NoticeRoutes mounts /notices. Reading is public; writing needs a coach or
// admin session, and the author check happens in the service.
func NoticeRoutes(api fiber.Router, board *service.Board, gate *policy.Gate, requireAuth fiber.Handler) {
	ctrl := noticeController.NewNoticeController(board)
	allow := func(action policy.Action) fiber.Handler {
		return authMiddleware.OnlyAllowed(gate, policy.Notice, action)
	}

	grp := api.Group("/notices")
	grp.Get("/", ctrl.List)

	grp.Post("/", requireAuth, allow(policy.ActionCreate), ctrl.Publish)
	grp.Put("/:id/deactivate", requireAuth, allow(policy.ActionDeactivate), ctrl.Deactivate)
	grp.Put("/:id/reactivate", requireAuth, allow(policy.ActionReactivate), ctrl.Reactivate)
}
