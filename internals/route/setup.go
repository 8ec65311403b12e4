// file: internals/route/setup.go
package routes

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"poolbooking_backend/internals/configs"
	bookingRoute "poolbooking_backend/internals/features/bookings/booking/route"
	bookingService "poolbooking_backend/internals/features/bookings/booking/service"
	allocationRoute "poolbooking_backend/internals/features/coaches/allocation/route"
	allocationService "poolbooking_backend/internals/features/coaches/allocation/service"
	noticeRoute "poolbooking_backend/internals/features/notices/notice/route"
	noticeService "poolbooking_backend/internals/features/notices/notice/service"
	authRoute "poolbooking_backend/internals/features/users/auth/route"
	authService "poolbooking_backend/internals/features/users/auth/service"
	userRoute "poolbooking_backend/internals/features/users/user/route"
	userService "poolbooking_backend/internals/features/users/user/service"
	helper "poolbooking_backend/internals/helpers"
	"poolbooking_backend/internals/helpers/dbtime"
	"poolbooking_backend/internals/middlewares"
	authMiddleware "poolbooking_backend/internals/middlewares/auth"
	"poolbooking_backend/internals/policy"
)

// Services is the wired domain layer.
type Services struct {
	Gate        *policy.Gate
	Directory   *userService.Directory
	Auth        *authService.AuthService
	Allocations *allocationService.Ledger
	Bookings    *bookingService.Ledger
	Notices     *noticeService.Board
}

func NewServices(db *gorm.DB, log *zap.Logger, cfg *configs.Config, clock dbtime.Clock) *Services {
	gate := policy.Default()
	dir := userService.NewDirectory(db, log, gate)
	alloc := allocationService.NewLedger(db, log, gate, dir, clock)
	return &Services{
		Gate:        gate,
		Directory:   dir,
		Auth:        authService.NewAuthService(db, log, dir, cfg.JWTSecret, cfg.AccessTTL),
		Allocations: alloc,
		Bookings:    bookingService.NewLedger(db, log, gate, alloc, clock, cfg.PoolSlots),
		Notices:     noticeService.NewBoard(db, log, gate, dir),
	}
}

// NewApp builds the fiber app with every middleware and route mounted.
func NewApp(cfg *configs.Config, db *gorm.DB, log *zap.Logger, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	middlewares.SetupMiddlewares(app, cfg, log)
	BaseRoutes(app, db, cfg.AppEnv)
	SetupRoutes(app, svc)
	return app
}

func SetupRoutes(app *fiber.App, svc *Services) {
	requireAuth := authMiddleware.AuthMiddleware(svc.Auth)

	api := app.Group("/api", middlewares.GlobalRateLimiter())

	authRoute.AuthRoutes(api, svc.Auth, requireAuth)
	userRoute.UserRoutes(api, svc.Directory, svc.Gate, requireAuth)
	bookingRoute.BookingRoutes(api, svc.Bookings, svc.Gate, requireAuth)
	allocationRoute.AllocationRoutes(api, svc.Allocations, svc.Gate, requireAuth)
	noticeRoute.NoticeRoutes(api, svc.Notices, svc.Gate, requireAuth)
}
