package controller

import (
	"github.com/gofiber/fiber/v2"

	"poolbooking_backend/internals/features/bookings/booking/dto"
	"poolbooking_backend/internals/features/bookings/booking/service"
	helper "poolbooking_backend/internals/helpers"
)

type BookingController struct {
	Ledger *service.Ledger
}

func NewBookingController(ledger *service.Ledger) *BookingController {
	return &BookingController{Ledger: ledger}
}

// POST /api/bookings
func (bc *BookingController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateBookingRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	b, coach, err := bc.Ledger.CreateBooking(c.UserContext(), actor, req.Date, req.Slot)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Booking created", dto.FromModel(b).WithCoach(coach))
}

// GET /api/bookings/mybookings
func (bc *BookingController) Mine(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := bc.Ledger.ListBookings(c.UserContext(), actor)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Bookings fetched", dto.FromModelList(rows), nil)
}

// GET /api/bookings/:id
func (bc *BookingController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	b, err := bc.Ledger.GetBooking(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Booking fetched", dto.FromModel(b))
}

// PUT /api/bookings/:id/cancel
func (bc *BookingController) Cancel(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	b, err := bc.Ledger.CancelBooking(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Booking cancelled", dto.FromModel(b))
}

// POST /api/bookings/verify
func (bc *BookingController) Verify(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.VerifyBookingRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	b, err := bc.Ledger.VerifyBooking(c.UserContext(), actor, req.Identifier)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Booking verified", dto.FromModel(b))
}

// GET /api/bookings/stats?from=&to=
func (bc *BookingController) Stats(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	stats, err := bc.Ledger.GetStats(c.UserContext(), actor, c.Query("from"), c.Query("to"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Booking statistics", stats)
}

// GET /api/bookings/day?date=
func (bc *BookingController) Day(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := bc.Ledger.ListBookingsByDate(c.UserContext(), actor, c.Query("date"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Bookings fetched", dto.FromModelList(rows), nil)
}
