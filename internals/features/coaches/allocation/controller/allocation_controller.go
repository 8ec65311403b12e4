package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"poolbooking_backend/internals/features/coaches/allocation/dto"
	"poolbooking_backend/internals/features/coaches/allocation/service"
	helper "poolbooking_backend/internals/helpers"
)

type AllocationController struct {
	Ledger *service.Ledger
}

func NewAllocationController(ledger *service.Ledger) *AllocationController {
	return &AllocationController{Ledger: ledger}
}

// GET /api/coach-allocations?from=&to=
func (ctl *AllocationController) List(c *fiber.Ctx) error {
	rows, err := ctl.Ledger.ListAllocations(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Coach allocations fetched", dto.FromModelList(rows), nil)
}

// GET /api/coach-allocations/:date
// An unassigned day answers 200 with null data.
func (ctl *AllocationController) Get(c *fiber.Ctx) error {
	row, err := ctl.Ledger.GetAllocation(c.UserContext(), c.Params("date"))
	if err != nil {
		return helper.FromError(c, err)
	}
	if row == nil {
		return helper.JsonOK(c, "No coach assigned for this date", nil)
	}
	return helper.JsonOK(c, "Coach allocation fetched", dto.FromModel(row))
}

// POST /api/coach-allocations
func (ctl *AllocationController) Assign(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignCoachRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	row, err := ctl.Ledger.AssignCoach(c.UserContext(), actor, req.Date, uuid.MustParse(req.CoachID))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Coach assigned", dto.FromModel(row))
}

// POST /api/coach-allocations/recurring
func (ctl *AllocationController) AssignRecurring(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignRecurringRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := ctl.Ledger.AssignCoachRecurring(c.UserContext(), actor, req.RRule, req.StartDate, uuid.MustParse(req.CoachID))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Recurring assignment processed", res)
}

// DELETE /api/coach-allocations/:date
func (ctl *AllocationController) Remove(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	removed, err := ctl.Ledger.RemoveAllocation(c.UserContext(), actor, c.Params("date"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Coach allocation removed", fiber.Map{
		"date":    c.Params("date"),
		"removed": removed,
	})
}
