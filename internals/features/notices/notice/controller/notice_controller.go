package controller

import (
	"github.com/gofiber/fiber/v2"

	"poolbooking_backend/internals/features/notices/notice/dto"
	"poolbooking_backend/internals/features/notices/notice/service"
	helper "poolbooking_backend/internals/helpers"
)

type NoticeController struct {
	Board *service.Board
}

func NewNoticeController(board *service.Board) *NoticeController {
	return &NoticeController{Board: board}
}

// GET /api/notices?language=
func (nc *NoticeController) List(c *fiber.Ctx) error {
	rows, err := nc.Board.ListActive(c.UserContext(), c.Query("language"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Notices fetched", dto.FromModelList(rows), nil)
}

// POST /api/notices
func (nc *NoticeController) Publish(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.PublishNoticeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	n, err := nc.Board.Publish(c.UserContext(), actor, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Notice published", dto.FromModel(n))
}

// PUT /api/notices/:id/deactivate
func (nc *NoticeController) Deactivate(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	n, err := nc.Board.Deactivate(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Notice deactivated", dto.FromModel(n))
}

// PUT /api/notices/:id/reactivate
func (nc *NoticeController) Reactivate(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	n, err := nc.Board.Reactivate(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Notice reactivated", dto.FromModel(n))
}
