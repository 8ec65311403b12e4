package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"poolbooking_backend/internals/features/users/user/dto"
	"poolbooking_backend/internals/features/users/user/model"
	"poolbooking_backend/internals/features/users/user/service"
	helper "poolbooking_backend/internals/helpers"
)

type UserController struct {
	Directory *service.Directory
}

func NewUserController(directory *service.Directory) *UserController {
	return &UserController{Directory: directory}
}

// GET /api/users?role=&page=&per_page=
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ParseFiber(c, helper.AdminOpts)
	role := strings.ToLower(strings.TrimSpace(c.Query("role")))

	rows, total, err := uc.Directory.List(c.UserContext(), actor, role, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "Users fetched", dto.FromModelList(rows), helper.BuildMeta(total, p))
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	u, err := uc.Directory.Get(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", dto.FromModel(u))
}

// POST /api/users
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	u, err := uc.Directory.AdminCreate(c.UserContext(), actor, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "User created", dto.FromModel(u))
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := uc.Directory.DeleteAccount(c.UserContext(), actor, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "User deleted", fiber.Map{"id": id})
}

// PUT /api/users/:id/deactivate
func (uc *UserController) DeactivateUser(c *fiber.Ctx) error {
	return uc.setActive(c, false)
}

// PUT /api/users/:id/reactivate
func (uc *UserController) ReactivateUser(c *fiber.Ctx) error {
	return uc.setActive(c, true)
}

func (uc *UserController) setActive(c *fiber.Ctx, active bool) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	var u *model.UserModel
	msg := "User reactivated"
	if active {
		u, err = uc.Directory.Reactivate(c.UserContext(), actor, id)
	} else {
		u, err = uc.Directory.Deactivate(c.UserContext(), actor, id)
		msg = "User deactivated"
	}
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, msg, dto.FromModel(u))
}

// PUT /api/users/me/coach-profile
func (uc *UserController) UpdateCoachProfile(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateCoachProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	u, err := uc.Directory.UpdateCoachProfile(c.UserContext(), actor, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Profile updated", dto.FromModel(u))
}
