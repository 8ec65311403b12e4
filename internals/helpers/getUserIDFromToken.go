package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/policy"
)

// Locals keys set by the auth middleware.
const (
	LocUserID    = "user_id"
	LocUserRole  = "userRole"
	LocUserName  = "user_name"
	LocRequestID = "reqid"
)

// GetUserIDFromToken reads c.Locals("user_id").
// 401 when not logged in, 400 when the value is malformed.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return uuid.Nil, apperrors.Unauthenticated("user is not logged in")
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, apperrors.Unauthenticated("user is not logged in")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, apperrors.Unauthenticated("user is not logged in")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, apperrors.Validation("user id in token is invalid")
		}
		return id, nil
	default:
		return uuid.Nil, apperrors.Validation("user id in token is invalid")
	}
}

// GetActor builds the policy actor from the auth locals.
func GetActor(c *fiber.Ctx) (policy.Actor, error) {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return policy.Actor{}, err
	}
	role, _ := c.Locals(LocUserRole).(string)
	return policy.Actor{ID: id, Role: role}, nil
}

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, apperrors.Validation("%s must be a valid UUID", name)
	}
	return id, nil
}
