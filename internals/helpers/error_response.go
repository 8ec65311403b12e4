package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"poolbooking_backend/internals/apperrors"
)

// FromError renders any error returned by a service. Taxonomy errors keep
// their message; *fiber.Error keeps its code; everything else is logged and
// surfaced as a generic 500.
func FromError(c *fiber.Ctx, err error) error {
	var ae *apperrors.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperrors.KindInternal {
			logInternal(c, err)
		}
		return jsonErrorWithCode(c, ae.Kind.Status(), ae.Kind.String(), ae.Message, ae.Fields)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	logInternal(c, err)
	return JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
}

func logInternal(c *fiber.Ctx, err error) {
	reqID, _ := c.Locals(LocRequestID).(string)
	zap.L().Error("request failed",
		zap.String("request_id", reqID),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
}

// ErrorHandler is installed as fiber's global error handler so errors
// returned by middleware share the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}
