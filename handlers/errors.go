package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"tennis-tournament-api/services"
)

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindReference, services.KindMissingActor:
		return fiber.StatusBadRequest
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindUnauthorized, services.KindInvalidCode:
		return fiber.StatusUnauthorized
	case services.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError renders a service error as {"error": message}. Storage errors
// are logged with their cause and answered with a generic message.
func writeError(c *fiber.Ctx, err error) error {
	var se *services.Error
	if !errors.As(err, &se) || se.Kind == services.KindStorage {
		log.Printf("❌ [API] %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(statusFor(se.Kind)).JSON(fiber.Map{"error": se.Message})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ErrorHandler is fiber's fallback for errors no handler rendered itself,
// including recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	var se *services.Error
	if errors.As(err, &se) {
		return writeError(c, err)
	}
	log.Printf("❌ [API] unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
