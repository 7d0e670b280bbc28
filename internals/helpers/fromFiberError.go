package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError convierte el error de un service (normalmente *fiber.Error)
// en la respuesta JSON estándar. Otro error → 500 con su mensaje.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}
