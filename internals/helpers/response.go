package helper

import (
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FieldErrors agrupa errores de validator.v10 por campo (nombre json).
func FieldErrors(err error) map[string][]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], fe.Tag())
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}

// ValidationError responde 422 con el detalle por campo; si err no es de
// validator responde 400.
func ValidationError(c *fiber.Ctx, err error) error {
	fields := FieldErrors(err)
	if fields == nil {
		return JsonError(c, fiber.StatusBadRequest, "Entrada inválida")
	}
	return JsonValidationError(c, fields)
}
