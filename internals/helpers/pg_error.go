package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PgCode extrae el SQLSTATE de errores pgx (gorm/postgres) o lib/pq.
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// MapDBError: 23505 → 409, 23503/23514 → 400, otro → 500.
// Devuelve *fiber.Error para que el controller responda con FromFiberError.
func MapDBError(err error, msg string) *fiber.Error {
	if err == nil {
		return nil
	}
	switch PgCode(err) {
	case "23505":
		return fiber.NewError(fiber.StatusConflict, "Registro duplicado: "+msg)
	case "23503":
		return fiber.NewError(fiber.StatusBadRequest, "Referencia inválida: "+msg)
	case "23514":
		return fiber.NewError(fiber.StatusBadRequest, "Restricción violada: "+msg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}
