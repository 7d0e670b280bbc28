// file: internals/features/sesiones/sesiones/controller/sesion_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	actaCtrl "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/controller"
	dto "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/dto"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/service"
	helper "github.com/Stevennnncz/ProyectoDiseno/internals/helpers"
)

var validate = validator.New()

type SesionController struct {
	Svc *service.Service
}

func NewSesionController(svc *service.Service) *SesionController {
	return &SesionController{Svc: svc}
}

// =========================================================
// ESTADO - PATCH /api/sesiones/:id/estado
// Body: {"estado":"FINALIZADA"}
// =========================================================
func (h *SesionController) UpdateEstado(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID de sesión inválido")
	}

	var req dto.UpdateEstadoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := h.Svc.Transition(c.UserContext(), id, model.EstadoSesion(req.Estado))
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		}
		// la generación del acta falló o la sesión no existe
		return actaCtrl.ServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Estado actualizado", dto.ToEstadoResponse(res))
}
