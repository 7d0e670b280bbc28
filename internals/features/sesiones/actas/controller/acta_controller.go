// file: internals/features/sesiones/actas/controller/acta_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
	dto "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/dto"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/render"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/service"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/repository"
	helper "github.com/Stevennnncz/ProyectoDiseno/internals/helpers"
)

const msgBuildFailed = "No se pudo generar el acta"

var validate = validator.New()

type ActaController struct {
	Svc *service.Service
}

func NewActaController(svc *service.Service) *ActaController {
	return &ActaController{Svc: svc}
}

func parseSesionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID de sesión inválido")
	}
	return id, nil
}

// ServiceError traduce los errores del service de actas a HTTP.
func ServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Sesión no encontrada")
	case errors.Is(err, service.ErrActaNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "La sesión no tiene acta vigente")
	case errors.Is(err, service.ErrBuildFailed):
		log.Printf("[ACTA] build: %v", err)
		return helper.JsonValidationErrorMsg(c, msgBuildFailed, missingFields(err))
	case errors.Is(err, render.ErrUnknownFormat):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		log.Printf("[ACTA] storage: %v", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Almacenamiento de actas no disponible")
	}
	log.Printf("[ACTA] error: %v", err)
	return helper.FromFiberError(c, err)
}

// missingFields expone el detalle de ErrInvalidSession como errores por campo.
func missingFields(err error) map[string][]string {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return nil
	}
	out := map[string][]string{}
	for _, e := range merr.Errors {
		if field, tag, ok := strings.Cut(e.Error(), ": "); ok {
			out[field] = append(out[field], tag)
		}
	}
	return out
}

// =========================================================
// GENERATE - POST /api/sesiones/:id/actas
// Body: {"formatos":["pdf","html"]} (opcional)
// =========================================================
func (h *ActaController) Generate(c *fiber.Ctx) error {
	id, err := parseSesionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.GenerateActaRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
		}
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	acta, err := h.Svc.Generate(c.UserContext(), id, service.GenerateRequest{Formatos: req.Formatos})
	if err != nil {
		return ServiceError(c, err)
	}
	return helper.JsonCreated(c, "Acta generada", dto.ToActaResponse(acta))
}

// =========================================================
// LIST - GET /api/sesiones/:id/actas?page=&per_page=&all=true
// =========================================================
func (h *ActaController) List(c *fiber.Ctx) error {
	id, err := parseSesionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)

	rows, total, err := h.Svc.List(c.UserContext(), id, service.ListQuery{
		Offset:            p.Offset,
		Limit:             p.Limit,
		IncludeSuperseded: c.QueryBool("all", false),
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo listar las actas")
	}
	return helper.JsonList(c, "ok", dto.ToActaResponses(rows), helper.BuildPagination(total, p, len(rows)))
}

// =========================================================
// CURRENT - GET /api/sesiones/:id/actas/current
// =========================================================
func (h *ActaController) Current(c *fiber.Ctx) error {
	id, err := parseSesionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	acta, err := h.Svc.Current(c.UserContext(), id)
	if err != nil {
		return ServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToActaResponse(acta))
}

// =========================================================
// PREVIEW - GET /api/sesiones/:id/actas/preview (text/html)
// =========================================================
func (h *ActaController) Preview(c *fiber.Ctx) error {
	id, err := parseSesionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	b, err := h.Svc.Preview(c.UserContext(), id)
	if err != nil {
		return ServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, render.HTMLRenderer{}.ContentType())
	return c.Status(fiber.StatusOK).Send(b)
}

// =========================================================
// RENDER - POST /api/actas/render?formato=html|pdf
// Body: SessionRecord JSON (export offline)
// =========================================================
func (h *ActaController) Render(c *fiber.Ctx) error {
	var rec builder.SessionRecord
	if err := c.BodyParser(&rec); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	formato := c.Query("formato", render.FormatPDF)

	b, r, err := h.Svc.RenderRecord(rec, formato)
	if err != nil {
		return ServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, r.ContentType())
	c.Set(fiber.HeaderContentDisposition, `inline; filename="acta-`+helper.Slugify(rec.CodigoSesion, 60)+`.`+r.Extension()+`"`)
	return c.Status(fiber.StatusOK).Send(b)
}
