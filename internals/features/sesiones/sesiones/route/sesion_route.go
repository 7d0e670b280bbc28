package route

import (
	"github.com/gofiber/fiber/v2"

	sesionCtrl "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/controller"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/service"
)

func SesionRoutes(r fiber.Router, svc *service.Service) {
	ctl := sesionCtrl.NewSesionController(svc)
	r.Patch("/sesiones/:id/estado", ctl.UpdateEstado)
}
