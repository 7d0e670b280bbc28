package route

import (
	"github.com/gofiber/fiber/v2"

	actaCtrl "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/controller"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/service"
)

// ActaRoutes monta /sesiones/:id/actas y /actas/render bajo r (/api).
func ActaRoutes(r fiber.Router, svc *service.Service) {
	ctl := actaCtrl.NewActaController(svc)

	sg := r.Group("/sesiones/:id/actas")
	sg.Post("/", ctl.Generate)
	sg.Get("/", ctl.List)
	sg.Get("/current", ctl.Current)
	sg.Get("/preview", ctl.Preview)

	r.Post("/actas/render", ctl.Render) // sin persistencia
}
