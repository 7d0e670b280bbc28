// file: internals/routes/setup.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
	actaRoute "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/route"
	actaService "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/service"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/repository"
	sesionRoute "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/route"
	sesionService "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/service"
	"github.com/Stevennnncz/ProyectoDiseno/internals/middlewares"
)

var startTime time.Time

// Deps: Storage nil → las actas no se archivan (503), preview y render siguen.
type Deps struct {
	DB      *gorm.DB
	Storage actaService.Storage
	Loc     *time.Location
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, deps.DB)

	repo := repository.New(deps.DB)
	actas := actaService.New(deps.DB, repo, deps.Storage, builder.New(builder.WithLocation(deps.Loc)))
	sesiones := sesionService.New(repo, actas, deps.Loc)

	log.Println("[INFO] Mounting Actas routes...")
	api := app.Group("/api", middlewares.ActaRateLimiter())
	actaRoute.ActaRoutes(api, actas)
	sesionRoute.SesionRoutes(api, sesiones)
}
