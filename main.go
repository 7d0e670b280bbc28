package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"github.com/Stevennnncz/ProyectoDiseno/internals/configs"
	database "github.com/Stevennnncz/ProyectoDiseno/internals/databases"
	actaModel "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/helpers/dbtime"
	ossHelper "github.com/Stevennnncz/ProyectoDiseno/internals/helpers/oss"
	middlewares "github.com/Stevennnncz/ProyectoDiseno/internals/middlewares"
	routes "github.com/Stevennnncz/ProyectoDiseno/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON rápido
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		BodyLimit:               8 * 1024 * 1024, // export de sesión para /api/actas/render
	})

	// ⚙️ middleware base + rendimiento
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	// render + subida del PDF
	app.Use(middlewares.RequestID(time.Duration(configs.GetEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second))
	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	models := append(model.All(), &actaModel.ActaModel{})
	database.ConnectDB(models...)
	database.TunePool()
	if configs.GetEnvBool("DB_AUTO_MIGRATE", false) {
		if err := database.DB.AutoMigrate(&actaModel.ActaModel{}); err != nil {
			log.Fatalf("❌ migrar actas: %v", err)
		}
	}
	database.WarmUpQueries()

	// ☁️ OSS: sin credenciales el servicio arranca, pero no archiva actas
	deps := routes.Deps{DB: database.DB, Loc: dbtime.LoadLocation(configs.ActaTimezone)}
	oss, err := ossHelper.NewOSSServiceFromEnv(configs.ActaStoragePrefix)
	if err != nil {
		log.Printf("[OSS] deshabilitado: %v", err)
	} else {
		deps.Storage = oss
	}

	// ⏱ reaper después de DB
	reaper := ossHelper.StartTrashReaperCron(database.DB, oss)

	// ✅ Routes
	routes.SetupRoutes(app, deps)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 60 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", configs.AppPort)
		if err := app.Listen("0.0.0.0:" + configs.AppPort); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + cierre del pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	select {
	case <-reaper.Stop().Done():
	case <-ctx.Done():
	}
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
