package seeds

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Stevennnncz/ProyectoDiseno/internals/seeds/sesiones"
)

const DefaultSesionesFile = "internals/seeds/sesiones/data_sesiones.json"

func RunAllSeeds(db *gorm.DB, sesionesFile string) error {
	if sesionesFile == "" {
		sesionesFile = DefaultSesionesFile
	}

	//* Sesiones
	n, err := sesiones.SeedSesionesFromJSON(db, sesionesFile)
	if err != nil {
		return fmt.Errorf("seed sesiones: %w", err)
	}
	log.Printf("✅ Seed sesiones: %d creadas", n)
	return nil
}
