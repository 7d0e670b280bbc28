package main

import (
	"github.com/spf13/cobra"

	"github.com/Stevennnncz/ProyectoDiseno/internals/configs"
	database "github.com/Stevennnncz/ProyectoDiseno/internals/databases"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/seeds"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga sesiones de ejemplo en la base configurada",
		Long: `Lee un arreglo de sesiones exportadas y las inserta con su agenda,
participantes y acuerdos. Usa la misma configuración de base que el servidor
(DB_DRIVER, DB_HOST, ...). Las sesiones con un codigo_sesion existente se omiten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs.LoadEnv()
			database.ConnectDB(model.All()...)
			return seeds.RunAllSeeds(database.DB, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", seeds.DefaultSesionesFile, "Archivo JSON con las sesiones")
	return cmd
}
