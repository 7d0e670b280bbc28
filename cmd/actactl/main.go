package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actactl",
		Short: "Herramientas de línea de comandos para actas de sesión",
		Long: `Renderiza actas a partir de un export JSON de la sesión, sin base de datos
ni almacenamiento, y carga sesiones de ejemplo para desarrollo.

Ejemplos:
  actactl render --input sesion.json --formato pdf --out acta.pdf
  actactl render --input sesion.json --formato html --now 2024-01-15T17:45:00Z
  actactl seed --file internals/seeds/sesiones/data_sesiones.json`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newRenderCmd(), newSeedCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
