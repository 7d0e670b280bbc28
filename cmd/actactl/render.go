package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/render"
	"github.com/Stevennnncz/ProyectoDiseno/internals/helpers/dbtime"
)

type RenderConfig struct {
	Input    string
	Formato  string
	Out      string
	Now      string
	Timezone string
}

func newRenderCmd() *cobra.Command {
	cfg := &RenderConfig{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Renderiza un acta desde un export JSON",
		Long: `Lee un SessionRecord en JSON (--input, "-" para stdin) y escribe el acta en
el formato pedido. Sin --out escribe a stdout. Las advertencias de formato
se escriben a stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&cfg.Input, "input", "-", "Archivo JSON de la sesión")
	cmd.Flags().StringVar(&cfg.Formato, "formato", render.FormatPDF, "Formato: pdf | html")
	cmd.Flags().StringVar(&cfg.Out, "out", "", "Archivo de salida")
	cmd.Flags().StringVar(&cfg.Now, "now", "", "Fecha de generación fija (RFC3339)")
	cmd.Flags().StringVar(&cfg.Timezone, "tz", dbtime.DefaultTimezone, "Zona horaria del pie de página")

	return cmd
}

func runRender(cfg *RenderConfig, stdin io.Reader, stdout, stderr io.Writer) error {
	r, err := render.ForFormat(cfg.Formato)
	if err != nil {
		return err
	}

	raw, err := readInput(cfg.Input, stdin)
	if err != nil {
		return err
	}
	var rec builder.SessionRecord
	if err := sonic.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("leer sesión: %w", err)
	}

	opts := []builder.Option{builder.WithLocation(dbtime.LoadLocation(cfg.Timezone))}
	if strings.TrimSpace(cfg.Now) != "" {
		now, err := time.Parse(time.RFC3339, cfg.Now)
		if err != nil {
			return fmt.Errorf("--now: %w", err)
		}
		opts = append(opts, builder.WithClock(func() time.Time { return now }))
	}

	doc, err := builder.New(opts...).Build(rec)
	if err != nil {
		return err
	}
	for _, w := range doc.Warnings {
		fmt.Fprintf(stderr, "advertencia: %s=%q: %s\n", w.Field, w.Raw, w.Message)
	}

	out := stdout
	if cfg.Out != "" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return r.Render(out, doc)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
