// Package render serializa el árbol del acta a un formato final.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
)

const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

var ErrUnknownFormat = errors.New("formato de acta no soportado")

// Renderer consume el documento ya armado; no decide contenido.
type Renderer interface {
	Render(w io.Writer, doc builder.Document) error
	ContentType() string
	Extension() string
}

// Formats lista los formatos soportados en orden de preferencia.
func Formats() []string { return []string{FormatPDF, FormatHTML} }

func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPDF:
		return PDFRenderer{}, nil
	case FormatHTML:
		return HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Bytes renderiza en memoria.
func Bytes(r Renderer, doc builder.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
