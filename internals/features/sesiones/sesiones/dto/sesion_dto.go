package dto

import (
	"strings"

	"github.com/google/uuid"

	actaDTO "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/dto"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/service"
)

// UpdateEstadoRequest: PATCH /api/sesiones/:id/estado
type UpdateEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=PROGRAMADA EN_CURSO FINALIZADA CANCELADA"`
}

func (r *UpdateEstadoRequest) Normalize() {
	r.Estado = strings.ToUpper(strings.TrimSpace(r.Estado))
}

type SesionResponse struct {
	ID           uuid.UUID `json:"id"`
	CodigoSesion string    `json:"codigo_sesion"`
	Tipo         string    `json:"tipo"`
	Fecha        string    `json:"fecha"`
	Hora         string    `json:"hora"`
	HoraFin      *string   `json:"hora_fin,omitempty"`
	Estado       string    `json:"estado"`
	Modalidad    string    `json:"modalidad"`
	Lugar        *string   `json:"lugar,omitempty"`
}

type EstadoResponse struct {
	Sesion SesionResponse        `json:"sesion"`
	Acta   *actaDTO.ActaResponse `json:"acta,omitempty"`
}

func ToSesionResponse(m *model.SesionModel) SesionResponse {
	out := SesionResponse{
		ID:           m.ID,
		CodigoSesion: m.CodigoSesion,
		Tipo:         m.Tipo,
		Fecha:        m.Fecha.Format("2006-01-02"),
		Hora:         m.Hora.String(),
		Estado:       string(m.Estado),
		Modalidad:    m.Modalidad,
		Lugar:        m.Lugar,
	}
	if m.HoraFin != nil {
		s := m.HoraFin.String()
		out.HoraFin = &s
	}
	return out
}

func ToEstadoResponse(r *service.TransitionResult) EstadoResponse {
	out := EstadoResponse{Sesion: ToSesionResponse(r.Sesion)}
	if r.Acta != nil {
		a := actaDTO.ToActaResponse(r.Acta)
		out.Acta = &a
	}
	return out
}
