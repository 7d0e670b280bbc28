// file: internals/features/sesiones/actas/dto/acta_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/model"
)

/* =========================================================
   REQUEST
   ========================================================= */

// GenerateActaRequest: POST /api/sesiones/:id/actas
type GenerateActaRequest struct {
	Formatos []string `json:"formatos" validate:"omitempty,max=2,dive,oneof=pdf html PDF HTML"`
}

func (r *GenerateActaRequest) Normalize() {
	out := r.Formatos[:0]
	for _, f := range r.Formatos {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	r.Formatos = out
}

/* =========================================================
   RESPONSE
   ========================================================= */

type ActaResponse struct {
	ID              uuid.UUID         `json:"id"`
	SesionID        uuid.UUID         `json:"sesion_id"`
	URL             string            `json:"url"`
	HTMLURL         *string           `json:"html_url,omitempty"`
	FechaGeneracion time.Time         `json:"fecha_generacion"`
	IsCurrent       bool              `json:"is_current"`
	Warnings        []builder.Warning `json:"warnings,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	DeletedAt       *time.Time        `json:"deleted_at,omitempty"`
}

func ToActaResponse(m *model.ActaModel) ActaResponse {
	resp := ActaResponse{
		ID:              m.ID,
		SesionID:        m.SesionID,
		URL:             m.URL,
		HTMLURL:         m.HTMLURL,
		FechaGeneracion: m.FechaGeneracion,
		IsCurrent:       m.IsCurrent,
		CreatedAt:       m.CreatedAt,
	}
	if len(m.Warnings) > 0 {
		_ = sonic.Unmarshal(m.Warnings, &resp.Warnings)
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		resp.DeletedAt = &t
	}
	return resp
}

func ToActaResponses(rows []model.ActaModel) []ActaResponse {
	out := make([]ActaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToActaResponse(&rows[i]))
	}
	return out
}
