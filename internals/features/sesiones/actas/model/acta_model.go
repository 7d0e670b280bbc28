// file: internals/features/sesiones/actas/model/acta_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =======================================================
   ActaModel: tabla actas (puntero al archivo generado)
   ======================================================= */

type ActaModel struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	// ux_actas_sesion_current: a lo sumo un acta vigente por sesión
	SesionID uuid.UUID `json:"sesion_id" gorm:"type:uuid;not null;index:idx_actas_sesion_current,priority:1;uniqueIndex:ux_actas_sesion_current,where:is_current;column:sesion_id"`

	// URL pública del PDF (columna histórica) y, si se generó, del HTML
	URL     string  `json:"url" gorm:"type:text;column:url"`
	HTMLURL *string `json:"html_url,omitempty" gorm:"type:text;column:html_url"`

	PDFObjectKey  *string `json:"-" gorm:"type:text;column:pdf_object_key"`
	HTMLObjectKey *string `json:"-" gorm:"type:text;column:html_object_key"`

	FechaGeneracion time.Time      `json:"fecha_generacion" gorm:"not null;column:fecha_generacion"`
	Warnings        datatypes.JSON `json:"warnings,omitempty" gorm:"column:warnings"`
	IsCurrent       bool           `json:"is_current" gorm:"not null;index:idx_actas_sesion_current,priority:2;column:is_current"`

	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (ActaModel) TableName() string { return "actas" }

func (m *ActaModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ObjectKeys devuelve las claves OSS no vacías del acta.
func (m ActaModel) ObjectKeys() []string {
	var keys []string
	for _, k := range []*string{m.PDFObjectKey, m.HTMLObjectKey} {
		if k != nil && *k != "" {
			keys = append(keys, *k)
		}
	}
	return keys
}
