// file: internals/features/sesiones/sesiones/model/sesion_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stevennnncz/ProyectoDiseno/internals/helpers/dbtime"
)

/* =======================================================
   Estado de sesión (check constraint de sesiones.estado)
   ======================================================= */

type EstadoSesion string

const (
	EstadoProgramada EstadoSesion = "PROGRAMADA"
	EstadoEnCurso    EstadoSesion = "EN_CURSO"
	EstadoFinalizada EstadoSesion = "FINALIZADA"
	EstadoCancelada  EstadoSesion = "CANCELADA"
)

func (e EstadoSesion) Valid() bool {
	switch e {
	case EstadoProgramada, EstadoEnCurso, EstadoFinalizada, EstadoCancelada:
		return true
	}
	return false
}

/* =======================================================
   SesionModel: tabla sesiones
   ======================================================= */

type SesionModel struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	CodigoSesion string    `json:"codigo_sesion" gorm:"type:text;not null;column:codigo_sesion"`
	Tipo         string    `json:"tipo" gorm:"type:text;column:tipo"`

	Fecha   time.Time    `json:"fecha" gorm:"type:date;not null;column:fecha"`
	Hora    dbtime.Tod   `json:"hora" gorm:"type:time;not null;column:hora"`
	HoraFin *dbtime.Tod  `json:"hora_fin,omitempty" gorm:"type:time;column:hora_fin"`
	Estado  EstadoSesion `json:"estado" gorm:"type:text;not null;default:'PROGRAMADA';column:estado"`

	Modalidad string  `json:"modalidad" gorm:"type:text;column:modalidad"`
	Lugar     *string `json:"lugar,omitempty" gorm:"type:text;column:lugar"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`

	// relaciones (solo lectura, vía Preload)
	Agenda        *AgendaModel               `json:"agenda,omitempty" gorm:"foreignKey:SesionID"`
	Participantes []SesionParticipanteModel  `json:"participantes,omitempty" gorm:"foreignKey:SesionID"`
	Externos      []ParticipanteExternoModel `json:"externos,omitempty" gorm:"foreignKey:SesionID"`
}

func (SesionModel) TableName() string { return "sesiones" }

func (m *SesionModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* =======================================================
   Personas referenciables
   ======================================================= */

type UsuarioModel struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	Nombre string    `json:"nombre" gorm:"type:text;column:nombre"`
	Email  string    `json:"email" gorm:"type:text;column:email"`
	Rol    string    `json:"rol" gorm:"type:text;column:rol"`
}

func (UsuarioModel) TableName() string { return "usuarios" }

func (m *UsuarioModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type JuntaDirectivaMiembroModel struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	NombreCompleto string    `json:"nombre_completo" gorm:"type:text;column:nombre_completo"`
	Puesto         string    `json:"puesto" gorm:"type:text;column:puesto"`
	Correo         *string   `json:"correo,omitempty" gorm:"type:text;column:correo"`
}

func (JuntaDirectivaMiembroModel) TableName() string { return "junta_directiva_miembros" }

func (m *JuntaDirectivaMiembroModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* =======================================================
   Participantes
   ======================================================= */

// SesionParticipanteModel: usuario interno o miembro de junta convocado.
type SesionParticipanteModel struct {
	ID                      uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	SesionID                uuid.UUID  `json:"sesion_id" gorm:"type:uuid;not null;index;column:sesion_id"`
	UsuarioID               *uuid.UUID `json:"usuario_id,omitempty" gorm:"type:uuid;column:usuario_id"`
	JuntaDirectivaMiembroID *uuid.UUID `json:"junta_directiva_miembro_id,omitempty" gorm:"type:uuid;column:junta_directiva_miembro_id"`
	EstadoAsistencia        string     `json:"estado_asistencia" gorm:"type:text;not null;default:'PENDIENTE';column:estado_asistencia"`

	Usuario *UsuarioModel               `json:"usuarios,omitempty" gorm:"foreignKey:UsuarioID"`
	Miembro *JuntaDirectivaMiembroModel `json:"junta_directiva_miembros,omitempty" gorm:"foreignKey:JuntaDirectivaMiembroID"`
}

func (SesionParticipanteModel) TableName() string { return "sesiones_participantes" }

func (m *SesionParticipanteModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ParticipanteExternoModel struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	SesionID         uuid.UUID `json:"sesion_id" gorm:"type:uuid;not null;index;column:sesion_id"`
	Nombre           string    `json:"nombre" gorm:"type:text;not null;column:nombre"`
	Email            *string   `json:"email,omitempty" gorm:"type:text;column:email"`
	EstadoAsistencia string    `json:"estado_asistencia" gorm:"type:text;not null;default:'PENDIENTE';column:estado_asistencia"`
}

func (ParticipanteExternoModel) TableName() string { return "sesion_participantes_externos" }

func (m *ParticipanteExternoModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
