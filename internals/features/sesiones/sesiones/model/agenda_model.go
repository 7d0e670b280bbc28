package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =======================================================
   Agenda y puntos
   ======================================================= */

type AgendaModel struct {
	ID       uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	SesionID uuid.UUID          `json:"sesion_id" gorm:"type:uuid;not null;uniqueIndex;column:sesion_id"`
	Puntos   []PuntoAgendaModel `json:"puntos_agenda,omitempty" gorm:"foreignKey:AgendaID"`
}

func (AgendaModel) TableName() string { return "agendas" }

func (m *AgendaModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type PuntoAgendaModel struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	AgendaID       uuid.UUID `json:"agenda_id" gorm:"type:uuid;not null;index;column:agenda_id"`
	Orden          int       `json:"orden" gorm:"type:int;not null;column:orden"`
	Titulo         string    `json:"titulo" gorm:"type:text;not null;column:titulo"`
	Descripcion    *string   `json:"descripcion,omitempty" gorm:"type:text;column:descripcion"`
	TiempoEstimado *int      `json:"tiempo_estimado,omitempty" gorm:"type:int;column:tiempo_estimado"`
	Categoria      string    `json:"categoria" gorm:"type:text;column:categoria"`
	Anotaciones    *string   `json:"anotaciones,omitempty" gorm:"type:text;column:anotaciones"`

	RequiereVotacion  bool    `json:"requiere_votacion" gorm:"not null;default:false;column:requiere_votacion"`
	EstadoVotacion    *string `json:"estado_votacion,omitempty" gorm:"type:text;column:estado_votacion"`
	VotosAFavor       int     `json:"votos_a_favor" gorm:"not null;default:0;column:votos_a_favor"`
	VotosEnContra     int     `json:"votos_en_contra" gorm:"not null;default:0;column:votos_en_contra"`
	VotosAbstenciones int     `json:"votos_abstenciones" gorm:"not null;default:0;column:votos_abstenciones"`

	Documentos   []DocumentoModel        `json:"documentos,omitempty" gorm:"foreignKey:PuntoID"`
	Responsables []PuntoResponsableModel `json:"punto_responsables,omitempty" gorm:"foreignKey:PuntoID"`
	Acuerdos     []AcuerdoModel          `json:"acuerdos,omitempty" gorm:"foreignKey:PuntoID"`
}

func (PuntoAgendaModel) TableName() string { return "puntos_agenda" }

func (m *PuntoAgendaModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type DocumentoModel struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	PuntoID uuid.UUID `json:"punto_id" gorm:"type:uuid;not null;index;column:punto_id"`
	Nombre  string    `json:"nombre" gorm:"type:text;column:nombre"`
	URL     string    `json:"url" gorm:"type:text;column:url"`
	Tipo    string    `json:"tipo" gorm:"type:text;column:tipo"`
}

func (DocumentoModel) TableName() string { return "documentos" }

func (m *DocumentoModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* =======================================================
   Acuerdos
   ======================================================= */

type AcuerdoModel struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	PuntoID     uuid.UUID  `json:"punto_id" gorm:"type:uuid;not null;index;column:punto_id"`
	Descripcion string     `json:"descripcion" gorm:"type:text;not null;column:descripcion"`
	FechaLimite *time.Time `json:"fecha_limite,omitempty" gorm:"type:date;column:fecha_limite"`
	Estado      string     `json:"estado" gorm:"type:text;not null;default:'PENDIENTE';column:estado"`

	Responsables []AcuerdoResponsableModel `json:"acuerdo_responsables,omitempty" gorm:"foreignKey:AcuerdoID"`
}

func (AcuerdoModel) TableName() string { return "acuerdos" }

func (m *AcuerdoModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* =======================================================
   Responsables (referencia a una de tres tablas)
   ======================================================= */

type PuntoResponsableModel struct {
	ID                      uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	PuntoID                 uuid.UUID  `json:"punto_id" gorm:"type:uuid;not null;index;column:punto_id"`
	UsuarioID               *uuid.UUID `json:"usuario_id,omitempty" gorm:"type:uuid;column:usuario_id"`
	JuntaDirectivaMiembroID *uuid.UUID `json:"junta_directiva_miembro_id,omitempty" gorm:"type:uuid;column:junta_directiva_miembro_id"`
	ExternalParticipantID   *uuid.UUID `json:"external_participant_id,omitempty" gorm:"type:uuid;column:external_participant_id"`

	Usuario *UsuarioModel               `json:"usuarios,omitempty" gorm:"foreignKey:UsuarioID"`
	Miembro *JuntaDirectivaMiembroModel `json:"junta_directiva_miembros,omitempty" gorm:"foreignKey:JuntaDirectivaMiembroID"`
	Externo *ParticipanteExternoModel   `json:"sesion_participantes_externos,omitempty" gorm:"foreignKey:ExternalParticipantID"`
}

func (PuntoResponsableModel) TableName() string { return "punto_responsables" }

func (m *PuntoResponsableModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type AcuerdoResponsableModel struct {
	ID                      uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	AcuerdoID               uuid.UUID  `json:"acuerdo_id" gorm:"type:uuid;not null;index;column:acuerdo_id"`
	UsuarioID               *uuid.UUID `json:"usuario_id,omitempty" gorm:"type:uuid;column:usuario_id"`
	JuntaDirectivaMiembroID *uuid.UUID `json:"junta_directiva_miembro_id,omitempty" gorm:"type:uuid;column:junta_directiva_miembro_id"`
	ExternalParticipantID   *uuid.UUID `json:"external_participant_id,omitempty" gorm:"type:uuid;column:external_participant_id"`

	Usuario *UsuarioModel               `json:"usuarios,omitempty" gorm:"foreignKey:UsuarioID"`
	Miembro *JuntaDirectivaMiembroModel `json:"junta_directiva_miembros,omitempty" gorm:"foreignKey:JuntaDirectivaMiembroID"`
	Externo *ParticipanteExternoModel   `json:"sesion_participantes_externos,omitempty" gorm:"foreignKey:ExternalParticipantID"`
}

func (AcuerdoResponsableModel) TableName() string { return "acuerdo_responsables" }

func (m *AcuerdoResponsableModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// All lista los modelos del agregado sesión, en orden de dependencia.
func All() []any {
	return []any{
		&UsuarioModel{},
		&JuntaDirectivaMiembroModel{},
		&SesionModel{},
		&ParticipanteExternoModel{},
		&SesionParticipanteModel{},
		&AgendaModel{},
		&PuntoAgendaModel{},
		&DocumentoModel{},
		&AcuerdoModel{},
		&PuntoResponsableModel{},
		&AcuerdoResponsableModel{},
	}
}
