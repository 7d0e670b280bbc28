package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/helpers/dbtime"
)

var ErrSessionNotFound = errors.New("sesión no encontrada")

type Repository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repository { return &Repository{DB: db} }

func (r *Repository) FindSesion(ctx context.Context, id uuid.UUID) (*model.SesionModel, error) {
	var m model.SesionModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &m, nil
}

// UpdateEstado cambia el estado y, si se da, la hora de fin.
func (r *Repository) UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoSesion, horaFin *dbtime.Tod) error {
	updates := map[string]any{"estado": estado}
	if horaFin != nil {
		updates["hora_fin"] = *horaFin
	}
	res := r.DB.WithContext(ctx).Model(&model.SesionModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// LoadSessionRecord hidrata la sesión completa en una sola lectura.
func (r *Repository) LoadSessionRecord(ctx context.Context, id uuid.UUID) (builder.SessionRecord, error) {
	var m model.SesionModel
	err := r.DB.WithContext(ctx).
		Preload("Participantes.Usuario").
		Preload("Participantes.Miembro").
		Preload("Externos").
		Preload("Agenda.Puntos").
		Preload("Agenda.Puntos.Documentos").
		Preload("Agenda.Puntos.Responsables.Usuario").
		Preload("Agenda.Puntos.Responsables.Miembro").
		Preload("Agenda.Puntos.Responsables.Externo").
		Preload("Agenda.Puntos.Acuerdos.Responsables.Usuario").
		Preload("Agenda.Puntos.Acuerdos.Responsables.Miembro").
		Preload("Agenda.Puntos.Acuerdos.Responsables.Externo").
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return builder.SessionRecord{}, ErrSessionNotFound
		}
		return builder.SessionRecord{}, fmt.Errorf("cargar sesión %s: %w", id, err)
	}
	return ToRecord(m), nil
}

/* =======================================================
   Mapeo modelo → SessionRecord
   ======================================================= */

func ToRecord(m model.SesionModel) builder.SessionRecord {
	rec := builder.SessionRecord{
		ID:           m.ID.String(),
		CodigoSesion: m.CodigoSesion,
		Tipo:         m.Tipo,
		Modalidad:    m.Modalidad,
		Lugar:        deref(m.Lugar),
		Estado:       string(m.Estado),
	}
	if !m.Fecha.IsZero() {
		rec.Fecha = m.Fecha.Format("2006-01-02")
	}
	if !m.Hora.IsZero() {
		rec.Hora = m.Hora.String()
	}
	if m.HoraFin != nil && !m.HoraFin.IsZero() {
		rec.HoraFin = m.HoraFin.String()
	}

	for _, p := range m.Participantes {
		rec.Participantes = append(rec.Participantes, builder.Participant{
			Party:            builder.Party{Usuario: toUsuario(p.Usuario), Miembro: toMiembro(p.Miembro)},
			EstadoAsistencia: p.EstadoAsistencia,
		})
	}
	for i := range m.Externos {
		e := m.Externos[i]
		rec.Participantes = append(rec.Participantes, builder.Participant{
			Party:            builder.Party{Externo: toExterno(&e)},
			EstadoAsistencia: e.EstadoAsistencia,
		})
	}

	if m.Agenda != nil {
		rec.Agenda = &builder.Agenda{ID: m.Agenda.ID.String()}
		puntos := append([]model.PuntoAgendaModel(nil), m.Agenda.Puntos...)
		sort.SliceStable(puntos, func(i, j int) bool { return puntos[i].Orden < puntos[j].Orden })
		for _, p := range puntos {
			rec.Agenda.PuntosAgenda = append(rec.Agenda.PuntosAgenda, toItem(p))
		}
	}
	return rec
}

func toItem(p model.PuntoAgendaModel) builder.AgendaItem {
	it := builder.AgendaItem{
		ID:                p.ID.String(),
		Orden:             p.Orden,
		Titulo:            p.Titulo,
		Descripcion:       deref(p.Descripcion),
		Categoria:         p.Categoria,
		TiempoEstimado:    p.TiempoEstimado,
		RequiereVotacion:  p.RequiereVotacion,
		EstadoVotacion:    deref(p.EstadoVotacion),
		VotosAFavor:       p.VotosAFavor,
		VotosEnContra:     p.VotosEnContra,
		VotosAbstenciones: p.VotosAbstenciones,
		Anotaciones:       deref(p.Anotaciones),
	}
	for _, d := range p.Documentos {
		it.Documentos = append(it.Documentos, builder.Documento{Nombre: d.Nombre, URL: d.URL, Tipo: d.Tipo})
	}
	for _, r := range p.Responsables {
		it.Responsables = append(it.Responsables, builder.Party{
			Usuario: toUsuario(r.Usuario),
			Miembro: toMiembro(r.Miembro),
			Externo: toExterno(r.Externo),
		})
	}
	for _, a := range p.Acuerdos {
		ag := builder.Agreement{ID: a.ID.String(), Descripcion: a.Descripcion, Estado: a.Estado}
		if a.FechaLimite != nil {
			ag.FechaLimite = a.FechaLimite.Format("2006-01-02")
		}
		for _, r := range a.Responsables {
			ag.Responsables = append(ag.Responsables, builder.Party{
				Usuario: toUsuario(r.Usuario),
				Miembro: toMiembro(r.Miembro),
				Externo: toExterno(r.Externo),
			})
		}
		it.Acuerdos = append(it.Acuerdos, ag)
	}
	return it
}

func toUsuario(u *model.UsuarioModel) *builder.InternalUser {
	if u == nil {
		return nil
	}
	return &builder.InternalUser{ID: u.ID.String(), Nombre: u.Nombre, Email: u.Email, Rol: u.Rol}
}

func toMiembro(m *model.JuntaDirectivaMiembroModel) *builder.BoardMember {
	if m == nil {
		return nil
	}
	return &builder.BoardMember{ID: m.ID.String(), NombreCompleto: m.NombreCompleto, Puesto: m.Puesto, Correo: deref(m.Correo)}
}

func toExterno(e *model.ParticipanteExternoModel) *builder.ExternalParticipant {
	if e == nil {
		return nil
	}
	return &builder.ExternalParticipant{ID: e.ID.String(), Nombre: e.Nombre, Email: deref(e.Email)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
