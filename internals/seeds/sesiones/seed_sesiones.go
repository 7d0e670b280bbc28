package sesiones

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/helpers/dbtime"
)

// SeedSesionesFromJSON carga un arreglo de sesiones exportadas (mismo JSON que
// consume el builder). Las sesiones cuyo codigo_sesion ya existe se saltan.
func SeedSesionesFromJSON(db *gorm.DB, filePath string) (int, error) {
	log.Println("📥 Leyendo archivo:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("leer JSON: %w", err)
	}
	var recs []builder.SessionRecord
	if err := sonic.Unmarshal(file, &recs); err != nil {
		return 0, fmt.Errorf("decodificar JSON: %w", err)
	}
	return SeedSesiones(db, recs)
}

func SeedSesiones(db *gorm.DB, recs []builder.SessionRecord) (int, error) {
	created := 0
	for _, rec := range recs {
		var existing model.SesionModel
		err := db.Where("codigo_sesion = ?", rec.CodigoSesion).First(&existing).Error
		if err == nil {
			log.Printf("ℹ️ Sesión %s ya existe, se omite", rec.CodigoSesion)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			return (&seeder{tx: tx}).sesion(rec)
		}); err != nil {
			return created, fmt.Errorf("sesión %s: %w", rec.CodigoSesion, err)
		}
		created++
		log.Printf("✅ Sesión %s creada", rec.CodigoSesion)
	}
	return created, nil
}

type seeder struct {
	tx       *gorm.DB
	sesionID uuid.UUID
	externos map[string]uuid.UUID // nombre → id, por sesión
}

func (s *seeder) sesion(rec builder.SessionRecord) error {
	fecha, err := dbtime.ParseDate(rec.Fecha)
	if err != nil {
		return fmt.Errorf("fecha: %w", err)
	}
	hora, err := dbtime.Parse(rec.Hora)
	if err != nil {
		return fmt.Errorf("hora: %w", err)
	}
	m := model.SesionModel{
		CodigoSesion: rec.CodigoSesion,
		Tipo:         rec.Tipo,
		Fecha:        fecha,
		Hora:         hora,
		Estado:       model.EstadoSesion(rec.Estado),
		Modalidad:    rec.Modalidad,
		Lugar:        optional(rec.Lugar),
	}
	if !m.Estado.Valid() {
		m.Estado = model.EstadoProgramada
	}
	if strings.TrimSpace(rec.HoraFin) != "" {
		fin, err := dbtime.Parse(rec.HoraFin)
		if err != nil {
			return fmt.Errorf("hora_fin: %w", err)
		}
		m.HoraFin = &fin
	}
	if err := s.tx.Create(&m).Error; err != nil {
		return err
	}
	s.sesionID = m.ID
	s.externos = map[string]uuid.UUID{}

	for _, p := range rec.Participantes {
		if err := s.participante(p); err != nil {
			return err
		}
	}
	if rec.Agenda == nil {
		return nil
	}

	agenda := model.AgendaModel{SesionID: m.ID}
	if err := s.tx.Create(&agenda).Error; err != nil {
		return err
	}
	for _, it := range rec.Agenda.PuntosAgenda {
		if err := s.punto(agenda.ID, it); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) participante(p builder.Participant) error {
	estado := p.EstadoAsistencia
	if estado == "" {
		estado = builder.AsistenciaPendiente
	}
	if p.Externo != nil {
		id, err := s.externo(p.Externo, estado)
		if err != nil {
			return err
		}
		s.externos[p.Externo.Nombre] = id
		return nil
	}
	refs, err := s.refs(p.Party)
	if err != nil {
		return err
	}
	return s.tx.Create(&model.SesionParticipanteModel{
		SesionID:                s.sesionID,
		UsuarioID:               refs.usuario,
		JuntaDirectivaMiembroID: refs.miembro,
		EstadoAsistencia:        estado,
	}).Error
}

func (s *seeder) punto(agendaID uuid.UUID, it builder.AgendaItem) error {
	p := model.PuntoAgendaModel{
		AgendaID:          agendaID,
		Orden:             it.Orden,
		Titulo:            it.Titulo,
		Descripcion:       optional(it.Descripcion),
		TiempoEstimado:    it.TiempoEstimado,
		Categoria:         it.Categoria,
		Anotaciones:       optional(it.Anotaciones),
		RequiereVotacion:  it.RequiereVotacion,
		EstadoVotacion:    optional(it.EstadoVotacion),
		VotosAFavor:       it.VotosAFavor,
		VotosEnContra:     it.VotosEnContra,
		VotosAbstenciones: it.VotosAbstenciones,
	}
	if err := s.tx.Create(&p).Error; err != nil {
		return err
	}
	for _, d := range it.Documentos {
		if err := s.tx.Create(&model.DocumentoModel{PuntoID: p.ID, Nombre: d.Nombre, URL: d.URL, Tipo: d.Tipo}).Error; err != nil {
			return err
		}
	}
	for _, r := range it.Responsables {
		refs, err := s.refs(r)
		if err != nil {
			return err
		}
		if err := s.tx.Create(&model.PuntoResponsableModel{
			PuntoID:                 p.ID,
			UsuarioID:               refs.usuario,
			JuntaDirectivaMiembroID: refs.miembro,
			ExternalParticipantID:   refs.externo,
		}).Error; err != nil {
			return err
		}
	}
	for _, ac := range it.Acuerdos {
		if err := s.acuerdo(p.ID, ac); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) acuerdo(puntoID uuid.UUID, ac builder.Agreement) error {
	a := model.AcuerdoModel{PuntoID: puntoID, Descripcion: ac.Descripcion, Estado: ac.Estado}
	if a.Estado == "" {
		a.Estado = builder.AcuerdoPendiente
	}
	if strings.TrimSpace(ac.FechaLimite) != "" {
		t, err := dbtime.ParseDate(ac.FechaLimite)
		if err != nil {
			return fmt.Errorf("fecha_limite: %w", err)
		}
		a.FechaLimite = &t
	}
	if err := s.tx.Create(&a).Error; err != nil {
		return err
	}
	for _, r := range ac.Responsables {
		refs, err := s.refs(r)
		if err != nil {
			return err
		}
		if err := s.tx.Create(&model.AcuerdoResponsableModel{
			AcuerdoID:               a.ID,
			UsuarioID:               refs.usuario,
			JuntaDirectivaMiembroID: refs.miembro,
			ExternalParticipantID:   refs.externo,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

/* ===================== personas ===================== */

type partyRefs struct {
	usuario, miembro, externo *uuid.UUID
}

// refs resuelve (o crea) la persona de una Party. Solo se guarda una forma,
// en el mismo orden en que se resuelven los responsables.
func (s *seeder) refs(p builder.Party) (partyRefs, error) {
	switch {
	case p.Usuario != nil && strings.TrimSpace(p.Usuario.Nombre) != "":
		u := model.UsuarioModel{Nombre: p.Usuario.Nombre, Email: p.Usuario.Email, Rol: p.Usuario.Rol}
		if err := s.tx.Where(model.UsuarioModel{Nombre: u.Nombre, Email: u.Email}).FirstOrCreate(&u).Error; err != nil {
			return partyRefs{}, err
		}
		return partyRefs{usuario: &u.ID}, nil
	case p.Miembro != nil && strings.TrimSpace(p.Miembro.NombreCompleto) != "":
		m := model.JuntaDirectivaMiembroModel{NombreCompleto: p.Miembro.NombreCompleto, Puesto: p.Miembro.Puesto, Correo: optional(p.Miembro.Correo)}
		if err := s.tx.Where(model.JuntaDirectivaMiembroModel{NombreCompleto: m.NombreCompleto}).FirstOrCreate(&m).Error; err != nil {
			return partyRefs{}, err
		}
		return partyRefs{miembro: &m.ID}, nil
	case p.Externo != nil && strings.TrimSpace(p.Externo.Nombre) != "":
		if id, ok := s.externos[p.Externo.Nombre]; ok {
			return partyRefs{externo: &id}, nil
		}
		id, err := s.externo(p.Externo, builder.AsistenciaPendiente)
		if err != nil {
			return partyRefs{}, err
		}
		s.externos[p.Externo.Nombre] = id
		return partyRefs{externo: &id}, nil
	}
	return partyRefs{}, nil
}

func (s *seeder) externo(e *builder.ExternalParticipant, estado string) (uuid.UUID, error) {
	m := model.ParticipanteExternoModel{
		SesionID:         s.sesionID,
		Nombre:           e.Nombre,
		Email:            optional(e.Email),
		EstadoAsistencia: estado,
	}
	if err := s.tx.Create(&m).Error; err != nil {
		return uuid.Nil, err
	}
	return m.ID, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
