// file: internals/features/sesiones/sesiones/service/sesion_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	actaModel "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/model"
	actaService "github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/service"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/helpers/dbtime"
)

var ErrInvalidTransition = errors.New("transición de estado no permitida")

// transitions: estado actual → destinos permitidos.
var transitions = map[model.EstadoSesion][]model.EstadoSesion{
	model.EstadoProgramada: {model.EstadoEnCurso, model.EstadoCancelada},
	model.EstadoEnCurso:    {model.EstadoFinalizada, model.EstadoCancelada},
}

func CanTransition(from, to model.EstadoSesion) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

type Store interface {
	FindSesion(ctx context.Context, id uuid.UUID) (*model.SesionModel, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoSesion, horaFin *dbtime.Tod) error
}

type ActaGenerator interface {
	Generate(ctx context.Context, sesionID uuid.UUID, req actaService.GenerateRequest) (*actaModel.ActaModel, error)
}

type Service struct {
	Store Store
	Actas ActaGenerator
	Loc   *time.Location
	Now   func() time.Time
}

func New(store Store, actas ActaGenerator, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{Store: store, Actas: actas, Loc: loc, Now: time.Now}
}

type TransitionResult struct {
	Sesion *model.SesionModel
	Acta   *actaModel.ActaModel // solo al finalizar
}

// Transition aplica el cambio de estado. FINALIZADA genera el acta primero;
// si falla, el estado no cambia.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to model.EstadoSesion) (*TransitionResult, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: estado %q desconocido", ErrInvalidTransition, to)
	}
	ses, err := s.Store.FindSesion(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(ses.Estado, to) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, ses.Estado, to)
	}

	res := &TransitionResult{}
	var horaFin *dbtime.Tod
	if to == model.EstadoFinalizada {
		fin := dbtime.From(dbtime.In(s.Now(), s.Loc))
		acta, err := s.Actas.Generate(ctx, id, actaService.GenerateRequest{HoraFin: fin.String()})
		if err != nil {
			log.Printf("[SESION] %s no finalizada: %v", ses.CodigoSesion, err)
			return nil, err
		}
		res.Acta = acta
		horaFin = &fin
	}

	if err := s.Store.UpdateEstado(ctx, id, to, horaFin); err != nil {
		// el acta ya quedó vigente; reintentar FINALIZADA la reemplaza
		if res.Acta != nil {
			log.Printf("[SESION] %s: acta %s generada pero estado sin actualizar: %v", ses.CodigoSesion, res.Acta.ID, err)
		}
		return nil, err
	}
	log.Printf("[SESION] %s: %s → %s", ses.CodigoSesion, ses.Estado, to)

	ses.Estado = to
	if horaFin != nil {
		ses.HoraFin = horaFin
	}
	res.Sesion = ses
	return res, nil
}
