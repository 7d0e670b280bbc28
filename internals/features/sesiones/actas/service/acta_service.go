// file: internals/features/sesiones/actas/service/acta_service.go
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/render"
	helper "github.com/Stevennnncz/ProyectoDiseno/internals/helpers"
	"github.com/Stevennnncz/ProyectoDiseno/internals/metrics"
)

var (
	ErrBuildFailed        = errors.New("no se pudo generar el acta")
	ErrStorageUnavailable = errors.New("almacenamiento de actas no disponible")
	ErrActaNotFound       = errors.New("la sesión no tiene acta vigente")
)

// SessionLoader entrega la sesión hidratada (repository.Repository).
type SessionLoader interface {
	LoadSessionRecord(ctx context.Context, id uuid.UUID) (builder.SessionRecord, error)
}

// Storage es el subconjunto de OSSService que usa el service.
type Storage interface {
	ObjectKey(dir, name, ext string, now time.Time) string
	UploadStream(ctx context.Context, key string, r io.Reader, contentType string, inline bool, cacheForever bool) error
	DeleteObject(ctx context.Context, key string) error
	PublicURL(key string) string
	MoveToSpam(ctx context.Context, key string) (string, error)
}

type GenerateRequest struct {
	Formatos []string
	// HoraFin reemplaza la hora de fin cargada (finalización en curso).
	HoraFin string
}

type Service struct {
	DB       *gorm.DB
	Sessions SessionLoader
	Storage  Storage // nil → Generate responde ErrStorageUnavailable
	Builder  *builder.Builder
}

func New(db *gorm.DB, sessions SessionLoader, storage Storage, b *builder.Builder) *Service {
	if b == nil {
		b = builder.New()
	}
	return &Service{DB: db, Sessions: sessions, Storage: storage, Builder: b}
}

/* =======================================================
   Build / render
   ======================================================= */

func (s *Service) build(rec builder.SessionRecord) (builder.Document, error) {
	start := time.Now()
	doc, err := s.Builder.Build(rec)
	metrics.BuildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return builder.Document{}, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	for _, w := range doc.Warnings {
		log.Printf("[ACTA] warn sesion=%s campo=%s valor=%q: %s", rec.CodigoSesion, w.Field, w.Raw, w.Message)
	}
	metrics.BuildWarnings.Add(float64(len(doc.Warnings)))
	return doc, nil
}

// NormalizeFormats valida y deduplica; vacío → pdf + html.
func NormalizeFormats(in []string) ([]render.Renderer, error) {
	if len(in) == 0 {
		in = render.Formats()
	}
	seen := map[string]bool{}
	var out []render.Renderer
	for _, f := range in {
		r, err := render.ForFormat(f)
		if err != nil {
			return nil, err
		}
		if seen[r.Extension()] {
			continue
		}
		seen[r.Extension()] = true
		out = append(out, r)
	}
	return out, nil
}

// Preview arma el acta en HTML sin archivarla.
func (s *Service) Preview(ctx context.Context, sesionID uuid.UUID) ([]byte, error) {
	rec, err := s.Sessions.LoadSessionRecord(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	doc, err := s.build(rec)
	if err != nil {
		return nil, err
	}
	return render.Bytes(render.HTMLRenderer{}, doc)
}

// RenderRecord renderiza una sesión recibida por fuera de la base.
func (s *Service) RenderRecord(rec builder.SessionRecord, formato string) ([]byte, render.Renderer, error) {
	r, err := render.ForFormat(formato)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.build(rec)
	if err != nil {
		return nil, nil, err
	}
	b, err := render.Bytes(r, doc)
	if err != nil {
		metrics.ActasGenerated.WithLabelValues(r.Extension(), metrics.ResultadoError).Inc()
		return nil, nil, err
	}
	metrics.ActasGenerated.WithLabelValues(r.Extension(), metrics.ResultadoOK).Inc()
	return b, r, nil
}

/* =======================================================
   Generate: load → build → render+upload → persist
   ======================================================= */

type artifact struct {
	format string
	key    string
	url    string
}

func (s *Service) Generate(ctx context.Context, sesionID uuid.UUID, req GenerateRequest) (*model.ActaModel, error) {
	renderers, err := NormalizeFormats(req.Formatos)
	if err != nil {
		return nil, err
	}
	if s.Storage == nil {
		return nil, ErrStorageUnavailable
	}

	rec, err := s.Sessions.LoadSessionRecord(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	if req.HoraFin != "" {
		rec.HoraFin = req.HoraFin
	}
	doc, err := s.build(rec)
	if err != nil {
		return nil, err
	}

	arts, err := s.upload(ctx, sesionID, rec.CodigoSesion, doc, renderers)
	if err != nil {
		return nil, err
	}

	acta, superseded, err := s.persist(ctx, sesionID, doc, arts)
	if err != nil {
		s.discard(arts)
		return nil, err
	}

	for _, old := range superseded {
		for _, key := range old.ObjectKeys() {
			if dst, err := s.Storage.MoveToSpam(ctx, key); err != nil {
				log.Printf("[ACTA] mover a spam %s: %v", key, err)
			} else if dst != "" {
				log.Printf("[ACTA] %s → %s", key, dst)
			}
		}
	}

	log.Printf("[ACTA] generada sesion=%s acta=%s formatos=%d warnings=%d", rec.CodigoSesion, acta.ID, len(arts), len(doc.Warnings))
	return acta, nil
}

// upload renderiza y sube cada formato en paralelo. Si uno falla, borra los
// ya subidos.
func (s *Service) upload(ctx context.Context, sesionID uuid.UUID, codigo string, doc builder.Document, renderers []render.Renderer) ([]artifact, error) {
	arts := make([]artifact, len(renderers))
	var (
		mu       sync.Mutex
		uploaded []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range renderers {
		g.Go(func() error {
			b, err := render.Bytes(r, doc)
			if err != nil {
				metrics.ActasGenerated.WithLabelValues(r.Extension(), metrics.ResultadoError).Inc()
				return fmt.Errorf("render %s: %w", r.Extension(), err)
			}
			key := s.Storage.ObjectKey(sesionID.String(), "acta-"+codigo, r.Extension(), doc.GeneratedAt)
			if err := s.Storage.UploadStream(gctx, key, bytes.NewReader(b), r.ContentType(), true, true); err != nil {
				metrics.ActasGenerated.WithLabelValues(r.Extension(), metrics.ResultadoError).Inc()
				return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
			}
			mu.Lock()
			uploaded = append(uploaded, key)
			mu.Unlock()
			metrics.ActasGenerated.WithLabelValues(r.Extension(), metrics.ResultadoOK).Inc()
			arts[i] = artifact{format: r.Extension(), key: key, url: s.Storage.PublicURL(key)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, key := range uploaded {
			if derr := s.Storage.DeleteObject(context.Background(), key); derr != nil {
				log.Printf("[ACTA] rollback delete %s: %v", key, derr)
			}
		}
		return nil, err
	}
	return arts, nil
}

func (s *Service) discard(arts []artifact) {
	for _, a := range arts {
		if err := s.Storage.DeleteObject(context.Background(), a.key); err != nil {
			log.Printf("[ACTA] rollback delete %s: %v", a.key, err)
		}
	}
}

// persist marca las actas vigentes como reemplazadas (soft-delete, el reaper
// las purga) e inserta la nueva en una sola transacción.
func (s *Service) persist(ctx context.Context, sesionID uuid.UUID, doc builder.Document, arts []artifact) (*model.ActaModel, []model.ActaModel, error) {
	warnings, err := sonic.Marshal(doc.Warnings)
	if err != nil {
		return nil, nil, err
	}
	acta := model.ActaModel{
		SesionID:        sesionID,
		FechaGeneracion: doc.GeneratedAt,
		IsCurrent:       true,
	}
	if len(doc.Warnings) > 0 {
		acta.Warnings = datatypes.JSON(warnings)
	}
	for _, a := range arts {
		key, url := a.key, a.url
		switch a.format {
		case render.FormatPDF:
			acta.URL = url
			acta.PDFObjectKey = &key
		case render.FormatHTML:
			acta.HTMLURL = &url
			acta.HTMLObjectKey = &key
		}
	}
	// sin PDF, la columna url apunta al HTML
	if acta.URL == "" && acta.HTMLURL != nil {
		acta.URL = *acta.HTMLURL
	}

	var superseded []model.ActaModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("sesion_id = ? AND is_current = ?", sesionID, true)
		if tx.Dialector.Name() == "postgres" {
			// serializa generaciones concurrentes; si no hay fila vigente,
			// ux_actas_sesion_current rechaza la segunda inserción
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Find(&superseded).Error; err != nil {
			return helper.MapDBError(err, "leer actas vigentes")
		}
		if len(superseded) > 0 {
			ids := make([]uuid.UUID, 0, len(superseded))
			for _, m := range superseded {
				ids = append(ids, m.ID)
			}
			if err := tx.Model(&model.ActaModel{}).Where("id IN ?", ids).
				Updates(map[string]any{"is_current": false, "deleted_at": time.Now()}).Error; err != nil {
				return helper.MapDBError(err, "reemplazar actas vigentes")
			}
		}
		if err := tx.Create(&acta).Error; err != nil {
			return helper.MapDBError(err, "guardar acta")
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &acta, superseded, nil
}

/* =======================================================
   List / Current
   ======================================================= */

// Current devuelve el acta vigente de la sesión.
func (s *Service) Current(ctx context.Context, sesionID uuid.UUID) (*model.ActaModel, error) {
	var acta model.ActaModel
	err := s.DB.WithContext(ctx).
		Where("sesion_id = ? AND is_current = ?", sesionID, true).
		First(&acta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acta, nil
}

type ListQuery struct {
	Offset, Limit int
	// IncludeSuperseded incluye actas reemplazadas aún no purgadas.
	IncludeSuperseded bool
}

// List devuelve las actas de la sesión, más recientes primero.
func (s *Service) List(ctx context.Context, sesionID uuid.UUID, q ListQuery) ([]model.ActaModel, int64, error) {
	db := s.DB.WithContext(ctx).Model(&model.ActaModel{})
	if q.IncludeSuperseded {
		db = db.Unscoped()
	}
	base := db.Where("sesion_id = ?", sesionID).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.ActaModel
	page := base
	if q.Limit > 0 {
		page = page.Offset(q.Offset).Limit(q.Limit)
	}
	if err := page.Order("fecha_generacion DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
