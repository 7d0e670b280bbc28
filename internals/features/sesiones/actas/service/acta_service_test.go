package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	database "github.com/Stevennnncz/ProyectoDiseno/internals/databases"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/render"
)

var fixedNow = time.Date(2024, 1, 15, 17, 45, 0, 0, time.UTC)

/* ============ fakes ============ */

type fakeLoader struct {
	rec builder.SessionRecord
	err error
}

func (f fakeLoader) LoadSessionRecord(context.Context, uuid.UUID) (builder.SessionRecord, error) {
	return f.rec, f.err
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	spam    []string
	failExt string
	seq     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) ObjectKey(dir, name, ext string, now time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("actas/%s/%s_%s_%d.%s", dir, name, now.Format("20060102_150405"), f.seq, ext)
}

func (f *fakeStorage) UploadStream(_ context.Context, key string, r io.Reader, contentType string, _, _ bool) error {
	if f.failExt != "" && strings.HasSuffix(key, "."+f.failExt) {
		return errors.New("oss caído")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = b
	f.types[key] = contentType
	return nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string { return "https://cdn.test/" + key }

func (f *fakeStorage) MoveToSpam(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.spam = append(f.spam, key)
	return "spam/" + key, nil
}

/* ============ fixtures ============ */

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", &model.ActaModel{})
	require.NoError(t, err)
	return db
}

func sampleRecord() builder.SessionRecord {
	ana := &builder.BoardMember{NombreCompleto: "Ana Ruiz", Puesto: "Secretaria"}
	return builder.SessionRecord{
		CodigoSesion: "ORD-20240115-0007",
		Tipo:         builder.TipoOrdinaria,
		Fecha:        "2024-01-15",
		Hora:         "09:00:00",
		Modalidad:    builder.ModalidadPresencial,
		Lugar:        "Sala de juntas",
		Estado:       builder.EstadoEnCurso,
		Participantes: []builder.Participant{
			{Party: builder.Party{Miembro: ana}, EstadoAsistencia: builder.AsistenciaPresente},
		},
		Agenda: &builder.Agenda{PuntosAgenda: []builder.AgendaItem{
			{Orden: 1, Titulo: "Aprobación de presupuesto", Categoria: builder.CategoriaAprobacion},
		}},
	}
}

func newService(t *testing.T, rec builder.SessionRecord, st Storage) (*Service, *gorm.DB) {
	t.Helper()
	db := openDB(t)
	b := builder.New(builder.WithClock(func() time.Time { return fixedNow }), builder.WithLocation(time.UTC))
	return New(db, fakeLoader{rec: rec}, st, b), db
}

/* ============ tests ============ */

func TestNormalizeFormats(t *testing.T) {
	rs, err := NormalizeFormats(nil)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, render.FormatPDF, rs[0].Extension())
	assert.Equal(t, render.FormatHTML, rs[1].Extension())

	rs, err = NormalizeFormats([]string{"HTML", "html", " pdf "})
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, render.FormatHTML, rs[0].Extension())

	_, err = NormalizeFormats([]string{"docx"})
	assert.True(t, errors.Is(err, render.ErrUnknownFormat))
}

func TestGenerate_StoresBothFormats(t *testing.T) {
	st := newFakeStorage()
	svc, db := newService(t, sampleRecord(), st)
	id := uuid.New()

	acta, err := svc.Generate(context.Background(), id, GenerateRequest{})
	require.NoError(t, err)

	assert.Equal(t, id, acta.SesionID)
	assert.True(t, acta.IsCurrent)
	assert.True(t, acta.FechaGeneracion.Equal(fixedNow))
	require.NotNil(t, acta.PDFObjectKey)
	require.NotNil(t, acta.HTMLObjectKey)
	assert.Equal(t, "https://cdn.test/"+*acta.PDFObjectKey, acta.URL)
	assert.Len(t, st.objects, 2)
	assert.True(t, bytes.HasPrefix(st.objects[*acta.PDFObjectKey], []byte("%PDF")))
	assert.Contains(t, string(st.objects[*acta.HTMLObjectKey]), "ACTA DE SESIÓN ORD-20240115-0007")
	assert.Equal(t, "application/pdf", st.types[*acta.PDFObjectKey])

	var n int64
	require.NoError(t, db.Model(&model.ActaModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestGenerate_SupersedesPrevious(t *testing.T) {
	st := newFakeStorage()
	svc, _ := newService(t, sampleRecord(), st)
	id := uuid.New()
	ctx := context.Background()

	first, err := svc.Generate(ctx, id, GenerateRequest{Formatos: []string{"html"}})
	require.NoError(t, err)
	second, err := svc.Generate(ctx, id, GenerateRequest{Formatos: []string{"html"}})
	require.NoError(t, err)

	assert.Equal(t, []string{*first.HTMLObjectKey}, st.spam)
	assert.Len(t, st.objects, 1)
	// sin PDF la url apunta al HTML
	assert.Equal(t, *second.HTMLURL, second.URL)

	live, total, err := svc.List(ctx, id, ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, live, 1)
	assert.Equal(t, second.ID, live[0].ID)
	assert.True(t, live[0].IsCurrent)

	all, total, err := svc.List(ctx, id, ListQuery{IncludeSuperseded: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, all, 2)
	var old model.ActaModel
	for _, a := range all {
		if a.ID == first.ID {
			old = a
		}
	}
	assert.False(t, old.IsCurrent)
	assert.True(t, old.DeletedAt.Valid)
}

func TestGenerate_HoraFinOverride(t *testing.T) {
	st := newFakeStorage()
	svc, _ := newService(t, sampleRecord(), st)

	acta, err := svc.Generate(context.Background(), uuid.New(), GenerateRequest{Formatos: []string{"html"}, HoraFin: "11:30:00"})
	require.NoError(t, err)
	assert.Contains(t, string(st.objects[*acta.HTMLObjectKey]), "09:00 - 11:30")
}

func TestGenerate_BuildFailureStoresNothing(t *testing.T) {
	rec := sampleRecord()
	rec.CodigoSesion = ""
	st := newFakeStorage()
	svc, db := newService(t, rec, st)

	_, err := svc.Generate(context.Background(), uuid.New(), GenerateRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBuildFailed))
	assert.True(t, errors.Is(err, builder.ErrInvalidSession))
	assert.Empty(t, st.objects)

	var n int64
	require.NoError(t, db.Model(&model.ActaModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGenerate_UploadFailureRollsBack(t *testing.T) {
	st := newFakeStorage()
	st.failExt = render.FormatPDF
	svc, db := newService(t, sampleRecord(), st)

	_, err := svc.Generate(context.Background(), uuid.New(), GenerateRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.Empty(t, st.objects)

	var n int64
	require.NoError(t, db.Model(&model.ActaModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGenerate_NoStorage(t *testing.T) {
	svc, _ := newService(t, sampleRecord(), nil)
	_, err := svc.Generate(context.Background(), uuid.New(), GenerateRequest{})
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}

func TestGenerate_LoaderError(t *testing.T) {
	notFound := errors.New("sesión no encontrada")
	svc := New(openDB(t), fakeLoader{err: notFound}, newFakeStorage(), nil)
	_, err := svc.Generate(context.Background(), uuid.New(), GenerateRequest{})
	assert.True(t, errors.Is(err, notFound))
}

func TestPreview(t *testing.T) {
	st := newFakeStorage()
	svc, _ := newService(t, sampleRecord(), st)

	b, err := svc.Preview(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Contains(t, string(b), "<!DOCTYPE html>")
	assert.Contains(t, string(b), "Ana Ruiz (Secretaria)")
	assert.Empty(t, st.objects)
}

func TestRenderRecord(t *testing.T) {
	svc, _ := newService(t, builder.SessionRecord{}, nil)

	b, r, err := svc.RenderRecord(sampleRecord(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", r.ContentType())
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))

	_, _, err = svc.RenderRecord(sampleRecord(), "odt")
	assert.True(t, errors.Is(err, render.ErrUnknownFormat))

	_, _, err = svc.RenderRecord(builder.SessionRecord{}, "html")
	assert.True(t, errors.Is(err, ErrBuildFailed))
}

func TestList_Pagination(t *testing.T) {
	st := newFakeStorage()
	svc, db := newService(t, sampleRecord(), st)
	id := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&model.ActaModel{
			SesionID:        id,
			URL:             fmt.Sprintf("https://cdn.test/%d", i),
			FechaGeneracion: fixedNow.Add(time.Duration(i) * time.Hour),
			IsCurrent:       i == 2,
		}).Error)
	}

	rows, total, err := svc.List(context.Background(), id, ListQuery{Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "https://cdn.test/2", rows[0].URL)
	assert.Equal(t, "https://cdn.test/1", rows[1].URL)
}

func TestCurrent(t *testing.T) {
	st := newFakeStorage()
	svc, _ := newService(t, sampleRecord(), st)
	id := uuid.New()
	ctx := context.Background()

	_, err := svc.Current(ctx, id)
	assert.True(t, errors.Is(err, ErrActaNotFound))

	_, err = svc.Generate(ctx, id, GenerateRequest{Formatos: []string{"html"}})
	require.NoError(t, err)
	second, err := svc.Generate(ctx, id, GenerateRequest{Formatos: []string{"html"}})
	require.NoError(t, err)

	cur, err := svc.Current(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, second.ID, cur.ID)
}

func TestOneCurrentActaPerSesion(t *testing.T) {
	db := openDB(t)
	id := uuid.New()
	row := func(current bool) *model.ActaModel {
		return &model.ActaModel{SesionID: id, URL: "https://cdn.test/x", FechaGeneracion: fixedNow, IsCurrent: current}
	}

	require.NoError(t, db.Create(row(true)).Error)
	require.NoError(t, db.Create(row(false)).Error)
	require.NoError(t, db.Create(row(false)).Error)
	assert.Error(t, db.Create(row(true)).Error, "segunda acta vigente para la misma sesión")

	// otra sesión no choca
	require.NoError(t, db.Create(&model.ActaModel{SesionID: uuid.New(), FechaGeneracion: fixedNow, IsCurrent: true}).Error)
}
