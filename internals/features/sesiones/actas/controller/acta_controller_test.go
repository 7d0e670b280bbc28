package controller_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "github.com/Stevennnncz/ProyectoDiseno/internals/databases"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/model"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/route"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/service"
	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/sesiones/repository"
)

type memStorage struct {
	mu      sync.Mutex
	objects map[string]int
}

func (m *memStorage) ObjectKey(dir, name, ext string, _ time.Time) string {
	return dir + "/" + name + "_" + uuid.NewString()[:8] + "." + ext
}

func (m *memStorage) UploadStream(_ context.Context, key string, r io.Reader, _ string, _, _ bool) error {
	b, _ := io.ReadAll(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = len(b)
	return nil
}

func (m *memStorage) DeleteObject(context.Context, string) error { return nil }
func (m *memStorage) PublicURL(key string) string                { return "https://cdn.test/" + key }
func (m *memStorage) MoveToSpam(_ context.Context, key string) (string, error) {
	return "spam/" + key, nil
}

type loader struct {
	known uuid.UUID
	rec   builder.SessionRecord
}

func (l loader) LoadSessionRecord(_ context.Context, id uuid.UUID) (builder.SessionRecord, error) {
	if id != l.known {
		return builder.SessionRecord{}, repository.ErrSessionNotFound
	}
	return l.rec, nil
}

func record() builder.SessionRecord {
	return builder.SessionRecord{
		CodigoSesion: "EXT-20240301-0002",
		Tipo:         builder.TipoExtraordinaria,
		Fecha:        "2024-03-01",
		Hora:         "14:00",
		Modalidad:    builder.ModalidadVirtual,
		Participantes: []builder.Participant{{
			Party:            builder.Party{Externo: &builder.ExternalParticipant{Nombre: "Carla Soto", Email: "carla@aud.cr"}},
			EstadoAsistencia: builder.AsistenciaPresente,
		}},
	}
}

func newApp(t *testing.T, rec builder.SessionRecord) (*fiber.App, uuid.UUID) {
	t.Helper()
	db, err := database.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", &model.ActaModel{})
	require.NoError(t, err)

	id := uuid.New()
	b := builder.New(builder.WithLocation(time.UTC))
	svc := service.New(db, loader{known: id, rec: rec}, &memStorage{objects: map[string]int{}}, b)

	app := fiber.New(fiber.Config{JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	route.ActaRoutes(app.Group("/api"), svc)
	return app, id
}

func do(t *testing.T, app *fiber.App, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(raw, &out))
	} else {
		out = map[string]any{"raw": string(raw)}
	}
	return resp, out
}

func TestGenerateAndList(t *testing.T) {
	app, id := newApp(t, record())

	resp, body := do(t, app, http.MethodPost, "/api/sesiones/"+id.String()+"/actas", `{"formatos":["html"]}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, id.String(), data["sesion_id"])
	assert.Equal(t, true, data["is_current"])
	assert.Contains(t, data["url"], "https://cdn.test/")

	resp, body = do(t, app, http.MethodGet, "/api/sesiones/"+id.String()+"/actas", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)
	pag := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pag["total"])
}

func TestCurrent(t *testing.T) {
	app, id := newApp(t, record())

	resp, body := do(t, app, http.MethodGet, "/api/sesiones/"+id.String()+"/actas/current", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["error_code"])

	resp, body = do(t, app, http.MethodPost, "/api/sesiones/"+id.String()+"/actas", `{"formatos":["html"]}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := body["data"].(map[string]any)

	resp, body = do(t, app, http.MethodGet, "/api/sesiones/"+id.String()+"/actas/current", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, created["id"], body["data"].(map[string]any)["id"])
}

func TestGenerate_DefaultFormatsWithoutBody(t *testing.T) {
	app, id := newApp(t, record())
	resp, body := do(t, app, http.MethodPost, "/api/sesiones/"+id.String()+"/actas", "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["html_url"])
	assert.True(t, strings.HasSuffix(data["url"].(string), ".pdf"))
}

func TestGenerate_Errors(t *testing.T) {
	app, id := newApp(t, record())

	resp, _ := do(t, app, http.MethodPost, "/api/sesiones/no-uuid/actas", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, app, http.MethodPost, "/api/sesiones/"+uuid.NewString()+"/actas", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["error_code"])

	resp, _ = do(t, app, http.MethodPost, "/api/sesiones/"+id.String()+"/actas", `{"formatos":["docx"]}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGenerate_IncompleteSession(t *testing.T) {
	rec := record()
	rec.Fecha = ""
	rec.Hora = "  "
	app, id := newApp(t, rec)

	resp, body := do(t, app, http.MethodPost, "/api/sesiones/"+id.String()+"/actas", "")
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "No se pudo generar el acta", body["message"])
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "fecha")
	assert.Contains(t, errs, "hora")

	_, body = do(t, app, http.MethodGet, "/api/sesiones/"+id.String()+"/actas", "")
	assert.Len(t, body["data"], 0)
}

func TestPreview(t *testing.T) {
	app, id := newApp(t, record())
	resp, body := do(t, app, http.MethodGet, "/api/sesiones/"+id.String()+"/actas/preview", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body["raw"], "Carla Soto (carla@aud.cr)")
}

func TestRender(t *testing.T) {
	app, _ := newApp(t, builder.SessionRecord{})
	payload, err := sonic.Marshal(record())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/actas/render?formato=pdf", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `acta-ext-20240301-0002.pdf`)
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp, _ = do(t, app, http.MethodPost, "/api/actas/render?formato=odt", string(payload))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
