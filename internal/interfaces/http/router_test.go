package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/sst-manager-api/internal/app"
	"github.com/jhoicas/sst-manager-api/internal/application/auth"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage/storagetest"
	apphttp "github.com/jhoicas/sst-manager-api/internal/interfaces/http"
	"github.com/jhoicas/sst-manager-api/pkg/config"
	"github.com/jhoicas/sst-manager-api/pkg/logger"
	"github.com/jhoicas/sst-manager-api/pkg/metrics"
)

type apiEnv struct {
	db  *gorm.DB
	app *fiber.App
}

// newAPI levanta la API completa sobre SQLite en memoria con los datos base.
func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	db := storagetest.NewDB(t)
	require.NoError(t, storage.Seed(context.Background(), db, config.SeedConfig{}, logger.Nop()))

	m := metrics.New("http_test")
	c := app.Build(db, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, logger.Nop(), m)
	return &apiEnv{db: db, app: apphttp.NewApp(apphttp.RouterDeps{
		AppName:    "sst-test",
		Dispatcher: c.Dispatcher,
		JWTSecret:  testJWTSecret,
		Metrics:    m,
		Log:        logger.Nop(),
	})}
}

// call ejecuta la petición y devuelve status y cuerpo decodificado.
func (e *apiEnv) call(t *testing.T, method, path string, body any, token string) (int, any) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (e *apiEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	status, out := e.call(t, http.MethodPost, "/api/login", map[string]any{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, status, "%v", out)
	return out.(map[string]any)["token"].(string)
}

func TestRouter_StatusHealthAndMetrics(t *testing.T) {
	e := newAPI(t)

	status, out := e.call(t, http.MethodGet, "/api/", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 200, out.(map[string]any)["status"])
	assert.Equal(t, apphttp.APIStatus, out.(map[string]any)["info"])

	status, _ = e.call(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "http_test_http_requests_total")
}

func TestRouter_UnknownResourceIs404(t *testing.T) {
	e := newAPI(t)
	status, out := e.call(t, http.MethodGet, "/api/no-existe", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", out.(map[string]any)["code"])
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	e := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))

	resp, err = e.app.Test(httptest.NewRequest(http.MethodGet, "/api/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRouter_LoginRoutes(t *testing.T) {
	e := newAPI(t)
	creds := map[string]any{"email": "admin@sst.com", "password": "123456"}

	for _, path := range []string{"/api/login", "/api/auth/login"} {
		status, out := e.call(t, http.MethodPost, path, creds, "")
		require.Equal(t, http.StatusOK, status, path)
		body := out.(map[string]any)
		assert.Equal(t, "success", body["status"])
		assert.NotEmpty(t, body["token"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "Master", user["seguridad"].(map[string]any)["rol_sistema"])
	}

	status, _ := e.call(t, http.MethodPost, "/api/login", map[string]any{"email": "admin@sst.com", "password": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = e.call(t, http.MethodGet, "/api/login", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestRouter_NumericActionIsIDAndBodyErrors(t *testing.T) {
	e := newAPI(t)

	status, out := e.call(t, http.MethodPost, "/api/formularios", map[string]any{"nombre": "Inspección", "tipo_norma": "Guía RUC"}, "")
	require.Equal(t, http.StatusCreated, status, "%v", out)
	id := int64(out.(map[string]any)["id"].(float64))

	status, out = e.call(t, http.MethodGet, fmt.Sprintf("/api/formularios/%d", id), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Inspección", out.(map[string]any)["nombre"])

	status, _ = e.call(t, http.MethodPut, fmt.Sprintf("/api/formularios/%d", id), map[string]any{"nombre": "Inspección general"}, "")
	assert.Equal(t, http.StatusOK, status)

	status, out = e.call(t, http.MethodPost, "/api/formularios", "{mal", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out.(map[string]any)["code"])

	status, _ = e.call(t, http.MethodGet, "/api/perfiles/permisos/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = e.call(t, http.MethodDelete, fmt.Sprintf("/api/formularios/%d", id), nil, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_PermissionMatrixRoutes(t *testing.T) {
	e := newAPI(t)
	profile := storagetest.Profile(t, e.db, "Supervisor", nil)
	var mods []int64
	require.NoError(t, e.db.Raw("SELECT id_modulo FROM modulos ORDER BY id_modulo").Scan(&mods).Error)
	require.Len(t, mods, 7)

	status, out := e.call(t, http.MethodPost, fmt.Sprintf("/api/perfiles/permisos/%d", profile), []any{
		map[string]any{"id_modulo": mods[0], "ver": 1, "editar": true},
		map[string]any{"id_modulo": mods[2], "ver": "1"},
	}, "")
	require.Equal(t, http.StatusOK, status, "%v", out)
	assert.EqualValues(t, 2, out.(map[string]any)["total"])

	status, out = e.call(t, http.MethodGet, fmt.Sprintf("/api/profiles/permissions/%d", profile), nil, "")
	require.Equal(t, http.StatusOK, status)
	rows := out.([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.EqualValues(t, mods[0], first["id_modulo"])
	assert.Equal(t, true, first["editar"])
	assert.Equal(t, false, first["eliminar"])

	status, out = e.call(t, http.MethodGet, fmt.Sprintf("/api/profiles/permissions/%d/check-all", profile), nil, "")
	require.Equal(t, http.StatusOK, status)
	expanded := out.(map[string]any)
	assert.EqualValues(t, profile, expanded["id_perfil"])
	assert.Len(t, expanded["modulos"], 7)

	status, _ = e.call(t, http.MethodDelete, fmt.Sprintf("/api/perfiles/permisos/%d", profile), nil, "")
	require.Equal(t, http.StatusOK, status)
	_, out = e.call(t, http.MethodGet, fmt.Sprintf("/api/perfiles/permisos/%d", profile), nil, "")
	assert.Empty(t, out)

	status, _ = e.call(t, http.MethodPost, "/api/planes/permisos/999", []any{}, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_TenantFromToken(t *testing.T) {
	e := newAPI(t)
	master := e.login(t, "admin@sst.com", "123456")

	var plan int64
	require.NoError(t, e.db.Raw("SELECT id_plan FROM planes WHERE nombre_plan = ?", "Básico").Scan(&plan).Error)
	adminProfile := storagetest.Profile(t, e.db, "Administrador", nil)

	status, out := e.call(t, http.MethodPost, "/api/empresas", map[string]any{
		"nombre_empresa": "Acme SAS", "numero_documento": "900123456-8", "id_plan": plan,
		"administrador": map[string]any{
			"nombre": "Laura", "email": "laura@acme.co", "numero_documento": "52000111",
			"password": "secreto", "id_perfil": adminProfile,
		},
	}, master)
	require.Equal(t, http.StatusCreated, status, "%v", out)
	assert.NotNil(t, out.(map[string]any)["id_administrador"])

	tenant := e.login(t, "laura@acme.co", "secreto")

	_, out = e.call(t, http.MethodGet, "/api/usuarios", nil, tenant)
	own := out.([]any)
	require.Len(t, own, 1)
	assert.Equal(t, "laura@acme.co", own[0].(map[string]any)["email"])
	assert.Equal(t, "Administrador", own[0].(map[string]any)["rol"])

	_, out = e.call(t, http.MethodGet, "/api/usuarios", nil, master)
	assert.Len(t, out.([]any), 2)

	status, _ = e.call(t, http.MethodGet, "/api/usuarios", nil, "no-es-un-token")
	assert.Equal(t, http.StatusUnauthorized, status)
}
