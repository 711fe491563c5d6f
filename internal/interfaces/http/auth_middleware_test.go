package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/sst-manager-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/sst-manager-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "sst-manager-test"
	testExpMin    = 60
)

// buildIdentifyApp aplicación mínima que devuelve la identidad leída por Identify.
func buildIdentifyApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.Identify(testJWTSecret), func(c *fiber.Ctx) error {
		id := apphttp.GetIdentity(c)
		if id == nil {
			return c.JSON(fiber.Map{"anonimo": true})
		}
		return c.JSON(fiber.Map{
			"id_usuario": id.UserID,
			"id_empresa": apphttp.GetCompanyID(c),
			"rol":        id.Role,
		})
	})
	return app
}

func bearer(t *testing.T, id pkgjwt.Identity, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, id, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestIdentify_SinToken_SigueAnonimo(t *testing.T) {
	resp := doGet(t, buildIdentifyApp(), "/me", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["anonimo"])
}

func TestIdentify_ExtraeIdentidad(t *testing.T) {
	empresa := int64(9)
	resp := doGet(t, buildIdentifyApp(), "/me",
		bearer(t, pkgjwt.Identity{UserID: 4, CompanyID: &empresa, Role: "Administrador"}, testExpMin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 4, body["id_usuario"])
	assert.EqualValues(t, 9, body["id_empresa"])
	assert.Equal(t, "Administrador", body["rol"])
}

func TestIdentify_RolGlobalSinEmpresa(t *testing.T) {
	resp := doGet(t, buildIdentifyApp(), "/me", bearer(t, pkgjwt.Identity{UserID: 1, Role: "Master"}, testExpMin))
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Nil(t, body["id_empresa"])
}

func TestIdentify_TokenInvalido_Retorna401(t *testing.T) {
	cases := map[string]string{
		"malformado": "Bearer token.invalido.aqui",
		"sin bearer": "Token abc",
		"vacío":      "Bearer   ",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp := doGet(t, buildIdentifyApp(), "/me", header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestIdentify_TokenExpirado_Retorna401(t *testing.T) {
	resp := doGet(t, buildIdentifyApp(), "/me", bearer(t, pkgjwt.Identity{UserID: 1, Role: "Master"}, -1))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestIdentify_SecretIncorrecto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", pkgjwt.Identity{UserID: 1}, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doGet(t, buildIdentifyApp(), "/me", "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
