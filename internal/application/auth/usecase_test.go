package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jhoicas/sst-manager-api/internal/application/auth"
	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage/storagetest"
	"github.com/jhoicas/sst-manager-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *gorm.DB) {
	t.Helper()
	db := storagetest.NewDB(t)
	uc := auth.NewAuthUseCase(storage.NewUserRepository(db), storage.NewCompanyRepository(db),
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "sst-test"})
	return uc, db
}

func addUser(t *testing.T, db *gorm.DB, email, password, role string, company, profile *int64, status int) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	storagetest.Exec(t, db, `INSERT INTO usuarios (nombre, apellido, email, numero_documento, password, rol, id_empresa, id_perfil, estado)
		VALUES ('Ana', 'Ruiz', ?, ?, ?, ?, ?, ?, ?)`, email, email, string(hash), role, company, profile, status)
}

func TestLogin_Success(t *testing.T) {
	uc, db := newAuth(t)
	plan := storagetest.Plan(t, db, "Básico", 5)
	acme := storagetest.Company(t, db, "Acme SAS", "900123456", plan)
	profile := storagetest.Profile(t, db, "Operador", &acme)
	addUser(t, db, "ana@acme.co", "secreto", "Usuario", &acme, &profile, 1)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "  ANA@acme.co ", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, "success", out.Status)
	assert.Equal(t, "Autenticación exitosa", out.Mensaje)
	assert.Equal(t, "Ana Ruiz", out.User.DatosPersonales.NombreCompleto)
	assert.Equal(t, "Operador", out.User.Seguridad.Perfil.Nombre)
	assert.Equal(t, "Acme SAS", out.User.Organizacion.NombreEmpresa)
	assert.True(t, out.User.EstadoCuenta.Activo)

	id, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, id.UserID)
	require.NotNil(t, id.CompanyID)
	assert.Equal(t, acme, *id.CompanyID)
	assert.Equal(t, profile, id.ProfileID)
	assert.Equal(t, "Usuario", id.Role)
}

func TestLogin_GlobalUserHasNoCompany(t *testing.T) {
	uc, db := newAuth(t)
	addUser(t, db, "root@sst.com", "secreto", "Master", nil, nil, 1)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "root@sst.com", Password: "secreto"})
	require.NoError(t, err)
	assert.Nil(t, out.User.Organizacion.IDEmpresa)

	id, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Nil(t, id.CompanyID)
}

func TestLogin_Rejections(t *testing.T) {
	uc, db := newAuth(t)
	plan := storagetest.Plan(t, db, "Básico", 5)
	acme := storagetest.Company(t, db, "Acme SAS", "900123456", plan)
	closed := storagetest.Company(t, db, "Cerrada", "800197268", plan)
	storagetest.Exec(t, db, "UPDATE empresas SET estado = 0 WHERE id_empresa = ?", closed)
	addUser(t, db, "ana@acme.co", "secreto", "Usuario", &acme, nil, 1)
	addUser(t, db, "baja@acme.co", "secreto", "Usuario", &acme, nil, 0)
	addUser(t, db, "luis@cerrada.co", "secreto", "Usuario", &closed, nil, 1)

	ctx := context.Background()
	cases := []struct {
		name string
		in   dto.LoginRequest
		err  error
	}{
		{"vacío", dto.LoginRequest{}, domain.ErrInvalidInput},
		{"sin password", dto.LoginRequest{Email: "ana@acme.co"}, domain.ErrInvalidInput},
		{"desconocido", dto.LoginRequest{Email: "nadie@acme.co", Password: "secreto"}, domain.ErrUnauthorized},
		{"password errado", dto.LoginRequest{Email: "ana@acme.co", Password: "otro"}, domain.ErrUnauthorized},
		{"inactivo", dto.LoginRequest{Email: "baja@acme.co", Password: "secreto"}, domain.ErrForbidden},
		{"empresa inactiva", dto.LoginRequest{Email: "luis@cerrada.co", Password: "secreto"}, domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Login(ctx, tc.in)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	uc, db := newAuth(t)
	addUser(t, db, "root@sst.com", "secreto", "Master", nil, nil, 1)
	h := auth.NewLoginHandler(uc)
	ctx := context.Background()

	res := h.Handle(ctx, &dispatch.Request{Verb: dispatch.MethodPost,
		Body: map[string]any{"email": "root@sst.com", "password": "secreto"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Payload.(*dto.LoginResponse).Token)

	res = h.Handle(ctx, &dispatch.Request{Verb: dispatch.MethodPost,
		Body: map[string]any{"email": "root@sst.com", "password": "x"}})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = h.Handle(ctx, &dispatch.Request{Verb: dispatch.MethodGet})
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
