package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage/storagetest"
)

type tenantFixture struct {
	plan, acme, other, global, acmeProfile, otherProfile int64
}

func newTenants(t *testing.T, e *env, limit int) tenantFixture {
	t.Helper()
	var f tenantFixture
	f.plan = storagetest.Plan(t, e.db, "Básico", limit)
	f.acme = storagetest.Company(t, e.db, "Acme", "900123456", f.plan)
	f.other = storagetest.Company(t, e.db, "Otra", "800197268", f.plan)
	f.global = storagetest.Profile(t, e.db, "Master", nil)
	f.acmeProfile = storagetest.Profile(t, e.db, "Operador", &f.acme)
	f.otherProfile = storagetest.Profile(t, e.db, "Operador", &f.other)
	return f
}

func userBody(email, doc, role string, company, profile int64) map[string]any {
	b := map[string]any{
		"nombre": "Ana", "apellido": "Ruiz", "email": email, "numero_documento": doc,
		"password": "secreto", "rol": role, "id_perfil": profile,
	}
	if company > 0 {
		b["id_empresa"] = company
	}
	return b
}

func TestUsers_RoleTenantInvariant(t *testing.T) {
	e := newEnv(t)
	f := newTenants(t, e, 0)

	res := e.do("usuarios", dispatch.MethodPost, 0, userBody("m@sst.com", "1", entity.RoleMaster, f.acme, f.global))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "Master con empresa")

	res = e.do("usuarios", dispatch.MethodPost, 0, userBody("u@acme.co", "2", entity.RoleUser, 0, f.acmeProfile))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "Usuario sin empresa")

	res = e.do("usuarios", dispatch.MethodPost, 0, userBody("u@acme.co", "2", "Gerente", f.acme, f.acmeProfile))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "rol fuera del enum")

	res = e.do("usuarios", dispatch.MethodPost, 0, userBody("u@acme.co", "2", entity.RoleUser, f.acme, f.otherProfile))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "perfil de otra empresa")

	root := created(t, e.do("usuarios", dispatch.MethodPost, 0, userBody("root@sst.com", "1", entity.RoleSupport, 0, f.global)))
	ana := created(t, e.do("usuarios", dispatch.MethodPost, 0, userBody("Ana@Acme.co ", "2", entity.RoleUser, f.acme, f.acmeProfile)))

	u, err := e.deps.Users.GetByID(context.Background(), ana)
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.co", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secreto")))

	res = e.do("usuarios", dispatch.MethodGet, root, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Nil(t, res.Payload.(dto.UserResponse).IDEmpresa)

	res = e.do("usuarios", dispatch.MethodPatch, ana, map[string]any{"rol": entity.RoleSupport, "id_perfil": f.global})
	require.Equal(t, http.StatusOK, res.StatusCode, res.Payload)
	u, err = e.deps.Users.GetByID(context.Background(), ana)
	require.NoError(t, err)
	assert.Nil(t, u.CompanyID, "al pasar a rol global se limpia la empresa")

	res = e.do("usuarios", dispatch.MethodPut, ana, map[string]any{"rol": entity.RoleAdmin})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "rol de empresa sin empresa")
}

func TestUsers_UniquenessAndPasswordNeverReturned(t *testing.T) {
	e := newEnv(t)
	f := newTenants(t, e, 0)
	created(t, e.do("usuarios", dispatch.MethodPost, 0, userBody("ana@acme.co", "10", entity.RoleUser, f.acme, f.acmeProfile)))

	assert.Equal(t, http.StatusConflict,
		e.do("usuarios", dispatch.MethodPost, 0, userBody("ana@acme.co", "11", entity.RoleUser, f.acme, f.acmeProfile)).StatusCode)
	assert.Equal(t, http.StatusConflict,
		e.do("usuarios", dispatch.MethodPost, 0, userBody("otra@acme.co", "10", entity.RoleUser, f.acme, f.acmeProfile)).StatusCode)

	short := userBody("b@acme.co", "12", entity.RoleUser, f.acme, f.acmeProfile)
	short["password"] = "123"
	assert.Equal(t, http.StatusBadRequest, e.do("usuarios", dispatch.MethodPost, 0, short).StatusCode)

	res := e.d.Dispatch(context.Background(), &dispatch.Request{Resource: "usuarios", Verb: dispatch.MethodGet, Tenant: &f.acme})
	require.Equal(t, http.StatusOK, res.StatusCode)
	list := res.Payload.([]dto.UserResponse)
	require.Len(t, list, 1)
	assert.Equal(t, "Operador", list[0].NombrePerfil)
	assert.Equal(t, "Acme", list[0].NombreEmpresa)

	res = e.d.Dispatch(context.Background(), &dispatch.Request{Resource: "usuarios", Verb: dispatch.MethodGet, Tenant: &f.other})
	assert.Empty(t, res.Payload)
}

func TestUsers_PlanUserLimit(t *testing.T) {
	e := newEnv(t)
	f := newTenants(t, e, 1)

	created(t, e.do("usuarios", dispatch.MethodPost, 0, userBody("a@acme.co", "1", entity.RoleAdmin, f.acme, f.acmeProfile)))
	res := e.do("usuarios", dispatch.MethodPost, 0, userBody("b@acme.co", "2", entity.RoleUser, f.acme, f.acmeProfile))
	require.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, res.Payload.(dto.ErrorResponse).Message, "límite de 1")

	created(t, e.do("usuarios", dispatch.MethodPost, 0, userBody("c@otra.co", "3", entity.RoleUser, f.other, f.otherProfile)))
}

func TestUsers_ReactivationTakesASeat(t *testing.T) {
	e := newEnv(t)
	f := newTenants(t, e, 1)

	a := created(t, e.do("usuarios", dispatch.MethodPost, 0, userBody("a@acme.co", "1", entity.RoleUser, f.acme, f.acmeProfile)))
	require.Equal(t, http.StatusOK, e.do("usuarios", dispatch.MethodDelete, a, nil).StatusCode)
	b := created(t, e.do("usuarios", dispatch.MethodPost, 0, userBody("b@acme.co", "2", entity.RoleUser, f.acme, f.acmeProfile)))

	res := e.do("usuarios", dispatch.MethodPut, a, map[string]any{"estado": int64(1)})
	require.Equal(t, http.StatusConflict, res.StatusCode, "%+v", res.Payload)
	assert.Contains(t, res.Payload.(dto.ErrorResponse).Message, "límite de 1")
	assert.EqualValues(t, 1, e.count(t, "usuarios", "id_empresa = ? AND estado = 1", f.acme))

	res = e.do("usuarios", dispatch.MethodPut, a, map[string]any{"nombre": "Andrea"})
	assert.Equal(t, http.StatusOK, res.StatusCode, "editar sin reactivar no ocupa cupo")
	res = e.do("usuarios", dispatch.MethodPut, b, map[string]any{"estado": int64(1), "nombre": "Beatriz"})
	assert.Equal(t, http.StatusOK, res.StatusCode, "el usuario ya activo conserva su cupo")

	require.Equal(t, http.StatusOK, e.do("usuarios", dispatch.MethodDelete, b, nil).StatusCode)
	res = e.do("usuarios", dispatch.MethodPatch, a, map[string]any{"estado": int64(1)})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestUsers_SoftDelete(t *testing.T) {
	e := newEnv(t)
	f := newTenants(t, e, 0)
	id := created(t, e.do("usuarios", dispatch.MethodPost, 0, userBody("a@acme.co", "1", entity.RoleUser, f.acme, f.acmeProfile)))

	require.Equal(t, http.StatusOK, e.do("usuarios", dispatch.MethodDelete, id, nil).StatusCode)
	assert.EqualValues(t, 1, e.count(t, "usuarios", "id_usuario = ? AND estado = 0", id))
	assert.Equal(t, http.StatusBadRequest, e.do("usuarios", dispatch.MethodDelete, 0, nil).StatusCode)
}
