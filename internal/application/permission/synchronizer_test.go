package permission_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/permission"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage/storagetest"
	"github.com/jhoicas/sst-manager-api/pkg/metrics"
)

func newSync(t *testing.T, m resource.Matrix) (*permission.Synchronizer, *gorm.DB) {
	t.Helper()
	db := storagetest.NewDB(t)
	reg := resource.Default()
	return permission.NewSynchronizer(m, permission.Deps{
		Resources: reg,
		Generic:   storage.NewGenericRepository(db, reg),
		Matrix:    storage.NewMatrixRepository(db),
		Modules:   storage.NewModuleRepository(db),
		Tx:        storage.NewTxRunner(db),
		Metrics:   metrics.New("permission_test"),
	}), db
}

func item(id int64, flags ...string) map[string]any {
	m := map[string]any{"id_modulo": id}
	for _, f := range flags {
		m[f] = int64(1)
	}
	return m
}

func TestSynchronizer_Decode(t *testing.T) {
	s, _ := newSync(t, resource.ProfilePermissions)

	items, err := s.Decode([]any{item(3, "ver", "crear"), map[string]any{"id_modulo": "4", "eliminar": true}})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].ModuleID)
	assert.Equal(t, map[string]bool{"ver": true, "crear": true, "editar": false, "eliminar": false}, items[0].Flags)
	assert.Equal(t, int64(4), items[1].ModuleID)
	assert.True(t, items[1].Flags["eliminar"])

	items, err = s.Decode(map[string]any{"permisos": []any{item(1, "ver")}})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = s.Decode(map[string]any{"modulos": []any{}})
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = s.Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	for name, body := range map[string]any{
		"sin id_modulo":  []any{map[string]any{"ver": true}},
		"id negativo":    []any{item(-2)},
		"id decimal":     []any{map[string]any{"id_modulo": 1.5}},
		"item no objeto": []any{int64(3)},
		"repetido":       []any{item(1), item(1, "ver")},
		"permisos texto": map[string]any{"permisos": "todos"},
		"cuerpo texto":   "x",
	} {
		_, err := s.Decode(body)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestSynchronizer_EmptySyncRevokesAll(t *testing.T) {
	s, db := newSync(t, resource.ProfilePermissions)
	ctx := context.Background()
	mods := storagetest.Modules(t, db, "Dashboard", "Usuarios")
	p := storagetest.Profile(t, db, "Auditor", nil)

	items, err := s.Decode([]any{item(mods[0], "ver"), item(mods[1], "ver", "editar")})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, p, items))

	rows, err := s.Matrix(ctx, p)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, s.Save(ctx, p, nil))
	rows, err = s.Matrix(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSynchronizer_IdempotentSetEquality(t *testing.T) {
	s, db := newSync(t, resource.PlanModuleVisibility)
	ctx := context.Background()
	mods := storagetest.Modules(t, db, "Dashboard", "Usuarios", "Perfiles")
	plan := storagetest.Plan(t, db, "Básico", 5)

	items, err := s.Decode([]any{item(mods[2], "ver"), item(mods[0])})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, plan, items))
	first, err := s.Matrix(ctx, plan)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, plan, items))
	second, err := s.Matrix(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Len(t, second, 2)
	assert.Equal(t, mods[0], second[0]["id_modulo"])
	assert.Equal(t, false, second[0]["ver"])
	assert.Equal(t, "Perfiles", second[1]["nombre_modulo"])
	assert.Equal(t, true, second[1]["ver"])

	var n int64
	require.NoError(t, db.Table("plan_modulos").Where("id_plan = ?", plan).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestSynchronizer_RejectedSyncKeepsPriorState(t *testing.T) {
	s, db := newSync(t, resource.ProfilePermissions)
	ctx := context.Background()
	mods := storagetest.Modules(t, db, "Dashboard")
	p := storagetest.Profile(t, db, "Operador", nil)

	items, err := s.Decode([]any{item(mods[0], "ver")})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, p, items))

	_, err = s.Decode([]any{item(mods[0], "ver", "crear"), map[string]any{"ver": true}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	items, err = s.Decode([]any{item(mods[0], "crear"), item(999, "ver")})
	require.NoError(t, err)
	err = s.Save(ctx, p, items)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "999")

	rows, err := s.Matrix(ctx, p)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["ver"])
	assert.Equal(t, false, rows[0]["crear"])
}

func TestSynchronizer_UnknownParent(t *testing.T) {
	s, db := newSync(t, resource.ProfilePermissions)
	ctx := context.Background()
	mods := storagetest.Modules(t, db, "Dashboard")

	items, err := s.Decode([]any{item(mods[0], "ver")})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Save(ctx, 404, items), domain.ErrNotFound)

	_, err = s.Matrix(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Expanded(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSynchronizer_Expanded(t *testing.T) {
	s, db := newSync(t, resource.ProfilePermissions)
	ctx := context.Background()
	mods := storagetest.Modules(t, db, "Dashboard", "Usuarios", "Archivado")
	storagetest.Exec(t, db, "UPDATE modulos SET estado = 0 WHERE id_modulo = ?", mods[2])
	p := storagetest.Profile(t, db, "Consulta", nil)

	items, err := s.Decode([]any{item(mods[1], "ver", "crear")})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, p, items))

	view, err := s.Expanded(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, p, view["id_perfil"])
	modulos, ok := view["modulos"].(map[int64]map[string]bool)
	require.True(t, ok)
	assert.Len(t, modulos, 2)
	assert.Equal(t, map[string]bool{"ver": false, "crear": false, "editar": false, "eliminar": false}, modulos[mods[0]])
	assert.Equal(t, map[string]bool{"ver": true, "crear": true, "editar": false, "eliminar": false}, modulos[mods[1]])
}

// Perfil Supervisor con Dashboard(ver) y Usuarios(ver, editar); luego solo Dashboard.
func TestHandler_SupervisorScenario(t *testing.T) {
	s, db := newSync(t, resource.ProfilePermissions)
	h := permission.NewHandler(s)
	ctx := context.Background()
	mods := storagetest.Modules(t, db, "Dashboard", "Usuarios")
	sup := storagetest.Profile(t, db, "Supervisor", nil)

	res := h.Handle(ctx, &dispatch.Request{
		Resource: "perfiles", SubAction: "permisos", ID: sup, Verb: dispatch.MethodPost,
		Body: []any{item(mods[0], "ver"), item(mods[1], "ver", "editar")},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, res.Payload)
	assert.Equal(t, permission.MsgSynced, res.Payload.(permission.SyncResponse).Mensaje)

	res = h.Handle(ctx, &dispatch.Request{ID: sup, Verb: dispatch.MethodGet})
	require.Equal(t, http.StatusOK, res.StatusCode)
	rows := res.Payload.([]map[string]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "Usuarios", rows[1]["nombre_modulo"])
	assert.Equal(t, true, rows[1]["editar"])
	assert.Equal(t, false, rows[1]["eliminar"])

	res = h.Handle(ctx, &dispatch.Request{
		ID: sup, Verb: dispatch.MethodPut,
		Body: map[string]any{"permisos": []any{item(mods[0], "ver")}},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = h.Handle(ctx, &dispatch.Request{ID: sup, Verb: dispatch.MethodGet})
	rows = res.Payload.([]map[string]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dashboard", rows[0]["nombre_modulo"])

	res = h.Handle(ctx, &dispatch.Request{ID: sup, Verb: dispatch.MethodGet, View: permission.ViewExpanded})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, res.Payload.(map[string]any)["modulos"], 2)

	res = h.Handle(ctx, &dispatch.Request{ID: sup, Verb: dispatch.MethodDelete})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = h.Handle(ctx, &dispatch.Request{ID: sup, Verb: dispatch.MethodGet})
	assert.Empty(t, res.Payload)
}

func TestHandler_Errors(t *testing.T) {
	s, _ := newSync(t, resource.ProfilePermissions)
	h := permission.NewHandler(s)
	ctx := context.Background()

	assert.Equal(t, http.StatusBadRequest, h.Handle(ctx, &dispatch.Request{Verb: dispatch.MethodGet}).StatusCode)
	assert.Equal(t, http.StatusMethodNotAllowed, h.Handle(ctx, &dispatch.Request{ID: 1, Verb: dispatch.MethodPatch}).StatusCode)
	assert.Equal(t, http.StatusNotFound, h.Handle(ctx, &dispatch.Request{ID: 77, Verb: dispatch.MethodPost, Body: []any{}}).StatusCode)
	assert.Equal(t, http.StatusBadRequest, h.Handle(ctx, &dispatch.Request{
		ID: 1, Verb: dispatch.MethodPost, Body: []any{map[string]any{"ver": true}},
	}).StatusCode)
}
