package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/application/permission"
	"github.com/jhoicas/sst-manager-api/internal/application/usecase"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage/storagetest"
	"github.com/jhoicas/sst-manager-api/pkg/logger"
	"github.com/jhoicas/sst-manager-api/pkg/metrics"
)

type env struct {
	db   *gorm.DB
	deps usecase.Deps
	d    *dispatch.Dispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := storagetest.NewDB(t)
	reg := resource.Default()
	generic := storage.NewGenericRepository(db, reg)
	tx := storage.NewTxRunner(db)
	modules := storage.NewModuleRepository(db)
	m := metrics.New("usecase_test")

	syncDeps := permission.Deps{
		Resources: reg, Generic: generic, Matrix: storage.NewMatrixRepository(db),
		Modules: modules, Tx: tx, Metrics: m,
	}
	deps := usecase.Deps{
		Resources:   reg,
		Generic:     generic,
		Tx:          tx,
		Companies:   storage.NewCompanyRepository(db),
		Users:       storage.NewUserRepository(db),
		Plans:       storage.NewPlanRepository(db),
		Modules:     modules,
		Profiles:    storage.NewProfileRepository(db),
		ProfileSync: permission.NewSynchronizer(resource.ProfilePermissions, syncDeps),
		PlanSync:    permission.NewSynchronizer(resource.PlanModuleVisibility, syncDeps),
	}
	routes := dispatch.NewRegistry(reg, generic)
	usecase.Register(routes, deps)
	return &env{db: db, deps: deps, d: dispatch.NewDispatcher(routes, logger.Nop(), m)}
}

func (e *env) do(res, verb string, id int64, body any) dispatch.Response {
	return e.d.Dispatch(context.Background(), &dispatch.Request{Resource: res, Verb: verb, ID: id, Body: body})
}

func (e *env) doSub(res, sub, verb string, id int64, body any) dispatch.Response {
	return e.d.Dispatch(context.Background(), &dispatch.Request{Resource: res, SubAction: sub, Verb: verb, ID: id, Body: body})
}

// created extrae el id de una respuesta 201.
func created(t *testing.T, r dispatch.Response) int64 {
	t.Helper()
	require.Equal(t, http.StatusCreated, r.StatusCode, "%+v", r.Payload)
	switch p := r.Payload.(type) {
	case dto.MessageResponse:
		require.NotNil(t, p.ID)
		return *p.ID
	case dto.CompanyCreatedResponse:
		return p.ID
	}
	t.Fatalf("respuesta inesperada %T", r.Payload)
	return 0
}

func (e *env) count(t *testing.T, table, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := e.db.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
