// Package app arma el grafo de dependencias: repositorios, sincronizadores, manejadores y la
// tabla de rutas del despachador.
package app

import (
	"gorm.io/gorm"

	"github.com/jhoicas/sst-manager-api/internal/application/auth"
	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/permission"
	"github.com/jhoicas/sst-manager-api/internal/application/usecase"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage"
	"github.com/jhoicas/sst-manager-api/pkg/logger"
	"github.com/jhoicas/sst-manager-api/pkg/metrics"
)

// Container resultado del armado.
type Container struct {
	Deps       usecase.Deps
	Auth       *auth.AuthUseCase
	Routes     *dispatch.Registry
	Dispatcher *dispatch.Dispatcher
}

// Build conecta todo sobre db. m puede ser nil.
func Build(db *gorm.DB, jwtCfg auth.JWTConfig, log *logger.Logger, m *metrics.Metrics) *Container {
	reg := resource.Default()
	generic := storage.NewGenericRepository(db, reg)
	tx := storage.NewTxRunner(db)
	modules := storage.NewModuleRepository(db)
	users := storage.NewUserRepository(db)
	companies := storage.NewCompanyRepository(db)

	syncDeps := permission.Deps{
		Resources: reg,
		Generic:   generic,
		Matrix:    storage.NewMatrixRepository(db),
		Modules:   modules,
		Tx:        tx,
		Metrics:   m,
	}
	deps := usecase.Deps{
		Resources:   reg,
		Generic:     generic,
		Tx:          tx,
		Companies:   companies,
		Users:       users,
		Plans:       storage.NewPlanRepository(db),
		Modules:     modules,
		Profiles:    storage.NewProfileRepository(db),
		ProfileSync: permission.NewSynchronizer(resource.ProfilePermissions, syncDeps),
		PlanSync:    permission.NewSynchronizer(resource.PlanModuleVisibility, syncDeps),
	}

	routes := dispatch.NewRegistry(reg, generic)
	usecase.Register(routes, deps)

	authUC := auth.NewAuthUseCase(users, companies, jwtCfg)
	routes.Handle(auth.NewLoginHandler(authUC),
		dispatch.Route{Resource: "login"},
		dispatch.Route{Resource: "auth", Sub: "login"})

	return &Container{
		Deps:       deps,
		Auth:       authUC,
		Routes:     routes,
		Dispatcher: dispatch.NewDispatcher(routes, log, m),
	}
}
