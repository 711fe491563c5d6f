// Package usecase contiene los manejadores con reglas propias de cada recurso. Todos embeben
// dispatch.GenericHandler y sobrescriben solo los verbos que lo necesitan.
package usecase

import (
	"github.com/jhoicas/sst-manager-api/internal/application/permission"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

// Deps colaboradores compartidos por los manejadores.
type Deps struct {
	Resources *resource.Registry
	Generic   repository.GenericRepository
	Tx        repository.TxRunner

	Companies repository.CompanyRepository
	Users     repository.UserRepository
	Plans     repository.PlanRepository
	Modules   repository.ModuleRepository
	Profiles  repository.ProfileRepository

	ProfileSync *permission.Synchronizer
	PlanSync    *permission.Synchronizer
}
