package usecase

import (
	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/permission"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

// Register agrega a routes los manejadores específicos y las matrices de permisos.
// Los catálogos sin entrada aquí quedan con el manejador genérico.
func Register(routes *dispatch.Registry, deps Deps) {
	users := NewUserHandler(deps)

	routes.Handle(dispatch.Resource(NewProfileHandler(deps)), dispatch.Route{Resource: resource.Perfiles})
	routes.Handle(dispatch.Resource(NewPlanHandler(deps)), dispatch.Route{Resource: resource.Planes})
	routes.Handle(dispatch.Resource(users), dispatch.Route{Resource: resource.Usuarios})
	routes.Handle(dispatch.Resource(NewCompanyHandler(deps, users)), dispatch.Route{Resource: resource.Empresas})
	routes.Handle(dispatch.Resource(NewModuleHandler(deps)), dispatch.Route{Resource: resource.Modulos})
	routes.Handle(dispatch.Resource(NewCompanyTypeHandler(deps)), dispatch.Route{Resource: resource.TipoEmpresa})
	routes.Handle(dispatch.Resource(NewGradingHandler(deps)), dispatch.Route{Resource: resource.Calificaciones})
	routes.Handle(dispatch.Resource(NewFormHandler(deps)), dispatch.Route{Resource: resource.Formularios})

	routes.Handle(permission.NewHandler(deps.ProfileSync),
		dispatch.Route{Resource: resource.Perfiles, Sub: "permisos"},
		dispatch.Route{Resource: "profiles", Sub: "permissions"})
	routes.Handle(permission.NewHandler(deps.PlanSync),
		dispatch.Route{Resource: resource.Planes, Sub: "permisos"},
		dispatch.Route{Resource: "plans", Sub: "permissions"})
}
