package resource

// Flag capacidad booleana de una matriz: clave JSON y columna física.
type Flag struct {
	Key    string
	Column string
}

// Matrix describe una tabla puente padre↔módulo que se reemplaza completa en cada sincronización.
type Matrix struct {
	Name         string // para mensajes y métricas
	Table        string
	Parent       string // descriptor del padre
	ParentColumn string
	ModuleColumn string
	Flags        []Flag
}

// FlagKeys claves JSON de las capacidades, en orden.
func (m Matrix) FlagKeys() []string {
	out := make([]string, len(m.Flags))
	for i, f := range m.Flags {
		out[i] = f.Key
	}
	return out
}

// ProfilePermissions perfil↔módulo con cuatro capacidades.
var ProfilePermissions = Matrix{
	Name:         "perfil_permisos",
	Table:        "perfil_permisos",
	Parent:       Perfiles,
	ParentColumn: "id_perfil",
	ModuleColumn: "id_modulo",
	Flags: []Flag{
		{Key: "ver", Column: "can_ver"},
		{Key: "crear", Column: "can_crear"},
		{Key: "editar", Column: "can_editar"},
		{Key: "eliminar", Column: "can_eliminar"},
	},
}

// PlanModuleVisibility plan↔módulo con visibilidad.
var PlanModuleVisibility = Matrix{
	Name:         "plan_modulos",
	Table:        "plan_modulos",
	Parent:       Planes,
	ParentColumn: "id_plan",
	ModuleColumn: "id_modulo",
	Flags:        []Flag{{Key: "ver", Column: "ver"}},
}
