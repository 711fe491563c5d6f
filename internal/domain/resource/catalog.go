package resource

// Nombres de recursos del catálogo.
const (
	Empresas             = "empresas"
	Planes               = "planes"
	Modulos              = "modulos"
	Perfiles             = "perfiles"
	Usuarios             = "usuarios"
	TipoEmpresa          = "tipo-empresa"
	Calificaciones       = "calificaciones"
	CalificacionDetalles = "calificaciones_detalles"
	Categorias           = "categorias"
	CategoriaTipos       = "categoria_tipos"
	Items                = "item"
	CategoriasGuiaRUC    = "categorias_guia_ruc"
	GuiaRUCItems         = "guia_ruc_items"
	Formularios          = "formularios"
	CiclosPHVA           = "ciclos_phva"
	PersonalSST          = "personal_sst"
	PerfilPermisos       = "perfil_permisos"
	PlanModulos          = "plan_modulos"
)

// Valores de la columna estado.
const (
	StatusActive   int64 = 1
	StatusInactive int64 = 0
)

// Tamaños válidos de empresa.
var CompanySizes = []string{"Micro", "Pequeña", "Mediana", "Grande"}

// Tipos de norma válidos para formularios.
var FormNorms = []string{"Guía RUC", "Resolución 0312 / 1072"}

func withStatus(d Descriptor) Descriptor {
	d.StatusColumn = "estado"
	d.Active = StatusActive
	d.Inactive = StatusInactive
	return d
}

// Catalog descriptores de todas las tablas del sistema.
func Catalog() []Descriptor {
	return []Descriptor{
		withStatus(Descriptor{
			Name: Empresas, Table: "empresas", IDColumn: "id_empresa", SoftDelete: true,
			Unique:   [][]string{{"numero_documento"}},
			Required: []string{"nombre_empresa", "numero_documento", "id_plan"},
			Filters:  map[string]string{"id_plan": "id_plan"},
			Aliases:  map[string]string{"nit": "numero_documento"},
		}),
		withStatus(Descriptor{
			Name: Planes, Table: "planes", IDColumn: "id_plan", SoftDelete: true,
			Unique:   [][]string{{"nombre_plan"}},
			Required: []string{"nombre_plan"},
		}),
		withStatus(Descriptor{
			Name: Modulos, Table: "modulos", IDColumn: "id_modulo", SoftDelete: true,
			Unique:   [][]string{{"nombre_modulo"}},
			Required: []string{"nombre_modulo"},
			Filters:  map[string]string{"id_padre": "id_padre"},
		}),
		withStatus(Descriptor{
			Name: Perfiles, Table: "perfiles", IDColumn: "id_perfil", SoftDelete: true,
			Unique:   [][]string{{"nombre_perfil", "id_empresa"}},
			Required: []string{"nombre_perfil"},
		}),
		withStatus(Descriptor{
			Name: Usuarios, Table: "usuarios", IDColumn: "id_usuario", SoftDelete: true,
			Unique:   [][]string{{"email"}, {"numero_documento"}},
			Required: []string{"nombre", "email", "numero_documento", "password", "rol", "id_perfil"},
			Filters:  map[string]string{"id_empresa": "id_empresa"},
		}),
		withStatus(Descriptor{
			Name: TipoEmpresa, Table: "tipo_empresa", IDColumn: "id_config", SoftDelete: true,
			Required: []string{"tamano_empresa", "empleados_desde", "empleados_hasta"},
		}),
		withStatus(Descriptor{
			Name: Calificaciones, Table: "calificaciones", IDColumn: "id_calificacion", SoftDelete: true,
			Required: []string{"nombre"},
			Children: []Cascade{{Resource: CalificacionDetalles, ForeignKey: "id_calificacion"}},
		}),
		withStatus(Descriptor{
			Name: CalificacionDetalles, Table: "calificaciones_detalles", IDColumn: "id_detalle", SoftDelete: true,
			Required: []string{"id_calificacion", "descripcion", "valor"},
			Filters:  map[string]string{"id_calificacion": "id_calificacion"},
		}),
		withStatus(Descriptor{
			Name: Categorias, Table: "categorias", SoftDelete: true,
			Required: []string{"descripcion"},
			Children: []Cascade{{Resource: CategoriaTipos, ForeignKey: "categoria_id"}},
		}),
		withStatus(Descriptor{
			Name: CategoriaTipos, Table: "categoria_tipos", SoftDelete: true,
			Required: []string{"categoria_id", "descripcion"},
			Filters:  map[string]string{"categoria_id": "categoria_id"},
			Children: []Cascade{{Resource: Items, ForeignKey: "id_categorias"}},
		}),
		withStatus(Descriptor{
			Name: Items, Table: "item", IDColumn: "id_detalle", SoftDelete: true,
			Required: []string{"id_categorias", "item_estandar", "item", "criterio", "modo_verificacion"},
			Filters:  map[string]string{"id_categorias": "id_categorias"},
		}),
		withStatus(Descriptor{
			Name: CategoriasGuiaRUC, Table: "categorias_guia_ruc", SoftDelete: true,
			Unique:   [][]string{{"codigo"}},
			Required: []string{"codigo", "descripcion"},
			Children: []Cascade{{Resource: GuiaRUCItems, ForeignKey: "id_categoria"}},
		}),
		withStatus(Descriptor{
			Name: GuiaRUCItems, Table: "guia_ruc_items", SoftDelete: true,
			Required: []string{"id_categoria", "num_item", "requisito"},
			Filters:  map[string]string{"id_categoria": "id_categoria"},
		}),
		withStatus(Descriptor{
			Name: Formularios, Table: "formularios", IDColumn: "id_formulario", SoftDelete: true,
			Required: []string{"nombre", "tipo_norma"},
			Filters:  map[string]string{"tipo_norma": "tipo_norma"},
		}),
		{
			Name: CiclosPHVA, Table: "ciclos_phva", IDColumn: "id_ciclo",
			Required: []string{"nombre"},
		},
		withStatus(Descriptor{
			Name: PersonalSST, Table: "personal_sst", IDColumn: "id_personal_sst", SoftDelete: true,
			Required: []string{"id_empresa", "proyecto_rige", "nombre_profesional", "correo_sst"},
			Filters:  map[string]string{"id_empresa": "id_empresa"},
		}),
		{
			Name: PerfilPermisos, Table: "perfil_permisos", IDColumn: "id_permiso", Internal: true,
			Unique: [][]string{{"id_perfil", "id_modulo"}},
		},
		{
			Name: PlanModulos, Table: "plan_modulos", Internal: true,
			Unique: [][]string{{"id_plan", "id_modulo"}},
		},
	}
}

// Default registro con el catálogo completo.
func Default() *Registry {
	return MustRegistry(Catalog()...)
}
