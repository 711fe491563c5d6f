package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Modelos gorm usados solo para crear el esquema. Las lecturas y escrituras van por
// GenericRepo (mapas) y los repositorios tipados (SQL explícito).

type planModel struct {
	ID             int64           `gorm:"column:id_plan;primaryKey;autoIncrement"`
	NombrePlan     string          `gorm:"column:nombre_plan;size:100;not null;uniqueIndex:uq_planes_nombre"`
	Descripcion    *string         `gorm:"column:descripcion;type:text"`
	LimiteUsuarios int             `gorm:"column:limite_usuarios;default:0"`
	PrecioMensual  decimal.Decimal `gorm:"column:precio_mensual;type:decimal(10,2);default:0"`
	Estado         int             `gorm:"column:estado;type:smallint;default:1"`
	FechaCreacion  time.Time       `gorm:"column:fecha_creacion;default:CURRENT_TIMESTAMP"`
}

func (planModel) TableName() string { return "planes" }

type companyModel struct {
	ID               int64     `gorm:"column:id_empresa;primaryKey;autoIncrement"`
	NombreEmpresa    string    `gorm:"column:nombre_empresa;size:150;not null"`
	TipoDocumento    string    `gorm:"column:tipo_documento;size:10;default:NIT"`
	NumeroDocumento  string    `gorm:"column:numero_documento;size:50;not null;uniqueIndex:uq_empresas_documento"`
	IDPlan           *int64    `gorm:"column:id_plan;index"`
	EmailContacto    *string   `gorm:"column:email_contacto;size:100"`
	Telefono         *string   `gorm:"column:telefono;size:20"`
	Direccion        *string   `gorm:"column:direccion;type:text"`
	LogoURL          *string   `gorm:"column:logo_url;type:text"`
	NombreRL         *string   `gorm:"column:nombre_rl;size:150"`
	DocumentoRL      *string   `gorm:"column:documento_rl;size:50"`
	CantDirectos     int       `gorm:"column:cant_directos;default:0"`
	CantContratistas int       `gorm:"column:cant_contratistas;default:0"`
	CantAprendices   int       `gorm:"column:cant_aprendices;default:0"`
	CantBrigadistas  int       `gorm:"column:cant_brigadistas;default:0"`
	Estado           int       `gorm:"column:estado;type:smallint;default:1"`
	FechaRegistro    time.Time `gorm:"column:fecha_registro;default:CURRENT_TIMESTAMP"`
}

func (companyModel) TableName() string { return "empresas" }

type moduleModel struct {
	ID           int64   `gorm:"column:id_modulo;primaryKey;autoIncrement"`
	IDPadre      *int64  `gorm:"column:id_padre;index"`
	NombreModulo string  `gorm:"column:nombre_modulo;size:100;not null;uniqueIndex:uq_modulos_nombre"`
	Descripcion  *string `gorm:"column:descripcion;type:text"`
	Icono        string  `gorm:"column:icono;size:50;default:fas fa-cube"`
	Estado       int     `gorm:"column:estado;type:smallint;default:1"`
}

func (moduleModel) TableName() string { return "modulos" }

type profileModel struct {
	ID           int64   `gorm:"column:id_perfil;primaryKey;autoIncrement"`
	NombrePerfil string  `gorm:"column:nombre_perfil;size:100;not null;uniqueIndex:uq_perfil_empresa,priority:1"`
	Descripcion  *string `gorm:"column:descripcion;type:text"`
	IDEmpresa    *int64  `gorm:"column:id_empresa;uniqueIndex:uq_perfil_empresa,priority:2"`
	Estado       int     `gorm:"column:estado;type:smallint;default:1"`
}

func (profileModel) TableName() string { return "perfiles" }

type profilePermissionModel struct {
	ID          int64 `gorm:"column:id_permiso;primaryKey;autoIncrement"`
	IDPerfil    int64 `gorm:"column:id_perfil;not null;uniqueIndex:uq_permiso,priority:1"`
	IDModulo    int64 `gorm:"column:id_modulo;not null;uniqueIndex:uq_permiso,priority:2"`
	CanVer      bool  `gorm:"column:can_ver;default:false"`
	CanCrear    bool  `gorm:"column:can_crear;default:false"`
	CanEditar   bool  `gorm:"column:can_editar;default:false"`
	CanEliminar bool  `gorm:"column:can_eliminar;default:false"`
}

func (profilePermissionModel) TableName() string { return "perfil_permisos" }

type planModuleModel struct {
	ID       int64 `gorm:"column:id;primaryKey;autoIncrement"`
	IDPlan   int64 `gorm:"column:id_plan;not null;uniqueIndex:uq_plan_modulo,priority:1"`
	IDModulo int64 `gorm:"column:id_modulo;not null;uniqueIndex:uq_plan_modulo,priority:2"`
	Ver      bool  `gorm:"column:ver;default:false"`
}

func (planModuleModel) TableName() string { return "plan_modulos" }

type userModel struct {
	ID              int64     `gorm:"column:id_usuario;primaryKey;autoIncrement"`
	Nombre          string    `gorm:"column:nombre;size:100;not null"`
	Apellido        *string   `gorm:"column:apellido;size:100"`
	Email           string    `gorm:"column:email;size:150;not null;uniqueIndex:uq_usuarios_email"`
	TipoDocumento   string    `gorm:"column:tipo_documento;size:10;not null;default:CC"`
	NumeroDocumento string    `gorm:"column:numero_documento;size:20;not null;uniqueIndex:uq_usuarios_documento"`
	Password        string    `gorm:"column:password;size:255;not null"`
	Rol             string    `gorm:"column:rol;size:20;not null;default:Usuario"`
	IDEmpresa       *int64    `gorm:"column:id_empresa;index"`
	IDPerfil        *int64    `gorm:"column:id_perfil"`
	Estado          int       `gorm:"column:estado;type:smallint;default:1"`
	FechaCreacion   time.Time `gorm:"column:fecha_creacion;default:CURRENT_TIMESTAMP"`
}

func (userModel) TableName() string { return "usuarios" }

type companyTypeModel struct {
	ID             int64     `gorm:"column:id_config;primaryKey;autoIncrement"`
	TamanoEmpresa  string    `gorm:"column:tamano_empresa;size:20;not null;default:Micro"`
	Sector         *string   `gorm:"column:sector;size:100"`
	CantidadSede   *int      `gorm:"column:cantidad_sede"`
	EmpleadosDesde int       `gorm:"column:empleados_desde;not null"`
	EmpleadosHasta int       `gorm:"column:empleados_hasta;not null"`
	Estado         int       `gorm:"column:estado;type:smallint;default:1"`
	CreatedAt      time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (companyTypeModel) TableName() string { return "tipo_empresa" }

type gradingModel struct {
	ID            int64     `gorm:"column:id_calificacion;primaryKey;autoIncrement"`
	Nombre        string    `gorm:"column:nombre;size:150;not null"`
	Estado        int       `gorm:"column:estado;type:smallint;default:1"`
	FechaCreacion time.Time `gorm:"column:fecha_creacion;default:CURRENT_TIMESTAMP"`
}

func (gradingModel) TableName() string { return "calificaciones" }

type gradingDetailModel struct {
	ID             int64           `gorm:"column:id_detalle;primaryKey;autoIncrement"`
	IDCalificacion int64           `gorm:"column:id_calificacion;not null;index"`
	Descripcion    string          `gorm:"column:descripcion;size:255;not null"`
	Valor          decimal.Decimal `gorm:"column:valor;type:decimal(10,2);not null"`
	Estado         int             `gorm:"column:estado;type:smallint;default:1"`
	FechaCreacion  time.Time       `gorm:"column:fecha_creacion;default:CURRENT_TIMESTAMP"`
}

func (gradingDetailModel) TableName() string { return "calificaciones_detalles" }

type categoryModel struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Descripcion string `gorm:"column:descripcion;size:255;not null"`
	Estado      int    `gorm:"column:estado;type:smallint;default:1"`
}

func (categoryModel) TableName() string { return "categorias" }

type categoryTypeModel struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	CategoriaID int64  `gorm:"column:categoria_id;not null;index"`
	Descripcion string `gorm:"column:descripcion;size:255;not null"`
	Estado      int    `gorm:"column:estado;type:smallint;default:1"`
}

func (categoryTypeModel) TableName() string { return "categoria_tipos" }

type itemModel struct {
	ID               int64     `gorm:"column:id_detalle;primaryKey;autoIncrement"`
	IDCategorias     int64     `gorm:"column:id_categorias;not null;index"`
	ItemEstandar     string    `gorm:"column:item_estandar;type:text;not null"`
	Item             string    `gorm:"column:item;type:text;not null"`
	Criterio         string    `gorm:"column:criterio;type:text;not null"`
	ModoVerificacion string    `gorm:"column:modo_verificacion;type:text;not null"`
	Estado           int       `gorm:"column:estado;type:smallint;default:1"`
	FechaCreacion    time.Time `gorm:"column:fecha_creacion;default:CURRENT_TIMESTAMP"`
}

func (itemModel) TableName() string { return "item" }

type rucCategoryModel struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Codigo      string `gorm:"column:codigo;size:20;not null;uniqueIndex:uq_categorias_guia_ruc_codigo"`
	Descripcion string `gorm:"column:descripcion;size:255;not null"`
	Estado      int    `gorm:"column:estado;type:smallint;default:1"`
}

func (rucCategoryModel) TableName() string { return "categorias_guia_ruc" }

type rucItemModel struct {
	ID            int64   `gorm:"column:id;primaryKey;autoIncrement"`
	IDCategoria   int64   `gorm:"column:id_categoria;not null;index"`
	NumItem       string  `gorm:"column:num_item;size:20;not null"`
	Requisito     string  `gorm:"column:requisito;type:text;not null"`
	Descripcion   *string `gorm:"column:descripcion;type:text"`
	Observaciones *string `gorm:"column:observaciones;type:text"`
	Estado        int     `gorm:"column:estado;type:smallint;default:1"`
}

func (rucItemModel) TableName() string { return "guia_ruc_items" }

type formModel struct {
	ID        int64  `gorm:"column:id_formulario;primaryKey;autoIncrement"`
	Nombre    string `gorm:"column:nombre;size:150;not null"`
	TipoNorma string `gorm:"column:tipo_norma;size:50;not null"`
	Estado    int    `gorm:"column:estado;type:smallint;default:1"`
}

func (formModel) TableName() string { return "formularios" }

type phvaCycleModel struct {
	ID     int64  `gorm:"column:id_ciclo;primaryKey;autoIncrement"`
	Nombre string `gorm:"column:nombre;size:50;not null"`
}

func (phvaCycleModel) TableName() string { return "ciclos_phva" }

type sstStaffModel struct {
	ID                int64     `gorm:"column:id_personal_sst;primaryKey;autoIncrement"`
	IDEmpresa         int64     `gorm:"column:id_empresa;not null;index"`
	ProyectoRige      string    `gorm:"column:proyecto_rige;size:150;not null"`
	NombreProfesional string    `gorm:"column:nombre_profesional;size:150;not null"`
	CorreoSST         string    `gorm:"column:correo_sst;size:150;not null"`
	TelefonoSST       *string   `gorm:"column:telefono_sst;size:20"`
	FirmaSSTURL       *string   `gorm:"column:firma_sst_url;type:text"`
	Estado            int       `gorm:"column:estado;type:smallint;default:1"`
	FechaRegistro     time.Time `gorm:"column:fecha_registro;default:CURRENT_TIMESTAMP"`
}

func (sstStaffModel) TableName() string { return "personal_sst" }

func models() []any {
	return []any{
		&planModel{}, &companyModel{}, &moduleModel{}, &profileModel{}, &profilePermissionModel{},
		&planModuleModel{}, &userModel{}, &companyTypeModel{}, &gradingModel{}, &gradingDetailModel{},
		&categoryModel{}, &categoryTypeModel{}, &itemModel{}, &rucCategoryModel{}, &rucItemModel{},
		&formModel{}, &phvaCycleModel{}, &sstStaffModel{},
	}
}

// Migrate crea o actualiza las tablas del sistema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
