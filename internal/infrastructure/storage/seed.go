package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/pkg/config"
	"github.com/jhoicas/sst-manager-api/pkg/logger"
)

// Datos base del sistema. Cada bloque es idempotente: solo inserta lo que falta.

var seedModules = []struct{ name, desc string }{
	{"Dashboard", "Panel de control principal"},
	{"Usuarios", "Gestión de usuarios y accesos"},
	{"Perfiles", "Configuración de roles y permisos"},
	{"Planes", "Gestión de planes de suscripción"},
	{"Empresas", "Administración de clientes/empresas"},
	{"Normatividad", "Matriz legal y normas"},
	{"Formularios", "Creador de formularios dinámicos"},
}

var seedPlans = []struct {
	name, desc string
	limit      int
	price      string
}{
	{"Básico", "Ideal para microempresas", 5, "0.00"},
	{"Profesional", "Para empresas en crecimiento", 20, "49.90"},
	{"Enterprise", "Sin límites de gestión", 0, "120.00"},
}

var seedCompanyTypes = []struct {
	size     string
	from, to int
}{
	{"Micro", 1, 10},
	{"Pequeña", 11, 50},
	{"Mediana", 51, 200},
	{"Grande", 201, 9999},
}

var seedCycles = []string{"Planear", "Hacer", "Verificar", "Actuar"}

const seedAdminPassword = "123456"

// Seed inserta módulos, planes, rangos de empresa, ciclos PHVA, el perfil Master con la matriz
// completa y el usuario administrador global.
func Seed(ctx context.Context, db *gorm.DB, cfg config.SeedConfig, log *logger.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range seedModules {
			desc := m.desc
			row := moduleModel{NombreModulo: m.name, Descripcion: &desc, Icono: "fas fa-cube", Estado: 1}
			if err := tx.Where(moduleModel{NombreModulo: m.name}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed modulos: %w", err)
			}
		}

		for _, p := range seedPlans {
			desc := p.desc
			row := planModel{
				NombrePlan: p.name, Descripcion: &desc, LimiteUsuarios: p.limit,
				PrecioMensual: decimal.RequireFromString(p.price), Estado: 1,
			}
			if err := tx.Where(planModel{NombrePlan: p.name}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed planes: %w", err)
			}
		}

		var n int64
		if err := tx.Model(&companyTypeModel{}).Count(&n).Error; err != nil {
			return fmt.Errorf("seed tipo_empresa: %w", err)
		}
		if n == 0 {
			for _, t := range seedCompanyTypes {
				row := companyTypeModel{TamanoEmpresa: t.size, EmpleadosDesde: t.from, EmpleadosHasta: t.to, Estado: 1}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("seed tipo_empresa: %w", err)
				}
			}
		}

		if err := tx.Model(&phvaCycleModel{}).Count(&n).Error; err != nil {
			return fmt.Errorf("seed ciclos_phva: %w", err)
		}
		if n == 0 {
			for _, c := range seedCycles {
				if err := tx.Create(&phvaCycleModel{Nombre: c}).Error; err != nil {
					return fmt.Errorf("seed ciclos_phva: %w", err)
				}
			}
		}

		master, err := seedMasterProfile(tx)
		if err != nil {
			return err
		}
		if err := seedAdmin(tx, cfg, master); err != nil {
			return err
		}
		log.Info().Int64("perfil_master", master).Msg("datos base verificados")
		return nil
	})
}

func seedMasterProfile(tx *gorm.DB) (int64, error) {
	var profile profileModel
	err := tx.Where("nombre_perfil = ? AND id_empresa IS NULL", entity.MasterProfileName).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		desc := "Perfil Maestro: Control total del ecosistema SaaS"
		profile = profileModel{NombrePerfil: entity.MasterProfileName, Descripcion: &desc, Estado: 1}
		if err := tx.Create(&profile).Error; err != nil {
			return 0, fmt.Errorf("seed perfil master: %w", err)
		}
	} else if err != nil {
		return 0, fmt.Errorf("seed perfil master: %w", err)
	}

	var moduleIDs []int64
	if err := tx.Model(&moduleModel{}).Pluck("id_modulo", &moduleIDs).Error; err != nil {
		return 0, fmt.Errorf("seed permisos master: %w", err)
	}
	for _, id := range moduleIDs {
		perm := profilePermissionModel{
			IDPerfil: profile.ID, IDModulo: id,
			CanVer: true, CanCrear: true, CanEditar: true, CanEliminar: true,
		}
		err := tx.Where(profilePermissionModel{IDPerfil: profile.ID, IDModulo: id}).FirstOrCreate(&perm).Error
		if err != nil {
			return 0, fmt.Errorf("seed permisos master: %w", err)
		}
	}
	return profile.ID, nil
}

func seedAdmin(tx *gorm.DB, cfg config.SeedConfig, masterProfile int64) error {
	email := cfg.AdminEmail
	if email == "" {
		email = "admin@sst.com"
	}
	var n int64
	if err := tx.Model(&userModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if n > 0 {
		return nil
	}
	password := cfg.AdminPassword
	if password == "" {
		password = seedAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin: hash: %w", err)
	}
	lastName := "Estepa"
	user := userModel{
		Nombre: "Miguel", Apellido: &lastName, Email: email,
		TipoDocumento: "CC", NumeroDocumento: "123456789",
		Password: string(hash), Rol: entity.RoleMaster,
		IDPerfil: &masterProfile, Estado: 1,
	}
	if err := tx.Create(&user).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
