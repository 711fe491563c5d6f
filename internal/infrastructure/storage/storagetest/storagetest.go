// Package storagetest abre bases SQLite en memoria con el esquema del sistema para los tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage"
)

// NewDB devuelve una base en memoria migrada. Una sola conexión: ":memory:" es por conexión
// y las transacciones deben reutilizar la del contexto.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, storage.Migrate(context.Background(), db))
	return db
}

// Exec ejecuta sentencias de preparación del test.
func Exec(t *testing.T, db *gorm.DB, query string, args ...any) {
	t.Helper()
	require.NoError(t, db.Exec(query, args...).Error)
}

// Modules inserta módulos de primer nivel y devuelve sus ids en orden.
func Modules(t *testing.T, db *gorm.DB, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, n := range names {
		var id int64
		require.NoError(t, db.Raw("INSERT INTO modulos (nombre_modulo) VALUES (?) RETURNING id_modulo", n).Scan(&id).Error)
		ids = append(ids, id)
	}
	return ids
}

// Plan inserta un plan activo y devuelve su id.
func Plan(t *testing.T, db *gorm.DB, name string, limit int) int64 {
	t.Helper()
	var id int64
	require.NoError(t, db.Raw("INSERT INTO planes (nombre_plan, limite_usuarios, precio_mensual) VALUES (?, ?, 0) RETURNING id_plan",
		name, limit).Scan(&id).Error)
	return id
}

// Company inserta una empresa activa y devuelve su id.
func Company(t *testing.T, db *gorm.DB, name, taxID string, planID int64) int64 {
	t.Helper()
	var id int64
	require.NoError(t, db.Raw("INSERT INTO empresas (nombre_empresa, numero_documento, id_plan) VALUES (?, ?, ?) RETURNING id_empresa",
		name, taxID, planID).Scan(&id).Error)
	return id
}

// Profile inserta un perfil; companyID nil = global.
func Profile(t *testing.T, db *gorm.DB, name string, companyID *int64) int64 {
	t.Helper()
	var id int64
	require.NoError(t, db.Raw("INSERT INTO perfiles (nombre_perfil, id_empresa) VALUES (?, ?) RETURNING id_perfil",
		name, companyID).Scan(&id).Error)
	return id
}
