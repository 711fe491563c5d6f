package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/sst-manager-api/pkg/config"
	"github.com/jhoicas/sst-manager-api/pkg/logger"
)

// DB conexión abierta para el motor configurado.
type DB struct {
	Gorm *gorm.DB
	pool *pgxpool.Pool
}

// Close libera la conexión y, en PostgreSQL, el pool pgx.
func (d *DB) Close() error {
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return err
	}
	err = sqlDB.Close()
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

// Open abre la base de datos según cfg.Driver y aplica el esquema si AutoMigrate está activo.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*DB, error) {
	gcfg := &gorm.Config{
		Logger: gormlogger.New(log.Named("gorm"), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	db := &DB{}
	var err error
	switch cfg.Driver {
	case config.DriverPostgres, "":
		db.pool, err = NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db.Gorm, err = gorm.Open(postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(db.pool)}), gcfg)
	case config.DriverMySQL:
		db.Gorm, err = gorm.Open(mysql.Open(cfg.MySQLDSN()), gcfg)
	case config.DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "file::memory:?cache=shared"
		}
		db.Gorm, err = gorm.Open(sqlite.Open(path), gcfg)
		if err == nil {
			if sqlDB, e := db.Gorm.DB(); e == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
	default:
		return nil, fmt.Errorf("driver de base de datos no soportado: %s", cfg.Driver)
	}
	if err != nil {
		if db.pool != nil {
			db.pool.Close()
		}
		return nil, fmt.Errorf("abrir %s: %w", cfg.Driver, err)
	}

	if cfg.AutoMigrate {
		if err := Migrate(ctx, db.Gorm); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}
