package storage

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

// isUniqueViolation detecta violaciones de constraint único en los tres motores:
// PostgreSQL 23505, MySQL 1062 y el mensaje de SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062 // ER_DUP_ENTRY
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "23505")
}

// wrapErr traduce un error del motor: duplicados a conflicto, el resto a StorageError.
func wrapErr(op string, d *resource.Descriptor, err error) error {
	if err == nil {
		return nil
	}
	name := ""
	if d != nil {
		name = d.Table
	}
	if isUniqueViolation(err) {
		return domain.Conflict(name, domain.ErrDuplicate, "registro duplicado en %s: %v", name, err)
	}
	return &domain.StorageError{Op: op, Resource: name, Err: err}
}

// wrapTableErr como wrapErr para tablas sin descriptor (matrices).
func wrapTableErr(op, table string, err error) error {
	return wrapErr(op, &resource.Descriptor{Table: table}, err)
}
