package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

var _ repository.MatrixRepository = (*MatrixRepo)(nil)

// MatrixRepo persistencia de perfil_permisos y plan_modulos.
type MatrixRepo struct {
	db *gorm.DB
}

// NewMatrixRepository construye el repositorio de matrices.
func NewMatrixRepository(db *gorm.DB) *MatrixRepo {
	return &MatrixRepo{db: db}
}

// Clear borra todas las filas del padre.
func (r *MatrixRepo) Clear(ctx context.Context, m resource.Matrix, parentID int64) error {
	err := conn(ctx, r.db).Exec("DELETE FROM ? WHERE ? = ?",
		clause.Table{Name: m.Table}, clause.Column{Name: m.ParentColumn}, parentID).Error
	if err != nil {
		return wrapTableErr("delete", m.Table, err)
	}
	return nil
}

// Insert agrega una fila por item. Las capacidades ausentes se guardan en false.
func (r *MatrixRepo) Insert(ctx context.Context, m resource.Matrix, parentID int64, items []entity.MatrixItem) error {
	db := conn(ctx, r.db)
	cols := []any{clause.Column{Name: m.ParentColumn}, clause.Column{Name: m.ModuleColumn}}
	for _, f := range m.Flags {
		cols = append(cols, clause.Column{Name: f.Column})
	}
	for _, it := range items {
		vals := []any{parentID, it.ModuleID}
		for _, f := range m.Flags {
			vals = append(vals, it.Flags[f.Key])
		}
		if err := db.Exec("INSERT INTO ? ? VALUES ?", clause.Table{Name: m.Table}, cols, vals).Error; err != nil {
			return wrapTableErr("insert", m.Table, fmt.Errorf("módulo %d: %w", it.ModuleID, err))
		}
	}
	return nil
}

// Rows lee la matriz del padre con el nombre de cada módulo (LEFT JOIN), ordenada por módulo.
func (r *MatrixRepo) Rows(ctx context.Context, m resource.Matrix, parentID int64) ([]entity.MatrixRow, error) {
	selects := []string{"p." + m.ModuleColumn, "COALESCE(mo.nombre_modulo, '')"}
	for _, f := range m.Flags {
		selects = append(selects, "p."+f.Column)
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		LEFT JOIN modulos mo ON mo.id_modulo = p.%s
		WHERE p.%s = ?
		ORDER BY p.%s`,
		strings.Join(selects, ", "), m.Table, m.ModuleColumn, m.ParentColumn, m.ModuleColumn)

	rows, err := conn(ctx, r.db).Raw(query, parentID).Rows()
	if err != nil {
		return nil, wrapTableErr("select", m.Table, err)
	}
	defer rows.Close()

	out := []entity.MatrixRow{}
	for rows.Next() {
		row := entity.MatrixRow{ParentID: parentID, Flags: make(map[string]bool, len(m.Flags))}
		flags := make([]sql.NullBool, len(m.Flags))
		dest := []any{&row.ModuleID, &row.ModuleName}
		for i := range flags {
			dest = append(dest, &flags[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, wrapTableErr("select", m.Table, err)
		}
		for i, f := range m.Flags {
			row.Flags[f.Key] = flags[i].Valid && flags[i].Bool
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapTableErr("select", m.Table, err)
	}
	return out, nil
}
