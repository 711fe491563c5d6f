package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
)

var _ repository.ModuleRepository = (*ModuleRepo)(nil)

// ModuleRepo lecturas del árbol de módulos.
type ModuleRepo struct {
	db *gorm.DB
}

// NewModuleRepository construye el adaptador de lectura para módulos.
func NewModuleRepository(db *gorm.DB) *ModuleRepo {
	return &ModuleRepo{db: db}
}

const moduleSelect = `
	SELECT id_modulo, id_padre, nombre_modulo, COALESCE(descripcion, ''), COALESCE(icono, ''), estado
	FROM modulos`

func scanModule(s scanner) (entity.Module, error) {
	var m entity.Module
	err := s.Scan(&m.ID, &m.ParentID, &m.Name, &m.Description, &m.Icon, &m.Status)
	return m, err
}

// List devuelve los módulos en orden de árbol: cada módulo seguido de sus funciones.
func (r *ModuleRepo) List(ctx context.Context, includeInactive bool) ([]entity.Module, error) {
	query := moduleSelect
	if !includeInactive {
		query += " WHERE estado = 1"
	}
	query += " ORDER BY COALESCE(id_padre, id_modulo), CASE WHEN id_padre IS NULL THEN 0 ELSE 1 END, id_modulo"

	rows, err := conn(ctx, r.db).Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", wrapTableErr("select", "modulos", err))
	}
	defer rows.Close()

	out := []entity.Module{}
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID obtiene un módulo. nil, nil si no existe.
func (r *ModuleRepo) GetByID(ctx context.Context, id int64) (*entity.Module, error) {
	m, err := scanModule(conn(ctx, r.db).Raw(moduleSelect+" WHERE id_modulo = ?", id).Row())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get module: %w", wrapTableErr("select", "modulos", err))
	}
	return &m, nil
}

// CountChildren cuenta las funciones colgadas del módulo.
func (r *ModuleRepo) CountChildren(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).Table("modulos").Where("id_padre = ?", id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count children: %w", wrapTableErr("select", "modulos", err))
	}
	return n, nil
}

// ExistingIDs devuelve cuáles de ids existen en la tabla de módulos.
func (r *ModuleRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	out := []int64{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := conn(ctx, r.db).Table("modulos").Where("id_modulo IN ?", ids).Pluck("id_modulo", &out).Error; err != nil {
		return nil, fmt.Errorf("existing modules: %w", wrapTableErr("select", "modulos", err))
	}
	return out, nil
}
