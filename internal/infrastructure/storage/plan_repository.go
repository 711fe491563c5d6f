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

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo lecturas de planes con sus módulos.
type PlanRepo struct {
	db *gorm.DB
}

// NewPlanRepository construye el adaptador de lectura para planes.
func NewPlanRepository(db *gorm.DB) *PlanRepo {
	return &PlanRepo{db: db}
}

const planSelect = `
	SELECT id_plan, nombre_plan, COALESCE(descripcion, ''), COALESCE(limite_usuarios, 0),
		precio_mensual, estado
	FROM planes`

func scanPlan(s scanner) (entity.Plan, error) {
	var p entity.Plan
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.UserLimit, &p.MonthlyPrice, &p.Status)
	return p, err
}

// List devuelve los planes con sus módulos visibles.
func (r *PlanRepo) List(ctx context.Context, includeInactive bool) ([]entity.Plan, error) {
	query := planSelect
	if !includeInactive {
		query += " WHERE estado = 1"
	}
	query += " ORDER BY id_plan"

	rows, err := conn(ctx, r.db).Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", wrapTableErr("select", "planes", err))
	}
	defer rows.Close()

	out := []entity.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachModules(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un plan con sus módulos. nil, nil si no existe.
func (r *PlanRepo) GetByID(ctx context.Context, id int64) (*entity.Plan, error) {
	p, err := scanPlan(conn(ctx, r.db).Raw(planSelect+" WHERE id_plan = ?", id).Row())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", wrapTableErr("select", "planes", err))
	}
	plans := []entity.Plan{p}
	if err := r.attachModules(ctx, plans); err != nil {
		return nil, err
	}
	return &plans[0], nil
}

// CountActiveCompanies cuenta las empresas activas con este plan.
func (r *PlanRepo) CountActiveCompanies(ctx context.Context, planID int64) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Table("empresas").Where("id_plan = ? AND estado = 1", planID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count companies: %w", wrapTableErr("select", "empresas", err))
	}
	return n, nil
}

func (r *PlanRepo) attachModules(ctx context.Context, plans []entity.Plan) error {
	if len(plans) == 0 {
		return nil
	}
	ids := make([]int64, len(plans))
	index := make(map[int64]int, len(plans))
	for i := range plans {
		ids[i] = plans[i].ID
		index[plans[i].ID] = i
		plans[i].Modules = []entity.PlanModule{}
	}

	rows, err := conn(ctx, r.db).Raw(`
		SELECT pm.id_plan, pm.id_modulo, COALESCE(m.nombre_modulo, ''), pm.ver
		FROM plan_modulos pm
		LEFT JOIN modulos m ON m.id_modulo = pm.id_modulo
		WHERE pm.id_plan IN ?
		ORDER BY pm.id_plan, pm.id_modulo`, ids).Rows()
	if err != nil {
		return fmt.Errorf("list plan modules: %w", wrapTableErr("select", "plan_modulos", err))
	}
	defer rows.Close()

	for rows.Next() {
		var pm entity.PlanModule
		var visible sql.NullBool
		if err := rows.Scan(&pm.PlanID, &pm.ModuleID, &pm.ModuleName, &visible); err != nil {
			return fmt.Errorf("scan plan module: %w", err)
		}
		pm.Visible = visible.Valid && visible.Bool
		i := index[pm.PlanID]
		plans[i].Modules = append(plans[i].Modules, pm)
	}
	return rows.Err()
}
