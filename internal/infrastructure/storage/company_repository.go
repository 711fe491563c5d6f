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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo lecturas de empresas.
type CompanyRepo struct {
	db *gorm.DB
}

// NewCompanyRepository construye el adaptador de lectura para empresas.
func NewCompanyRepository(db *gorm.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companySelect = `
	SELECT e.id_empresa, e.nombre_empresa, COALESCE(e.tipo_documento, 'NIT'), e.numero_documento,
		COALESCE(e.id_plan, 0), COALESCE(p.nombre_plan, ''),
		COALESCE(e.email_contacto, ''), COALESCE(e.telefono, ''), COALESCE(e.direccion, ''), COALESCE(e.logo_url, ''),
		COALESCE(e.nombre_rl, ''), COALESCE(e.documento_rl, ''),
		COALESCE(e.cant_directos, 0), COALESCE(e.cant_contratistas, 0),
		COALESCE(e.cant_aprendices, 0), COALESCE(e.cant_brigadistas, 0),
		e.estado
	FROM empresas e
	LEFT JOIN planes p ON p.id_plan = e.id_plan`

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(s scanner) (entity.Company, error) {
	var c entity.Company
	err := s.Scan(&c.ID, &c.Name, &c.DocumentType, &c.TaxID, &c.PlanID, &c.PlanName,
		&c.Email, &c.Phone, &c.Address, &c.LogoURL, &c.LegalRepName, &c.LegalRepDocument,
		&c.DirectWorkers, &c.Contractors, &c.Apprentices, &c.Brigadists, &c.Status)
	return c, err
}

// List devuelve las empresas (solo activas salvo includeInactive) con el nombre del plan.
func (r *CompanyRepo) List(ctx context.Context, includeInactive bool) ([]entity.Company, error) {
	query := companySelect
	if !includeInactive {
		query += " WHERE e.estado = 1"
	}
	query += " ORDER BY e.id_empresa"

	rows, err := conn(ctx, r.db).Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", wrapTableErr("select", "empresas", err))
	}
	defer rows.Close()

	out := []entity.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID obtiene una empresa por id (activa o no). nil, nil si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	row := conn(ctx, r.db).Raw(companySelect+" WHERE e.id_empresa = ?", id).Row()
	c, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", wrapTableErr("select", "empresas", err))
	}
	return &c, nil
}

// CountActiveUsers cuenta los usuarios activos de la empresa.
func (r *CompanyRepo) CountActiveUsers(ctx context.Context, companyID int64) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Table("usuarios").Where("id_empresa = ? AND estado = 1", companyID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count users: %w", wrapTableErr("select", "usuarios", err))
	}
	return n, nil
}
