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

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo lecturas de perfiles.
type ProfileRepo struct {
	db *gorm.DB
}

// NewProfileRepository construye el adaptador de lectura para perfiles.
func NewProfileRepository(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileSelect = `
	SELECT id_perfil, nombre_perfil, COALESCE(descripcion, ''), id_empresa, estado
	FROM perfiles`

func scanProfile(s scanner) (entity.Profile, error) {
	var p entity.Profile
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.CompanyID, &p.Status)
	return p, err
}

// ListVisible perfiles activos globales más los de la empresa indicada.
func (r *ProfileRepo) ListVisible(ctx context.Context, companyID *int64) ([]entity.Profile, error) {
	var rows *sql.Rows
	var err error
	if companyID != nil {
		rows, err = conn(ctx, r.db).Raw(profileSelect+
			" WHERE (id_empresa = ? OR id_empresa IS NULL) AND estado = 1 ORDER BY id_perfil", *companyID).Rows()
	} else {
		rows, err = conn(ctx, r.db).Raw(profileSelect +
			" WHERE id_empresa IS NULL AND estado = 1 ORDER BY id_perfil").Rows()
	}
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", wrapTableErr("select", "perfiles", err))
	}
	defer rows.Close()

	out := []entity.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID obtiene un perfil. nil, nil si no existe.
func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (*entity.Profile, error) {
	p, err := scanProfile(conn(ctx, r.db).Raw(profileSelect+" WHERE id_perfil = ?", id).Row())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", wrapTableErr("select", "perfiles", err))
	}
	return &p, nil
}
