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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo lecturas de usuarios con su perfil y empresa.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepository construye el adaptador de lectura para usuarios.
func NewUserRepository(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userSelect = `
	SELECT u.id_usuario, u.nombre, COALESCE(u.apellido, ''), u.email,
		COALESCE(u.tipo_documento, 'CC'), u.numero_documento, u.password, u.rol,
		u.id_empresa, COALESCE(e.nombre_empresa, ''),
		COALESCE(u.id_perfil, 0), COALESCE(pf.nombre_perfil, ''), u.estado
	FROM usuarios u
	LEFT JOIN perfiles pf ON pf.id_perfil = u.id_perfil
	LEFT JOIN empresas e ON e.id_empresa = u.id_empresa`

func scanUser(s scanner) (entity.User, error) {
	var u entity.User
	err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.DocumentType, &u.DocumentNumber,
		&u.PasswordHash, &u.Role, &u.CompanyID, &u.CompanyName, &u.ProfileID, &u.ProfileName, &u.Status)
	return u, err
}

// List devuelve los usuarios de la empresa (o de todas si companyID es nil).
func (r *UserRepo) List(ctx context.Context, companyID *int64, includeInactive bool) ([]entity.User, error) {
	query := userSelect + " WHERE 1 = 1"
	var args []any
	if companyID != nil {
		query += " AND u.id_empresa = ?"
		args = append(args, *companyID)
	}
	if !includeInactive {
		query += " AND u.estado = 1"
	}
	query += " ORDER BY u.id_usuario"

	rows, err := conn(ctx, r.db).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", wrapTableErr("select", "usuarios", err))
	}
	defer rows.Close()

	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetByID obtiene un usuario por id. nil, nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, " WHERE u.id_usuario = ?", id)
}

// FindByEmail obtiene un usuario por email (cualquier empresa).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, " WHERE u.email = ?", email)
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u, err := scanUser(conn(ctx, r.db).Raw(userSelect+where, arg).Row())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", wrapTableErr("select", "usuarios", err))
	}
	return &u, nil
}
