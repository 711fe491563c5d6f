package repository

import (
	"context"

	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
)

// UserRepository lecturas de usuarios con perfil y empresa (LEFT JOIN).
type UserRepository interface {
	List(ctx context.Context, companyID *int64, includeInactive bool) ([]entity.User, error) // companyID nil = todas
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
