package repository

import (
	"context"

	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
)

// ProfileRepository lecturas de perfiles globales y por empresa.
type ProfileRepository interface {
	// ListVisible perfiles activos de la empresa más los globales; companyID nil = solo globales.
	ListVisible(ctx context.Context, companyID *int64) ([]entity.Profile, error)
	GetByID(ctx context.Context, id int64) (*entity.Profile, error)
}
