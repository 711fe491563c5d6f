package repository

import (
	"context"

	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
)

// CompanyRepository lecturas de empresas con el nombre del plan (LEFT JOIN).
type CompanyRepository interface {
	List(ctx context.Context, includeInactive bool) ([]entity.Company, error)
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
	CountActiveUsers(ctx context.Context, companyID int64) (int64, error)
}
