package repository

import (
	"context"

	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
)

// PlanRepository lecturas de planes con sus módulos visibles.
type PlanRepository interface {
	List(ctx context.Context, includeInactive bool) ([]entity.Plan, error)
	GetByID(ctx context.Context, id int64) (*entity.Plan, error)
	CountActiveCompanies(ctx context.Context, planID int64) (int64, error)
}
