package repository

import (
	"context"

	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
)

// ModuleRepository lecturas del árbol de módulos.
type ModuleRepository interface {
	List(ctx context.Context, includeInactive bool) ([]entity.Module, error)
	GetByID(ctx context.Context, id int64) (*entity.Module, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}
