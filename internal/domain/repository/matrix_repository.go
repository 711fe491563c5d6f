package repository

import (
	"context"

	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

// MatrixRepository persistencia de las tablas puente padre↔módulo.
type MatrixRepository interface {
	Clear(ctx context.Context, m resource.Matrix, parentID int64) error
	Insert(ctx context.Context, m resource.Matrix, parentID int64, items []entity.MatrixItem) error
	Rows(ctx context.Context, m resource.Matrix, parentID int64) ([]entity.MatrixRow, error)
}
