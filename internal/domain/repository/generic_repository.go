package repository

import (
	"context"

	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

// Row fila dinámica indexada por nombre de columna.
type Row = map[string]any

// Filter condiciones de igualdad; un valor nil se traduce a IS NULL.
type Filter = map[string]any

// GenericRepository CRUD uniforme sobre cualquier tabla descrita por un Descriptor.
// No verifica unicidad ni cascadas de negocio: eso es responsabilidad de los casos de uso.
type GenericRepository interface {
	ListAll(ctx context.Context, d *resource.Descriptor, f Filter) ([]Row, error)
	FindByID(ctx context.Context, d *resource.Descriptor, id int64) (Row, error) // nil, nil si no existe
	Insert(ctx context.Context, d *resource.Descriptor, fields Row) (int64, error)
	InsertBatch(ctx context.Context, d *resource.Descriptor, rows []Row) ([]int64, error)
	Update(ctx context.Context, d *resource.Descriptor, id int64, fields Row) (bool, error)
	Delete(ctx context.Context, d *resource.Descriptor, id int64) (bool, error)
	SoftDelete(ctx context.Context, d *resource.Descriptor, id int64) (bool, error)
	Exists(ctx context.Context, d *resource.Descriptor, match Filter, excludeID int64) (bool, error)
	Count(ctx context.Context, d *resource.Descriptor, match Filter) (int64, error)
}
