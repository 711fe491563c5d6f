// Package permission sincroniza las matrices padre↔módulo (perfil_permisos y plan_modulos)
// con la estrategia borrar-y-reinsertar dentro de una transacción.
package permission

import (
	"context"
	"fmt"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
	"github.com/jhoicas/sst-manager-api/pkg/metrics"
)

// Synchronizer reemplaza y lee la matriz de un padre. Una instancia por resource.Matrix.
type Synchronizer struct {
	matrix  resource.Matrix
	parent  *resource.Descriptor
	generic repository.GenericRepository
	repo    repository.MatrixRepository
	modules repository.ModuleRepository
	tx      repository.TxRunner
	metrics *metrics.Metrics
}

// Deps colaboradores del sincronizador.
type Deps struct {
	Resources *resource.Registry
	Generic   repository.GenericRepository
	Matrix    repository.MatrixRepository
	Modules   repository.ModuleRepository
	Tx        repository.TxRunner
	Metrics   *metrics.Metrics
}

// NewSynchronizer construye el sincronizador de m.
func NewSynchronizer(m resource.Matrix, deps Deps) *Synchronizer {
	return &Synchronizer{
		matrix:  m,
		parent:  deps.Resources.MustGet(m.Parent),
		generic: deps.Generic,
		repo:    deps.Matrix,
		modules: deps.Modules,
		tx:      deps.Tx,
		metrics: deps.Metrics,
	}
}

// Descriptor tabla puente que sincroniza.
func (s *Synchronizer) Descriptor() resource.Matrix { return s.matrix }

// Decode interpreta el cuerpo de una sincronización: un arreglo de items o un objeto con
// "permisos" o "modulos". Cualquier item inválido rechaza el lote completo.
func (s *Synchronizer) Decode(body any) ([]entity.MatrixItem, error) {
	var list []any
	switch b := body.(type) {
	case nil:
		return []entity.MatrixItem{}, nil
	case []any:
		list = b
	case map[string]any:
		raw, ok := b["permisos"]
		if !ok {
			raw, ok = b["modulos"]
		}
		if !ok || raw == nil {
			return []entity.MatrixItem{}, nil
		}
		if list, ok = raw.([]any); !ok {
			return nil, domain.Invalid("permisos", "se esperaba una lista de módulos")
		}
	default:
		return nil, domain.Invalid("", "cuerpo de sincronización inválido")
	}
	return s.DecodeList(list)
}

// DecodeList valida cada item: objeto con id_modulo entero positivo y sin módulos repetidos.
func (s *Synchronizer) DecodeList(list []any) ([]entity.MatrixItem, error) {
	items := make([]entity.MatrixItem, 0, len(list))
	seen := make(map[int64]bool, len(list))
	for i, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, domain.Invalid("id_modulo", "item %d: se esperaba un objeto", i)
		}
		id, ok := dispatch.Int64(obj["id_modulo"])
		if !ok || id <= 0 {
			return nil, domain.Invalid("id_modulo", "item %d: id_modulo faltante o inválido", i)
		}
		if seen[id] {
			return nil, domain.Invalid("id_modulo", "item %d: módulo %d repetido", i, id)
		}
		seen[id] = true
		flags := make(map[string]bool, len(s.matrix.Flags))
		for _, f := range s.matrix.Flags {
			flags[f.Key] = dispatch.Bool(obj[f.Key])
		}
		items = append(items, entity.MatrixItem{ModuleID: id, Flags: flags})
	}
	return items, nil
}

// Save reemplaza la matriz del padre: borra todas sus filas (también con lista vacía) e
// inserta una por item, todo en una transacción. Si ctx ya trae una, se une a ella.
func (s *Synchronizer) Save(ctx context.Context, parentID int64, items []entity.MatrixItem) error {
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		if err := s.requireParent(ctx, parentID); err != nil {
			return err
		}
		if err := s.requireModules(ctx, items); err != nil {
			return err
		}
		if err := s.repo.Clear(ctx, s.matrix, parentID); err != nil {
			return err
		}
		return s.repo.Insert(ctx, s.matrix, parentID, items)
	})
	s.metrics.SyncDone(s.matrix.Name, len(items), err)
	return err
}

// Matrix matriz plana: una fila por módulo configurado, ordenada por módulo.
func (s *Synchronizer) Matrix(ctx context.Context, parentID int64) ([]map[string]any, error) {
	if err := s.requireParent(ctx, parentID); err != nil {
		return nil, err
	}
	rows, err := s.repo.Rows(ctx, s.matrix, parentID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		m := map[string]any{"id_modulo": r.ModuleID, "nombre_modulo": r.ModuleName}
		for _, f := range s.matrix.Flags {
			m[f.Key] = r.Flags[f.Key]
		}
		out = append(out, m)
	}
	return out, nil
}

// Expanded vista completa: todos los módulos activos, con false en los no configurados.
func (s *Synchronizer) Expanded(ctx context.Context, parentID int64) (map[string]any, error) {
	if err := s.requireParent(ctx, parentID); err != nil {
		return nil, err
	}
	rows, err := s.repo.Rows(ctx, s.matrix, parentID)
	if err != nil {
		return nil, err
	}
	mods, err := s.modules.List(ctx, false)
	if err != nil {
		return nil, err
	}
	byModule := make(map[int64]map[string]bool, len(rows))
	for _, r := range rows {
		byModule[r.ModuleID] = r.Flags
	}
	expanded := make(map[int64]map[string]bool, len(mods))
	for _, m := range mods {
		flags := make(map[string]bool, len(s.matrix.Flags))
		for _, f := range s.matrix.Flags {
			flags[f.Key] = byModule[m.ID][f.Key]
		}
		expanded[m.ID] = flags
	}
	return map[string]any{s.matrix.ParentColumn: parentID, "modulos": expanded}, nil
}

func (s *Synchronizer) requireParent(ctx context.Context, parentID int64) error {
	if parentID <= 0 {
		return domain.Invalid(s.matrix.ParentColumn, "ID requerido")
	}
	row, err := s.generic.FindByID(ctx, s.parent, parentID)
	if err != nil {
		return err
	}
	if row == nil {
		return domain.NotFound(s.parent.Name, "registro no encontrado en la tabla %s", s.parent.Table)
	}
	return nil
}

func (s *Synchronizer) requireModules(ctx context.Context, items []entity.MatrixItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ModuleID
	}
	existing, err := s.modules.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[int64]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range ids {
		if !found[id] {
			return domain.Invalid("id_modulo", "%s", fmt.Sprintf("el módulo %d no existe", id))
		}
	}
	return nil
}
