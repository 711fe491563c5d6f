package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

var _ VerbHandler = (*GenericHandler)(nil)

// GenericHandler CRUD guiado por el descriptor del recurso. Los manejadores específicos lo
// embeben y sobrescriben los verbos que necesitan.
type GenericHandler struct {
	repo repository.GenericRepository
	d    *resource.Descriptor
}

// NewGenericHandler construye el manejador genérico para d.
func NewGenericHandler(repo repository.GenericRepository, d *resource.Descriptor) *GenericHandler {
	return &GenericHandler{repo: repo, d: d}
}

// Descriptor descriptor del recurso.
func (h *GenericHandler) Descriptor() *resource.Descriptor { return h.d }

// Repo repositorio genérico subyacente.
func (h *GenericHandler) Repo() repository.GenericRepository { return h.repo }

// List devuelve las filas activas (o todas con ?todos=true) aplicando los filtros del descriptor.
func (h *GenericHandler) List(ctx context.Context, req *Request) (Response, error) {
	rows, err := h.repo.ListAll(ctx, h.d, h.ListFilter(req))
	if err != nil {
		return Response{}, err
	}
	return JSON(http.StatusOK, rows), nil
}

// ListFilter filtro de listado a partir de la query.
func (h *GenericHandler) ListFilter(req *Request) repository.Filter {
	f := repository.Filter{}
	if h.d.HasStatus() && !req.Flag("todos") {
		f[h.d.StatusColumn] = h.d.Active
	}
	for param, col := range h.d.Filters {
		if v := req.Param(param); v != "" {
			f[col] = queryValue(v)
		}
	}
	return f
}

// Get devuelve una fila por id.
func (h *GenericHandler) Get(ctx context.Context, req *Request) (Response, error) {
	row, err := h.Find(ctx, req.ID)
	if err != nil {
		return Response{}, err
	}
	return JSON(http.StatusOK, row), nil
}

// Find obtiene la fila o un error NotFound.
func (h *GenericHandler) Find(ctx context.Context, id int64) (repository.Row, error) {
	row, err := h.repo.FindByID(ctx, h.d, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, h.NotFound()
	}
	return row, nil
}

// NotFound error de registro inexistente en la tabla del recurso.
func (h *GenericHandler) NotFound() error {
	return domain.NotFound(h.d.Name, "registro no encontrado en la tabla %s", h.d.Table)
}

// Create inserta un objeto, o un lote si el cuerpo es un arreglo.
func (h *GenericHandler) Create(ctx context.Context, req *Request) (Response, error) {
	if items, ok := req.Body.([]any); ok {
		return h.createBatch(ctx, items)
	}
	fields, err := h.PrepareCreate(req.Object())
	if err != nil {
		return Response{}, err
	}
	if err := h.CheckUnique(ctx, fields, nil, 0); err != nil {
		return Response{}, err
	}
	id, err := h.repo.Insert(ctx, h.d, fields)
	if err != nil {
		return Response{}, err
	}
	return JSON(http.StatusCreated, dto.Created(id)), nil
}

func (h *GenericHandler) createBatch(ctx context.Context, items []any) (Response, error) {
	if len(items) == 0 {
		return Response{}, domain.Invalid("", "no se enviaron datos para crear")
	}
	rows := make([]repository.Row, 0, len(items))
	for i, it := range items {
		obj, _ := it.(map[string]any)
		fields, err := h.PrepareCreate(obj)
		if err != nil {
			return Response{}, fmt.Errorf("fila %d: %w", i, err)
		}
		if err := h.CheckUnique(ctx, fields, nil, 0); err != nil {
			return Response{}, fmt.Errorf("fila %d: %w", i, err)
		}
		rows = append(rows, fields)
	}
	ids, err := h.repo.InsertBatch(ctx, h.d, rows)
	if err != nil {
		return Response{}, err
	}
	return JSON(http.StatusCreated, dto.CreatedBatch(ids)), nil
}

// PrepareCreate normaliza el cuerpo y verifica los campos requeridos.
func (h *GenericHandler) PrepareCreate(body map[string]any) (repository.Row, error) {
	if len(body) == 0 {
		return nil, domain.Invalid("", "no se enviaron datos para crear")
	}
	fields := h.d.Normalize(body)
	if len(fields) == 0 {
		return nil, domain.Invalid("", "no se enviaron datos para crear")
	}
	if missing := h.d.Missing(fields); len(missing) > 0 {
		return nil, domain.Invalid(missing[0], "campos requeridos faltantes: %s", strings.Join(missing, ", "))
	}
	return fields, nil
}

// CheckUnique verifica cada clave única tocada por fields. current completa las columnas
// que no vienen en fields (actualizaciones); excludeID omite el propio registro.
func (h *GenericHandler) CheckUnique(ctx context.Context, fields, current repository.Row, excludeID int64) error {
	for _, key := range h.d.Unique {
		match := repository.Filter{}
		touched := false
		for _, col := range key {
			v, ok := fields[col]
			if ok {
				touched = true
			} else {
				v = current[col]
			}
			match[col] = v
		}
		if !touched {
			continue
		}
		exists, err := h.repo.Exists(ctx, h.d, match, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict(h.d.Name, domain.ErrDuplicate,
				"ya existe un registro en %s con %s", h.d.Table, describe(match))
		}
	}
	return nil
}

// Update modifica las columnas enviadas de un registro existente.
func (h *GenericHandler) Update(ctx context.Context, req *Request) (Response, error) {
	fields, err := h.PrepareUpdate(req)
	if err != nil {
		return Response{}, err
	}
	current, err := h.Find(ctx, req.ID)
	if err != nil {
		return Response{}, err
	}
	if err := h.CheckUnique(ctx, fields, current, req.ID); err != nil {
		return Response{}, err
	}
	if err := h.Apply(ctx, req.ID, fields); err != nil {
		return Response{}, err
	}
	return JSON(http.StatusOK, dto.Message(dto.MsgUpdated)), nil
}

// PrepareUpdate exige id y cuerpo y normaliza los campos.
func (h *GenericHandler) PrepareUpdate(req *Request) (repository.Row, error) {
	body := req.Object()
	if !req.HasID() || len(body) == 0 {
		return nil, domain.Invalid("", "ID o datos faltantes para actualizar")
	}
	fields := h.d.Normalize(body)
	if len(fields) == 0 {
		return nil, domain.Invalid("", "ID o datos faltantes para actualizar")
	}
	return fields, nil
}

// Apply escribe fields; un id inexistente es NotFound.
func (h *GenericHandler) Apply(ctx context.Context, id int64, fields repository.Row) error {
	ok, err := h.repo.Update(ctx, h.d, id, fields)
	if err != nil {
		return err
	}
	if !ok {
		return h.NotFound()
	}
	return nil
}

// Delete borra o desactiva según el descriptor.
func (h *GenericHandler) Delete(ctx context.Context, req *Request) (Response, error) {
	if !req.HasID() {
		return Response{}, domain.Invalid("", "ID requerido para eliminar")
	}
	if err := h.Remove(ctx, req.ID); err != nil {
		return Response{}, err
	}
	return JSON(http.StatusOK, dto.Message(dto.MsgDeleted)), nil
}

// Remove borrado lógico (con cascada) o físico según el descriptor.
func (h *GenericHandler) Remove(ctx context.Context, id int64) error {
	var (
		ok  bool
		err error
	)
	if h.d.SoftDelete {
		ok, err = h.repo.SoftDelete(ctx, h.d, id)
	} else {
		ok, err = h.repo.Delete(ctx, h.d, id)
	}
	if err != nil {
		return err
	}
	if !ok {
		return h.NotFound()
	}
	return nil
}

func describe(match repository.Filter) string {
	keys := make([]string, 0, len(match))
	for k := range match {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		if match[k] == nil {
			parts[i] = k + " vacío"
			continue
		}
		parts[i] = fmt.Sprintf("%s = %v", k, match[k])
	}
	return strings.Join(parts, ", ")
}
