package usecase

import (
	"context"
	"net/http"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

var _ dispatch.VerbHandler = (*ModuleHandler)(nil)

// ModuleHandler árbol de dos niveles: módulos (id_padre NULL) y funciones.
type ModuleHandler struct {
	*dispatch.GenericHandler
	modules repository.ModuleRepository
}

// NewModuleHandler construye el manejador de módulos.
func NewModuleHandler(deps Deps) *ModuleHandler {
	return &ModuleHandler{
		GenericHandler: dispatch.NewGenericHandler(deps.Generic, deps.Resources.MustGet(resource.Modulos)),
		modules:        deps.Modules,
	}
}

// List módulos en orden de árbol, cada función tras su módulo.
func (h *ModuleHandler) List(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	list, err := h.modules.List(ctx, req.Flag("todos"))
	if err != nil {
		return dispatch.Response{}, err
	}
	out := make([]dto.ModuleResponse, 0, len(list))
	for i := range list {
		if parent := req.Param("id_padre"); parent != "" {
			if p, ok := dispatch.Int64(parent); !ok || list[i].ParentID == nil || *list[i].ParentID != p {
				continue
			}
		}
		out = append(out, toModuleResponse(&list[i]))
	}
	return dispatch.JSON(http.StatusOK, out), nil
}

// Get un módulo con su tipo.
func (h *ModuleHandler) Get(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	m, err := h.modules.GetByID(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	if m == nil {
		return dispatch.Response{}, h.NotFound()
	}
	return dispatch.JSON(http.StatusOK, toModuleResponse(m)), nil
}

// Create valida nombre único y padre.
func (h *ModuleHandler) Create(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	fields, err := h.PrepareCreate(req.Object())
	if err != nil {
		return dispatch.Response{}, err
	}
	normalizeText(fields, "nombre_modulo", "descripcion", "icono")
	if err := h.validateParent(ctx, fields, 0); err != nil {
		return dispatch.Response{}, err
	}
	if err := h.CheckUnique(ctx, fields, nil, 0); err != nil {
		return dispatch.Response{}, err
	}
	id, err := h.Repo().Insert(ctx, h.Descriptor(), fields)
	if err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusCreated, dto.Created(id)), nil
}

// Update valida padre y unicidad; un módulo con funciones no puede pasar a ser función.
func (h *ModuleHandler) Update(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	fields, err := h.PrepareUpdate(req)
	if err != nil {
		return dispatch.Response{}, err
	}
	current, err := h.Find(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	normalizeText(fields, "nombre_modulo", "descripcion", "icono")
	if err := h.validateParent(ctx, fields, req.ID); err != nil {
		return dispatch.Response{}, err
	}
	if fields["id_padre"] != nil {
		n, err := h.modules.CountChildren(ctx, req.ID)
		if err != nil {
			return dispatch.Response{}, err
		}
		if n > 0 {
			return dispatch.Response{}, domain.Invalid("id_padre",
				"el módulo tiene %d función(es) y no puede convertirse en función", n)
		}
	}
	if err := h.CheckUnique(ctx, fields, current, req.ID); err != nil {
		return dispatch.Response{}, err
	}
	if err := h.Apply(ctx, req.ID, fields); err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, dto.Message(dto.MsgUpdated)), nil
}

// validateParent: id_padre distinto de selfID, existente y de primer nivel.
func (h *ModuleHandler) validateParent(ctx context.Context, fields repository.Row, selfID int64) error {
	parentID, err := optionalID(fields, "id_padre")
	if err != nil || parentID == nil {
		return err
	}
	if *parentID == selfID {
		return domain.Invalid("id_padre", "un módulo no puede ser su propio padre")
	}
	parent, err := h.modules.GetByID(ctx, *parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return domain.Invalid("id_padre", "el módulo padre %d no existe", *parentID)
	}
	if parent.ParentID != nil {
		return domain.Invalid("id_padre", "el módulo padre %d es una función", *parentID)
	}
	return nil
}
