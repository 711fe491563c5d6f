package usecase

import (
	"context"
	"net/http"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

var _ dispatch.VerbHandler = (*FormHandler)(nil)

// FormHandler formularios con tipo de norma cerrado.
type FormHandler struct {
	*dispatch.GenericHandler
}

// NewFormHandler construye el manejador de formularios.
func NewFormHandler(deps Deps) *FormHandler {
	return &FormHandler{
		GenericHandler: dispatch.NewGenericHandler(deps.Generic, deps.Resources.MustGet(resource.Formularios)),
	}
}

func (h *FormHandler) Create(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	fields, err := h.PrepareCreate(req.Object())
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := validateForm(fields); err != nil {
		return dispatch.Response{}, err
	}
	id, err := h.Repo().Insert(ctx, h.Descriptor(), fields)
	if err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusCreated, dto.Created(id)), nil
}

func (h *FormHandler) Update(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	fields, err := h.PrepareUpdate(req)
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := validateForm(fields); err != nil {
		return dispatch.Response{}, err
	}
	if err := h.Apply(ctx, req.ID, fields); err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, dto.Message(dto.MsgUpdated)), nil
}

func validateForm(fields repository.Row) error {
	normalizeText(fields, "nombre")
	return oneOf(fields, "tipo_norma", resource.FormNorms)
}
