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

var _ dispatch.VerbHandler = (*CompanyTypeHandler)(nil)

// CompanyTypeHandler rangos de empleados por tamaño de empresa.
type CompanyTypeHandler struct {
	*dispatch.GenericHandler
}

// NewCompanyTypeHandler construye el manejador de tipo-empresa.
func NewCompanyTypeHandler(deps Deps) *CompanyTypeHandler {
	return &CompanyTypeHandler{
		GenericHandler: dispatch.NewGenericHandler(deps.Generic, deps.Resources.MustGet(resource.TipoEmpresa)),
	}
}

// Create valida tamaño y rango.
func (h *CompanyTypeHandler) Create(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	fields, err := h.PrepareCreate(req.Object())
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := validateRange(fields, nil); err != nil {
		return dispatch.Response{}, err
	}
	id, err := h.Repo().Insert(ctx, h.Descriptor(), fields)
	if err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusCreated, dto.Created(id)), nil
}

// Update valida el rango resultante combinando lo enviado con lo guardado.
func (h *CompanyTypeHandler) Update(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	fields, err := h.PrepareUpdate(req)
	if err != nil {
		return dispatch.Response{}, err
	}
	current, err := h.Find(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := validateRange(fields, current); err != nil {
		return dispatch.Response{}, err
	}
	if err := h.Apply(ctx, req.ID, fields); err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, dto.Message(dto.MsgUpdated)), nil
}

func validateRange(fields, current repository.Row) error {
	normalizeText(fields, "sector")
	if err := oneOf(fields, "tamano_empresa", resource.CompanySizes); err != nil {
		return err
	}
	for _, col := range []string{"empleados_desde", "empleados_hasta", "cantidad_sede"} {
		if err := nonNegativeInt(fields, col); err != nil {
			return err
		}
	}
	from, okFrom := dispatch.Int64(merged(fields, current, "empleados_desde"))
	to, okTo := dispatch.Int64(merged(fields, current, "empleados_hasta"))
	if okFrom && okTo && from > to {
		return domain.Invalid("empleados_desde", "empleados_desde (%d) no puede ser mayor que empleados_hasta (%d)", from, to)
	}
	return nil
}
