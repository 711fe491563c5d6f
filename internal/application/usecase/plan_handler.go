package usecase

import (
	"context"
	"net/http"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/application/permission"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

var (
	_ dispatch.VerbHandler = (*PlanHandler)(nil)
	_ dispatch.Patcher     = (*PlanHandler)(nil)
)

// PlanHandler planes de suscripción con su visibilidad de módulos.
type PlanHandler struct {
	*dispatch.GenericHandler
	plans repository.PlanRepository
	sync  *permission.Synchronizer
	tx    repository.TxRunner
}

// NewPlanHandler construye el manejador de planes.
func NewPlanHandler(deps Deps) *PlanHandler {
	return &PlanHandler{
		GenericHandler: dispatch.NewGenericHandler(deps.Generic, deps.Resources.MustGet(resource.Planes)),
		plans:          deps.Plans,
		sync:           deps.PlanSync,
		tx:             deps.Tx,
	}
}

// List planes activos (o todos con ?todos=true) con sus módulos.
func (h *PlanHandler) List(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	list, err := h.plans.List(ctx, req.Flag("todos"))
	if err != nil {
		return dispatch.Response{}, err
	}
	out := make([]dto.PlanResponse, 0, len(list))
	for i := range list {
		out = append(out, toPlanResponse(&list[i]))
	}
	return dispatch.JSON(http.StatusOK, out), nil
}

// Get un plan con sus módulos.
func (h *PlanHandler) Get(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	p, err := h.plans.GetByID(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	if p == nil {
		return dispatch.Response{}, h.NotFound()
	}
	return dispatch.JSON(http.StatusOK, toPlanResponse(p)), nil
}

// Create inserta el plan y sincroniza "modulos" en la misma transacción.
func (h *PlanHandler) Create(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	body, rawMods, hasMods := take(req.Object(), "modulos")
	fields, err := h.PrepareCreate(body)
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := validatePlan(fields); err != nil {
		return dispatch.Response{}, err
	}
	items, err := h.decodeModules(rawMods, hasMods)
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := h.CheckUnique(ctx, fields, nil, 0); err != nil {
		return dispatch.Response{}, err
	}

	var id int64
	err = h.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		if id, err = h.Repo().Insert(ctx, h.Descriptor(), fields); err != nil {
			return err
		}
		if hasMods {
			return h.sync.Save(ctx, id, items)
		}
		return nil
	})
	if err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusCreated, dto.Created(id)), nil
}

// Update modifica el plan y reemplaza sus módulos si vienen.
func (h *PlanHandler) Update(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	body, rawMods, hasMods := take(req.Object(), "modulos")
	if !req.HasID() || (len(body) == 0 && !hasMods) {
		return dispatch.Response{}, domain.Invalid("", "ID o datos faltantes para actualizar")
	}
	current, err := h.Find(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	fields := h.Descriptor().Normalize(body)
	if err := validatePlan(fields); err != nil {
		return dispatch.Response{}, err
	}
	if deactivates(fields) {
		if err := h.ensureUnused(ctx, req.ID); err != nil {
			return dispatch.Response{}, err
		}
	}
	items, err := h.decodeModules(rawMods, hasMods)
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := h.CheckUnique(ctx, fields, current, req.ID); err != nil {
		return dispatch.Response{}, err
	}

	err = h.tx.Run(ctx, func(ctx context.Context) error {
		if len(fields) > 0 {
			if err := h.Apply(ctx, req.ID, fields); err != nil {
				return err
			}
		}
		if hasMods {
			return h.sync.Save(ctx, req.ID, items)
		}
		return nil
	})
	if err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, dto.Message(dto.MsgUpdated)), nil
}

// Patch igual que Update.
func (h *PlanHandler) Patch(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	return h.Update(ctx, req)
}

// Delete desactiva el plan si ninguna empresa activa lo usa.
func (h *PlanHandler) Delete(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	if !req.HasID() {
		return dispatch.Response{}, domain.Invalid("", "ID requerido para eliminar")
	}
	if _, err := h.Find(ctx, req.ID); err != nil {
		return dispatch.Response{}, err
	}
	if err := h.ensureUnused(ctx, req.ID); err != nil {
		return dispatch.Response{}, err
	}
	if err := h.Remove(ctx, req.ID); err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, dto.Message(dto.MsgDeleted)), nil
}

func (h *PlanHandler) ensureUnused(ctx context.Context, id int64) error {
	n, err := h.plans.CountActiveCompanies(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflict(resource.Planes, domain.ErrInUse,
			"no se puede desactivar el plan: %d empresa(s) activa(s) lo tienen asignado", n)
	}
	return nil
}

func (h *PlanHandler) decodeModules(raw any, present bool) ([]entity.MatrixItem, error) {
	if !present || raw == nil {
		return []entity.MatrixItem{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, domain.Invalid("modulos", "se esperaba una lista de módulos")
	}
	return h.sync.DecodeList(list)
}

func validatePlan(fields repository.Row) error {
	normalizeText(fields, "nombre_plan", "descripcion")
	if v, ok := fields["nombre_plan"]; ok && dispatch.String(v) == "" {
		return domain.Invalid("nombre_plan", "no puede estar vacío")
	}
	if err := nonNegativeInt(fields, "limite_usuarios"); err != nil {
		return err
	}
	return nonNegativeMoney(fields, "precio_mensual")
}

// deactivates indica si fields pasa el registro a inactivo.
func deactivates(fields repository.Row) bool {
	v, ok := fields["estado"]
	if !ok {
		return false
	}
	n, isNum := dispatch.Int64(v)
	return !isNum || n == resource.StatusInactive
}
