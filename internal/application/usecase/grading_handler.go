package usecase

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

var _ dispatch.VerbHandler = (*GradingHandler)(nil)

// GradingHandler escalas de calificación con sus detalles (alta compuesta).
type GradingHandler struct {
	*dispatch.GenericHandler
	details *dispatch.GenericHandler
	tx      repository.TxRunner
}

// NewGradingHandler construye el manejador de calificaciones.
func NewGradingHandler(deps Deps) *GradingHandler {
	return &GradingHandler{
		GenericHandler: dispatch.NewGenericHandler(deps.Generic, deps.Resources.MustGet(resource.Calificaciones)),
		details:        dispatch.NewGenericHandler(deps.Generic, deps.Resources.MustGet(resource.CalificacionDetalles)),
		tx:             deps.Tx,
	}
}

// Get devuelve la escala con sus detalles activos en "detalles".
func (h *GradingHandler) Get(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	row, err := h.Find(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	dd := h.details.Descriptor()
	details, err := h.Repo().ListAll(ctx, dd, repository.Filter{
		"id_calificacion": req.ID,
		dd.StatusColumn:   dd.Active,
	})
	if err != nil {
		return dispatch.Response{}, err
	}
	row["detalles"] = details
	return dispatch.JSON(http.StatusOK, row), nil
}

// Create inserta la escala y sus "detalles" en una transacción.
func (h *GradingHandler) Create(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	body, rawDetails, _ := take(req.Object(), "detalles")
	fields, err := h.PrepareCreate(body)
	if err != nil {
		return dispatch.Response{}, err
	}
	normalizeText(fields, "nombre")
	var list []any
	if rawDetails != nil {
		var ok bool
		if list, ok = rawDetails.([]any); !ok {
			return dispatch.Response{}, domain.Invalid("detalles", "se esperaba una lista")
		}
	}

	var ids []int64
	err = h.tx.Run(ctx, func(ctx context.Context) error {
		id, err := h.Repo().Insert(ctx, h.Descriptor(), fields)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		for i, raw := range list {
			obj, _ := raw.(map[string]any)
			detail, err := h.details.PrepareCreate(withParent(obj, "id_calificacion", id))
			if err != nil {
				return prefix(detailLabel(i), err)
			}
			if err := validateGradeValue(detail); err != nil {
				return prefix(detailLabel(i), err)
			}
			detailID, err := h.Repo().Insert(ctx, h.details.Descriptor(), detail)
			if err != nil {
				return prefix(detailLabel(i), err)
			}
			ids = append(ids, detailID)
		}
		return nil
	})
	if err != nil {
		return dispatch.Response{}, err
	}
	res := dto.Created(ids[0])
	res.IDs = ids[1:]
	return dispatch.JSON(http.StatusCreated, res), nil
}

func validateGradeValue(fields repository.Row) error {
	normalizeText(fields, "descripcion")
	d, ok := toDecimal(fields["valor"])
	if !ok {
		return domain.Invalid("valor", "debe ser numérico")
	}
	fields["valor"] = d.StringFixed(2)
	return nil
}

func withParent(obj map[string]any, col string, id int64) map[string]any {
	out := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		out[k] = v
	}
	out[col] = id
	return out
}

func detailLabel(i int) string {
	return "detalle " + strconv.Itoa(i)
}
