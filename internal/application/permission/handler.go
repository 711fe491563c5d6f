package permission

import (
	"context"
	"net/http"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/domain"
)

// ViewExpanded cuarto segmento de la ruta que pide la vista completa.
const ViewExpanded = "check-all"

// MsgSynced respuesta de una sincronización exitosa.
const MsgSynced = "Accesos sincronizados correctamente"

// SyncResponse cuerpo de respuesta de Save.
type SyncResponse struct {
	Status  int    `json:"status"`
	OK      bool   `json:"ok"`
	Mensaje string `json:"mensaje"`
	Total   int    `json:"total"`
}

// Handler expone un Synchronizer en las rutas <padre>/permisos/<id>.
// GET lee la matriz, POST y PUT la reemplazan, DELETE revoca todo.
type Handler struct {
	sync *Synchronizer
}

// NewHandler construye el manejador de rutas para s.
func NewHandler(s *Synchronizer) *Handler {
	return &Handler{sync: s}
}

// Handle implementa dispatch.Handler.
func (h *Handler) Handle(ctx context.Context, req *dispatch.Request) dispatch.Response {
	res, err := h.serve(ctx, req)
	if err != nil {
		return dispatch.FromError(err)
	}
	return res
}

func (h *Handler) serve(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	switch req.Verb {
	case dispatch.MethodGet, dispatch.MethodPost, dispatch.MethodPut, dispatch.MethodDelete:
	default:
		return dispatch.MethodNotAllowed(req.Verb), nil
	}
	if !req.HasID() {
		return dispatch.Response{}, domain.Invalid(h.sync.matrix.ParentColumn, "ID requerido")
	}

	switch req.Verb {
	case dispatch.MethodGet:
		if req.View == ViewExpanded {
			view, err := h.sync.Expanded(ctx, req.ID)
			if err != nil {
				return dispatch.Response{}, err
			}
			return dispatch.JSON(http.StatusOK, view), nil
		}
		rows, err := h.sync.Matrix(ctx, req.ID)
		if err != nil {
			return dispatch.Response{}, err
		}
		return dispatch.JSON(http.StatusOK, rows), nil
	case dispatch.MethodDelete:
		return h.save(ctx, req.ID, nil)
	default:
		return h.save(ctx, req.ID, req.Body)
	}
}

func (h *Handler) save(ctx context.Context, parentID int64, body any) (dispatch.Response, error) {
	items, err := h.sync.Decode(body)
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := h.sync.Save(ctx, parentID, items); err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, SyncResponse{
		Status: http.StatusOK, OK: true, Mensaje: MsgSynced, Total: len(items),
	}), nil
}
