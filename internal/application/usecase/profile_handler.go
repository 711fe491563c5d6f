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

var _ dispatch.VerbHandler = (*ProfileHandler)(nil)

// ProfileHandler perfiles globales y por empresa. Acepta "permisos" en el alta y la edición.
type ProfileHandler struct {
	*dispatch.GenericHandler
	profiles repository.ProfileRepository
	sync     *permission.Synchronizer
	tx       repository.TxRunner
}

// NewProfileHandler construye el manejador de perfiles.
func NewProfileHandler(deps Deps) *ProfileHandler {
	return &ProfileHandler{
		GenericHandler: dispatch.NewGenericHandler(deps.Generic, deps.Resources.MustGet(resource.Perfiles)),
		profiles:       deps.Profiles,
		sync:           deps.ProfileSync,
		tx:             deps.Tx,
	}
}

// List perfiles activos de la empresa de la petición más los globales.
func (h *ProfileHandler) List(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	list, err := h.profiles.ListVisible(ctx, req.TenantID())
	if err != nil {
		return dispatch.Response{}, err
	}
	out := make([]dto.ProfileResponse, 0, len(list))
	for i := range list {
		out = append(out, toProfileResponse(&list[i]))
	}
	return dispatch.JSON(http.StatusOK, out), nil
}

// Get un perfil por id.
func (h *ProfileHandler) Get(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	p, err := h.profiles.GetByID(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	if p == nil {
		return dispatch.Response{}, h.NotFound()
	}
	return dispatch.JSON(http.StatusOK, toProfileResponse(p)), nil
}

// Create inserta el perfil y, si vienen, sus permisos en la misma transacción.
// Sin id_empresa en el cuerpo se usa la empresa de la petición.
func (h *ProfileHandler) Create(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	body, rawPerms, hasPerms := take(req.Object(), "permisos")
	fields, err := h.PrepareCreate(body)
	if err != nil {
		return dispatch.Response{}, err
	}
	normalizeText(fields, "nombre_perfil", "descripcion")
	if _, ok := fields["id_empresa"]; !ok {
		if t := req.TenantID(); t != nil {
			fields["id_empresa"] = *t
		}
	}
	if _, err := optionalID(fields, "id_empresa"); err != nil {
		return dispatch.Response{}, err
	}
	items, err := h.decodePerms(rawPerms, hasPerms)
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
		if hasPerms {
			return h.sync.Save(ctx, id, items)
		}
		return nil
	})
	if err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusCreated, dto.Created(id)), nil
}

// Update modifica el perfil y reemplaza sus permisos si vienen. El Master global no se
// renombra, no cambia de empresa ni se desactiva.
func (h *ProfileHandler) Update(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	body, rawPerms, hasPerms := take(req.Object(), "permisos")
	if !req.HasID() || (len(body) == 0 && !hasPerms) {
		return dispatch.Response{}, domain.Invalid("", "ID o datos faltantes para actualizar")
	}
	current, err := h.Find(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	fields := h.Descriptor().Normalize(body)
	normalizeText(fields, "nombre_perfil", "descripcion")
	if _, err := optionalID(fields, "id_empresa"); err != nil {
		return dispatch.Response{}, err
	}
	if protectedProfile(current) && touchesIdentity(fields, current) {
		return dispatch.Response{}, domain.Conflict(resource.Perfiles, domain.ErrProtected,
			"el perfil %s es del sistema y no puede modificarse", entity.MasterProfileName)
	}
	items, err := h.decodePerms(rawPerms, hasPerms)
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
		if hasPerms {
			return h.sync.Save(ctx, req.ID, items)
		}
		return nil
	})
	if err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, dto.Message(dto.MsgUpdated)), nil
}

// Delete desactiva el perfil; el Master global responde 409.
func (h *ProfileHandler) Delete(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	if !req.HasID() {
		return dispatch.Response{}, domain.Invalid("", "ID requerido para eliminar")
	}
	current, err := h.Find(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	if protectedProfile(current) {
		return dispatch.Response{}, domain.Conflict(resource.Perfiles, domain.ErrProtected,
			"el perfil %s es del sistema y no puede eliminarse", entity.MasterProfileName)
	}
	if err := h.Remove(ctx, req.ID); err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, dto.Message(dto.MsgDeleted)), nil
}

func (h *ProfileHandler) decodePerms(raw any, present bool) ([]entity.MatrixItem, error) {
	if !present || raw == nil {
		return []entity.MatrixItem{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, domain.Invalid("permisos", "se esperaba una lista de módulos")
	}
	return h.sync.DecodeList(list)
}

func protectedProfile(row repository.Row) bool {
	return dispatch.String(row["nombre_perfil"]) == entity.MasterProfileName && row["id_empresa"] == nil
}

// touchesIdentity indica si fields cambia nombre, empresa o desactiva el registro.
func touchesIdentity(fields, current repository.Row) bool {
	if v, ok := fields["nombre_perfil"]; ok && dispatch.String(v) != dispatch.String(current["nombre_perfil"]) {
		return true
	}
	if v, ok := fields["id_empresa"]; ok && v != nil {
		return true
	}
	if v, ok := fields["estado"]; ok {
		if n, isNum := dispatch.Int64(v); !isNum || n != resource.StatusActive {
			return true
		}
	}
	return false
}
