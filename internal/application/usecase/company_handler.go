package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
	"github.com/jhoicas/sst-manager-api/pkg/nit"
)

var _ dispatch.VerbHandler = (*CompanyHandler)(nil)

var workforceColumns = []string{"cant_directos", "cant_contratistas", "cant_aprendices", "cant_brigadistas"}

// CompanyHandler empresas (tenants). El alta acepta "administrador" para crear el primer usuario.
type CompanyHandler struct {
	*dispatch.GenericHandler
	companies repository.CompanyRepository
	plans     repository.PlanRepository
	users     *UserHandler
	tx        repository.TxRunner
}

// NewCompanyHandler construye el manejador de empresas; users crea el administrador inicial.
func NewCompanyHandler(deps Deps, users *UserHandler) *CompanyHandler {
	return &CompanyHandler{
		GenericHandler: dispatch.NewGenericHandler(deps.Generic, deps.Resources.MustGet(resource.Empresas)),
		companies:      deps.Companies,
		plans:          deps.Plans,
		users:          users,
		tx:             deps.Tx,
	}
}

// List empresas activas (o todas con ?todos=true) con el nombre del plan.
func (h *CompanyHandler) List(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	list, err := h.companies.List(ctx, req.Flag("todos"))
	if err != nil {
		return dispatch.Response{}, err
	}
	out := make([]dto.CompanyResponse, 0, len(list))
	for i := range list {
		out = append(out, toCompanyResponse(&list[i]))
	}
	return dispatch.JSON(http.StatusOK, out), nil
}

// Get una empresa por id.
func (h *CompanyHandler) Get(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	c, err := h.companies.GetByID(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	if c == nil {
		return dispatch.Response{}, h.NotFound()
	}
	return dispatch.JSON(http.StatusOK, toCompanyResponse(c)), nil
}

// Create registra la empresa y, si viene "administrador", su primer usuario Administrador en
// la misma transacción.
func (h *CompanyHandler) Create(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	body, rawAdmin, hasAdmin := take(req.Object(), "administrador")
	fields, err := h.PrepareCreate(body)
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := h.validate(ctx, fields, nil); err != nil {
		return dispatch.Response{}, err
	}
	var admin repository.Row
	if hasAdmin && rawAdmin != nil {
		obj, ok := rawAdmin.(map[string]any)
		if !ok {
			return dispatch.Response{}, domain.Invalid("administrador", "se esperaba un objeto")
		}
		admin = obj
	}
	if err := h.CheckUnique(ctx, fields, nil, 0); err != nil {
		return dispatch.Response{}, err
	}

	res := dto.CompanyCreatedResponse{Mensaje: dto.MsgCreated}
	err = h.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		if res.ID, err = h.Repo().Insert(ctx, h.Descriptor(), fields); err != nil {
			return err
		}
		if admin == nil {
			return nil
		}
		userFields, err := h.users.PrepareCreate(withRole(admin, entity.RoleAdmin, res.ID))
		if err != nil {
			return prefix("administrador", err)
		}
		adminID, err := h.users.Insert(ctx, userFields)
		if err != nil {
			return prefix("administrador", err)
		}
		res.IDAdministrador = &adminID
		return nil
	})
	if err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusCreated, res), nil
}

// Update revalida NIT, plan y unicidad del documento.
func (h *CompanyHandler) Update(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	fields, err := h.PrepareUpdate(req)
	if err != nil {
		return dispatch.Response{}, err
	}
	current, err := h.Find(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := h.validate(ctx, fields, current); err != nil {
		return dispatch.Response{}, err
	}
	if err := h.CheckUnique(ctx, fields, current, req.ID); err != nil {
		return dispatch.Response{}, err
	}
	if err := h.Apply(ctx, req.ID, fields); err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, dto.Message(dto.MsgUpdated)), nil
}

// validate normaliza los campos presentes: documento, plan activo y cantidades.
// Un NIT se guarda como "base-dv" para que la unicidad no dependa del formato enviado.
func (h *CompanyHandler) validate(ctx context.Context, fields, current repository.Row) error {
	normalizeText(fields, "nombre_empresa", "numero_documento", "tipo_documento", "nombre_rl", "documento_rl")
	if v, ok := fields["numero_documento"]; ok {
		doc := dispatch.String(v)
		if doc == "" {
			return domain.Invalid("numero_documento", "no puede estar vacío")
		}
		docType := strings.ToUpper(dispatch.String(merged(fields, current, "tipo_documento")))
		if docType == "" || docType == "NIT" {
			canonical, err := nit.Normalize(doc)
			if err != nil {
				return domain.Invalid("numero_documento", "%v", err)
			}
			fields["numero_documento"] = canonical
		}
	}
	if v, ok := fields["email_contacto"]; ok && v != nil {
		fields["email_contacto"] = strings.ToLower(dispatch.String(v))
	}
	for _, col := range workforceColumns {
		if err := nonNegativeInt(fields, col); err != nil {
			return err
		}
	}
	planID, err := optionalID(fields, "id_plan")
	if err != nil {
		return err
	}
	if _, sent := fields["id_plan"]; sent && planID == nil {
		return domain.Invalid("id_plan", "plan requerido")
	}
	if planID != nil {
		p, err := h.plans.GetByID(ctx, *planID)
		if err != nil {
			return err
		}
		if p == nil || p.Status != int(resource.StatusActive) {
			return domain.Invalid("id_plan", "el plan %d no existe o está inactivo", *planID)
		}
	}
	return nil
}

// withRole copia el objeto administrador fijando rol y empresa.
func withRole(obj map[string]any, role string, companyID int64) map[string]any {
	out := withParent(obj, "id_empresa", companyID)
	out["rol"] = role
	return out
}
