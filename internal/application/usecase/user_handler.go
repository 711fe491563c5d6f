package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 6

var (
	_ dispatch.VerbHandler = (*UserHandler)(nil)
	_ dispatch.Patcher     = (*UserHandler)(nil)
)

// UserHandler usuarios con la regla rol⇄empresa: Master y Soporte sin empresa, el resto con una.
type UserHandler struct {
	*dispatch.GenericHandler
	users     repository.UserRepository
	companies repository.CompanyRepository
	plans     repository.PlanRepository
	profiles  repository.ProfileRepository
	tx        repository.TxRunner
}

// NewUserHandler construye el manejador de usuarios.
func NewUserHandler(deps Deps) *UserHandler {
	return &UserHandler{
		GenericHandler: dispatch.NewGenericHandler(deps.Generic, deps.Resources.MustGet(resource.Usuarios)),
		users:          deps.Users,
		companies:      deps.Companies,
		plans:          deps.Plans,
		profiles:       deps.Profiles,
		tx:             deps.Tx,
	}
}

// List usuarios de la empresa de la petición, o de todas si no hay empresa.
func (h *UserHandler) List(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	list, err := h.users.List(ctx, req.TenantID(), req.Flag("todos"))
	if err != nil {
		return dispatch.Response{}, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for i := range list {
		out = append(out, toUserResponse(&list[i]))
	}
	return dispatch.JSON(http.StatusOK, out), nil
}

// Get un usuario, sin contraseña.
func (h *UserHandler) Get(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	u, err := h.users.GetByID(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	if u == nil {
		return dispatch.Response{}, h.NotFound()
	}
	return dispatch.JSON(http.StatusOK, toUserResponse(u)), nil
}

// Create valida la cuenta, aplica el límite de usuarios del plan y guarda el hash bcrypt.
func (h *UserHandler) Create(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	fields, err := h.PrepareCreate(req.Object())
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := applyTenantDefault(fields, req); err != nil {
		return dispatch.Response{}, err
	}
	var id int64
	err = h.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		id, err = h.Insert(ctx, fields)
		return err
	})
	if err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusCreated, dto.Created(id)), nil
}

// Insert valida y crea un usuario ya normalizado. Lo usa también el alta compuesta de empresas.
func (h *UserHandler) Insert(ctx context.Context, fields repository.Row) (int64, error) {
	if err := h.validateAccount(ctx, fields, nil); err != nil {
		return 0, err
	}
	if company, _ := fields["id_empresa"].(int64); company > 0 {
		if err := h.ensureSeat(ctx, company); err != nil {
			return 0, err
		}
	}
	if err := h.CheckUnique(ctx, fields, nil, 0); err != nil {
		return 0, err
	}
	if err := hashPassword(fields, true); err != nil {
		return 0, err
	}
	return h.Repo().Insert(ctx, h.Descriptor(), fields)
}

// Update revalida la regla rol⇄empresa sobre el estado resultante y rehace el hash si cambia la contraseña.
func (h *UserHandler) Update(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	fields, err := h.PrepareUpdate(req)
	if err != nil {
		return dispatch.Response{}, err
	}
	current, err := h.Find(ctx, req.ID)
	if err != nil {
		return dispatch.Response{}, err
	}
	if err := h.validateAccount(ctx, fields, current); err != nil {
		return dispatch.Response{}, err
	}
	if needsSeat(fields, current) {
		company, _ := dispatch.Int64(merged(fields, current, "id_empresa"))
		if err := h.ensureSeat(ctx, company); err != nil {
			return dispatch.Response{}, err
		}
	}
	if err := h.CheckUnique(ctx, fields, current, req.ID); err != nil {
		return dispatch.Response{}, err
	}
	if err := hashPassword(fields, false); err != nil {
		return dispatch.Response{}, err
	}
	if err := h.Apply(ctx, req.ID, fields); err != nil {
		return dispatch.Response{}, err
	}
	return dispatch.JSON(http.StatusOK, dto.Message(dto.MsgUpdated)), nil
}

// Patch igual que Update.
func (h *UserHandler) Patch(ctx context.Context, req *dispatch.Request) (dispatch.Response, error) {
	return h.Update(ctx, req)
}

// validateAccount normaliza y valida fields; current es nil en altas.
func (h *UserHandler) validateAccount(ctx context.Context, fields, current repository.Row) error {
	normalizeText(fields, "nombre", "apellido", "numero_documento", "tipo_documento")
	if v, ok := fields["email"]; ok {
		email := strings.ToLower(dispatch.String(v))
		if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
			return domain.Invalid("email", "correo inválido")
		}
		fields["email"] = email
	}

	role := dispatch.String(merged(fields, current, "rol"))
	if !entity.IsValidRole(role) {
		return domain.Invalid("rol", "rol inválido %q; opciones: %s", role, strings.Join(entity.Roles, ", "))
	}
	if _, ok := fields["rol"]; ok {
		fields["rol"] = role
	}

	companyID, err := optionalID(fields, "id_empresa")
	if err != nil {
		return err
	}
	if _, sent := fields["id_empresa"]; !sent && current != nil {
		if id, ok := dispatch.Int64(current["id_empresa"]); ok && id > 0 {
			companyID = &id
		}
	}
	if entity.IsGlobalRole(role) {
		if companyID != nil {
			if _, sent := fields["id_empresa"]; sent {
				return domain.Invalid("id_empresa", "el rol %s no pertenece a una empresa", role)
			}
		}
		if current == nil || companyID != nil {
			fields["id_empresa"] = nil
		}
		companyID = nil
	} else {
		if companyID == nil {
			return domain.Invalid("id_empresa", "el rol %s requiere una empresa", role)
		}
		c, err := h.companies.GetByID(ctx, *companyID)
		if err != nil {
			return err
		}
		if c == nil || c.Status != int(resource.StatusActive) {
			return domain.Invalid("id_empresa", "la empresa %d no existe o está inactiva", *companyID)
		}
	}

	_, profileSent := fields["id_perfil"]
	_, companySent := fields["id_empresa"]
	if current == nil || profileSent || companySent {
		profileID, ok := dispatch.Int64(merged(fields, current, "id_perfil"))
		if !ok || profileID <= 0 {
			return domain.Invalid("id_perfil", "perfil requerido")
		}
		if profileSent {
			fields["id_perfil"] = profileID
		}
		p, err := h.profiles.GetByID(ctx, profileID)
		if err != nil {
			return err
		}
		if p == nil || p.Status != int(resource.StatusActive) {
			return domain.Invalid("id_perfil", "el perfil %d no existe o está inactivo", profileID)
		}
		if p.CompanyID != nil && (companyID == nil || *p.CompanyID != *companyID) {
			return domain.Invalid("id_perfil", "el perfil %d pertenece a otra empresa", profileID)
		}
	}
	return nil
}

// ensureSeat verifica el límite de usuarios activos del plan de la empresa.
func (h *UserHandler) ensureSeat(ctx context.Context, companyID int64) error {
	c, err := h.companies.GetByID(ctx, companyID)
	if err != nil || c == nil {
		return err
	}
	p, err := h.plans.GetByID(ctx, c.PlanID)
	if err != nil || p == nil || p.Unlimited() {
		return err
	}
	n, err := h.companies.CountActiveUsers(ctx, companyID)
	if err != nil {
		return err
	}
	if n >= int64(p.UserLimit) {
		return domain.Conflict(resource.Usuarios, domain.ErrConflict,
			"la empresa alcanzó el límite de %d usuarios del plan %s", p.UserLimit, p.Name)
	}
	return nil
}

// needsSeat indica si la actualización ocupa un cupo nuevo del plan: el usuario queda activo en
// una empresa y antes no lo estaba en esa misma empresa.
func needsSeat(fields, current repository.Row) bool {
	company, _ := dispatch.Int64(merged(fields, current, "id_empresa"))
	if company <= 0 {
		return false
	}
	if status, _ := dispatch.Int64(merged(fields, current, "estado")); status != resource.StatusActive {
		return false
	}
	prevCompany, _ := dispatch.Int64(current["id_empresa"])
	prevStatus, _ := dispatch.Int64(current["estado"])
	return prevCompany != company || prevStatus != resource.StatusActive
}

// applyTenantDefault asigna la empresa de la petición a roles de empresa sin id_empresa.
func applyTenantDefault(fields repository.Row, req *dispatch.Request) error {
	if _, ok := fields["id_empresa"]; ok {
		return nil
	}
	if entity.IsGlobalRole(dispatch.String(fields["rol"])) {
		return nil
	}
	if t := req.TenantID(); t != nil {
		fields["id_empresa"] = *t
	}
	return nil
}

// hashPassword reemplaza la contraseña en claro por su hash bcrypt.
func hashPassword(fields repository.Row, required bool) error {
	v, ok := fields["password"]
	if !ok {
		if required {
			return domain.Invalid("password", "contraseña requerida")
		}
		return nil
	}
	plain, _ := v.(string)
	if len(plain) < MinPasswordLength {
		return domain.Invalid("password", "la contraseña debe tener al menos %d caracteres", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fields["password"] = string(hash)
	return nil
}
