package usecase

import (
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
)

func toCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:                c.ID,
		NombreEmpresa:     c.Name,
		TipoDocumento:     c.DocumentType,
		NumeroDocumento:   c.TaxID,
		IDPlan:            c.PlanID,
		NombrePlan:        c.PlanName,
		EmailContacto:     c.Email,
		Telefono:          c.Phone,
		Direccion:         c.Address,
		LogoURL:           c.LogoURL,
		NombreRL:          c.LegalRepName,
		DocumentoRL:       c.LegalRepDocument,
		CantDirectos:      c.DirectWorkers,
		CantContratistas:  c.Contractors,
		CantAprendices:    c.Apprentices,
		CantBrigadistas:   c.Brigadists,
		TotalTrabajadores: c.Workforce(),
		Estado:            c.Status,
	}
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Nombre:          u.FirstName,
		Apellido:        u.LastName,
		Email:           u.Email,
		TipoDocumento:   u.DocumentType,
		NumeroDocumento: u.DocumentNumber,
		Rol:             u.Role,
		IDEmpresa:       u.CompanyID,
		NombreEmpresa:   u.CompanyName,
		IDPerfil:        u.ProfileID,
		NombrePerfil:    u.ProfileName,
		Estado:          u.Status,
	}
}

func toPlanResponse(p *entity.Plan) dto.PlanResponse {
	mods := make([]dto.PlanModuleResponse, 0, len(p.Modules))
	for _, m := range p.Modules {
		mods = append(mods, dto.PlanModuleResponse{IDModulo: m.ModuleID, NombreModulo: m.ModuleName, Ver: m.Visible})
	}
	return dto.PlanResponse{
		ID:             p.ID,
		NombrePlan:     p.Name,
		Descripcion:    p.Description,
		LimiteUsuarios: p.UserLimit,
		PrecioMensual:  p.MonthlyPrice,
		Estado:         p.Status,
		Modulos:        mods,
	}
}

func toModuleResponse(m *entity.Module) dto.ModuleResponse {
	return dto.ModuleResponse{
		ID:           m.ID,
		IDPadre:      m.ParentID,
		NombreModulo: m.Name,
		Descripcion:  m.Description,
		Icono:        m.Icon,
		Tipo:         m.Kind(),
		Estado:       m.Status,
	}
}

func toProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:           p.ID,
		NombrePerfil: p.Name,
		Descripcion:  p.Description,
		IDEmpresa:    p.CompanyID,
		Global:       p.CompanyID == nil,
		Estado:       p.Status,
	}
}
