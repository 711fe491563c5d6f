// Package auth emite el token de sesión a partir de email y contraseña.
package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/entity"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login contra la tabla usuarios.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, jwtCfg: jwtCfg}
}

var errCredentials = fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)

// Login verifica email/password, genera JWT y retorna token + usuario.
// Usuario inexistente y contraseña errada responden igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.Invalid("", "email y password son requeridos")
	}
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errCredentials
	}
	if !user.Active() {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}
	if user.CompanyID != nil {
		c, err := uc.companyRepo.GetByID(ctx, *user.CompanyID)
		if err != nil {
			return nil, err
		}
		if c == nil || !c.Active() {
			return nil, fmt.Errorf("%w: la empresa del usuario está inactiva", domain.ErrForbidden)
		}
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		ProfileID: user.ProfileID,
		Role:      user.Role,
		Email:     user.Email,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Status:  "success",
		Mensaje: "Autenticación exitosa",
		Token:   token,
		User:    toSessionUser(user),
	}, nil
}

func toSessionUser(u *entity.User) dto.SessionUser {
	return dto.SessionUser{
		ID: u.ID,
		DatosPersonales: dto.PersonalData{
			Nombre:         u.FirstName,
			Apellido:       u.LastName,
			NombreCompleto: strings.TrimSpace(u.FirstName + " " + u.LastName),
			Correo:         u.Email,
		},
		Identificacion: dto.Identification{Tipo: u.DocumentType, Numero: u.DocumentNumber},
		Seguridad: dto.SecurityInfo{
			RolSistema: u.Role,
			Perfil:     dto.ProfileRef{ID: u.ProfileID, Nombre: u.ProfileName},
		},
		Organizacion: dto.OrganizationRef{IDEmpresa: u.CompanyID, NombreEmpresa: u.CompanyName},
		EstadoCuenta: dto.AccountStatus{Activo: u.Active()},
	}
}
