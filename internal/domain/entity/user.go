package entity

// Roles válidos para User.
const (
	RoleMaster  = "Master"
	RoleAdmin   = "Administrador"
	RoleUser    = "Usuario"
	RoleSupport = "Soporte"
)

// Roles lista de roles aceptados.
var Roles = []string{RoleMaster, RoleAdmin, RoleUser, RoleSupport}

// IsGlobalRole indica si el rol opera sin empresa (Master y Soporte).
func IsGlobalRole(role string) bool {
	return role == RoleMaster || role == RoleSupport
}

// IsValidRole indica si role pertenece al enum.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User representa un usuario del sistema. CompanyID es nil solo para roles globales.
type User struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	DocumentType   string
	DocumentNumber string
	PasswordHash   string // bcrypt hash, nunca se serializa
	Role           string
	CompanyID      *int64
	CompanyName    string
	ProfileID      int64
	ProfileName    string
	Status         int
}

// Active indica si la cuenta está habilitada.
func (u *User) Active() bool { return u.Status == 1 }
