package entity

// MasterProfileName perfil global protegido contra desactivación.
const MasterProfileName = "Master"

// Profile conjunto de capacidades por módulo. CompanyID nil = perfil global.
type Profile struct {
	ID          int64
	Name        string
	Description string
	CompanyID   *int64
	Status      int
}

// Protected indica si el perfil es el Master global.
func (p *Profile) Protected() bool {
	return p.Name == MasterProfileName && p.CompanyID == nil
}
