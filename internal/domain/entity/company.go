package entity

// Company representa una organización/tenant del sistema (multi-tenant, enfoque Colombia).
type Company struct {
	ID               int64
	Name             string
	DocumentType     string // NIT por defecto
	TaxID            string // número de documento, único entre activas e inactivas
	PlanID           int64
	PlanName         string // "" si el plan no existe
	Email            string
	Phone            string
	Address          string
	LogoURL          string
	LegalRepName     string
	LegalRepDocument string
	DirectWorkers    int
	Contractors      int
	Apprentices      int
	Brigadists       int
	Status           int
}

// Workforce total de trabajadores reportados.
func (c *Company) Workforce() int {
	return c.DirectWorkers + c.Contractors + c.Apprentices + c.Brigadists
}

// Active indica si la empresa está habilitada.
func (c *Company) Active() bool { return c.Status == 1 }
