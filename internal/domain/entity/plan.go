package entity

import "github.com/shopspring/decimal"

// Plan de suscripción. UserLimit 0 = ilimitado.
type Plan struct {
	ID           int64
	Name         string
	Description  string
	UserLimit    int
	MonthlyPrice decimal.Decimal
	Status       int
	Modules      []PlanModule
}

// Unlimited indica si el plan no limita usuarios.
func (p *Plan) Unlimited() bool { return p.UserLimit == 0 }

// PlanModule módulo visible para un plan.
type PlanModule struct {
	PlanID     int64
	ModuleID   int64
	ModuleName string
	Visible    bool
}
