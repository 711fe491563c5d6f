package dto

import "github.com/shopspring/decimal"

// PlanResponse plan con los módulos asignados.
type PlanResponse struct {
	ID             int64                `json:"id_plan"`
	NombrePlan     string               `json:"nombre_plan"`
	Descripcion    string               `json:"descripcion"`
	LimiteUsuarios int                  `json:"limite_usuarios"`
	PrecioMensual  decimal.Decimal      `json:"precio_mensual"`
	Estado         int                  `json:"estado"`
	Modulos        []PlanModuleResponse `json:"modulos"`
}

// PlanModuleResponse visibilidad de un módulo en un plan.
type PlanModuleResponse struct {
	IDModulo     int64  `json:"id_modulo"`
	NombreModulo string `json:"nombre_modulo"`
	Ver          bool   `json:"ver"`
}

// ModuleResponse nodo del árbol de módulos.
type ModuleResponse struct {
	ID           int64  `json:"id_modulo"`
	IDPadre      *int64 `json:"id_padre"`
	NombreModulo string `json:"nombre_modulo"`
	Descripcion  string `json:"descripcion"`
	Icono        string `json:"icono"`
	Tipo         string `json:"tipo"`
	Estado       int    `json:"estado"`
}

// ProfileResponse perfil global o de empresa.
type ProfileResponse struct {
	ID           int64  `json:"id_perfil"`
	NombrePerfil string `json:"nombre_perfil"`
	Descripcion  string `json:"descripcion"`
	IDEmpresa    *int64 `json:"id_empresa"`
	Global       bool   `json:"global"`
	Estado       int    `json:"estado"`
}
