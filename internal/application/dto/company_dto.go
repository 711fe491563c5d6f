package dto

// CompanyResponse empresa con el nombre de su plan.
type CompanyResponse struct {
	ID                int64  `json:"id_empresa"`
	NombreEmpresa     string `json:"nombre_empresa"`
	TipoDocumento     string `json:"tipo_documento"`
	NumeroDocumento   string `json:"numero_documento"`
	IDPlan            int64  `json:"id_plan"`
	NombrePlan        string `json:"nombre_plan"`
	EmailContacto     string `json:"email_contacto"`
	Telefono          string `json:"telefono"`
	Direccion         string `json:"direccion"`
	LogoURL           string `json:"logo_url"`
	NombreRL          string `json:"nombre_rl"`
	DocumentoRL       string `json:"documento_rl"`
	CantDirectos      int    `json:"cant_directos"`
	CantContratistas  int    `json:"cant_contratistas"`
	CantAprendices    int    `json:"cant_aprendices"`
	CantBrigadistas   int    `json:"cant_brigadistas"`
	TotalTrabajadores int    `json:"total_trabajadores"`
	Estado            int    `json:"estado"`
}

// CompanyCreatedResponse alta de empresa, con el administrador si se creó en la misma operación.
type CompanyCreatedResponse struct {
	Mensaje         string `json:"mensaje"`
	ID              int64  `json:"id"`
	IDAdministrador *int64 `json:"id_administrador,omitempty"`
}
