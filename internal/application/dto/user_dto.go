package dto

// UserResponse fila de usuario para listados (sin password).
type UserResponse struct {
	ID              int64  `json:"id_usuario"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Email           string `json:"email"`
	TipoDocumento   string `json:"tipo_documento"`
	NumeroDocumento string `json:"numero_documento"`
	Rol             string `json:"rol"`
	IDEmpresa       *int64 `json:"id_empresa"`
	NombreEmpresa   string `json:"nombre_empresa"`
	IDPerfil        int64  `json:"id_perfil"`
	NombrePerfil    string `json:"nombre_perfil"`
	Estado          int    `json:"estado"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token emitido y usuario autenticado.
type LoginResponse struct {
	Status  string      `json:"status"`
	Mensaje string      `json:"mensaje"`
	Token   string      `json:"token"`
	User    SessionUser `json:"user"`
}

// SessionUser usuario agrupado por secciones, como lo consume el front.
type SessionUser struct {
	ID              int64           `json:"id"`
	DatosPersonales PersonalData    `json:"datos_personales"`
	Identificacion  Identification  `json:"identificacion"`
	Seguridad       SecurityInfo    `json:"seguridad"`
	Organizacion    OrganizationRef `json:"organizacion"`
	EstadoCuenta    AccountStatus   `json:"estado_cuenta"`
}

type PersonalData struct {
	Nombre         string `json:"nombre"`
	Apellido       string `json:"apellido"`
	NombreCompleto string `json:"nombre_completo"`
	Correo         string `json:"correo"`
}

type Identification struct {
	Tipo   string `json:"tipo"`
	Numero string `json:"numero"`
}

type SecurityInfo struct {
	RolSistema string     `json:"rol_sistema"`
	Perfil     ProfileRef `json:"perfil"`
}

type ProfileRef struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

type OrganizationRef struct {
	IDEmpresa     *int64 `json:"id_empresa"`
	NombreEmpresa string `json:"nombre_empresa"`
}

type AccountStatus struct {
	Activo bool `json:"activo"`
}
