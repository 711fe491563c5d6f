package entity

// MatrixItem fila a insertar en una matriz padre↔módulo. Flags por clave JSON (ver, crear...).
type MatrixItem struct {
	ModuleID int64
	Flags    map[string]bool
}

// MatrixRow fila leída de una matriz junto con el nombre del módulo.
type MatrixRow struct {
	ParentID   int64
	ModuleID   int64
	ModuleName string
	Flags      map[string]bool
}
