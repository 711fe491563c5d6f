package entity

// Tipos de nodo en el árbol de módulos.
const (
	ModuleKindModule   = "Modulo"
	ModuleKindFunction = "Funcion"
)

// Module área navegable. ParentID nil = módulo; no nil = función bajo ese módulo.
type Module struct {
	ID          int64
	ParentID    *int64
	Name        string
	Description string
	Icon        string
	Status      int
}

// Kind devuelve Modulo o Funcion.
func (m *Module) Kind() string {
	if m.ParentID != nil {
		return ModuleKindFunction
	}
	return ModuleKindModule
}
