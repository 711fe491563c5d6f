// Package resource describe las tablas expuestas por la API: columna id, estado,
// claves únicas, campos requeridos y cascadas de desactivación.
package resource

import (
	"regexp"
	"sort"
	"strings"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier indica si s puede usarse como nombre de columna o tabla.
func ValidIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// Cascade hijo que se desactiva junto con el padre.
type Cascade struct {
	Resource   string // nombre del descriptor hijo
	ForeignKey string // columna del hijo que apunta al padre
}

// Descriptor contrato de una tabla expuesta por la API.
type Descriptor struct {
	Name     string // nombre en la ruta (/api/<Name>)
	Table    string
	IDColumn string // vacío = "id"

	// SoftDelete: DELETE marca StatusColumn = Inactive en lugar de borrar.
	SoftDelete   bool
	StatusColumn string // vacío = la tabla no tiene estado
	Active       any
	Inactive     any

	Unique   [][]string        // claves únicas verificadas antes de escribir
	Required []string          // campos obligatorios al crear
	Filters  map[string]string // parámetro de query -> columna (igualdad)
	Children []Cascade
	Aliases  map[string]string // campo recibido -> columna

	// Internal: no se expone por el despachador genérico.
	Internal bool
}

// PK devuelve la columna de clave primaria.
func (d *Descriptor) PK() string {
	if d.IDColumn == "" {
		return "id"
	}
	return d.IDColumn
}

// HasStatus indica si la tabla maneja columna de estado.
func (d *Descriptor) HasStatus() bool {
	return d.StatusColumn != ""
}

// Normalize aplica los alias y descarta la clave primaria enviada por el cliente.
func (d *Descriptor) Normalize(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if col, ok := d.Aliases[k]; ok {
			if _, dup := fields[col]; dup {
				continue
			}
			k = col
		}
		if k == d.PK() {
			continue
		}
		out[k] = v
	}
	return out
}

// Missing devuelve los campos requeridos ausentes o vacíos, en orden.
func (d *Descriptor) Missing(fields map[string]any) []string {
	var out []string
	for _, f := range d.Required {
		if IsBlank(fields[f]) {
			out = append(out, f)
		}
	}
	return out
}

// IsBlank trata nil y cadenas vacías como ausentes.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Columns devuelve las claves de fields ordenadas, o la primera que no sea identificador válido.
func Columns(fields map[string]any) ([]string, string) {
	cols := make([]string, 0, len(fields))
	for k := range fields {
		if !ValidIdentifier(k) {
			return nil, k
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols, ""
}
