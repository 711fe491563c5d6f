package resource

import (
	"fmt"
	"sort"
)

// Registry descriptores indexados por nombre. Se construye una vez al arrancar.
type Registry struct {
	byName map[string]*Descriptor
}

// NewRegistry valida los descriptores: nombres únicos, identificadores válidos
// y cascadas hacia descriptores existentes con columna de estado.
func NewRegistry(ds ...Descriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Descriptor, len(ds))}
	for i := range ds {
		d := ds[i]
		if d.Name == "" {
			return nil, fmt.Errorf("resource: descriptor sin nombre (tabla %q)", d.Table)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("resource: descriptor duplicado %q", d.Name)
		}
		for _, id := range append([]string{d.Table, d.PK()}, d.StatusColumn) {
			if id != "" && !ValidIdentifier(id) {
				return nil, fmt.Errorf("resource: identificador inválido %q en %q", id, d.Name)
			}
		}
		if d.SoftDelete && !d.HasStatus() {
			return nil, fmt.Errorf("resource: %q usa soft delete sin columna de estado", d.Name)
		}
		r.byName[d.Name] = &d
	}
	for _, d := range r.byName {
		for _, c := range d.Children {
			child, ok := r.byName[c.Resource]
			if !ok {
				return nil, fmt.Errorf("resource: %q cascada a %q inexistente", d.Name, c.Resource)
			}
			if !child.HasStatus() {
				return nil, fmt.Errorf("resource: %q cascada a %q sin columna de estado", d.Name, c.Resource)
			}
			if !ValidIdentifier(c.ForeignKey) {
				return nil, fmt.Errorf("resource: llave foránea inválida %q", c.ForeignKey)
			}
		}
	}
	return r, nil
}

// MustRegistry como NewRegistry pero entra en pánico ante un error de configuración.
func MustRegistry(ds ...Descriptor) *Registry {
	r, err := NewRegistry(ds...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get busca un descriptor por nombre.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// MustGet devuelve el descriptor o entra en pánico (solo para nombres del catálogo fijo).
func (r *Registry) MustGet(name string) *Descriptor {
	d, ok := r.byName[name]
	if !ok {
		panic(fmt.Sprintf("resource: descriptor %q no registrado", name))
	}
	return d
}

// Names nombres registrados en orden alfabético.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
