// Package dispatch resuelve peticiones {recurso, subacción, id, verbo, cuerpo} contra los
// manejadores registrados y produce {status, payload}.
package dispatch

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jhoicas/sst-manager-api/internal/application/dto"
)

// Verbos aceptados.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

// Request petición ya parseada por la capa HTTP.
// Body es nil, map[string]any o []any; los números llegan como int64 o float64.
type Request struct {
	Resource  string
	SubAction string
	ID        int64 // 0 = sin id
	Verb      string
	Body      any
	Query     map[string]string
	View      string // cuarto segmento de la ruta, p. ej. check-all

	// Tenant empresa del token, si lo hay.
	Tenant *int64
}

// HasID indica si la ruta trae id.
func (r *Request) HasID() bool { return r.ID > 0 }

// Object devuelve el cuerpo como objeto, o nil si no lo es.
func (r *Request) Object() map[string]any {
	m, _ := r.Body.(map[string]any)
	return m
}

// Param valor de query string.
func (r *Request) Param(key string) string {
	if r.Query == nil {
		return ""
	}
	return r.Query[key]
}

// Flag interpreta un parámetro de query como booleano (true, 1, si).
func (r *Request) Flag(key string) bool {
	switch strings.ToLower(r.Param(key)) {
	case "true", "1", "si", "sí":
		return true
	}
	return false
}

// TenantID empresa de la petición: ?id_empresa tiene prioridad sobre el token.
func (r *Request) TenantID() *int64 {
	if v := r.Param("id_empresa"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return &id
		}
	}
	return r.Tenant
}

// Response resultado listo para serializar.
type Response struct {
	StatusCode int
	Payload    any
}

// JSON construye una respuesta.
func JSON(status int, payload any) Response {
	return Response{StatusCode: status, Payload: payload}
}

// Fail respuesta de error con el cuerpo estándar.
func Fail(status int, code, msg string) Response {
	return Response{StatusCode: status, Payload: dto.ErrorResponse{Code: code, Message: msg}}
}

// Int64 convierte un valor JSON numérico (o texto numérico) a int64.
func Int64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// Float64 convierte un valor JSON numérico (o texto numérico) a float64.
func Float64(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// String devuelve el texto recortado de v, o "" si no es texto.
func String(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	}
	return ""
}

// Bool interpreta flags JSON: true/false, 1/0 y "1"/"0".
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "1" || strings.EqualFold(b, "true")
	}
	if n, ok := Int64(v); ok {
		return n != 0
	}
	return false
}

// queryValue convierte un parámetro de query a entero si lo es.
func queryValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}
