package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
)

// take separa key del cuerpo. El mapa original no se modifica.
func take(body map[string]any, key string) (rest map[string]any, value any, ok bool) {
	value, ok = body[key]
	if !ok {
		return body, nil, false
	}
	rest = make(map[string]any, len(body))
	for k, v := range body {
		if k != key {
			rest[k] = v
		}
	}
	return rest, value, true
}

// normalizeText recorta y lleva a NFC los textos indicados antes de verificar claves únicas.
func normalizeText(fields repository.Row, cols ...string) {
	for _, c := range cols {
		if s, ok := fields[c].(string); ok {
			fields[c] = norm.NFC.String(strings.TrimSpace(s))
		}
	}
}

// nonNegativeInt valida un entero ≥ 0 si col viene en fields y lo deja como int64.
func nonNegativeInt(fields repository.Row, col string) error {
	v, ok := fields[col]
	if !ok || v == nil {
		return nil
	}
	n, ok := dispatch.Int64(v)
	if !ok || n < 0 {
		return domain.Invalid(col, "debe ser un entero mayor o igual a cero")
	}
	fields[col] = n
	return nil
}

// toDecimal interpreta un número JSON o texto como decimal.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	}
	if i, ok := dispatch.Int64(v); ok {
		return decimal.NewFromInt(i), true
	}
	return decimal.Decimal{}, false
}

// nonNegativeMoney valida un importe ≥ 0 y lo deja con dos decimales.
func nonNegativeMoney(fields repository.Row, col string) error {
	v, ok := fields[col]
	if !ok || v == nil {
		return nil
	}
	d, ok := toDecimal(v)
	if !ok || d.IsNegative() {
		return domain.Invalid(col, "debe ser un valor numérico mayor o igual a cero")
	}
	fields[col] = d.StringFixed(2)
	return nil
}

// oneOf valida que col, si viene, pertenezca a allowed.
func oneOf(fields repository.Row, col string, allowed []string) error {
	v, ok := fields[col]
	if !ok {
		return nil
	}
	s := norm.NFC.String(dispatch.String(v))
	for _, a := range allowed {
		if s == a {
			fields[col] = s
			return nil
		}
	}
	return domain.Invalid(col, "valor no permitido %q; opciones: %s", s, strings.Join(allowed, ", "))
}

// optionalID lee un id entero positivo; nil o ausente devuelve nil.
func optionalID(fields repository.Row, col string) (*int64, error) {
	v, ok := fields[col]
	if !ok || v == nil {
		return nil, nil
	}
	id, ok := dispatch.Int64(v)
	if !ok || id <= 0 {
		return nil, domain.Invalid(col, "identificador inválido")
	}
	fields[col] = id
	return &id, nil
}

// merged valor efectivo de col tras la actualización: el enviado o el actual.
func merged(fields, current repository.Row, col string) any {
	if v, ok := fields[col]; ok {
		return v
	}
	return current[col]
}

// prefix antepone label al mensaje conservando el tipo del error.
func prefix(label string, err error) error {
	return fmt.Errorf("%s: %w", label, err)
}
