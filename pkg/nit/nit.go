// Package nit valida números de identificación tributaria colombianos.
package nit

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos del módulo 11 de la DIAN, aplicados de derecha a izquierda sobre la base.
var weights = []int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// CheckDigit calcula el dígito de verificación de la base del NIT (sin DV).
func CheckDigit(base string) (byte, error) {
	digits := onlyDigits(base)
	if len(digits) == 0 {
		return 0, fmt.Errorf("nit: base vacía")
	}
	if len(digits) > len(weights) {
		return 0, fmt.Errorf("nit: base demasiado larga (%d dígitos)", len(digits))
	}
	var sum int
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * weights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// Split separa "900.123.456-8" en base "900123456" y dv "8". dv vacío si no viene.
func Split(taxID string) (base, dv string) {
	s := strings.TrimSpace(taxID)
	if i := strings.LastIndex(s, "-"); i >= 0 {
		return string(onlyDigits(s[:i])), string(onlyDigits(s[i+1:]))
	}
	return string(onlyDigits(s)), ""
}

// Validate comprueba el formato del NIT. Si trae dígito de verificación ("base-dv"), debe coincidir.
func Validate(taxID string) error {
	base, dv := Split(taxID)
	if len(base) < 6 {
		return fmt.Errorf("nit: se requieren al menos 6 dígitos, se encontraron %d", len(base))
	}
	if dv == "" {
		if strings.Contains(taxID, "-") {
			return fmt.Errorf("nit: dígito de verificación vacío")
		}
		return nil
	}
	if len(dv) != 1 {
		return fmt.Errorf("nit: dígito de verificación inválido %q", dv)
	}
	expected, err := CheckDigit(base)
	if err != nil {
		return err
	}
	if dv[0] != expected {
		return fmt.Errorf("nit: dígito de verificación inválido: esperado %c, recibido %s", expected, dv)
	}
	return nil
}

func onlyDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}

// Normalize valida el NIT y lo devuelve en la forma canónica "base-dv", con el dígito calculado
// cuando no viene. "900.123.456-8", "900123456-8" y "900123456" dan "900123456-8".
func Normalize(taxID string) (string, error) {
	if err := Validate(taxID); err != nil {
		return "", err
	}
	base, _ := Split(taxID)
	dv, err := CheckDigit(base)
	if err != nil {
		return "", err
	}
	return base + "-" + string(dv), nil
}
