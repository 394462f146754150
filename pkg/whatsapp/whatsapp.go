// Package whatsapp arma deep links wa.me y formatea teléfonos brasileños.
package whatsapp

import (
	"net/url"
	"strings"
	"unicode"
)

const countryCode = "55"

// Digits deja solo los dígitos del teléfono.
func Digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// Normalize dígitos con el prefijo 55 agregado si falta. "" si no hay dígitos.
func Normalize(phone string) string {
	d := Digits(phone)
	if d == "" {
		return ""
	}
	if !strings.HasPrefix(d, countryCode) {
		d = countryCode + d
	}
	return d
}

// Link https://wa.me/<numero>?text=<mensaje>. "" si el teléfono no tiene dígitos.
func Link(phone, message string) string {
	n := Normalize(phone)
	if n == "" {
		return ""
	}
	return "https://wa.me/" + n + "?text=" + url.QueryEscape(message)
}

// Format +55 (11) 91234-5678 para números de 13 dígitos; el resto se devuelve tal cual.
func Format(phone string) string {
	d := Normalize(phone)
	if len(d) != 13 {
		return phone
	}
	return "+" + d[:2] + " (" + d[2:4] + ") " + d[4:9] + "-" + d[9:]
}
