// Package money reúne el formateo de valores en reales (BRL) y el cálculo de troco.
package money

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatBRL formatea un valor como moneda brasileña: R$ 1.234,56.
func FormatBRL(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	fixed := v.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + "R$ " + groupThousands(intPart) + "," + frac
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// Change calcula el troco de un pago en efectivo.
// Solo aplica cuando total y recibido son positivos; un recibido menor que el total da cero.
func Change(total, received decimal.Decimal) (decimal.Decimal, bool) {
	if !received.IsPositive() || !total.IsPositive() {
		return decimal.Zero, false
	}
	c := received.Sub(total)
	if c.IsNegative() {
		return decimal.Zero, true
	}
	return c.Round(2), true
}

// FormatDuration presenta un tiempo de preparación como "1h 5min" o "42min".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	hours := minutes / 60
	rem := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dmin", hours, rem)
	}
	return fmt.Sprintf("%dmin", rem)
}
