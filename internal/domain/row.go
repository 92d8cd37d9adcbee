package domain

import (
	"fmt"
	"strconv"
)

// CanonicalRow é uma linha normalizada. Cada célula é string ou float64,
// na ordem e quantidade declaradas pelo schema da tabela.
type CanonicalRow []any

// Strings formata as células para serialização em CSV
func (r CanonicalRow) Strings() []string {
	out := make([]string, len(r))
	for i, cell := range r {
		out[i] = FormatCell(cell)
	}
	return out
}

// FormatCell formata números sem notação científica
func FormatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
