package normalizing

import (
	"strings"

	"github.com/vfg2006/ads-report-sync/pkg/utils"
)

// NotFound é o índice devolvido quando nenhum alias corresponde ao cabeçalho
const NotFound = -1

// ResolveColumn procura os aliases em ordem de prioridade e devolve o índice
// da primeira coluna que corresponder, ignorando caixa e espaços.
func ResolveColumn(header []string, aliases []string) int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	for _, alias := range aliases {
		want := normalizeHeader(alias)
		for i, h := range normalized {
			if h == want {
				return i
			}
		}
	}

	return NotFound
}

// SafeString devolve a célula sem espaços nas bordas, ou vazio quando ausente
func SafeString(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// SafeNumber devolve a célula como número, removendo separadores de milhar.
// Células ausentes ou não numéricas valem zero.
func SafeNumber(row []string, idx int) float64 {
	n, ok := utils.ParseNumber(SafeString(row, idx))
	if !ok {
		return 0
	}
	return n
}

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}
