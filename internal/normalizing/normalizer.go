// Package normalizing converte tabelas com cabeçalhos imprevisíveis no formato canônico de cada tabela de saída.
package normalizing

import (
	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/pkg/csvutil"
)

// Result é o resultado da normalização da resposta de uma conta
type Result struct {
	Header []string
	Rows   []domain.CanonicalRow
	// Unmatched lista os campos cujos aliases não apareceram no cabeçalho.
	// Uma coluna presente porém vazia não entra aqui.
	Unmatched []string
	Dropped   int
}

// Normalize mapeia a tabela para o schema, prefixando cada linha com a conta.
// Linhas cujo primeiro campo do schema está vazio são descartadas.
func Normalize(schema Schema, table *csvutil.Table, account domain.AccountCredential) Result {
	result := Result{
		Header:    schema.Header(),
		Rows:      make([]domain.CanonicalRow, 0),
		Unmatched: make([]string, 0),
	}

	var header []string
	if table != nil {
		header = table.Header
	}

	indexes := make([]int, len(schema.Fields))
	for i, field := range schema.Fields {
		indexes[i] = ResolveColumn(header, field.Aliases)
		if indexes[i] == NotFound {
			result.Unmatched = append(result.Unmatched, field.Name)
		}
	}

	if table == nil || len(schema.Fields) == 0 {
		return result
	}

	for _, raw := range table.Rows {
		if SafeString(raw, indexes[0]) == "" {
			result.Dropped++
			continue
		}

		row := make(domain.CanonicalRow, 0, len(result.Header))
		row = append(row, account.AccountID, account.AccountName)
		for i, field := range schema.Fields {
			if field.Kind == KindNumber {
				row = append(row, SafeNumber(raw, indexes[i]))
				continue
			}
			row = append(row, SafeString(raw, indexes[i]))
		}
		result.Rows = append(result.Rows, row)
	}

	return result
}
