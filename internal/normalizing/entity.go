package normalizing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vfg2006/ads-report-sync/pkg/csvutil"
)

// FlattenEntities transforma entidades JSON em uma tabela para passar pelo mesmo resolver dos relatórios.
// Objetos aninhados viram colunas "pai.filho" e listas são unidas por vírgula.
func FlattenEntities(entities []map[string]any) *csvutil.Table {
	flattened := make([]map[string]string, 0, len(entities))
	keys := make(map[string]struct{})

	for _, entity := range entities {
		flat := make(map[string]string)
		flattenInto(flat, "", entity)
		for k := range flat {
			keys[k] = struct{}{}
		}
		flattened = append(flattened, flat)
	}

	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)

	table := &csvutil.Table{Header: header, Rows: make([][]string, 0, len(flattened))}
	for _, flat := range flattened {
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = flat[k]
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

func flattenInto(dst map[string]string, prefix string, value map[string]any) {
	for k, v := range value {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		if nested, ok := v.(map[string]any); ok {
			flattenInto(dst, key, nested)
			continue
		}
		dst[key] = formatValue(v)
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
