package adclient

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// SpacedJSON serializa v como JSON compacto e insere um espaço depois de cada ':' e ','
// fora de strings. O provedor valida a assinatura sobre esse formato exato.
func SpacedJSON(v any) ([]byte, error) {
	compact, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return spaceOut(compact), nil
}

func spaceOut(compact []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(compact) + len(compact)/4)

	inString := false
	escaped := false
	for _, b := range compact {
		out.WriteByte(b)

		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case ':', ',':
			out.WriteByte(' ')
		}
	}

	return out.Bytes()
}
