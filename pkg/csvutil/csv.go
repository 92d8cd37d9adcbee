// Package csvutil lê e escreve as tabelas delimitadas trocadas com o provedor de anúncios e com o warehouse.
package csvutil

import (
	"errors"
	"strings"
)

const utf8BOM = "\ufeff"

// ErrUnterminatedQuote indica um campo entre aspas sem aspas de fechamento
var ErrUnterminatedQuote = errors.New("csv: unterminated quoted field")

// Table é um CSV já separado em cabeçalho e linhas de dados
type Table struct {
	Header []string
	Rows   [][]string
}

// Len retorna a quantidade de linhas de dados
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Parse interpreta o texto como CSV: primeira linha é o cabeçalho, o restante são dados.
// Registros terminam em \n ou \r\n; dentro de aspas o conteúdo é mantido byte a byte,
// inclusive \r\n. Linhas em branco são ignoradas e linhas com quantidade de colunas
// diferente do cabeçalho são aceitas.
func Parse(text string) (*Table, error) {
	records, err := parseRecords(strings.TrimPrefix(text, utf8BOM))
	if err != nil {
		return nil, err
	}

	table := &Table{Rows: make([][]string, 0, len(records))}
	for _, record := range records {
		if table.Header == nil {
			table.Header = record
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

type recordParser struct {
	records [][]string
	record  []string
	field   strings.Builder
	quoted  bool
}

func (p *recordParser) endField() {
	p.record = append(p.record, p.field.String())
	p.field.Reset()
}

func (p *recordParser) endRecord() {
	blank := len(p.record) == 0 && p.field.Len() == 0 && !p.quoted
	p.endField()
	if !blank {
		p.records = append(p.records, p.record)
	}
	p.record = nil
	p.quoted = false
}

func parseRecords(text string) ([][]string, error) {
	p := &recordParser{}
	inQuotes := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c != '"' {
				p.field.WriteByte(c)
				continue
			}
			last := i+1 == len(text)
			switch {
			case !last && text[i+1] == '"':
				p.field.WriteByte('"')
				i++
			case last, text[i+1] == ',', text[i+1] == '\n', text[i+1] == '\r':
				inQuotes = false
			default:
				// aspas soltas no meio do campo
				p.field.WriteByte('"')
			}
			continue
		}

		switch c {
		case '"':
			if p.field.Len() == 0 && !p.quoted {
				inQuotes = true
				p.quoted = true
				continue
			}
			p.field.WriteByte(c)
		case ',':
			p.endField()
			p.quoted = false
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			p.endRecord()
		case '\n':
			p.endRecord()
		default:
			p.field.WriteByte(c)
		}
	}

	if inQuotes {
		return nil, ErrUnterminatedQuote
	}
	if len(p.record) > 0 || p.field.Len() > 0 || p.quoted {
		p.endRecord()
	}

	return p.records, nil
}

// Serialize escreve cabeçalho e linhas como CSV com terminador \n.
// Células com vírgula, aspas, \r ou \n são envolvidas em aspas e copiadas sem alteração;
// um registro de uma única célula vazia vira "" para não ser lido como linha em branco.
func Serialize(header []string, rows [][]string) (string, error) {
	var b strings.Builder

	writeRecord(&b, header)
	for _, row := range rows {
		writeRecord(&b, row)
	}

	return b.String(), nil
}

func writeRecord(b *strings.Builder, record []string) {
	for i, field := range record {
		if i > 0 {
			b.WriteByte(',')
		}

		if !needsQuotes(field) && !(len(record) == 1 && field == "") {
			b.WriteString(field)
			continue
		}

		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

func needsQuotes(field string) bool {
	return strings.ContainsAny(field, ",\"\r\n")
}
