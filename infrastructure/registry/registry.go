// Package registry lê o cadastro de contas e chaves de API exportado da planilha.
package registry

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/pkg/csvutil"
)

// SheetRegistry lê um CSV com as colunas accountId, accountName, accessKey e secretKey,
// nessa ordem, com cabeçalho na primeira linha.
type SheetRegistry struct {
	path string
}

func NewSheetRegistry(path string) *SheetRegistry {
	return &SheetRegistry{path: path}
}

func (r *SheetRegistry) LoadCredentials(ctx context.Context) ([]domain.AccountCredential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", r.path, err)
	}

	table, err := csvutil.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", r.path, err)
	}

	return FromRows(table.Rows), nil
}

// FromRows converte as linhas de dados (sem cabeçalho) em credenciais válidas
func FromRows(rows [][]string) []domain.AccountCredential {
	creds := make([]domain.AccountCredential, 0, len(rows))
	for _, row := range rows {
		creds = append(creds, domain.AccountCredential{
			AccountID:   cell(row, 0),
			AccountName: cell(row, 1),
			AccessKey:   cell(row, 2),
			SecretKey:   cell(row, 3),
		})
	}
	return Filter(creds)
}

// Filter descarta com aviso as credenciais incompletas e os accountId repetidos.
// A posição registrada no log é a linha da planilha, contando o cabeçalho.
func Filter(creds []domain.AccountCredential) []domain.AccountCredential {
	valid := make([]domain.AccountCredential, 0, len(creds))
	seen := make(map[string]bool, len(creds))

	for i, cred := range creds {
		logger := logrus.WithFields(logrus.Fields{
			"row":        i + 2,
			"account_id": cred.AccountID,
		})

		if err := cred.Validate(); err != nil {
			logger.WithError(err).Warn("registry: credencial incompleta ignorada")
			continue
		}
		if seen[cred.AccountID] {
			logger.Warn("registry: accountId duplicado ignorado")
			continue
		}

		seen[cred.AccountID] = true
		valid = append(valid, cred)
	}

	return valid
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
