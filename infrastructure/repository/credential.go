package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/vfg2006/ads-report-sync/infrastructure/database/postgres"
	"github.com/vfg2006/ads-report-sync/infrastructure/registry"
	"github.com/vfg2006/ads-report-sync/internal/domain"
)

const accountCredentialsTable = "account_credentials"

type CredentialRepository interface {
	LoadCredentials(ctx context.Context) ([]domain.AccountCredential, error)
	ReplaceAll(ctx context.Context, creds []domain.AccountCredential) error
}

type credentialRepository struct {
	conn postgres.Conn
}

func NewCredentialRepository(conn postgres.Conn) CredentialRepository {
	return &credentialRepository{
		conn: conn,
	}
}

// LoadCredentials devolve as contas ativas na ordem cadastrada, já filtradas como as da planilha
func (r *credentialRepository) LoadCredentials(ctx context.Context) ([]domain.AccountCredential, error) {
	query, args, err := selectCredentialsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	creds := make([]domain.AccountCredential, 0)
	for rows.Next() {
		var cred domain.AccountCredential
		if err := rows.Scan(&cred.AccountID, &cred.AccountName, &cred.AccessKey, &cred.SecretKey); err != nil {
			return nil, fmt.Errorf("erro ao escanear credencial: %w", err)
		}
		creds = append(creds, cred)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return registry.Filter(creds), nil
}

// ReplaceAll desativa todas as contas e grava as recebidas, na ordem recebida
func (r *credentialRepository) ReplaceAll(ctx context.Context, creds []domain.AccountCredential) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		deactivate, args, err := squirrel.
			Update(accountCredentialsTable).
			Set("active", false).
			Set("updated_at", squirrel.Expr("NOW()")).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, deactivate, args...); err != nil {
			return fmt.Errorf("erro ao desativar credenciais: %w", err)
		}

		for i, cred := range creds {
			query, args, err := upsertCredentialQuery(cred, i).ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				if pqErr, ok := err.(*pq.Error); ok {
					return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
				}
				return fmt.Errorf("erro ao gravar credencial %s: %w", cred.AccountID, err)
			}
		}

		return nil
	})
}

func selectCredentialsQuery() squirrel.SelectBuilder {
	return squirrel.
		Select("account_id", "account_name", "access_key", "secret_key").
		From(accountCredentialsTable).
		Where(squirrel.Eq{"active": true}).
		OrderBy("position ASC", "account_id ASC").
		PlaceholderFormat(squirrel.Dollar)
}

func upsertCredentialQuery(cred domain.AccountCredential, position int) squirrel.InsertBuilder {
	return squirrel.StatementBuilder.
		Insert(accountCredentialsTable).
		Columns("account_id", "account_name", "access_key", "secret_key", "position", "active").
		Values(cred.AccountID, cred.AccountName, cred.AccessKey, cred.SecretKey, position, true).
		Suffix(`
			ON CONFLICT (account_id) DO UPDATE SET
				account_name = EXCLUDED.account_name,
				access_key = EXCLUDED.access_key,
				secret_key = EXCLUDED.secret_key,
				position = EXCLUDED.position,
				active = TRUE,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)
}
