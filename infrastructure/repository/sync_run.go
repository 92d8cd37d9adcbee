package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/vfg2006/ads-report-sync/infrastructure/database/postgres"
	"github.com/vfg2006/ads-report-sync/internal/domain"
)

const (
	syncRunsTable        = "sync_runs"
	syncRunAccountsTable = "sync_run_accounts"
)

type SyncRunRepository interface {
	SaveRun(ctx context.Context, summary *domain.RunSummary) error
	ListRecent(ctx context.Context, limit int) ([]*domain.RunSummary, error)
}

type syncRunRepository struct {
	conn postgres.Conn
}

func NewSyncRunRepository(conn postgres.Conn) SyncRunRepository {
	return &syncRunRepository{
		conn: conn,
	}
}

// SaveRun grava o resumo e o resultado de cada conta na mesma transação
func (r *syncRunRepository) SaveRun(ctx context.Context, summary *domain.RunSummary) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		query, args, err := insertRunQuery(summary).ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
			}
			return fmt.Errorf("erro ao gravar execução: %w", err)
		}

		if len(summary.Accounts) == 0 {
			return nil
		}

		query, args, err = insertRunAccountsQuery(summary).ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("erro ao gravar contas da execução: %w", err)
		}

		return nil
	})
}

// ListRecent devolve as últimas execuções, mais recentes primeiro
func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]*domain.RunSummary, error) {
	query, args, err := squirrel.
		Select("id", "report_type", "table_name", "started_at", "finished_at",
			"succeeded", "failed", "rows_loaded", "COALESCE(load_job_id, '')", "COALESCE(load_error, '')").
		From(syncRunsTable).
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.RunSummary, 0)
	byID := make(map[string]*domain.RunSummary)
	for rows.Next() {
		var (
			run     domain.RunSummary
			loadErr string
		)
		err := rows.Scan(&run.RunID, &run.ReportType, &run.Table, &run.StartedAt, &run.FinishedAt,
			&run.Succeeded, &run.Failed, &run.RowsLoaded, &run.LoadJobID, &loadErr)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear execução: %w", err)
		}
		if loadErr != "" {
			run.LoadErr = errors.New(loadErr)
		}
		run.Accounts = make([]domain.AccountRunResult, 0)

		runs = append(runs, &run)
		byID[run.RunID] = &run
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	if len(runs) == 0 {
		return runs, nil
	}

	if err := r.attachAccounts(ctx, byID); err != nil {
		return nil, err
	}

	return runs, nil
}

func (r *syncRunRepository) attachAccounts(ctx context.Context, byID map[string]*domain.RunSummary) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := squirrel.
		Select("run_id", "account_id", "account_name", "succeeded", "rows_produced", "COALESCE(error, '')").
		From(syncRunAccountsTable).
		Where(squirrel.Eq{"run_id": ids}).
		OrderBy("run_id", "position").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			runID   string
			result  domain.AccountRunResult
			message string
		)
		if err := rows.Scan(&runID, &result.AccountID, &result.AccountName, &result.Succeeded, &result.RowsProduced, &message); err != nil {
			return fmt.Errorf("erro ao escanear conta da execução: %w", err)
		}
		if message != "" {
			result.Err = errors.New(message)
		}
		if run, ok := byID[runID]; ok {
			run.Accounts = append(run.Accounts, result)
		}
	}

	return rows.Err()
}

func insertRunQuery(summary *domain.RunSummary) squirrel.InsertBuilder {
	return squirrel.StatementBuilder.
		Insert(syncRunsTable).
		Columns("id", "report_type", "table_name", "started_at", "finished_at",
			"succeeded", "failed", "rows_loaded", "load_job_id", "load_error").
		Values(
			summary.RunID,
			string(summary.ReportType),
			summary.Table,
			summary.StartedAt,
			summary.FinishedAt,
			summary.Succeeded,
			summary.Failed,
			summary.RowsLoaded,
			nullString(summary.LoadJobID),
			nullString(summary.LoadErrorMessage()),
		).
		PlaceholderFormat(squirrel.Dollar)
}

func insertRunAccountsQuery(summary *domain.RunSummary) squirrel.InsertBuilder {
	query := squirrel.StatementBuilder.
		Insert(syncRunAccountsTable).
		Columns("run_id", "position", "account_id", "account_name", "succeeded", "rows_produced", "error").
		PlaceholderFormat(squirrel.Dollar)

	for i, account := range summary.Accounts {
		query = query.Values(
			summary.RunID,
			i,
			account.AccountID,
			account.AccountName,
			account.Succeeded,
			account.RowsProduced,
			nullString(account.ErrorMessage()),
		)
	}

	return query
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
