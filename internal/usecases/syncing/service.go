// Package syncing percorre as contas do registro, gera as linhas de cada tipo de relatório
// e carrega o resultado agregado na tabela de destino.
package syncing

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/vfg2006/ads-report-sync/internal/config"
	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/pkg/log"
	"github.com/vfg2006/ads-report-sync/pkg/utils"
)

type Service struct {
	cfg       *config.Config
	registry  CredentialRegistry
	newClient ClientFactory
	reports   ReportDownloader
	loader    TableLoader
	recorder  RunRecorder
	sleep     func(ctx context.Context, d time.Duration) error
	now       func() time.Time
}

func NewService(
	cfg *config.Config,
	registry CredentialRegistry,
	newClient ClientFactory,
	reports ReportDownloader,
	loader TableLoader,
	recorder RunRecorder,
) *Service {
	if recorder == nil {
		recorder = NopRecorder{}
	}

	return &Service{
		cfg:       cfg,
		registry:  registry,
		newClient: newClient,
		reports:   reports,
		loader:    loader,
		recorder:  recorder,
		sleep:     utils.Sleep,
		now:       time.Now,
	}
}

// Run sincroniza um tipo de relatório para todas as contas e carrega uma única vez a tabela.
// Falhas de uma conta ficam registradas no resumo e não interrompem as demais; o erro
// retornado se refere apenas ao que impede a carga da tabela.
func (s *Service) Run(ctx context.Context, reportType domain.ReportType) (*domain.RunSummary, error) {
	table := s.cfg.Tables.ForReportType(reportType)
	if table == "" {
		return nil, fmt.Errorf("%w: %s", ErrTableNotConfigured, reportType)
	}

	header, produce, err := s.pipelineFor(reportType)
	if err != nil {
		return nil, err
	}

	loc, err := s.cfg.Report.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone: %w", err)
	}

	ctx, runID := log.WithRunID(ctx)
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"report_type": reportType,
		"table":       table,
	})

	startedAt := s.now()
	scope := runScope{
		reportType: reportType,
		window:     domain.NewReportWindow(startedAt, s.cfg.Report.LookbackDays, s.cfg.Report.IncludeToday, loc),
		fetchedAt:  startedAt.In(loc).Format(time.RFC3339),
	}

	creds, err := s.registry.LoadCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	logger.WithFields(log.Fields{
		"accounts": len(creds),
		"since":    scope.window.SinceString(),
		"until":    scope.window.UntilString(),
	}).Info("Iniciando sincronização")

	summary := domain.NewRunSummary(runID, reportType, table, startedAt)
	rows := make([]domain.CanonicalRow, 0)

	for i, cred := range creds {
		if i > 0 {
			if err := s.sleep(ctx, s.cfg.Sync.AccountDelay); err != nil {
				logger.WithError(err).Warn("Sincronização interrompida antes de concluir todas as contas")
				summary.LoadErr = err
				summary.FinishedAt = s.now()
				s.record(ctx, summary)
				return summary, err
			}
		}

		result, accountRows := s.syncAccount(ctx, produce, cred, scope)
		summary.Record(result)
		rows = append(rows, accountRows...)
	}

	jobID, err := s.loader.Load(ctx, table, header, rows)
	if err != nil {
		summary.LoadErr = err
		logger.WithError(err).Error("Erro ao carregar a tabela no warehouse")
	} else {
		summary.LoadJobID = jobID
		summary.RowsLoaded = len(rows)
	}
	summary.FinishedAt = s.now()

	logger.WithFields(log.Fields{
		"succeeded":   summary.Succeeded,
		"failed":      summary.Failed,
		"rows_loaded": summary.RowsLoaded,
		"job_id":      summary.LoadJobID,
		"duration":    summary.FinishedAt.Sub(summary.StartedAt).String(),
	}).Info("Sincronização concluída")

	s.record(ctx, summary)

	return summary, err
}

// RunAll executa todos os tipos na ordem fixa. A falha de um tipo não impede os seguintes.
func (s *Service) RunAll(ctx context.Context) (summaries []*domain.RunSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = pkgerrors.WithStack(fmt.Errorf("%w: %v", ErrPipelinePanic, r))
			log.ForContext(ctx).Errorf("Pânico inesperado na sincronização completa: %+v", err)
		}
	}()

	var errs []error
	for i, reportType := range domain.AllReportTypes {
		if i > 0 {
			if err := s.sleep(ctx, s.cfg.Sync.StageDelay); err != nil {
				return summaries, errors.Join(append(errs, err)...)
			}
		}

		summary, err := s.Run(ctx, reportType)
		if summary != nil {
			summaries = append(summaries, summary)
		}
		if err != nil {
			log.ForContext(ctx).WithError(err).WithField("report_type", reportType).Error("Erro na etapa da sincronização completa")
			errs = append(errs, fmt.Errorf("%s: %w", reportType, err))
		}
	}

	return summaries, errors.Join(errs...)
}

// syncAccount isola uma conta: erros e pânicos viram um resultado com falha
func (s *Service) syncAccount(ctx context.Context, produce pipeline, cred domain.AccountCredential, scope runScope) (result domain.AccountRunResult, rows []domain.CanonicalRow) {
	result = domain.AccountRunResult{AccountID: cred.AccountID, AccountName: cred.AccountName}
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"account_id":   cred.AccountID,
		"account_name": cred.AccountName,
		"report_type":  scope.reportType,
	})

	defer func() {
		if r := recover(); r != nil {
			panicErr := pkgerrors.WithStack(fmt.Errorf("%w: %v", ErrPipelinePanic, r))
			logger.Errorf("Pânico ao processar a conta: %+v", panicErr)
			result.Succeeded = false
			result.RowsProduced = 0
			result.Err = &AccountError{AccountID: cred.AccountID, ReportType: scope.reportType, Err: panicErr}
			rows = nil
		}
	}()

	normalized, err := produce(ctx, cred, scope)
	if err != nil {
		logger.WithError(err).Error("Erro ao processar a conta")
		result.Err = &AccountError{AccountID: cred.AccountID, ReportType: scope.reportType, Err: err}
		return result, nil
	}

	if len(normalized.Unmatched) > 0 {
		logger.WithFields(log.Fields{
			"unmatched": normalized.Unmatched,
		}).Warn("Nenhum alias encontrado no cabeçalho para alguns campos")
	}

	if normalized.Dropped > 0 {
		logger.WithField("dropped", normalized.Dropped).Debug("Linhas sem identificador descartadas")
	}

	result.Succeeded = true
	result.RowsProduced = len(normalized.Rows)
	logger.WithField("rows", result.RowsProduced).Info("Conta processada")

	return result, normalized.Rows
}

// record nunca falha a execução: o histórico é auxiliar
func (s *Service) record(ctx context.Context, summary *domain.RunSummary) {
	if err := s.recorder.SaveRun(context.WithoutCancel(ctx), summary); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao salvar o histórico da execução")
	}
}
