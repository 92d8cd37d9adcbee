package adplatform

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-report-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/ads-report-sync/internal/config"
	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/pkg/csvutil"
	"github.com/vfg2006/ads-report-sync/pkg/utils"
)

// AdPlatformIntegrator conduz o ciclo de vida dos relatórios assíncronos: criar, consultar e baixar
type AdPlatformIntegrator struct {
	pollInterval time.Duration
	maxAttempts  int
	sleep        func(ctx context.Context, d time.Duration) error
}

func New(cfg *config.Config) *AdPlatformIntegrator {
	maxAttempts := cfg.Report.MaxPollAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &AdPlatformIntegrator{
		pollInterval: cfg.Report.PollInterval,
		maxAttempts:  maxAttempts,
		sleep:        utils.Sleep,
	}
}

// CreateAndDownloadReport cria o relatório, aguarda READY e devolve o CSV interpretado.
// Qualquer falha aborta a sequência inteira sem recriar o relatório.
func (s *AdPlatformIntegrator) CreateAndDownloadReport(
	ctx context.Context,
	client adclient.Client,
	level domain.ReportLevel,
	window domain.ReportWindow,
	breakdown domain.Breakdown,
) (*csvutil.Table, error) {
	req := adclient.NewCreateReportRequest(client.AccountID(), level, window, breakdown)

	reportID, err := client.CreateReport(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	logger := logrus.WithFields(logrus.Fields{
		"account_id": client.AccountID(),
		"report_id":  reportID,
		"level":      level,
		"attribute":  breakdown.Attribute,
	})
	logger.Debug("adplatform: report created")

	job, err := s.WaitForReport(ctx, client, reportID)
	if err != nil {
		return nil, err
	}

	text, err := client.DownloadReport(ctx, job.ReportID)
	if err != nil {
		return nil, fmt.Errorf("failed to download report %s: %w", job.ReportID, err)
	}

	table, err := csvutil.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", job.ReportID, err)
	}

	logger.WithField("rows", table.Len()).Debug("adplatform: report downloaded")

	return table, nil
}

// WaitForReport consulta o status em cadência fixa. Saídas: READY, FAILED/ERROR ou
// tentativas esgotadas. Não há espera antes da primeira consulta nem depois da última.
func (s *AdPlatformIntegrator) WaitForReport(ctx context.Context, client adclient.Client, reportID string) (domain.ReportJob, error) {
	job := domain.ReportJob{ReportID: reportID, Status: domain.ReportStatusPending}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		status, err := client.GetReportStatus(ctx, reportID)
		if err != nil {
			return job, fmt.Errorf("failed to poll report %s: %w", reportID, err)
		}
		job.Status = status

		if status == domain.ReportStatusReady {
			return job, nil
		}
		if status.IsFailure() {
			return job, &ReportGenerationFailedError{ReportID: reportID, Status: status}
		}

		logrus.WithFields(logrus.Fields{
			"account_id": client.AccountID(),
			"report_id":  reportID,
			"status":     status,
			"attempt":    attempt,
		}).Debug("adplatform: report not ready yet")

		if attempt == s.maxAttempts {
			break
		}
		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return job, err
		}
	}

	return job, &ReportGenerationTimeoutError{ReportID: reportID, Attempts: s.maxAttempts}
}
