package warehouse

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-report-sync/internal/config"
	"github.com/vfg2006/ads-report-sync/pkg/utils"
)

var invalidJobIDChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// BigQuerySubmitter carrega CSVs no dataset configurado com WRITE_TRUNCATE
type BigQuerySubmitter struct {
	client      *bigquery.Client
	dataset     string
	waitForJobs bool
}

func NewBigQuerySubmitter(ctx context.Context, cfg *config.Config) (*BigQuerySubmitter, error) {
	client, err := bigquery.NewClient(ctx, cfg.BigQuery.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigquery client: %w", err)
	}

	return &BigQuerySubmitter{
		client:      client,
		dataset:     cfg.BigQuery.Dataset,
		waitForJobs: cfg.BigQuery.WaitForJobs,
	}, nil
}

func (s *BigQuerySubmitter) Submit(ctx context.Context, table string, payload string) (string, error) {
	source := bigquery.NewReaderSource(strings.NewReader(payload))
	source.SourceFormat = bigquery.CSV
	source.AutoDetect = true
	source.SkipLeadingRows = 1
	source.AllowQuotedNewlines = true

	loader := s.client.Dataset(s.dataset).Table(table).LoaderFrom(source)
	loader.WriteDisposition = bigquery.WriteTruncate
	loader.CreateDisposition = bigquery.CreateIfNeeded

	suffix, err := utils.GenerateID()
	if err != nil {
		return "", fmt.Errorf("failed to generate job id: %w", err)
	}
	loader.JobID = LoadJobID(table, suffix)

	job, err := loader.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start load job: %w", err)
	}

	if !s.waitForJobs {
		return job.ID(), nil
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return job.ID(), fmt.Errorf("failed to wait for load job %s: %w", job.ID(), err)
	}
	if status.Err() != nil {
		return job.ID(), fmt.Errorf("load job %s failed: %w", job.ID(), status.Err())
	}

	logrus.WithFields(logrus.Fields{
		"table":  table,
		"job_id": job.ID(),
	}).Debug("warehouse: load job done")

	return job.ID(), nil
}

func (s *BigQuerySubmitter) Close() error {
	return s.client.Close()
}

// LoadJobID monta um id de job aceito pelo BigQuery
func LoadJobID(table, suffix string) string {
	return "adsync_" + invalidJobIDChars.ReplaceAllString(table, "_") + "_" + suffix
}
