// Package warehouse serializa as linhas canônicas e as envia como carga destrutiva para o warehouse.
package warehouse

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/pkg/csvutil"
)

// Submitter envia um CSV com cabeçalho substituindo todo o conteúdo da tabela
type Submitter interface {
	Submit(ctx context.Context, table string, payload string) (jobID string, err error)
}

// LoadSubmissionError indica que o destino recusou a carga de uma tabela
type LoadSubmissionError struct {
	Table string
	Err   error
}

func (e *LoadSubmissionError) Error() string {
	return fmt.Sprintf("load submission to table %s failed: %v", e.Table, e.Err)
}

func (e *LoadSubmissionError) Unwrap() error {
	return e.Err
}

type Loader struct {
	submitter Submitter
}

func NewLoader(submitter Submitter) *Loader {
	return &Loader{submitter: submitter}
}

// Load envia um único job com cabeçalho e linhas. Sem linhas nada é enviado.
func (l *Loader) Load(ctx context.Context, table string, header []string, rows []domain.CanonicalRow) (string, error) {
	logger := logrus.WithFields(logrus.Fields{
		"table": table,
		"rows":  len(rows),
	})

	if len(rows) == 0 {
		logger.Info("warehouse: no rows to load, skipping")
		return "", nil
	}

	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = row.Strings()
	}

	payload, err := csvutil.Serialize(header, records)
	if err != nil {
		return "", &LoadSubmissionError{Table: table, Err: err}
	}

	jobID, err := l.submitter.Submit(ctx, table, payload)
	if err != nil {
		logger.WithError(err).Error("warehouse: load submission failed")
		return "", &LoadSubmissionError{Table: table, Err: err}
	}

	logger.WithField("job_id", jobID).Info("warehouse: load job submitted")
	return jobID, nil
}
