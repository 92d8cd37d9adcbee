package syncing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/ads-report-sync/internal/domain"
)

var (
	ErrTableNotConfigured = errors.New("destination table not configured")
	ErrPipelinePanic      = errors.New("pipeline panicked")
)

// AccountError identifica a conta e o tipo de relatório em que a falha aconteceu
type AccountError struct {
	AccountID  string
	ReportType domain.ReportType
	Err        error
}

func (e *AccountError) Error() string {
	return fmt.Sprintf("account %s (%s): %v", e.AccountID, e.ReportType, e.Err)
}

func (e *AccountError) Unwrap() error {
	return e.Err
}
