package adplatform

import (
	"fmt"

	"github.com/vfg2006/ads-report-sync/internal/domain"
)

// ReportGenerationFailedError indica que o provedor encerrou o relatório com FAILED ou ERROR
type ReportGenerationFailedError struct {
	ReportID string
	Status   domain.ReportStatus
}

func (e *ReportGenerationFailedError) Error() string {
	return fmt.Sprintf("report %s generation failed with status %s", e.ReportID, e.Status)
}

// ReportGenerationTimeoutError indica que as tentativas de polling se esgotaram sem READY
type ReportGenerationTimeoutError struct {
	ReportID string
	Attempts int
}

func (e *ReportGenerationTimeoutError) Error() string {
	return fmt.Sprintf("report %s not ready after %d poll attempts", e.ReportID, e.Attempts)
}
