package syncing

import (
	"context"

	"github.com/vfg2006/ads-report-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/pkg/csvutil"
)

// CredentialRegistry fornece as contas de uma execução. Linhas incompletas já vêm filtradas.
type CredentialRegistry interface {
	LoadCredentials(ctx context.Context) ([]domain.AccountCredential, error)
}

// TableLoader substitui o conteúdo de uma tabela do warehouse
type TableLoader interface {
	Load(ctx context.Context, table string, header []string, rows []domain.CanonicalRow) (string, error)
}

// ReportDownloader conduz criar, aguardar e baixar um relatório de uma conta
type ReportDownloader interface {
	CreateAndDownloadReport(
		ctx context.Context,
		client adclient.Client,
		level domain.ReportLevel,
		window domain.ReportWindow,
		breakdown domain.Breakdown,
	) (*csvutil.Table, error)
}

// RunRecorder persiste o resumo de cada execução
type RunRecorder interface {
	SaveRun(ctx context.Context, summary *domain.RunSummary) error
}

// ClientFactory cria um client assinado com as chaves da conta
type ClientFactory func(cred domain.AccountCredential) adclient.Client

// NopRecorder descarta os resumos quando o histórico está desabilitado
type NopRecorder struct{}

func (NopRecorder) SaveRun(context.Context, *domain.RunSummary) error {
	return nil
}
