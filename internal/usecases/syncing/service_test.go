package syncing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/ads-report-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/ads-report-sync/internal/config"
	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/internal/normalizing"
	"github.com/vfg2006/ads-report-sync/internal/usecases/syncing/mocks"
	"github.com/vfg2006/ads-report-sync/pkg/csvutil"
)

var fixedNow = time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)

// fakeClient responde apenas o que os pipelines de entidades usam
type fakeClient struct {
	adclient.Client
	id       string
	entities []adclient.Entity
	err      error
}

func (c *fakeClient) AccountID() string { return c.id }

func (c *fakeClient) ListCampaigns(context.Context) ([]adclient.Entity, error) {
	return c.entities, c.err
}

func (c *fakeClient) ListAdGroups(context.Context, string) ([]adclient.Entity, error) {
	return c.entities, c.err
}

func (c *fakeClient) ListMedia(context.Context) ([]adclient.Entity, error) {
	return c.entities, c.err
}

func testConfig() *config.Config {
	return &config.Config{
		Report: config.Report{LookbackDays: 7, Timezone: "UTC"},
		Sync:   config.Sync{AccountDelay: 2 * time.Second, StageDelay: 5 * time.Second},
		Tables: config.Tables{
			Account:  "ad_account",
			Campaign: "ad_campaign",
			AdGroup:  "ad_adgroup",
			AdReport: "ad_report",
			Media:    "ad_media",
			Gender:   "ad_report_gender",
			Age:      "ad_report_age",
			Device:   "ad_report_device",
		},
	}
}

type testDeps struct {
	registry *mocks.MockCredentialRegistry
	reports  *mocks.MockReportDownloader
	loader   *mocks.MockTableLoader
	recorder *mocks.MockRunRecorder
	clients  map[string]*fakeClient
	sleeps   []time.Duration
}

func newTestService(t *testing.T) (*Service, *testDeps) {
	ctrl := gomock.NewController(t)
	deps := &testDeps{
		registry: mocks.NewMockCredentialRegistry(ctrl),
		reports:  mocks.NewMockReportDownloader(ctrl),
		loader:   mocks.NewMockTableLoader(ctrl),
		recorder: mocks.NewMockRunRecorder(ctrl),
		clients:  make(map[string]*fakeClient),
	}

	factory := func(cred domain.AccountCredential) adclient.Client {
		if c, ok := deps.clients[cred.AccountID]; ok {
			return c
		}
		return &fakeClient{id: cred.AccountID}
	}

	svc := NewService(testConfig(), deps.registry, factory, deps.reports, deps.loader, deps.recorder)
	svc.now = func() time.Time { return fixedNow }
	svc.sleep = func(_ context.Context, d time.Duration) error {
		deps.sleeps = append(deps.sleeps, d)
		return nil
	}

	return svc, deps
}

var threeAccounts = []domain.AccountCredential{
	{AccountID: "A1", AccountName: "Loja Centro", AccessKey: "ak1", SecretKey: "sk1"},
	{AccountID: "A2", AccountName: "Loja Norte", AccessKey: "ak2", SecretKey: "sk2"},
	{AccountID: "A3", AccountName: "Loja Sul", AccessKey: "ak3", SecretKey: "sk3"},
}

func adReportTable(adID string) *csvutil.Table {
	return &csvutil.Table{
		Header: []string{"日付", "広告ID", "インプレッション", "クリック"},
		Rows:   [][]string{{"2024-03-09", adID, "100", "5"}},
	}
}

func TestRunFaultIsolation(t *testing.T) {
	tests := []struct {
		name    string
		failure func() (*csvutil.Table, error)
	}{
		{
			name: "erro da API",
			failure: func() (*csvutil.Table, error) {
				return nil, &adclient.StatusError{Method: "POST", Endpoint: "/pfReports", StatusCode: 500}
			},
		},
		{
			name: "pânico no pipeline",
			failure: func() (*csvutil.Table, error) {
				panic("unexpected payload")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService(t)

			deps.registry.EXPECT().LoadCredentials(gomock.Any()).Return(threeAccounts, nil)
			deps.reports.EXPECT().
				CreateAndDownloadReport(gomock.Any(), gomock.Any(), domain.ReportLevelAd, gomock.Any(), domain.Breakdown{Time: domain.TimeBreakdownDay}).
				DoAndReturn(func(_ context.Context, client adclient.Client, _ domain.ReportLevel, window domain.ReportWindow, _ domain.Breakdown) (*csvutil.Table, error) {
					assert.Equal(t, "2024-03-03", window.SinceString())
					assert.Equal(t, "2024-03-09", window.UntilString())
					if client.AccountID() == "A2" {
						return tt.failure()
					}
					return adReportTable("ad-" + client.AccountID()), nil
				}).
				Times(3)

			schema, _ := normalizing.SchemaFor(domain.ReportTypeAd)
			var loaded []domain.CanonicalRow
			deps.loader.EXPECT().
				Load(gomock.Any(), "ad_report", schema.Header(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, _ []string, rows []domain.CanonicalRow) (string, error) {
					loaded = rows
					return "job-1", nil
				})
			deps.recorder.EXPECT().SaveRun(gomock.Any(), gomock.Any()).Return(nil)

			summary, err := svc.Run(context.Background(), domain.ReportTypeAd)
			require.NoError(t, err)

			assert.Equal(t, 2, summary.Succeeded)
			assert.Equal(t, 1, summary.Failed)
			assert.Equal(t, 2, summary.RowsLoaded)
			assert.Equal(t, "job-1", summary.LoadJobID)
			assert.NotEmpty(t, summary.RunID)

			require.Len(t, summary.Accounts, 3)
			assert.False(t, summary.Accounts[1].Succeeded)
			var accountErr *AccountError
			require.True(t, errors.As(summary.Accounts[1].Err, &accountErr))
			assert.Equal(t, "A2", accountErr.AccountID)

			require.Len(t, loaded, 2)
			assert.Equal(t, "A1", loaded[0][0])
			assert.Equal(t, "ad-A1", loaded[0][7])
			assert.Equal(t, "A3", loaded[1][0])
			assert.Equal(t, 100.0, loaded[1][9])

			assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, deps.sleeps)
		})
	}
}

func TestRunAccountTable(t *testing.T) {
	svc, deps := newTestService(t)

	deps.registry.EXPECT().LoadCredentials(gomock.Any()).Return(threeAccounts[:2], nil)
	deps.loader.EXPECT().
		Load(gomock.Any(), "ad_account", normalizing.AccountHeader, []domain.CanonicalRow{
			{"A1", "Loja Centro", "2024-03-10T03:00:00Z"},
			{"A2", "Loja Norte", "2024-03-10T03:00:00Z"},
		}).
		Return("job-accounts", nil)
	deps.recorder.EXPECT().SaveRun(gomock.Any(), gomock.Any()).Return(nil)

	summary, err := svc.Run(context.Background(), domain.ReportTypeAccount)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.RowsLoaded)
	assert.Equal(t, 2, summary.Succeeded)
}

func TestRunEntityTable(t *testing.T) {
	svc, deps := newTestService(t)
	deps.clients["A1"] = &fakeClient{id: "A1", entities: []adclient.Entity{
		{"id": "c1", "name": "Campanha 1", "status": "ACTIVE", "budget": map[string]any{"amount": "1,000"}},
	}}
	deps.clients["A2"] = &fakeClient{id: "A2", err: errors.New("connection reset")}

	deps.registry.EXPECT().LoadCredentials(gomock.Any()).Return(threeAccounts[:2], nil)
	deps.loader.EXPECT().
		Load(gomock.Any(), "ad_campaign", gomock.Any(), gomock.Len(1)).
		Return("job-c", nil)
	deps.recorder.EXPECT().SaveRun(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, summary *domain.RunSummary) error {
		assert.Equal(t, domain.ReportTypeCampaign, summary.ReportType)
		assert.Equal(t, 1, summary.Failed)
		return errors.New("database down")
	})

	summary, err := svc.Run(context.Background(), domain.ReportTypeCampaign)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.RowsLoaded)
}

func TestRunErrors(t *testing.T) {
	t.Run("registro indisponível", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.registry.EXPECT().LoadCredentials(gomock.Any()).Return(nil, errors.New("file not found"))

		summary, err := svc.Run(context.Background(), domain.ReportTypeAd)
		assert.Nil(t, summary)
		assert.ErrorContains(t, err, "file not found")
	})

	t.Run("tipo desconhecido", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Run(context.Background(), domain.ReportType("region"))
		assert.ErrorIs(t, err, ErrTableNotConfigured)
	})

	t.Run("falha na carga", func(t *testing.T) {
		svc, deps := newTestService(t)
		loadErr := errors.New("quota exceeded")

		deps.registry.EXPECT().LoadCredentials(gomock.Any()).Return(threeAccounts[:1], nil)
		deps.loader.EXPECT().Load(gomock.Any(), "ad_account", gomock.Any(), gomock.Any()).Return("", loadErr)
		deps.recorder.EXPECT().SaveRun(gomock.Any(), gomock.Any()).Return(nil)

		summary, err := svc.Run(context.Background(), domain.ReportTypeAccount)
		assert.ErrorIs(t, err, loadErr)
		require.NotNil(t, summary)
		assert.Equal(t, 1, summary.Succeeded)
		assert.Zero(t, summary.RowsLoaded)
		assert.Equal(t, "quota exceeded", summary.LoadErrorMessage())
	})

	t.Run("cancelamento durante a espera entre contas", func(t *testing.T) {
		svc, deps := newTestService(t)
		svc.sleep = func(context.Context, time.Duration) error { return context.Canceled }

		deps.registry.EXPECT().LoadCredentials(gomock.Any()).Return(threeAccounts, nil)
		deps.reports.EXPECT().CreateAndDownloadReport(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(adReportTable("x"), nil).
			Times(1)
		deps.recorder.EXPECT().SaveRun(gomock.Any(), gomock.Any()).Return(nil)

		summary, err := svc.Run(context.Background(), domain.ReportTypeAd)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Len(t, summary.Accounts, 1)
	})
}

func TestRunAll(t *testing.T) {
	t.Run("falha de uma etapa não impede as seguintes", func(t *testing.T) {
		svc, deps := newTestService(t)

		deps.registry.EXPECT().LoadCredentials(gomock.Any()).Return(threeAccounts[:1], nil).Times(len(domain.AllReportTypes))
		deps.reports.EXPECT().CreateAndDownloadReport(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&csvutil.Table{}, nil).
			Times(4)
		deps.recorder.EXPECT().SaveRun(gomock.Any(), gomock.Any()).Return(nil).Times(len(domain.AllReportTypes))

		var tables []string
		deps.loader.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, table string, _ []string, _ []domain.CanonicalRow) (string, error) {
				tables = append(tables, table)
				if table == "ad_campaign" {
					return "", errors.New("load rejected")
				}
				return "", nil
			}).
			Times(len(domain.AllReportTypes))

		summaries, err := svc.RunAll(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "campaign: load rejected")
		assert.Len(t, summaries, len(domain.AllReportTypes))
		assert.Equal(t, []string{
			"ad_account", "ad_campaign", "ad_adgroup", "ad_media",
			"ad_report", "ad_report_gender", "ad_report_age", "ad_report_device",
		}, tables)

		stageSleeps := 0
		for _, d := range deps.sleeps {
			if d == 5*time.Second {
				stageSleeps++
			}
		}
		assert.Equal(t, len(domain.AllReportTypes)-1, stageSleeps)
	})

	t.Run("pânico fora das contas encerra a execução", func(t *testing.T) {
		svc, deps := newTestService(t)

		deps.registry.EXPECT().LoadCredentials(gomock.Any()).Return(threeAccounts[:1], nil)
		deps.loader.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, []string, []domain.CanonicalRow) (string, error) {
				panic("warehouse client is nil")
			})

		summaries, err := svc.RunAll(context.Background())
		assert.ErrorIs(t, err, ErrPipelinePanic)
		assert.Empty(t, summaries)
	})
}
