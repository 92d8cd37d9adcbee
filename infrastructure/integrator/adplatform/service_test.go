package adplatform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/ads-report-sync/infrastructure/integrator/adplatform/adclient"
	"github.com/vfg2006/ads-report-sync/infrastructure/integrator/adplatform/adclient/mocks"
	"github.com/vfg2006/ads-report-sync/internal/config"
	"github.com/vfg2006/ads-report-sync/internal/domain"
)

var testWindow = domain.ReportWindow{
	Since: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	Until: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
}

func newTestIntegrator(maxAttempts int, sleeps *[]time.Duration) *AdPlatformIntegrator {
	cfg := &config.Config{Report: config.Report{PollInterval: 10 * time.Second, MaxPollAttempts: maxAttempts}}
	integrator := New(cfg)
	integrator.sleep = func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return integrator
}

func TestCreateAndDownloadReport(t *testing.T) {
	breakdown := domain.Breakdown{Time: domain.TimeBreakdownDay, Attribute: domain.AttributeGender}

	tests := []struct {
		name       string
		statuses   []domain.ReportStatus
		download   bool
		wantSleeps int
		validate   func(t *testing.T, table any, err error)
	}{
		{
			name:       "PENDING, PENDING, READY consulta três vezes e baixa uma vez",
			statuses:   []domain.ReportStatus{domain.ReportStatusPending, domain.ReportStatusPending, domain.ReportStatusReady},
			download:   true,
			wantSleeps: 2,
			validate: func(t *testing.T, _ any, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "nunca fica pronto dentro do limite",
			statuses: []domain.ReportStatus{
				domain.ReportStatusPending, domain.ReportStatusUnknown, domain.ReportStatusPending,
				domain.ReportStatusPending, domain.ReportStatusPending,
			},
			wantSleeps: 4,
			validate: func(t *testing.T, _ any, err error) {
				var timeoutErr *ReportGenerationTimeoutError
				require.ErrorAs(t, err, &timeoutErr)
				assert.Equal(t, 5, timeoutErr.Attempts)
				assert.Equal(t, "r-1", timeoutErr.ReportID)
			},
		},
		{
			name:       "FAILED na primeira consulta falha imediatamente",
			statuses:   []domain.ReportStatus{domain.ReportStatusFailed},
			wantSleeps: 0,
			validate: func(t *testing.T, _ any, err error) {
				var failedErr *ReportGenerationFailedError
				require.ErrorAs(t, err, &failedErr)
				assert.Equal(t, domain.ReportStatusFailed, failedErr.Status)
			},
		},
		{
			name:       "ERROR depois de PENDING",
			statuses:   []domain.ReportStatus{domain.ReportStatusPending, domain.ReportStatusError},
			wantSleeps: 1,
			validate: func(t *testing.T, _ any, err error) {
				var failedErr *ReportGenerationFailedError
				require.ErrorAs(t, err, &failedErr)
				assert.Equal(t, domain.ReportStatusError, failedErr.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockClient(ctrl)

			var sleeps []time.Duration
			integrator := newTestIntegrator(5, &sleeps)

			client.EXPECT().AccountID().Return("A1").AnyTimes()
			client.EXPECT().
				CreateReport(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req adclient.CreateReportRequest) (string, error) {
					assert.Equal(t, domain.ReportLevelAdGroup, req.Level)
					assert.Equal(t, "2024-03-01", req.Since)
					assert.Equal(t, "2024-03-07", req.Until)
					assert.Equal(t, breakdown, req.Breakdown)
					assert.Equal(t, []string{"A1"}, req.Filtering.AdAccountIDs)
					assert.Equal(t, "CSV", req.FileFormat)
					assert.True(t, req.IncludeRemoved)
					return "r-1", nil
				})

			calls := make([]any, 0, len(tt.statuses))
			for _, status := range tt.statuses {
				calls = append(calls, client.EXPECT().GetReportStatus(gomock.Any(), "r-1").Return(status, nil))
			}
			gomock.InOrder(calls...)

			if tt.download {
				client.EXPECT().DownloadReport(gomock.Any(), "r-1").Return("日付,性別\n2024-03-01,female\n", nil).Times(1)
			}

			table, err := integrator.CreateAndDownloadReport(context.Background(), client, domain.ReportLevelAdGroup, testWindow, breakdown)

			tt.validate(t, table, err)
			assert.Len(t, sleeps, tt.wantSleeps)
			for _, d := range sleeps {
				assert.Equal(t, 10*time.Second, d)
			}
			if tt.download {
				require.NotNil(t, table)
				assert.Equal(t, []string{"日付", "性別"}, table.Header)
				assert.Equal(t, 1, table.Len())
			}
		})
	}
}

func TestCreateAndDownloadReportErrors(t *testing.T) {
	t.Run("falha na criação não consulta status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		var sleeps []time.Duration

		client.EXPECT().AccountID().Return("A1").AnyTimes()
		client.EXPECT().CreateReport(gomock.Any(), gomock.Any()).Return("", &adclient.StatusError{StatusCode: 401})

		_, err := newTestIntegrator(3, &sleeps).CreateAndDownloadReport(context.Background(), client, domain.ReportLevelAd, testWindow, domain.Breakdown{Time: domain.TimeBreakdownDay})

		var statusErr *adclient.StatusError
		assert.ErrorAs(t, err, &statusErr)
	})

	t.Run("falha de polling interrompe", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		var sleeps []time.Duration
		boom := errors.New("boom")

		client.EXPECT().AccountID().Return("A1").AnyTimes()
		client.EXPECT().CreateReport(gomock.Any(), gomock.Any()).Return("r-1", nil)
		client.EXPECT().GetReportStatus(gomock.Any(), "r-1").Return(domain.ReportStatus(""), boom)

		_, err := newTestIntegrator(3, &sleeps).CreateAndDownloadReport(context.Background(), client, domain.ReportLevelAd, testWindow, domain.Breakdown{Time: domain.TimeBreakdownDay})

		assert.ErrorIs(t, err, boom)
		assert.Empty(t, sleeps)
	})

	t.Run("contexto cancelado durante a espera", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)

		integrator := New(&config.Config{Report: config.Report{PollInterval: time.Hour, MaxPollAttempts: 3}})
		ctx, cancel := context.WithCancel(context.Background())

		client.EXPECT().AccountID().Return("A1").AnyTimes()
		client.EXPECT().CreateReport(gomock.Any(), gomock.Any()).Return("r-1", nil)
		client.EXPECT().GetReportStatus(gomock.Any(), "r-1").DoAndReturn(func(context.Context, string) (domain.ReportStatus, error) {
			cancel()
			return domain.ReportStatusPending, nil
		})

		_, err := integrator.CreateAndDownloadReport(ctx, client, domain.ReportLevelAd, testWindow, domain.Breakdown{Time: domain.TimeBreakdownDay})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
