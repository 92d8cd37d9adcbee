package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-report-sync/internal/config"
	"github.com/vfg2006/ads-report-sync/internal/domain"
)

// TargetAll dispara todos os tipos de relatório na ordem fixa
const TargetAll = "all"

var ErrSyncAlreadyRunning = errors.New("a sync is already running")

// Syncer é o orquestrador visto pelo agendador
type Syncer interface {
	Run(ctx context.Context, reportType domain.ReportType) (*domain.RunSummary, error)
	RunAll(ctx context.Context) ([]*domain.RunSummary, error)
}

// FullSyncConfig representa a configuração do agendador da sincronização completa
type FullSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// FullSyncService agenda a sincronização completa e garante uma única execução por vez,
// seja ela disparada pelo cron ou manualmente pela API
type FullSyncService struct {
	scheduler *gocron.Scheduler
	config    FullSyncConfig
	syncer    Syncer

	baseCtx             context.Context
	syncMutex           sync.Mutex
	syncRunning         bool
	lastTarget          string
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastError           string
}

func NewFullSyncService(syncer Syncer, appConfig *config.Config) *FullSyncService {
	syncConfig := FullSyncConfig{
		CronSchedule: appConfig.Sync.CronSchedule,
		SyncEnabled:  appConfig.Sync.Enabled,
	}

	loc, err := appConfig.Report.Location()
	if err != nil {
		loc = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
		"timezone":      loc.String(),
	}).Info("Configuração do agendador de sincronização carregada")

	return &FullSyncService{
		scheduler: gocron.NewScheduler(loc),
		config:    syncConfig,
		syncer:    syncer,
		baseCtx:   context.Background(),
	}
}

// Start agenda a sincronização e para o agendador quando ctx termina.
// Execuções manuais herdam ctx, então também são canceladas no desligamento.
func (s *FullSyncService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.baseCtx = ctx
	s.syncMutex.Unlock()

	if !s.config.SyncEnabled {
		logrus.Info("Sincronização agendada desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.TriggerSync(TargetAll); err != nil {
			logrus.WithError(err).Info("Sincronização agendada ignorada")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerSync inicia em segundo plano a sincronização de um tipo ou de todos ("all").
// Retorna ErrSyncAlreadyRunning se outra execução estiver em andamento.
func (s *FullSyncService) TriggerSync(target string) error {
	target = strings.ToLower(strings.TrimSpace(target))

	var reportType domain.ReportType
	if target != TargetAll {
		rt, err := domain.ParseReportType(target)
		if err != nil {
			return err
		}
		reportType = rt
	}

	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.WithField("target", target).Info("Sincronização já em andamento, ignorando solicitação")
		return ErrSyncAlreadyRunning
	}
	s.syncRunning = true
	s.lastTarget = target
	s.lastSyncStartedAt = time.Now()
	ctx := s.baseCtx
	s.syncMutex.Unlock()

	go s.runSync(ctx, target, reportType)

	return nil
}

// TriggerManualSync é a entrada usada pela API
func (s *FullSyncService) TriggerManualSync(target string) error {
	logrus.WithField("target", target).Info("Iniciando sincronização manual")
	return s.TriggerSync(target)
}

func (s *FullSyncService) runSync(ctx context.Context, target string, reportType domain.ReportType) {
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			logrus.WithField("target", target).Errorf("Pânico durante a sincronização: %v", r)
		}

		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.lastError = ""
		if err != nil {
			s.lastError = err.Error()
		}
		s.syncMutex.Unlock()
	}()

	if target == TargetAll {
		_, err = s.syncer.RunAll(ctx)
	} else {
		_, err = s.syncer.Run(ctx, reportType)
	}

	if err != nil {
		logrus.WithError(err).WithField("target", target).Error("Sincronização concluída com erros")
		return
	}
	logrus.WithField("target", target).Info("Sincronização concluída")
}

// IsRunning indica se há uma sincronização em andamento
func (s *FullSyncService) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning
}

// GetStatus retorna o status atual do agendador
func (s *FullSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_target":            s.lastTarget,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_error":             s.lastError,
	}
}
