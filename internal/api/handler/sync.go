package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-report-sync/internal/domain"
	"github.com/vfg2006/ads-report-sync/internal/scheduler"
	"github.com/vfg2006/ads-report-sync/pkg/apiErrors"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// SyncTrigger dispara e acompanha as execuções; implementado por scheduler.FullSyncService
type SyncTrigger interface {
	TriggerManualSync(target string) error
	GetStatus() map[string]any
}

// RunLister lê o histórico de execuções. Nil quando o histórico está desabilitado.
type RunLister interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.RunSummary, error)
}

type AccountRunResponse struct {
	AccountID    string `json:"account_id"`
	AccountName  string `json:"account_name"`
	Succeeded    bool   `json:"succeeded"`
	RowsProduced int    `json:"rows_produced"`
	Error        string `json:"error,omitempty"`
}

type RunSummaryResponse struct {
	RunID      string               `json:"run_id"`
	ReportType domain.ReportType    `json:"report_type"`
	Table      string               `json:"table"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Succeeded  int                  `json:"succeeded"`
	Failed     int                  `json:"failed"`
	RowsLoaded int                  `json:"rows_loaded"`
	LoadJobID  string               `json:"load_job_id,omitempty"`
	LoadError  string               `json:"load_error,omitempty"`
	Accounts   []AccountRunResponse `json:"accounts"`
}

func NewRunSummaryResponse(summary *domain.RunSummary) RunSummaryResponse {
	accounts := make([]AccountRunResponse, 0, len(summary.Accounts))
	for _, a := range summary.Accounts {
		accounts = append(accounts, AccountRunResponse{
			AccountID:    a.AccountID,
			AccountName:  a.AccountName,
			Succeeded:    a.Succeeded,
			RowsProduced: a.RowsProduced,
			Error:        a.ErrorMessage(),
		})
	}

	return RunSummaryResponse{
		RunID:      summary.RunID,
		ReportType: summary.ReportType,
		Table:      summary.Table,
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
		Succeeded:  summary.Succeeded,
		Failed:     summary.Failed,
		RowsLoaded: summary.RowsLoaded,
		LoadJobID:  summary.LoadJobID,
		LoadError:  summary.LoadErrorMessage(),
		Accounts:   accounts,
	}
}

// RunSync aceita um tipo de relatório ou "all" e responde 202 sem aguardar a execução
func RunSync(trigger SyncTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if target == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de sincronização não especificado", nil)
			return
		}

		err := trigger.TriggerManualSync(target)
		switch {
		case err == nil:
		case errors.Is(err, scheduler.ErrSyncAlreadyRunning):
			apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Já existe uma sincronização em andamento", nil)
			return
		case errors.Is(err, domain.ErrUnknownReportType):
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de sincronização inválido", map[string]any{
				"accepted": append(reportTypeNames(), scheduler.TargetAll),
			})
			return
		default:
			logrus.WithError(err).Error("Erro ao iniciar sincronização manual")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao iniciar sincronização", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Sincronização iniciada",
			"type":    target,
		})
	}
}

func GetSyncStatus(trigger SyncTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, trigger.GetStatus())
	}
}

// ListRuns devolve as execuções mais recentes; limit vai de 1 a 100
func ListRuns(runs RunLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if runs == nil {
			apiErrors.WriteError(w, apiErrors.ErrHistoryDisabled, "Histórico de execuções desabilitado (RUN_HISTORY_ENABLED)", nil)
			return
		}

		limit := defaultRunsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > maxRunsLimit {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit deve estar entre 1 e 100", nil)
				return
			}
			limit = parsed
		}

		summaries, err := runs.ListRecent(r.Context(), limit)
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar execuções")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar execuções", nil)
			return
		}

		response := make([]RunSummaryResponse, 0, len(summaries))
		for _, s := range summaries {
			response = append(response, NewRunSummaryResponse(s))
		}

		writeJSON(w, http.StatusOK, response)
	}
}

func reportTypeNames() []string {
	names := make([]string, 0, len(domain.AllReportTypes))
	for _, t := range domain.AllReportTypes {
		names = append(names, string(t))
	}
	return names
}
