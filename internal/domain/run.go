package domain

import "time"

// AccountRunResult é o resultado de uma conta dentro de uma execução
type AccountRunResult struct {
	AccountID    string `json:"account_id"`
	AccountName  string `json:"account_name"`
	Succeeded    bool   `json:"succeeded"`
	RowsProduced int    `json:"rows_produced"`
	Err          error  `json:"-"`
}

// ErrorMessage devolve a mensagem do erro ou vazio
func (r AccountRunResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// RunSummary resume a execução de um tipo de relatório para todas as contas
type RunSummary struct {
	RunID      string             `json:"run_id"`
	ReportType ReportType         `json:"report_type"`
	Table      string             `json:"table"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Accounts   []AccountRunResult `json:"accounts"`
	Succeeded  int                `json:"succeeded"`
	Failed     int                `json:"failed"`
	RowsLoaded int                `json:"rows_loaded"`
	LoadJobID  string             `json:"load_job_id,omitempty"`
	LoadErr    error              `json:"-"`
}

func NewRunSummary(runID string, reportType ReportType, table string, startedAt time.Time) *RunSummary {
	return &RunSummary{
		RunID:      runID,
		ReportType: reportType,
		Table:      table,
		StartedAt:  startedAt,
		Accounts:   make([]AccountRunResult, 0),
	}
}

// Record adiciona o resultado de uma conta e atualiza os contadores
func (s *RunSummary) Record(result AccountRunResult) {
	s.Accounts = append(s.Accounts, result)
	if result.Succeeded {
		s.Succeeded++
		return
	}
	s.Failed++
}

// LoadErrorMessage devolve a mensagem do erro de carga ou vazio
func (s *RunSummary) LoadErrorMessage() string {
	if s.LoadErr == nil {
		return ""
	}
	return s.LoadErr.Error()
}
