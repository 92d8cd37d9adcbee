package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReportType identifica cada tabela de saída da sincronização
type ReportType string

const (
	ReportTypeAccount  ReportType = "account"
	ReportTypeCampaign ReportType = "campaign"
	ReportTypeAdGroup  ReportType = "adgroup"
	ReportTypeMedia    ReportType = "media"
	ReportTypeAd       ReportType = "ad"
	ReportTypeGender   ReportType = "gender"
	ReportTypeAge      ReportType = "age"
	ReportTypeDevice   ReportType = "device"
)

// AllReportTypes define a ordem fixa de execução da sincronização completa
var AllReportTypes = []ReportType{
	ReportTypeAccount,
	ReportTypeCampaign,
	ReportTypeAdGroup,
	ReportTypeMedia,
	ReportTypeAd,
	ReportTypeGender,
	ReportTypeAge,
	ReportTypeDevice,
}

// ErrUnknownReportType indica um nome que não corresponde a nenhuma das oito tabelas
var ErrUnknownReportType = errors.New("unknown report type")

// ParseReportType converte o nome recebido (CLI ou API) em um ReportType conhecido
func ParseReportType(s string) (ReportType, error) {
	candidate := ReportType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range AllReportTypes {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownReportType, s)
}

// ReportStatus é o estado de um relatório assíncrono no provedor
type ReportStatus string

const (
	ReportStatusPending ReportStatus = "PENDING"
	ReportStatusReady   ReportStatus = "READY"
	ReportStatusFailed  ReportStatus = "FAILED"
	ReportStatusError   ReportStatus = "ERROR"
	ReportStatusUnknown ReportStatus = "UNKNOWN"
)

// ParseReportStatus normaliza o status devolvido pela API.
// Valores ausentes ou desconhecidos viram UNKNOWN e são tratados como pendentes.
func ParseReportStatus(s string) ReportStatus {
	switch status := ReportStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case ReportStatusPending, ReportStatusReady, ReportStatusFailed, ReportStatusError:
		return status
	default:
		return ReportStatusUnknown
	}
}

// IsFailure indica os estados terminais de falha
func (s ReportStatus) IsFailure() bool {
	return s == ReportStatusFailed || s == ReportStatusError
}

// ReportJob é o relatório criado no provedor, acompanhado via polling
type ReportJob struct {
	ReportID string
	Status   ReportStatus
}

type ReportLevel string

const (
	ReportLevelAccount  ReportLevel = "ACCOUNT"
	ReportLevelCampaign ReportLevel = "CAMPAIGN"
	ReportLevelAdGroup  ReportLevel = "ADGROUP"
	ReportLevelAd       ReportLevel = "AD"
)

type TimeBreakdown string

const (
	TimeBreakdownDay   TimeBreakdown = "DAY"
	TimeBreakdownHour  TimeBreakdown = "HOUR"
	TimeBreakdownWeek  TimeBreakdown = "WEEK"
	TimeBreakdownMonth TimeBreakdown = "MONTH"
)

type AttributeBreakdown string

const (
	AttributeGender         AttributeBreakdown = "GENDER"
	AttributeAge            AttributeBreakdown = "AGE"
	AttributeOS             AttributeBreakdown = "OS"
	AttributeRegion         AttributeBreakdown = "REGION"
	AttributeDetailedRegion AttributeBreakdown = "DETAILED_REGION"
)

// Breakdown segmenta as linhas do relatório. Attribute fica vazio no relatório por anúncio.
type Breakdown struct {
	Time      TimeBreakdown      `json:"time"`
	Attribute AttributeBreakdown `json:"attribute,omitempty"`
}

// ReportWindow é o período consultado, em datas de calendário
type ReportWindow struct {
	Since time.Time
	Until time.Time
}

// NewReportWindow monta a janela de lookbackDays dias terminando hoje ou ontem
func NewReportWindow(now time.Time, lookbackDays int, includeToday bool, loc *time.Location) ReportWindow {
	if loc == nil {
		loc = time.UTC
	}
	if lookbackDays < 1 {
		lookbackDays = 1
	}

	local := now.In(loc)
	until := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if !includeToday {
		until = until.AddDate(0, 0, -1)
	}

	return ReportWindow{
		Since: until.AddDate(0, 0, -(lookbackDays - 1)),
		Until: until,
	}
}

func (w ReportWindow) SinceString() string {
	return w.Since.Format(time.DateOnly)
}

func (w ReportWindow) UntilString() string {
	return w.Until.Format(time.DateOnly)
}
