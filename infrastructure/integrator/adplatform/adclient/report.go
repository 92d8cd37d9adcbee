package adclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vfg2006/ads-report-sync/internal/domain"
)

const (
	reportsResource  = "pfReports"
	reportFileFormat = "CSV"
)

type ReportFiltering struct {
	AdAccountIDs []string `json:"adaccountIds"`
}

// CreateReportRequest é o corpo de criação de relatório. A ordem dos campos é a ordem serializada.
type CreateReportRequest struct {
	Level          domain.ReportLevel `json:"level"`
	Since          string             `json:"since"`
	Until          string             `json:"until"`
	Breakdown      domain.Breakdown   `json:"breakdown"`
	Filtering      ReportFiltering    `json:"filtering"`
	FileFormat     string             `json:"fileFormat"`
	IncludeRemoved bool               `json:"includeRemoved"`
}

// NewCreateReportRequest filtra pela própria conta e sempre inclui entidades removidas
func NewCreateReportRequest(accountID string, level domain.ReportLevel, window domain.ReportWindow, breakdown domain.Breakdown) CreateReportRequest {
	return CreateReportRequest{
		Level:          level,
		Since:          window.SinceString(),
		Until:          window.UntilString(),
		Breakdown:      breakdown,
		Filtering:      ReportFiltering{AdAccountIDs: []string{accountID}},
		FileFormat:     reportFileFormat,
		IncludeRemoved: true,
	}
}

// CreateReport devolve o id do relatório, aceito em "id" ou "reportId"
func (c *AdClient) CreateReport(ctx context.Context, req CreateReportRequest) (string, error) {
	var resp map[string]any
	if err := c.RequestJSON(ctx, http.MethodPost, c.accountPath(reportsResource), req, &resp); err != nil {
		return "", err
	}

	id := firstString(resp, "id", "reportId")
	if id == "" {
		return "", ErrMissingReportID
	}
	return id, nil
}

// GetReportStatus devolve UNKNOWN quando a resposta não traz status reconhecível
func (c *AdClient) GetReportStatus(ctx context.Context, reportID string) (domain.ReportStatus, error) {
	var resp map[string]any
	if err := c.RequestJSON(ctx, http.MethodGet, c.reportPath(reportID), nil, &resp); err != nil {
		return "", err
	}
	return domain.ParseReportStatus(firstString(resp, "status", "state")), nil
}

func (c *AdClient) DownloadReport(ctx context.Context, reportID string) (string, error) {
	return c.RequestText(ctx, http.MethodGet, c.reportPath(reportID)+"/download", nil)
}

func (c *AdClient) reportPath(reportID string) string {
	return c.accountPath(reportsResource) + "/" + url.PathEscape(reportID)
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return ""
}
