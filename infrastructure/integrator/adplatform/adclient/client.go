package adclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/ads-report-sync/internal/config"
	"github.com/vfg2006/ads-report-sync/internal/domain"
)

const (
	apiVersionPath  = "/api/v3"
	contentTypeJSON = "application/json"
	defaultPageSize = 100
)

type Client interface {
	AccountID() string
	RequestJSON(ctx context.Context, method, endpoint string, payload any, out any) error
	RequestText(ctx context.Context, method, endpoint string, payload any) (string, error)
	ListCampaigns(ctx context.Context) ([]Entity, error)
	ListAdGroups(ctx context.Context, campaignID string) ([]Entity, error)
	ListMedia(ctx context.Context) ([]Entity, error)
	CreateReport(ctx context.Context, req CreateReportRequest) (string, error)
	GetReportStatus(ctx context.Context, reportID string) (domain.ReportStatus, error)
	DownloadReport(ctx context.Context, reportID string) (string, error)
}

// AdClient é vinculado a uma única conta; cada conta tem seu próprio material de assinatura
type AdClient struct {
	baseURL    string
	httpClient *http.Client
	signing    SigningContext
	pageSize   int
	now        func() time.Time
}

func NewClient(cfg *config.Config, httpClient *http.Client, signing SigningContext) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.AdPlatform.HTTPTimeout}
	}

	pageSize := cfg.AdPlatform.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &AdClient{
		baseURL:    strings.TrimRight(cfg.AdPlatform.BaseURL, "/"),
		httpClient: httpClient,
		signing:    signing,
		pageSize:   pageSize,
		now:        time.Now,
	}
}

func (c *AdClient) AccountID() string {
	return c.signing.AccountID
}

// RequestJSON executa a requisição e decodifica a resposta em out
func (c *AdClient) RequestJSON(ctx context.Context, method, endpoint string, payload any, out any) error {
	body, err := c.do(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, endpoint, err)
	}
	return nil
}

// RequestText executa a requisição e devolve o corpo sem interpretação
func (c *AdClient) RequestText(ctx context.Context, method, endpoint string, payload any) (string, error) {
	body, err := c.do(ctx, method, endpoint, payload)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// do monta e assina uma nova requisição a cada chamada; cabeçalhos nunca são reaproveitados
func (c *AdClient) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	canonicalPath, rawQuery, _ := strings.Cut(endpoint, "?")

	var (
		body        string
		contentType string
	)

	if method == http.MethodGet {
		query, err := encodeQuery(payload)
		if err != nil {
			return nil, err
		}
		rawQuery = joinQuery(rawQuery, query)
	} else if payload != nil {
		encoded, err := SpacedJSON(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload of %s %s: %w", method, endpoint, err)
		}
		body = string(encoded)
		contentType = contentTypeJSON
	}

	target := c.baseURL + canonicalPath
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, endpoint, err)
	}

	ts := c.now().UTC().Truncate(time.Second)
	token := Sign(c.signing.AccessKey, c.signing.SecretKey, method, canonicalPath, contentType, body, ts)

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Date", ts.Format(http.TimeFormat))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Endpoint: canonicalPath, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Endpoint: canonicalPath, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Method:     method,
			Endpoint:   canonicalPath,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(respBody),
		}
	}

	return respBody, nil
}

func (c *AdClient) accountPath(resource string) string {
	return fmt.Sprintf("%s/adaccounts/%s/%s", apiVersionPath, url.PathEscape(c.signing.AccountID), resource)
}

// encodeQuery aceita url.Values ou map[string]any; valores em lista repetem a chave
func encodeQuery(payload any) (string, error) {
	switch p := payload.(type) {
	case nil:
		return "", nil
	case url.Values:
		return p.Encode(), nil
	case map[string]string:
		values := url.Values{}
		for k, v := range p {
			values.Set(k, v)
		}
		return values.Encode(), nil
	case map[string]any:
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		values := url.Values{}
		for _, k := range keys {
			switch v := p[k].(type) {
			case nil:
			case []string:
				for _, item := range v {
					values.Add(k, item)
				}
			default:
				addQueryValue(values, k, v)
			}
		}
		return values.Encode(), nil
	default:
		return "", fmt.Errorf("unsupported query payload type %T", payload)
	}
}

// addQueryValue repete a chave para cada item de slices e arrays de qualquer tipo
func addQueryValue(values url.Values, key string, v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		values.Add(key, fmt.Sprint(v))
		return
	}

	for i := 0; i < rv.Len(); i++ {
		values.Add(key, fmt.Sprint(rv.Index(i).Interface()))
	}
}

func joinQuery(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "&" + b
	}
}
