package adclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/ads-report-sync/internal/config"
	"github.com/vfg2006/ads-report-sync/internal/domain"
)

var testSigning = SigningContext{AccountID: "A1", AccessKey: "access", SecretKey: "secret"}

func newTestClient(t *testing.T, handler http.HandlerFunc) *AdClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{AdPlatform: config.AdPlatform{BaseURL: srv.URL, PageSize: 2}}
	client := NewClient(cfg, srv.Client(), testSigning).(*AdClient)
	client.now = func() time.Time { return signTime.Add(500 * time.Millisecond) }

	return client
}

func TestRequestSigning(t *testing.T) {
	t.Run("GET assina path sem query e repete chaves de lista", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v3/adaccounts/A1/campaigns", r.URL.Path)
			assert.Equal(t, []string{"1", "2"}, r.URL.Query()["ids"])
			assert.Empty(t, r.Header.Get("Content-Type"))
			assert.Equal(t, "Fri, 15 Mar 2024 23:59:59 GMT", r.Header.Get("Date"))

			want := Sign("access", "secret", http.MethodGet, "/api/v3/adaccounts/A1/campaigns", "", "", signTime)
			assert.Equal(t, "Bearer "+want, r.Header.Get("Authorization"))

			_, _ = io.WriteString(w, `{"ok": true}`)
		})

		var out map[string]any
		err := client.RequestJSON(context.Background(), http.MethodGet, "/api/v3/adaccounts/A1/campaigns",
			map[string]any{"ids": []string{"1", "2"}}, &out)
		require.NoError(t, err)
		assert.Equal(t, true, out["ok"])
	})

	t.Run("POST envia corpo com espaços e assina o corpo", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)

			assert.Equal(t, `{"name": "x", "ids": [1, 2]}`, string(body))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			want := Sign("access", "secret", http.MethodPost, "/p", "application/json", string(body), signTime)
			assert.Equal(t, "Bearer "+want, r.Header.Get("Authorization"))

			_, _ = io.WriteString(w, "done")
		})

		payload := struct {
			Name string `json:"name"`
			IDs  []int  `json:"ids"`
		}{Name: "x", IDs: []int{1, 2}}

		text, err := client.RequestText(context.Background(), http.MethodPost, "/p", payload)
		require.NoError(t, err)
		assert.Equal(t, "done", text)
	})
}

func TestRequestErrors(t *testing.T) {
	t.Run("status diferente de 200", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, strings.Repeat("x", 800))
		})

		_, err := client.RequestText(context.Background(), http.MethodGet, "/p", nil)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
		assert.Len(t, statusErr.Body, 500)
	})

	t.Run("falha de transporte", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		cfg := &config.Config{AdPlatform: config.AdPlatform{BaseURL: srv.URL}}
		client := NewClient(cfg, nil, testSigning)

		_, err := client.RequestText(context.Background(), http.MethodGet, "/p", nil)

		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, "/p", transportErr.Endpoint)
	})

	t.Run("json inválido", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "not json")
		})

		var out map[string]any
		err := client.RequestJSON(context.Background(), http.MethodGet, "/p", nil, &out)
		assert.Error(t, err)
	})
}

func TestListEntities(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "campo datas", body: `{"datas": [{"id": "1"}, {"id": "2"}]}`, want: []string{"1", "2"}},
		{name: "campo data", body: `{"data": [{"id": "1"}]}`, want: []string{"1"}},
		{name: "campo com nome da entidade", body: `{"campaigns": [{"id": "9"}]}`, want: []string{"9"}},
		{name: "lista na raiz", body: `[{"id": "5"}]`, want: []string{"5"}},
		{name: "nenhum campo conhecido", body: `{"unexpected": true}`, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			entities, err := client.ListCampaigns(context.Background())
			require.NoError(t, err)

			ids := make([]string, 0, len(entities))
			for _, e := range entities {
				ids = append(ids, e["id"].(string))
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListEntitiesPagination(t *testing.T) {
	pages := map[string]string{
		"1": `{"datas": [{"id": "1"}, {"id": "2"}], "paging": {"page": 1, "size": 2, "totalElements": 3}}`,
		"2": `{"datas": [{"id": "3"}], "paging": {"page": 2, "size": 2, "totalElements": 3}}`,
	}

	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/v3/adaccounts/A1/adgroups", r.URL.Path)
		assert.Equal(t, "C1", r.URL.Query().Get("campaignId"))
		assert.Equal(t, "2", r.URL.Query().Get("size"))
		_, _ = io.WriteString(w, pages[r.URL.Query().Get("page")])
	})

	entities, err := client.ListAdGroups(context.Background(), "C1")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Len(t, entities, 3)
}

func TestReportEndpoints(t *testing.T) {
	t.Run("cria relatório com id numérico", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v3/adaccounts/A1/pfReports", r.URL.Path)
			_, _ = io.WriteString(w, `{"id": 12345}`)
		})

		id, err := client.CreateReport(context.Background(), CreateReportRequest{Level: domain.ReportLevelAd})
		require.NoError(t, err)
		assert.Equal(t, "12345", id)
	})

	t.Run("aceita reportId", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"reportId": "r-1"}`)
		})

		id, err := client.CreateReport(context.Background(), CreateReportRequest{})
		require.NoError(t, err)
		assert.Equal(t, "r-1", id)
	})

	t.Run("resposta sem id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		})

		_, err := client.CreateReport(context.Background(), CreateReportRequest{})
		assert.True(t, errors.Is(err, ErrMissingReportID))
	})

	t.Run("status em state e status desconhecido", func(t *testing.T) {
		responses := []string{`{"state": "ready"}`, `{"status": "RUNNING"}`, `{}`}
		i := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v3/adaccounts/A1/pfReports/r-1", r.URL.Path)
			_, _ = io.WriteString(w, responses[i])
			i++
		})

		for _, want := range []domain.ReportStatus{domain.ReportStatusReady, domain.ReportStatusUnknown, domain.ReportStatusUnknown} {
			status, err := client.GetReportStatus(context.Background(), "r-1")
			require.NoError(t, err)
			assert.Equal(t, want, status)
		}
	})

	t.Run("download devolve texto bruto", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v3/adaccounts/A1/pfReports/r-1/download", r.URL.Path)
			_, _ = io.WriteString(w, "日付,クリック\n2024-03-01,3\n")
		})

		text, err := client.DownloadReport(context.Background(), "r-1")
		require.NoError(t, err)
		assert.Equal(t, "日付,クリック\n2024-03-01,3\n", text)
	})
}

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{name: "sem payload", payload: nil, want: ""},
		{name: "valores simples", payload: map[string]any{"size": 100, "page": 2, "skip": nil}, want: "page=2&size=100"},
		{name: "slice de string repete a chave", payload: map[string]any{"ids": []string{"a", "b"}}, want: "ids=a&ids=b"},
		{name: "slice de any repete a chave", payload: map[string]any{"ids": []any{"a", 1}}, want: "ids=a&ids=1"},
		{name: "slice tipado repete a chave", payload: map[string]any{"ids": []int{1, 2}}, want: "ids=1&ids=2"},
		{name: "array repete a chave", payload: map[string]any{"ids": [2]int64{7, 8}}, want: "ids=7&ids=8"},
		{name: "map de string", payload: map[string]string{"campaignId": "C1"}, want: "campaignId=C1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeQuery(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := encodeQuery(42)
	assert.Error(t, err)
}
