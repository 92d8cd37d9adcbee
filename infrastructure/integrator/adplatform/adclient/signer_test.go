package adclient

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/ads-report-sync/internal/domain"
)

var signTime = time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)

func TestSign(t *testing.T) {
	body := `{"level": "AD"}`
	token := Sign("access", "secret", "POST", "/api/v3/adaccounts/A1/pfReports", "application/json", body, signTime)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	header, err := base64.StdEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.Equal(t, `{"alg": "HS256", "kid": "access", "typ": "text/plain"}`, string(header))

	payload, err := base64.StdEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	lines := strings.Split(string(payload), "\n")
	require.Len(t, lines, 4)
	assert.Len(t, lines[0], 64)
	assert.Equal(t, "application/json", lines[1])
	assert.Equal(t, "20240315", lines[2])
	assert.Equal(t, "/api/v3/adaccounts/A1/pfReports", lines[3])

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(parts[0] + "." + parts[1]))
	assert.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), parts[2])
}

func TestSignDeterministic(t *testing.T) {
	sign := func(body, secret string) string {
		return Sign("access", secret, "POST", "/p", "application/json", body, signTime)
	}

	assert.Equal(t, sign("abc", "secret"), sign("abc", "secret"))
	assert.NotEqual(t, sign("abc", "secret"), sign("abd", "secret"))
	assert.NotEqual(t, sign("abc", "secret"), sign("abc", "other"))
	assert.NotEqual(t,
		Sign("access", "secret", "GET", "/p", "", "", signTime),
		Sign("access", "secret", "GET", "/p", "", "", signTime.Add(time.Second)),
	)
}

func TestSignEmptyBodyDigest(t *testing.T) {
	token := Sign("k", "s", "GET", "/p", "", "", signTime)
	payload, err := base64.StdEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(payload),
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855\n\n20240315\n"))
}

func TestSpacedJSON(t *testing.T) {
	t.Run("espaços somente fora de strings", func(t *testing.T) {
		out, err := SpacedJSON(map[string]any{
			"a": "x:y,z",
			"b": []int{1, 2},
			"c": map[string]string{"d": `q"e,`},
			"e": "<a&b>",
		})
		require.NoError(t, err)
		assert.Equal(t, `{"a": "x:y,z", "b": [1, 2], "c": {"d": "q\"e,"}, "e": "<a&b>"}`, string(out))
	})

	t.Run("corpo de criação de relatório", func(t *testing.T) {
		window := domain.ReportWindow{
			Since: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Until: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
		}
		req := NewCreateReportRequest("A1", domain.ReportLevelAd, window, domain.Breakdown{Time: domain.TimeBreakdownDay})

		out, err := SpacedJSON(req)
		require.NoError(t, err)
		assert.Equal(t,
			`{"level": "AD", "since": "2024-03-01", "until": "2024-03-07", "breakdown": {"time": "DAY"}, `+
				`"filtering": {"adaccountIds": ["A1"]}, "fileFormat": "CSV", "includeRemoved": true}`,
			string(out))
	})

	t.Run("barra invertida escapada antes das aspas", func(t *testing.T) {
		out, err := SpacedJSON([]string{`a\`, "b"})
		require.NoError(t, err)
		assert.Equal(t, `["a\\", "b"]`, string(out))
	})
}
