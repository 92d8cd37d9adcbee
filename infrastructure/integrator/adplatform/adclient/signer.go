package adclient

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/vfg2006/ads-report-sync/internal/domain"
)

const (
	signatureAlgorithm = "HS256"
	signatureType      = "text/plain"
	signatureDate      = "20060102"
)

// SigningContext carrega o material de assinatura de uma conta
type SigningContext struct {
	AccountID string
	AccessKey string
	SecretKey string
}

func SigningContextFor(cred domain.AccountCredential) SigningContext {
	return SigningContext{
		AccountID: cred.AccountID,
		AccessKey: cred.AccessKey,
		SecretKey: cred.SecretKey,
	}
}

type signatureHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Typ string `json:"typ"`
}

// Sign gera o token enviado em "Authorization: Bearer".
// O método HTTP não faz parte do payload assinado; o path canônico não inclui a query string.
func Sign(accessKey, secretKey, method, canonicalPath, contentType, body string, ts time.Time) string {
	digest := sha256.Sum256([]byte(body))

	payload := strings.Join([]string{
		hex.EncodeToString(digest[:]),
		contentType,
		ts.UTC().Format(signatureDate),
		canonicalPath,
	}, "\n")

	// struct com campos string nunca falha ao serializar
	header, _ := SpacedJSON(signatureHeader{
		Alg: signatureAlgorithm,
		Kid: accessKey,
		Typ: signatureType,
	})

	signingInput := base64.StdEncoding.EncodeToString(header) + "." +
		base64.StdEncoding.EncodeToString([]byte(payload))

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(signingInput))

	return signingInput + "." + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
