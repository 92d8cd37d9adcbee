package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCredentialIncomplete indica uma linha do registro sem accountId, accessKey ou secretKey
var ErrCredentialIncomplete = errors.New("credential incomplete")

// AccountCredential representa uma conta de anúncios e o par de chaves usado para assinar as requisições
type AccountCredential struct {
	AccountID   string
	AccountName string
	AccessKey   string
	SecretKey   string
}

// Validate verifica se os campos obrigatórios estão presentes.
// O nome da conta é opcional.
func (c AccountCredential) Validate() error {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(c.AccountID) == "" {
		missing = append(missing, "accountId")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		missing = append(missing, "accessKey")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		missing = append(missing, "secretKey")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrCredentialIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// String nunca inclui as chaves
func (c AccountCredential) String() string {
	if c.AccountName == "" {
		return c.AccountID
	}
	return fmt.Sprintf("%s (%s)", c.AccountID, c.AccountName)
}
