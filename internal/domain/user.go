package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Operator é o único usuário da API administrativa, configurado via ambiente
type Operator struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

type Claims struct {
	Username string
	jwt.RegisteredClaims
}
