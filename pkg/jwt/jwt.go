package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims inclui os claims padrão mais o papel e o escopo do usuário,
// para que o middleware RBAC decida sem consultar o banco.
type Claims struct {
	jwt.RegisteredClaims
	UserID             string `json:"user_id"`
	Role               string `json:"role"`
	MunicipioID        string `json:"municipio_id,omitempty"`
	SecretariaID       string `json:"secretaria_id,omitempty"`
	UnidadeID          string `json:"unidade_id,omitempty"`
	SetorID            string `json:"setor_id,omitempty"`
	MustChangePassword bool   `json:"mcp,omitempty"`
}

// Subject dados do usuário gravados no token.
type Subject struct {
	UserID             string
	Role               string
	MunicipioID        string
	SecretariaID       string
	UnidadeID          string
	SetorID            string
	MustChangePassword bool
}

// Generate gera um token HS256 assinado.
func Generate(secret, issuer string, expMinutes int, s Subject) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vazio")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:             s.UserID,
		Role:               s.Role,
		MunicipioID:        s.MunicipioID,
		SecretariaID:       s.SecretariaID,
		UnidadeID:          s.UnidadeID,
		SetorID:            s.SetorID,
		MustChangePassword: s.MustChangePassword,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida o token e devolve os claims.
// Falha se o token for inválido, expirado ou com assinatura incorreta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vazio")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
