package accounts

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/pkg/textutil"
)

// CodigoAcesso gera o código legível de login: "joao.silva-2026".
func CodigoAcesso(nome string, ano int) string {
	base := textutil.Slugify(nome, ".", 60)
	if base == "" {
		base = "usuario"
	}
	return fmt.Sprintf("%s-%d", base, ano)
}

// CodigoExists consulta se o código já pertence a outro usuário.
type CodigoExists func(ctx context.Context, codigo string) (bool, error)

// UniqueCodigoAcesso aplica sufixo numérico antes do ano até achar um código livre
// ("joao.silva-2026", "joao.silva-2-2026", "joao.silva-3-2026", ...).
func UniqueCodigoAcesso(ctx context.Context, nome string, ano int, exists CodigoExists) (string, error) {
	candidate := CodigoAcesso(nome, ano)
	base := strings.TrimSuffix(candidate, "-"+strconv.Itoa(ano))
	for n := 2; ; n++ {
		used, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("verificar código: %w", err)
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d-%d", base, n, ano)
	}
}

// MinPasswordLen tamanho mínimo de senha.
const MinPasswordLen = 8

// ValidateNewPassword aplica a política de troca de senha.
func ValidateNewPassword(current, next, cpf string) error {
	if len(next) < MinPasswordLen {
		return domain.NewValidationError("new_password", fmt.Sprintf("a senha deve ter ao menos %d caracteres", MinPasswordLen))
	}
	if next == current {
		return domain.NewValidationError("new_password", "a nova senha deve ser diferente da atual")
	}
	if digits := textutil.OnlyDigits(cpf); digits != "" && next == digits {
		return domain.NewValidationError("new_password", "a senha não pode ser o CPF")
	}
	return nil
}

const passwordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomPassword gera senha inicial sem caracteres ambíguos.
func RandomPassword(n int) (string, error) {
	if n < MinPasswordLen {
		n = MinPasswordLen
	}
	out := make([]byte, n)
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("gerar senha: %w", err)
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
