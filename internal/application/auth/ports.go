package auth

import (
	"context"
	"strings"

	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// LoginLimiter conta falhas de login por (ip, login) e bloqueia após o limite.
type LoginLimiter interface {
	Locked(ctx context.Context, key string) (bool, error)
	// Fail registra uma falha e devolve o total de tentativas na janela.
	Fail(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// ModuleResolver módulos liberados ao usuário (tela inicial e /me).
type ModuleResolver interface {
	EnabledModules(ctx context.Context, p rbac.Principal) (map[string]bool, error)
}

// LockKey chave de bloqueio "loginlock:{ip}:{login}".
func LockKey(ip, login string) string {
	return "loginlock:" + ip + ":" + strings.ToLower(strings.TrimSpace(login))
}
