package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/accounts"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/pkg/jwt"
	"github.com/gepub/gepub-api/pkg/logger"
)

// JWTConfig configuração para geração de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login por código de acesso, troca de senha e dados do usuário autenticado.
type AuthUseCase struct {
	userRepo repository.UsuarioRepository
	limiter  LoginLimiter
	modules  ModuleResolver
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase constrói o caso de uso de auth.
func NewAuthUseCase(userRepo repository.UsuarioRepository, limiter LoginLimiter, modules ModuleResolver, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		limiter:  limiter,
		modules:  modules,
		jwtCfg:   jwtCfg,
		log:      log.Named("auth"),
		now:      time.Now,
	}
}

// Login verifica código/username e senha, aplica o bloqueio por tentativas e devolve o JWT.
func (uc *AuthUseCase) Login(ctx context.Context, ip string, in dto.LoginRequest) (*dto.LoginResponse, error) {
	login := strings.TrimSpace(in.Login())
	if login == "" {
		return nil, domain.NewValidationError("codigo_acesso", "informe o código de acesso")
	}
	key := LockKey(ip, login)
	locked, err := uc.limiter.Locked(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Msg("limiter indisponível; seguindo sem bloqueio")
	}
	if locked {
		return nil, domain.ErrLocked
	}

	user, err := uc.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, in.Password) {
		uc.fail(ctx, key)
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Ativo || user.Bloqueado {
		return nil, domain.ErrAccountInactive
	}
	if err := uc.limiter.Reset(ctx, key); err != nil {
		uc.log.Warn().Err(err).Msg("falha ao limpar contador de login")
	}

	now := uc.now()
	if err := uc.userRepo.TouchLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:              token,
		MustChangePassword: user.MustChangePassword,
		User:               *ToUsuarioResponse(user),
	}, nil
}

func (uc *AuthUseCase) fail(ctx context.Context, key string) {
	n, err := uc.limiter.Fail(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Msg("falha ao registrar tentativa de login")
		return
	}
	uc.log.Info().Str("key", key).Int("tentativas", n).Msg("login recusado")
}

// ChangePassword troca a senha do próprio usuário, limpa a troca obrigatória e devolve um token novo.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if !CheckPassword(user.PasswordHash, in.CurrentPassword) {
		return nil, domain.NewValidationError("current_password", "senha atual incorreta")
	}
	if err := accounts.ValidateNewPassword(in.CurrentPassword, in.NewPassword, user.CPF); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdatePassword(ctx, user.ID, hash, false); err != nil {
		return nil, err
	}
	user.MustChangePassword = false

	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *ToUsuarioResponse(user)}, nil
}

// Me dados do usuário autenticado, permissões efetivas e módulos liberados.
func (uc *AuthUseCase) Me(ctx context.Context, p rbac.Principal) (*dto.MeResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	mods, err := uc.modules.EnabledModules(ctx, p)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: *ToUsuarioResponse(user), Perms: rbac.Perms(user.Role), Modulos: mods}, nil
}

func (uc *AuthUseCase) token(u *entity.Usuario) (string, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Subject{
		UserID:             u.ID,
		Role:               u.Role,
		MunicipioID:        u.MunicipioID,
		SecretariaID:       u.SecretariaID,
		UnidadeID:          u.UnidadeID,
		SetorID:            u.SetorID,
		MustChangePassword: u.MustChangePassword,
	})
	if err != nil {
		return "", fmt.Errorf("auth: gerar token: %w", err)
	}
	return token, nil
}

// HashPassword bcrypt com custo padrão.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash de senha: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compara a senha com o hash; hash vazio nunca confere.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ToUsuarioResponse mapeia a entidade para a saída da API.
func ToUsuarioResponse(u *entity.Usuario) *dto.UsuarioResponse {
	if u == nil {
		return nil
	}
	return &dto.UsuarioResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		Nome:               u.Nome,
		Role:               u.Role,
		MunicipioID:        u.MunicipioID,
		SecretariaID:       u.SecretariaID,
		UnidadeID:          u.UnidadeID,
		SetorID:            u.SetorID,
		MunicipioNome:      u.MunicipioNome,
		SecretariaNome:     u.SecretariaNome,
		UnidadeNome:        u.UnidadeNome,
		SetorNome:          u.SetorNome,
		CPF:                u.CPF,
		CodigoAcesso:       u.CodigoAcesso,
		Ativo:              u.Ativo,
		Bloqueado:          u.Bloqueado,
		MustChangePassword: u.MustChangePassword,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
