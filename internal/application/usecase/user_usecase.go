package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gepub/gepub-api/internal/application/auth"
	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/accounts"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/pkg/logger"
	"github.com/gepub/gepub-api/pkg/textutil"
)

const senhaInicialLen = 10

// UserUseCase gestão de usuários pelos gestores (ADMIN, MUNICIPAL, SECRETARIA, UNIDADE).
type UserUseCase struct {
	repo      repository.UsuarioRepository
	auditRepo repository.UserAuditRepository
	secRepo   repository.SecretariaRepository
	uniRepo   repository.UnidadeRepository
	setorRepo repository.SetorRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewUserUseCase constrói o caso de uso com os portos de persistência.
func NewUserUseCase(
	repo repository.UsuarioRepository,
	auditRepo repository.UserAuditRepository,
	secRepo repository.SecretariaRepository,
	uniRepo repository.UnidadeRepository,
	setorRepo repository.SetorRepository,
	log *logger.Logger,
) *UserUseCase {
	return &UserUseCase{
		repo:      repo,
		auditRepo: auditRepo,
		secRepo:   secRepo,
		uniRepo:   uniRepo,
		setorRepo: setorRepo,
		log:       log.Named("accounts"),
		now:       time.Now,
	}
}

// Create cria o usuário com código de acesso e senha inicial aleatória, devolvidos uma única vez.
func (uc *UserUseCase) Create(ctx context.Context, actor rbac.Principal, in dto.CreateUsuarioRequest) (*dto.CredenciaisResponse, error) {
	if !rbac.CanManageUsers(actor.Role) {
		return nil, domain.ErrForbidden
	}
	if !rbac.CanAssignRole(actor.Role, in.Role) {
		return nil, domain.NewValidationError("role", fmt.Sprintf("você não pode atribuir o papel %q", in.Role))
	}
	now := uc.now()
	u := &entity.Usuario{
		ID:                 uuid.New().String(),
		Nome:               strings.TrimSpace(in.Nome),
		Email:              strings.TrimSpace(in.Email),
		CPF:                textutil.OnlyDigits(in.CPF),
		Role:               in.Role,
		MunicipioID:        in.MunicipioID,
		SecretariaID:       in.SecretariaID,
		UnidadeID:          in.UnidadeID,
		SetorID:            in.SetorID,
		Ativo:              true,
		MustChangePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	inheritScope(actor, u)
	if err := uc.checkProfile(ctx, actor, u); err != nil {
		return nil, err
	}

	codigo, err := accounts.UniqueCodigoAcesso(ctx, u.Nome, now.Year(), func(ctx context.Context, c string) (bool, error) {
		return uc.repo.CodigoExists(ctx, c, "")
	})
	if err != nil {
		return nil, err
	}
	u.CodigoAcesso = codigo
	u.Username = strings.TrimSpace(in.Username)
	if u.Username == "" {
		u.Username = codigo
	}
	taken, err := uc.repo.UsernameExists(ctx, u.Username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewValidationError("username", "username já está em uso")
	}

	senha, err := accounts.RandomPassword(senhaInicialLen)
	if err != nil {
		return nil, err
	}
	if u.PasswordHash, err = auth.HashPassword(senha); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, u, entity.UserActionCreate, fmt.Sprintf("papel=%s codigo=%s", u.Role, u.CodigoAcesso))
	return &dto.CredenciaisResponse{User: *toUsuarioResponse(u), CodigoAcesso: codigo, SenhaInicial: senha}, nil
}

// Get obtém um usuário no escopo do gestor.
func (uc *UserUseCase) Get(ctx context.Context, actor rbac.Principal, id string) (*dto.UsuarioResponse, error) {
	u, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toUsuarioResponse(u), nil
}

// Update edita dados e perfil; o novo papel e o novo escopo passam pelas mesmas regras da criação.
func (uc *UserUseCase) Update(ctx context.Context, actor rbac.Principal, id string, in dto.UpdateUsuarioRequest) (*dto.UsuarioResponse, error) {
	u, err := uc.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Nome != nil {
		u.Nome = strings.TrimSpace(*in.Nome)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.CPF != nil {
		u.CPF = textutil.OnlyDigits(*in.CPF)
	}
	if in.Role != nil && *in.Role != u.Role {
		if !rbac.CanAssignRole(actor.Role, *in.Role) {
			return nil, domain.NewValidationError("role", fmt.Sprintf("você não pode atribuir o papel %q", *in.Role))
		}
		u.Role = *in.Role
	}
	if in.SecretariaID != nil {
		u.SecretariaID = *in.SecretariaID
	}
	if in.UnidadeID != nil {
		u.UnidadeID = *in.UnidadeID
	}
	if in.SetorID != nil {
		u.SetorID = *in.SetorID
	}
	if err := uc.checkProfile(ctx, actor, u); err != nil {
		return nil, err
	}
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, u, entity.UserActionUpdate, fmt.Sprintf("papel=%s", u.Role))
	return toUsuarioResponse(u), nil
}

// ToggleAtivo alterna a situação ativo/inativo.
func (uc *UserUseCase) ToggleAtivo(ctx context.Context, actor rbac.Principal, id string) (*dto.UsuarioResponse, error) {
	u, err := uc.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	u.Ativo = !u.Ativo
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, u, entity.UserActionToggleAtivo, fmt.Sprintf("ativo=%t", u.Ativo))
	return toUsuarioResponse(u), nil
}

// ToggleBloqueio alterna o bloqueio de acesso.
func (uc *UserUseCase) ToggleBloqueio(ctx context.Context, actor rbac.Principal, id string) (*dto.UsuarioResponse, error) {
	u, err := uc.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	u.Bloqueado = !u.Bloqueado
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, u, entity.UserActionToggleBloqueio, fmt.Sprintf("bloqueado=%t", u.Bloqueado))
	return toUsuarioResponse(u), nil
}

// ResetCodigo gera um novo código de acesso.
func (uc *UserUseCase) ResetCodigo(ctx context.Context, actor rbac.Principal, id string) (*dto.CredenciaisResponse, error) {
	u, err := uc.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	anterior := u.CodigoAcesso
	codigo, err := accounts.UniqueCodigoAcesso(ctx, u.Nome, uc.now().Year(), func(ctx context.Context, c string) (bool, error) {
		if c == anterior {
			return false, nil
		}
		return uc.repo.CodigoExists(ctx, c, u.ID)
	})
	if err != nil {
		return nil, err
	}
	u.CodigoAcesso = codigo
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.audit(ctx, actor, u, entity.UserActionResetCodigo, fmt.Sprintf("%s -> %s", anterior, codigo))
	return &dto.CredenciaisResponse{User: *toUsuarioResponse(u), CodigoAcesso: codigo}, nil
}

// ResetSenha gera nova senha aleatória e obriga a troca no próximo login.
func (uc *UserUseCase) ResetSenha(ctx context.Context, actor rbac.Principal, id string) (*dto.CredenciaisResponse, error) {
	u, err := uc.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	senha, err := accounts.RandomPassword(senhaInicialLen)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(senha)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdatePassword(ctx, u.ID, hash, true); err != nil {
		return nil, err
	}
	u.MustChangePassword = true
	uc.audit(ctx, actor, u, entity.UserActionResetSenha, "senha redefinida")
	return &dto.CredenciaisResponse{User: *toUsuarioResponse(u), CodigoAcesso: u.CodigoAcesso, SenhaInicial: senha}, nil
}

// List lista usuários no escopo; Status aceita "ativo", "inativo", "bloqueado" e Tipo filtra o papel.
func (uc *UserUseCase) List(ctx context.Context, actor rbac.Principal, q dto.ListQuery) (*dto.ListResponse[dto.UsuarioResponse], error) {
	if !rbac.CanManageUsers(actor.Role) {
		return nil, domain.ErrForbidden
	}
	page := q.Repo()
	list, total, err := uc.repo.List(ctx, uc.filter(actor, q, page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.UsuarioResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUsuarioResponse(u))
	}
	return &dto.ListResponse[dto.UsuarioResponse]{Items: items, Page: dto.NewPage(page, total)}, nil
}

// Auditoria últimas ações de gestão sobre o usuário.
func (uc *UserUseCase) Auditoria(ctx context.Context, actor rbac.Principal, id string) ([]dto.UserAuditResponse, error) {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return nil, err
	}
	list, err := uc.auditRepo.ListByTarget(ctx, id, 50)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserAuditResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.UserAuditResponse{
			ID:        a.ID,
			ActorID:   a.ActorID,
			TargetID:  a.TargetID,
			Action:    a.Action,
			Details:   a.Details,
			CreatedAt: a.CreatedAt,
		})
	}
	return out, nil
}

// Tabela usuários do escopo prontos para exportação.
func (uc *UserUseCase) Tabela(ctx context.Context, actor rbac.Principal, q dto.ListQuery) (dto.Tabela, error) {
	if !rbac.CanManageUsers(actor.Role) {
		return dto.Tabela{}, domain.ErrForbidden
	}
	t := dto.Tabela{
		Titulo:    "Usuários",
		Arquivo:   "usuarios",
		Usuario:   actor.UserID,
		GeradoEm:  uc.now(),
		Cabecalho: []string{"Nome", "Username", "E-mail", "Código", "Função", "Município", "Secretaria", "Unidade", "Setor", "Status"},
	}
	page := repository.Page{Limit: 500}
	for {
		list, total, err := uc.repo.List(ctx, uc.filter(actor, q, page))
		if err != nil {
			return dto.Tabela{}, err
		}
		for _, u := range list {
			t.Linhas = append(t.Linhas, []string{
				u.Nome, u.Username, u.Email, u.CodigoAcesso, u.Role,
				u.MunicipioNome, u.SecretariaNome, u.UnidadeNome, u.SetorNome, statusUsuario(u),
			})
		}
		page.Offset += page.Limit
		if len(list) == 0 || page.Offset >= total {
			return t, nil
		}
	}
}

func (uc *UserUseCase) filter(actor rbac.Principal, q dto.ListQuery, page repository.Page) repository.ListFilter {
	f := repository.ListFilter{Scope: rbac.ScopeFor(actor), Q: q.Q, Tipo: q.Tipo, Ativo: q.Ativo, Page: page}
	switch strings.ToLower(q.Status) {
	case "bloqueado", "desbloqueado":
		f.Status = strings.ToLower(q.Status)
	case "ativo":
		v := true
		f.Ativo = &v
	case "inativo":
		v := false
		f.Ativo = &v
	}
	return f
}

func (uc *UserUseCase) load(ctx context.Context, actor rbac.Principal, id string) (*entity.Usuario, error) {
	if !rbac.CanManageUsers(actor.Role) {
		return nil, domain.ErrForbidden
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || !rbac.ScopeFor(actor).Contains(u.MunicipioID, u.SecretariaID, u.UnidadeID, u.SetorID) {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// manageable usuário no escopo, com papel abaixo do gestor e diferente dele próprio.
func (uc *UserUseCase) manageable(ctx context.Context, actor rbac.Principal, id string) (*entity.Usuario, error) {
	u, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if u.ID == actor.UserID {
		return nil, fmt.Errorf("%w: use a troca de senha para a própria conta", domain.ErrForbidden)
	}
	if !rbac.CanAssignRole(actor.Role, u.Role) {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

// inheritScope completa os níveis vazios com os do gestor.
func inheritScope(actor rbac.Principal, u *entity.Usuario) {
	if actor.IsAdmin() {
		return
	}
	s := rbac.ScopeFor(actor)
	u.MunicipioID = s.MunicipioID
	if u.SecretariaID == "" {
		u.SecretariaID = s.SecretariaID
	}
	if u.UnidadeID == "" {
		u.UnidadeID = s.UnidadeID
	}
	if u.SetorID == "" {
		u.SetorID = s.SetorID
	}
}

// checkProfile valida a coerência da hierarquia do perfil e o escopo do gestor.
func (uc *UserUseCase) checkProfile(ctx context.Context, actor rbac.Principal, u *entity.Usuario) error {
	if u.Role != entity.RoleAdmin && u.MunicipioID == "" {
		return domain.NewValidationError("municipio_id", "informe o município do usuário")
	}
	switch u.Role {
	case entity.RoleSecretaria:
		if u.SecretariaID == "" {
			return domain.NewValidationError("secretaria_id", "papel SECRETARIA exige secretaria")
		}
	case entity.RoleUnidade:
		if u.UnidadeID == "" {
			return domain.NewValidationError("unidade_id", "papel UNIDADE exige unidade")
		}
	}
	if u.SetorID != "" {
		st, err := uc.setorRepo.GetByID(ctx, u.SetorID)
		if err != nil {
			return err
		}
		if st == nil {
			return domain.NewValidationError("setor_id", "setor não encontrado")
		}
		if u.UnidadeID == "" {
			u.UnidadeID = st.UnidadeID
		}
		if st.UnidadeID != u.UnidadeID {
			return domain.NewValidationError("setor_id", "o setor não pertence à unidade")
		}
	}
	if u.UnidadeID != "" {
		un, err := uc.uniRepo.GetByID(ctx, u.UnidadeID)
		if err != nil {
			return err
		}
		if un == nil {
			return domain.NewValidationError("unidade_id", "unidade não encontrada")
		}
		if u.SecretariaID == "" {
			u.SecretariaID = un.SecretariaID
		}
		if un.SecretariaID != u.SecretariaID {
			return domain.NewValidationError("unidade_id", "a unidade não pertence à secretaria")
		}
	}
	if u.SecretariaID != "" {
		sec, err := uc.secRepo.GetByID(ctx, u.SecretariaID)
		if err != nil {
			return err
		}
		if sec == nil {
			return domain.NewValidationError("secretaria_id", "secretaria não encontrada")
		}
		if sec.MunicipioID != u.MunicipioID {
			return domain.NewValidationError("secretaria_id", "a secretaria não pertence ao município")
		}
	}
	if !rbac.ScopeFor(actor).Contains(u.MunicipioID, u.SecretariaID, u.UnidadeID, u.SetorID) {
		return fmt.Errorf("%w: perfil fora do seu escopo", domain.ErrForbidden)
	}
	return nil
}

func (uc *UserUseCase) audit(ctx context.Context, actor rbac.Principal, target *entity.Usuario, action, details string) {
	err := uc.auditRepo.Create(ctx, &entity.UserManagementAudit{
		ID:          uuid.New().String(),
		MunicipioID: target.MunicipioID,
		ActorID:     actor.UserID,
		TargetID:    target.ID,
		Action:      action,
		Details:     textutil.Truncate(details, 255),
		CreatedAt:   uc.now(),
	})
	if err != nil {
		uc.log.Error().Err(err).Str("action", action).Str("target_id", target.ID).Msg("falha ao gravar auditoria de usuário")
	}
}

func statusUsuario(u *entity.Usuario) string {
	switch {
	case u.Bloqueado:
		return "Bloqueado"
	case !u.Ativo:
		return "Inativo"
	default:
		return "Ativo"
	}
}

func toUsuarioResponse(u *entity.Usuario) *dto.UsuarioResponse {
	return auth.ToUsuarioResponse(u)
}
