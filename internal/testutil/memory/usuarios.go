package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// Usuarios usuários e a trilha de gestão.
type Usuarios struct {
	mu     sync.Mutex
	Users  map[string]*entity.Usuario
	Trilha []*entity.UserManagementAudit
}

// NewUsuarios base vazia.
func NewUsuarios() *Usuarios {
	return &Usuarios{Users: map[string]*entity.Usuario{}}
}

// Add grava o usuário direto, sem regras.
func (s *Usuarios) Add(u *entity.Usuario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.Users[u.ID] = &c
}

// Acoes ações registradas na trilha, em ordem.
func (s *Usuarios) Acoes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Trilha))
	for _, a := range s.Trilha {
		out = append(out, a.Action)
	}
	return out
}

func (s *Usuarios) Repo() repository.UsuarioRepository        { return usuarioRepo{s} }
func (s *Usuarios) AuditRepo() repository.UserAuditRepository { return userAuditRepo{s} }

type usuarioRepo struct{ s *Usuarios }

func (r usuarioRepo) Create(_ context.Context, u *entity.Usuario) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.Users {
		if strings.EqualFold(x.Username, u.Username) || x.CodigoAcesso == u.CodigoAcesso {
			return domain.ErrDuplicate
		}
	}
	c := *u
	r.s.Users[u.ID] = &c
	return nil
}

func (r usuarioRepo) GetByID(_ context.Context, id string) (*entity.Usuario, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.Users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r usuarioRepo) GetByLogin(_ context.Context, login string) (*entity.Usuario, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if u.CodigoAcesso == login {
			c := *u
			return &c, nil
		}
	}
	for _, u := range r.s.Users {
		if strings.EqualFold(u.Username, login) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r usuarioRepo) Update(_ context.Context, u *entity.Usuario) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *u
	r.s.Users[u.ID] = &c
	return nil
}

func (r usuarioRepo) UpdatePassword(_ context.Context, id, hash string, mustChange bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.Users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash, u.MustChangePassword = hash, mustChange
	return nil
}

func (r usuarioRepo) TouchLogin(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.Users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (r usuarioRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Usuario, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Usuario
	for _, u := range r.s.Users {
		if !f.Scope.Contains(u.MunicipioID, u.SecretariaID, u.UnidadeID, u.SetorID) {
			continue
		}
		if (f.Tipo != "" && u.Role != f.Tipo) || (f.Ativo != nil && u.Ativo != *f.Ativo) ||
			(f.Status == "bloqueado" && !u.Bloqueado) || (f.Status == "desbloqueado" && u.Bloqueado) {
			continue
		}
		if !contains(u.Nome, f.Q) && !contains(u.Username, f.Q) && !contains(u.CodigoAcesso, f.Q) {
			continue
		}
		c := *u
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Nome < all[j].Nome })
	items, total := paginate(all, f.Page)
	return items, total, nil
}

func (r usuarioRepo) CodigoExists(_ context.Context, codigo, exceptID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if u.CodigoAcesso == codigo && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r usuarioRepo) UsernameExists(_ context.Context, username, exceptID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if strings.EqualFold(u.Username, username) && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

type userAuditRepo struct{ s *Usuarios }

func (r userAuditRepo) Create(_ context.Context, a *entity.UserManagementAudit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *a
	r.s.Trilha = append(r.s.Trilha, &c)
	return nil
}

func (r userAuditRepo) ListByTarget(_ context.Context, targetID string, limit int) ([]*entity.UserManagementAudit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.UserManagementAudit
	for i := len(r.s.Trilha) - 1; i >= 0 && len(out) < limit; i-- {
		if a := r.s.Trilha[i]; a.TargetID == targetID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}
