package nee

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/pkg/textutil"
)

// FiltroNEE valor de ?tipo= que restringe a listagem a alunos com necessidade ativa.
const FiltroNEE = "nee"

// ─── Turmas ─────────────────────────────────────────────────────────────────

// CreateTurma abre uma turma numa unidade do escopo do usuário.
func (uc *UseCase) CreateTurma(ctx context.Context, p rbac.Principal, municipio string, in dto.TurmaRequest) (*dto.TurmaResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(entity.Turnos, in.Turno) {
		return nil, domain.NewValidationError("turno", "turno inválido")
	}
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return nil, domain.NewValidationError("nome", "informe o nome da turma")
	}
	if in.UnidadeID == "" {
		return nil, domain.NewValidationError("unidade_id", "informe a unidade")
	}
	h := usecase.Hierarquia{MunicipioID: mun, UnidadeID: in.UnidadeID}
	if err := uc.hierarquia.Resolve(ctx, usecase.ScopeMunicipio(p, mun), &h, usecase.CamposHierarquia); err != nil {
		return nil, err
	}

	t := &entity.Turma{
		ID:           uuid.New().String(),
		UnidadeID:    h.UnidadeID,
		SecretariaID: h.SecretariaID,
		MunicipioID:  mun,
		Nome:         nome,
		AnoLetivo:    in.AnoLetivo,
		Turno:        in.Turno,
		Ativo:        true,
		CreatedAt:    uc.now(),
	}
	if err := uc.turmaRepo.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("nome", "já existe turma com este nome na unidade e ano letivo")
		}
		return nil, err
	}
	uc.audit(ctx, p, mun, "TURMA_CRIADA", "Turma", t.ID, nil, map[string]any{
		"unidade_id": t.UnidadeID, "nome": t.Nome, "ano_letivo": t.AnoLetivo, "turno": t.Turno,
	})
	resp := toTurmaResponse(t)
	return &resp, nil
}

// GetTurma detalhe dentro do escopo.
func (uc *UseCase) GetTurma(ctx context.Context, p rbac.Principal, id string) (*dto.TurmaResponse, error) {
	t, err := uc.loadTurma(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := toTurmaResponse(t)
	return &resp, nil
}

// ListTurmas turmas do escopo; unidadeID restringe a uma unidade, tipo filtra o turno.
func (uc *UseCase) ListTurmas(ctx context.Context, p rbac.Principal, municipio, unidadeID string, q dto.ListQuery) (*dto.ListResponse[dto.TurmaResponse], error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	f := repository.ListFilter{
		Scope:    turmaScope(usecase.ScopeMunicipio(p, mun)),
		ParentID: unidadeID,
		Q:        strings.TrimSpace(q.Q),
		Tipo:     strings.ToUpper(strings.TrimSpace(q.Tipo)),
		Ativo:    q.Ativo,
		Page:     q.Repo(),
	}
	list, total, err := uc.turmaRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TurmaResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTurmaResponse(t))
	}
	return &dto.ListResponse[dto.TurmaResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// ─── Alunos ─────────────────────────────────────────────────────────────────

// CreateAluno cadastra o aluno no município; CPF e NIS guardam só dígitos.
func (uc *UseCase) CreateAluno(ctx context.Context, p rbac.Principal, municipio string, in dto.AlunoRequest) (*dto.AlunoResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	a := &entity.Aluno{ID: uuid.New().String(), MunicipioID: mun, Ativo: true, CreatedAt: now, UpdatedAt: now}
	if err := applyAluno(a, in); err != nil {
		return nil, err
	}
	if err := uc.alunoRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, mun, "ALUNO_CRIADO", "Aluno", a.ID, nil, alunoSnapshot(a))
	resp := toAlunoResponse(a)
	return &resp, nil
}

// UpdateAluno altera o cadastro.
func (uc *UseCase) UpdateAluno(ctx context.Context, p rbac.Principal, id string, in dto.AlunoRequest) (*dto.AlunoResponse, error) {
	a, err := uc.loadAluno(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := alunoSnapshot(a)
	if err := applyAluno(a, in); err != nil {
		return nil, err
	}
	a.UpdatedAt = uc.now()
	if err := uc.alunoRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, a.MunicipioID, "ALUNO_ATUALIZADO", "Aluno", a.ID, antes, alunoSnapshot(a))
	resp := toAlunoResponse(a)
	return &resp, nil
}

// GetAluno detalhe dentro do escopo.
func (uc *UseCase) GetAluno(ctx context.Context, p rbac.Principal, id string) (*dto.AlunoResponse, error) {
	a, err := uc.loadAluno(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := toAlunoResponse(a)
	return &resp, nil
}

// ListAlunos busca por nome, CPF ou NIS; ?tipo=nee lista só alunos com necessidade ativa.
func (uc *UseCase) ListAlunos(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (*dto.ListResponse[dto.AlunoResponse], error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	tipo := strings.ToLower(strings.TrimSpace(q.Tipo))
	if tipo != FiltroNEE {
		tipo = ""
	}
	f := repository.ListFilter{
		Scope: turmaScope(usecase.ScopeMunicipio(p, mun)),
		Q:     strings.TrimSpace(q.Q),
		Tipo:  tipo,
		Ativo: q.Ativo,
		Page:  q.Repo(),
	}
	list, total, err := uc.alunoRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlunoResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toAlunoResponse(a))
	}
	return &dto.ListResponse[dto.AlunoResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// ─── Matrículas ─────────────────────────────────────────────────────────────

// CreateMatricula vincula o aluno a uma turma ativa do escopo, no mesmo município.
// O aluno ainda sem matrícula só precisa ser do município do usuário.
func (uc *UseCase) CreateMatricula(ctx context.Context, p rbac.Principal, alunoID string, in dto.MatriculaRequest) (*dto.MatriculaResponse, error) {
	a, err := uc.alunoRepo.GetByID(ctx, alunoID)
	if err != nil {
		return nil, err
	}
	if a == nil || !noMunicipio(p, a.MunicipioID) {
		return nil, domain.ErrNotFound
	}
	t, err := uc.turmaRepo.GetByID(ctx, in.TurmaID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.MunicipioID != a.MunicipioID || !turmaVisivel(p, t) {
		return nil, domain.NewValidationError("turma_id", "turma não encontrada")
	}
	if !t.Ativo {
		return nil, domain.NewValidationError("turma_id", "turma inativa")
	}

	m := &entity.Matricula{
		ID:            uuid.New().String(),
		AlunoID:       a.ID,
		TurmaID:       t.ID,
		TurmaNome:     t.Nome,
		UnidadeID:     t.UnidadeID,
		DataMatricula: in.DataMatricula,
		Situacao:      entity.MatriculaAtiva,
		Observacao:    strings.TrimSpace(in.Observacao),
		CreatedAt:     uc.now(),
	}
	if m.DataMatricula == nil {
		hoje := m.CreatedAt.Truncate(24 * time.Hour)
		m.DataMatricula = &hoje
	}
	if err := uc.matRepo.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("turma_id", "o aluno já está matriculado nesta turma")
		}
		return nil, err
	}
	uc.audit(ctx, p, a.MunicipioID, "MATRICULA_CRIADA", "Matricula", m.ID, nil, map[string]any{
		"aluno_id": a.ID, "turma_id": t.ID, "situacao": m.Situacao,
	})
	resp := toMatriculaResponse(m)
	return &resp, nil
}

// UpdateSituacao muda a situação da matrícula; a turma precisa estar no escopo.
func (uc *UseCase) UpdateSituacao(ctx context.Context, p rbac.Principal, id string, in dto.MatriculaSituacaoRequest) (*dto.MatriculaResponse, error) {
	if !slices.Contains(entity.MatriculaSituacoes, in.Situacao) {
		return nil, domain.NewValidationError("situacao", "situação inválida")
	}
	m, err := uc.matRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	t, err := uc.loadTurma(ctx, p, m.TurmaID)
	if err != nil {
		return nil, err
	}
	if m.Situacao == in.Situacao {
		resp := toMatriculaResponse(m)
		return &resp, nil
	}
	antes := m.Situacao
	if err := uc.matRepo.UpdateSituacao(ctx, m.ID, in.Situacao); err != nil {
		return nil, err
	}
	m.Situacao = in.Situacao
	uc.audit(ctx, p, t.MunicipioID, "MATRICULA_SITUACAO_ALTERADA", "Matricula", m.ID,
		map[string]any{"situacao": antes}, map[string]any{"situacao": m.Situacao})
	resp := toMatriculaResponse(m)
	return &resp, nil
}

// ListMatriculas histórico de matrículas do aluno.
func (uc *UseCase) ListMatriculas(ctx context.Context, p rbac.Principal, alunoID string) ([]dto.MatriculaResponse, error) {
	a, err := uc.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	list, err := uc.matRepo.ListByAluno(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MatriculaResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMatriculaResponse(m))
	}
	return out, nil
}

func (uc *UseCase) loadTurma(ctx context.Context, p rbac.Principal, id string) (*entity.Turma, error) {
	t, err := uc.turmaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || !turmaVisivel(p, t) {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// loadAluno aplica o escopo pelo caminho matrícula ATIVA → turma → unidade → secretaria.
// Acima da secretaria basta o município.
func (uc *UseCase) loadAluno(ctx context.Context, p rbac.Principal, id string) (*entity.Aluno, error) {
	a, err := uc.alunoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || !noMunicipio(p, a.MunicipioID) {
		return nil, domain.ErrNotFound
	}
	sc := turmaScope(rbac.ScopeFor(p))
	if sc.All || (sc.SecretariaID == "" && sc.UnidadeID == "") {
		return a, nil
	}
	mats, err := uc.matRepo.ListByAluno(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range mats {
		if m.Situacao != entity.MatriculaAtiva {
			continue
		}
		t, err := uc.turmaRepo.GetByID(ctx, m.TurmaID)
		if err != nil {
			return nil, err
		}
		if t != nil && sc.Contains(t.MunicipioID, t.SecretariaID, t.UnidadeID, "") {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: aluno fora do seu escopo", domain.ErrNotFound)
}

// turmaScope turmas e alunos não descem até setor.
func turmaScope(sc rbac.Scope) rbac.Scope {
	sc.SetorID = ""
	return sc
}

func turmaVisivel(p rbac.Principal, t *entity.Turma) bool {
	return turmaScope(rbac.ScopeFor(p)).Contains(t.MunicipioID, t.SecretariaID, t.UnidadeID, "")
}

func noMunicipio(p rbac.Principal, municipioID string) bool {
	return p.IsAdmin() || (p.MunicipioID != "" && p.MunicipioID == municipioID)
}

func applyAluno(a *entity.Aluno, in dto.AlunoRequest) error {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return domain.NewValidationError("nome", "informe o nome do aluno")
	}
	cpf := textutil.OnlyDigits(in.CPF)
	if cpf != "" && len(cpf) != 11 {
		return domain.NewValidationError("cpf", "CPF deve ter 11 dígitos")
	}
	a.Nome = nome
	a.DataNascimento = in.DataNascimento
	a.CPF = cpf
	a.NIS = textutil.OnlyDigits(in.NIS)
	a.NomeMae = strings.TrimSpace(in.NomeMae)
	a.NomePai = strings.TrimSpace(in.NomePai)
	a.Telefone = strings.TrimSpace(in.Telefone)
	a.Email = strings.ToLower(strings.TrimSpace(in.Email))
	a.Endereco = strings.TrimSpace(in.Endereco)
	if in.Ativo != nil {
		a.Ativo = *in.Ativo
	}
	return nil
}

func alunoSnapshot(a *entity.Aluno) map[string]any {
	return map[string]any{"nome": a.Nome, "cpf": a.CPF, "nis": a.NIS, "ativo": a.Ativo}
}

func toTurmaResponse(t *entity.Turma) dto.TurmaResponse {
	return dto.TurmaResponse{
		ID:           t.ID,
		UnidadeID:    t.UnidadeID,
		SecretariaID: t.SecretariaID,
		Nome:         t.Nome,
		AnoLetivo:    t.AnoLetivo,
		Turno:        t.Turno,
		Ativo:        t.Ativo,
		CreatedAt:    t.CreatedAt,
	}
}

func toAlunoResponse(a *entity.Aluno) dto.AlunoResponse {
	return dto.AlunoResponse{
		ID:             a.ID,
		MunicipioID:    a.MunicipioID,
		Nome:           a.Nome,
		DataNascimento: a.DataNascimento,
		CPF:            a.CPF,
		NIS:            a.NIS,
		NomeMae:        a.NomeMae,
		NomePai:        a.NomePai,
		Telefone:       a.Telefone,
		Email:          a.Email,
		Endereco:       a.Endereco,
		Ativo:          a.Ativo,
		CreatedAt:      a.CreatedAt,
	}
}

func toMatriculaResponse(m *entity.Matricula) dto.MatriculaResponse {
	return dto.MatriculaResponse{
		ID:            m.ID,
		AlunoID:       m.AlunoID,
		TurmaID:       m.TurmaID,
		TurmaNome:     m.TurmaNome,
		UnidadeID:     m.UnidadeID,
		DataMatricula: m.DataMatricula,
		Situacao:      m.Situacao,
		Observacao:    m.Observacao,
	}
}
