// Package nee trilha educacional mínima (turmas, alunos, matrículas) e o
// acompanhamento de necessidades educacionais especiais.
package nee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

const auditModulo = "NEE"

// MunicipioResolver município de trabalho do usuário.
type MunicipioResolver interface {
	ResolveMunicipio(ctx context.Context, p rbac.Principal, requested string) (string, error)
}

// Repos repositórios da trilha educacional e de NEE.
type Repos struct {
	Turmas       repository.TurmaRepository
	Alunos       repository.AlunoRepository
	Matriculas   repository.MatriculaRepository
	Tipos        repository.TipoNecessidadeRepository
	Necessidades repository.AlunoNecessidadeRepository
	Apoios       repository.ApoioRepository
}

// UseCase turmas, alunos, matrículas, necessidades e apoios.
type UseCase struct {
	turmaRepo  repository.TurmaRepository
	alunoRepo  repository.AlunoRepository
	matRepo    repository.MatriculaRepository
	tipoRepo   repository.TipoNecessidadeRepository
	necRepo    repository.AlunoNecessidadeRepository
	apoioRepo  repository.ApoioRepository
	hierarquia *usecase.HierarquiaResolver
	municipios MunicipioResolver
	auditor    ports.Auditor
	now        func() time.Time
}

// NewUseCase constrói o caso de uso de NEE.
func NewUseCase(repos Repos, hierarquia *usecase.HierarquiaResolver, municipios MunicipioResolver, auditor ports.Auditor) *UseCase {
	return &UseCase{
		turmaRepo:  repos.Turmas,
		alunoRepo:  repos.Alunos,
		matRepo:    repos.Matriculas,
		tipoRepo:   repos.Tipos,
		necRepo:    repos.Necessidades,
		apoioRepo:  repos.Apoios,
		hierarquia: hierarquia,
		municipios: municipios,
		auditor:    auditor,
		now:        time.Now,
	}
}

// ─── Tipos de necessidade ───────────────────────────────────────────────────

// CreateTipo inclui um tipo no catálogo global; o nome é único.
func (uc *UseCase) CreateTipo(ctx context.Context, p rbac.Principal, in dto.TipoNecessidadeRequest) (*dto.TipoNecessidadeResponse, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return nil, domain.NewValidationError("nome", "informe o nome")
	}
	t := &entity.TipoNecessidade{ID: uuid.New().String(), Nome: nome, Ativo: true, CreatedAt: uc.now()}
	if in.Ativo != nil {
		t.Ativo = *in.Ativo
	}
	if err := uc.tipoRepo.Create(ctx, t); err != nil {
		return nil, tipoErr(err)
	}
	uc.audit(ctx, p, p.MunicipioID, "TIPO_NECESSIDADE_CRIADO", "TipoNecessidade", t.ID, nil, tipoSnapshot(t))
	resp := toTipoResponse(t)
	return &resp, nil
}

// UpdateTipo renomeia ou (des)ativa o tipo.
func (uc *UseCase) UpdateTipo(ctx context.Context, p rbac.Principal, id string, in dto.TipoNecessidadeRequest) (*dto.TipoNecessidadeResponse, error) {
	t, err := uc.tipoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	antes := tipoSnapshot(t)
	if nome := strings.TrimSpace(in.Nome); nome != "" {
		t.Nome = nome
	}
	if in.Ativo != nil {
		t.Ativo = *in.Ativo
	}
	if err := uc.tipoRepo.Update(ctx, t); err != nil {
		return nil, tipoErr(err)
	}
	uc.audit(ctx, p, p.MunicipioID, "TIPO_NECESSIDADE_ATUALIZADO", "TipoNecessidade", t.ID, antes, tipoSnapshot(t))
	resp := toTipoResponse(t)
	return &resp, nil
}

// ListTipos catálogo; onlyActive omite os inativos.
func (uc *UseCase) ListTipos(ctx context.Context, onlyActive bool) ([]dto.TipoNecessidadeResponse, error) {
	list, err := uc.tipoRepo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TipoNecessidadeResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTipoResponse(t))
	}
	return out, nil
}

// ─── Necessidades do aluno ──────────────────────────────────────────────────

// CreateNecessidade associa um tipo ativo ao aluno; cada tipo aparece uma vez por aluno.
func (uc *UseCase) CreateNecessidade(ctx context.Context, p rbac.Principal, alunoID string, in dto.NecessidadeRequest) (*dto.NecessidadeResponse, error) {
	a, err := uc.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	tipo, err := uc.tipoAtivo(ctx, in.TipoID)
	if err != nil {
		return nil, err
	}
	n := &entity.AlunoNecessidade{
		ID:         uuid.New().String(),
		AlunoID:    a.ID,
		TipoID:     tipo.ID,
		TipoNome:   tipo.Nome,
		CID:        strings.ToUpper(strings.TrimSpace(in.CID)),
		Observacao: strings.TrimSpace(in.Observacao),
		Ativo:      true,
		CreatedAt:  uc.now(),
	}
	if in.Ativo != nil {
		n.Ativo = *in.Ativo
	}
	if err := uc.necRepo.Create(ctx, n); err != nil {
		return nil, necessidadeErr(err)
	}
	uc.audit(ctx, p, a.MunicipioID, "NECESSIDADE_REGISTRADA", "AlunoNecessidade", n.ID, nil, necessidadeSnapshot(n))
	resp := toNecessidadeResponse(n)
	return &resp, nil
}

// UpdateNecessidade altera uma necessidade do aluno informado na rota.
func (uc *UseCase) UpdateNecessidade(ctx context.Context, p rbac.Principal, alunoID, id string, in dto.NecessidadeRequest) (*dto.NecessidadeResponse, error) {
	a, err := uc.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	n, err := uc.necRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil || n.AlunoID != a.ID {
		return nil, domain.ErrNotFound
	}
	antes := necessidadeSnapshot(n)
	if in.TipoID != "" && in.TipoID != n.TipoID {
		tipo, err := uc.tipoAtivo(ctx, in.TipoID)
		if err != nil {
			return nil, err
		}
		n.TipoID, n.TipoNome = tipo.ID, tipo.Nome
	}
	n.CID = strings.ToUpper(strings.TrimSpace(in.CID))
	n.Observacao = strings.TrimSpace(in.Observacao)
	if in.Ativo != nil {
		n.Ativo = *in.Ativo
	}
	if err := uc.necRepo.Update(ctx, n); err != nil {
		return nil, necessidadeErr(err)
	}
	uc.audit(ctx, p, a.MunicipioID, "NECESSIDADE_ATUALIZADA", "AlunoNecessidade", n.ID, antes, necessidadeSnapshot(n))
	resp := toNecessidadeResponse(n)
	return &resp, nil
}

// ListNecessidades necessidades do aluno, ativas ou não.
func (uc *UseCase) ListNecessidades(ctx context.Context, p rbac.Principal, alunoID string) ([]dto.NecessidadeResponse, error) {
	a, err := uc.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	list, err := uc.necRepo.ListByAluno(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NecessidadeResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNecessidadeResponse(n))
	}
	return out, nil
}

// ─── Apoios ─────────────────────────────────────────────────────────────────

// CreateApoio registra um apoio numa matrícula do próprio aluno.
func (uc *UseCase) CreateApoio(ctx context.Context, p rbac.Principal, alunoID string, in dto.ApoioRequest) (*dto.ApoioResponse, error) {
	a, err := uc.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	m, err := uc.matRepo.GetByID(ctx, in.MatriculaID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.AlunoID != a.ID {
		return nil, domain.NewValidationError("matricula_id", "a matrícula não pertence ao aluno")
	}
	if in.CargaHorariaSemanal != nil && *in.CargaHorariaSemanal < 0 {
		return nil, domain.NewValidationError("carga_horaria_semanal", "a carga horária não pode ser negativa")
	}
	ap := &entity.ApoioMatricula{
		ID:                  uuid.New().String(),
		MatriculaID:         m.ID,
		Tipo:                in.Tipo,
		Descricao:           strings.TrimSpace(in.Descricao),
		CargaHorariaSemanal: in.CargaHorariaSemanal,
		Ativo:               true,
		CreatedAt:           uc.now(),
	}
	if in.Ativo != nil {
		ap.Ativo = *in.Ativo
	}
	if err := uc.apoioRepo.Create(ctx, ap); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, a.MunicipioID, "APOIO_REGISTRADO", "ApoioMatricula", ap.ID, nil, apoioSnapshot(ap))
	resp := toApoioResponse(ap)
	return &resp, nil
}

// UpdateApoio altera o apoio; a matrícula de destino também precisa ser do aluno.
func (uc *UseCase) UpdateApoio(ctx context.Context, p rbac.Principal, alunoID, id string, in dto.ApoioRequest) (*dto.ApoioResponse, error) {
	a, err := uc.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	ap, err := uc.apoioRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, domain.ErrNotFound
	}
	atual, err := uc.matRepo.GetByID(ctx, ap.MatriculaID)
	if err != nil {
		return nil, err
	}
	if atual == nil || atual.AlunoID != a.ID {
		return nil, domain.ErrNotFound
	}
	antes := apoioSnapshot(ap)
	if in.MatriculaID != "" && in.MatriculaID != ap.MatriculaID {
		m, err := uc.matRepo.GetByID(ctx, in.MatriculaID)
		if err != nil {
			return nil, err
		}
		if m == nil || m.AlunoID != a.ID {
			return nil, domain.NewValidationError("matricula_id", "a matrícula não pertence ao aluno")
		}
		ap.MatriculaID = m.ID
	}
	if in.CargaHorariaSemanal != nil && *in.CargaHorariaSemanal < 0 {
		return nil, domain.NewValidationError("carga_horaria_semanal", "a carga horária não pode ser negativa")
	}
	if in.Tipo != "" {
		ap.Tipo = in.Tipo
	}
	ap.Descricao = strings.TrimSpace(in.Descricao)
	ap.CargaHorariaSemanal = in.CargaHorariaSemanal
	if in.Ativo != nil {
		ap.Ativo = *in.Ativo
	}
	if err := uc.apoioRepo.Update(ctx, ap); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, a.MunicipioID, "APOIO_ATUALIZADO", "ApoioMatricula", ap.ID, antes, apoioSnapshot(ap))
	resp := toApoioResponse(ap)
	return &resp, nil
}

// ListApoios apoios de todas as matrículas do aluno.
func (uc *UseCase) ListApoios(ctx context.Context, p rbac.Principal, alunoID string) ([]dto.ApoioResponse, error) {
	a, err := uc.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	list, err := uc.apoioRepo.ListByAluno(ctx, a.ID, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ApoioResponse, 0, len(list))
	for _, ap := range list {
		out = append(out, toApoioResponse(ap))
	}
	return out, nil
}

// ─── Resumo e relatório ─────────────────────────────────────────────────────

// AlunoNEE ficha do aluno: necessidades, matrículas e apoios ativos das matrículas ATIVA.
func (uc *UseCase) AlunoNEE(ctx context.Context, p rbac.Principal, alunoID string) (*dto.AlunoNEEResponse, error) {
	a, err := uc.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	necs, err := uc.necRepo.ListByAluno(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	mats, err := uc.matRepo.ListByAluno(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	apoios, err := uc.apoioRepo.ListByAluno(ctx, a.ID, true)
	if err != nil {
		return nil, err
	}

	out := &dto.AlunoNEEResponse{
		Aluno:        toAlunoResponse(a),
		Necessidades: make([]dto.NecessidadeResponse, 0, len(necs)),
		Matriculas:   make([]dto.MatriculaResponse, 0, len(mats)),
		ApoiosAtivos: make([]dto.ApoioResponse, 0, len(apoios)),
	}
	for _, n := range necs {
		out.Necessidades = append(out.Necessidades, toNecessidadeResponse(n))
	}
	for _, m := range mats {
		out.Matriculas = append(out.Matriculas, toMatriculaResponse(m))
	}
	for _, ap := range apoios {
		if ap.Ativo {
			out.ApoiosAtivos = append(out.ApoiosAtivos, toApoioResponse(ap))
		}
	}
	return out, nil
}

// RelatorioNecessidades alunos ativos por tipo de necessidade ativa, dentro do escopo do usuário.
func (uc *UseCase) RelatorioNecessidades(ctx context.Context, p rbac.Principal, municipio string) ([]dto.NecessidadeContagemResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	rows, err := uc.necRepo.ContarPorTipo(ctx, usecase.ScopeMunicipio(p, mun))
	if err != nil {
		return nil, err
	}
	out := make([]dto.NecessidadeContagemResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.NecessidadeContagemResponse{TipoID: r.TipoID, TipoNome: r.TipoNome, Alunos: r.Alunos})
	}
	return out, nil
}

// TabelaNecessidades relatório por tipo para CSV/XLSX/PDF.
func (uc *UseCase) TabelaNecessidades(ctx context.Context, p rbac.Principal, municipio string) (dto.Tabela, error) {
	t := dto.Tabela{
		Titulo:    "Alunos por necessidade",
		Arquivo:   "nee_necessidades",
		Usuario:   p.UserID,
		GeradoEm:  uc.now(),
		Cabecalho: []string{"Necessidade", "Alunos"},
	}
	rows, err := uc.RelatorioNecessidades(ctx, p, municipio)
	if err != nil {
		return t, err
	}
	for _, r := range rows {
		t.Linhas = append(t.Linhas, []string{r.TipoNome, strconv.Itoa(r.Alunos)})
	}
	return t, nil
}

func (uc *UseCase) tipoAtivo(ctx context.Context, id string) (*entity.TipoNecessidade, error) {
	t, err := uc.tipoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NewValidationError("tipo_id", "tipo de necessidade não encontrado")
	}
	if !t.Ativo {
		return nil, domain.NewValidationError("tipo_id", "tipo de necessidade inativo")
	}
	return t, nil
}

func (uc *UseCase) audit(ctx context.Context, p rbac.Principal, municipioID, evento, entidade, entidadeID string, antes, depois any) {
	uc.auditor.Registrar(ctx, entity.AuditoriaEvento{
		MunicipioID: municipioID,
		Modulo:      auditModulo,
		Evento:      evento,
		Entidade:    entidade,
		EntidadeID:  entidadeID,
		UsuarioID:   p.UserID,
		Antes:       ports.Snapshot(antes),
		Depois:      ports.Snapshot(depois),
	})
}

func tipoErr(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.NewValidationError("nome", "tipo de necessidade já cadastrado")
	}
	return err
}

func necessidadeErr(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.NewValidationError("tipo_id", "o aluno já possui esta necessidade")
	}
	if errors.Is(err, domain.ErrInUse) {
		return fmt.Errorf("%w: aluno ou tipo inexistente", domain.ErrInvalidInput)
	}
	return err
}

func tipoSnapshot(t *entity.TipoNecessidade) map[string]any {
	return map[string]any{"nome": t.Nome, "ativo": t.Ativo}
}

func necessidadeSnapshot(n *entity.AlunoNecessidade) map[string]any {
	return map[string]any{"aluno_id": n.AlunoID, "tipo_id": n.TipoID, "cid": n.CID, "ativo": n.Ativo}
}

func apoioSnapshot(a *entity.ApoioMatricula) map[string]any {
	return map[string]any{
		"matricula_id":          a.MatriculaID,
		"tipo":                  a.Tipo,
		"carga_horaria_semanal": a.CargaHorariaSemanal,
		"ativo":                 a.Ativo,
	}
}

func toTipoResponse(t *entity.TipoNecessidade) dto.TipoNecessidadeResponse {
	return dto.TipoNecessidadeResponse{ID: t.ID, Nome: t.Nome, Ativo: t.Ativo}
}

func toNecessidadeResponse(n *entity.AlunoNecessidade) dto.NecessidadeResponse {
	return dto.NecessidadeResponse{
		ID:         n.ID,
		AlunoID:    n.AlunoID,
		TipoID:     n.TipoID,
		TipoNome:   n.TipoNome,
		CID:        n.CID,
		Observacao: n.Observacao,
		Ativo:      n.Ativo,
	}
}

func toApoioResponse(a *entity.ApoioMatricula) dto.ApoioResponse {
	return dto.ApoioResponse{
		ID:                  a.ID,
		MatriculaID:         a.MatriculaID,
		Tipo:                a.Tipo,
		Descricao:           a.Descricao,
		CargaHorariaSemanal: a.CargaHorariaSemanal,
		Ativo:               a.Ativo,
	}
}
