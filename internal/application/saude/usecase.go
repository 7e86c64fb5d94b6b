// Package saude profissionais, agenda e atendimentos das unidades de saúde.
package saude

import (
	"context"
	"fmt"
	"slices"
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
	"github.com/gepub/gepub-api/internal/domain/saude"
	"github.com/gepub/gepub-api/pkg/textutil"
)

const (
	auditModulo          = "SAUDE"
	cargaHorariaPadrao   = 20
	msgProfissionalOutra = "O profissional selecionado não pertence à unidade escolhida."
)

// MunicipioResolver município de trabalho do usuário.
type MunicipioResolver interface {
	ResolveMunicipio(ctx context.Context, p rbac.Principal, requested string) (string, error)
}

// Repos repositórios da saúde e os cadastros consultados.
type Repos struct {
	Profissionais repository.ProfissionalSaudeRepository
	Agendamentos  repository.AgendamentoSaudeRepository
	Atendimentos  repository.AtendimentoSaudeRepository
	Unidades      repository.UnidadeRepository
	Alunos        repository.AlunoRepository
}

// UseCase profissionais, agendamentos e atendimentos.
type UseCase struct {
	profRepo   repository.ProfissionalSaudeRepository
	agRepo     repository.AgendamentoSaudeRepository
	atRepo     repository.AtendimentoSaudeRepository
	uniRepo    repository.UnidadeRepository
	alunoRepo  repository.AlunoRepository
	hierarquia *usecase.HierarquiaResolver
	municipios MunicipioResolver
	auditor    ports.Auditor
	now        func() time.Time
}

// NewUseCase constrói o caso de uso da saúde.
func NewUseCase(repos Repos, hierarquia *usecase.HierarquiaResolver, municipios MunicipioResolver, auditor ports.Auditor) *UseCase {
	return &UseCase{
		profRepo:   repos.Profissionais,
		agRepo:     repos.Agendamentos,
		atRepo:     repos.Atendimentos,
		uniRepo:    repos.Unidades,
		alunoRepo:  repos.Alunos,
		hierarquia: hierarquia,
		municipios: municipios,
		auditor:    auditor,
		now:        time.Now,
	}
}

// ── Profissionais ────────────────────────────────────────────────────────────

// CreateProfissional lota o profissional numa unidade de saúde do escopo.
func (uc *UseCase) CreateProfissional(ctx context.Context, p rbac.Principal, municipio string, in dto.ProfissionalSaudeRequest) (*dto.ProfissionalSaudeResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	pr := &entity.ProfissionalSaude{ID: uuid.New().String(), MunicipioID: mun, Ativo: true, CreatedAt: now, UpdatedAt: now}
	if err := uc.applyProfissional(ctx, p, pr, in); err != nil {
		return nil, err
	}
	if err := uc.profRepo.Create(ctx, pr); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, mun, "PROFISSIONAL_CRIADO", "ProfissionalSaude", pr.ID, nil, profissionalSnapshot(pr))
	resp := toProfissionalResponse(pr)
	return &resp, nil
}

// UpdateProfissional altera cadastro, lotação ou situação.
func (uc *UseCase) UpdateProfissional(ctx context.Context, p rbac.Principal, id string, in dto.ProfissionalSaudeRequest) (*dto.ProfissionalSaudeResponse, error) {
	pr, err := uc.loadProfissional(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := profissionalSnapshot(pr)
	if err := uc.applyProfissional(ctx, p, pr, in); err != nil {
		return nil, err
	}
	pr.UpdatedAt = uc.now()
	if err := uc.profRepo.Update(ctx, pr); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, pr.MunicipioID, "PROFISSIONAL_ATUALIZADO", "ProfissionalSaude", pr.ID, antes, profissionalSnapshot(pr))
	resp := toProfissionalResponse(pr)
	return &resp, nil
}

// GetProfissional detalhe dentro do escopo.
func (uc *UseCase) GetProfissional(ctx context.Context, p rbac.Principal, id string) (*dto.ProfissionalSaudeResponse, error) {
	pr, err := uc.loadProfissional(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := toProfissionalResponse(pr)
	return &resp, nil
}

// ListProfissionais profissionais do escopo; ?tipo= filtra o cargo.
func (uc *UseCase) ListProfissionais(ctx context.Context, p rbac.Principal, municipio, unidadeID string, q dto.ListQuery) (*dto.ListResponse[dto.ProfissionalSaudeResponse], error) {
	f, err := uc.filter(ctx, p, municipio, unidadeID, q)
	if err != nil {
		return nil, err
	}
	f.Tipo = strings.ToUpper(strings.TrimSpace(q.Tipo))
	f.Ativo = q.Ativo
	list, total, err := uc.profRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProfissionalSaudeResponse, 0, len(list))
	for _, pr := range list {
		items = append(items, toProfissionalResponse(pr))
	}
	return &dto.ListResponse[dto.ProfissionalSaudeResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

func (uc *UseCase) applyProfissional(ctx context.Context, p rbac.Principal, pr *entity.ProfissionalSaude, in dto.ProfissionalSaudeRequest) error {
	fe := domain.FieldErrors{}
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		fe.Add("nome", "informe o nome do profissional")
	}
	cpf := textutil.OnlyDigits(in.CPF)
	if cpf != "" && len(cpf) != 11 {
		fe.Add("cpf", "CPF deve ter 11 dígitos")
	}
	cargo := strings.ToUpper(strings.TrimSpace(in.Cargo))
	if cargo == "" {
		cargo = entity.CargoOutros
	}
	if !slices.Contains(entity.CargosSaude, cargo) {
		fe.Add("cargo", "cargo inválido")
	}
	carga := in.CargaHorariaSemanal
	if carga == 0 {
		carga = cargaHorariaPadrao
	}
	if carga < 1 || carga > 60 {
		fe.Add("carga_horaria_semanal", "carga horária semanal entre 1 e 60 horas")
	}
	if err := fe.Err(); err != nil {
		return err
	}
	h, err := uc.unidadeSaude(ctx, p, pr.MunicipioID, in.UnidadeID)
	if err != nil {
		return err
	}
	pr.SecretariaID = h.SecretariaID
	pr.UnidadeID = h.UnidadeID
	pr.Nome = nome
	pr.CPF = cpf
	pr.Cargo = cargo
	pr.ConselhoNumero = strings.TrimSpace(in.ConselhoNumero)
	pr.CBO = strings.TrimSpace(in.CBO)
	pr.CargaHorariaSemanal = carga
	if in.Ativo != nil {
		pr.Ativo = *in.Ativo
	}
	return nil
}

// ── Agendamentos ─────────────────────────────────────────────────────────────

// CreateAgendamento marca horário com um profissional ativo da unidade.
// O profissional não pode ter outro agendamento marcado ou confirmado no intervalo.
func (uc *UseCase) CreateAgendamento(ctx context.Context, p rbac.Principal, municipio string, in dto.AgendamentoSaudeRequest) (*dto.AgendamentoSaudeResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	tipo := strings.ToUpper(strings.TrimSpace(in.Tipo))
	if tipo == "" {
		tipo = entity.AgendamentoPrimeiraConsulta
	}
	if !slices.Contains(entity.AgendamentoTipos, tipo) {
		return nil, domain.NewValidationError("tipo", "tipo de agendamento inválido")
	}
	if err := saude.Periodo(in.Inicio, in.Fim); err != nil {
		return nil, err
	}
	h, err := uc.unidadeSaude(ctx, p, mun, in.UnidadeID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.profissionalDaUnidade(ctx, mun, in.ProfissionalID, h.UnidadeID); err != nil {
		return nil, err
	}
	nome, err := uc.paciente(ctx, mun, in.AlunoID, in.PacienteNome)
	if err != nil {
		return nil, err
	}

	ocupados, err := uc.agRepo.Sobrepostos(ctx, in.ProfissionalID, in.Inicio, in.Fim)
	if err != nil {
		return nil, err
	}
	if len(ocupados) > 0 {
		return nil, fmt.Errorf("%w: o profissional já tem agendamento neste horário", domain.ErrConflict)
	}

	now := uc.now()
	a := &entity.AgendamentoSaude{
		ID:             uuid.New().String(),
		MunicipioID:    mun,
		SecretariaID:   h.SecretariaID,
		UnidadeID:      h.UnidadeID,
		ProfissionalID: in.ProfissionalID,
		AlunoID:        in.AlunoID,
		PacienteNome:   nome,
		PacienteCPF:    textutil.OnlyDigits(in.PacienteCPF),
		Inicio:         in.Inicio,
		Fim:            in.Fim,
		Tipo:           tipo,
		Status:         entity.AgendamentoMarcado,
		Motivo:         strings.TrimSpace(in.Motivo),
		CriadoPor:      p.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.agRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, mun, "AGENDAMENTO_CRIADO", "AgendamentoSaude", a.ID, nil, map[string]any{
		"profissional_id": a.ProfissionalID, "inicio": a.Inicio, "fim": a.Fim, "tipo": a.Tipo,
	})
	resp := toAgendamentoResponse(a)
	return &resp, nil
}

// AlterarStatusAgendamento confirma, registra falta ou cancela; cancelamento exige motivo.
func (uc *UseCase) AlterarStatusAgendamento(ctx context.Context, p rbac.Principal, id string, in dto.AgendamentoStatusRequest) (*dto.AgendamentoSaudeResponse, error) {
	a, err := uc.loadAgendamento(ctx, p, id)
	if err != nil {
		return nil, err
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if err := saude.Transicao(a.Status, status); err != nil {
		return nil, err
	}
	motivo := strings.TrimSpace(in.Motivo)
	if status == entity.AgendamentoCancelado && motivo == "" {
		return nil, domain.NewValidationError("motivo", "informe o motivo do cancelamento")
	}
	antes := a.Status
	a.Status = status
	if motivo != "" {
		a.Motivo = motivo
	}
	a.UpdatedAt = uc.now()
	if err := uc.agRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, a.MunicipioID, "AGENDAMENTO_"+status, "AgendamentoSaude", a.ID,
		map[string]any{"status": antes}, map[string]any{"status": a.Status, "motivo": a.Motivo})
	resp := toAgendamentoResponse(a)
	return &resp, nil
}

// GetAgendamento detalhe dentro do escopo.
func (uc *UseCase) GetAgendamento(ctx context.Context, p rbac.Principal, id string) (*dto.AgendamentoSaudeResponse, error) {
	a, err := uc.loadAgendamento(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := toAgendamentoResponse(a)
	return &resp, nil
}

// ListAgendamentos agenda do escopo; profissionalID restringe a um profissional.
func (uc *UseCase) ListAgendamentos(ctx context.Context, p rbac.Principal, municipio, unidadeID, profissionalID string, q dto.ListQuery) (*dto.ListResponse[dto.AgendamentoSaudeResponse], error) {
	f, err := uc.filter(ctx, p, municipio, unidadeID, q)
	if err != nil {
		return nil, err
	}
	f.Tipo = profissionalID
	f.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	list, total, err := uc.agRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AgendamentoSaudeResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toAgendamentoResponse(a))
	}
	return &dto.ListResponse[dto.AgendamentoSaudeResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// ── Atendimentos ─────────────────────────────────────────────────────────────

// RegistrarAtendimento grava o atendimento; com agendamento_id o agendamento passa a ATENDIDO.
func (uc *UseCase) RegistrarAtendimento(ctx context.Context, p rbac.Principal, municipio string, in dto.AtendimentoSaudeRequest) (*dto.AtendimentoSaudeResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	tipo := strings.ToUpper(strings.TrimSpace(in.Tipo))
	if tipo == "" {
		tipo = entity.AtendimentoConsulta
	}
	if !slices.Contains(entity.AtendimentoTipos, tipo) {
		return nil, domain.NewValidationError("tipo", "tipo de atendimento inválido")
	}
	h, err := uc.unidadeSaude(ctx, p, mun, in.UnidadeID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.profissionalDaUnidade(ctx, mun, in.ProfissionalID, h.UnidadeID); err != nil {
		return nil, err
	}

	var ag *entity.AgendamentoSaude
	alunoID, pacienteNome := in.AlunoID, in.PacienteNome
	if in.AgendamentoID != "" {
		ag, err = uc.agRepo.GetByID(ctx, in.AgendamentoID)
		if err != nil {
			return nil, err
		}
		if ag == nil || ag.MunicipioID != mun {
			return nil, domain.NewValidationError("agendamento_id", "agendamento não encontrado")
		}
		if ag.ProfissionalID != in.ProfissionalID || ag.UnidadeID != h.UnidadeID {
			return nil, domain.NewValidationError("agendamento_id", "O agendamento não corresponde ao profissional e à unidade informados.")
		}
		if err := saude.Transicao(ag.Status, entity.AgendamentoAtendido); err != nil {
			return nil, err
		}
		if alunoID == "" {
			alunoID = ag.AlunoID
		}
		if strings.TrimSpace(pacienteNome) == "" {
			pacienteNome = ag.PacienteNome
		}
	}
	nome, err := uc.paciente(ctx, mun, alunoID, pacienteNome)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	data := now
	if in.Data != nil {
		data = *in.Data
	}
	at := &entity.AtendimentoSaude{
		ID:             uuid.New().String(),
		MunicipioID:    mun,
		SecretariaID:   h.SecretariaID,
		UnidadeID:      h.UnidadeID,
		ProfissionalID: in.ProfissionalID,
		AgendamentoID:  in.AgendamentoID,
		AlunoID:        alunoID,
		PacienteNome:   nome,
		PacienteCPF:    textutil.OnlyDigits(in.PacienteCPF),
		Data:           data,
		Tipo:           tipo,
		Observacoes:    strings.TrimSpace(in.Observacoes),
		CID:            strings.ToUpper(strings.TrimSpace(in.CID)),
		CriadoPor:      p.UserID,
		CreatedAt:      now,
	}
	if at.PacienteCPF == "" && ag != nil {
		at.PacienteCPF = ag.PacienteCPF
	}
	if err := uc.atRepo.Create(ctx, at); err != nil {
		return nil, err
	}
	if ag != nil {
		ag.Status = entity.AgendamentoAtendido
		ag.UpdatedAt = now
		if err := uc.agRepo.Update(ctx, ag); err != nil {
			return nil, err
		}
	}
	uc.audit(ctx, p, mun, "ATENDIMENTO_REGISTRADO", "AtendimentoSaude", at.ID, nil, map[string]any{
		"profissional_id": at.ProfissionalID, "agendamento_id": at.AgendamentoID, "tipo": at.Tipo,
	})
	resp := toAtendimentoResponse(at)
	return &resp, nil
}

// GetAtendimento detalhe dentro do escopo.
func (uc *UseCase) GetAtendimento(ctx context.Context, p rbac.Principal, id string) (*dto.AtendimentoSaudeResponse, error) {
	at, err := uc.atRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if at == nil || !visivel(p, at.MunicipioID, at.SecretariaID, at.UnidadeID) {
		return nil, domain.ErrNotFound
	}
	resp := toAtendimentoResponse(at)
	return &resp, nil
}

// ListAtendimentos atendimentos do escopo; ?tipo= filtra o tipo.
func (uc *UseCase) ListAtendimentos(ctx context.Context, p rbac.Principal, municipio, unidadeID string, q dto.ListQuery) (*dto.ListResponse[dto.AtendimentoSaudeResponse], error) {
	f, err := uc.filter(ctx, p, municipio, unidadeID, q)
	if err != nil {
		return nil, err
	}
	f.Tipo = strings.ToUpper(strings.TrimSpace(q.Tipo))
	list, total, err := uc.atRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AtendimentoSaudeResponse, 0, len(list))
	for _, at := range list {
		items = append(items, toAtendimentoResponse(at))
	}
	return &dto.ListResponse[dto.AtendimentoSaudeResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// ── Apoio ────────────────────────────────────────────────────────────────────

// unidadeSaude valida a unidade no escopo e exige tipo SAUDE.
func (uc *UseCase) unidadeSaude(ctx context.Context, p rbac.Principal, mun, unidadeID string) (*usecase.Hierarquia, error) {
	if strings.TrimSpace(unidadeID) == "" && rbac.ScopeFor(p).UnidadeID == "" {
		return nil, domain.NewValidationError("unidade_id", "informe a unidade")
	}
	h := usecase.Hierarquia{MunicipioID: mun, UnidadeID: unidadeID}
	if err := uc.hierarquia.Resolve(ctx, saudeScope(usecase.ScopeMunicipio(p, mun)), &h, usecase.CamposHierarquia); err != nil {
		return nil, err
	}
	un, err := uc.uniRepo.GetByID(ctx, h.UnidadeID)
	if err != nil {
		return nil, err
	}
	if un == nil || un.Tipo != entity.UnidadeSaude {
		return nil, domain.NewValidationError("unidade_id", "A unidade selecionada não é uma unidade de saúde.")
	}
	return &h, nil
}

func (uc *UseCase) profissionalDaUnidade(ctx context.Context, mun, id, unidadeID string) (*entity.ProfissionalSaude, error) {
	pr, err := uc.profRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pr == nil || pr.MunicipioID != mun {
		return nil, domain.NewValidationError("profissional_id", "profissional não encontrado")
	}
	if pr.UnidadeID != unidadeID {
		return nil, domain.NewValidationError("profissional_id", msgProfissionalOutra)
	}
	if !pr.Ativo {
		return nil, domain.NewValidationError("profissional_id", "profissional inativo")
	}
	return pr, nil
}

// paciente com aluno vinculado o nome vem do cadastro quando não informado.
func (uc *UseCase) paciente(ctx context.Context, mun, alunoID, nome string) (string, error) {
	nome = strings.TrimSpace(nome)
	if alunoID != "" {
		a, err := uc.alunoRepo.GetByID(ctx, alunoID)
		if err != nil {
			return "", err
		}
		if a == nil || a.MunicipioID != mun {
			return "", domain.NewValidationError("aluno_id", "aluno não encontrado")
		}
		if nome == "" {
			nome = a.Nome
		}
	}
	if nome == "" {
		return "", domain.NewValidationError("paciente_nome", "informe o paciente")
	}
	return nome, nil
}

func (uc *UseCase) loadProfissional(ctx context.Context, p rbac.Principal, id string) (*entity.ProfissionalSaude, error) {
	pr, err := uc.profRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pr == nil || !visivel(p, pr.MunicipioID, pr.SecretariaID, pr.UnidadeID) {
		return nil, domain.ErrNotFound
	}
	return pr, nil
}

func (uc *UseCase) loadAgendamento(ctx context.Context, p rbac.Principal, id string) (*entity.AgendamentoSaude, error) {
	a, err := uc.agRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || !visivel(p, a.MunicipioID, a.SecretariaID, a.UnidadeID) {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (uc *UseCase) filter(ctx context.Context, p rbac.Principal, municipio, unidadeID string, q dto.ListQuery) (repository.ListFilter, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return repository.ListFilter{}, err
	}
	return repository.ListFilter{
		Scope:    saudeScope(usecase.ScopeMunicipio(p, mun)),
		ParentID: unidadeID,
		Q:        strings.TrimSpace(q.Q),
		Page:     q.Repo(),
	}, nil
}

// saudeScope registros da saúde vão até a unidade; o setor do usuário não restringe.
func saudeScope(sc rbac.Scope) rbac.Scope {
	sc.SetorID = ""
	return sc
}

func visivel(p rbac.Principal, municipioID, secretariaID, unidadeID string) bool {
	return saudeScope(rbac.ScopeFor(p)).Contains(municipioID, secretariaID, unidadeID, "")
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

func profissionalSnapshot(pr *entity.ProfissionalSaude) map[string]any {
	return map[string]any{
		"unidade_id": pr.UnidadeID, "nome": pr.Nome, "cargo": pr.Cargo,
		"carga_horaria_semanal": pr.CargaHorariaSemanal, "ativo": pr.Ativo,
	}
}

func toProfissionalResponse(pr *entity.ProfissionalSaude) dto.ProfissionalSaudeResponse {
	return dto.ProfissionalSaudeResponse{
		ID:                  pr.ID,
		UnidadeID:           pr.UnidadeID,
		SecretariaID:        pr.SecretariaID,
		Nome:                pr.Nome,
		CPF:                 pr.CPF,
		Cargo:               pr.Cargo,
		ConselhoNumero:      pr.ConselhoNumero,
		CBO:                 pr.CBO,
		CargaHorariaSemanal: pr.CargaHorariaSemanal,
		Ativo:               pr.Ativo,
		CreatedAt:           pr.CreatedAt,
	}
}

func toAgendamentoResponse(a *entity.AgendamentoSaude) dto.AgendamentoSaudeResponse {
	return dto.AgendamentoSaudeResponse{
		ID:             a.ID,
		UnidadeID:      a.UnidadeID,
		ProfissionalID: a.ProfissionalID,
		AlunoID:        a.AlunoID,
		PacienteNome:   a.PacienteNome,
		PacienteCPF:    a.PacienteCPF,
		Inicio:         a.Inicio,
		Fim:            a.Fim,
		Tipo:           a.Tipo,
		Status:         a.Status,
		Motivo:         a.Motivo,
		CreatedAt:      a.CreatedAt,
	}
}

func toAtendimentoResponse(at *entity.AtendimentoSaude) dto.AtendimentoSaudeResponse {
	return dto.AtendimentoSaudeResponse{
		ID:             at.ID,
		UnidadeID:      at.UnidadeID,
		ProfissionalID: at.ProfissionalID,
		AgendamentoID:  at.AgendamentoID,
		AlunoID:        at.AlunoID,
		PacienteNome:   at.PacienteNome,
		Data:           at.Data,
		Tipo:           at.Tipo,
		Observacoes:    at.Observacoes,
		CID:            at.CID,
		CreatedAt:      at.CreatedAt,
	}
}
