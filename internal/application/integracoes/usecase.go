// Package integracoes cadastro de conectores externos e livro de execuções.
package integracoes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

const (
	auditModulo = "INTEGRACOES"
	// PermVerCredenciais permissão que exibe as credenciais sem máscara.
	PermVerCredenciais = "integracoes.admin"
)

var credenciaisMascaradas = json.RawMessage(`"***"`)

// MunicipioResolver município de trabalho do usuário.
type MunicipioResolver interface {
	ResolveMunicipio(ctx context.Context, p rbac.Principal, requested string) (string, error)
}

// UseCase conectores, execuções, resumo do hub e exportação XML.
type UseCase struct {
	conRepo    repository.ConectorRepository
	execRepo   repository.ExecucaoRepository
	munRepo    repository.MunicipioRepository
	municipios MunicipioResolver
	xml        ports.ExecucoesXMLWriter
	auditor    ports.Auditor
	now        func() time.Time
}

// NewUseCase constrói o caso de uso de integrações.
func NewUseCase(
	conRepo repository.ConectorRepository,
	execRepo repository.ExecucaoRepository,
	munRepo repository.MunicipioRepository,
	municipios MunicipioResolver,
	xml ports.ExecucoesXMLWriter,
	auditor ports.Auditor,
) *UseCase {
	return &UseCase{
		conRepo:    conRepo,
		execRepo:   execRepo,
		munRepo:    munRepo,
		municipios: municipios,
		xml:        xml,
		auditor:    auditor,
		now:        time.Now,
	}
}

// CreateConector cadastra o conector; o nome é único no município.
func (uc *UseCase) CreateConector(ctx context.Context, p rbac.Principal, municipio string, in dto.ConectorRequest) (*dto.ConectorResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.ConectorIntegracao{
		ID:          uuid.New().String(),
		MunicipioID: mun,
		Ativo:       true,
		CriadoPor:   p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := applyConector(c, in); err != nil {
		return nil, err
	}
	if err := uc.conRepo.Create(ctx, c); err != nil {
		return nil, conectorErr(err)
	}

	uc.audit(ctx, p, mun, "CONECTOR_CRIADO", "ConectorIntegracao", c.ID, nil, conectorSnapshot(c))
	uc.auditor.Publicar(ctx, entity.TransparenciaEvento{
		MunicipioID: mun,
		Modulo:      auditModulo,
		TipoEvento:  "CONECTOR_CRIADO",
		Titulo:      fmt.Sprintf("Conector %s cadastrado", c.Nome),
		Descricao:   "Domínio: " + c.Dominio,
		Referencia:  c.Nome,
		Dados:       ports.Snapshot(map[string]any{"tipo": c.Tipo, "ativo": c.Ativo}),
	})
	return toConectorResponse(p, c), nil
}

// UpdateConector altera o conector. Credenciais ausentes ou mascaradas ("***") preservam as atuais.
func (uc *UseCase) UpdateConector(ctx context.Context, p rbac.Principal, id string, in dto.ConectorRequest) (*dto.ConectorResponse, error) {
	c, err := uc.loadConector(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := conectorSnapshot(c)
	if err := applyConector(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = uc.now()
	if err := uc.conRepo.Update(ctx, c); err != nil {
		return nil, conectorErr(err)
	}
	uc.audit(ctx, p, c.MunicipioID, "CONECTOR_ATUALIZADO", "ConectorIntegracao", c.ID, antes, conectorSnapshot(c))
	return toConectorResponse(p, c), nil
}

// ToggleAtivo inverte o status do conector.
func (uc *UseCase) ToggleAtivo(ctx context.Context, p rbac.Principal, id string) (*dto.ConectorResponse, error) {
	c, err := uc.loadConector(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := conectorSnapshot(c)
	c.Ativo = !c.Ativo
	c.UpdatedAt = uc.now()
	if err := uc.conRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, c.MunicipioID, "CONECTOR_ATUALIZADO", "ConectorIntegracao", c.ID, antes, conectorSnapshot(c))
	return toConectorResponse(p, c), nil
}

// GetConector detalhe no município do usuário.
func (uc *UseCase) GetConector(ctx context.Context, p rbac.Principal, id string) (*dto.ConectorResponse, error) {
	c, err := uc.loadConector(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toConectorResponse(p, c), nil
}

// ListConectores filtros tipo (domínio), ativo e q sobre nome e endpoint.
func (uc *UseCase) ListConectores(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (*dto.ListResponse[dto.ConectorResponse], error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.conRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ConectorResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toConectorResponse(p, c))
	}
	return &dto.ListResponse[dto.ConectorResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// RegistrarExecucao grava uma execução do conector; conector inativo não recebe execuções.
func (uc *UseCase) RegistrarExecucao(ctx context.Context, p rbac.Principal, conectorID string, in dto.ExecucaoRequest) (*dto.ExecucaoResponse, error) {
	c, err := uc.loadConector(ctx, p, conectorID)
	if err != nil {
		return nil, err
	}
	if !c.Ativo {
		return nil, fmt.Errorf("%w: conector inativo não aceita execuções", domain.ErrConflict)
	}
	if in.QuantidadeRegistros < 0 {
		return nil, domain.NewValidationError("quantidade_registros", "a quantidade não pode ser negativa")
	}
	e := &entity.IntegracaoExecucao{
		ID:                  uuid.New().String(),
		MunicipioID:         c.MunicipioID,
		ConectorID:          c.ID,
		ConectorNome:        c.Nome,
		Direcao:             in.Direcao,
		Status:              in.Status,
		Referencia:          strings.TrimSpace(in.Referencia),
		QuantidadeRegistros: in.QuantidadeRegistros,
		Detalhes:            in.Detalhes,
		ExecutadoPor:        p.UserID,
		ExecutadoEm:         uc.now(),
	}
	if err := uc.execRepo.Create(ctx, e); err != nil {
		return nil, err
	}

	dados := map[string]any{
		"conector":             c.Nome,
		"status":               e.Status,
		"direcao":              e.Direcao,
		"quantidade_registros": e.QuantidadeRegistros,
	}
	uc.audit(ctx, p, c.MunicipioID, "EXECUCAO_REGISTRADA", "IntegracaoExecucao", e.ID, nil, dados)
	ref := e.Referencia
	if ref == "" {
		ref = e.ID
	}
	uc.auditor.Publicar(ctx, entity.TransparenciaEvento{
		MunicipioID: c.MunicipioID,
		Modulo:      auditModulo,
		TipoEvento:  "EXECUCAO_REGISTRADA",
		Titulo:      "Execução de integração " + c.Nome,
		Descricao:   "Status: " + e.Status,
		Referencia:  ref,
		Dados:       ports.Snapshot(dados),
	})
	resp := toExecucaoResponse(e)
	return &resp, nil
}

// ListExecucoes execuções do município, opcionalmente de um conector; status e tipo (direção) filtram.
func (uc *UseCase) ListExecucoes(ctx context.Context, p rbac.Principal, municipio, conectorID string, q dto.ListQuery) (*dto.ListResponse[dto.ExecucaoResponse], error) {
	f, err := uc.execFilter(ctx, p, municipio, conectorID, q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.execRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExecucaoResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toExecucaoResponse(e))
	}
	return &dto.ListResponse[dto.ExecucaoResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// Resumo conectores, ativos, execuções e falhas nos últimos 30 dias.
func (uc *UseCase) Resumo(ctx context.Context, p rbac.Principal, municipio string) (*dto.IntegracaoResumoResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	r, err := uc.execRepo.Resumo(ctx, mun, uc.now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	return &dto.IntegracaoResumoResponse{
		Conectores:       r.Conectores,
		ConectoresAtivos: r.ConectoresAtivos,
		Execucoes30d:     r.Execucoes30d,
		Falhas30d:        r.Falhas30d,
	}, nil
}

// TabelaExecucoes livro de execuções para CSV/XLSX/PDF.
func (uc *UseCase) TabelaExecucoes(ctx context.Context, p rbac.Principal, municipio, conectorID string, q dto.ListQuery) (dto.Tabela, error) {
	t := dto.Tabela{
		Titulo:    "Execuções de integração",
		Arquivo:   "integracoes_execucoes",
		Usuario:   p.UserID,
		GeradoEm:  uc.now(),
		Cabecalho: []string{"Data", "Conector", "Direção", "Status", "Referência", "Registros"},
	}
	rows, err := uc.todasExecucoes(ctx, p, municipio, conectorID, q)
	if err != nil {
		return t, err
	}
	for _, e := range rows {
		t.Linhas = append(t.Linhas, []string{
			e.ExecutadoEm.Format("02/01/2006 15:04"), e.ConectorNome, e.Direcao, e.Status, e.Referencia,
			strconv.Itoa(e.QuantidadeRegistros),
		})
	}
	return t, nil
}

// ExportXML livro de execuções em XML; Hash leva o SHA-256 da forma canônica.
func (uc *UseCase) ExportXML(ctx context.Context, p rbac.Principal, municipio, conectorID string, q dto.ListQuery) (*dto.Arquivo, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	rows, err := uc.todasExecucoes(ctx, p, mun, conectorID, q)
	if err != nil {
		return nil, err
	}
	nome := mun
	m, err := uc.munRepo.GetByID(ctx, mun)
	if err != nil {
		return nil, err
	}
	if m != nil {
		nome = m.Nome
	}
	body, sum, err := uc.xml.ExecucoesXML(nome, uc.now(), rows)
	if err != nil {
		return nil, fmt.Errorf("gerar xml de execuções: %w", err)
	}
	return &dto.Arquivo{
		Nome:        "integracoes_execucoes.xml",
		ContentType: "application/xml",
		Conteudo:    body,
		Hash:        sum,
	}, nil
}

func (uc *UseCase) todasExecucoes(ctx context.Context, p rbac.Principal, municipio, conectorID string, q dto.ListQuery) ([]*entity.IntegracaoExecucao, error) {
	f, err := uc.execFilter(ctx, p, municipio, conectorID, q)
	if err != nil {
		return nil, err
	}
	f.Page = repository.Page{Limit: 500}
	var out []*entity.IntegracaoExecucao
	for {
		list, total, err := uc.execRepo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
		f.Offset += f.Limit
		if len(list) == 0 || f.Offset >= total {
			return out, nil
		}
	}
}

func (uc *UseCase) loadConector(ctx context.Context, p rbac.Principal, id string) (*entity.ConectorIntegracao, error) {
	c, err := uc.conRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !(p.IsAdmin() || (p.MunicipioID != "" && p.MunicipioID == c.MunicipioID)) {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *UseCase) filter(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (repository.ListFilter, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return repository.ListFilter{}, err
	}
	return repository.ListFilter{
		Scope:  rbac.Scope{MunicipioID: mun},
		Q:      strings.TrimSpace(q.Q),
		Status: strings.ToUpper(strings.TrimSpace(q.Status)),
		Tipo:   strings.ToUpper(strings.TrimSpace(q.Tipo)),
		Ativo:  q.Ativo,
		Page:   q.Repo(),
	}, nil
}

func (uc *UseCase) execFilter(ctx context.Context, p rbac.Principal, municipio, conectorID string, q dto.ListQuery) (repository.ListFilter, error) {
	if conectorID != "" {
		c, err := uc.loadConector(ctx, p, conectorID)
		if err != nil {
			return repository.ListFilter{}, err
		}
		municipio = c.MunicipioID
	}
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return f, err
	}
	f.ParentID = conectorID
	f.Ativo = nil
	return f, nil
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

func applyConector(c *entity.ConectorIntegracao, in dto.ConectorRequest) error {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return domain.NewValidationError("nome", "informe o nome do conector")
	}
	cred, err := jsonCampo("credenciais", in.Credenciais)
	if err != nil {
		return err
	}
	conf, err := jsonCampo("configuracao", in.Configuracao)
	if err != nil {
		return err
	}
	c.Nome = nome
	c.Dominio = in.Dominio
	c.Tipo = in.Tipo
	c.Endpoint = strings.TrimSpace(in.Endpoint)
	if cred != nil && !bytes.Equal(cred, credenciaisMascaradas) {
		c.Credenciais = cred
	}
	if c.Credenciais == nil {
		c.Credenciais = json.RawMessage(`{}`)
	}
	if conf != nil {
		c.Configuracao = conf
	}
	if c.Configuracao == nil {
		c.Configuracao = json.RawMessage(`{}`)
	}
	if in.Ativo != nil {
		c.Ativo = *in.Ativo
	}
	return nil
}

// jsonCampo nil quando ausente; rejeita JSON inválido.
func jsonCampo(campo string, raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, domain.NewValidationError(campo, "JSON inválido")
	}
	return raw, nil
}

func conectorErr(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.NewValidationError("nome", "já existe conector com este nome no município")
	}
	return err
}

func conectorSnapshot(c *entity.ConectorIntegracao) map[string]any {
	return map[string]any{
		"nome":     c.Nome,
		"dominio":  c.Dominio,
		"tipo":     c.Tipo,
		"endpoint": c.Endpoint,
		"ativo":    c.Ativo,
	}
}

func toConectorResponse(p rbac.Principal, c *entity.ConectorIntegracao) *dto.ConectorResponse {
	cred := c.Credenciais
	if !p.Can(PermVerCredenciais) {
		cred = credenciaisMascaradas
	}
	return &dto.ConectorResponse{
		ID:           c.ID,
		MunicipioID:  c.MunicipioID,
		Nome:         c.Nome,
		Dominio:      c.Dominio,
		Tipo:         c.Tipo,
		Endpoint:     c.Endpoint,
		Credenciais:  cred,
		Configuracao: c.Configuracao,
		Ativo:        c.Ativo,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toExecucaoResponse(e *entity.IntegracaoExecucao) dto.ExecucaoResponse {
	return dto.ExecucaoResponse{
		ID:                  e.ID,
		ConectorID:          e.ConectorID,
		ConectorNome:        e.ConectorNome,
		Direcao:             e.Direcao,
		Status:              e.Status,
		Referencia:          e.Referencia,
		QuantidadeRegistros: e.QuantidadeRegistros,
		Detalhes:            e.Detalhes,
		ExecutadoPor:        e.ExecutadoPor,
		ExecutadoEm:         e.ExecutadoEm,
	}
}
