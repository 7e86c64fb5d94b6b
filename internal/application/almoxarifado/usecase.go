package almoxarifado

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/almoxarifado"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/pkg/textutil"
)

const (
	auditModulo = "ALMOXARIFADO"

	// números já ocupados por requisições digitadas à mão são pulados até este limite
	maxTentativasNumero = 1000
)

// UseCase cadastro de itens, razão de movimentos e requisições de material.
// Toda alteração de saldo passa por uma transação com SELECT ... FOR UPDATE no item.
type UseCase struct {
	txRunner   TxRunner
	itemRepo   repository.AlmoxItemRepository
	movRepo    repository.AlmoxMovimentoRepository
	reqRepo    repository.AlmoxRequisicaoRepository
	municipios MunicipioResolver
	hierarquia *usecase.HierarquiaResolver
	auditor    ports.Auditor
	now        func() time.Time
}

// NewUseCase constrói o caso de uso do almoxarifado.
func NewUseCase(
	txRunner TxRunner,
	itemRepo repository.AlmoxItemRepository,
	movRepo repository.AlmoxMovimentoRepository,
	reqRepo repository.AlmoxRequisicaoRepository,
	municipios MunicipioResolver,
	hierarquia *usecase.HierarquiaResolver,
	auditor ports.Auditor,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		itemRepo:   itemRepo,
		movRepo:    movRepo,
		reqRepo:    reqRepo,
		municipios: municipios,
		hierarquia: hierarquia,
		auditor:    auditor,
		now:        time.Now,
	}
}

// ── Itens ────────────────────────────────────────────────────────────────────

// CreateItem cadastra um item com saldo zero. O código é normalizado em maiúsculas sem acentos.
func (uc *UseCase) CreateItem(ctx context.Context, p rbac.Principal, municipio string, in dto.AlmoxItemRequest) (*dto.AlmoxItemResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	h := usecase.Hierarquia{MunicipioID: mun, SecretariaID: in.SecretariaID, UnidadeID: in.UnidadeID, SetorID: in.SetorID}
	if err := uc.hierarquia.Resolve(ctx, usecase.ScopeMunicipio(p, mun), &h, usecase.CamposHierarquia); err != nil {
		return nil, err
	}
	codigo := normalizaCodigo(in.Codigo)
	if codigo == "" {
		return nil, domain.NewValidationError("codigo", "informe o código do item")
	}

	now := uc.now()
	item := &entity.AlmoxItem{
		ID:            uuid.New().String(),
		MunicipioID:   mun,
		SecretariaID:  h.SecretariaID,
		UnidadeID:     h.UnidadeID,
		SetorID:       h.SetorID,
		Codigo:        codigo,
		Nome:          strings.TrimSpace(in.Nome),
		UnidadeMedida: in.UnidadeMedida,
		EstoqueMinimo: in.EstoqueMinimo,
		SaldoAtual:    decimal.Zero,
		ValorMedio:    decimal.Zero,
		Status:        statusOuAtivo(in.Status),
		Observacao:    in.Observacao,
		CriadoPor:     p.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if item.EstoqueMinimo.IsNegative() {
		return nil, domain.NewValidationError("estoque_minimo", "o estoque mínimo não pode ser negativo")
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("codigo", "já existe item com este código no município")
		}
		return nil, err
	}
	uc.audit(ctx, p, item.MunicipioID, "ITEM_CRIADO", "AlmoxItem", item.ID, nil, itemSnapshot(item))
	return toItemResponse(item), nil
}

// UpdateItem altera cadastro e posição do item; saldo e valor médio só mudam por movimento.
func (uc *UseCase) UpdateItem(ctx context.Context, p rbac.Principal, id string, in dto.AlmoxItemRequest) (*dto.AlmoxItemResponse, error) {
	item, err := uc.loadItem(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := itemSnapshot(item)

	h := usecase.Hierarquia{MunicipioID: item.MunicipioID, SecretariaID: in.SecretariaID, UnidadeID: in.UnidadeID, SetorID: in.SetorID}
	if err := uc.hierarquia.Resolve(ctx, usecase.ScopeMunicipio(p, item.MunicipioID), &h, usecase.CamposHierarquia); err != nil {
		return nil, err
	}
	codigo := normalizaCodigo(in.Codigo)
	if codigo == "" {
		return nil, domain.NewValidationError("codigo", "informe o código do item")
	}
	if in.EstoqueMinimo.IsNegative() {
		return nil, domain.NewValidationError("estoque_minimo", "o estoque mínimo não pode ser negativo")
	}
	item.SecretariaID = h.SecretariaID
	item.UnidadeID = h.UnidadeID
	item.SetorID = h.SetorID
	item.Codigo = codigo
	item.Nome = strings.TrimSpace(in.Nome)
	item.UnidadeMedida = in.UnidadeMedida
	item.EstoqueMinimo = in.EstoqueMinimo
	item.Status = statusOuAtivo(in.Status)
	item.Observacao = in.Observacao
	item.UpdatedAt = uc.now()

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("codigo", "já existe item com este código no município")
		}
		return nil, err
	}
	uc.audit(ctx, p, item.MunicipioID, "ITEM_ATUALIZADO", "AlmoxItem", item.ID, antes, itemSnapshot(item))
	return toItemResponse(item), nil
}

// GetItem item no escopo do usuário.
func (uc *UseCase) GetItem(ctx context.Context, p rbac.Principal, id string) (*dto.AlmoxItemResponse, error) {
	item, err := uc.loadItem(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// ListItens itens do município; tipo=abaixo_minimo restringe aos itens com saldo abaixo do mínimo.
func (uc *UseCase) ListItens(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (*dto.ListResponse[dto.AlmoxItemResponse], error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.itemRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlmoxItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ListResponse[dto.AlmoxItemResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// TabelaItens itens para exportação.
func (uc *UseCase) TabelaItens(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (dto.Tabela, error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return dto.Tabela{}, err
	}
	t := uc.tabela(p, "Itens do almoxarifado", "almoxarifado_itens",
		"Código", "Nome", "Unidade", "Estoque mínimo", "Saldo atual", "Valor médio", "Status")
	err = paginar(f, func(f repository.ListFilter) (int, int, error) {
		list, total, err := uc.itemRepo.List(ctx, f)
		for _, it := range list {
			t.Linhas = append(t.Linhas, []string{
				it.Codigo, it.Nome, it.UnidadeMedida, it.EstoqueMinimo.String(),
				it.SaldoAtual.String(), it.ValorMedio.StringFixed(2), it.Status,
			})
		}
		return len(list), total, err
	})
	return t, err
}

// ── Movimentos ───────────────────────────────────────────────────────────────

// RegistrarMovimento aplica ENTRADA, SAIDA ou AJUSTE no item e grava o movimento no razão.
func (uc *UseCase) RegistrarMovimento(ctx context.Context, p rbac.Principal, in dto.AlmoxMovimentoRequest) (*dto.MovimentoResult, error) {
	// ── 1. Validação e escopo (fora da transação) ──
	if err := almoxarifado.ValidarMovimento(in.Tipo, in.Quantidade, in.ValorUnitario); err != nil {
		return nil, err
	}
	if _, err := uc.loadItem(ctx, p, in.ItemID); err != nil {
		return nil, err
	}

	now := uc.now()
	data := now
	if in.DataMovimento != nil && !in.DataMovimento.IsZero() {
		data = *in.DataMovimento
	}
	mov := &entity.AlmoxMovimento{
		ID:            uuid.New().String(),
		ItemID:        in.ItemID,
		Tipo:          in.Tipo,
		DataMovimento: data,
		Quantidade:    in.Quantidade,
		ValorUnitario: in.ValorUnitario,
		Documento:     strings.TrimSpace(in.Documento),
		Observacao:    in.Observacao,
		CriadoPor:     p.UserID,
		CreatedAt:     now,
	}

	// ── 2. Transação: lock do item, saldo, razão ──
	var item *entity.AlmoxItem
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.AlmoxItemRepository,
		movRepo repository.AlmoxMovimentoRepository,
		_ repository.AlmoxRequisicaoRepository,
	) error {
		var err error
		item, err = itemRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		mov.MunicipioID = item.MunicipioID
		if err := almoxarifado.AplicarMovimento(item, mov); err != nil {
			return err
		}
		if err := itemRepo.UpdateSaldo(ctx, item.ID, item.SaldoAtual, item.ValorMedio); err != nil {
			return err
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	// ── 3. Auditoria ──
	uc.audit(ctx, p, item.MunicipioID, "MOVIMENTO_REGISTRADO", "AlmoxMovimento", mov.ID, nil, map[string]any{
		"item":       item.Codigo,
		"tipo":       mov.Tipo,
		"quantidade": mov.Quantidade.String(),
		"saldo":      item.SaldoAtual.String(),
	})
	mov.ItemCodigo, mov.ItemNome = item.Codigo, item.Nome
	return &dto.MovimentoResult{Movimento: toMovimentoResponse(mov), Item: *toItemResponse(item)}, nil
}

// ListMovimentos razão do município; itemID opcional.
func (uc *UseCase) ListMovimentos(ctx context.Context, p rbac.Principal, municipio, itemID string, q dto.ListQuery) (*dto.ListResponse[dto.AlmoxMovimentoResponse], error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return nil, err
	}
	f.ParentID = itemID
	list, total, err := uc.movRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlmoxMovimentoResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovimentoResponse(m))
	}
	return &dto.ListResponse[dto.AlmoxMovimentoResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// TabelaMovimentos movimentos para exportação.
func (uc *UseCase) TabelaMovimentos(ctx context.Context, p rbac.Principal, municipio, itemID string, q dto.ListQuery) (dto.Tabela, error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return dto.Tabela{}, err
	}
	f.ParentID = itemID
	t := uc.tabela(p, "Movimentos do almoxarifado", "almoxarifado_movimentos",
		"Data", "Item", "Tipo", "Quantidade", "Valor unitário", "Documento", "Observação")
	err = paginar(f, func(f repository.ListFilter) (int, int, error) {
		list, total, err := uc.movRepo.List(ctx, f)
		for _, m := range list {
			t.Linhas = append(t.Linhas, []string{
				m.DataMovimento.Format("02/01/2006"), m.ItemCodigo + " - " + m.ItemNome, m.Tipo,
				m.Quantidade.String(), m.ValorUnitario.StringFixed(2), m.Documento, m.Observacao,
			})
		}
		return len(list), total, err
	})
	return t, err
}

// ── Requisições ──────────────────────────────────────────────────────────────

// CriarRequisicao abre uma requisição PENDENTE; sem número informado gera REQ-<ano>-<seq>.
func (uc *UseCase) CriarRequisicao(ctx context.Context, p rbac.Principal, municipio string, in dto.AlmoxRequisicaoRequest) (*dto.AlmoxRequisicaoResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	if !in.Quantidade.IsPositive() {
		return nil, domain.NewValidationError("quantidade", "a quantidade deve ser maior que zero")
	}
	item, err := uc.itemRepo.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.MunicipioID != mun {
		return nil, domain.NewValidationError("item_id", "item não encontrado no município")
	}
	if item.Status != entity.ItemAtivo {
		return nil, domain.NewValidationError("item_id", "item inativo")
	}
	h := usecase.Hierarquia{
		MunicipioID:  mun,
		SecretariaID: in.SecretariaSolicitanteID,
		UnidadeID:    in.UnidadeSolicitanteID,
		SetorID:      in.SetorSolicitanteID,
	}
	campos := usecase.HierarquiaCampos{
		Secretaria: "secretaria_solicitante_id",
		Unidade:    "unidade_solicitante_id",
		Setor:      "setor_solicitante_id",
	}
	if err := uc.hierarquia.Resolve(ctx, usecase.ScopeMunicipio(p, mun), &h, campos); err != nil {
		return nil, err
	}

	now := uc.now()
	req := &entity.AlmoxRequisicao{
		ID:                      uuid.New().String(),
		MunicipioID:             mun,
		Numero:                  strings.ToUpper(strings.TrimSpace(in.Numero)),
		ItemID:                  item.ID,
		SecretariaSolicitanteID: h.SecretariaID,
		UnidadeSolicitanteID:    h.UnidadeID,
		SetorSolicitanteID:      h.SetorID,
		Quantidade:              in.Quantidade,
		Justificativa:           in.Justificativa,
		Status:                  entity.RequisicaoPendente,
		CriadoPor:               p.UserID,
		CreatedAt:               now,
		UpdatedAt:               now,
		ItemCodigo:              item.Codigo,
		ItemNome:                item.Nome,
	}
	err = uc.txRunner.Run(ctx, func(
		_ repository.AlmoxItemRepository,
		_ repository.AlmoxMovimentoRepository,
		reqRepo repository.AlmoxRequisicaoRepository,
	) error {
		if req.Numero == "" {
			numero, err := proximoNumeroLivre(ctx, reqRepo, mun, now.Year())
			if err != nil {
				return err
			}
			req.Numero = numero
		}
		return reqRepo.Create(ctx, req)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("numero", "já existe requisição com este número")
		}
		return nil, err
	}

	dados := map[string]any{"item": item.Codigo, "quantidade": req.Quantidade.String()}
	uc.audit(ctx, p, mun, "REQUISICAO_CRIADA", "AlmoxRequisicao", req.ID, nil, dados)
	uc.auditor.Publicar(ctx, entity.TransparenciaEvento{
		MunicipioID: mun,
		Modulo:      auditModulo,
		TipoEvento:  "REQUISICAO_CRIADA",
		Titulo:      fmt.Sprintf("Requisição %s registrada", req.Numero),
		Referencia:  req.Numero,
		Dados:       ports.Snapshot(dados),
	})
	return toRequisicaoResponse(req), nil
}

// proximoNumeroLivre avança o contador enquanto o número gerado já tiver sido
// digitado manualmente em outra requisição.
func proximoNumeroLivre(ctx context.Context, reqRepo repository.AlmoxRequisicaoRepository, mun string, ano int) (string, error) {
	for range maxTentativasNumero {
		seq, err := reqRepo.NextNumero(ctx, mun, ano)
		if err != nil {
			return "", err
		}
		numero := almoxarifado.NumeroRequisicao(ano, seq)
		usado, err := reqRepo.NumeroExists(ctx, mun, numero)
		if err != nil {
			return "", err
		}
		if !usado {
			return numero, nil
		}
	}
	return "", fmt.Errorf("sem número de requisição livre em %d: %w", ano, domain.ErrConflict)
}

// GetRequisicao requisição no escopo do usuário.
func (uc *UseCase) GetRequisicao(ctx context.Context, p rbac.Principal, id string) (*dto.AlmoxRequisicaoResponse, error) {
	req, err := uc.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil || !requisicaoVisivel(p, req) {
		return nil, domain.ErrNotFound
	}
	return toRequisicaoResponse(req), nil
}

// ListRequisicoes requisições do município (filtro status).
func (uc *UseCase) ListRequisicoes(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (*dto.ListResponse[dto.AlmoxRequisicaoResponse], error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.reqRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlmoxRequisicaoResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRequisicaoResponse(r))
	}
	return &dto.ListResponse[dto.AlmoxRequisicaoResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// TabelaRequisicoes requisições para exportação.
func (uc *UseCase) TabelaRequisicoes(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (dto.Tabela, error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return dto.Tabela{}, err
	}
	t := uc.tabela(p, "Requisições do almoxarifado", "almoxarifado_requisicoes",
		"Número", "Item", "Quantidade", "Status", "Justificativa", "Criada em")
	err = paginar(f, func(f repository.ListFilter) (int, int, error) {
		list, total, err := uc.reqRepo.List(ctx, f)
		for _, r := range list {
			t.Linhas = append(t.Linhas, []string{
				r.Numero, r.ItemCodigo + " - " + r.ItemNome, r.Quantidade.String(), r.Status,
				r.Justificativa, r.CreatedAt.Format("02/01/2006 15:04"),
			})
		}
		return len(list), total, err
	})
	return t, err
}

// AprovarRequisicao PENDENTE → APROVADA.
func (uc *UseCase) AprovarRequisicao(ctx context.Context, p rbac.Principal, id string) (*dto.AlmoxRequisicaoResponse, error) {
	return uc.transicionar(ctx, p, id, almoxarifado.AcaoAprovar)
}

// AtenderRequisicao baixa o estoque (SAIDA com documento = número) e marca ATENDIDA na mesma transação.
func (uc *UseCase) AtenderRequisicao(ctx context.Context, p rbac.Principal, id string) (*dto.AlmoxRequisicaoResponse, error) {
	return uc.transicionar(ctx, p, id, almoxarifado.AcaoAtender)
}

// CancelarRequisicao PENDENTE|APROVADA → CANCELADA.
func (uc *UseCase) CancelarRequisicao(ctx context.Context, p rbac.Principal, id string) (*dto.AlmoxRequisicaoResponse, error) {
	return uc.transicionar(ctx, p, id, almoxarifado.AcaoCancelar)
}

var eventosAcao = map[string]string{
	almoxarifado.AcaoAprovar:  "REQUISICAO_APROVADA",
	almoxarifado.AcaoAtender:  "REQUISICAO_ATENDIDA",
	almoxarifado.AcaoCancelar: "REQUISICAO_CANCELADA",
}

func (uc *UseCase) transicionar(ctx context.Context, p rbac.Principal, id, acao string) (*dto.AlmoxRequisicaoResponse, error) {
	var req *entity.AlmoxRequisicao
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.AlmoxItemRepository,
		movRepo repository.AlmoxMovimentoRepository,
		reqRepo repository.AlmoxRequisicaoRepository,
	) error {
		var err error
		req, err = reqRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil || !requisicaoVisivel(p, req) {
			return domain.ErrNotFound
		}
		status, err := almoxarifado.Transicao(req.Status, acao)
		if err != nil {
			return err
		}

		switch acao {
		case almoxarifado.AcaoAprovar:
			req.AprovadoPor = p.UserID
			req.AprovadoEm = &now
		case almoxarifado.AcaoAtender:
			item, err := itemRepo.GetForUpdate(ctx, req.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			mov := almoxarifado.MovimentoAtendimento(req, item, p.UserID, now)
			mov.ID = uuid.New().String()
			mov.CreatedAt = now
			if err := almoxarifado.AplicarMovimento(item, mov); err != nil {
				return err
			}
			if err := itemRepo.UpdateSaldo(ctx, item.ID, item.SaldoAtual, item.ValorMedio); err != nil {
				return err
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			req.AtendidoPor = p.UserID
			req.AtendidoEm = &now
		}
		req.Status = status
		req.UpdatedAt = now
		return reqRepo.UpdateStatus(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	uc.audit(ctx, p, req.MunicipioID, eventosAcao[acao], "AlmoxRequisicao", req.ID, nil, map[string]any{
		"numero":     req.Numero,
		"item":       req.ItemCodigo,
		"quantidade": req.Quantidade.String(),
		"status":     req.Status,
	})
	return toRequisicaoResponse(req), nil
}

// ── Dashboard ────────────────────────────────────────────────────────────────

// Dashboard indicadores do município: itens ativos, abaixo do mínimo, requisições pendentes, movimentos do dia.
func (uc *UseCase) Dashboard(ctx context.Context, p rbac.Principal, municipio string) (*dto.AlmoxDashboardResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	d, err := uc.itemRepo.Dashboard(ctx, usecase.ScopeMunicipio(p, mun), uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.AlmoxDashboardResponse{
		ItensAtivos:          d.ItensAtivos,
		ItensAbaixoMinimo:    d.ItensAbaixoMinimo,
		RequisicoesPendentes: d.RequisicoesPendentes,
		MovimentosHoje:       d.MovimentosHoje,
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (uc *UseCase) loadItem(ctx context.Context, p rbac.Principal, id string) (*entity.AlmoxItem, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || !rbac.ScopeFor(p).Contains(item.MunicipioID, item.SecretariaID, item.UnidadeID, item.SetorID) {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func requisicaoVisivel(p rbac.Principal, r *entity.AlmoxRequisicao) bool {
	return rbac.ScopeFor(p).Contains(r.MunicipioID, r.SecretariaSolicitanteID, r.UnidadeSolicitanteID, r.SetorSolicitanteID)
}

func (uc *UseCase) filter(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (repository.ListFilter, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return repository.ListFilter{}, err
	}
	return repository.ListFilter{
		Scope:  usecase.ScopeMunicipio(p, mun),
		Q:      strings.TrimSpace(q.Q),
		Status: strings.ToUpper(q.Status),
		Tipo:   tipoFiltro(q.Tipo),
		Page:   q.Repo(),
	}, nil
}

func tipoFiltro(t string) string {
	if strings.EqualFold(t, "abaixo_minimo") {
		return "abaixo_minimo"
	}
	return strings.ToUpper(t)
}

func (uc *UseCase) tabela(p rbac.Principal, titulo, arquivo string, cabecalho ...string) dto.Tabela {
	return dto.Tabela{Titulo: titulo, Arquivo: arquivo, Usuario: p.UserID, GeradoEm: uc.now(), Cabecalho: cabecalho}
}

// paginar percorre todas as páginas de 500 linhas; fn devolve (linhas lidas, total, erro).
func paginar(f repository.ListFilter, fn func(repository.ListFilter) (int, int, error)) error {
	f.Page = repository.Page{Limit: 500}
	for {
		n, total, err := fn(f)
		if err != nil {
			return err
		}
		f.Offset += f.Limit
		if n == 0 || f.Offset >= total {
			return nil
		}
	}
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

func normalizaCodigo(s string) string {
	return strings.ToUpper(textutil.StripAccents(strings.TrimSpace(s)))
}

func statusOuAtivo(s string) string {
	if s == "" {
		return entity.ItemAtivo
	}
	return s
}

func itemSnapshot(i *entity.AlmoxItem) map[string]any {
	return map[string]any{
		"codigo":         i.Codigo,
		"nome":           i.Nome,
		"unidade_medida": i.UnidadeMedida,
		"estoque_minimo": i.EstoqueMinimo.String(),
		"status":         i.Status,
	}
}

func toItemResponse(i *entity.AlmoxItem) *dto.AlmoxItemResponse {
	return &dto.AlmoxItemResponse{
		ID:            i.ID,
		MunicipioID:   i.MunicipioID,
		SecretariaID:  i.SecretariaID,
		UnidadeID:     i.UnidadeID,
		SetorID:       i.SetorID,
		Codigo:        i.Codigo,
		Nome:          i.Nome,
		UnidadeMedida: i.UnidadeMedida,
		EstoqueMinimo: i.EstoqueMinimo,
		SaldoAtual:    i.SaldoAtual,
		ValorMedio:    i.ValorMedio,
		AbaixoMinimo:  i.AbaixoDoMinimo(),
		Status:        i.Status,
		Observacao:    i.Observacao,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func toMovimentoResponse(m *entity.AlmoxMovimento) dto.AlmoxMovimentoResponse {
	return dto.AlmoxMovimentoResponse{
		ID:            m.ID,
		ItemID:        m.ItemID,
		ItemCodigo:    m.ItemCodigo,
		ItemNome:      m.ItemNome,
		Tipo:          m.Tipo,
		DataMovimento: m.DataMovimento,
		Quantidade:    m.Quantidade,
		ValorUnitario: m.ValorUnitario,
		Documento:     m.Documento,
		Observacao:    m.Observacao,
		CriadoPor:     m.CriadoPor,
		CreatedAt:     m.CreatedAt,
	}
}

func toRequisicaoResponse(r *entity.AlmoxRequisicao) *dto.AlmoxRequisicaoResponse {
	return &dto.AlmoxRequisicaoResponse{
		ID:                      r.ID,
		Numero:                  r.Numero,
		ItemID:                  r.ItemID,
		ItemCodigo:              r.ItemCodigo,
		ItemNome:                r.ItemNome,
		SecretariaSolicitanteID: r.SecretariaSolicitanteID,
		UnidadeSolicitanteID:    r.UnidadeSolicitanteID,
		SetorSolicitanteID:      r.SetorSolicitanteID,
		Quantidade:              r.Quantidade,
		Justificativa:           r.Justificativa,
		Status:                  r.Status,
		AprovadoPor:             r.AprovadoPor,
		AprovadoEm:              r.AprovadoEm,
		AtendidoPor:             r.AtendidoPor,
		AtendidoEm:              r.AtendidoEm,
		CreatedAt:               r.CreatedAt,
	}
}
