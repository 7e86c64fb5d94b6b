package folha

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
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/folha"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/pkg/textutil"
)

const auditModulo = "FOLHA"

// UseCase rubricas, competências, lançamentos, envio ao financeiro e holerite.
type UseCase struct {
	txRunner   TxRunner
	rubRepo    repository.RubricaRepository
	compRepo   repository.CompetenciaRepository
	lancRepo   repository.LancamentoRepository
	finRepo    repository.IntegracaoFinanceiroRepository
	munRepo    repository.MunicipioRepository
	municipios MunicipioResolver
	holerites  ports.HoleriteGenerator
	auditor    ports.Auditor
	financeiro FinanceiroReceiver
	now        func() time.Time
}

// NewUseCase constrói o caso de uso da folha.
func NewUseCase(
	txRunner TxRunner,
	rubRepo repository.RubricaRepository,
	compRepo repository.CompetenciaRepository,
	lancRepo repository.LancamentoRepository,
	finRepo repository.IntegracaoFinanceiroRepository,
	munRepo repository.MunicipioRepository,
	municipios MunicipioResolver,
	holerites ports.HoleriteGenerator,
	auditor ports.Auditor,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		rubRepo:    rubRepo,
		compRepo:   compRepo,
		lancRepo:   lancRepo,
		finRepo:    finRepo,
		munRepo:    munRepo,
		municipios: municipios,
		holerites:  holerites,
		auditor:    auditor,
		now:        time.Now,
	}
}

// ComFinanceiro liga o envio da folha à execução da despesa.
func (uc *UseCase) ComFinanceiro(r FinanceiroReceiver) *UseCase {
	uc.financeiro = r
	return uc
}

// ── Rubricas ─────────────────────────────────────────────────────────────────

// CreateRubrica cadastra uma rubrica; o código é único no município.
func (uc *UseCase) CreateRubrica(ctx context.Context, p rbac.Principal, municipio string, in dto.RubricaRequest) (*dto.RubricaResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	r := &entity.Rubrica{
		ID:          uuid.New().String(),
		MunicipioID: mun,
		CreatedAt:   now,
	}
	if err := applyRubrica(r, in, now); err != nil {
		return nil, err
	}
	if err := uc.rubRepo.Create(ctx, r); err != nil {
		return nil, rubricaErr(err)
	}
	uc.audit(ctx, p, mun, "RUBRICA_CRIADA", "Rubrica", r.ID, nil, map[string]any{
		"codigo": r.Codigo, "nome": r.Nome, "tipo": r.TipoEvento,
	})
	return toRubricaResponse(r), nil
}

// UpdateRubrica altera a rubrica; lançamentos já gravados mantêm seus valores.
func (uc *UseCase) UpdateRubrica(ctx context.Context, p rbac.Principal, id string, in dto.RubricaRequest) (*dto.RubricaResponse, error) {
	r, err := uc.loadRubrica(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := map[string]any{"codigo": r.Codigo, "nome": r.Nome, "status": r.Status}
	if err := applyRubrica(r, in, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.rubRepo.Update(ctx, r); err != nil {
		return nil, rubricaErr(err)
	}
	uc.audit(ctx, p, r.MunicipioID, "RUBRICA_ATUALIZADA", "Rubrica", r.ID, antes, map[string]any{
		"codigo": r.Codigo, "nome": r.Nome, "status": r.Status,
	})
	return toRubricaResponse(r), nil
}

// GetRubrica detalhe no município do usuário.
func (uc *UseCase) GetRubrica(ctx context.Context, p rbac.Principal, id string) (*dto.RubricaResponse, error) {
	r, err := uc.loadRubrica(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toRubricaResponse(r), nil
}

// ListRubricas filtros tipo (PROVENTO/DESCONTO), status e q sobre código e nome.
func (uc *UseCase) ListRubricas(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (*dto.ListResponse[dto.RubricaResponse], error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.rubRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RubricaResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRubricaResponse(r))
	}
	return &dto.ListResponse[dto.RubricaResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// ── Competências ─────────────────────────────────────────────────────────────

// CreateCompetencia abre a competência (AAAA-MM) no município.
func (uc *UseCase) CreateCompetencia(ctx context.Context, p rbac.Principal, municipio string, in dto.CompetenciaRequest) (*dto.CompetenciaResponse, error) {
	competencia := strings.TrimSpace(in.Competencia)
	if err := folha.ValidarCompetencia(competencia); err != nil {
		return nil, err
	}
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.FolhaCompetencia{
		ID:             uuid.New().String(),
		MunicipioID:    mun,
		Competencia:    competencia,
		Status:         entity.CompetenciaAberta,
		TotalProventos: decimal.Zero,
		TotalDescontos: decimal.Zero,
		TotalLiquido:   decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.compRepo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("competencia", "Competência já cadastrada para o município.")
		}
		return nil, err
	}
	uc.audit(ctx, p, mun, "COMPETENCIA_CRIADA", "FolhaCompetencia", c.ID, nil, map[string]any{"competencia": c.Competencia})
	return toCompetenciaResponse(c), nil
}

// GetCompetencia competência com totais.
func (uc *UseCase) GetCompetencia(ctx context.Context, p rbac.Principal, id string) (*dto.CompetenciaResponse, error) {
	c, err := uc.loadCompetencia(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toCompetenciaResponse(c), nil
}

// ListCompetencias mais recentes primeiro; q filtra por prefixo ("2026").
func (uc *UseCase) ListCompetencias(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (*dto.ListResponse[dto.CompetenciaResponse], error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.compRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompetenciaResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompetenciaResponse(c))
	}
	return &dto.ListResponse[dto.CompetenciaResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// TabelaCompetencias linhas para exportação.
func (uc *UseCase) TabelaCompetencias(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (dto.Tabela, error) {
	t := dto.Tabela{
		Titulo:    "Competências de folha",
		Arquivo:   "folha_competencias",
		Usuario:   p.UserID,
		GeradoEm:  uc.now(),
		Cabecalho: []string{"Competência", "Status", "Colaboradores", "Proventos", "Descontos", "Líquido"},
	}
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return t, err
	}
	f.Page = repository.Page{Limit: 500}
	for {
		list, total, err := uc.compRepo.List(ctx, f)
		if err != nil {
			return t, err
		}
		for _, c := range list {
			t.Linhas = append(t.Linhas, []string{
				c.Competencia, c.Status, fmt.Sprint(c.TotalColaboradores),
				c.TotalProventos.StringFixed(2), c.TotalDescontos.StringFixed(2), c.TotalLiquido.StringFixed(2),
			})
		}
		f.Offset += f.Limit
		if len(list) == 0 || f.Offset >= total {
			return t, nil
		}
	}
}

// Processar ABERTA → PROCESSADA recalculando os totais.
func (uc *UseCase) Processar(ctx context.Context, p rbac.Principal, id string) (*dto.CompetenciaResponse, error) {
	return uc.transicionar(ctx, p, id, folha.AcaoProcessar)
}

// Fechar PROCESSADA → FECHADA recalculando os totais.
func (uc *UseCase) Fechar(ctx context.Context, p rbac.Principal, id string) (*dto.CompetenciaResponse, error) {
	return uc.transicionar(ctx, p, id, folha.AcaoFechar)
}

// Reabrir volta a competência para ABERTA, desde que ainda não enviada ao financeiro.
func (uc *UseCase) Reabrir(ctx context.Context, p rbac.Principal, id string) (*dto.CompetenciaResponse, error) {
	return uc.transicionar(ctx, p, id, folha.AcaoReabrir)
}

func (uc *UseCase) transicionar(ctx context.Context, p rbac.Principal, id, acao string) (*dto.CompetenciaResponse, error) {
	if _, err := uc.loadCompetencia(ctx, p, id); err != nil {
		return nil, err
	}

	var c *entity.FolhaCompetencia
	err := uc.txRunner.RunFolha(ctx, func(compRepo repository.CompetenciaRepository, lancRepo repository.LancamentoRepository, finRepo repository.IntegracaoFinanceiroRepository) error {
		var err error
		c, err = compRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		novo, err := folha.Transicao(c.Status, acao)
		if err != nil {
			return err
		}
		now := uc.now()
		switch acao {
		case folha.AcaoReabrir:
			integ, err := finRepo.GetByCompetencia(ctx, c.ID)
			if err != nil {
				return err
			}
			if integ != nil && integ.Status == entity.EnvioEnviada {
				return fmt.Errorf("%w: competência já enviada ao financeiro", domain.ErrConflict)
			}
			c.FechadoEm = nil
		default:
			lancs, err := lancRepo.ListByCompetencia(ctx, c.ID, "")
			if err != nil {
				return err
			}
			folha.Calcular(lancs).Aplicar(c)
			if acao == folha.AcaoProcessar {
				c.ProcessadoEm = &now
			} else {
				c.FechadoEm = &now
			}
		}
		c.Status = novo
		c.UpdatedAt = now
		return compRepo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	snap := map[string]any{
		"competencia":         c.Competencia,
		"status":              c.Status,
		"total_colaboradores": c.TotalColaboradores,
		"total_liquido":       c.TotalLiquido.StringFixed(2),
	}
	switch acao {
	case folha.AcaoProcessar:
		uc.audit(ctx, p, c.MunicipioID, "COMPETENCIA_PROCESSADA", "FolhaCompetencia", c.ID, nil, snap)
	case folha.AcaoFechar:
		uc.audit(ctx, p, c.MunicipioID, "COMPETENCIA_FECHADA", "FolhaCompetencia", c.ID, nil, snap)
		liquido := c.TotalLiquido
		uc.auditor.Publicar(ctx, entity.TransparenciaEvento{
			MunicipioID: c.MunicipioID,
			Modulo:      auditModulo,
			TipoEvento:  "FOLHA_FECHADA",
			Titulo:      fmt.Sprintf("Folha da competência %s fechada", c.Competencia),
			Referencia:  c.Competencia,
			Valor:       &liquido,
			Dados:       ports.Snapshot(map[string]any{"colaboradores": c.TotalColaboradores}),
		})
	case folha.AcaoReabrir:
		uc.audit(ctx, p, c.MunicipioID, "COMPETENCIA_REABERTA", "FolhaCompetencia", c.ID, nil, snap)
	}
	return toCompetenciaResponse(c), nil
}

// ── Lançamentos ──────────────────────────────────────────────────────────────

// CreateLancamento lança uma rubrica para o servidor. Só em competência ABERTA;
// sem valor unitário usa o valor de referência da rubrica e sem quantidade usa 1.
func (uc *UseCase) CreateLancamento(ctx context.Context, p rbac.Principal, competenciaID string, in dto.LancamentoRequest) (*dto.LancamentoResponse, error) {
	comp, err := uc.loadCompetencia(ctx, p, competenciaID)
	if err != nil {
		return nil, err
	}
	rub, err := uc.rubRepo.GetByID(ctx, in.RubricaID)
	if err != nil {
		return nil, err
	}
	if rub == nil || rub.MunicipioID != comp.MunicipioID {
		return nil, domain.NewValidationError("rubrica_id", "rubrica não encontrada no município")
	}
	if rub.Status != entity.RubricaAtiva {
		return nil, domain.NewValidationError("rubrica_id", "rubrica inativa")
	}

	qtd := in.Quantidade
	if qtd.IsZero() {
		qtd = decimal.NewFromInt(1)
	}
	if qtd.IsNegative() {
		return nil, domain.NewValidationError("quantidade", "a quantidade não pode ser negativa")
	}
	unit := rub.ValorReferencia
	if in.ValorUnitario != nil {
		unit = *in.ValorUnitario
	}
	if unit.IsNegative() {
		return nil, domain.NewValidationError("valor_unitario", "o valor unitário não pode ser negativo")
	}

	l := &entity.FolhaLancamento{
		ID:                uuid.New().String(),
		CompetenciaID:     comp.ID,
		ServidorNome:      strings.TrimSpace(in.ServidorNome),
		ServidorMatricula: strings.TrimSpace(in.ServidorMatricula),
		RubricaID:         rub.ID,
		RubricaCodigo:     rub.Codigo,
		RubricaNome:       rub.Nome,
		TipoEvento:        rub.TipoEvento,
		Quantidade:        qtd,
		ValorUnitario:     unit,
		ValorCalculado:    folha.ValorCalculado(qtd, unit),
		Status:            entity.LancamentoPendente,
		Observacao:        in.Observacao,
		CreatedAt:         uc.now(),
	}
	err = uc.txRunner.RunFolha(ctx, func(compRepo repository.CompetenciaRepository, lancRepo repository.LancamentoRepository, _ repository.IntegracaoFinanceiroRepository) error {
		c, err := compRepo.GetForUpdate(ctx, comp.ID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if c.Status != entity.CompetenciaAberta {
			return fmt.Errorf("%w: lançamentos só em competência aberta", domain.ErrInvalidTransition)
		}
		if err := lancRepo.Create(ctx, l); err != nil {
			return err
		}
		lancs, err := lancRepo.ListByCompetencia(ctx, c.ID, "")
		if err != nil {
			return err
		}
		folha.Calcular(lancs).Aplicar(c)
		c.UpdatedAt = uc.now()
		return compRepo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	uc.audit(ctx, p, comp.MunicipioID, "LANCAMENTO_CRIADO", "FolhaLancamento", l.ID, nil, map[string]any{
		"competencia": comp.Competencia, "servidor": l.ServidorNome, "rubrica": rub.Codigo,
		"valor_calculado": l.ValorCalculado.StringFixed(2),
	})
	resp := toLancamentoResponse(*l)
	return &resp, nil
}

// ListLancamentos lançamentos da competência; servidor filtra pela matrícula.
func (uc *UseCase) ListLancamentos(ctx context.Context, p rbac.Principal, competenciaID, servidor string) ([]dto.LancamentoResponse, error) {
	comp, err := uc.loadCompetencia(ctx, p, competenciaID)
	if err != nil {
		return nil, err
	}
	lancs, err := uc.lancRepo.ListByCompetencia(ctx, comp.ID, strings.TrimSpace(servidor))
	if err != nil {
		return nil, err
	}
	out := make([]dto.LancamentoResponse, 0, len(lancs))
	for _, l := range lancs {
		out = append(out, toLancamentoResponse(l))
	}
	return out, nil
}

// ── Financeiro ───────────────────────────────────────────────────────────────

// EnviarFinanceiro grava a integração ENVIADA com o líquido da competência e marca os lançamentos.
func (uc *UseCase) EnviarFinanceiro(ctx context.Context, p rbac.Principal, competenciaID string) (*dto.EnvioFinanceiroResponse, error) {
	if _, err := uc.loadCompetencia(ctx, p, competenciaID); err != nil {
		return nil, err
	}

	var (
		c     *entity.FolhaCompetencia
		integ *entity.FolhaIntegracaoFinanceiro
		n     int
	)
	err := uc.txRunner.RunFolha(ctx, func(compRepo repository.CompetenciaRepository, lancRepo repository.LancamentoRepository, finRepo repository.IntegracaoFinanceiroRepository) error {
		var err error
		c, err = compRepo.GetForUpdate(ctx, competenciaID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		lancs, err := lancRepo.ListByCompetencia(ctx, c.ID, "")
		if err != nil {
			return err
		}
		n = len(lancs)
		if err := folha.PodeEnviar(c, n); err != nil {
			return err
		}
		now := uc.now()
		folha.Calcular(lancs).Aplicar(c)
		c.UpdatedAt = now
		if err := compRepo.Update(ctx, c); err != nil {
			return err
		}

		integ, err = finRepo.GetByCompetencia(ctx, c.ID)
		if err != nil {
			return err
		}
		if integ == nil {
			integ = &entity.FolhaIntegracaoFinanceiro{ID: uuid.New().String(), CompetenciaID: c.ID}
		}
		integ.Status = entity.EnvioEnviada
		integ.TotalEnviado = c.TotalLiquido
		integ.Referencia = folha.ReferenciaFinanceiro(c.Competencia)
		integ.EnviadoEm = &now
		integ.EnviadoPor = p.UserID
		if err := finRepo.Upsert(ctx, integ); err != nil {
			return err
		}
		return lancRepo.MarkEnviados(ctx, c.ID)
	})
	if err != nil {
		return nil, err
	}

	liquidacaoID, err := uc.liquidarNoFinanceiro(ctx, p, c, integ)
	if err != nil {
		return nil, err
	}

	total := integ.TotalEnviado
	uc.auditor.Publicar(ctx, entity.TransparenciaEvento{
		MunicipioID: c.MunicipioID,
		Modulo:      "FINANCEIRO",
		TipoEvento:  "FOLHA_ENVIADA_FINANCEIRO",
		Titulo:      fmt.Sprintf("Folha %s enviada ao financeiro", c.Competencia),
		Referencia:  integ.Referencia,
		Valor:       &total,
		Dados:       ports.Snapshot(map[string]any{"competencia": c.Competencia, "lancamentos": n}),
	})
	uc.audit(ctx, p, c.MunicipioID, "FOLHA_ENVIADA_FINANCEIRO", "FolhaIntegracaoFinanceiro", integ.ID, nil, map[string]any{
		"competencia": c.Competencia, "total_enviado": total.StringFixed(2), "liquidacao_id": liquidacaoID,
	})
	return &dto.EnvioFinanceiroResponse{
		CompetenciaID: c.ID,
		Status:        integ.Status,
		Referencia:    integ.Referencia,
		TotalEnviado:  integ.TotalEnviado,
		EnviadoEm:     integ.EnviadoEm,
		LiquidacaoID:  liquidacaoID,
	}, nil
}

// liquidarNoFinanceiro sem exercício ou empenho da referência o envio fica só ENVIADA;
// outras falhas marcam a integração como ERRO.
func (uc *UseCase) liquidarNoFinanceiro(ctx context.Context, p rbac.Principal, c *entity.FolhaCompetencia, integ *entity.FolhaIntegracaoFinanceiro) (string, error) {
	if uc.financeiro == nil {
		return "", nil
	}
	id, err := uc.financeiro.LiquidarFolha(ctx, p, c.MunicipioID, c.Competencia, integ.Referencia, integ.TotalEnviado)
	if err == nil {
		return id, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	integ.Status = entity.EnvioErro
	if uerr := uc.finRepo.Upsert(ctx, integ); uerr != nil {
		return "", errors.Join(err, uerr)
	}
	uc.audit(ctx, p, c.MunicipioID, "FOLHA_ENVIO_ERRO", "FolhaIntegracaoFinanceiro", integ.ID, nil, map[string]any{
		"competencia": c.Competencia, "erro": err.Error(),
	})
	return "", err
}

// ── Holerite ─────────────────────────────────────────────────────────────────

// Holerite PDF do contracheque do servidor (pela matrícula) na competência.
func (uc *UseCase) Holerite(ctx context.Context, p rbac.Principal, competenciaID, matricula string) (*dto.Arquivo, error) {
	comp, err := uc.loadCompetencia(ctx, p, competenciaID)
	if err != nil {
		return nil, err
	}
	matricula = strings.TrimSpace(matricula)
	if matricula == "" {
		return nil, domain.NewValidationError("servidor", "informe a matrícula do servidor")
	}
	lancs, err := uc.lancRepo.ListByCompetencia(ctx, comp.ID, matricula)
	if err != nil {
		return nil, err
	}
	if len(lancs) == 0 {
		return nil, fmt.Errorf("%w: não há lançamentos para o holerite solicitado", domain.ErrNotFound)
	}

	h := dto.Holerite{
		Competencia: comp.Competencia,
		Servidor:    lancs[0].ServidorNome,
		Matricula:   matricula,
		GeradoEm:    uc.now(),
	}
	m, err := uc.munRepo.GetByID(ctx, comp.MunicipioID)
	if err != nil {
		return nil, err
	}
	if m != nil {
		h.Municipio = m.Nome + "/" + m.UF
	}
	tot := folha.Calcular(lancs)
	h.Proventos, h.Descontos, h.Liquido = tot.Proventos, tot.Descontos, tot.Liquido
	for _, l := range lancs {
		linha := dto.HoleriteLinha{
			Codigo:     l.RubricaCodigo,
			Descricao:  l.RubricaNome,
			Quantidade: l.Quantidade,
			Provento:   decimal.Zero,
			Desconto:   decimal.Zero,
		}
		if l.TipoEvento == entity.RubricaProvento {
			linha.Provento = l.ValorCalculado
		} else {
			linha.Desconto = l.ValorCalculado
		}
		h.Linhas = append(h.Linhas, linha)
	}

	body, err := uc.holerites.Holerite(h)
	if err != nil {
		return nil, fmt.Errorf("gerar holerite: %w", err)
	}
	return &dto.Arquivo{
		Nome:        fmt.Sprintf("holerite_%s_%s.pdf", comp.Competencia, textutil.Slugify(matricula, "-", 40)),
		ContentType: "application/pdf",
		Conteudo:    body,
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (uc *UseCase) loadRubrica(ctx context.Context, p rbac.Principal, id string) (*entity.Rubrica, error) {
	r, err := uc.rubRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || !visivel(p, r.MunicipioID) {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (uc *UseCase) loadCompetencia(ctx context.Context, p rbac.Principal, id string) (*entity.FolhaCompetencia, error) {
	c, err := uc.compRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !visivel(p, c.MunicipioID) {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// visivel a folha é do município inteiro.
func visivel(p rbac.Principal, municipioID string) bool {
	return p.IsAdmin() || (p.MunicipioID != "" && p.MunicipioID == municipioID)
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
		Page:   q.Repo(),
	}, nil
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

func applyRubrica(r *entity.Rubrica, in dto.RubricaRequest, now time.Time) error {
	codigo := strings.ToUpper(textutil.StripAccents(strings.TrimSpace(in.Codigo)))
	if codigo == "" {
		return domain.NewValidationError("codigo", "informe o código da rubrica")
	}
	if in.ValorReferencia.IsNegative() {
		return domain.NewValidationError("valor_referencia", "o valor de referência não pode ser negativo")
	}
	r.Codigo = codigo
	r.Nome = strings.TrimSpace(in.Nome)
	r.TipoEvento = in.TipoEvento
	r.Natureza = in.Natureza
	r.ValorReferencia = in.ValorReferencia
	r.Formula = strings.TrimSpace(in.Formula)
	r.Status = in.Status
	if r.Status == "" {
		r.Status = entity.RubricaAtiva
	}
	r.UpdatedAt = now
	return nil
}

func rubricaErr(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.NewValidationError("codigo", "já existe rubrica com este código no município")
	}
	return err
}

func toRubricaResponse(r *entity.Rubrica) *dto.RubricaResponse {
	return &dto.RubricaResponse{
		ID:              r.ID,
		Codigo:          r.Codigo,
		Nome:            r.Nome,
		TipoEvento:      r.TipoEvento,
		Natureza:        r.Natureza,
		ValorReferencia: r.ValorReferencia,
		Formula:         r.Formula,
		Status:          r.Status,
	}
}

func toCompetenciaResponse(c *entity.FolhaCompetencia) *dto.CompetenciaResponse {
	return &dto.CompetenciaResponse{
		ID:                 c.ID,
		Competencia:        c.Competencia,
		Status:             c.Status,
		TotalColaboradores: c.TotalColaboradores,
		TotalProventos:     c.TotalProventos,
		TotalDescontos:     c.TotalDescontos,
		TotalLiquido:       c.TotalLiquido,
		ProcessadoEm:       c.ProcessadoEm,
		FechadoEm:          c.FechadoEm,
	}
}

func toLancamentoResponse(l entity.FolhaLancamento) dto.LancamentoResponse {
	return dto.LancamentoResponse{
		ID:                l.ID,
		ServidorNome:      l.ServidorNome,
		ServidorMatricula: l.ServidorMatricula,
		RubricaID:         l.RubricaID,
		RubricaCodigo:     l.RubricaCodigo,
		RubricaNome:       l.RubricaNome,
		TipoEvento:        l.TipoEvento,
		Quantidade:        l.Quantidade,
		ValorUnitario:     l.ValorUnitario,
		ValorCalculado:    l.ValorCalculado,
		Status:            l.Status,
		Observacao:        l.Observacao,
	}
}
