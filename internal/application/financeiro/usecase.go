// Package financeiro exercícios, dotações e a execução da despesa
// (empenho, liquidação e pagamento).
package financeiro

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/financeiro"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

const auditModulo = "FINANCEIRO"

// UseCase exercícios, dotações, empenhos, liquidações e pagamentos.
type UseCase struct {
	txRunner   TxRunner
	exRepo     repository.ExercicioRepository
	dotRepo    repository.DotacaoRepository
	empRepo    repository.EmpenhoRepository
	liqRepo    repository.LiquidacaoRepository
	pagRepo    repository.PagamentoRepository
	hierarquia *usecase.HierarquiaResolver
	municipios MunicipioResolver
	auditor    ports.Auditor
	now        func() time.Time
}

// NewUseCase constrói o caso de uso do financeiro.
func NewUseCase(txRunner TxRunner, repos Repos, hierarquia *usecase.HierarquiaResolver, municipios MunicipioResolver, auditor ports.Auditor) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		exRepo:     repos.Exercicios,
		dotRepo:    repos.Dotacoes,
		empRepo:    repos.Empenhos,
		liqRepo:    repos.Liquidacoes,
		pagRepo:    repos.Pagamentos,
		hierarquia: hierarquia,
		municipios: municipios,
		auditor:    auditor,
		now:        time.Now,
	}
}

// ── Exercícios ───────────────────────────────────────────────────────────────

// CreateExercicio abre o exercício; o ano é único no município.
func (uc *UseCase) CreateExercicio(ctx context.Context, p rbac.Principal, municipio string, in dto.ExercicioRequest) (*dto.ExercicioResponse, error) {
	mun, err := uc.municipios.ResolveMunicipio(ctx, p, municipio)
	if err != nil {
		return nil, err
	}
	if in.Ano < 2000 || in.Ano > 2100 {
		return nil, domain.NewValidationError("ano", "ano inválido")
	}
	now := uc.now()
	ex := &entity.FinanceiroExercicio{
		ID:          uuid.New().String(),
		MunicipioID: mun,
		Ano:         in.Ano,
		Status:      entity.ExercicioAberto,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.exRepo.Create(ctx, ex); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("ano", "exercício já cadastrado no município")
		}
		return nil, err
	}
	uc.audit(ctx, p, mun, "EXERCICIO_ABERTO", "FinanceiroExercicio", ex.ID, nil, map[string]any{"ano": ex.Ano})
	resp := toExercicioResponse(ex)
	return &resp, nil
}

// EncerrarExercicio ABERTO → ENCERRADO; encerrado não aceita novos movimentos.
func (uc *UseCase) EncerrarExercicio(ctx context.Context, p rbac.Principal, id string) (*dto.ExercicioResponse, error) {
	ex, err := uc.loadExercicio(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if ex.Status != entity.ExercicioAberto {
		return nil, fmt.Errorf("%w: exercício já encerrado", domain.ErrInvalidTransition)
	}
	ex.Status = entity.ExercicioEncerrado
	ex.UpdatedAt = uc.now()
	if err := uc.exRepo.Update(ctx, ex); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, ex.MunicipioID, "EXERCICIO_ENCERRADO", "FinanceiroExercicio", ex.ID,
		map[string]any{"status": entity.ExercicioAberto}, map[string]any{"status": ex.Status})
	resp := toExercicioResponse(ex)
	return &resp, nil
}

// ListExercicios exercícios do município, do mais recente ao mais antigo; status filtra.
func (uc *UseCase) ListExercicios(ctx context.Context, p rbac.Principal, municipio string, q dto.ListQuery) (*dto.ListResponse[dto.ExercicioResponse], error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.exRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExercicioResponse, 0, len(list))
	for _, ex := range list {
		items = append(items, toExercicioResponse(ex))
	}
	return &dto.ListResponse[dto.ExercicioResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// ── Dotações ─────────────────────────────────────────────────────────────────

// CreateDotacao cadastra a dotação no exercício aberto; o valor atualizado parte do inicial.
func (uc *UseCase) CreateDotacao(ctx context.Context, p rbac.Principal, in dto.DotacaoRequest) (*dto.DotacaoResponse, error) {
	ex, err := uc.loadExercicio(ctx, p, in.ExercicioID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("exercicio_id", "exercício não encontrado")
	}
	if err != nil {
		return nil, err
	}
	if err := financeiro.ExercicioAberto(ex); err != nil {
		return nil, err
	}
	if in.ValorInicial.IsNegative() {
		return nil, domain.NewValidationError("valor_inicial", "o valor não pode ser negativo")
	}
	h := usecase.Hierarquia{MunicipioID: ex.MunicipioID, SecretariaID: in.SecretariaID}
	if err := uc.hierarquia.Resolve(ctx, rbac.Scope{MunicipioID: ex.MunicipioID}, &h, usecase.CamposHierarquia); err != nil {
		return nil, err
	}
	now := uc.now()
	valor := in.ValorInicial.Round(2)
	d := &entity.OrcDotacao{
		ID:              uuid.New().String(),
		MunicipioID:     ex.MunicipioID,
		ExercicioID:     ex.ID,
		SecretariaID:    h.SecretariaID,
		ProgramaCodigo:  strings.TrimSpace(in.ProgramaCodigo),
		AcaoCodigo:      strings.TrimSpace(in.AcaoCodigo),
		ElementoDespesa: strings.TrimSpace(in.ElementoDespesa),
		Fonte:           strings.TrimSpace(in.Fonte),
		Descricao:       strings.TrimSpace(in.Descricao),
		ValorInicial:    valor,
		ValorAtualizado: valor,
		ValorEmpenhado:  decimal.Zero,
		ValorLiquidado:  decimal.Zero,
		ValorPago:       decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.dotRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, d.MunicipioID, "DOTACAO_CRIADA", "OrcDotacao", d.ID, nil, dotacaoSnapshot(d))
	resp := toDotacaoResponse(d)
	return &resp, nil
}

// GetDotacao detalhe no município do usuário.
func (uc *UseCase) GetDotacao(ctx context.Context, p rbac.Principal, id string) (*dto.DotacaoResponse, error) {
	d, err := uc.loadDotacao(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := toDotacaoResponse(d)
	return &resp, nil
}

// ListDotacoes dotações do município; exercicioID restringe a um exercício e q busca em códigos e descrição.
func (uc *UseCase) ListDotacoes(ctx context.Context, p rbac.Principal, municipio, exercicioID string, q dto.ListQuery) (*dto.ListResponse[dto.DotacaoResponse], error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return nil, err
	}
	f.ParentID = exercicioID
	list, total, err := uc.dotRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DotacaoResponse, 0, len(list))
	for _, d := range list {
		items = append(items, toDotacaoResponse(d))
	}
	return &dto.ListResponse[dto.DotacaoResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// ── Empenhos ─────────────────────────────────────────────────────────────────

// CreateEmpenho reserva o valor na dotação; o número é único no exercício.
func (uc *UseCase) CreateEmpenho(ctx context.Context, p rbac.Principal, in dto.EmpenhoRequest) (*dto.EmpenhoResponse, error) {
	d, err := uc.loadDotacao(ctx, p, in.DotacaoID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("dotacao_id", "dotação não encontrada")
	}
	if err != nil {
		return nil, err
	}
	if err := uc.exercicioAberto(ctx, d.ExercicioID); err != nil {
		return nil, err
	}

	fe := domain.FieldErrors{}
	numero := strings.ToUpper(strings.TrimSpace(in.Numero))
	if numero == "" {
		fe.Add("numero", "informe o número do empenho")
	}
	fornecedor := strings.TrimSpace(in.FornecedorNome)
	if fornecedor == "" {
		fe.Add("fornecedor_nome", "informe o fornecedor")
	}
	objeto := strings.TrimSpace(in.Objeto)
	if objeto == "" {
		fe.Add("objeto", "informe o objeto")
	}
	tipo := strings.ToUpper(strings.TrimSpace(in.Tipo))
	if tipo == "" {
		tipo = entity.EmpenhoOrdinario
	}
	if !slices.Contains(entity.EmpenhoTipos, tipo) {
		fe.Add("tipo", "tipo de empenho inválido")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	now := uc.now()
	e := &entity.DespEmpenho{
		ID:                  uuid.New().String(),
		MunicipioID:         d.MunicipioID,
		ExercicioID:         d.ExercicioID,
		DotacaoID:           d.ID,
		Numero:              numero,
		Data:                dataOu(in.Data, now),
		FornecedorNome:      fornecedor,
		FornecedorDocumento: strings.TrimSpace(in.FornecedorDocumento),
		Objeto:              objeto,
		Tipo:                tipo,
		ValorEmpenhado:      in.Valor.Round(2),
		CriadoPor:           p.UserID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	err = uc.txRunner.RunFinanceiro(ctx, func(dotRepo repository.DotacaoRepository, empRepo repository.EmpenhoRepository, _ repository.LiquidacaoRepository, _ repository.PagamentoRepository) error {
		dl, err := dotRepo.GetForUpdate(ctx, d.ID)
		if err != nil {
			return err
		}
		if dl == nil {
			return domain.ErrNotFound
		}
		if err := financeiro.Empenhar(dl, e); err != nil {
			return err
		}
		dl.UpdatedAt = now
		if err := empRepo.Create(ctx, e); err != nil {
			return err
		}
		return dotRepo.Update(ctx, dl)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("numero", "já existe empenho com este número no exercício")
		}
		return nil, err
	}

	valor := e.ValorEmpenhado
	uc.audit(ctx, p, e.MunicipioID, "EMPENHO_CRIADO", "DespEmpenho", e.ID, nil, empenhoSnapshot(e))
	uc.auditor.Publicar(ctx, entity.TransparenciaEvento{
		MunicipioID: e.MunicipioID,
		Modulo:      auditModulo,
		TipoEvento:  "EMPENHO_CRIADO",
		Titulo:      "Empenho " + e.Numero,
		Descricao:   fmt.Sprintf("%s: %s", e.FornecedorNome, e.Objeto),
		Referencia:  e.Numero,
		Valor:       &valor,
		Dados:       ports.Snapshot(map[string]any{"tipo": e.Tipo, "dotacao_id": e.DotacaoID}),
		Publico:     true,
	})
	resp := toEmpenhoResponse(e)
	return &resp, nil
}

// GetEmpenho empenho com suas liquidações e pagamentos.
func (uc *UseCase) GetEmpenho(ctx context.Context, p rbac.Principal, id string) (*dto.EmpenhoDetalheResponse, error) {
	e, err := uc.loadEmpenho(ctx, p, id)
	if err != nil {
		return nil, err
	}
	liqs, err := uc.liqRepo.ListByEmpenho(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	pags, err := uc.pagRepo.ListByEmpenho(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.EmpenhoDetalheResponse{
		EmpenhoResponse: toEmpenhoResponse(e),
		Liquidacoes:     make([]dto.LiquidacaoResponse, 0, len(liqs)),
		Pagamentos:      make([]dto.PagamentoResponse, 0, len(pags)),
	}
	for _, l := range liqs {
		out.Liquidacoes = append(out.Liquidacoes, toLiquidacaoResponse(l))
	}
	for _, pg := range pags {
		out.Pagamentos = append(out.Pagamentos, toPagamentoResponse(pg))
	}
	return out, nil
}

// ListEmpenhos empenhos do município; exercício e dotação restringem, status filtra,
// q busca em número, fornecedor e objeto.
func (uc *UseCase) ListEmpenhos(ctx context.Context, p rbac.Principal, municipio, exercicioID, dotacaoID string, q dto.ListQuery) (*dto.ListResponse[dto.EmpenhoResponse], error) {
	f, err := uc.empenhoFilter(ctx, p, municipio, exercicioID, dotacaoID, q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.empRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmpenhoResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toEmpenhoResponse(e))
	}
	return &dto.ListResponse[dto.EmpenhoResponse]{Items: items, Page: dto.NewPage(f.Page, total)}, nil
}

// TabelaEmpenhos empenhos para CSV/XLSX/PDF.
func (uc *UseCase) TabelaEmpenhos(ctx context.Context, p rbac.Principal, municipio, exercicioID, dotacaoID string, q dto.ListQuery) (dto.Tabela, error) {
	t := dto.Tabela{
		Titulo:    "Empenhos",
		Arquivo:   "financeiro_empenhos",
		Usuario:   p.UserID,
		GeradoEm:  uc.now(),
		Cabecalho: []string{"Número", "Data", "Fornecedor", "Objeto", "Empenhado", "Liquidado", "Pago", "Status"},
	}
	f, err := uc.empenhoFilter(ctx, p, municipio, exercicioID, dotacaoID, q)
	if err != nil {
		return t, err
	}
	f.Page = repository.Page{Limit: 500}
	for {
		list, total, err := uc.empRepo.List(ctx, f)
		if err != nil {
			return t, err
		}
		for _, e := range list {
			t.Linhas = append(t.Linhas, []string{
				e.Numero, e.Data.Format("02/01/2006"), e.FornecedorNome, e.Objeto,
				e.ValorEmpenhado.StringFixed(2), e.ValorLiquidado.StringFixed(2), e.ValorPago.StringFixed(2), e.Status,
			})
		}
		f.Offset += f.Limit
		if len(list) == 0 || f.Offset >= total {
			return t, nil
		}
	}
}

// ── Liquidações e pagamentos ─────────────────────────────────────────────────

// Liquidar registra a liquidação de parte do saldo do empenho.
func (uc *UseCase) Liquidar(ctx context.Context, p rbac.Principal, empenhoID string, in dto.LiquidacaoRequest) (*dto.LiquidacaoResponse, error) {
	e, err := uc.loadEmpenho(ctx, p, empenhoID)
	if err != nil {
		return nil, err
	}
	l, err := uc.liquidar(ctx, p, e, in)
	if err != nil {
		return nil, err
	}
	resp := toLiquidacaoResponse(l)
	return &resp, nil
}

// LiquidarFolha recebe o envio da folha como liquidação do empenho cujo número é a
// referência (FOLHA-AAAA-MM), no exercício do ano da competência. Reenvio com o mesmo
// valor devolve a liquidação já registrada.
func (uc *UseCase) LiquidarFolha(ctx context.Context, p rbac.Principal, municipioID, competencia, referencia string, valor decimal.Decimal) (string, error) {
	ano, err := strconv.Atoi(competencia[:min(4, len(competencia))])
	if err != nil {
		return "", domain.NewValidationError("competencia", "competência inválida")
	}
	ex, err := uc.exRepo.GetByAno(ctx, municipioID, ano)
	if err != nil {
		return "", err
	}
	if ex == nil {
		return "", fmt.Errorf("%w: exercício %d não cadastrado", domain.ErrNotFound, ano)
	}
	referencia = strings.ToUpper(referencia)
	e, err := uc.empRepo.GetByNumero(ctx, ex.ID, referencia)
	if err != nil {
		return "", err
	}
	if e == nil {
		return "", fmt.Errorf("%w: empenho %s não cadastrado", domain.ErrNotFound, referencia)
	}
	liqs, err := uc.liqRepo.ListByEmpenho(ctx, e.ID)
	if err != nil {
		return "", err
	}
	for _, l := range liqs {
		if l.DocumentoFiscal != referencia {
			continue
		}
		if l.Valor.Equal(valor) {
			return l.ID, nil
		}
		return "", fmt.Errorf("%w: %s já liquidada com outro valor", domain.ErrConflict, referencia)
	}
	l, err := uc.liquidar(ctx, p, e, dto.LiquidacaoRequest{
		DocumentoFiscal: referencia,
		Observacao:      "Folha de pagamento " + competencia,
		Valor:           valor,
	})
	if err != nil {
		return "", err
	}
	return l.ID, nil
}

func (uc *UseCase) liquidar(ctx context.Context, p rbac.Principal, e *entity.DespEmpenho, in dto.LiquidacaoRequest) (*entity.DespLiquidacao, error) {
	if err := uc.exercicioAberto(ctx, e.ExercicioID); err != nil {
		return nil, err
	}
	now := uc.now()
	l := &entity.DespLiquidacao{
		ID:              uuid.New().String(),
		EmpenhoID:       e.ID,
		Data:            dataOu(in.Data, now),
		DocumentoFiscal: strings.TrimSpace(in.DocumentoFiscal),
		Observacao:      strings.TrimSpace(in.Observacao),
		Valor:           in.Valor.Round(2),
		CriadoPor:       p.UserID,
		CreatedAt:       now,
	}
	err := uc.txRunner.RunFinanceiro(ctx, func(dotRepo repository.DotacaoRepository, empRepo repository.EmpenhoRepository, liqRepo repository.LiquidacaoRepository, _ repository.PagamentoRepository) error {
		em, d, err := lockEmpenho(ctx, empRepo, dotRepo, e.ID)
		if err != nil {
			return err
		}
		if err := financeiro.Liquidar(d, em, l.Valor); err != nil {
			return err
		}
		existentes, err := liqRepo.ListByEmpenho(ctx, em.ID)
		if err != nil {
			return err
		}
		l.Numero = financeiro.NumeroLiquidacao(len(existentes))
		em.UpdatedAt, d.UpdatedAt = now, now
		if err := liqRepo.Create(ctx, l); err != nil {
			return err
		}
		if err := empRepo.Update(ctx, em); err != nil {
			return err
		}
		return dotRepo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	valor := l.Valor
	uc.audit(ctx, p, e.MunicipioID, "LIQUIDACAO_REGISTRADA", "DespLiquidacao", l.ID, nil, map[string]any{
		"empenho": e.Numero, "numero": l.Numero, "documento_fiscal": l.DocumentoFiscal, "valor": valor.StringFixed(2),
	})
	uc.auditor.Publicar(ctx, entity.TransparenciaEvento{
		MunicipioID: e.MunicipioID,
		Modulo:      auditModulo,
		TipoEvento:  "LIQUIDACAO",
		Titulo:      fmt.Sprintf("Liquidação %s do empenho %s", l.Numero, e.Numero),
		Descricao:   e.FornecedorNome,
		Referencia:  e.Numero,
		Valor:       &valor,
		Publico:     true,
	})
	return l, nil
}

// Pagar registra o pagamento de uma liquidação do empenho.
func (uc *UseCase) Pagar(ctx context.Context, p rbac.Principal, empenhoID string, in dto.PagamentoRequest) (*dto.PagamentoResponse, error) {
	e, err := uc.loadEmpenho(ctx, p, empenhoID)
	if err != nil {
		return nil, err
	}
	if err := uc.exercicioAberto(ctx, e.ExercicioID); err != nil {
		return nil, err
	}
	now := uc.now()
	pg := &entity.DespPagamento{
		ID:             uuid.New().String(),
		EmpenhoID:      e.ID,
		LiquidacaoID:   in.LiquidacaoID,
		OrdemPagamento: strings.TrimSpace(in.OrdemPagamento),
		Data:           dataOu(in.Data, now),
		Valor:          in.Valor.Round(2),
		CriadoPor:      p.UserID,
		CreatedAt:      now,
	}
	err = uc.txRunner.RunFinanceiro(ctx, func(dotRepo repository.DotacaoRepository, empRepo repository.EmpenhoRepository, liqRepo repository.LiquidacaoRepository, pagRepo repository.PagamentoRepository) error {
		em, d, err := lockEmpenho(ctx, empRepo, dotRepo, e.ID)
		if err != nil {
			return err
		}
		l, err := liqRepo.GetByID(ctx, in.LiquidacaoID)
		if err != nil {
			return err
		}
		if l == nil || l.EmpenhoID != em.ID {
			return domain.NewValidationError("liquidacao_id", "a liquidação não pertence ao empenho")
		}
		pagos, err := pagRepo.ListByEmpenho(ctx, em.ID)
		if err != nil {
			return err
		}
		jaPago := decimal.Zero
		for _, x := range pagos {
			if x.LiquidacaoID == l.ID {
				jaPago = jaPago.Add(x.Valor)
			}
		}
		if jaPago.Add(pg.Valor).GreaterThan(l.Valor) {
			return domain.NewValidationError("valor", "Valor do pagamento excede o saldo da liquidação.")
		}
		if err := financeiro.Pagar(d, em, pg.Valor); err != nil {
			return err
		}
		em.UpdatedAt, d.UpdatedAt = now, now
		if err := pagRepo.Create(ctx, pg); err != nil {
			return err
		}
		if err := empRepo.Update(ctx, em); err != nil {
			return err
		}
		return dotRepo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	valor := pg.Valor
	uc.audit(ctx, p, e.MunicipioID, "PAGAMENTO_REGISTRADO", "DespPagamento", pg.ID, nil, map[string]any{
		"empenho": e.Numero, "liquidacao_id": pg.LiquidacaoID, "ordem_pagamento": pg.OrdemPagamento, "valor": valor.StringFixed(2),
	})
	uc.auditor.Publicar(ctx, entity.TransparenciaEvento{
		MunicipioID: e.MunicipioID,
		Modulo:      auditModulo,
		TipoEvento:  "PAGAMENTO",
		Titulo:      "Pagamento do empenho " + e.Numero,
		Descricao:   e.FornecedorNome,
		Referencia:  e.Numero,
		Valor:       &valor,
		Publico:     true,
	})
	resp := toPagamentoResponse(pg)
	return &resp, nil
}

// lockEmpenho empenho e sua dotação com lock, nesta ordem.
func lockEmpenho(ctx context.Context, empRepo repository.EmpenhoRepository, dotRepo repository.DotacaoRepository, id string) (*entity.DespEmpenho, *entity.OrcDotacao, error) {
	em, err := empRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if em == nil {
		return nil, nil, domain.ErrNotFound
	}
	d, err := dotRepo.GetForUpdate(ctx, em.DotacaoID)
	if err != nil {
		return nil, nil, err
	}
	if d == nil {
		return nil, nil, domain.ErrNotFound
	}
	return em, d, nil
}

func (uc *UseCase) exercicioAberto(ctx context.Context, id string) error {
	ex, err := uc.exRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ex == nil {
		return domain.ErrNotFound
	}
	return financeiro.ExercicioAberto(ex)
}

func visivel(p rbac.Principal, municipioID string) bool {
	return p.IsAdmin() || (p.MunicipioID != "" && p.MunicipioID == municipioID)
}

func (uc *UseCase) loadExercicio(ctx context.Context, p rbac.Principal, id string) (*entity.FinanceiroExercicio, error) {
	ex, err := uc.exRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ex == nil || !visivel(p, ex.MunicipioID) {
		return nil, domain.ErrNotFound
	}
	return ex, nil
}

func (uc *UseCase) loadDotacao(ctx context.Context, p rbac.Principal, id string) (*entity.OrcDotacao, error) {
	d, err := uc.dotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil || !visivel(p, d.MunicipioID) {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (uc *UseCase) loadEmpenho(ctx context.Context, p rbac.Principal, id string) (*entity.DespEmpenho, error) {
	e, err := uc.empRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || !visivel(p, e.MunicipioID) {
		return nil, domain.ErrNotFound
	}
	return e, nil
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
		Page:   q.Repo(),
	}, nil
}

func (uc *UseCase) empenhoFilter(ctx context.Context, p rbac.Principal, municipio, exercicioID, dotacaoID string, q dto.ListQuery) (repository.ListFilter, error) {
	f, err := uc.filter(ctx, p, municipio, q)
	if err != nil {
		return f, err
	}
	f.ParentID = exercicioID
	f.Tipo = dotacaoID
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

func dataOu(t *time.Time, padrao time.Time) time.Time {
	if t == nil || t.IsZero() {
		return padrao
	}
	return *t
}

func dotacaoSnapshot(d *entity.OrcDotacao) map[string]any {
	return map[string]any{
		"exercicio_id":     d.ExercicioID,
		"programa_codigo":  d.ProgramaCodigo,
		"acao_codigo":      d.AcaoCodigo,
		"elemento_despesa": d.ElementoDespesa,
		"fonte":            d.Fonte,
		"valor_inicial":    d.ValorInicial.StringFixed(2),
	}
}

func empenhoSnapshot(e *entity.DespEmpenho) map[string]any {
	return map[string]any{
		"numero":     e.Numero,
		"dotacao_id": e.DotacaoID,
		"fornecedor": e.FornecedorNome,
		"tipo":       e.Tipo,
		"valor":      e.ValorEmpenhado.StringFixed(2),
	}
}

func toExercicioResponse(ex *entity.FinanceiroExercicio) dto.ExercicioResponse {
	return dto.ExercicioResponse{
		ID:          ex.ID,
		MunicipioID: ex.MunicipioID,
		Ano:         ex.Ano,
		Status:      ex.Status,
		CreatedAt:   ex.CreatedAt,
	}
}

func toDotacaoResponse(d *entity.OrcDotacao) dto.DotacaoResponse {
	return dto.DotacaoResponse{
		ID:              d.ID,
		ExercicioID:     d.ExercicioID,
		SecretariaID:    d.SecretariaID,
		ProgramaCodigo:  d.ProgramaCodigo,
		AcaoCodigo:      d.AcaoCodigo,
		ElementoDespesa: d.ElementoDespesa,
		Fonte:           d.Fonte,
		Descricao:       d.Descricao,
		ValorInicial:    d.ValorInicial,
		ValorAtualizado: d.ValorAtualizado,
		ValorEmpenhado:  d.ValorEmpenhado,
		ValorLiquidado:  d.ValorLiquidado,
		ValorPago:       d.ValorPago,
		SaldoDisponivel: d.SaldoDisponivel(),
	}
}

func toEmpenhoResponse(e *entity.DespEmpenho) dto.EmpenhoResponse {
	return dto.EmpenhoResponse{
		ID:                  e.ID,
		ExercicioID:         e.ExercicioID,
		DotacaoID:           e.DotacaoID,
		Numero:              e.Numero,
		Data:                e.Data,
		FornecedorNome:      e.FornecedorNome,
		FornecedorDocumento: e.FornecedorDocumento,
		Objeto:              e.Objeto,
		Tipo:                e.Tipo,
		ValorEmpenhado:      e.ValorEmpenhado,
		ValorLiquidado:      e.ValorLiquidado,
		ValorPago:           e.ValorPago,
		SaldoALiquidar:      e.SaldoALiquidar(),
		SaldoAPagar:         e.SaldoAPagar(),
		Status:              e.Status,
	}
}

func toLiquidacaoResponse(l *entity.DespLiquidacao) dto.LiquidacaoResponse {
	return dto.LiquidacaoResponse{
		ID:              l.ID,
		EmpenhoID:       l.EmpenhoID,
		Numero:          l.Numero,
		Data:            l.Data,
		DocumentoFiscal: l.DocumentoFiscal,
		Observacao:      l.Observacao,
		Valor:           l.Valor,
	}
}

func toPagamentoResponse(pg *entity.DespPagamento) dto.PagamentoResponse {
	return dto.PagamentoResponse{
		ID:             pg.ID,
		EmpenhoID:      pg.EmpenhoID,
		LiquidacaoID:   pg.LiquidacaoID,
		OrdemPagamento: pg.OrdemPagamento,
		Data:           pg.Data,
		Valor:          pg.Valor,
	}
}
