// Package folha regras de cálculo e ciclo de vida da folha de pagamento.
package folha

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var competenciaRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidarCompetencia exige o formato YYYY-MM.
func ValidarCompetencia(c string) error {
	if !competenciaRe.MatchString(c) {
		return domain.NewValidationError("competencia", "use o formato AAAA-MM")
	}
	return nil
}

// ValorCalculado quantidade × valor unitário, com 2 casas.
func ValorCalculado(qtd, unit decimal.Decimal) decimal.Decimal {
	return qtd.Mul(unit).Round(2)
}

// Totais somatórios da competência.
type Totais struct {
	Colaboradores int
	Proventos     decimal.Decimal
	Descontos     decimal.Decimal
	Liquido       decimal.Decimal
}

// servidorKey nome do servidor sem espaços extras e sem caixa. A matrícula não entra na contagem.
func servidorKey(l entity.FolhaLancamento) string {
	return strings.ToLower(strings.Join(strings.Fields(l.ServidorNome), " "))
}

// Calcular recompõe os totais a partir dos lançamentos (TipoEvento preenchido).
func Calcular(lancs []entity.FolhaLancamento) Totais {
	t := Totais{Proventos: decimal.Zero, Descontos: decimal.Zero}
	seen := make(map[string]struct{}, len(lancs))
	for _, l := range lancs {
		seen[servidorKey(l)] = struct{}{}
		switch l.TipoEvento {
		case entity.RubricaProvento:
			t.Proventos = t.Proventos.Add(l.ValorCalculado)
		case entity.RubricaDesconto:
			t.Descontos = t.Descontos.Add(l.ValorCalculado)
		}
	}
	t.Colaboradores = len(seen)
	t.Liquido = t.Proventos.Sub(t.Descontos)
	return t
}

// Aplicar grava os totais na competência.
func (t Totais) Aplicar(c *entity.FolhaCompetencia) {
	c.TotalColaboradores = t.Colaboradores
	c.TotalProventos = t.Proventos
	c.TotalDescontos = t.Descontos
	c.TotalLiquido = t.Liquido
}

// Ações sobre a competência.
const (
	AcaoProcessar = "processar"
	AcaoFechar    = "fechar"
	AcaoReabrir   = "reabrir"
)

// Transicao status resultante da ação sobre a competência.
func Transicao(status, acao string) (string, error) {
	switch acao {
	case AcaoProcessar:
		if status == entity.CompetenciaAberta {
			return entity.CompetenciaProcessada, nil
		}
	case AcaoFechar:
		if status == entity.CompetenciaProcessada {
			return entity.CompetenciaFechada, nil
		}
	case AcaoReabrir:
		if status == entity.CompetenciaProcessada || status == entity.CompetenciaFechada {
			return entity.CompetenciaAberta, nil
		}
	}
	return "", fmt.Errorf("%w: %s não permite %s", domain.ErrInvalidTransition, status, acao)
}

// PodeEnviar a competência precisa estar processada ou fechada e ter lançamentos.
func PodeEnviar(c *entity.FolhaCompetencia, lancamentos int) error {
	if c.Status != entity.CompetenciaProcessada && c.Status != entity.CompetenciaFechada {
		return fmt.Errorf("%w: processe a competência antes do envio", domain.ErrInvalidTransition)
	}
	if lancamentos == 0 {
		return fmt.Errorf("%w: competência sem lançamentos", domain.ErrConflict)
	}
	return nil
}

// ReferenciaFinanceiro "FOLHA-2026-03".
func ReferenciaFinanceiro(competencia string) string {
	return "FOLHA-" + competencia
}
