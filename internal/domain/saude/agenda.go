// Package saude regras da agenda e dos atendimentos das unidades de saúde.
package saude

import (
	"fmt"
	"slices"
	"time"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
)

var transicoes = map[string][]string{
	entity.AgendamentoMarcado:    {entity.AgendamentoConfirmado, entity.AgendamentoAtendido, entity.AgendamentoFalta, entity.AgendamentoCancelado},
	entity.AgendamentoConfirmado: {entity.AgendamentoAtendido, entity.AgendamentoFalta, entity.AgendamentoCancelado},
}

// Transicao valida a mudança de status; ATENDIDO, FALTA e CANCELADO são finais.
func Transicao(de, para string) error {
	if !slices.Contains(transicoes[de], para) {
		return fmt.Errorf("%w: agendamento %s não pode passar para %s", domain.ErrInvalidTransition, de, para)
	}
	return nil
}

// Ocupa agendamentos marcados ou confirmados seguram o horário do profissional.
func Ocupa(a *entity.AgendamentoSaude) bool {
	return a.Status == entity.AgendamentoMarcado || a.Status == entity.AgendamentoConfirmado
}

// Sobrepoe intervalos semiabertos [inicio, fim).
func Sobrepoe(inicio, fim time.Time, a *entity.AgendamentoSaude) bool {
	return inicio.Before(a.Fim) && a.Inicio.Before(fim)
}

// Periodo início deve ser antes do fim.
func Periodo(inicio, fim time.Time) error {
	if inicio.IsZero() || fim.IsZero() {
		return domain.NewValidationError("inicio", "informe início e fim")
	}
	if !inicio.Before(fim) {
		return domain.NewValidationError("fim", "O fim do agendamento deve ser posterior ao início.")
	}
	return nil
}
