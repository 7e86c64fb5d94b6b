package saude

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
)

func TestTransicao(t *testing.T) {
	assert.NoError(t, Transicao(entity.AgendamentoMarcado, entity.AgendamentoConfirmado))
	assert.NoError(t, Transicao(entity.AgendamentoConfirmado, entity.AgendamentoAtendido))
	assert.NoError(t, Transicao(entity.AgendamentoMarcado, entity.AgendamentoCancelado))
	assert.ErrorIs(t, Transicao(entity.AgendamentoAtendido, entity.AgendamentoCancelado), domain.ErrInvalidTransition)
	assert.ErrorIs(t, Transicao(entity.AgendamentoConfirmado, entity.AgendamentoMarcado), domain.ErrInvalidTransition)
	assert.ErrorIs(t, Transicao(entity.AgendamentoFalta, entity.AgendamentoAtendido), domain.ErrInvalidTransition)
}

func TestSobrepoe(t *testing.T) {
	h := func(hh, mm int) time.Time { return time.Date(2026, 3, 10, hh, mm, 0, 0, time.UTC) }
	a := &entity.AgendamentoSaude{Inicio: h(9, 0), Fim: h(9, 30), Status: entity.AgendamentoMarcado}

	assert.True(t, Sobrepoe(h(9, 15), h(9, 45), a))
	assert.True(t, Sobrepoe(h(8, 0), h(10, 0), a))
	assert.False(t, Sobrepoe(h(9, 30), h(10, 0), a), "encostar no fim não conflita")
	assert.False(t, Sobrepoe(h(8, 30), h(9, 0), a))
	assert.True(t, Ocupa(a))
	a.Status = entity.AgendamentoCancelado
	assert.False(t, Ocupa(a))
}

func TestPeriodo(t *testing.T) {
	ini := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.NoError(t, Periodo(ini, ini.Add(time.Minute)))
	assert.ErrorIs(t, Periodo(ini, ini), domain.ErrInvalidInput)
	assert.ErrorIs(t, Periodo(time.Time{}, ini), domain.ErrInvalidInput)
}
