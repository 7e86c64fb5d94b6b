//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/internal/infrastructure/postgres"
	"github.com/gepub/gepub-api/pkg/config"
	"github.com/gepub/gepub-api/pkg/logger"
)

// go test -tags=integration ./internal/infrastructure/postgres/...

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gepub_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		panic("subir PostgreSQL: " + err.Error())
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	mg, err := postgres.NewMigrator(dsn, logger.Nop())
	if err != nil {
		panic(err)
	}
	if err := mg.Up(); err != nil {
		panic(err)
	}
	_ = mg.Close()

	testPool, err = postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	testPool.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func novoMunicipio(t *testing.T, nome string) *entity.Municipio {
	t.Helper()
	now := time.Now()
	m := &entity.Municipio{
		ID: uuid.NewString(), Nome: nome, UF: "MA", SlugSite: "mun-" + uuid.NewString()[:8],
		Ativo: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewMunicipioRepository(testPool).Create(context.Background(), m))
	return m
}

func TestMunicipioRepo(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewMunicipioRepository(testPool)
	m := novoMunicipio(t, "São Bento")

	got, err := repo.GetBySlug(ctx, m.SlugSite)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, "São Bento", got.Nome)

	got, err = repo.GetBySlug(ctx, "nao-existe")
	require.NoError(t, err)
	assert.Nil(t, got)

	dup := *m
	dup.ID = uuid.NewString()
	err = repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrDuplicate, "slug_site é único")
}

func TestAlmoxarifado_TxRunner(t *testing.T) {
	ctx := context.Background()
	m := novoMunicipio(t, "Pinheiro")
	now := time.Now()
	item := &entity.AlmoxItem{
		ID: uuid.NewString(), MunicipioID: m.ID, Codigo: "PAP-001", Nome: "Papel A4",
		UnidadeMedida: "CX", EstoqueMinimo: decimal.NewFromInt(5), Status: entity.ItemAtivo,
		CreatedAt: now, UpdatedAt: now,
	}
	itens := postgres.NewAlmoxItemRepository(testPool)
	require.NoError(t, itens.Create(ctx, item))

	runner := postgres.NewTxRunner(testPool)

	// saldo atualizado dentro da transação
	err := runner.Run(ctx, func(ir repository.AlmoxItemRepository, _ repository.AlmoxMovimentoRepository, _ repository.AlmoxRequisicaoRepository) error {
		locked, err := ir.GetForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}
		return ir.UpdateSaldo(ctx, locked.ID, decimal.NewFromInt(10), decimal.RequireFromString("2.5"))
	})
	require.NoError(t, err)

	got, err := itens.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.SaldoAtual.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.ValorMedio.Equal(decimal.RequireFromString("2.5")))

	// erro no callback desfaz a transação
	boom := errors.New("boom")
	err = runner.Run(ctx, func(ir repository.AlmoxItemRepository, _ repository.AlmoxMovimentoRepository, _ repository.AlmoxRequisicaoRepository) error {
		if err := ir.UpdateSaldo(ctx, item.ID, decimal.Zero, decimal.Zero); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err = itens.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.SaldoAtual.Equal(decimal.NewFromInt(10)), "rollback mantém o saldo")

	// saldo negativo viola o CHECK da tabela
	err = itens.UpdateSaldo(ctx, item.ID, decimal.NewFromInt(-1), decimal.Zero)
	assert.Error(t, err)
}

func TestAlmoxRequisicaoRepo_NextNumero(t *testing.T) {
	ctx := context.Background()
	m := novoMunicipio(t, "Viana")
	repo := postgres.NewAlmoxRequisicaoRepository(testPool)

	for want := int64(1); want <= 3; want++ {
		n, err := repo.NextNumero(ctx, m.ID, 2025)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	n, err := repo.NextNumero(ctx, m.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "contador reinicia a cada ano")
}

func TestMigrator_Version(t *testing.T) {
	// as migrações já rodaram no TestMain; Up de novo é no-op
	dsn := testPool.Config().ConnString()
	mg, err := postgres.NewMigrator(dsn, logger.Nop())
	require.NoError(t, err)
	defer mg.Close()

	require.NoError(t, mg.Up())
	v, dirty, err := mg.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(9), v)
	assert.False(t, dirty)
}

func TestFinanceiro_TxRunner(t *testing.T) {
	ctx := context.Background()
	m := novoMunicipio(t, "Bacabal")
	now := time.Now()
	exRepo := postgres.NewExercicioRepository(testPool)

	ex := &entity.FinanceiroExercicio{ID: uuid.NewString(), MunicipioID: m.ID, Ano: 2026, Status: entity.ExercicioAberto, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, exRepo.Create(ctx, ex))
	dup := *ex
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, exRepo.Create(ctx, &dup), domain.ErrDuplicate)

	dot := &entity.OrcDotacao{
		ID: uuid.NewString(), MunicipioID: m.ID, ExercicioID: ex.ID, ProgramaCodigo: "0001", AcaoCodigo: "2001",
		ElementoDespesa: "339030", Fonte: "1500", ValorInicial: decimal.NewFromInt(1000),
		ValorAtualizado: decimal.NewFromInt(1000), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewDotacaoRepository(testPool).Create(ctx, dot))

	tx := postgres.NewTxRunner(testPool)
	emp := &entity.DespEmpenho{
		ID: uuid.NewString(), MunicipioID: m.ID, ExercicioID: ex.ID, DotacaoID: dot.ID, Numero: "FOLHA-2026-03",
		Data: now, FornecedorNome: "Servidores", Objeto: "Folha", Tipo: entity.EmpenhoGlobal,
		ValorEmpenhado: decimal.NewFromInt(400), Status: entity.EmpenhoEmpenhado, CreatedAt: now, UpdatedAt: now,
	}
	err := tx.RunFinanceiro(ctx, func(dotRepo repository.DotacaoRepository, empRepo repository.EmpenhoRepository, _ repository.LiquidacaoRepository, _ repository.PagamentoRepository) error {
		d, err := dotRepo.GetForUpdate(ctx, dot.ID)
		if err != nil {
			return err
		}
		d.ValorEmpenhado = d.ValorEmpenhado.Add(emp.ValorEmpenhado)
		if err := empRepo.Create(ctx, emp); err != nil {
			return err
		}
		return dotRepo.Update(ctx, d)
	})
	require.NoError(t, err)

	got, err := postgres.NewEmpenhoRepository(testPool).GetByNumero(ctx, ex.ID, "folha-2026-03")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, emp.ID, got.ID)

	// rollback desfaz a reserva na dotação
	boom := errors.New("boom")
	err = tx.RunFinanceiro(ctx, func(dotRepo repository.DotacaoRepository, _ repository.EmpenhoRepository, _ repository.LiquidacaoRepository, _ repository.PagamentoRepository) error {
		d, err := dotRepo.GetForUpdate(ctx, dot.ID)
		if err != nil {
			return err
		}
		d.ValorEmpenhado = d.ValorAtualizado
		if err := dotRepo.Update(ctx, d); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	d, err := postgres.NewDotacaoRepository(testPool).GetByID(ctx, dot.ID)
	require.NoError(t, err)
	assert.True(t, d.ValorEmpenhado.Equal(decimal.NewFromInt(400)))
}

func TestAgendamentoSaudeRepo_Sobrepostos(t *testing.T) {
	ctx := context.Background()
	m := novoMunicipio(t, "Caxias")
	now := time.Now()
	sec := &entity.Secretaria{ID: uuid.NewString(), MunicipioID: m.ID, Nome: "Saúde", Ativo: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewSecretariaRepository(testPool).Create(ctx, sec))
	un := &entity.Unidade{ID: uuid.NewString(), SecretariaID: sec.ID, Nome: "UBS Centro", Tipo: entity.UnidadeSaude, Ativo: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewUnidadeRepository(testPool).Create(ctx, un))
	prof := &entity.ProfissionalSaude{
		ID: uuid.NewString(), MunicipioID: m.ID, SecretariaID: sec.ID, UnidadeID: un.ID, Nome: "Ana",
		Cargo: entity.CargoMedico, CargaHorariaSemanal: 20, Ativo: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewProfissionalSaudeRepository(testPool).Create(ctx, prof))

	repo := postgres.NewAgendamentoSaudeRepository(testPool)
	ini := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	novo := func(inicio time.Time, status string) {
		require.NoError(t, repo.Create(ctx, &entity.AgendamentoSaude{
			ID: uuid.NewString(), MunicipioID: m.ID, SecretariaID: sec.ID, UnidadeID: un.ID, ProfissionalID: prof.ID,
			PacienteNome: "José", Inicio: inicio, Fim: inicio.Add(30 * time.Minute), Tipo: entity.AgendamentoRetorno,
			Status: status, CreatedAt: now, UpdatedAt: now,
		}))
	}
	novo(ini, entity.AgendamentoMarcado)
	novo(ini.Add(time.Hour), entity.AgendamentoCancelado)

	got, err := repo.Sobrepostos(ctx, prof.ID, ini.Add(15*time.Minute), ini.Add(45*time.Minute))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	got, err = repo.Sobrepostos(ctx, prof.ID, ini.Add(30*time.Minute), ini.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, got, "cancelado não ocupa e o fim é exclusivo")
}
