// seed prepara um banco novo: usuário ADMIN, catálogo de necessidades (NEE)
// e, opcionalmente, municípios a partir de um CSV "nome;uf".
//
// Uso:
//
//	go run ./cmd/seed -admin-senha=<senha> [-admin-login=admin] [-municipios=municipios.csv] [-latin1]
//
// O CSV exportado do IBGE costuma vir em ISO-8859-1; use -latin1 nesse caso.
// Registros já existentes são mantidos, então o comando pode ser repetido.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/gepub/gepub-api/internal/application/auth"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/org"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/internal/infrastructure/postgres"
	"github.com/gepub/gepub-api/pkg/config"
	"github.com/gepub/gepub-api/pkg/logger"
)

var tiposPadrao = []string{
	"Deficiência auditiva",
	"Deficiência visual",
	"Deficiência física",
	"Deficiência intelectual",
	"Deficiência múltipla",
	"Surdocegueira",
	"Transtorno do espectro autista (TEA)",
	"Altas habilidades / superdotação",
	"TDAH",
	"Dislexia",
}

func main() {
	adminLogin := flag.String("admin-login", "admin", "username do administrador")
	adminSenha := flag.String("admin-senha", "", "senha inicial do administrador (obrigatória na primeira execução)")
	municipiosCSV := flag.String("municipios", "", "CSV com nome;uf dos municípios a cadastrar")
	latin1 := flag.Bool("latin1", false, "o CSV está em ISO-8859-1")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Carregar configuração: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	if err := seedAdmin(ctx, postgres.NewUsuarioRepository(pool), *adminLogin, *adminSenha); err != nil {
		log.Fatal().Err(err).Msg("usuário administrador")
	}
	log.Info().Str("login", *adminLogin).Msg("administrador pronto")

	n, err := seedTipos(ctx, postgres.NewTipoNecessidadeRepository(pool))
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo de necessidades")
	}
	log.Info().Int("criados", n).Msg("catálogo de necessidades pronto")

	if *municipiosCSV != "" {
		f, err := os.Open(*municipiosCSV)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV de municípios")
		}
		defer f.Close()

		var r io.Reader = f
		if *latin1 {
			r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
		}
		n, err := seedMunicipios(ctx, postgres.NewMunicipioRepository(pool), r)
		if err != nil {
			log.Fatal().Err(err).Msg("importar municípios")
		}
		log.Info().Int("criados", n).Msg("municípios importados")
	}
}

func seedAdmin(ctx context.Context, repo repository.UsuarioRepository, login, senha string) error {
	existente, err := repo.GetByLogin(ctx, login)
	if err != nil {
		return err
	}
	if existente != nil {
		return nil
	}
	if senha == "" {
		return fmt.Errorf("informe -admin-senha para criar %q", login)
	}
	hash, err := auth.HashPassword(senha)
	if err != nil {
		return err
	}
	now := time.Now()
	return repo.Create(ctx, &entity.Usuario{
		ID:                 uuid.NewString(),
		Username:           login,
		Nome:               "Administrador",
		PasswordHash:       hash,
		Role:               entity.RoleAdmin,
		Ativo:              true,
		MustChangePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
}

func seedTipos(ctx context.Context, repo repository.TipoNecessidadeRepository) (int, error) {
	existentes, err := repo.List(ctx, false)
	if err != nil {
		return 0, err
	}
	nomes := make(map[string]bool, len(existentes))
	for _, t := range existentes {
		nomes[strings.ToLower(t.Nome)] = true
	}
	criados := 0
	for _, nome := range tiposPadrao {
		if nomes[strings.ToLower(nome)] {
			continue
		}
		err := repo.Create(ctx, &entity.TipoNecessidade{
			ID: uuid.NewString(), Nome: nome, Ativo: true, CreatedAt: time.Now(),
		})
		if err != nil {
			return criados, fmt.Errorf("tipo %q: %w", nome, err)
		}
		criados++
	}
	return criados, nil
}

// seedMunicipios lê linhas "nome;uf" (cabeçalho opcional) e cria os que ainda não têm slug.
func seedMunicipios(ctx context.Context, repo repository.MunicipioRepository, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	criados := 0
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return criados, nil
		}
		if err != nil {
			return criados, fmt.Errorf("linha %d: %w", line, err)
		}
		if len(rec) < 2 {
			continue
		}
		nome := strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff"))
		uf := strings.ToUpper(strings.TrimSpace(rec[1]))
		if nome == "" || len(uf) != 2 || (line == 1 && strings.EqualFold(nome, "nome")) {
			continue
		}

		slug := org.BaseSlug("", nome+" "+uf)
		existente, err := repo.GetBySlug(ctx, slug)
		if err != nil {
			return criados, err
		}
		if existente != nil {
			continue
		}
		now := time.Now()
		err = repo.Create(ctx, &entity.Municipio{
			ID:        uuid.NewString(),
			Nome:      nome,
			UF:        uf,
			SlugSite:  slug,
			Ativo:     true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return criados, fmt.Errorf("município %s/%s: %w", nome, uf, err)
		}
		criados++
	}
}
