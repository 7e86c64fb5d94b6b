// migrate aplica ou desfaz as migrações embutidas.
//
// Uso: go run ./cmd/migrate [up|down|steps N|version]
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gepub/gepub-api/internal/infrastructure/postgres"
	"github.com/gepub/gepub-api/pkg/config"
	"github.com/gepub/gepub-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Carregar configuração: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir migrações")
	}
	defer mg.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "steps":
		if len(os.Args) < 3 {
			log.Fatal().Msg("uso: migrate steps N")
		}
		n, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("N inválido")
		}
		err = mg.Steps(n)
	case "version":
		v, dirty, verr := mg.Version()
		if verr != nil {
			log.Fatal().Err(verr).Msg("versão")
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return
	default:
		log.Fatal().Str("comando", cmd).Msg("comando desconhecido (up, down, steps N, version)")
	}
	if err != nil {
		log.Fatal().Err(err).Msg(cmd)
	}
}
