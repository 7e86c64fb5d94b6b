package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/gepub/gepub-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator aplica as migrações embutidas no binário.
type Migrator struct {
	m   *migrate.Migrate
	log *logger.Logger
}

// NewMigrator abre o source embutido e o banco indicado pela URL (postgres://...).
func NewMigrator(databaseURL string, log *logger.Logger) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("abrir migrações embutidas: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("criar migrator: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Migrator{m: m, log: log}, nil
}

// Up aplica todas as migrações pendentes.
func (mg *Migrator) Up() error {
	err := mg.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info().Msg("nenhuma migração pendente")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up: %w", err)
	}
	mg.logVersion()
	return nil
}

// Down desfaz todas as migrações.
func (mg *Migrator) Down() error {
	err := mg.m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down: %w", err)
	}
	mg.log.Info().Msg("migrações desfeitas")
	return nil
}

// Steps aplica n passos (negativo desfaz).
func (mg *Migrator) Steps(n int) error {
	err := mg.m.Steps(n)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration steps: %w", err)
	}
	mg.logVersion()
	return nil
}

// Version devolve a versão corrente e se o banco ficou sujo.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close libera source e conexão.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (mg *Migrator) logVersion() {
	v, dirty, err := mg.Version()
	if err != nil {
		mg.log.Warn().Err(err).Msg("versão das migrações indisponível")
		return
	}
	mg.log.Info().Uint("version", v).Bool("dirty", dirty).Msg("migrações aplicadas")
}
