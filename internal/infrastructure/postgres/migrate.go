package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver database/sql para goose
	goose "github.com/pressly/goose/v3"
	"github.com/tu-usuario/arriendo-pro/migrations"
	"github.com/tu-usuario/arriendo-pro/pkg/config"
)

// UpMigrations aplica las migraciones embebidas con goose. Idempotente: si el
// esquema ya está en la última versión no hace nada.
func UpMigrations(cfg config.DBConfig) error {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = cfg.DSN()
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("abrir conexión para migraciones: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}
