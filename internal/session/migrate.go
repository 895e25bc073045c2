package session

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// migrate runs all pending schema migrations against the state database.
func (p *SQLitePersister) migrate() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(p.db, "migrations"); err != nil {
		return fmt.Errorf("migrate state database: %w", err)
	}
	return nil
}
