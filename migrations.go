package cms

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for this package.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// RunMigrations applies the embedded migrations in filename order. Every
// statement is idempotent, so reapplying on startup is safe.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	entries, err := migrationsFS.ReadDir("data/sql/migrations")
	if err != nil {
		return fmt.Errorf("cms: read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		contents, err := migrationsFS.ReadFile("data/sql/migrations/" + name)
		if err != nil {
			return fmt.Errorf("cms: read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(contents)); err != nil {
			return fmt.Errorf("cms: apply migration %s: %w", name, err)
		}
	}
	return nil
}
