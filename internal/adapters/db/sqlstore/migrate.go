package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationsFS embed.FS

func RunMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	dialect, dir, err := gooseTarget(db.Dialector.Name())
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return err
	}

	return nil
}

// MigrationVersion reports the latest applied goose version.
func MigrationVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, err
	}
	dialect, _, err := gooseTarget(db.Dialector.Name())
	if err != nil {
		return 0, err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}

func gooseTarget(dialectorName string) (string, string, error) {
	switch dialectorName {
	case "sqlite", "sqlite3":
		return "sqlite3", path.Join("migrations", "sqlite"), nil
	case "postgres":
		return "postgres", path.Join("migrations", "postgres"), nil
	case "mysql":
		return "mysql", path.Join("migrations", "mysql"), nil
	default:
		return "", "", fmt.Errorf("no migrations for dialect %q", dialectorName)
	}
}
