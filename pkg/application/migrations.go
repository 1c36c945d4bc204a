package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

// MigrationManager applies the schema migrations modules register. Each module
// embeds goose-annotated SQL files; version numbers are namespaced per module
// (core 1xxxx, staffing 2xxxx) so all schemas share one version table.
type MigrationManager interface {
	RegisterSchema(fsys *embed.FS)
	Run(ctx context.Context) error
	Rollback(ctx context.Context) error
}

func NewMigrationManager(pool *pgxpool.Pool, logger *logrus.Logger) MigrationManager {
	return &migrationManager{pool: pool, logger: logger}
}

type schemaSource struct {
	fsys *embed.FS
	dir  string
}

type migrationManager struct {
	pool    *pgxpool.Pool
	logger  *logrus.Logger
	schemas []schemaSource
}

func (m *migrationManager) RegisterSchema(fsys *embed.FS) {
	dir, err := findSQLDir(fsys)
	if err != nil {
		panic(fmt.Sprintf("migrations: %v", err))
	}
	m.schemas = append(m.schemas, schemaSource{fsys: fsys, dir: dir})
}

func (m *migrationManager) Run(ctx context.Context) error {
	if len(m.schemas) == 0 {
		return nil
	}

	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	if m.logger != nil {
		goose.SetLogger(m.logger)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	for _, src := range m.schemas {
		goose.SetBaseFS(src.fsys)
		if err := goose.UpContext(ctx, db, src.dir); err != nil {
			goose.SetBaseFS(nil)
			return fmt.Errorf("migrations: up %s: %w", src.dir, err)
		}
	}
	goose.SetBaseFS(nil)
	return nil
}

// Rollback undoes the most recent migration version.
func (m *migrationManager) Rollback(ctx context.Context) error {
	if len(m.schemas) == 0 {
		return nil
	}

	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	if m.logger != nil {
		goose.SetLogger(m.logger)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	// The latest applied version can live in any registered schema; goose
	// resolves it against the version table, so try sources until one matches.
	var lastErr error
	for i := len(m.schemas) - 1; i >= 0; i-- {
		src := m.schemas[i]
		goose.SetBaseFS(src.fsys)
		err := goose.DownContext(ctx, db, src.dir)
		goose.SetBaseFS(nil)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("migrations: down: %w", lastErr)
}

func findSQLDir(fsys *embed.FS) (string, error) {
	var dir string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".sql") {
			return nil
		}
		dir = path.Dir(p)
		return fs.SkipAll
	})
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", fmt.Errorf("no .sql files in registered schema FS")
	}
	return dir, nil
}
