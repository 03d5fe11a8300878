package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-viewer/internal/config"
)

func TestMigrationFilesSortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)

	_, err = migrationFiles(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestRepoMigrationsPresent(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", DefaultMigrationsDir))
	require.NoError(t, err)
	require.Contains(t, files, "001_employees.sql")
}

func TestUnconfiguredDependencies(t *testing.T) {
	ctx := context.Background()

	pg, err := NewPostgres(ctx, config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.False(t, pg.Enabled())
	require.ErrorIs(t, pg.Ping(ctx), ErrNotConfigured)
	pg.Close()

	require.NoError(t, RunMigrations(ctx, nil, DefaultMigrationsDir, zap.NewNop()))

	var r *Redis
	require.False(t, r.Enabled())
	require.ErrorIs(t, r.Ping(ctx), ErrNotConfigured)
	r.Close()
}
