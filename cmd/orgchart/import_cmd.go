package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-viewer/internal/persistence"
	"github.com/spec-kit/orgchart-viewer/internal/repository"
)

type importOutput struct {
	Command    string   `json:"command"`
	Source     string   `json:"source"`
	Imported   int64    `json:"imported"`
	Warnings   []string `json:"warnings,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var (
		file          string
		url           string
		strict        bool
		migrationsDir string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the employees table with a CSV roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			logger := loggerOrNop(root.logger)
			if cfg.Postgres.DSN == "" {
				return withCode(exitUsage, errors.New("import requires POSTGRES_DSN"))
			}

			start := time.Now()
			loader, err := csvLoader(root, file, url, strict)
			if err != nil {
				return err
			}
			result, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pg.Close()

			if err := persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), migrationsDir, logger); err != nil {
				return withCode(exitDB, err)
			}

			n, err := repository.NewEmployeeRepository(pg.PoolHandle()).ReplaceAll(cmd.Context(), result.Employees)
			if err != nil {
				return withCode(exitDB, err)
			}
			logger.Info("roster imported", zap.String("source", result.Source), zap.Int64("rows", n))

			return writeJSON(cmd.OutOrStdout(), importOutput{
				Command:    "import",
				Source:     result.Source,
				Imported:   n,
				Warnings:   result.Warnings(),
				DurationMS: time.Since(start).Milliseconds(),
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "data.csv", "Roster CSV file to import")
	cmd.Flags().StringVar(&url, "url", "", "Fetch the roster CSV from a URL instead of --file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Abort on the first invalid row instead of skipping it")
	cmd.Flags().StringVar(&migrationsDir, "migrations", persistence.DefaultMigrationsDir, "Directory of SQL migrations to apply first")
	return cmd
}
