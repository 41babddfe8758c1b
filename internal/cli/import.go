package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"quiz-analytics/internal/analytics"
	"quiz-analytics/internal/config"
	pgstore "quiz-analytics/internal/infra/postgres"
	"quiz-analytics/internal/infra/sheet"
)

// NewImportCmd loads workbooks from disk into Postgres under a dataset name.
func NewImportCmd(configPath *string) *cobra.Command {
	var (
		dataDir string
		dataset string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import quiz workbooks into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if dataDir == "" {
				dataDir = cfg.Data.Dir
			}

			ds, err := sheet.NewLoader(dataDir).LoadDataset(cmd.Context(), "")
			if err != nil {
				return err
			}
			if err := analytics.Validate(ds); err != nil {
				return err
			}

			db := pgstore.OpenDB(cfg.Postgres.URL)
			defer db.Close()
			if err := pgstore.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			if err := pgstore.NewDatasetImporter(db).Import(cmd.Context(), dataset, ds); err != nil {
				return err
			}

			// Drop cached copies so running servers sharing the cache see the new rows.
			d, err := wireService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.close()
			if err := d.service.Invalidate(cmd.Context(), dataset); err != nil {
				return err
			}

			slog.Info("dataset imported", "dataset", dataset,
				"questions", len(ds.Questions), "votes", len(ds.Votes), "answers", len(ds.AnswerKey))
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory holding the workbooks (defaults to data.dir)")
	cmd.Flags().StringVar(&dataset, "dataset", "default", "dataset name to store rows under")
	return cmd
}
