package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"quiz-analytics/internal/app"
	"quiz-analytics/internal/config"
	"quiz-analytics/internal/infra/sheet"
)

// NewReportCmd prints one report as JSON.
func NewReportCmd(configPath *string) *cobra.Command {
	var (
		dataDir string
		topN    int
	)
	cmd := &cobra.Command{
		Use:   "report [dataset]",
		Short: "Compute the analytics report for a dataset and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			if topN == 0 {
				topN = cfg.TopN()
			}

			var service *app.ReportService
			if dataDir != "" {
				service = app.NewReportService(sheet.NewLoader(dataDir), nil, nil)
			} else {
				d, err := wireService(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer d.close()
				service = d.service
			}

			report, err := service.Build(cmd.Context(), source, topN)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory holding Que_Ans, Voter and Correct_Answers workbooks")
	cmd.Flags().IntVar(&topN, "top", 0, "rows per ranking (defaults to report.top_n)")
	return cmd
}
