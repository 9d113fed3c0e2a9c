package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warp/cpi-engine/store/seed"
)

func importCmd(appFn func() *app) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Append published index values from YAML seed files",
		Long: "Each record is stored as a new revision; a value imported twice for the\n" +
			"same month replaces the earlier one in lookups without deleting it.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			for _, path := range args {
				records, err := seed.Load(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				n, err := seed.Import(cmd.Context(), a.backend, records, batchSize)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				a.log.WithFields(logrus.Fields{"file": path, "records": n}).Debug("import finished")
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d records from %s\n", n, path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", seed.DefaultBatchSize, "records per transaction")
	return cmd
}
