// Package cli implements the cpicalc command line: the HTTP server, index
// imports and one-off calculations against the configured store.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warp/cpi-engine/config"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// flagKeys maps persistent flags onto configuration keys. A flag that is
// set wins over the environment.
var flagKeys = map[string]string{
	"driver":       "STORE_DRIVER",
	"sqlite-path":  "SQLITE_PATH",
	"database-url": "DATABASE_URL",
	"seed":         "SEED_PATH",
	"era-table":    "ERA_TABLE_PATH",
	"log-level":    "LOG_LEVEL",
	"log-format":   "LOG_FORMAT",
}

func NewRootCmd() *cobra.Command {
	var envFile string
	var a *app
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "cpicalc",
		Short:        "Consumer price index calculator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			for flag, key := range flagKeys {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			if envFile == "" {
				envFile = config.FindEnvFile()
			}
			cfg, err := config.Load(v, envFile)
			if err != nil {
				return err
			}
			a, err = newApp(cmd.Context(), cfg)
			return err
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", "", "path to a .env file (default: search upwards from the working directory)")
	pf.String("driver", "", "index store: sqlite, postgres or memory")
	pf.String("sqlite-path", "", "SQLite database file")
	pf.String("database-url", "", "PostgreSQL connection string")
	pf.String("seed", "", "YAML seed imported when the store is empty")
	pf.String("era-table", "", "YAML era boundary table")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text or json)")

	appFn := func() *app { return a }
	cmd.AddCommand(
		serveCmd(appFn),
		importCmd(appFn),
		changeCmd(appFn),
		seriesCmd(appFn),
		classifyCmd(appFn),
	)
	return cmd
}
