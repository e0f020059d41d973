package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/config"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/database"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// Linker flags.
var (
	version = "dev"
	commit  = "none"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

var (
	configPath string
	logLevel   string
)

// env is the loaded configuration and open database, set by PersistentPreRunE.
var env struct {
	cfg  *config.AppConfig
	pool *database.Pool
}

var rootCmd = &cobra.Command{
	Use:           "timelinectl",
	Short:         "Operate the annotation service database.",
	Version:       version + " (" + commit + ")",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		_ = godotenv.Load()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		utils.InitLogger(cfg)
		if logLevel != "" {
			if err := utils.SetLogLevel(logLevel); err != nil {
				return err
			}
		}
		env.cfg = cfg

		pool, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		env.pool = pool
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		env.pool.Close()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs/config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(timelinesCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(tokenCmd)
}

// parseCollection reads a collection flag; "root" is the root collection.
func parseCollection(raw string) (*int64, error) {
	if raw == "" || raw == constants.RootCollectionID {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid collection %q: use a positive id or %q", raw, constants.RootCollectionID)
	}
	return &id, nil
}
