package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/adapters/postgres"
	"github.com/spigell/assessor/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Manage the database schema",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	Run: func(_ *cobra.Command, args []string) {
		direction := "up"
		if len(args) == 1 {
			direction = args[0]
		}
		migrate(direction)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(direction string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	db, err := connectDatabase(ctx, config)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer db.Close()

	switch direction {
	case "up":
		err = db.MigrateUp(ctx, logger)
	case "down":
		err = db.MigrateDown(ctx, logger)
	case "status":
		var states []postgres.MigrationState
		states, err = db.MigrationStatus(ctx)
		for _, s := range states {
			fmt.Printf("%-6d %-8s %s\n", s.Version, s.State, s.Source)
		}
	}
	if err != nil {
		logger.Fatal("migration failed", zap.String("direction", direction), zap.Error(err))
	}
}
