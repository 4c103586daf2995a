package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/tidyhouse/internal/config"
	"github.com/dukerupert/tidyhouse/internal/database"
	"github.com/dukerupert/tidyhouse/internal/logging"
	"github.com/dukerupert/tidyhouse/internal/service"
	"github.com/dukerupert/tidyhouse/internal/store"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tidyhouse",
		Short:         "Household chore tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tidyhouse.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newAgendaCmd(&configPath))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tidyhouse", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the shared setup for every command that touches the database.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *sql.DB
	tracker *service.Tracker
}

func openApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	tracker := service.New(store.NewTaskStore(db), store.NewRoomStore(db), logger.With("component", "tracker"))
	tracker.SetLocation(loc)

	return &app{cfg: cfg, logger: logger, db: db, tracker: tracker}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
