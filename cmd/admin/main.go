// Command admin is the back-office CLI: seeding, user bootstrap and offline
// reports against the same database the server uses.
package main

import (
	"fmt"
	"os"

	"tresetapas/internal/config"
	"tresetapas/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Tres Etapas back-office CLI",
	Long:  "Seeds reference data, bootstraps admin users and runs inventory reports from the terminal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	},
}

func init() {
	// Database
	rootCmd.AddCommand(seedCmd)

	// Users
	rootCmd.AddCommand(crearAdminCmd)
	rootCmd.AddCommand(hashCmd)

	// Reports
	rootCmd.AddCommand(rotacionCmd)
	rootCmd.AddCommand(exportarCmd)
}

// bootDB loads config and opens a migrated connection.
func bootDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	return cfg, db, nil
}
