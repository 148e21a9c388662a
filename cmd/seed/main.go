// Command seed loads the reference study catalog into Postgres.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"studytrack-backend/internal/catalog"
	"studytrack-backend/internal/database"
	"studytrack-backend/internal/repository"
)

var (
	catalogFile   string
	databaseURL   string
	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Manage the StudyTrack subject catalog",
	SilenceErrors: true,
	SilenceUsage:  true,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate a catalog file without touching the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := catalog.Load(catalogFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid: %s\n", catalogFile, f.Counts())
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Upsert a catalog file into the database in a single transaction",
	RunE:  runImport,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogFile, "file", "f", "catalog.yaml", "Path to the catalog YAML file")
	importCmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (defaults to $DATABASE_URL)")
	importCmd.Flags().StringVar(&migrationsDir, "migrations", "", "Run migrations from this directory before importing")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := catalog.Load(catalogFile)
	if err != nil {
		return err
	}

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("no database: pass --database-url or set DATABASE_URL")
	}

	pool, err := database.NewPostgresPool(databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrationsDir != "" {
		if err := database.RunMigrations(pool, migrationsDir); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	var sum catalog.Summary
	err = database.WithTx(ctx, pool, func(tx pgx.Tx) error {
		var err error
		sum, err = catalog.Import(ctx, repository.NewCatalogWriter(tx), f)
		return err
	})
	if err != nil {
		return fmt.Errorf("import failed, nothing was written: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s\n", sum)
	return nil
}

func main() {
	godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
