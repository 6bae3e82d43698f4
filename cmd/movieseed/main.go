package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"moviedex/dataset"
	"moviedex/movie"
	"moviedex/pkg/config"
	"moviedex/postgres"

	"github.com/spf13/cobra"
)

var limit int

var rootCmd = &cobra.Command{
	Use:   "movieseed [dataset.json|dataset.csv]",
	Short: "Replace the movies table with a dataset",
	Long: `movieseed loads a JSON or CSV movie dataset, or the built-in dataset
when no file is given, and replaces the contents of the movies table
with it in a single transaction. Row order is preserved.

Run migrations first; connection settings come from the DB_* variables.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().IntVar(&limit, "limit", 0, "Limit number of movies to import (0 = all)")
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var loader movie.Loader = dataset.EmbeddedLoader{}
	if len(args) == 1 {
		loader = dataset.FileLoader{Path: args[0]}
	}

	movies, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}
	if limit > 0 && limit < len(movies) {
		movies = movies[:limit]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		return fmt.Errorf("cannot open postgres connection: %w", err)
	}
	defer postgres.Close(db)

	if err := postgres.NewMovieRepository(db).ReplaceAll(ctx, movies); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	slog.Info("import completed", "rows", len(movies))
	return nil
}
