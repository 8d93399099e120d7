package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GTDGit/creator_match_api/internal/config"
	"github.com/GTDGit/creator_match_api/internal/database"
	"github.com/GTDGit/creator_match_api/internal/dataset"
	"github.com/GTDGit/creator_match_api/internal/repository"
)

var (
	seed     int64
	outPath  string
	toDB     bool
	creators int
	products int
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate the demo creator/product dataset",
	Long: `Generates a deterministic mock dataset and writes it as JSON (-o),
imports it into the configured PostgreSQL database (--db), or both.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSeed,
}

func init() {
	rootCmd.Flags().Int64Var(&seed, "seed", 42, "generator seed")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the dataset to this JSON file")
	rootCmd.Flags().BoolVar(&toDB, "db", false, "import the dataset into the configured PostgreSQL database")
	rootCmd.Flags().IntVar(&creators, "creators", dataset.DefaultSizes.Creators, "number of creators")
	rootCmd.Flags().IntVar(&products, "products", dataset.DefaultSizes.Products, "number of products")
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if outPath == "" && !toDB {
		return errors.New("nothing to do: pass --out and/or --db")
	}

	sizes := dataset.DefaultSizes
	sizes.Creators = creators
	sizes.Products = products
	ds := dataset.Generate(seed, sizes)
	log.Info().
		Int64("seed", seed).
		Int("creators", len(ds.Creators)).
		Int("products", len(ds.Products)).
		Int("sales", len(ds.Sales)).
		Msg("dataset generated")

	if outPath != "" {
		if err := writeFile(outPath, ds); err != nil {
			return err
		}
		log.Info().Str("path", outPath).Msg("dataset written")
	}

	if toDB {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()
		if err := importDB(ctx, ds); err != nil {
			return err
		}
		log.Info().Msg("dataset imported")
	}
	return nil
}

func writeFile(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ds.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func importDB(ctx context.Context, ds *dataset.Dataset) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db.DB); err != nil {
		return err
	}
	return repository.ImportDataset(ctx, db, ds)
}
