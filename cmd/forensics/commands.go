package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/config"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/logging"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/seed"
)

// DatasetFile is the file name dump writes into its target directory.
const DatasetFile = "dataset.yaml"

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <dir>",
		Short: "Generate a dataset and write it as YAML, without touching the database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Logging)
			defer func() { _ = logger.Sync() }()

			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			ds, err := seed.NewGenerator(cfg.Seed.RandomSeed).Generate(seed.Counts{
				People:     cfg.Seed.People,
				Calls:      cfg.Seed.Calls,
				Flights:    cfg.Seed.Flights,
				Employment: cfg.Seed.Employment,
			})
			if err != nil {
				return err
			}
			path := filepath.Join(dir, DatasetFile)
			if err := ds.SaveFile(path); err != nil {
				return fmt.Errorf("write dataset: %w", err)
			}
			logger.Info("Dataset written", zap.String("path", path), zap.Int("entities", ds.Len()))
			return nil
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Empty the database and seed it from a YAML dataset.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := seed.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}
			return a.run(cmd.Context(), func(ctx context.Context) error {
				seeder := seed.NewSeeder(a.store, a.cfg.Seed.ChunkSize, a.logger, a.options(a.cfg.Neo4j.BatchTimeout)...)
				steps, err := seeder.Replace(ctx, ds)
				logSteps(a.logger, steps)
				return err
			})
		},
	}
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <personId>",
		Short: "Print a person's phone numbers, flights and employers as a JSON graph.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				explorer := graph.NewExplorer(a.store, a.options(a.cfg.Neo4j.QueryTimeout)...)
				result, err := explorer.FindGraph(ctx, neighbourhood(args[0])...)
				if err != nil {
					return fmt.Errorf("inspect %s: %w", args[0], err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			})
		},
	}
}

// neighbourhood returns the queries describing a person's registered numbers, flights and
// employers.
func neighbourhood(personID string) []*gocypher.QueryBuilder {
	person := func() *gocypher.QueryBuilder {
		return gocypher.NewQueryBuilder().
			Match(gocypher.N("p", "Person").WithProperties(map[string]interface{}{"id": personID}))
	}
	return []*gocypher.QueryBuilder{
		person().
			Match(gocypher.N("n", "PhoneNumber"), gocypher.R("r", "REGISTERED_TO").To(), gocypher.NRef("p")).
			Return("p", "r", "n"),
		person().
			Match(gocypher.NRef("p"), gocypher.R("t", "TOOK").To(), gocypher.N("f", "Flight")).
			Return("p", "t", "f"),
		person().
			Match(gocypher.NRef("p"), gocypher.R("e", "EMPLOYEE_AT").To(), gocypher.N("c", "Company")).
			Return("p", "e", "c"),
	}
}
