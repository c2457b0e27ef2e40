package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/patterns"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/report"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/seed"
)

// shutdownTimeout bounds the cleanup after a command, whatever its outcome.
const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		reseed   bool
		selector string
	)

	cmd := &cobra.Command{
		Use:   "forensics",
		Short: "Seed a Neo4j investigation graph and run the forensic pattern queries.",
		Long: "forensics models people, phone numbers, companies, places, flights and employment as a\n" +
			"Neo4j graph and runs a fixed set of read-only pattern queries to surface suspicious links.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected, err := patterns.Select(selector)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nUnrecognized pattern: `%s`\n", selector)
				_ = patterns.Describe(cmd.ErrOrStderr())
				return err
			}
			return a.run(cmd.Context(), func(ctx context.Context) error {
				if reseed {
					if err := a.seed(ctx); err != nil {
						return err
					}
				}
				return a.analyse(ctx, cmd.OutOrStdout(), selected)
			})
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (YAML); FORENSICS_* variables override it")
	cmd.Flags().BoolVar(&reseed, "seed", false, "empty the database and seed it with generated data before the analysis")
	cmd.Flags().StringVar(&selector, "pattern", patterns.All, "pattern to run: 1-5, or * for all")

	cmd.AddCommand(newDumpCmd(a), newLoadCmd(a), newInspectCmd(a))
	return cmd
}

// run opens the application, runs fn and always closes it again.
func (a *app) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if cerr := a.close(closeCtx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := a.open(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

func (a *app) seed(ctx context.Context) error {
	seeder := seed.NewSeeder(a.store, a.cfg.Seed.ChunkSize, a.logger, a.options(a.cfg.Neo4j.BatchTimeout)...)
	steps, err := seeder.Run(ctx, seed.NewGenerator(a.cfg.Seed.RandomSeed), a.counts())
	logSteps(a.logger, steps)
	return err
}

func (a *app) counts() seed.Counts {
	return seed.Counts{
		People:     a.cfg.Seed.People,
		Calls:      a.cfg.Seed.Calls,
		Flights:    a.cfg.Seed.Flights,
		Employment: a.cfg.Seed.Employment,
	}
}

func (a *app) analyse(ctx context.Context, out io.Writer, selected []patterns.Pattern) error {
	w := report.NewWriter(out)
	for _, p := range selected {
		timeout := a.cfg.Neo4j.QueryTimeout
		if _, ok := p.(patterns.MonthlyFrequentFlyers); ok {
			timeout = a.cfg.Neo4j.BatchTimeout
		}

		start := time.Now()
		tables, err := p.Run(ctx, a.store, a.options(timeout)...)
		if err != nil {
			return err
		}
		a.logger.Debug("Pattern executed", zap.String("pattern", p.ID()), zap.Int("tables", len(tables)))
		if err := w.Pattern(p, tables, time.Since(start)); err != nil {
			return err
		}
	}
	return nil
}

func logSteps(logger *zap.Logger, steps []seed.Step) {
	for _, s := range steps {
		logger.Info("Seeded",
			zap.String("kind", s.Kind),
			zap.Int("statements", s.Stats.Statements),
			zap.Int("chunks", s.Stats.Chunks))
	}
}
