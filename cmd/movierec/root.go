// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/movierec/internal/app"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli holds flag values and the configuration resolved from them.
type cli struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string
	logFormat  string
	dataDir    string
	modelDir   string
	jsonOutput bool

	cfg *config.Config
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	var (
		userID  int
		movieID int
		k       int
	)

	root := &cobra.Command{
		Use:           "movierec",
		Short:         "movierec: hybrid movie recommender",
		Long:          "movierec recommends movies from MovieLens ratings with user-user collaborative filtering and TF-IDF genre similarity.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			wantUser := cmd.Flags().Changed("user")
			wantMovie := cmd.Flags().Changed("movie")
			if !wantUser && !wantMovie {
				return cmd.Help()
			}
			return c.runQuery(cmd.Context(), wantUser, userID, wantMovie, movieID, k)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.Flags().IntVar(&userID, "user", 0, "User ID for CF recs")
	root.Flags().IntVar(&movieID, "movie", 0, "Movie ID for similar (content)")
	root.Flags().IntVarP(&k, "k", "k", 10, "Number of results")

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "Config file (default: CONFIG_PATH or ./config.yaml)")
	pf.StringVar(&c.logLevel, "log-level", "", "Log level override: trace, debug, info, warn, error")
	pf.StringVar(&c.logFormat, "log-format", "console", "Log format: json or console")
	pf.StringVar(&c.dataDir, "data-dir", "", "Directory holding ratings.csv and movies.csv")
	pf.StringVar(&c.modelDir, "model-dir", "", "Directory holding trained models")
	pf.BoolVar(&c.jsonOutput, "json", false, "Print results as JSON")

	root.AddCommand(
		newServeCommand(c),
		newDownloadCommand(c),
		newTrainCommand(c),
		newEvaluateCommand(c),
		newSearchCommand(c),
		newVersionCommand(c),
	)
	return root
}

// setup loads configuration, applies flag overrides and initializes logging.
func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.dataDir != "" {
		cfg.Data.Dir = c.dataDir
	}
	if c.modelDir != "" {
		cfg.Models.Dir = c.modelDir
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    c.logFormat,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    c.errOut,
	})

	c.cfg = cfg
	return nil
}

// bootApp assembles and boots the engine, loading stored models when present.
func (c *cli) bootApp(ctx context.Context, opts app.Options) (*app.App, error) {
	if opts.Progress == nil {
		opts.Progress = c.errOut
	}
	a, err := app.New(c.cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := a.Boot(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (c *cli) runQuery(ctx context.Context, wantUser bool, userID int, wantMovie bool, movieID, k int) error {
	if k < 1 {
		return fmt.Errorf("k must be positive, got %d", k)
	}

	a, err := c.bootApp(ctx, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	var result queryResult
	if wantUser {
		if result.CF, err = a.Engine.RecommendForUser(userID, k); err != nil {
			return err
		}
	}
	if wantMovie {
		if result.Content, err = a.Engine.SimilarMovies(movieID, k); err != nil {
			return err
		}
	}

	if c.jsonOutput {
		return writeJSON(c.out, result)
	}
	if wantUser {
		printScored(c.out, "Top CF Recs:", result.CF)
	}
	if wantMovie {
		printScored(c.out, "Top Similar Movies (Content):", result.Content)
	}
	return nil
}
