// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/movierec/internal/app"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/recommend"
)

func newServeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := c.bootApp(ctx, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			logging.Info().
				Str("addr", c.cfg.Server.Addr()).
				Int("movies", a.Engine.Status().Movies).
				Msg("Serving recommendations")
			return a.Serve(ctx)
		},
	}
}

func newDownloadCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Download the MovieLens dataset if a table is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := app.NewLoader(c.cfg, c.errOut)
			if err != nil {
				return err
			}
			// An explicit download always fetches when files are missing.
			loader.AutoDownload = true
			if err := loader.Ensure(cmd.Context()); err != nil {
				return err
			}
			ratings, movies := loader.Paths()
			fmt.Fprintf(c.out, "ratings: %s\nmovies: %s\n", ratings, movies)
			return nil
		},
	}
}

func newTrainCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train both models and save them to the model store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.cfg.Models.RetrainOnStart = true
			a, err := c.bootApp(cmd.Context(), app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			status := a.Engine.Status()
			if c.jsonOutput {
				return writeJSON(c.out, status)
			}
			fmt.Fprintf(c.out, "trained %d users, %d movies, %d ratings into %s\n",
				status.Users, status.Movies, status.Ratings, c.cfg.Models.Dir)
			return nil
		},
	}
}

func newEvaluateCommand(c *cli) *cobra.Command {
	var (
		testFrac float64
		k        int
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score CF recommendations against each user's latest ratings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("test-frac") {
				testFrac = c.cfg.Evaluate.TestFrac
			}
			if !cmd.Flags().Changed("k") {
				k = c.cfg.Evaluate.K
			}

			loader, err := app.NewLoader(c.cfg, c.errOut)
			if err != nil {
				return err
			}
			ds, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			res, err := recommend.Evaluate(cmd.Context(), ds, recommend.EvalConfig{
				TestFrac:  testFrac,
				K:         k,
				Neighbors: c.cfg.Recommend.Neighbors,
			})
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return writeJSON(c.out, res)
			}
			fmt.Fprintf(c.out, "Precision@%d: %.4f\nRecall@%d: %.4f\n", res.K, res.Precision, res.K, res.Recall)
			fmt.Fprintf(c.out, "users: %d, train: %d, test: %d\n", res.Users, res.TrainRatings, res.TestRatings)
			return nil
		},
	}

	cmd.Flags().Float64Var(&testFrac, "test-frac", 0.2, "Share of each user's latest ratings held out")
	cmd.Flags().IntVar(&k, "k", 10, "Recommendation list length scored")
	return cmd
}

func newSearchCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search movie titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.bootApp(cmd.Context(), app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			refs, err := a.Engine.SearchTitle(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if c.jsonOutput {
				if refs == nil {
					refs = []recommend.MovieRef{}
				}
				return writeJSON(c.out, refs)
			}
			printRefs(c.out, refs)
			return nil
		},
	}
}

func newVersionCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip configuration and logging setup.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(c.out, version)
		},
	}
}
