// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Command movierec queries, trains and evaluates the recommendation models
// from the command line, and can run the HTTP server.
//
//	movierec --user 1 -k 5
//	movierec --movie 1
//	movierec search "toy stry"
//	movierec evaluate --test-frac 0.2 --k 10
//	movierec serve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
