/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"log/slog"
	"os"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// options holds the flags shared by every subcommand.
type options struct {
	env         envConfig
	profilePath string
	rubricPath  string
	threshold   float64
	concurrency int
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "gradekit",
		Short:         "Grade LLM responses with code, format and model graders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			return envconfig.Process(cmd.Context(), &opts.env)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.profilePath, "profile", "", "grading profile (YAML, JSON or TOML) with code and format criteria")
	flags.StringVar(&opts.rubricPath, "rubric", "", "file holding a custom model grading rubric")
	flags.Float64Var(&opts.threshold, "threshold", 0, "pass threshold on the 0-10 scale (overrides GRADER_THRESHOLD and the profile)")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "maximum concurrent gradings (overrides GRADER_CONCURRENCY and the profile)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newGradeCmd(opts),
		newBatchCmd(opts),
		newEvalCmd(opts),
		newDetectCmd(),
	)
	return cmd
}
