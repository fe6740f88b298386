/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chainguard.dev/gradekit/evals/report"
	"chainguard.dev/gradekit/evaluator"
	"chainguard.dev/gradekit/grading/grader"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newBatchCmd(opts *options) *cobra.Command {
	var (
		language string
		output   string
		items    bool
	)

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Grade a file of prompt/response pairs and print a report",
		Long: `Grade a JSON or YAML list of {prompt, response} pairs.

Every pair runs through the code, format and model graders. The report
summarizes per-grader statistics against the pass threshold.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			evaluations, err := loadEvaluations(args[0])
			if err != nil {
				return err
			}
			p, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(ctx, opts.env, opts.env.GraderModel)
			if err != nil {
				return err
			}
			obs := newObservers("batch")
			g, err := newGrader(p, client, obs.scope(evaluator.DatasetName(args[0]))...)
			if err != nil {
				return err
			}

			clog.FromContext(ctx).With("evaluations", len(evaluations)).Info("Grading batch")
			results := g.GradeBatch(ctx, evaluations, language)
			rep := g.GenerateReport(results)

			out := cmd.OutOrStdout()
			if items {
				fmt.Fprint(out, report.Items(results))
			}
			fmt.Fprint(out, report.Grading(rep))
			text, below := report.Collected(obs.collected, p.Threshold/10)
			fmt.Fprint(out, "\n### By Grader\n\n"+text)
			if below {
				clog.FromContext(ctx).Warnf("One or more graders fell below threshold %.1f", p.Threshold)
			}

			if output != "" {
				data, err := json.MarshalIndent(struct {
					Results []grader.BatchItem `json:"results"`
					Report  grader.Report      `json:"report"`
				}{results, rep}, "", "    ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "text", "language for the code grader syntax check")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write results and report as JSON to this file")
	cmd.Flags().BoolVar(&items, "items", false, "print per-item results before the report")
	return cmd
}

// loadEvaluations reads prompt/response pairs from a JSON or YAML file.
func loadEvaluations(path string) ([]grader.Evaluation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var evs []grader.Evaluation
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &evs)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &evs)
	default:
		return nil, fmt.Errorf("unsupported input extension %q (expected .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return evs, nil
}
