/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"chainguard.dev/gradekit/evals/report"
	"chainguard.dev/gradekit/evaluator"
	"chainguard.dev/gradekit/grading/grader"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

func newEvalCmd(opts *options) *cobra.Command {
	var (
		outputDir   string
		system      string
		maxTokens   int64
		maxFailures int
		failBelow   bool
	)

	cmd := &cobra.Command{
		Use:   "eval DATASET...",
		Short: "Answer dataset prompts with the responder model and grade the answers",
		Long: `Run one or more datasets of test cases. Each case's prompt is sent to
RESPONDER_MODEL and the answer is graded by GRADER_MODEL together with the
code and format graders. Datasets are JSON or YAML lists of test cases.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			datasets := make(map[string][]evaluator.TestCase, len(args))
			order := make([]string, 0, len(args))
			for _, path := range args {
				cases, err := evaluator.LoadDataset(path)
				if err != nil {
					return err
				}
				name := evaluator.DatasetName(path)
				if _, dup := datasets[name]; dup {
					return fmt.Errorf("duplicate dataset name %q", name)
				}
				datasets[name] = cases
				order = append(order, name)
			}

			p, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			judge, err := newClient(ctx, opts.env, opts.env.GraderModel)
			if err != nil {
				return fmt.Errorf("grader model: %w", err)
			}
			responder, err := newClient(ctx, opts.env, opts.env.ResponderModel)
			if err != nil {
				return fmt.Errorf("responder model: %w", err)
			}
			base, err := newGrader(p, judge)
			if err != nil {
				return err
			}

			evalOpts := []evaluator.Option{evaluator.WithSystemPrompt(system)}
			if p.Concurrency > 0 {
				evalOpts = append(evalOpts, evaluator.WithConcurrency(p.Concurrency))
			}
			if maxTokens > 0 {
				evalOpts = append(evalOpts, evaluator.WithMaxTokens(maxTokens))
			}

			obs := newObservers("eval")
			out := cmd.OutOrStdout()
			summaries := make(map[string]*evaluator.Summary, len(order))
			for _, name := range order {
				g, err := base.With(obs.scope(name)...)
				if err != nil {
					return err
				}
				e, err := evaluator.New(responder, g, evalOpts...)
				if err != nil {
					return err
				}
				s := e.Run(ctx, name, datasets[name])
				summaries[name] = s

				fmt.Fprintf(out, "# %s (run %s)\n\n", name, s.RunID)
				fmt.Fprint(out, report.Grading(s.Report))
				printFailures(out, evaluator.AnalyzeFailures(s, maxFailures))
			}

			text, below := report.Collected(obs.collected, p.Threshold/10)
			fmt.Fprint(out, "\n# Summary\n\n"+text)

			if outputDir != "" {
				paths, err := evaluator.SaveAll(outputDir, summaries)
				if err != nil {
					return err
				}
				for _, path := range paths {
					clog.FromContext(ctx).Infof("Results saved to %s", filepath.Clean(path))
				}
			}
			if failBelow && below {
				return errors.New("one or more graders fell below the threshold")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for <dataset>_results.json files")
	cmd.Flags().StringVar(&system, "system", "", "system prompt for the responder model")
	cmd.Flags().Int64Var(&maxTokens, "max-tokens", 0, "maximum tokens in each responder answer")
	cmd.Flags().IntVar(&maxFailures, "max-failures", 5, "number of failure samples to print per dataset")
	cmd.Flags().BoolVar(&failBelow, "fail-below", false, "exit non-zero when any grader averages below the threshold")
	return cmd
}

func printFailures(w io.Writer, a evaluator.FailureAnalysis) {
	if a.FailureCount == 0 {
		fmt.Fprintf(w, "\n%s\n\n", a.Message)
		return
	}
	fmt.Fprintf(w, "\n### Failure Analysis\n\n")
	fmt.Fprintf(w, "- Failures: %d\n", a.FailureCount)
	fmt.Fprintf(w, "- Errors: %d\n", a.ErrorFailures)
	fmt.Fprintf(w, "- Code grader only: %d\n", a.CodeGraderFailures)
	fmt.Fprintf(w, "- Model grader only: %d\n", a.ModelGraderFailures)
	fmt.Fprintf(w, "- Format grader only: %d\n", a.FormatGraderFailures)
	fmt.Fprintf(w, "- Multiple graders: %d\n\n", a.MultipleGraderFailures)

	for _, f := range a.SampleFailures {
		fmt.Fprintf(w, "#### Case %d\n\nPrompt: %s\n\nResponse: %s\n\n", f.Index, f.Prompt, f.ActualResponse)
		if f.FailureReason != "" {
			fmt.Fprintf(w, "%s\n\n", f.FailureReason)
		}
		for _, name := range grader.Names() {
			if fb, ok := f.Feedback[name]; ok {
				fmt.Fprintf(w, "- %s: %s\n", name, fb)
			}
		}
		fmt.Fprintln(w)
	}
}
