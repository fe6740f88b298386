/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"chainguard.dev/gradekit/evals/report"
	"chainguard.dev/gradekit/grading/grader"
	"github.com/spf13/cobra"
)

func newGradeCmd(opts *options) *cobra.Command {
	var (
		prompt       string
		response     string
		responseFile string
		language     string
		format       bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade a single response with every grader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if responseFile != "" {
				data, err := readInput(cmd.InOrStdin(), responseFile)
				if err != nil {
					return err
				}
				response = string(data)
			}
			if response == "" {
				return errors.New("a response is required (--response or --response-file)")
			}

			p, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(ctx, opts.env, opts.env.GraderModel)
			if err != nil {
				return err
			}
			g, err := newGrader(p, client)
			if err != nil {
				return err
			}

			results := g.GradeComprehensive(ctx, prompt, response, language, format)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Items([]grader.BatchItem{{
				Prompt:   prompt,
				Response: response,
				Results:  results,
				Success:  true,
				Passed:   results.Passed(),
			}}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "prompt that produced the response")
	cmd.Flags().StringVarP(&response, "response", "r", "", "response to grade")
	cmd.Flags().StringVarP(&responseFile, "response-file", "f", "", "read the response from a file (- for stdin)")
	cmd.Flags().StringVarP(&language, "language", "l", "text", "language for the code grader syntax check")
	cmd.Flags().BoolVar(&format, "format", true, "include the format grader")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
