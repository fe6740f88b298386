/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"

	"chainguard.dev/gradekit/grading/formatgrader"
	"github.com/spf13/cobra"
)

func newDetectCmd() *cobra.Command {
	var (
		prompt   string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "detect FILE",
		Short: "Detect the format of a response (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			output := string(data)
			f := formatgrader.Detect(prompt, output)
			fmt.Fprintln(cmd.OutOrStdout(), f)

			if validate {
				g, err := formatgrader.New(nil)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), g.GradeWithPrompt(prompt, output, f))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "prompt that produced the response")
	cmd.Flags().BoolVar(&validate, "validate", false, "also validate the response as the detected format")
	return cmd
}
