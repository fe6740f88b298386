/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grader

import (
	"context"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Evaluation is one prompt and response pair to grade.
type Evaluation struct {
	Prompt   string `json:"prompt" yaml:"prompt"`
	Response string `json:"response" yaml:"response"`
}

// BatchItem is the outcome of grading one Evaluation.
type BatchItem struct {
	Index    int     `json:"index"`
	Prompt   string  `json:"prompt"`
	Response string  `json:"response"`
	Results  Results `json:"results,omitempty"`
	Success  bool    `json:"success"`
	Passed   bool    `json:"passed"`
	Error    string  `json:"error,omitempty"`
}

// GradeBatch grades every evaluation comprehensively, with format grading,
// running at most the configured number of items at once. The returned
// slice has one item per evaluation in input order. Items not started
// before ctx is cancelled are marked unsuccessful.
func (g *Grader) GradeBatch(ctx context.Context, evaluations []Evaluation, language string) []BatchItem {
	items := make([]BatchItem, len(evaluations))
	log := clog.FromContext(ctx)

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, ev := range evaluations {
		eg.Go(func() error {
			item := BatchItem{Index: i, Prompt: ev.Prompt, Response: ev.Response}
			if err := ctx.Err(); err != nil {
				item.Error = err.Error()
				items[i] = item
				return nil
			}

			item.Results = g.GradeComprehensive(ctx, ev.Prompt, ev.Response, language, true)
			item.Success = true
			item.Passed = item.Results.Passed()
			items[i] = item

			log.With("index", i).With("passed", item.Passed).Info("Graded batch item")
			return nil
		})
	}
	_ = eg.Wait()
	return items
}
