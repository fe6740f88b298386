/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"chainguard.dev/gradekit/grading/codegrader"
	"chainguard.dev/gradekit/grading/formatgrader"
	"chainguard.dev/gradekit/grading/grader"
	"chainguard.dev/gradekit/grading/modelgrader"
	"chainguard.dev/gradekit/llm"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds concurrent test cases in Run.
const DefaultConcurrency = 4

// Evaluator answers test cases with a responder model and grades the
// answers.
type Evaluator struct {
	responder   llm.Interface
	grader      *grader.Grader
	concurrency int
	system      string
	maxTokens   int64
}

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithConcurrency bounds how many test cases run at once.
func WithConcurrency(n int) Option {
	return func(e *Evaluator) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		e.concurrency = n
		return nil
	}
}

// WithSystemPrompt sets the system instruction sent to the responder.
func WithSystemPrompt(s string) Option {
	return func(e *Evaluator) error {
		e.system = s
		return nil
	}
}

// WithMaxTokens bounds responder replies.
func WithMaxTokens(n int64) Option {
	return func(e *Evaluator) error {
		if n <= 0 {
			return errors.New("max tokens must be positive")
		}
		e.maxTokens = n
		return nil
	}
}

// New creates an Evaluator.
func New(responder llm.Interface, g *grader.Grader, opts ...Option) (*Evaluator, error) {
	if responder == nil {
		return nil, errors.New("responder cannot be nil")
	}
	if g == nil {
		return nil, errors.New("grader cannot be nil")
	}
	e := &Evaluator{
		responder:   responder,
		grader:      g,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// CaseResult is the outcome of one test case.
type CaseResult struct {
	Index            int            `json:"index"`
	TestCase         TestCase       `json:"test_case"`
	ActualResponse   string         `json:"actual_response,omitempty"`
	ExpectedResponse string         `json:"expected_response,omitempty"`
	GradingResults   grader.Results `json:"grading_results,omitempty"`
	Passed           bool           `json:"passed"`
	Error            string         `json:"error,omitempty"`
}

// RunTestCase answers and grades one test case. Failures to answer or to
// configure the case's graders are reported in the result's Error.
func (e *Evaluator) RunTestCase(ctx context.Context, tc TestCase) CaseResult {
	res := CaseResult{TestCase: tc, ExpectedResponse: tc.ExpectedResponse}

	g, err := e.graderFor(tc)
	if err != nil {
		res.Error = fmt.Sprintf("invalid grading config: %v", err)
		return res
	}

	reply, err := e.responder.Complete(ctx, &llm.Request{
		System:    e.system,
		Prompt:    tc.Prompt,
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		res.Error = fmt.Sprintf("generating response: %v", err)
		return res
	}
	res.ActualResponse = reply.Text

	_, includeFormat := tc.format()
	if tc.GradingConfig != nil && tc.GradingConfig.Format != nil {
		includeFormat = true
	}
	res.GradingResults = g.GradeComprehensive(ctx, tc.Prompt, reply.Text, tc.language(), includeFormat)
	res.Passed = res.GradingResults.Passed()
	return res
}

// graderFor applies the case's grading configuration to the base grader.
func (e *Evaluator) graderFor(tc TestCase) (*grader.Grader, error) {
	var opts []grader.Option

	if cfg := tc.GradingConfig; cfg != nil && cfg.Code != nil {
		crit, err := cfg.Code.Criteria()
		if err != nil {
			return nil, fmt.Errorf("code: %w", err)
		}
		cg, err := codegrader.New(crit, codegrader.WithThreshold(e.grader.Threshold()))
		if err != nil {
			return nil, err
		}
		opts = append(opts, grader.WithCodeGrader(cg))
	}

	f, hasFormat := tc.format()
	if hasFormat || (tc.GradingConfig != nil && tc.GradingConfig.Format != nil) {
		var cfg formatgrader.Config
		if tc.GradingConfig != nil && tc.GradingConfig.Format != nil {
			cfg = *tc.GradingConfig.Format
		}
		if cfg.RequiredFormat == "" && hasFormat {
			cfg.RequiredFormat = string(f)
		}
		crit, err := cfg.Criteria()
		if err != nil {
			return nil, fmt.Errorf("format: %w", err)
		}
		fg, err := formatgrader.New(crit, formatgrader.WithThreshold(e.grader.Threshold()))
		if err != nil {
			return nil, err
		}
		opts = append(opts, grader.WithFormatGrader(fg))
	}

	if ref := tc.reference(); ref != nil {
		mg, err := e.grader.Model().With(modelgrader.WithReference(ref))
		if err != nil {
			return nil, err
		}
		opts = append(opts, grader.WithModelGrader(mg))
	}

	if len(opts) == 0 {
		return e.grader, nil
	}
	return e.grader.With(opts...)
}

// Summary is the outcome of running one dataset.
type Summary struct {
	RunID       string        `json:"run_id"`
	Dataset     string        `json:"dataset,omitempty"`
	TotalTests  int           `json:"total_tests"`
	PassedTests int           `json:"passed_tests"`
	FailedTests int           `json:"failed_tests"`
	PassRate    float64       `json:"pass_rate"`
	Results     []CaseResult  `json:"results"`
	Report      grader.Report `json:"report"`
}

// Run answers and grades every case, running at most the configured number
// at once. Results keep input order. Cases not started before ctx is
// cancelled are recorded as errors.
func (e *Evaluator) Run(ctx context.Context, dataset string, cases []TestCase) *Summary {
	log := clog.FromContext(ctx).With("dataset", dataset)
	results := make([]CaseResult, len(cases))

	var eg errgroup.Group
	eg.SetLimit(e.concurrency)
	for i, tc := range cases {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = CaseResult{Index: i, TestCase: tc, ExpectedResponse: tc.ExpectedResponse, Error: err.Error()}
				return nil
			}
			log.Infof("Running test case %d/%d", i+1, len(cases))
			res := e.RunTestCase(ctx, tc)
			res.Index = i
			results[i] = res

			switch {
			case res.Error != "":
				log.With("error", res.Error).Warnf("Test case %d errored", i+1)
			case res.Passed:
				log.Infof("Test case %d passed", i+1)
			default:
				log.Infof("Test case %d failed", i+1)
			}
			return nil
		})
	}
	_ = eg.Wait()

	s := &Summary{
		RunID:      uuid.NewString(),
		Dataset:    dataset,
		TotalTests: len(cases),
		Results:    results,
	}
	items := make([]grader.BatchItem, len(results))
	for i, r := range results {
		if r.Passed {
			s.PassedTests++
		}
		items[i] = grader.BatchItem{
			Index:    r.Index,
			Prompt:   r.TestCase.Prompt,
			Response: r.ActualResponse,
			Results:  r.GradingResults,
			Success:  r.Error == "",
			Passed:   r.Passed,
			Error:    r.Error,
		}
	}
	s.FailedTests = s.TotalTests - s.PassedTests
	if s.TotalTests > 0 {
		s.PassRate = float64(s.PassedTests) / float64(s.TotalTests)
	}
	s.Report = e.grader.GenerateReport(items)

	log.With("passed", s.PassedTests).With("total", s.TotalTests).
		Infof("Evaluation complete: %d/%d tests passed (%.2f%%)", s.PassedTests, s.TotalTests, s.PassRate*100)
	return s
}

// RunBatch runs each named dataset in name order.
func (e *Evaluator) RunBatch(ctx context.Context, datasets map[string][]TestCase) map[string]*Summary {
	out := make(map[string]*Summary, len(datasets))
	for _, name := range slices.Sorted(maps.Keys(datasets)) {
		out[name] = e.Run(ctx, name, datasets[name])
	}
	for _, name := range slices.Sorted(maps.Keys(out)) {
		s := out[name]
		clog.FromContext(ctx).Infof("%s: %d/%d passed (%.2f%%)", name, s.PassedTests, s.TotalTests, s.PassRate*100)
	}
	return out
}
