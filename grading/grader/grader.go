/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chainguard.dev/gradekit/evals"
	"chainguard.dev/gradekit/grading"
	"chainguard.dev/gradekit/grading/codegrader"
	"chainguard.dev/gradekit/grading/formatgrader"
	"chainguard.dev/gradekit/grading/modelgrader"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Names of the graders in comprehensive results.
const (
	CodeGrader   = "code_grader"
	ModelGrader  = "model_grader"
	FormatGrader = "format_grader"
)

// DefaultConcurrency bounds concurrent items in GradeBatch.
const DefaultConcurrency = 4

// Names returns the grader names in report order.
func Names() []string {
	return []string{CodeGrader, ModelGrader, FormatGrader}
}

// Results maps grader names to their results.
type Results map[string]grading.Result

// Passed reports whether every result passed.
func (r Results) Passed() bool {
	for _, res := range r {
		if !res.Passed {
			return false
		}
	}
	return len(r) > 0
}

// Grader orchestrates the individual graders. It is safe for concurrent use.
type Grader struct {
	code        *codegrader.Grader
	format      *formatgrader.Grader
	model       *modelgrader.Grader
	concurrency int
	threshold   float64
	scope       func(name string) evals.Observer
}

// Option configures a Grader.
type Option func(*Grader) error

// WithCodeGrader replaces the default code grader.
func WithCodeGrader(g *codegrader.Grader) Option {
	return func(o *Grader) error {
		if g == nil {
			return errors.New("code grader cannot be nil")
		}
		o.code = g
		return nil
	}
}

// WithFormatGrader replaces the default format grader.
func WithFormatGrader(g *formatgrader.Grader) Option {
	return func(o *Grader) error {
		if g == nil {
			return errors.New("format grader cannot be nil")
		}
		o.format = g
		return nil
	}
}

// WithModelGrader replaces the model grader.
func WithModelGrader(g *modelgrader.Grader) Option {
	return func(o *Grader) error {
		if g == nil {
			return errors.New("model grader cannot be nil")
		}
		o.model = g
		return nil
	}
}

// WithConcurrency bounds how many batch items are graded at once.
func WithConcurrency(n int) Option {
	return func(o *Grader) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		o.concurrency = n
		return nil
	}
}

// WithThreshold sets the score below which report results count as below
// threshold.
func WithThreshold(threshold float64) Option {
	return func(o *Grader) error {
		if err := grading.ValidateThreshold(threshold); err != nil {
			return err
		}
		o.threshold = threshold
		return nil
	}
}

// WithObserver records every grader result into the child of obs named
// after the grader. Repeated calls record into every observer given.
func WithObserver[T evals.Observer](obs *evals.NamespacedObserver[T]) Option {
	return func(o *Grader) error {
		if obs == nil {
			return errors.New("observer cannot be nil")
		}
		prev := o.scope
		if prev == nil {
			o.scope = func(name string) evals.Observer { return obs.Child(name) }
			return nil
		}
		o.scope = func(name string) evals.Observer { return evals.Tee(prev(name), obs.Child(name)) }
		return nil
	}
}

// New creates a Grader around model. Code and format graders default to
// their default criteria.
func New(model *modelgrader.Grader, opts ...Option) (*Grader, error) {
	if model == nil {
		return nil, errors.New("model grader cannot be nil")
	}
	code, err := codegrader.New(nil)
	if err != nil {
		return nil, err
	}
	format, err := formatgrader.New(nil)
	if err != nil {
		return nil, err
	}
	g := &Grader{
		code:        code,
		format:      format,
		model:       model,
		concurrency: DefaultConcurrency,
		threshold:   grading.DefaultThreshold,
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// With returns a copy of g with opts applied. g is unchanged.
func (g *Grader) With(opts ...Option) (*Grader, error) {
	c := *g
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// Model returns the model grader.
func (g *Grader) Model() *modelgrader.Grader { return g.model }

// Threshold returns the report threshold.
func (g *Grader) Threshold() float64 { return g.threshold }

// GradeCode runs the code grader.
func (g *Grader) GradeCode(output, language string) grading.Result {
	return g.record(CodeGrader, g.code.Grade(output, language))
}

// GradeFormat runs the format grader. An empty format uses the format
// grader's criteria or detection.
func (g *Grader) GradeFormat(output string, format formatgrader.Format) grading.Result {
	return g.record(FormatGrader, g.format.Grade(output, format))
}

// GradeModel runs the model grader.
func (g *Grader) GradeModel(ctx context.Context, prompt, response string) grading.Result {
	return g.record(ModelGrader, g.model.Grade(ctx, prompt, response))
}

// GradeComprehensive runs the code and model graders, and the format grader
// when includeFormat is set, concurrently. The format is detected from the
// prompt and response unless the format criteria require one.
func (g *Grader) GradeComprehensive(ctx context.Context, prompt, response, language string, includeFormat bool) Results {
	runs := map[string]func() grading.Result{
		CodeGrader:  func() grading.Result { return g.code.Grade(response, language) },
		ModelGrader: func() grading.Result { return g.model.Grade(ctx, prompt, response) },
	}
	if includeFormat {
		runs[FormatGrader] = func() grading.Result { return g.format.GradeWithPrompt(prompt, response, "") }
	}

	var (
		mu      sync.Mutex
		results = make(Results, len(runs))
		eg      errgroup.Group
	)
	for name, run := range runs {
		eg.Go(func() error {
			res := safely(ctx, name, run)
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	for _, name := range Names() {
		if res, ok := results[name]; ok {
			g.record(name, res)
		}
	}
	return results
}

// safely runs one grader, converting a panic into a failed result.
func safely(ctx context.Context, name string, run func() grading.Result) (res grading.Result) {
	defer func() {
		if r := recover(); r != nil {
			clog.FromContext(ctx).With("grader", name).With("panic", fmt.Sprint(r)).
				Error("Grader panicked")
			res = grading.Failed(fmt.Sprintf("%s failed: %v", name, r), map[string]any{
				"error": fmt.Sprint(r),
			})
		}
	}()
	return run()
}

func (g *Grader) record(name string, res grading.Result) grading.Result {
	if g.scope != nil {
		evals.Record(g.scope(name), res)
	}
	return res
}
