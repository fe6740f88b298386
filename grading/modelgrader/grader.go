/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package modelgrader

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"chainguard.dev/gradekit/grading"
	"chainguard.dev/gradekit/llm"
	"chainguard.dev/gradekit/rubric"
	"github.com/chainguard-dev/clog"
	"github.com/invopop/jsonschema"
)

const (
	// DefaultMaxTokens bounds comprehensive rubric replies.
	DefaultMaxTokens = 1000
	// DefaultAspectMaxTokens bounds single-aspect replies.
	DefaultAspectMaxTokens = 500
	// DefaultTemperature keeps grading close to deterministic.
	DefaultTemperature = 0.1
	// NeutralScore is assigned when a reply cannot be interpreted.
	NeutralScore = 5.0
)

// Grader asks a model to grade responses. It is safe for concurrent use.
type Grader struct {
	client          llm.Interface
	threshold       float64
	rubric          *rubric.Template
	maxTokens       int64
	aspectMaxTokens int64
	temperature     float64
	reference       any
}

// Option configures a Grader.
type Option func(*Grader) error

// WithThreshold sets the passing score.
func WithThreshold(threshold float64) Option {
	return func(g *Grader) error {
		if err := grading.ValidateThreshold(threshold); err != nil {
			return err
		}
		g.threshold = threshold
		return nil
	}
}

// WithRubric replaces the comprehensive rubric. The template must contain
// {{prompt}} and {{response}}; {{schema}} and {{reference}} are optional.
func WithRubric(t *rubric.Template) Option {
	return func(g *Grader) error {
		if t == nil {
			return errors.New("rubric cannot be nil")
		}
		if err := t.Require("prompt", "response"); err != nil {
			return fmt.Errorf("invalid rubric: %w", err)
		}
		for _, name := range t.Placeholders() {
			switch name {
			case "prompt", "response", "schema", "reference":
			default:
				return fmt.Errorf("invalid rubric: unsupported placeholder {{%s}}", name)
			}
		}
		g.rubric = t
		return nil
	}
}

// WithMaxTokens bounds comprehensive rubric replies.
func WithMaxTokens(n int64) Option {
	return func(g *Grader) error {
		if n <= 0 {
			return errors.New("max tokens must be positive")
		}
		g.maxTokens = n
		return nil
	}
}

// WithAspectMaxTokens bounds single-aspect replies.
func WithAspectMaxTokens(n int64) Option {
	return func(g *Grader) error {
		if n <= 0 {
			return errors.New("aspect max tokens must be positive")
		}
		g.aspectMaxTokens = n
		return nil
	}
}

// WithTemperature sets the sampling temperature for grading requests.
func WithTemperature(t float64) Option {
	return func(g *Grader) error {
		if t < 0.0 || t > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", t)
		}
		g.temperature = t
		return nil
	}
}

// WithReference sets data describing a good answer, such as an expected
// response or solution criteria. It fills the rubric's {{reference}}
// placeholder as YAML.
func WithReference(ref any) Option {
	return func(g *Grader) error {
		g.reference = ref
		return nil
	}
}

// New creates a Grader that sends rubrics to client.
func New(client llm.Interface, opts ...Option) (*Grader, error) {
	if client == nil {
		return nil, errors.New("model client cannot be nil")
	}
	g := &Grader{
		client:          client,
		threshold:       grading.DefaultThreshold,
		rubric:          comprehensiveRubric,
		maxTokens:       DefaultMaxTokens,
		aspectMaxTokens: DefaultAspectMaxTokens,
		temperature:     DefaultTemperature,
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

// Threshold returns the passing score.
func (g *Grader) Threshold() float64 { return g.threshold }

// Grade applies the comprehensive rubric to response.
func (g *Grader) Grade(ctx context.Context, prompt, response string) grading.Result {
	text, err := render(g.rubric, prompt, response, evaluationSchema(), g.reference)
	if err != nil {
		return grading.Failed(fmt.Sprintf("Model grading failed: %v", err), nil)
	}

	reply, err := g.complete(ctx, text, g.maxTokens)
	if err != nil {
		clog.FromContext(ctx).With("error", err.Error()).Error("Model grading request failed")
		return grading.Failed(fmt.Sprintf("Model grading failed: %v", err), map[string]any{
			"error": err.Error(),
		})
	}

	details := replyDetails(reply)
	eval, err := parse[Evaluation](reply.Text)
	if err == nil {
		if score, ok := eval.overall(); ok {
			aspects := make(map[string]any, 5)
			for a, v := range eval.assessments() {
				score, _ := v.value()
				aspects[string(a)] = map[string]any{"score": score, "reasoning": v.Reasoning}
			}
			details["aspects"] = aspects
			return grading.NewResult(score, g.threshold, overallFeedback(&eval), details)
		}
		err = errors.New("reply has no scores")
	}
	return g.fallback(clog.FromContext(ctx), reply.Text, err, details)
}

// Assess applies the single-aspect rubric for aspect to response.
func (g *Grader) Assess(ctx context.Context, aspect Aspect, prompt, response string) grading.Result {
	instruction, ok := instructions[aspect]
	if !ok {
		return grading.Failed(fmt.Sprintf("Model grading failed: unknown aspect %q", aspect), nil)
	}

	tmpl, err := aspectRubric.BindText("instruction", instruction)
	if err != nil {
		return grading.Failed(fmt.Sprintf("Model grading failed: %v", err), nil)
	}
	text, err := render(tmpl, prompt, response, assessmentSchema(), nil)
	if err != nil {
		return grading.Failed(fmt.Sprintf("Model grading failed: %v", err), nil)
	}

	log := clog.FromContext(ctx).With("aspect", string(aspect))
	reply, err := g.complete(ctx, text, g.aspectMaxTokens)
	if err != nil {
		log.With("error", err.Error()).Error("Model assessment request failed")
		return grading.Failed(fmt.Sprintf("Model grading failed: %v", err), map[string]any{
			"aspect": string(aspect),
			"error":  err.Error(),
		})
	}

	details := replyDetails(reply)
	details["aspect"] = string(aspect)
	a, err := parse[Assessment](reply.Text)
	if err == nil {
		if score, ok := a.value(); ok {
			return grading.NewResult(score, g.threshold, a.Reasoning, details)
		}
		err = errors.New("reply has no score between 1 and 10")
	}
	return g.fallback(log, reply.Text, err, details)
}

// AssessResponseQuality assesses how well response addresses prompt.
func (g *Grader) AssessResponseQuality(ctx context.Context, prompt, response string) grading.Result {
	return g.Assess(ctx, ResponseQuality, prompt, response)
}

// AssessInstructionFollowing assesses how well response follows prompt's instructions.
func (g *Grader) AssessInstructionFollowing(ctx context.Context, prompt, response string) grading.Result {
	return g.Assess(ctx, InstructionFollowing, prompt, response)
}

// AssessCompleteness assesses whether response covers everything prompt asks.
func (g *Grader) AssessCompleteness(ctx context.Context, prompt, response string) grading.Result {
	return g.Assess(ctx, Completeness, prompt, response)
}

// AssessHelpfulness assesses how useful response is.
func (g *Grader) AssessHelpfulness(ctx context.Context, prompt, response string) grading.Result {
	return g.Assess(ctx, Helpfulness, prompt, response)
}

// AssessSafety assesses whether response is safe and appropriate.
func (g *Grader) AssessSafety(ctx context.Context, prompt, response string) grading.Result {
	return g.Assess(ctx, Safety, prompt, response)
}

func (g *Grader) complete(ctx context.Context, text string, maxTokens int64) (*llm.Reply, error) {
	reply, err := g.client.Complete(ctx, &llm.Request{
		System:      systemInstruction,
		Prompt:      text,
		MaxTokens:   maxTokens,
		Temperature: llm.Temperature(g.temperature),
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, errors.New("model returned no reply")
	}
	return reply, nil
}

// fallback scores a reply that did not parse as the expected JSON.
func (g *Grader) fallback(log *clog.Logger, raw string, parseErr error, details map[string]any) grading.Result {
	details["parse_error"] = parseErr.Error()
	log = log.With("error", parseErr.Error())

	if score, ok := salvageScore(raw); ok {
		log.With("score", score).Warn("Model reply was not valid JSON, salvaged score from text")
		details["salvaged"] = true
		return grading.NewResult(score, g.threshold, strings.TrimSpace(raw), details)
	}

	log.Warn("Model reply could not be parsed, assigning neutral score")
	return grading.NewResult(NeutralScore, g.threshold,
		"Could not parse model evaluation; assigned neutral score", details)
}

func render(t *rubric.Template, prompt, response string, schema *jsonschema.Schema, reference any) (string, error) {
	t, err := t.BindXML("prompt", rubric.Element("prompt", prompt))
	if err != nil {
		return "", err
	}
	if t, err = t.BindXML("response", rubric.Element("response", response)); err != nil {
		return "", err
	}
	placeholders := t.Placeholders()
	if slices.Contains(placeholders, "schema") {
		if t, err = t.BindJSON("schema", schema); err != nil {
			return "", err
		}
	}
	if slices.Contains(placeholders, "reference") {
		if reference == nil {
			t, err = t.BindText("reference", "None provided.")
		} else {
			t, err = t.BindYAML("reference", reference)
		}
		if err != nil {
			return "", err
		}
	}
	return t.Render()
}

func replyDetails(reply *llm.Reply) map[string]any {
	return map[string]any{
		"model":         reply.Model,
		"raw_response":  reply.Text,
		"input_tokens":  reply.InputTokens,
		"output_tokens": reply.OutputTokens,
	}
}

func overallFeedback(e *Evaluation) string {
	if e.OverallFeedback != "" {
		return e.OverallFeedback
	}
	var parts []string
	for _, a := range Aspects() {
		if v, ok := e.assessments()[a]; ok && v.Reasoning != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", a, v.Reasoning))
		}
	}
	return strings.Join(parts, "; ")
}
