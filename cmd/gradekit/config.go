/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"chainguard.dev/gradekit/evals"
	"chainguard.dev/gradekit/grading"
	"chainguard.dev/gradekit/grading/codegrader"
	"chainguard.dev/gradekit/grading/formatgrader"
	"chainguard.dev/gradekit/grading/grader"
	"chainguard.dev/gradekit/grading/modelgrader"
	"chainguard.dev/gradekit/llm"
	"chainguard.dev/gradekit/rubric"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type envConfig struct {
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY"`
	GraderModel     string  `env:"GRADER_MODEL,default=claude-3-haiku-20240307"`
	ResponderModel  string  `env:"RESPONDER_MODEL,default=claude-3-haiku-20240307"`
	Project         string  `env:"GOOGLE_CLOUD_PROJECT"`
	Region          string  `env:"VERTEX_REGION,default=us-east5"`
	Concurrency     int     `env:"GRADER_CONCURRENCY,default=4"`
	Threshold       float64 `env:"GRADER_THRESHOLD,default=7.0"`
}

// profile is a grading profile file.
type profile struct {
	Threshold   float64             `mapstructure:"threshold"`
	Concurrency int                 `mapstructure:"concurrency"`
	Rubric      string              `mapstructure:"rubric"`
	Code        codegrader.Config   `mapstructure:"code"`
	Format      formatgrader.Config `mapstructure:"format"`
}

// loadProfile reads a grading profile. The file type follows the extension.
func loadProfile(path string, env envConfig) (*profile, error) {
	v := viper.New()
	v.SetDefault("threshold", env.Threshold)
	v.SetDefault("concurrency", env.Concurrency)
	if path == "" {
		return &profile{Threshold: env.Threshold, Concurrency: env.Concurrency}, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	return &p, nil
}

// settings resolves the effective profile: flags override the profile,
// which overrides the environment.
func (o *options) settings(cmd *cobra.Command) (*profile, error) {
	p, err := loadProfile(o.profilePath, o.env)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("threshold"); f != nil && f.Changed {
		p.Threshold = o.threshold
	}
	if f := cmd.Flags().Lookup("concurrency"); f != nil && f.Changed {
		p.Concurrency = o.concurrency
	}
	if o.rubricPath != "" {
		p.Rubric = o.rubricPath
	}
	if err := grading.ValidateThreshold(p.Threshold); err != nil {
		return nil, err
	}
	return p, nil
}

// newClient picks Vertex AI when a project is configured and the Anthropic
// API otherwise.
func newClient(ctx context.Context, env envConfig, model string) (llm.Interface, error) {
	if env.Project != "" {
		clog.FromContext(ctx).With("project", env.Project).With("region", env.Region).Infof("Using Vertex AI model %s", model)
		return llm.NewVertex(ctx, env.Project, env.Region, model)
	}
	if env.AnthropicAPIKey == "" {
		return nil, errors.New("set ANTHROPIC_API_KEY or GOOGLE_CLOUD_PROJECT")
	}
	return llm.NewAnthropic(env.AnthropicAPIKey, []llm.Option{llm.WithModel(model)})
}

// newGrader builds the orchestrator from a profile around client.
func newGrader(p *profile, client llm.Interface, extra ...grader.Option) (*grader.Grader, error) {
	modelOpts := []modelgrader.Option{modelgrader.WithThreshold(p.Threshold)}
	if p.Rubric != "" {
		data, err := os.ReadFile(p.Rubric)
		if err != nil {
			return nil, fmt.Errorf("reading rubric: %w", err)
		}
		t, err := rubric.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing rubric %s: %w", p.Rubric, err)
		}
		modelOpts = append(modelOpts, modelgrader.WithRubric(t))
	}
	mg, err := modelgrader.New(client, modelOpts...)
	if err != nil {
		return nil, err
	}

	codeCrit, err := p.Code.Criteria()
	if err != nil {
		return nil, fmt.Errorf("code criteria: %w", err)
	}
	cg, err := codegrader.New(codeCrit, codegrader.WithThreshold(p.Threshold))
	if err != nil {
		return nil, err
	}
	formatCrit, err := p.Format.Criteria()
	if err != nil {
		return nil, fmt.Errorf("format criteria: %w", err)
	}
	fg, err := formatgrader.New(formatCrit, formatgrader.WithThreshold(p.Threshold))
	if err != nil {
		return nil, err
	}

	opts := []grader.Option{
		grader.WithCodeGrader(cg),
		grader.WithFormatGrader(fg),
		grader.WithThreshold(p.Threshold),
	}
	if p.Concurrency > 0 {
		opts = append(opts, grader.WithConcurrency(p.Concurrency))
	}
	return grader.New(mg, append(opts, extra...)...)
}

// observers holds the observer trees a run records into: one collects
// results for the end-of-run report, the other exports them as Prometheus
// metrics.
type observers struct {
	collected *evals.NamespacedObserver[*evals.ResultCollector]
	metrics   *evals.NamespacedObserver[*evals.MetricsObserver]
}

func newObservers(suite string) *observers {
	return &observers{
		collected: evals.NewNamespacedObserver(func(string) *evals.ResultCollector {
			return evals.NewResultCollector(nil)
		}),
		metrics: evals.NewNamespacedObserver(func(ns string) *evals.MetricsObserver {
			return evals.NewMetricsObserver(suite, ns)
		}),
	}
}

// scope returns grader options that record into the name namespace of
// both trees.
func (o *observers) scope(name string) []grader.Option {
	return []grader.Option{
		grader.WithObserver(o.collected.Child(name)),
		grader.WithObserver(o.metrics.Child(name)),
	}
}
