/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package llm is the narrow model capability the graders depend on: send one
// rubric request, get one text reply.
//
// Two backends implement Interface. Claude models are reached through the
// Anthropic SDK, either with an API key (NewAnthropic) or through Vertex AI
// (NewVertex). Gemini models are reached through the Google Gen AI SDK on
// Vertex AI. NewVertex picks the backend from the model name prefix.
//
// Every backend retries rate limit and transient server errors with
// exponential backoff (see package retry), records token usage and request
// outcomes as OpenTelemetry metrics, and wraps each call in a trace span.
//
// # Usage
//
//	client, err := llm.NewAnthropic(apiKey, llm.WithModel("claude-3-haiku-20240307"))
//	if err != nil {
//		return err
//	}
//	reply, err := client.Complete(ctx, &llm.Request{
//		System: "You are an expert evaluator.",
//		Prompt: prompt,
//	})
//
// Tests inject a fake Interface instead of a network client.
package llm
