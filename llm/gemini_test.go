/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGenerateConfig(t *testing.T) {
	cfg, err := newConfig(DefaultGeminiModel, []Option{WithMaxTokens(200), WithTemperature(0.4)})
	if err != nil {
		t.Fatalf("newConfig() = %v", err)
	}

	gc := generateConfig(cfg, &Request{Prompt: "p"})
	if gc.MaxOutputTokens != 200 {
		t.Errorf("MaxOutputTokens: got = %d, wanted = 200", gc.MaxOutputTokens)
	}
	if gc.Temperature == nil || *gc.Temperature != float32(0.4) {
		t.Errorf("Temperature: got = %v, wanted = 0.4", gc.Temperature)
	}
	if gc.SystemInstruction != nil {
		t.Error("SystemInstruction: got = set, wanted = nil")
	}
	if gc.ResponseMIMEType != "" {
		t.Errorf("ResponseMIMEType: got = %q, wanted = empty", gc.ResponseMIMEType)
	}

	gc = generateConfig(cfg, &Request{Prompt: "p", System: "judge", JSON: true, MaxTokens: 50, Temperature: Temperature(0)})
	if gc.MaxOutputTokens != 50 {
		t.Errorf("MaxOutputTokens: got = %d, wanted = 50", gc.MaxOutputTokens)
	}
	if gc.Temperature == nil || *gc.Temperature != 0 {
		t.Errorf("Temperature: got = %v, wanted = 0", gc.Temperature)
	}
	if gc.SystemInstruction == nil || gc.SystemInstruction.Parts[0].Text != "judge" {
		t.Errorf("SystemInstruction: got = %v, wanted = judge", gc.SystemInstruction)
	}
	if gc.ResponseMIMEType != "application/json" {
		t.Errorf("ResponseMIMEType: got = %q, wanted = application/json", gc.ResponseMIMEType)
	}
}

func TestGeminiReply(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: `{"score": 7,`},
				{Text: ` "feedback": "ok"}`},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 4,
		},
	}

	reply, err := geminiReply("gemini-2.5-flash", resp)
	if err != nil {
		t.Fatalf("geminiReply() = %v", err)
	}
	if want := `{"score": 7, "feedback": "ok"}`; reply.Text != want {
		t.Errorf("Text: got = %q, wanted = %q", reply.Text, want)
	}
	if reply.InputTokens != 12 || reply.OutputTokens != 4 {
		t.Errorf("tokens: got = %d/%d, wanted = 12/4", reply.InputTokens, reply.OutputTokens)
	}
	if reply.Model != "gemini-2.5-flash" {
		t.Errorf("Model: got = %q, wanted = gemini-2.5-flash", reply.Model)
	}

	if _, err := geminiReply("gemini-2.5-flash", &genai.GenerateContentResponse{}); err == nil {
		t.Error("geminiReply(no candidates): got = nil error, wanted = error")
	}
}

func TestNewGeminiRejectsClaudeModel(t *testing.T) {
	if _, err := NewGemini(&genai.Client{}, WithModel("claude-3-haiku-20240307")); err == nil {
		t.Error("NewGemini(claude model): got = nil error, wanted = error")
	}
}
