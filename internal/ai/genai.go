// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// genaiProvider implements the Provider interface with the official Google
// Gen AI SDK against the Gemini API backend.
type genaiProvider struct {
	client *genai.Client
	model  string
}

// newGenAI creates a provider backed by a genai.Client. BaseURL, when set,
// replaces the public endpoint (used by tests and regional gateways).
func newGenAI(ctx context.Context, cfg ProviderConfig) (*genaiProvider, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &genaiProvider{client: client, model: cfg.Model}, nil
}

func (p *genaiProvider) Name() string { return "genai" }

// Generate calls Models.GenerateContent with the system prompt as the
// system instruction.
func (p *genaiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var config *genai.GenerateContentConfig
	if systemPrompt != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(userPrompt), config)
	if err != nil {
		return "", fmt.Errorf("genai generate: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("genai: no candidates returned")
	}
	return resp.Text(), nil
}
