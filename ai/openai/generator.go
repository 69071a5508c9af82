// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/kbsearch/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// maxAnswerTokens bounds the length of a generated answer.
const maxAnswerTokens = 512

// Generator implements ai.Generator using an OpenAI-compatible chat API.
type Generator struct {
	client  llms.Model
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

var _ ai.Generator = (*Generator)(nil)

func newGenerator(config *ai.Config, limiter *rate.Limiter) (*Generator, error) {
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(token(config)),
		openai.WithModel(config.GenerativeModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:  client,
		limiter: limiter,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "openai-generator", "model", config.GenerativeModel),
	}, nil
}

// Generate sends prompt as the user message under the answer system prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(answerSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(maxAnswerTokens))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return "", errNoChoices
	}

	answer := cleanCompletion(response.Choices[0].Content)
	if answer == "" {
		return "", errNoChoices
	}
	return answer, nil
}
