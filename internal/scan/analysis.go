package scan

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/reconova/reconova/pkg/config"
)

const analysisSystemPrompt = "You are a security expert. Analyze the following scan output."

const analysisInstructions = "Analyze these results, interpret if there are any vulnerabilities, " +
	"suggest mitigations if there are vulnerabilities or misconfigurations, " +
	"suggest some commands for further scanning, and draw the road map."

// Analyzer produces a natural-language interpretation of raw scan output.
type Analyzer interface {
	Analyze(ctx context.Context, rawOutput string) (string, error)
}

// AnalysisClient talks to an OpenAI-compatible chat-completion endpoint.
// It is deliberately isolated from the rest of the scan pipeline: its
// failures never abort a scan.
type AnalysisClient struct {
	client openai.Client
	model  string
}

func NewAnalysisClient(cfg *config.AnalysisConfig) *AnalysisClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnalysisClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Analyze sends the raw output to the configured model and returns the
// reply text. An empty reply becomes "No response" so callers always get
// something displayable back on a 2xx.
func (c *AnalysisClient) Analyze(ctx context.Context, rawOutput string) (string, error) {
	prompt := rawOutput + "\n" + analysisInstructions

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analysisSystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("analysis request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("analysis response contained no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		reply = "No response"
	}
	return reply, nil
}
