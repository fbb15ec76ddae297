package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/xyrille1/SuiCare/internal/logger"
	"github.com/xyrille1/SuiCare/internal/metrics"
	"google.golang.org/genai"
)

var fallbackSuggestions = []uint64{10, 50, 100}

const suggestionPrompt = `A user is considering donating to a campaign with the following details:
- Title: %s
- Description: %s
- Goal: %d SUI

Based on this information, suggest three donation amounts (integers) that are appropriate and encouraging.
The suggestions should be relative to the campaign's goal.
Respond with JSON of the form {"suggestions": [a, b, c]}.`

// TextGenerator 文本生成接口
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator 基于 Gemini 的文本生成
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator 创建 Gemini 客户端
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate 以 JSON 输出模式生成内容
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// SuggestionLogic 捐赠金额建议
type SuggestionLogic struct {
	generator TextGenerator
}

// NewSuggestionLogic generator 为 nil 时始终返回默认建议
func NewSuggestionLogic(generator TextGenerator) *SuggestionLogic {
	return &SuggestionLogic{generator: generator}
}

// Suggest 返回三个建议金额（整数 SUI），失败时回退到默认值
func (s *SuggestionLogic) Suggest(ctx context.Context, title, description string, goal uint64) []uint64 {
	if s.generator == nil {
		return fallback(goal)
	}

	text, err := s.generator.Generate(ctx, fmt.Sprintf(suggestionPrompt, title, description, goal))
	if err != nil {
		logger.Warn("Error fetching donation suggestions: %v", err)
		return fallback(goal)
	}

	amounts, err := parseSuggestions(text)
	if err != nil {
		logger.Warn("Discarding donation suggestions: %v", err)
		return fallback(goal)
	}
	return amounts
}

func parseSuggestions(text string) ([]uint64, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var out struct {
		Suggestions []float64 `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(out.Suggestions) != 3 {
		return nil, fmt.Errorf("expected 3 suggestions, got %d", len(out.Suggestions))
	}

	amounts := make([]uint64, 0, 3)
	for _, v := range out.Suggestions {
		if v <= 0 || v != math.Trunc(v) || v > math.MaxUint32 {
			return nil, fmt.Errorf("suggestion %v is not a positive integer", v)
		}
		amounts = append(amounts, uint64(v))
	}
	return amounts, nil
}

func fallback(goal uint64) []uint64 {
	metrics.SuggestionFallbacks.Inc()
	out := make([]uint64, len(fallbackSuggestions))
	for i, v := range fallbackSuggestions {
		out[i] = min(v, goal)
	}
	return out
}
