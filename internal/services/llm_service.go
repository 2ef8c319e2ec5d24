package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GeminiModels is the preference order tried until one model answers.
var GeminiModels = []string{"gemini-2.5-flash", "gemini-flash-latest", "gemini-2.0-flash"}

// Generator turns a prompt into raw model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

type LLMService struct {
	Generator Generator
}

// NewLLMService picks Gemini when geminiKey is set, else OpenAI when openAIKey
// is set. With neither, the service is disabled and every call fails with
// ErrInsightsDisabled.
func NewLLMService(ctx context.Context, geminiKey, geminiModel, openAIKey, openAIModel string) *LLMService {
	if geminiKey != "" {
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(geminiKey),
			googleai.WithDefaultModel(GeminiModels[0]),
		)
		if err == nil {
			log.Println("✅ Gemini client ready")
			return &LLMService{Generator: NewGeminiGenerator(llm, geminiModel)}
		}
		log.Printf("⚠️  Failed to create Gemini client: %v", err)
	}
	if openAIKey != "" {
		log.Println("✅ OpenAI client ready")
		return &LLMService{Generator: NewOpenAIGenerator(openai.DefaultConfig(openAIKey), openAIModel)}
	}
	log.Println("⚠️  No GEMINI_API_KEY or OPENAI_API_KEY, market insights disabled")
	return &LLMService{}
}

func (s *LLMService) Enabled() bool { return s.Generator != nil }

// GenerateJSON runs prompt and returns the JSON object found in the answer.
func (s *LLMService) GenerateJSON(ctx context.Context, prompt string) ([]byte, error) {
	if !s.Enabled() {
		return nil, ErrInsightsDisabled
	}
	resp, err := s.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Generator.Name(), err)
	}
	cleaned := cleanJSONResponse(resp)
	if !strings.HasPrefix(cleaned, "{") {
		return nil, fmt.Errorf("%s returned no JSON object", s.Generator.Name())
	}
	return []byte(cleaned), nil
}

// GeminiGenerator calls Gemini through langchaingo, walking the model list.
type GeminiGenerator struct {
	Client llms.Model
	models []string
}

// NewGeminiGenerator tries preferred first when set, then GeminiModels.
func NewGeminiGenerator(client llms.Model, preferred string) *GeminiGenerator {
	models := make([]string, 0, len(GeminiModels)+1)
	if preferred != "" {
		models = append(models, preferred)
	}
	for _, m := range GeminiModels {
		if m != preferred {
			models = append(models, m)
		}
	}
	return &GeminiGenerator{Client: client, models: models}
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, model := range g.models {
		resp, err := llms.GenerateFromSinglePrompt(ctx, g.Client, prompt,
			llms.WithModel(model),
			llms.WithTemperature(0.4),
		)
		if err == nil {
			log.Debugf("Gemini model %s answered", model)
			return resp, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("Model %s failed: %v", model, err)
		lastErr = err
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(cfg openai.ClientConfig, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg), model: model}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// cleanJSONResponse strips markdown fences and keeps the outermost {...}.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		content = content[start : end+1]
	}
	return strings.TrimSpace(content)
}
