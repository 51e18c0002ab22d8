package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/greenpulse/sustainability-api/internal/constants"
	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

type GeneratedIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateInitiativeIdeas suggests sustainability initiative ideas for a
// company theme using OpenAI GPT
func (s *AIService) GenerateInitiativeIdeas(ctx context.Context, theme string) ([]GeneratedIdea, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are a workplace sustainability assistant. Suggest concrete monthly sustainability initiatives employees of a company could run together, based on the following theme or description:

%s

Return a JSON array of suggestions in this exact format:
[
  {
    "title": "Short initiative title",
    "description": "One or two sentences describing what employees would actually do and why it reduces the company's footprint"
  }
]

Rules:
- Suggest between 3 and 5 initiatives
- Each initiative must be achievable within one calendar month
- Return only the JSON array, no surrounding text`, theme)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.7,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var ideas []GeneratedIdea
	if err := json.Unmarshal([]byte(content), &ideas); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	// The model occasionally ignores the count rule
	if len(ideas) > constants.MaxAISuggestions {
		ideas = ideas[:constants.MaxAISuggestions]
	}

	return ideas, nil
}
