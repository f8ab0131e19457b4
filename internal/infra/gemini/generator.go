package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"blockquest/internal/domain"
	"blockquest/internal/logger"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the slice of the genai client the generator needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator asks Gemini for one multiple-choice question per call.
type Generator struct {
	models contentGenerator
	model  string
	log    *logger.Logger
}

// NewGenerator connects to the Gemini API with apiKey.
func NewGenerator(ctx context.Context, apiKey, model string, log *logger.Logger) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing gemini api key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return newGenerator(client.Models, model, log), nil
}

func newGenerator(models contentGenerator, model string, log *logger.Logger) *Generator {
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Generator{models: models, model: model, log: log.With("component", "GeminiGenerator")}
}

// Generate implements provider.Generator.
func (g *Generator) Generate(ctx context.Context, topic string, difficulty domain.Difficulty) (domain.QuizQuestion, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt(topic, difficulty)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   questionSchema(),
	})
	if err != nil {
		return domain.QuizQuestion{}, fmt.Errorf("generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return domain.QuizQuestion{}, errors.New("no response from gemini")
	}

	var q domain.QuizQuestion
	if err := json.Unmarshal([]byte(text), &q); err != nil {
		return domain.QuizQuestion{}, fmt.Errorf("decode question: %w", err)
	}
	g.log.Debug("question generated", "topic", topic, "difficulty", difficulty)
	return q, nil
}

func prompt(topic string, difficulty domain.Difficulty) string {
	return fmt.Sprintf(`Create a single multiple-choice question about %q in the context of Blockchain technology. Difficulty level: %s.
The question should be engaging. Provide 4 options, the index of the correct option (0-3), and a short educational explanation.`, topic, difficulty)
}

func questionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {Type: genai.TypeString},
			"options": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"correctIndex": {Type: genai.TypeInteger},
			"explanation":  {Type: genai.TypeString},
			"topic":        {Type: genai.TypeString},
		},
		Required: []string{"question", "options", "correctIndex", "explanation"},
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
