package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/transport/llm"
)

const DefaultModel = "gemini-3-flash-preview"

var ErrEmptyAPIKey = errors.New("gemini api key is empty")

type contentGenerator interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client asks a Gemini model for the automated player's move.
type Client struct {
	models contentGenerator
	model  string
	mark   entity.Mark
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newClient(client.Models, model), nil
}

func newClient(models contentGenerator, model string) *Client {
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		models: models,
		model:  model,
		mark:   entity.AutomatedMark,
	}
}

func (that *Client) Advise(ctx context.Context, board entity.Board) (*entity.Advice, error) {
	var thinkingBudget int32

	response, err := that.models.GenerateContent(ctx, that.model, genai.Text(llm.BuildPrompt(board, that.mark)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   adviceSchema(that.mark),
		// a move does not need a thinking phase
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: &thinkingBudget},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	advice, err := llm.ParseAdvice(response.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}

	return advice, nil
}

func adviceSchema(mark entity.Mark) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"moveIndex": {
				Type:        genai.TypeInteger,
				Description: fmt.Sprintf("The 0-based index of the board where '%s' should move.", mark),
			},
			"reasoning": {
				Type:        genai.TypeString,
				Description: "A short explanation of why this move was chosen.",
			},
		},
		Required: []string{"moveIndex"},
	}
}
