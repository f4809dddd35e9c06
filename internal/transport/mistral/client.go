package mistral

import (
	"context"
	"errors"
	"fmt"

	"github.com/gage-technologies/mistral-go"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/transport/llm"
)

const DefaultModel = "mistral-large-latest"

var (
	ErrEmptyAPIKey = errors.New("mistral api key is empty")
	ErrNoChoices   = errors.New("mistral returned no choices")
)

type chatClient interface {
	Chat(model string, messages []mistral.ChatMessage, params *mistral.ChatRequestParams) (*mistral.ChatCompletionResponse, error)
}

// Client asks a Mistral chat model for the automated player's move.
type Client struct {
	chat  chatClient
	model string
	mark  entity.Mark
}

func New(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	return newClient(mistral.NewMistralClientDefault(apiKey), model), nil
}

func newClient(chat chatClient, model string) *Client {
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		chat:  chat,
		model: model,
		mark:  entity.AutomatedMark,
	}
}

type chatResult struct {
	response *mistral.ChatCompletionResponse
	err      error
}

func (that *Client) Advise(ctx context.Context, board entity.Board) (*entity.Advice, error) {
	messages := []mistral.ChatMessage{
		{Content: llm.BuildPrompt(board, that.mark) + "\n" + llm.JSONInstruction, Role: mistral.RoleUser},
	}
	params := mistral.DefaultChatRequestParams

	// the client has no context support, so the call is abandoned on cancellation
	resultCh := make(chan chatResult, 1)
	go func() {
		response, err := that.chat.Chat(that.model, messages, &params)
		resultCh <- chatResult{response: response, err: err}
	}()

	var result chatResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("mistral request abandoned: %w", ctx.Err())
	case result = <-resultCh:
	}

	if result.err != nil {
		return nil, fmt.Errorf("failed to send request to mistral: %w", result.err)
	}

	if result.response == nil || len(result.response.Choices) == 0 {
		return nil, ErrNoChoices
	}

	advice, err := llm.ParseAdvice(result.response.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mistral response: %w", err)
	}

	return advice, nil
}
