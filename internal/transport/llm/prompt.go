// Package llm holds what every language-model move advisor shares:
// the prompt and the parsing of the JSON answer.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

var ErrMalformedAdvice = errors.New("malformed advice")

const promptTemplate = `You are an unbeatable Tic-Tac-Toe grandmaster.
The current board state is: [%s].
Indices are 0-8 (top-left to bottom-right).
You are playing as '%s'. '%s' is your opponent.
Analyze the board and choose the absolute best move to win or force a draw.
Return only the index of your chosen move.`

// JSONInstruction is appended for backends without a response schema.
const JSONInstruction = `Respond with a JSON object only: {"moveIndex": <0-8>, "reasoning": "<one short sentence>"}.`

func BuildPrompt(board entity.Board, mark entity.Mark) string {
	return fmt.Sprintf(promptTemplate, board.Format(), mark, mark.Opponent())
}

type adviceJSON struct {
	MoveIndex *int   `json:"moveIndex"`
	Reasoning string `json:"reasoning"`
}

// ParseAdvice extracts the advice object from a model answer. Markdown code
// fences and text around the object are ignored.
func ParseAdvice(text string) (*entity.Advice, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in %q", ErrMalformedAdvice, text)
	}

	var raw adviceJSON
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedAdvice, err)
	}

	if raw.MoveIndex == nil {
		return nil, fmt.Errorf("%w: moveIndex is missing", ErrMalformedAdvice)
	}

	return &entity.Advice{Index: *raw.MoveIndex, Reasoning: raw.Reasoning}, nil
}
