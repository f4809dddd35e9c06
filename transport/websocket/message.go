package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const (
	actionConnect    = "connect"
	actionCellSelect = "cell:select"
	actionBoardReset = "board:reset"
	actionModeToggle = "mode:toggle"
	actionScoreClear = "score:clear"

	actionGameState = "game:state"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	SessionID string `json:"session_id,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

type ResponsePayload struct {
	State *entity.GameView `json:"state,omitempty"`
	Error string           `json:"error,omitempty"`
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
