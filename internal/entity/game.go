package entity

import (
	"fmt"
	"slices"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

type Mode string

const (
	ModePvP Mode = "pvp"
	ModePvE Mode = "pve"
)

// AutomatedMark is the side driven by the move suggester in ModePvE.
const AutomatedMark = PlayerO

func ParseMode(value string) (Mode, error) {
	switch mode := Mode(value); mode {
	case ModePvP, ModePvE:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidMode, value)
	}
}

func (that Mode) Toggle() Mode {
	if that == ModePvP {
		return ModePvE
	}
	return ModePvP
}

type Phase string

const (
	PhaseAwaitingMove          Phase = "awaiting_move"
	PhaseAwaitingAutomatedMove Phase = "awaiting_automated_move"
	PhaseFinished              Phase = "finished"
)

// GameState is a snapshot of everything one controller owns.
type GameState struct {
	Board   Board   `json:"board"`
	Turn    Mark    `json:"player_turn"`
	Mode    Mode    `json:"mode"`
	Phase   Phase   `json:"phase"`
	Outcome Outcome `json:"outcome"`
	Score   Score   `json:"score"`

	// Generation changes on every reset so late automated moves can be told apart.
	Generation uint64 `json:"generation"`
}

func NewGameState(mode Mode) GameState {
	return GameState{
		Turn:    PlayerX,
		Mode:    mode,
		Phase:   PhaseAwaitingMove,
		Outcome: InProgress(),
	}
}

func (that GameState) Clone() GameState {
	that.Outcome.Line = slices.Clone(that.Outcome.Line)
	return that
}

func (that GameState) IsFinished() bool {
	return that.Phase == PhaseFinished
}

// IsThinking reports whether an automated move is pending.
func (that GameState) IsThinking() bool {
	return that.Phase == PhaseAwaitingAutomatedMove
}

// StatusMessage is the one-line status shown above the board.
func (that GameState) StatusMessage(opponentName string) string {
	switch {
	case that.Outcome.IsDraw():
		return "It's a Tie!"
	case that.Outcome.IsWin():
		return fmt.Sprintf("Player %s Wins!", that.Outcome.Winner)
	case that.IsThinking():
		return opponentName + " is thinking..."
	default:
		return fmt.Sprintf("Player %s's Turn", that.Turn)
	}
}

type Session struct {
	ID        string    `json:"id"`
	State     GameState `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Advice is a move proposed by an external move provider.
type Advice struct {
	Index     int    `json:"moveIndex"`
	Reasoning string `json:"reasoning,omitempty"`
}

// GameView is what clients receive after every action.
type GameView struct {
	SessionID string    `json:"session_id"`
	State     GameState `json:"state"`
	Status    string    `json:"status"`
	Thinking  bool      `json:"thinking"`
	Rejected  string    `json:"rejected,omitempty"`
}

func NewGameView(sessionID string, state GameState, opponentName string) GameView {
	return GameView{
		SessionID: sessionID,
		State:     state,
		Status:    state.StatusMessage(opponentName),
		Thinking:  state.IsThinking(),
	}
}
