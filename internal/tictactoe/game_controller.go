package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

// GameController owns one game: board, turn, mode, outcome and score.
// It is not safe for concurrent use; callers serialise access.
type GameController struct {
	state entity.GameState
}

func NewGameController(mode entity.Mode) *GameController {
	return &GameController{state: entity.NewGameState(mode)}
}

// RestoreGameController rebuilds a controller from a snapshot taken by Snapshot.
func RestoreGameController(state entity.GameState) *GameController {
	if _, err := entity.ParseMode(string(state.Mode)); err != nil {
		state.Mode = entity.ModePvE
	}

	return &GameController{state: state.Clone()}
}

func (that *GameController) Snapshot() entity.GameState {
	return that.state.Clone()
}

func (that *GameController) Phase() entity.Phase {
	return that.state.Phase
}

func (that *GameController) Board() entity.Board {
	return that.state.Board
}

func (that *GameController) Generation() uint64 {
	return that.state.Generation
}

// SelectCell applies a human move for the player whose turn it is.
// Rejected input leaves the controller unchanged.
func (that *GameController) SelectCell(cell int) error {
	switch that.state.Phase {
	case entity.PhaseFinished:
		return apperror.Illegal(apperror.ErrGameFinished)
	case entity.PhaseAwaitingAutomatedMove:
		return apperror.Illegal(apperror.ErrNotYourTurn)
	}

	return that.makeTurn(cell)
}

// ApplySuggestion applies the automated player's move. It goes through the
// same path as SelectCell once the phase is checked.
func (that *GameController) ApplySuggestion(cell int) error {
	switch that.state.Phase {
	case entity.PhaseFinished:
		return apperror.Illegal(apperror.ErrGameFinished)
	case entity.PhaseAwaitingMove:
		return apperror.Illegal(apperror.ErrNotYourTurn)
	}

	return that.makeTurn(cell)
}

// Reset starts a new game with X to move and keeps the score.
func (that *GameController) Reset() {
	score := that.state.Score
	generation := that.state.Generation + 1

	that.state = entity.NewGameState(that.state.Mode)
	that.state.Score = score
	that.state.Generation = generation
}

// ClearScore zeroes the score and resets the board.
func (that *GameController) ClearScore() {
	that.state.Score = entity.Score{}
	that.Reset()
}

func (that *GameController) ToggleMode() {
	that.state.Mode = that.state.Mode.Toggle()
	that.Reset()
}

// SetMode switches to mode and resets the board. Selecting the current mode
// changes nothing.
func (that *GameController) SetMode(mode entity.Mode) error {
	if _, err := entity.ParseMode(string(mode)); err != nil {
		return err
	}

	if mode == that.state.Mode {
		return nil
	}

	that.state.Mode = mode
	that.Reset()

	return nil
}

func (that *GameController) makeTurn(cell int) error {
	board, err := that.state.Board.Apply(cell, that.state.Turn)
	if err != nil {
		return err
	}

	that.state.Board = board
	that.updateGameStatus()

	return nil
}

// updateGameStatus - checks the game status after a move.
func (that *GameController) updateGameStatus() {
	outcome := entity.Evaluate(that.state.Board)
	if outcome.IsFinished() {
		that.state.Outcome = outcome
		that.state.Phase = entity.PhaseFinished
		that.state.Score.Record(outcome)
		return
	}

	that.state.Turn = that.state.Turn.Opponent()
	that.state.Phase = that.phaseFor(that.state.Turn)
}

func (that *GameController) phaseFor(turn entity.Mark) entity.Phase {
	if that.state.Mode == entity.ModePvE && turn == entity.AutomatedMark {
		return entity.PhaseAwaitingAutomatedMove
	}
	return entity.PhaseAwaitingMove
}
