package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrInvalidMark      = errors.New("invalid player mark")
	ErrInvalidMode      = errors.New("invalid game mode")
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

// Illegal marks err as a rejected move. The result matches both ErrIllegalMove and err.
func Illegal(err error) error {
	return fmt.Errorf("%w: %w", ErrIllegalMove, err)
}

var rejections = []error{ErrGameFinished, ErrNotYourTurn, ErrCellOccupied, ErrInvalidCell, ErrInvalidMark}

// Reason is the short message shown to a player whose move was rejected.
func Reason(err error) string {
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return rejection.Error()
		}
	}

	if errors.Is(err, ErrIllegalMove) {
		return ErrIllegalMove.Error()
	}

	return ""
}
