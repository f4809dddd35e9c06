package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

// randomCell picks uniformly among the empty cells of board.
func randomCell(board entity.Board, intn func(int) int) (int, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	return availableCells[intn(len(availableCells))], nil
}

// RandomAdvisor plays a random empty cell without calling any external service.
type RandomAdvisor struct {
	intn func(int) int
}

func NewRandomAdvisor() *RandomAdvisor {
	return &RandomAdvisor{intn: rand.Intn} //nolint: gosec // it's ok
}

func (that *RandomAdvisor) Advise(_ context.Context, board entity.Board) (*entity.Advice, error) {
	cell, err := randomCell(board, that.intn)
	if err != nil {
		return nil, fmt.Errorf("random advisor: %w", err)
	}

	return &entity.Advice{Index: cell, Reasoning: "random pick"}, nil
}
