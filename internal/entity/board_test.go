package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Apply(t *testing.T) {
	t.Run("Places the mark and leaves the original board untouched", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// When: X is placed in the center
		next, err := board.Apply(4, PlayerX)

		// Then: only the new board holds the mark
		require.NoError(t, err)
		assert.Equal(t, PlayerX, next[4])
		assert.Equal(t, Board{}, board)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a board where cell 0 is occupied by X
		board := Board{PlayerX}

		// When: O tries to take the same cell
		next, err := board.Apply(0, PlayerO)

		// Then: the move is illegal and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, board, next)
	})

	t.Run("Error on invalid cell index", func(t *testing.T) {
		board := Board{}

		for _, cell := range []int{-1, 9, 20} {
			// When: a cell outside 0..8 is used
			_, err := board.Apply(cell, PlayerX)

			// Then: ErrInvalidCell is returned
			require.ErrorIs(t, err, apperror.ErrIllegalMove)
			assert.ErrorIs(t, err, apperror.ErrInvalidCell)
		}
	})

	t.Run("Error on empty mark", func(t *testing.T) {
		// When: an empty mark is applied
		_, err := Board{}.Apply(3, EmptyCell)

		// Then: ErrInvalidMark is returned
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.ErrorIs(t, err, apperror.ErrInvalidMark)
	})
}

func TestBoard_EmptyCells(t *testing.T) {
	// Given: a board with three occupied cells
	board := Board{
		PlayerX, EmptyCell, EmptyCell,
		EmptyCell, PlayerO, EmptyCell,
		EmptyCell, EmptyCell, PlayerX,
	}

	// Then: the remaining cells are listed in order
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7}, board.EmptyCells())
	assert.False(t, board.IsFull())
	assert.True(t, board.IsPlayable(1))
	assert.False(t, board.IsPlayable(0))
	assert.False(t, board.IsPlayable(9))
}

func TestBoard_Format(t *testing.T) {
	// Given: a board with X in the corner and O in the center
	board := Board{PlayerX, EmptyCell, EmptyCell, EmptyCell, PlayerO}

	// Then: empty cells are rendered as their index
	assert.Equal(t, "X, 1, 2, 3, O, 5, 6, 7, 8", board.Format())
}

func TestMark_Opponent(t *testing.T) {
	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
}
