package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// BoardSize is the number of cells on the 3x3 board.
const BoardSize = 9

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Board is a row-major 3x3 grid: cells 0,1,2 form the top row.
type Board [BoardSize]Mark

func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// Apply returns a copy of the board with mark placed in cell.
// The receiver is never modified.
func (that Board) Apply(cell int, mark Mark) (Board, error) {
	if !mark.IsPlayer() {
		return that, apperror.Illegal(fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark))
	}

	if !IsValidCell(cell) {
		return that, apperror.Illegal(fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell))
	}

	if that[cell] != EmptyCell {
		return that, apperror.Illegal(fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell))
	}

	next := that
	next[cell] = mark

	return next, nil
}

// IsPlayable reports whether cell is on the board and empty.
func (that Board) IsPlayable(cell int) bool {
	return IsValidCell(cell) && that[cell] == EmptyCell
}

func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Format renders the board as a flat list where empty cells show their index,
// e.g. "X, 1, 2, 3, O, 5, 6, 7, 8".
func (that Board) Format() string {
	cells := make([]string, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells[i] = strconv.Itoa(i)
			continue
		}
		cells[i] = string(cell)
	}

	return strings.Join(cells, ", ")
}
