package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	mockedService "github.com/rocketscienceinc/tictactoe-ai/mocks/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errServiceUnavailable = errors.New("service unavailable")

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func newTestSuggester(advisor moveAdvisor) *moveSuggester {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewMoveSuggester(logger, advisor, 0).(*moveSuggester)
}

func TestMoveSuggester_Suggest(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the advised cell when it is playable", func(t *testing.T) {
		// Given: an advisor proposing the center
		advisor := mockedService.NewMockmoveAdvisor(t)
		board := entity.Board{x}
		advisor.EXPECT().
			Advise(mock.Anything, board).
			Return(&entity.Advice{Index: 4, Reasoning: "take the center"}, nil).
			Once()

		// When: asking for a suggestion
		cell := newTestSuggester(advisor).Suggest(ctx, board)

		// Then: the advised cell is returned
		assert.Equal(t, 4, cell)
	})

	t.Run("Fallback never returns the occupied corner", func(t *testing.T) {
		// Given: an advisor that is forced to fail
		advisor := mockedService.NewMockmoveAdvisor(t)
		board := entity.Board{x, e, e, e, e, e, e, e, e}
		advisor.EXPECT().
			Advise(mock.Anything, board).
			Return(nil, errServiceUnavailable)

		suggester := newTestSuggester(advisor)

		for range 50 {
			// When: asking for a suggestion
			cell := suggester.Suggest(ctx, board)

			// Then: the suggestion is never the occupied corner
			require.NotEqual(t, 0, cell)
			require.True(t, board.IsPlayable(cell))
		}
	})

	fallbackCases := []struct {
		name   string
		advice *entity.Advice
		err    error
	}{
		{name: "advisor error", err: errServiceUnavailable},
		{name: "no advice", advice: nil},
		{name: "index above range", advice: &entity.Advice{Index: 9}},
		{name: "negative index", advice: &entity.Advice{Index: -1}},
		{name: "occupied cell", advice: &entity.Advice{Index: 0}},
	}

	for _, tc := range fallbackCases {
		t.Run("Falls back to an empty cell on "+tc.name, func(t *testing.T) {
			// Given: a board with two empty cells and an unusable advisor answer
			board := entity.Board{
				x, o, x,
				x, o, o,
				o, e, e,
			}
			advisor := mockedService.NewMockmoveAdvisor(t)
			advisor.EXPECT().
				Advise(mock.Anything, board).
				Return(tc.advice, tc.err)

			suggester := newTestSuggester(advisor)

			for range 20 {
				// When: asking for a suggestion
				cell := suggester.Suggest(ctx, board)

				// Then: one of the empty cells is returned
				require.Contains(t, []int{7, 8}, cell)
			}
		})
	}

	t.Run("Fallback picks among empty cells in order", func(t *testing.T) {
		// Given: a failing advisor and a deterministic picker
		board := entity.Board{x, e, o, e, x, e, o, e, e}
		advisor := mockedService.NewMockmoveAdvisor(t)
		advisor.EXPECT().Advise(mock.Anything, board).Return(nil, errServiceUnavailable)

		suggester := newTestSuggester(advisor)
		var seen []int
		suggester.intn = func(n int) int {
			seen = append(seen, n)
			return n - 1
		}

		// When: asking for a suggestion
		cell := suggester.Suggest(ctx, board)

		// Then: the picker saw all five empty cells and the last one was chosen
		assert.Equal(t, []int{5}, seen)
		assert.Equal(t, 8, cell)
	})

	t.Run("Full board is never sent to the advisor", func(t *testing.T) {
		// Given: a full board
		advisor := mockedService.NewMockmoveAdvisor(t)
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		// When: asking for a suggestion
		cell := newTestSuggester(advisor).Suggest(ctx, board)

		// Then: no suggestion is made
		assert.Equal(t, NoSuggestion, cell)
		advisor.AssertNotCalled(t, "Advise", mock.Anything, mock.Anything)
	})

	t.Run("Delay is cut short by context cancellation", func(t *testing.T) {
		// Given: a long think delay and a cancelled context
		board := entity.Board{x}
		advisor := mockedService.NewMockmoveAdvisor(t)
		advisor.EXPECT().
			Advise(mock.Anything, board).
			RunAndReturn(func(ctx context.Context, _ entity.Board) (*entity.Advice, error) {
				return nil, ctx.Err()
			})

		logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
		suggester := NewMoveSuggester(logger, advisor, time.Hour)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		// When: asking for a suggestion
		start := time.Now()
		cell := suggester.Suggest(cancelled, board)

		// Then: it returns at once with a legal fallback
		assert.Less(t, time.Since(start), time.Second)
		assert.True(t, board.IsPlayable(cell))
	})
}

func TestRandomAdvisor_Advise(t *testing.T) {
	t.Run("Advises an empty cell", func(t *testing.T) {
		// Given: a board with a single empty cell
		board := entity.Board{x, o, x, x, o, o, o, x, e}

		// When: asking the random advisor
		advice, err := NewRandomAdvisor().Advise(context.Background(), board)

		// Then: the only empty cell is returned
		require.NoError(t, err)
		assert.Equal(t, 8, advice.Index)
	})

	t.Run("Fails on a full board", func(t *testing.T) {
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		advice, err := NewRandomAdvisor().Advise(context.Background(), board)

		require.Error(t, err)
		assert.Nil(t, advice)
	})
}
