package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

// NoSuggestion is returned only when the board has no empty cell.
const NoSuggestion = -1

var (
	ErrNoAdvice         = errors.New("advisor returned no advice")
	ErrUnplayableAdvice = errors.New("advised cell is not playable")
)

// MoveSuggester proposes the automated player's move. Suggest never fails:
// any problem with the advisor falls back to a random empty cell.
type MoveSuggester interface {
	Suggest(ctx context.Context, board entity.Board) int
}

type moveAdvisor interface {
	Advise(ctx context.Context, board entity.Board) (*entity.Advice, error)
}

type moveSuggester struct {
	logger  *slog.Logger
	advisor moveAdvisor
	delay   time.Duration
	intn    func(int) int
}

func NewMoveSuggester(logger *slog.Logger, advisor moveAdvisor, delay time.Duration) MoveSuggester {
	return &moveSuggester{
		logger:  logger.With("component", "move_suggester"),
		advisor: advisor,
		delay:   delay,
		intn:    rand.Intn, //nolint: gosec // it's ok
	}
}

func (that *moveSuggester) Suggest(ctx context.Context, board entity.Board) int {
	log := that.logger.With("method", "Suggest")

	if board.IsFull() {
		log.Warn("suggestion requested for a full board")
		return NoSuggestion
	}

	that.wait(ctx)

	advice, err := that.advise(ctx, board)
	if err != nil {
		// the error stays here: a random empty cell is always a legal answer
		cell, _ := randomCell(board, that.intn)
		log.Warn("advisor failed, falling back to a random cell", "error", err, "cell", cell)

		return cell
	}

	log.Debug("move suggested", "cell", advice.Index, "reasoning", advice.Reasoning)

	return advice.Index
}

func (that *moveSuggester) advise(ctx context.Context, board entity.Board) (*entity.Advice, error) {
	advice, err := that.advisor.Advise(ctx, board)
	if err != nil {
		return nil, fmt.Errorf("failed to get advice: %w", err)
	}

	if advice == nil {
		return nil, ErrNoAdvice
	}

	if !board.IsPlayable(advice.Index) {
		return nil, fmt.Errorf("%w: cell %d", ErrUnplayableAdvice, advice.Index)
	}

	return advice, nil
}

// wait paces the reply so the opponent does not answer instantly.
func (that *moveSuggester) wait(ctx context.Context) {
	if that.delay <= 0 {
		return
	}

	timer := time.NewTimer(that.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
