package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const errNotConnected = "connect to a session first"

// handleConnect attaches the connection to the requested session, or to a
// new one when none is given or the requested one is gone.
func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payload, err := parsePayload(msg)
	if err != nil {
		c.sendError(ctx, msg.Action, "invalid payload")
		return err
	}

	id := payload.SessionID
	if id == "" {
		id = c.sessionID
	}

	if id != "" {
		err = that.attach(ctx, c, id)
		if err == nil {
			return nil
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			c.sendError(ctx, msg.Action, "failed to connect to the session")
			return err
		}

		log.Info("session not found, creating a new one", "sessionID", id)
	}

	created, err := that.sessions.CreateSession(ctx)
	if err != nil {
		c.sendError(ctx, msg.Action, "failed to create a new session")
		return fmt.Errorf("failed to create session: %w", err)
	}

	return that.attach(ctx, c, created.ID)
}

func (that *Server) handleCellSelect(ctx context.Context, c *client, msg *Message) error {
	payload, err := parsePayload(msg)
	if err != nil {
		c.sendError(ctx, msg.Action, "invalid payload")
		return err
	}

	if payload.Cell == nil {
		c.sendError(ctx, msg.Action, "cell is required")
		return nil
	}

	return that.act(ctx, c, msg, func(id string) (*entity.Session, error) {
		return that.sessions.SelectCell(ctx, id, *payload.Cell)
	})
}

func (that *Server) handleBoardReset(ctx context.Context, c *client, msg *Message) error {
	return that.act(ctx, c, msg, func(id string) (*entity.Session, error) {
		return that.sessions.ResetBoard(ctx, id)
	})
}

// handleModeToggle toggles the mode, or selects the one named in the payload.
func (that *Server) handleModeToggle(ctx context.Context, c *client, msg *Message) error {
	payload, err := parsePayload(msg)
	if err != nil {
		c.sendError(ctx, msg.Action, "invalid payload")
		return err
	}

	if payload.Mode == "" {
		return that.act(ctx, c, msg, func(id string) (*entity.Session, error) {
			return that.sessions.ToggleMode(ctx, id)
		})
	}

	mode, err := entity.ParseMode(payload.Mode)
	if err != nil {
		c.sendError(ctx, msg.Action, err.Error())
		return nil
	}

	return that.act(ctx, c, msg, func(id string) (*entity.Session, error) {
		return that.sessions.SetMode(ctx, id, mode)
	})
}

func (that *Server) handleScoreClear(ctx context.Context, c *client, msg *Message) error {
	return that.act(ctx, c, msg, func(id string) (*entity.Session, error) {
		return that.sessions.ClearScore(ctx, id)
	})
}

// act runs an action on the attached session. Successful transitions reach
// the client through the subscription; only rejections and failures are
// answered here.
func (that *Server) act(ctx context.Context, c *client, msg *Message, action func(id string) (*entity.Session, error)) error {
	if c.sessionID == "" {
		c.sendError(ctx, msg.Action, errNotConnected)
		return nil
	}

	current, err := action(c.sessionID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperror.ErrIllegalMove) && current != nil:
		that.sendState(ctx, c, current, apperror.Reason(err))
		return nil
	case errors.Is(err, apperror.ErrSessionNotFound):
		c.detach()
		c.sendError(ctx, msg.Action, apperror.ErrSessionNotFound.Error())
		return nil
	default:
		c.sendError(ctx, msg.Action, "failed to process the action")
		return err
	}
}

// attach subscribes the connection to a session and sends its current state.
func (that *Server) attach(ctx context.Context, c *client, id string) error {
	c.detach()

	updates, unsubscribe, err := that.sessions.Subscribe(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	forwardCtx, cancel := context.WithCancel(ctx)
	c.sessionID = id
	c.unsubscribe = func() {
		unsubscribe()
		cancel()
	}

	go that.forward(forwardCtx, c, updates)

	current, err := that.sessions.GetSession(ctx, id)
	if err != nil {
		c.detach()
		return fmt.Errorf("failed to get session: %w", err)
	}

	that.sendState(ctx, c, current, "")

	that.logger.Info("connection attached to session", "sessionID", id)

	return nil
}

func (that *Server) forward(ctx context.Context, c *client, updates <-chan entity.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			that.sendState(ctx, c, &update, "")
		}
	}
}

func (that *Server) sendState(ctx context.Context, c *client, current *entity.Session, rejected string) {
	view := entity.NewGameView(current.ID, current.State, that.opponentName)
	view.Rejected = rejected

	c.sendPayload(ctx, actionGameState, ResponsePayload{State: &view, Error: rejected})
}

func parsePayload(msg *Message) (RequestPayload, error) {
	var payload RequestPayload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}
