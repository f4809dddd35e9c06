package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// client is one WebSocket connection. Only writePump writes to conn.
type client struct {
	conn   *websocket.Conn
	logger *slog.Logger
	send   chan Message

	// sessionID and unsubscribe belong to the reading goroutine.
	sessionID   string
	unsubscribe func()

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, logger *slog.Logger) *client {
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &client{
		conn:   conn,
		logger: logger,
		send:   make(chan Message, sendBuffer),
	}
}

func (that *client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer that.close()

	for {
		select {
		case <-ctx.Done():
			_ = that.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case message := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteJSON(message); err != nil {
				that.logger.Debug("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (that *client) enqueue(ctx context.Context, message Message) {
	select {
	case that.send <- message:
	case <-ctx.Done():
	}
}

func (that *client) sendPayload(ctx context.Context, action string, payload ResponsePayload) {
	that.enqueue(ctx, Message{Action: action, Payload: mustMarshal(payload)})
}

func (that *client) sendError(ctx context.Context, action, errorMsg string) {
	that.sendPayload(ctx, action, ResponsePayload{Error: errorMsg})
}

func (that *client) detach() {
	if that.unsubscribe != nil {
		that.unsubscribe()
		that.unsubscribe = nil
	}
	that.sessionID = ""
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		_ = that.conn.Close()
	})
}
