package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const (
	sessionCookie   = "user_session"
	shutdownTimeout = 5 * time.Second
)

type sessionUseCase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	SelectCell(ctx context.Context, id string, cell int) (*entity.Session, error)
	ResetBoard(ctx context.Context, id string) (*entity.Session, error)
	ToggleMode(ctx context.Context, id string) (*entity.Session, error)
	SetMode(ctx context.Context, id string, mode entity.Mode) (*entity.Session, error)
	ClearScore(ctx context.Context, id string) (*entity.Session, error)
	Subscribe(ctx context.Context, id string) (<-chan entity.Session, func(), error)
}

type Server struct {
	logger       *slog.Logger
	sessions     sessionUseCase
	opponentName string
	upgrader     websocket.Upgrader

	handlers map[string]func(ctx context.Context, client *client, message *Message) error
}

func New(logger *slog.Logger, sessions sessionUseCase, opponentName string) *Server {
	server := &Server{
		logger:       logger.With("component", "websocket"),
		sessions:     sessions,
		opponentName: opponentName,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionCellSelect] = server.handleCellSelect
	server.handlers[actionBoardReset] = server.handleBoardReset
	server.handlers[actionModeToggle] = server.handleModeToggle
	server.handlers[actionScoreClear] = server.handleScoreClear

	return server
}

// Start - starts WebSocket server and stops it once ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that.Handler(ctx))

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Handler upgrades requests to WebSocket connections. Connections are
// closed when ctx is done.
func (that *Server) Handler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := newClient(conn, that.logger)
	defer c.close()
	defer c.detach()

	go c.writePump(connCtx)

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	// a session named in the URL or cookie is attached right away
	if id := requestedSession(r); id != "" {
		if err = that.attach(connCtx, c, id); err != nil {
			log.Warn("failed to attach requested session", "sessionID", id, "error", err)
		}
	}

	if err = that.handleMessages(connCtx, c); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			c.sendError(ctx, "", "invalid message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			c.sendError(ctx, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func requestedSession(r *http.Request) string {
	if id := r.URL.Query().Get("session"); id != "" {
		return id
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}
