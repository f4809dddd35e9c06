package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository"
	"github.com/rocketscienceinc/tictactoe-ai/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-ai/testing/suite"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

// lastEmpty always answers with the highest free cell.
type lastEmpty struct{}

func (lastEmpty) Suggest(_ context.Context, board entity.Board) int {
	cells := board.EmptyCells()
	return cells[len(cells)-1]
}

type testServer struct {
	url     string
	manager *usecase.SessionManager
}

func newTestServer(t *testing.T, mode entity.Mode) *testServer {
	t.Helper()

	logger := suite.NewLogger()
	manager := usecase.NewSessionManager(logger, repository.NewMemorySessionRepository(time.Minute), lastEmpty{}, usecase.Options{
		DefaultMode: mode,
	})

	ctx, cancel := context.WithCancel(context.Background())
	server := httptest.NewServer(New(logger, manager, "Gemini").Handler(ctx))

	t.Cleanup(func() {
		cancel()
		server.Close()
		manager.Shutdown()
	})

	return &testServer{
		url:     "ws" + strings.TrimPrefix(server.URL, "http"),
		manager: manager,
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	message := Message{Action: action}
	if payload != nil {
		message.Payload = mustMarshal(payload)
	}

	require.NoError(t, conn.WriteJSON(message))
}

func receive(t *testing.T, conn *websocket.Conn) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message.Action, payload
}

func connect(t *testing.T, conn *websocket.Conn) *entity.GameView {
	t.Helper()

	send(t, conn, actionConnect, nil)
	action, payload := receive(t, conn)
	require.Equal(t, actionGameState, action)
	require.NotNil(t, payload.State)

	return payload.State
}

func TestConnect(t *testing.T) {
	t.Run("Creates a session when none is given", func(t *testing.T) {
		// Given: a connection without a session
		server := newTestServer(t, entity.ModePvE)
		conn := dial(t, server.url)

		// When: connecting
		view := connect(t, conn)

		// Then: a fresh game is sent
		assert.NotEmpty(t, view.SessionID)
		assert.Equal(t, "Player X's Turn", view.Status)
		assert.Equal(t, entity.ModePvE, view.State.Mode)
	})

	t.Run("Attaches to the session named in the URL", func(t *testing.T) {
		// Given: an existing session with a move on it
		server := newTestServer(t, entity.ModePvP)
		created, err := server.manager.CreateSession(context.Background())
		require.NoError(t, err)
		_, err = server.manager.SelectCell(context.Background(), created.ID, 4)
		require.NoError(t, err)

		// When: a connection names it
		conn := dial(t, server.url+"?session="+created.ID)
		action, payload := receive(t, conn)

		// Then: its state is sent right away
		assert.Equal(t, actionGameState, action)
		require.NotNil(t, payload.State)
		assert.Equal(t, created.ID, payload.State.SessionID)
		assert.Equal(t, entity.Board{e, e, e, e, x}, payload.State.State.Board)
	})

	t.Run("Replaces an unknown session with a new one", func(t *testing.T) {
		server := newTestServer(t, entity.ModePvP)
		conn := dial(t, server.url)

		send(t, conn, actionConnect, RequestPayload{SessionID: "missing"})
		_, payload := receive(t, conn)

		require.NotNil(t, payload.State)
		assert.NotEqual(t, "missing", payload.State.SessionID)
	})
}

func TestCellSelect(t *testing.T) {
	t.Run("Pushes the human move and then the automated move", func(t *testing.T) {
		// Given: a connected pve session
		server := newTestServer(t, entity.ModePvE)
		conn := dial(t, server.url)
		connect(t, conn)

		// When: X plays index 0
		cell := 0
		send(t, conn, actionCellSelect, RequestPayload{Cell: &cell})

		// Then: the thinking state is pushed first
		_, first := receive(t, conn)
		require.NotNil(t, first.State)
		assert.True(t, first.State.Thinking)
		assert.Equal(t, "Gemini is thinking...", first.State.Status)

		// Then: the automated move follows without another request
		_, second := receive(t, conn)
		require.NotNil(t, second.State)
		assert.Equal(t, entity.Board{x, e, e, e, e, e, e, e, o}, second.State.State.Board)
		assert.Equal(t, "Player X's Turn", second.State.Status)
	})

	t.Run("Rejected move is answered with the reason", func(t *testing.T) {
		// Given: X holds the center
		server := newTestServer(t, entity.ModePvP)
		conn := dial(t, server.url)
		connect(t, conn)

		cell := 4
		send(t, conn, actionCellSelect, RequestPayload{Cell: &cell})
		_, _ = receive(t, conn)

		// When: O plays the center too
		send(t, conn, actionCellSelect, RequestPayload{Cell: &cell})

		// Then: the unchanged state comes back with the reason
		action, payload := receive(t, conn)
		assert.Equal(t, actionGameState, action)
		assert.Equal(t, "cell is already occupied", payload.Error)
		require.NotNil(t, payload.State)
		assert.Equal(t, entity.Board{e, e, e, e, x}, payload.State.State.Board)
	})

	t.Run("Actions need a session", func(t *testing.T) {
		server := newTestServer(t, entity.ModePvP)
		conn := dial(t, server.url)

		send(t, conn, actionBoardReset, nil)
		action, payload := receive(t, conn)

		assert.Equal(t, actionBoardReset, action)
		assert.Equal(t, errNotConnected, payload.Error)
	})
}

func TestSessionActions(t *testing.T) {
	// Given: a connected pvp session where X has won
	server := newTestServer(t, entity.ModePvP)
	conn := dial(t, server.url)
	connect(t, conn)

	for _, cell := range []int{0, 3, 1, 4, 2} {
		send(t, conn, actionCellSelect, RequestPayload{Cell: &cell})
		_, _ = receive(t, conn)
	}

	// When: the board is reset
	send(t, conn, actionBoardReset, nil)
	_, payload := receive(t, conn)

	// Then: the win is kept on an empty board
	require.NotNil(t, payload.State)
	assert.Equal(t, entity.Board{}, payload.State.State.Board)
	assert.Equal(t, entity.Score{X: 1}, payload.State.State.Score)

	// When: switching to pve
	send(t, conn, actionModeToggle, RequestPayload{Mode: "pve"})
	_, payload = receive(t, conn)
	require.NotNil(t, payload.State)
	assert.Equal(t, entity.ModePvE, payload.State.State.Mode)

	// When: the score is cleared
	send(t, conn, actionScoreClear, nil)
	_, payload = receive(t, conn)

	// Then: the tally is zero
	require.NotNil(t, payload.State)
	assert.Equal(t, entity.Score{}, payload.State.State.Score)
}

func TestUnknownAction(t *testing.T) {
	server := newTestServer(t, entity.ModePvP)
	conn := dial(t, server.url)

	send(t, conn, "game:surrender", nil)
	action, payload := receive(t, conn)

	assert.Equal(t, "game:surrender", action)
	assert.Equal(t, "unknown action", payload.Error)
}
