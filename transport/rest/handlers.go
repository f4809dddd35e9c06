package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const (
	sessionCookie    = "user_session"
	sessionCookieTTL = 24 * time.Hour
)

type sessionUseCase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	SelectCell(ctx context.Context, id string, cell int) (*entity.Session, error)
	ResetBoard(ctx context.Context, id string) (*entity.Session, error)
	ToggleMode(ctx context.Context, id string) (*entity.Session, error)
	SetMode(ctx context.Context, id string, mode entity.Mode) (*entity.Session, error)
	ClearScore(ctx context.Context, id string) (*entity.Session, error)
}

type Handlers struct {
	logger       *slog.Logger
	sessions     sessionUseCase
	opponentName string
}

type errorResponse struct {
	Error string `json:"error"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func NewHandlers(logger *slog.Logger, sessions sessionUseCase, opponentName string) *Handlers {
	return &Handlers{
		logger:       logger.With("component", "rest"),
		sessions:     sessions,
		opponentName: opponentName,
	}
}

func (that *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	current, err := that.sessions.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    current.ID,
		Path:     "/",
		Expires:  time.Now().Add(sessionCookieTTL),
		HttpOnly: true,
	})

	that.writeJSON(w, http.StatusCreated, entity.NewGameView(current.ID, current.State, that.opponentName))
}

func (that *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	current, err := that.sessions.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	that.respond(w, r, current, err)
}

func (that *Handlers) selectCell(w http.ResponseWriter, r *http.Request) {
	cell, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell index must be a number"})
		return
	}

	current, err := that.sessions.SelectCell(r.Context(), chi.URLParam(r, "sessionID"), cell)
	that.respond(w, r, current, err)
}

func (that *Handlers) resetBoard(w http.ResponseWriter, r *http.Request) {
	current, err := that.sessions.ResetBoard(r.Context(), chi.URLParam(r, "sessionID"))
	that.respond(w, r, current, err)
}

// changeMode toggles the mode, or selects the one named in the body.
func (that *Handlers) changeMode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var request modeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	if request.Mode == "" {
		current, err := that.sessions.ToggleMode(r.Context(), id)
		that.respond(w, r, current, err)
		return
	}

	mode, err := entity.ParseMode(request.Mode)
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	current, err := that.sessions.SetMode(r.Context(), id, mode)
	that.respond(w, r, current, err)
}

func (that *Handlers) clearScore(w http.ResponseWriter, r *http.Request) {
	current, err := that.sessions.ClearScore(r.Context(), chi.URLParam(r, "sessionID"))
	that.respond(w, r, current, err)
}

// respond writes the game view. A rejected move is not a failure: the
// unchanged state goes back together with the reason.
func (that *Handlers) respond(w http.ResponseWriter, r *http.Request, current *entity.Session, err error) {
	if err != nil && !(errors.Is(err, apperror.ErrIllegalMove) && current != nil) {
		that.writeError(w, r, err)
		return
	}

	view := entity.NewGameView(current.ID, current.State, that.opponentName)
	view.Rejected = apperror.Reason(err)

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidMode):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "requestID", middleware.GetReqID(r.Context()), "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
