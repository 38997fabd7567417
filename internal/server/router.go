// Package server exposes a running session over HTTP
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/user/memory-beacon/internal/game"
	"github.com/user/memory-beacon/internal/types"
	"go.uber.org/zap"
)

const maxImportSize = 4 << 20

// Handler serves session commands through a Runner
type Handler struct {
	runner *game.Runner
	logger *zap.Logger
}

// NewRouter builds the HTTP routes for runner
func NewRouter(runner *game.Runner, logger *zap.Logger) http.Handler {
	h := &Handler{runner: runner, logger: logger}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(h.logRequests)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Route("/game", func(r chi.Router) {
		r.Post("/new", h.newGame)
		r.Post("/load/{slot}", h.loadGame)
		r.Post("/save/{slot}", h.saveGame)
	})

	router.Route("/saves", func(r chi.Router) {
		r.Get("/", h.listSaves)
		r.Delete("/{slot}", h.deleteSave)
		r.Get("/{slot}/export", h.exportSave)
		r.Post("/{slot}/import", h.importSave)
	})

	router.Get("/state", h.state)
	router.Get("/stats", h.stats)
	router.Post("/interact", h.interact)
	router.Post("/move", h.move)
	router.Post("/input", h.input)
	router.Put("/note", h.note)
	router.Post("/device/answer", h.answerDevice)

	router.Route("/puzzles/{id}", func(r chi.Router) {
		r.Get("/", h.viewPuzzle)
		r.Post("/activate", h.activatePuzzle)
		r.Post("/answer", h.answerPuzzle)
		r.Post("/hint", h.hint)
	})

	router.Route("/inventory", func(r chi.Router) {
		r.Post("/{slot}/use", h.useItem)
		r.Post("/{slot}/drop", h.dropItem)
	})

	router.Route("/photos", func(r chi.Router) {
		r.Get("/", h.gallery)
		r.Post("/{id}/view", h.viewPhoto)
		r.Post("/{id}/notes", h.photoNote)
	})

	return router
}

// stateResponse is the session summary plus the recent notifications
type stateResponse struct {
	game.Status
	Notifications []string `json:"notifications"`
}

func currentState(s *game.Session) stateResponse {
	return stateResponse{Status: s.Status(), Notifications: s.Notifications()}
}

type errorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

var statusByCode = map[game.Code]int{
	game.CodeNotFound:            http.StatusNotFound,
	game.CodeAlreadySolved:       http.StatusConflict,
	game.CodePreconditionUnmet:   http.StatusConflict,
	game.CodeInventoryFull:       http.StatusConflict,
	game.CodeInvalidInput:        http.StatusBadRequest,
	game.CodeUnknownAction:       http.StatusBadRequest,
	game.CodeDeserialization:     http.StatusUnprocessableEntity,
	game.CodeIncompatibleVersion: http.StatusUnprocessableEntity,
	game.CodeStorage:             http.StatusInternalServerError,
	game.CodeSaveInFlight:        http.StatusConflict,
	game.CodeInvalidSlot:         http.StatusBadRequest,
	game.CodeEmptySlot:           http.StatusNotFound,
	game.CodeGameNotStarted:      http.StatusConflict,
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var gameErr *game.Error
	switch {
	case errors.As(err, &gameErr):
		status, ok := statusByCode[gameErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{
			Error:    string(gameErr.Code),
			Message:  gameErr.Message,
			Metadata: gameErr.Metadata,
		})
	case errors.Is(err, game.ErrRunnerStopped):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "unavailable", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "timeout", Message: err.Error()})
	default:
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal error"})
	}
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("Request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// run executes fn on the loop goroutine and writes its result
func (h *Handler) run(w http.ResponseWriter, r *http.Request, status int, fn func(*game.Session) (any, error)) {
	value, err := h.runner.Do(r.Context(), fn)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, value)
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: string(game.CodeInvalidInput), Message: message})
}

func (h *Handler) slotParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		h.badRequest(w, "slot must be a number")
		return 0, false
	}
	return slot, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) newGame(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		s.NewGame()
		return currentState(s), nil
	})
}

func (h *Handler) loadGame(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		if err := s.Load(slot); err != nil {
			return nil, err
		}
		return currentState(s), nil
	})
}

func (h *Handler) saveGame(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Description string `json:"description"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.run(w, r, http.StatusAccepted, func(s *game.Session) (any, error) {
		if err := s.Save(slot, req.Description); err != nil {
			return nil, err
		}
		return map[string]any{"slot": slot, "status": "pending"}, nil
	})
}

func (h *Handler) listSaves(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		return s.Saves().Slots(), nil
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		return map[string]any{
			"statistics":   s.Saves().Statistics(),
			"achievements": s.Saves().Achievements(),
		}, nil
	})
}

func (h *Handler) deleteSave(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}
	h.run(w, r, http.StatusAccepted, func(s *game.Session) (any, error) {
		if err := s.Saves().Delete(slot); err != nil {
			return nil, err
		}
		return map[string]any{"slot": slot, "status": "pending"}, nil
	})
}

func (h *Handler) exportSave(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}
	value, err := h.runner.Do(r.Context(), func(s *game.Session) (any, error) {
		return s.Saves().Export(slot)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=save_slot_"+strconv.Itoa(slot)+".json")
	w.Write(value.([]byte))
}

func (h *Handler) importSave(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}
	blob, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		h.badRequest(w, "failed to read body")
		return
	}
	h.run(w, r, http.StatusAccepted, func(s *game.Session) (any, error) {
		if err := s.Saves().Import(blob, slot); err != nil {
			return nil, err
		}
		return map[string]any{"slot": slot, "status": "pending"}, nil
	})
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		return currentState(s), nil
	})
}

func (h *Handler) interact(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		if err := s.Interact(); err != nil {
			return nil, err
		}
		return currentState(s), nil
	})
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request) {
	var pos types.Vec3
	if !h.decode(w, r, &pos) {
		return
	}
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		s.MoveTo(pos)
		return currentState(s), nil
	})
}

func (h *Handler) input(w http.ResponseWriter, r *http.Request) {
	var in game.Input
	if !h.decode(w, r, &in) {
		return
	}
	h.runner.SendInput(in)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) note(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		if err := s.SetNote(req.Text); err != nil {
			return nil, err
		}
		return currentState(s), nil
	})
}

type answerRequest struct {
	Input string `json:"input"`
}

func (h *Handler) answerDevice(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		return s.AnswerDeviceText(req.Input)
	})
}

func (h *Handler) viewPuzzle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		return s.Puzzles().View(id)
	})
}

func (h *Handler) activatePuzzle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		return s.ActivatePuzzle(id)
	})
}

func (h *Handler) answerPuzzle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req answerRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		return s.SubmitPuzzleText(id, req.Input)
	})
}

func (h *Handler) hint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		hint, err := s.RequestHint(id)
		if err != nil {
			return nil, err
		}
		return map[string]string{"hint": hint}, nil
	})
}

func (h *Handler) useItem(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		if err := s.UseItem(slot); err != nil {
			return nil, err
		}
		return currentState(s), nil
	})
}

func (h *Handler) dropItem(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		if err := s.DropItem(slot); err != nil {
			return nil, err
		}
		return currentState(s), nil
	})
}

func (h *Handler) gallery(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		return s.Gallery(), nil
	})
}

func (h *Handler) viewPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		return s.ViewPhoto(id)
	})
}

func (h *Handler) photoNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Text string   `json:"text"`
		Tags []string `json:"tags"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.run(w, r, http.StatusOK, func(s *game.Session) (any, error) {
		if err := s.AddPhotoNote(id, req.Text, req.Tags); err != nil {
			return nil, err
		}
		return currentState(s), nil
	})
}
