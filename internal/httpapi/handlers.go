package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/pokedraft-backend/internal/board"
	"github.com/DoyleJ11/pokedraft-backend/internal/catalog"
	"github.com/DoyleJ11/pokedraft-backend/internal/session"
	"github.com/DoyleJ11/pokedraft-backend/internal/store"
	"github.com/DoyleJ11/pokedraft-backend/internal/types"
	"github.com/DoyleJ11/pokedraft-backend/internal/ws"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	code, _, err := s.hub.Create(r.Context(), board.New(s.catalog))
	if err != nil {
		s.log.Error("create session", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		Code string `json:"code"`
	}{Code: code})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondView(w, r, sess, http.StatusOK)
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if _, ok := s.session(w, r); !ok {
		return
	}
	if err := s.hub.Remove(r.Context(), code); err != nil {
		respondError(w, http.StatusServiceUnavailable, "hub unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCommand applies one ClientMessage, for clients that do not hold a socket open.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var msg types.ClientMessage
	if err := decodeJSON(r, &msg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := ws.Dispatch(r.Context(), sess, requestClientID(r), msg, s.details)
	if err != nil && !errors.Is(err, board.ErrStaleIndex) {
		switch {
		case errors.Is(err, session.ErrClosed):
			respondError(w, http.StatusNotFound, "Session not found")
			return
		case errors.Is(err, session.ErrSealed):
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.respondView(w, r, sess, http.StatusOK)
}

type submitRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	PointLimit   int    `json:"point_limit"`
	PokemonLimit int    `json:"pokemon_limit"`
	Rules        string `json:"rules"`
}

// handleSubmit persists the session's board as a draft template and discards the session.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tmpl := &store.DraftTemplate{
		Name:         req.Name,
		Description:  req.Description,
		PointLimit:   req.PointLimit,
		PokemonLimit: req.PokemonLimit,
		Rules:        req.Rules,
	}
	if err := tmpl.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Commands are refused from here on so the saved board is the final one.
	snap, err := sess.Seal(r.Context())
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	tmpl.Board = snap.Board

	if err := s.store.Create(r.Context(), tmpl); err != nil {
		if uerr := sess.Unseal(r.Context()); uerr != nil {
			s.log.Warn("unseal session", zap.String("code", code), zap.Error(uerr))
		}
		switch {
		case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrDuplicateName):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.log.Error("create draft", zap.String("code", code), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Draft not created")
		}
		return
	}

	if err := s.hub.Remove(r.Context(), code); err != nil {
		s.log.Warn("discard submitted session", zap.String("code", code), zap.Error(err))
	}
	s.log.Info("draft created",
		zap.String("id", tmpl.ID),
		zap.String("name", tmpl.Name),
		zap.Int("pokemon", tmpl.Board.Count()))
	respondJSON(w, http.StatusCreated, tmpl)
}

func (s *Server) handleSearchCatalog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, s.catalog.Search(r.URL.Query().Get("q"), limit))
}

func (s *Server) handlePokemonDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.catalog.Resolve(name); !ok {
		respondError(w, http.StatusNotFound, "Pokemon not found")
		return
	}

	d, err := s.details.Detail(r.Context(), name)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Pokemon not found")
		return
	}
	if err != nil {
		s.log.Warn("pokemon detail", zap.String("name", name), zap.Error(err))
		respondError(w, http.StatusBadGateway, "Pokemon data unavailable")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("list drafts", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch drafts")
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Drafts []store.DraftTemplate `json:"drafts"`
	}{Drafts: drafts})
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Draft not found")
		return
	}
	if err != nil {
		s.log.Error("get draft", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch draft")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// session looks up {code} and writes a 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.hub.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "hub unavailable")
		return nil, false
	}
	if sess == nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, sess *session.Session, status int) {
	view, err := sess.View(r.Context())
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	respondJSON(w, status, view)
}

// requestClientID tags HTTP commands with the chi request id for logging.
func requestClientID(r *http.Request) string {
	return "http-" + middleware.GetReqID(r.Context())
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
