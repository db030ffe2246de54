package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/DoyleJ11/pokedraft-backend/internal/catalog"
	"github.com/DoyleJ11/pokedraft-backend/internal/hub"
	"github.com/DoyleJ11/pokedraft-backend/internal/store"
	"github.com/DoyleJ11/pokedraft-backend/internal/ws"
)

// Server holds the HTTP dependencies.
type Server struct {
	hub         *hub.Hub
	catalog     *catalog.Catalog
	details     catalog.DetailSource
	store       store.DraftStore
	log         *zap.Logger
	corsOrigins []string
}

type Deps struct {
	Hub         *hub.Hub
	Catalog     *catalog.Catalog
	Details     catalog.DetailSource
	Store       store.DraftStore
	Log         *zap.Logger
	CORSOrigins []string
}

func SetupRoutes(d Deps) http.Handler {
	s := &Server{
		hub:         d.Hub,
		catalog:     d.Catalog,
		details:     d.Details,
		store:       d.Store,
		log:         d.Log,
		corsOrigins: d.CORSOrigins,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{code}", s.handleGetSession)
		r.Delete("/{code}", s.handleDiscardSession)
		r.Post("/{code}/commands", s.handleCommand)
		r.Post("/{code}/submit", s.handleSubmit)
	})

	r.Get("/catalog", s.handleSearchCatalog)
	r.Get("/pokemon/{name}", s.handlePokemonDetail)

	r.Get("/drafts", s.handleListDrafts)
	r.Get("/drafts/{id}", s.handleGetDraft)

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(s.hub, s.details, s.log))
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
