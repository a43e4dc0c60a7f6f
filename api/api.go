package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zlnvch/webnotes/api/rest"
	"github.com/zlnvch/webnotes/service"
)

type NotesAPI struct {
	restHandler *rest.Handler
	logger      *zap.Logger
}

func NewNotesAPI(svc *service.Service, logger *zap.Logger, secureCookies bool) *NotesAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotesAPI{
		restHandler: rest.NewHandler(svc, logger, secureCookies),
		logger:      logger,
	}
}

func (notesAPI *NotesAPI) Router() http.Handler {
	h := notesAPI.restHandler
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(rest.RequestLogger(notesAPI.logger))
	mux.Use(rest.Recoverer(notesAPI.logger))

	// Health check endpoint (no auth required)
	mux.Get("/health", h.HandleHealth)

	mux.Post("/signup", h.HandleSignup)
	mux.Post("/login", h.HandleLogin)
	mux.Post("/logout", h.HandleLogout)

	// Reading a note by id needs no credentials
	mux.Get("/note/{noteId}", h.HandleGetNote)

	mux.Group(func(r chi.Router) {
		r.Use(h.RequireSession)
		r.Get("/user", h.HandleListUsers)
	})

	mux.Group(func(r chi.Router) {
		r.Use(h.RequireBearer)
		r.Get("/note", h.HandleListNotes)
		r.Post("/note", h.HandleAddNote)
		r.Post("/note/{noteId}", h.HandleUpdateNote)
		r.Delete("/note/{noteId}", h.HandleDeleteNote)
	})

	return mux
}
