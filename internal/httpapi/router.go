package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	CORSOrigins    []string
	LogRequests    bool
	MaxLogBytes    int
	RequestTimeout time.Duration
}

func NewRouter(api *API, opts RouterOptions) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if opts.LogRequests {
		r.Use(requestLogger(opts.MaxLogBytes))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(writeMethodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/categories", api.HandleCategories)
	r.Route("/quizzes", func(r chi.Router) {
		r.Get("/", api.HandleListQuizzes)
		r.Post("/update", api.HandleUpdateQuiz)
		r.Get("/{quizID}", api.HandleGetQuiz)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", api.HandleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", api.HandleGetSession)
			r.Delete("/", api.HandleDeleteSession)
			r.Put("/fields", api.HandleSetFields)
			r.Post("/submit", api.HandleSubmitSession)
			r.Post("/questions", api.HandleAddQuestion)
			r.Route("/questions/{q}", func(r chi.Router) {
				r.Put("/", api.HandleEditQuestion)
				r.Delete("/", api.HandleRemoveQuestion)
				r.Put("/options/{o}", api.HandleEditOption)
				r.Put("/options/{o}/correct", api.HandleSetCorrectOption)
			})
		})
	})

	return r
}
