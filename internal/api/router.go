package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/localmeetbridge/internal/api/handlers"
	"github.com/nikhilbhutani/localmeetbridge/internal/api/middleware"
	"github.com/nikhilbhutani/localmeetbridge/internal/auth"
)

// Upstream is everything the endpoints need from the provider client.
type Upstream interface {
	handlers.Translator
	handlers.Transcriber
	handlers.Speaker
}

type Router struct {
	mux      *chi.Mux
	gate     *auth.TokenGate
	upstream Upstream
}

func NewRouter(token string, up Upstream) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		gate:     auth.NewTokenGate(token),
		upstream: up,
	}
}

// Setup wires every route as CORS preamble, method check, token check, handler.
func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.NotFound(handlers.NotFound)

	health := handlers.NewHealthHandler()
	translate := handlers.NewTranslateHandler(rt.upstream)
	transcribe := handlers.NewTranscribeHandler(rt.upstream, rt.upstream)
	speech := handlers.NewSpeechHandler(rt.upstream)

	rt.route(http.MethodGet, "/health", health.Health)
	rt.route(http.MethodPost, "/translate-text", translate.Translate)
	rt.route(http.MethodPost, "/transcribe-and-translate", transcribe.TranscribeAndTranslate)
	rt.route(http.MethodPost, "/tts", speech.Speak)

	return r
}

// route registers h for every method so that the method check can answer 405
// with the JSON envelope.
func (rt *Router) route(method, pattern string, h http.HandlerFunc) {
	rt.mux.With(middleware.AllowMethod(method), rt.gate.Authenticate).Handle(pattern, h)
}
