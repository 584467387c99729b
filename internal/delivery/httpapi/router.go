// Package httpapi exposes the sales agent over a JSON HTTP API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/agrofel/sales-agent/internal/domain/repository"
	"github.com/agrofel/sales-agent/internal/usecase"
	"github.com/agrofel/sales-agent/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// DefaultRequestTimeout covers one LLM round trip with retries.
const DefaultRequestTimeout = 60 * time.Second

// NewRouter creates the API router with all routes configured.
func NewRouter(chat usecase.ChatUseCase, catalog repository.CatalogRepository, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	log := logger.Component("http")

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "agrofel-sales-agent"})
	})

	chatHandler := NewChatHandler(log, chat)
	catalogHandler := NewCatalogHandler(log, catalog)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Get("/conversations/{id}/history", chatHandler.History)
		r.Delete("/conversations/{id}", chatHandler.Clear)

		r.Post("/quote", catalogHandler.Quote)
		r.Get("/products", catalogHandler.SearchProducts)
		r.Get("/products/{sku}/price", catalogHandler.Price)
		r.Get("/products/{sku}/similar", catalogHandler.Similar)
		r.Get("/crops", catalogHandler.Crops)
		r.Get("/crops/{crop}/products", catalogHandler.CropProducts)
		r.Get("/vendors/{cep}", catalogHandler.Vendor)
		r.Get("/clients/{taxID}", catalogHandler.Client)
		r.Post("/catalog/reload", catalogHandler.Reload)
	})

	return r
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
