package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sellside/underwriter/internal/api/handlers"
	"github.com/sellside/underwriter/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	qualifyHandler *handlers.QualifyHandler,
	analyzeHandler *handlers.AnalyzeHandler,
	portfolioHandler *handlers.PortfolioHandler,
	metricsEnabled bool,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Qualification endpoints
	api.HandleFunc("/qualify", qualifyHandler.Qualify).Methods("POST")
	api.HandleFunc("/universe/build", qualifyHandler.BuildUniverse).Methods("POST")

	// Stateless analysis endpoints
	api.HandleFunc("/analyze/liquidity", analyzeHandler.Liquidity).Methods("POST")
	api.HandleFunc("/analyze/strategy", analyzeHandler.Strategy).Methods("POST")
	api.HandleFunc("/analyze/strike", analyzeHandler.Strike).Methods("POST")
	api.HandleFunc("/analyze/expirations", analyzeHandler.Expirations).Methods("POST")
	api.HandleFunc("/analyze/score", analyzeHandler.Score).Methods("POST")
	api.HandleFunc("/analyze/sizing", analyzeHandler.Sizing).Methods("POST")
	api.HandleFunc("/analyze/explain", analyzeHandler.Explain).Methods("POST")

	// Portfolio endpoints
	api.HandleFunc("/portfolio/concentration", portfolioHandler.Concentration).Methods("POST")
	api.HandleFunc("/portfolio/positions", portfolioHandler.OpenPositions).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "underwriter-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
