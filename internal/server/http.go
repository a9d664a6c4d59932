// Package server is the thin HTTP layer over the pricing service. It is only
// responsible for input ingestion, service orchestration and output
// serialization; it never performs pricing logic.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dinehq/pricingservice/internal/config"
	"github.com/dinehq/pricingservice/internal/domain"
	"github.com/dinehq/pricingservice/internal/log"
	"github.com/dinehq/pricingservice/internal/ratelimit"
	"github.com/dinehq/pricingservice/internal/service"
	"github.com/dinehq/pricingservice/internal/tracing"
)

// HTTPServer serves the pricing API.
type HTTPServer struct {
	server  *http.Server
	pricing *service.PricingService
	logger  *zap.Logger
}

// NewHTTPServer creates the API server and registers all routes. A nil
// limiter disables rate limiting.
func NewHTTPServer(cfg *config.Config, pricing *service.PricingService, limiter ratelimit.RateLimiter) *HTTPServer {
	s := &HTTPServer{
		pricing: pricing,
		logger:  log.L(context.Background()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/pricing/calculate", s.handleCalculate)
	mux.HandleFunc("GET /v1/pricing/rules", s.handleListRules)
	mux.HandleFunc("POST /v1/pricing/rules", s.handleCreateRule)
	mux.HandleFunc("GET /v1/pricing/rules/{id}", s.handleGetRule)
	mux.HandleFunc("PATCH /v1/pricing/rules/{id}", s.handleUpdateRule)
	mux.HandleFunc("GET /v1/pricing/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/pricing/recommendations", s.handleRecommendations)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = s.withRequestID(mux)
	if limiter != nil {
		handler = ratelimit.Middleware(limiter, s.logger, handler)
	}

	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// withRequestID tags every request context with a request ID for logging.
func (s *HTTPServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := log.WithRequestID(r.Context(), requestID)
		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			ctx = log.WithTraceID(ctx, traceID)
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// calculateRequest is the wire shape of a calculation request; the date is a
// calendar date string.
type calculateRequest struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	PartySize int    `json:"party_size"`
	Occasion  string `json:"occasion,omitempty"`
}

func (s *HTTPServer) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(w, "INVALID_INPUT", err.Error(), http.StatusBadRequest)
		return
	}

	calc, err := s.pricing.CalculatePrice(ctx, domain.BookingRequest{
		Date:      date,
		Time:      req.Time,
		PartySize: req.PartySize,
		Occasion:  req.Occasion,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, calc, http.StatusOK)
}

func (s *HTTPServer) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.pricing.GetActivePricingRules(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, rules, http.StatusOK)
}

func (s *HTTPServer) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule domain.PricingRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	created, err := s.pricing.CreatePricingRule(r.Context(), rule)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, created, http.StatusCreated)
}

func (s *HTTPServer) handleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.pricing.GetPricingRule(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, rule, http.StatusOK)
}

func (s *HTTPServer) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var params service.UpdatePricingRuleParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := s.pricing.UpdatePricingRule(r.Context(), r.PathValue("id"), params)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, updated, http.StatusOK)
}

func (s *HTTPServer) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseDate(q.Get("start"))
	if err != nil {
		s.writeError(w, "INVALID_INPUT", "start: "+err.Error(), http.StatusBadRequest)
		return
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		s.writeError(w, "INVALID_INPUT", "end: "+err.Error(), http.StatusBadRequest)
		return
	}
	partySize := parseIntDefault(q.Get("party_size"), 2)

	forecast, err := s.pricing.GetPricingForecast(r.Context(), start, end, partySize)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, forecast, http.StatusOK)
}

func (s *HTTPServer) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := parseDate(q.Get("date"))
	if err != nil {
		s.writeError(w, "INVALID_INPUT", "date: "+err.Error(), http.StatusBadRequest)
		return
	}
	partySize := parseIntDefault(q.Get("party_size"), 2)

	rec, err := s.pricing.GetRecommendations(r.Context(), date, partySize)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, rec, http.StatusOK)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, errorResponse{Code: code, Message: message}, status)
}

// writeDomainError maps domain error codes onto HTTP statuses. Anything that
// is not a domain error is reported as an opaque internal error.
func (s *HTTPServer) writeDomainError(w http.ResponseWriter, err error) {
	if !domain.IsDomainError(err) {
		s.logger.Error("Request failed", zap.Error(err))
		err = domain.NewInternalError("internal server error")
	}
	de := domain.GetDomainError(err)
	switch de.Code {
	case domain.ErrCodeInvalidInput:
		s.writeError(w, de.Code, de.Message, http.StatusBadRequest)
	case domain.ErrCodeNotFound:
		s.writeError(w, de.Code, de.Message, http.StatusNotFound)
	case domain.ErrCodeAlreadyExists:
		s.writeError(w, de.Code, de.Message, http.StatusConflict)
	case domain.ErrCodeCollaboratorUnavailable:
		s.writeError(w, de.Code, de.Message, http.StatusServiceUnavailable)
	default:
		s.writeError(w, de.Code, de.Message, http.StatusInternalServerError)
	}
}

// Serve starts the HTTP server and blocks until the context is cancelled or
// a shutdown signal arrives, then drains gracefully.
func (s *HTTPServer) Serve(ctx context.Context) error {
	s.logger.Info("HTTP server starting", zap.String("addr", s.server.Addr))

	serverErr := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info("HTTP server shutting down due to context cancellation")
	case sig := <-shutdown:
		s.logger.Info("HTTP server shutting down due to signal",
			zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Graceful shutdown failed, closing", zap.Error(err))
		return s.server.Close()
	}
	s.logger.Info("HTTP server stopped gracefully")
	return nil
}
