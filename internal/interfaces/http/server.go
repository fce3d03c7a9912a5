// Package http exposes the read-only monitoring surface: liveness,
// prometheus metrics, latest rankings, and on-demand health analyses.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/application"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/health"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// ServerConfig holds the listener configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig binds to localhost only.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "127.0.0.1",
		Port:         8080,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server serves the latest completed run. It holds no mutable pipeline
// state; SwapResult publishes a new run atomically.
type Server struct {
	router *mux.Router
	server *http.Server
	config ServerConfig

	mu       sync.RWMutex
	result   *application.RunResult
	analyzer *health.Analyzer
}

// NewServer builds the server and its routes.
func NewServer(config ServerConfig) *Server {
	s := &Server{
		router: mux.NewRouter(),
		config: config,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// SwapResult publishes a completed run and its analyzer to readers.
func (s *Server) SwapResult(res *application.RunResult, analyzer *health.Analyzer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
	s.analyzer = analyzer
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := s.router.PathPrefix("/").Subrouter()
	api.Use(jsonContentTypeMiddleware)
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/rankings/{tier}", s.handleRankings).Methods("GET")
	api.HandleFunc("/analyze/{symbol}", s.handleAnalyze).Methods("GET")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := map[string]interface{}{"status": "ok"}
	if s.result != nil {
		resp["run_id"] = s.result.RunID
		resp["companies"] = s.result.Enriched.Len()
		resp["started_at"] = s.result.StartedAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	tier := domain.Tier(strings.ToLower(mux.Vars(r)["tier"]))

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		writeError(w, http.StatusServiceUnavailable, "no completed run yet")
		return
	}
	res, ok := s.result.Results[tier]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown tier: %s", tier))
		return
	}

	picks := make([]map[string]interface{}, 0, len(res.TopPicks))
	for i := range res.TopPicks {
		c := &res.TopPicks[i]
		picks = append(picks, map[string]interface{}{
			"rank":            c.Rank,
			"symbol":          c.Symbol,
			"company_name":    c.CompanyName,
			"sector_category": c.SectorCategory,
			"rank_score":      jsonFloat(c.RankScore),
			"composite_score": jsonFloat(c.CompositeScore),
			"market_cap":      jsonFloat(c.MarketCap),
			"risk_category":   c.RiskCategory,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tier":            tier,
		"description":     res.Description,
		"total_companies": res.TotalCompanies,
		"top_picks":       picks,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "no completed run yet")
		return
	}

	a := s.analyzer.Analyze(symbol)
	if !a.Found {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":         fmt.Sprintf("symbol %s not found", strings.ToUpper(symbol)),
			"symbol_sample": a.SymbolSample,
		})
		return
	}
	writeJSON(w, http.StatusOK, analysisDoc(a))
}

// analysisDoc converts an analysis into a JSON-safe document. Missing metric
// values become null rather than NaN, which JSON cannot encode.
func analysisDoc(a *health.Analysis) map[string]interface{} {
	metrics := map[string]interface{}{
		"market_cap":     jsonFloat(a.MarketCap),
		"pe_ratio":       jsonFloat(a.KeyMetrics.PERatio),
		"profit_margin":  jsonFloat(a.KeyMetrics.ProfitMargin),
		"roe":            jsonFloat(a.KeyMetrics.ROE),
		"revenue_growth": jsonFloat(a.KeyMetrics.RevenueGrowth),
		"debt_to_equity": jsonFloat(a.KeyMetrics.DebtToEquity),
		"beta":           jsonFloat(a.KeyMetrics.Beta),
		"dividend_yield": jsonFloat(a.KeyMetrics.DividendYield),
		"current_price":  jsonFloat(a.KeyMetrics.CurrentPrice),
	}
	return map[string]interface{}{
		"symbol":         a.Symbol,
		"company_name":   a.CompanyName,
		"sector":         a.Sector,
		"overall_health": a.OverallHealth,
		"risk_level":     a.RiskLevel,
		"recommendation": a.Recommendation,
		"dimensions": map[string]float64{
			"financial_strength": a.Dimensions.FinancialStrength,
			"profitability":      a.Dimensions.Profitability,
			"growth_trajectory":  a.Dimensions.GrowthTrajectory,
			"valuation":          a.Dimensions.Valuation,
			"risk_management":    a.Dimensions.RiskManagement,
			"market_position":    a.Dimensions.MarketPosition,
		},
		"pros":    a.Pros,
		"cons":    a.Cons,
		"metrics": metrics,
	}
}

// jsonFloat maps missing values to null, since JSON has no NaN.
func jsonFloat(v float64) *float64 {
	if domain.IsMissing(v) {
		return nil
	}
	return &v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Start blocks serving requests until Shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server starting")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.server.Addr
}

// responseWrapper captures status codes for logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
