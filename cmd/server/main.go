// Package main is the entry point for the chain migration analyzer, an HTTP
// service that scores the health, risk and effort of moving a protocol from
// one blockchain to another.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourorg/chain-migration-analyzer/internal/apierror"
	"github.com/yourorg/chain-migration-analyzer/internal/cache"
	"github.com/yourorg/chain-migration-analyzer/internal/circuitbreaker"
	"github.com/yourorg/chain-migration-analyzer/internal/compare"
	"github.com/yourorg/chain-migration-analyzer/internal/complexity"
	"github.com/yourorg/chain-migration-analyzer/internal/config"
	"github.com/yourorg/chain-migration-analyzer/internal/export"
	"github.com/yourorg/chain-migration-analyzer/internal/fetch"
	"github.com/yourorg/chain-migration-analyzer/internal/health"
	"github.com/yourorg/chain-migration-analyzer/internal/model"
	"github.com/yourorg/chain-migration-analyzer/internal/otel"
	"github.com/yourorg/chain-migration-analyzer/internal/risk"
	"github.com/yourorg/chain-migration-analyzer/internal/security"
	"github.com/yourorg/chain-migration-analyzer/internal/tokens"
	"github.com/yourorg/chain-migration-analyzer/internal/types"
)

// startTime records when the service was initialized for uptime reporting
var startTime = time.Now()

const version = "1.0.0"

// Server is the analyzer service instance
type Server struct {
	cfg    config.Config
	server *http.Server

	llama    *fetch.DefiLlamaClient
	wormhole *fetch.WormholeClient

	analyzer   *health.Analyzer
	comparator *compare.Comparator
	aggregator *risk.Aggregator
	tokens     *tokens.Analyzer

	breaker *circuitbreaker.CircuitBreaker
	results *cache.Cache[interface{}]

	metrics   *serverMetrics
	rateLimit *rate.Limiter
	signer    *security.ReportSigner
	exporter  *export.ResultExporter
}

// serverMetrics holds Prometheus metrics for the server
type serverMetrics struct {
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	circuitState    prometheus.Gauge
	cacheEntries    prometheus.Gauge
	riskScores      *prometheus.HistogramVec
}

// registerMetrics sets up Prometheus metrics collection
func registerMetrics() *serverMetrics {
	m := &serverMetrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "migration_requests_total",
				Help: "Total number of API requests processed",
			},
			[]string{"endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "migration_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		upstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "migration_upstream_errors_total",
				Help: "Total number of upstream provider errors",
			},
			[]string{"provider"},
		),
		circuitState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "migration_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
		),
		cacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "migration_cache_entries",
				Help: "Number of entries in the result cache",
			},
		),
		riskScores: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "migration_risk_score",
				Help:    "Distribution of computed composite risk scores",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"risk_level"},
		),
	}

	prometheus.MustRegister(
		m.requestCounter,
		m.requestDuration,
		m.upstreamErrors,
		m.circuitState,
		m.cacheEntries,
		m.riskScores,
	)
	return m
}

func main() {
	setupLogging()

	cfg := config.Load()

	shutdownTracing := otel.InitTracer(cfg)
	defer shutdownTracing()

	server := NewServer(cfg)
	server.Start()
}

// setupLogging configures the logging for the application
func setupLogging() {
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))

	switch logFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	switch logLevel {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.Info("Logging configured")
}

// NewServer wires the analysis pipeline together
func NewServer(cfg config.Config) *Server {
	llama := fetch.NewDefiLlamaClient(cfg)
	wormhole := fetch.NewWormholeClient(cfg)

	breaker := circuitbreaker.New(circuitbreaker.Thresholds{
		MaxFailureStreak: cfg.BreakerFailureStreak,
		MinUniverseSize:  cfg.BreakerMinUniverse,
		MaxTVLCollapse:   0.8,
	}).WithResetDelay(cfg.BreakerResetDelay).
		WithTripCallback(func(reason string) {
			logrus.Warnf("Upstream guard tripped: %s", reason)
		})

	provider := &guardedProvider{llama: llama, breaker: breaker}
	analyzer := health.NewAnalyzer(provider)
	comparator := compare.NewComparator(analyzer)

	aggregator, err := risk.NewAggregator(comparator, wormhole, risk.DefaultWeights())
	if err != nil {
		logrus.Fatalf("Invalid risk weights: %v", err)
	}

	server := &Server{
		cfg:        cfg,
		llama:      llama,
		wormhole:   wormhole,
		analyzer:   analyzer,
		comparator: comparator,
		aggregator: aggregator,
		tokens:     tokens.NewAnalyzer(llama),
		breaker:    breaker,
		results:    cache.New[interface{}](cfg.DefaultCacheTTL),
		rateLimit:  rate.NewLimiter(rate.Limit(getEnvFloat("RATE_LIMIT_RPS", 10.0)), getEnvInt("RATE_LIMIT_BURST", 20)),
	}

	if cfg.EnableMetrics {
		server.metrics = registerMetrics()
	}

	if cfg.EnableSigning {
		signer, err := security.NewReportSigner(security.Options{
			Enabled:           true,
			SignatureValidity: getEnvDuration("SIGNATURE_VALIDITY", 24*time.Hour),
		})
		if err != nil {
			logrus.Warnf("Failed to initialize report signer: %v", err)
		} else {
			server.signer = signer
		}
	}

	if cfg.WebhookURL != "" {
		server.exporter = export.NewResultExporter(export.Config{
			Enabled:        true,
			BatchSize:      getEnvInt("EXPORT_BATCH_SIZE", 50),
			ExportInterval: getEnvDuration("EXPORT_INTERVAL", time.Minute),
			WebhookURL:     cfg.WebhookURL,
			WebhookAPIKey:  cfg.WebhookAPIKey,
		})
	}

	logrus.WithFields(logrus.Fields{
		"port":         cfg.Port,
		"metrics":      cfg.EnableMetrics,
		"signing":      server.signer != nil,
		"exporter":     server.exporter != nil,
		"universe_ttl": cfg.UniverseTTL.String(),
	}).Info("Server initialized")

	return server
}

// Start begins the HTTP server and sets up graceful shutdown
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/chains", s.handleChains)
	mux.HandleFunc("GET /api/chains/top", s.handleChainsTop)
	mux.HandleFunc("GET /api/chain/{name}", s.handleChain)
	mux.HandleFunc("GET /api/compare/{source}/{target}", s.handleCompare)
	mux.HandleFunc("GET /api/risk/{source}/{target}", s.handleRisk)
	mux.HandleFunc("GET /api/tokens/{source}/{target}", s.handleTokens)
	mux.HandleFunc("GET /api/bridges", s.handleBridges)
	mux.HandleFunc("GET /api/bridges/{source}/{target}", s.handleBridgesPair)
	mux.HandleFunc("POST /api/contracts", s.handleContracts)
	mux.HandleFunc("GET /api/patterns", s.handlePatterns)
	mux.HandleFunc("GET /api/complexity", s.handleComplexity)
	mux.HandleFunc("GET /api/protocols", s.handleProtocols)
	mux.HandleFunc("GET /api/protocol/{name}", s.handleProtocol)
	mux.HandleFunc("GET /api/full/{source}/{target}", s.handleFull)
	mux.HandleFunc("POST /api/full", s.handleFullPost)
	mux.HandleFunc("GET /api/dying", s.handleDying)
	mux.HandleFunc("GET /api/wormhole", s.handleWormhole)
	mux.HandleFunc("GET /api/wormhole/pairs", s.handleWormholePairs)
	mux.HandleFunc("GET /api/wormhole/assets", s.handleWormholeAssets)
	mux.HandleFunc("GET /api/cache/stats", s.handleCacheStats)
	mux.HandleFunc("GET /api/cache/clear", s.handleCacheClear)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on port %s", s.cfg.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.exporter != nil {
		s.exporter.Stop()
	}
	if err := s.server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server shutdown failed: %v", err)
	}
	logrus.Info("Server stopped")
}

// guardedProvider routes universe fetches through the circuit breaker,
// serving the last known good universe while the upstream is unavailable.
// History and protocol fetches pass through unguarded; they degrade
// per-chain rather than poisoning the whole pipeline.
type guardedProvider struct {
	llama   *fetch.DefiLlamaClient
	breaker *circuitbreaker.CircuitBreaker
}

func (g *guardedProvider) AllChains(ctx context.Context) ([]model.ChainSnapshot, error) {
	if err := g.breaker.Allow(); err != nil {
		if universe, at := g.breaker.LastGoodUniverse(); universe != nil {
			logrus.Debugf("Serving last good universe from %s", at.Format(time.RFC3339))
			return universe, nil
		}
		return nil, apierror.Upstream(err, "")
	}

	universe, err := g.llama.AllChains(ctx)
	if err != nil {
		g.breaker.RecordFailure(err)
		if fallback, at := g.breaker.LastGoodUniverse(); fallback != nil {
			logrus.Warnf("Universe fetch failed, serving snapshot from %s: %v", at.Format(time.RFC3339), err)
			return fallback, nil
		}
		return nil, err
	}
	if err := g.breaker.RecordUniverse(universe); err != nil {
		if fallback, _ := g.breaker.LastGoodUniverse(); fallback != nil {
			return fallback, nil
		}
		return nil, apierror.Upstream(err, "")
	}
	return universe, nil
}

func (g *guardedProvider) HistoricalTVL(ctx context.Context, chain string) ([]model.TvlHistoryPoint, error) {
	return g.llama.HistoricalTVL(ctx, chain)
}

func (g *guardedProvider) AllProtocols(ctx context.Context) ([]model.Protocol, error) {
	return g.llama.AllProtocols(ctx)
}

// handleHealth reports service status and the available route surface
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"version":       version,
		"name":          "chain-migration-analyzer",
		"uptime":        time.Since(startTime).String(),
		"cache_entries": s.results.Len(),
		"circuit_state": s.breaker.GetState(),
		"endpoints": []string{
			"GET /api/health",
			"GET /api/chains",
			"GET /api/chains/top?limit=N",
			"GET /api/chain/{name}",
			"GET /api/compare/{source}/{target}",
			"GET /api/risk/{source}/{target}",
			"GET /api/tokens/{source}/{target}?token=name",
			"GET /api/bridges",
			"GET /api/bridges/{source}/{target}",
			"POST /api/contracts  {types:[...]}",
			"GET /api/patterns",
			"GET /api/complexity?source=a&target=b",
			"GET /api/protocols?chain=name",
			"GET /api/protocol/{name}",
			"GET /api/full/{source}/{target}?project=name&contracts=t1,t2",
			"POST /api/full  {source,target,project,contracts:[]}",
			"GET /api/dying?threshold=-10&limit=N",
			"GET /api/wormhole",
			"GET /api/wormhole/pairs?span=7d",
			"GET /api/wormhole/assets?span=7d",
			"GET /api/cache/stats",
			"GET /api/cache/clear",
			"GET /metrics",
		},
	})
}

// handleChains returns the full chain universe
func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	data, err := s.results.Do("chains:all", s.cfg.UniverseTTL, func() (interface{}, error) {
		return s.analyzer.Universe(r.Context())
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleChainsTop returns the largest chains by TVL
func (s *Server) handleChainsTop(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	data, err := s.results.Do("chains:all", s.cfg.UniverseTTL, func() (interface{}, error) {
		return s.analyzer.Universe(r.Context())
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	chains, ok := data.([]model.ChainSnapshot)
	if !ok {
		s.writeError(w, apierror.Upstream(errInvalidCacheEntry, ""))
		return
	}
	sorted := make([]model.ChainSnapshot, len(chains))
	copy(sorted, chains)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TVL > sorted[j].TVL })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":   len(chains),
		"showing": len(sorted),
		"chains":  sorted,
	})
}

// handleChain returns the health summary for one chain
func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	key := "chain:" + strings.ToLower(name)

	data, err := s.results.Do(key, s.cfg.DefaultCacheTTL, func() (interface{}, error) {
		return s.analyzer.ChainHealth(r.Context(), name)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleCompare returns the migration-signal comparison for a pair
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	source, target := r.PathValue("source"), r.PathValue("target")
	key := "compare:" + strings.ToLower(source) + ":" + strings.ToLower(target)

	data, err := s.results.Do(key, s.cfg.DefaultCacheTTL, func() (interface{}, error) {
		return s.comparator.Compare(r.Context(), source, target)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleRisk returns the composite migration risk for a pair
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	source, target := r.PathValue("source"), r.PathValue("target")
	key := "risk:" + strings.ToLower(source) + ":" + strings.ToLower(target)

	ctx, span := otel.Tracer().Start(r.Context(), "composite_risk")
	defer span.End()

	data, err := s.results.Do(key, s.cfg.DefaultCacheTTL, func() (interface{}, error) {
		result, err := s.aggregator.MigrationRisk(ctx, source, target)
		if err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.riskScores.WithLabelValues(result.RiskLevel).Observe(float64(result.OverallRiskScore))
		}
		if s.exporter != nil {
			s.exporter.Add(result)
		}
		return result, nil
	})
	if err != nil {
		otel.RecordError(ctx, err)
		s.writeError(w, err)
		return
	}

	if s.signer != nil {
		signed, err := s.signer.SignReport(data)
		if err != nil {
			logrus.Warnf("Failed to sign risk report: %v", err)
		} else {
			writeJSON(w, http.StatusOK, signed)
			return
		}
	}
	writeJSON(w, http.StatusOK, data)
}

// handleTokens returns the token migration analysis for a pair
func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	source, target := r.PathValue("source"), r.PathValue("target")
	token := r.URL.Query().Get("token")
	if token == "" {
		token = "Project Token"
	}
	key := "tokens:" + strings.ToLower(source) + ":" + strings.ToLower(target) + ":" + token

	data, err := s.results.Do(key, s.cfg.DefaultCacheTTL, func() (interface{}, error) {
		return s.tokens.AnalyzeMigration(r.Context(), source, target, token), nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleBridges returns the tracked bridge universe
func (s *Server) handleBridges(w http.ResponseWriter, r *http.Request) {
	data, err := s.results.Do("bridges:all", s.cfg.UniverseTTL, func() (interface{}, error) {
		return s.llama.AllBridges(r.Context())
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleBridgesPair returns the bridges covering a specific chain pair
func (s *Server) handleBridgesPair(w http.ResponseWriter, r *http.Request) {
	source, target := r.PathValue("source"), r.PathValue("target")
	bridges := tokens.AvailableBridges(source, target)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"source":  source,
		"target":  target,
		"count":   len(bridges),
		"bridges": bridges,
	})
}

// contractsRequest is the POST /api/contracts body
type contractsRequest struct {
	Types []string `json:"types"`
}

// handleContracts estimates migration complexity for a set of contract types
func (s *Server) handleContracts(w http.ResponseWriter, r *http.Request) {
	var req contractsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apierror.InvalidInput("invalid request body: %v", err))
		return
	}
	if len(req.Types) == 0 {
		s.writeError(w, apierror.InvalidInput("Missing 'types' array"))
		return
	}
	writeJSON(w, http.StatusOK, complexity.Estimate(req.Types))
}

// handlePatterns lists the contract pattern catalog
func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	patterns := complexity.Catalog()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pattern_count": len(patterns),
		"patterns":      patterns,
	})
}

// handleComplexity returns the static pair difficulty lookup
func (s *Server) handleComplexity(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	target := r.URL.Query().Get("target")
	if source == "" || target == "" {
		s.writeError(w, apierror.InvalidInput("Missing 'source' and 'target' params"))
		return
	}
	writeJSON(w, http.StatusOK, risk.PairComplexity(source, target))
}

// handleProtocols returns protocols, optionally filtered by chain. Without
// a chain filter only the count is returned; the full universe is too large
// for one response.
func (s *Server) handleProtocols(w http.ResponseWriter, r *http.Request) {
	chain := r.URL.Query().Get("chain")

	protocols, err := s.llama.AllProtocols(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	if chain == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"total_protocols": len(protocols),
			"hint":            "Use ?chain=name to filter",
		})
		return
	}

	want := strings.ToLower(chain)
	matches := []model.Protocol{}
	for _, p := range protocols {
		for _, c := range p.Chains {
			if strings.ToLower(c) == want {
				matches = append(matches, p)
				break
			}
		}
	}
	if len(matches) > 100 {
		matches = matches[:100]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chain":     chain,
		"count":     len(matches),
		"protocols": matches,
	})
}

// handleProtocol finds a protocol by name and lists its chain deployments
func (s *Server) handleProtocol(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	protocols, err := s.llama.AllProtocols(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	want := strings.ToLower(name)
	matches := []model.Protocol{}
	for _, p := range protocols {
		if strings.Contains(strings.ToLower(p.Name), want) || strings.Contains(strings.ToLower(p.Slug), want) {
			matches = append(matches, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   name,
		"matches": matches,
	})
}

// handleFull runs the whole analysis pipeline for a pair
func (s *Server) handleFull(w http.ResponseWriter, r *http.Request) {
	source, target := r.PathValue("source"), r.PathValue("target")
	project := r.URL.Query().Get("project")
	if project == "" {
		project = "Your Project"
	}
	var contracts []string
	if raw := r.URL.Query().Get("contracts"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				contracts = append(contracts, c)
			}
		}
	}
	s.runFull(w, r, source, target, project, contracts)
}

// fullRequest is the POST /api/full body
type fullRequest struct {
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	Project   string   `json:"project"`
	Contracts []string `json:"contracts"`
}

// handleFullPost runs the whole analysis pipeline from a JSON body
func (s *Server) handleFullPost(w http.ResponseWriter, r *http.Request) {
	var req fullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apierror.InvalidInput("invalid request body: %v", err))
		return
	}
	if req.Source == "" || req.Target == "" {
		s.writeError(w, apierror.InvalidInput("Missing 'source' and/or 'target'"))
		return
	}
	if req.Project == "" {
		req.Project = "Your Project"
	}
	s.runFull(w, r, req.Source, req.Target, req.Project, req.Contracts)
}

// runFull executes the combined analysis and caches the result
func (s *Server) runFull(w http.ResponseWriter, r *http.Request, source, target, project string, contracts []string) {
	normalized := make([]string, len(contracts))
	for i, c := range contracts {
		normalized[i] = strings.ToLower(c)
	}
	sort.Strings(normalized)
	key := "full:" + strings.ToLower(source) + ":" + strings.ToLower(target) + ":" + strings.Join(normalized, ",")

	data, err := s.results.Do(key, s.cfg.DefaultCacheTTL, func() (interface{}, error) {
		ctx := r.Context()
		result := map[string]interface{}{
			"source":       source,
			"target":       target,
			"project":      project,
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		}

		comparison, err := s.comparator.Compare(ctx, source, target)
		if err != nil {
			result["chain_comparison"] = errorValue(err)
		} else {
			result["chain_comparison"] = comparison
		}

		riskResult, err := s.aggregator.MigrationRisk(ctx, source, target)
		if err != nil {
			return nil, err
		}
		result["risk"] = riskResult

		result["token_analysis"] = s.tokens.AnalyzeMigration(ctx, source, target, project)

		bridges := tokens.AvailableBridges(source, target)
		result["bridges"] = map[string]interface{}{
			"count":     len(bridges),
			"available": bridges,
		}

		if wh, err := s.wormhole.BridgeRisk(ctx); err != nil {
			result["wormhole_health"] = errorValue(err)
		} else {
			result["wormhole_health"] = wh
		}

		if len(contracts) > 0 {
			result["contract_analysis"] = complexity.Estimate(contracts)
		}

		result["source_dex"] = s.tokens.DexEcosystem(ctx, source)
		result["target_dex"] = s.tokens.DexEcosystem(ctx, target)
		result["migration_complexity"] = risk.PairComplexity(source, target)

		if s.exporter != nil {
			s.exporter.Add(result)
		}
		return result, nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.signer != nil {
		if signed, err := s.signer.SignReport(data); err == nil {
			writeJSON(w, http.StatusOK, signed)
			return
		}
	}
	writeJSON(w, http.StatusOK, data)
}

// handleDying scans for declining chains
func (s *Server) handleDying(w http.ResponseWriter, r *http.Request) {
	threshold := queryFloat(r, "threshold", s.cfg.DeclineThresholdPc)
	limit := queryInt(r, "limit", 20)
	key := "dying:" + strconv.FormatFloat(threshold, 'f', -1, 64)

	data, err := s.results.Do(key, s.cfg.ScanTTL, func() (interface{}, error) {
		opts := health.DefaultScanOptions()
		opts.Workers = s.cfg.ScanWorkers
		opts.FetchesPerSec = s.cfg.ScanFetchesPerSec
		opts.DeclinePct = threshold
		return s.analyzer.ScanDeclining(r.Context(), opts)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	scan, ok := data.(*health.ScanResult)
	if !ok {
		s.writeError(w, apierror.Upstream(errInvalidCacheEntry, ""))
		return
	}
	showing := scan.Declining
	if len(showing) > limit {
		showing = showing[:limit]
	}
	response := map[string]interface{}{
		"threshold_pct":  scan.ThresholdPct,
		"chains_scanned": scan.Scanned,
		"total_found":    len(scan.Declining),
		"showing":        len(showing),
		"chains":         showing,
	}
	if len(scan.Failures) > 0 {
		response["failures"] = scan.Failures
	}
	writeJSON(w, http.StatusOK, response)
}

// handleWormhole returns the bridge network health assessment
func (s *Server) handleWormhole(w http.ResponseWriter, r *http.Request) {
	data, err := s.results.Do("wormhole:risk", s.cfg.DefaultCacheTTL, func() (interface{}, error) {
		snapshot, err := s.wormhole.BridgeRisk(r.Context())
		if err != nil && s.metrics != nil {
			s.metrics.upstreamErrors.WithLabelValues("wormhole").Inc()
		}
		return snapshot, err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// chainPairView is one transfer corridor annotated with chain names where
// the Wormhole ID is known
type chainPairView struct {
	fetch.ChainPairActivity
	SourceChain string `json:"source_chain,omitempty"`
	TargetChain string `json:"target_chain,omitempty"`
}

// handleWormholePairs returns the most active transfer corridors
func (s *Server) handleWormholePairs(w http.ResponseWriter, r *http.Request) {
	span := r.URL.Query().Get("span")
	if span == "" {
		span = "7d"
	}

	data, err := s.results.Do("wormhole:pairs:"+span, s.cfg.DefaultCacheTTL, func() (interface{}, error) {
		pairs, err := s.wormhole.TopChainPairs(r.Context(), span)
		if err != nil {
			return nil, err
		}
		views := make([]chainPairView, 0, len(pairs))
		for _, p := range pairs {
			view := chainPairView{ChainPairActivity: p}
			if name, ok := types.ChainFromWormholeID(p.EmitterChain); ok {
				view.SourceChain = string(name)
			}
			if name, ok := types.ChainFromWormholeID(p.DestinationChain); ok {
				view.TargetChain = string(name)
			}
			views = append(views, view)
		}
		return map[string]interface{}{
			"time_span": span,
			"count":     len(views),
			"pairs":     views,
		}, nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleWormholeAssets returns the highest-volume bridged assets
func (s *Server) handleWormholeAssets(w http.ResponseWriter, r *http.Request) {
	span := r.URL.Query().Get("span")
	if span == "" {
		span = "7d"
	}

	data, err := s.results.Do("wormhole:assets:"+span, s.cfg.DefaultCacheTTL, func() (interface{}, error) {
		assets, err := s.wormhole.TopAssets(r.Context(), span)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"time_span": span,
			"count":     len(assets),
			"assets":    assets,
		}, nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleCacheStats reports result cache statistics
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	keys := s.results.Keys()
	sort.Strings(keys)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": s.results.Len(),
		"keys":    keys,
	})
}

// handleCacheClear drops all cached results
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.results.Clear()
	writeJSON(w, http.StatusOK, map[string]interface{}{"cleared": true})
}
