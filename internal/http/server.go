package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tidalbridge/internal/core"
)

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics

	backend   core.Backend
	library   core.LibraryProvider
	playlists core.PlaylistsProvider
	playback  core.PlaybackProvider
}

type Metrics struct {
	ProviderCalls   *prometheus.CounterVec
	ProcessingTime  *prometheus.HistogramVec
	LoginState      prometheus.Gauge
	StreamCacheSize prometheus.Gauge

	registry *prometheus.Registry
}

// newMetrics builds the metric set on its own registry so multiple servers
// (and tests) never fight over the global one.
func newMetrics() *Metrics {
	metrics := &Metrics{
		ProviderCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tidalbridge_provider_calls_total",
				Help: "Total number of provider calls by outcome",
			},
			[]string{"facade", "op", "outcome"},
		),
		ProcessingTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tidalbridge_provider_duration_seconds",
				Help:    "Time spent answering provider calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"facade", "op"},
		),
		LoginState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tidalbridge_logged_in",
				Help: "1 when the TIDAL session is authenticated, 0 otherwise",
			},
		),
		StreamCacheSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tidalbridge_stream_cache_size",
				Help: "Current number of cached stream URLs",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	metrics.registry.MustRegister(
		metrics.ProviderCalls,
		metrics.ProcessingTime,
		metrics.LoginState,
		metrics.StreamCacheSize,
	)

	return metrics
}

func NewServer(
	config *core.ServerConfig,
	backend core.Backend,
	library core.LibraryProvider,
	playlists core.PlaylistsProvider,
	playback core.PlaybackProvider,
	logger *zap.Logger,
) *Server {
	s := &Server{
		config:    config,
		logger:    logger,
		metrics:   newMetrics(),
		backend:   backend,
		library:   library,
		playlists: playlists,
		playback:  playback,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.routes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"tidalbridge"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready","service":"tidalbridge"}`))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/api/browse", s.instrument("library", "browse", s.handleBrowse))
	mux.HandleFunc("/api/lookup", s.instrument("library", "lookup", s.handleLookup))
	mux.HandleFunc("/api/search", s.instrument("library", "search", s.handleSearch))
	mux.HandleFunc("/api/images", s.instrument("library", "get_images", s.handleImages))
	mux.HandleFunc("/api/distinct", s.instrument("library", "get_distinct", s.handleDistinct))
	mux.HandleFunc("/api/playlists", s.instrument("playlists", "as_list", s.handlePlaylists))
	mux.HandleFunc("/api/playlists/lookup", s.instrument("playlists", "lookup", s.handlePlaylistLookup))
	mux.HandleFunc("/api/playlists/refresh", s.instrument("playlists", "refresh", s.handlePlaylistRefresh))
	mux.HandleFunc("/api/stream", s.instrument("playback", "translate_uri", s.handleStream))

	mux.HandleFunc("/", s.homeHandler)

	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>TidalBridge</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1 class="header">🎵 TidalBridge</h1>
    <p>TIDAL catalog bridge with deferred device-link login</p>

    <h2>Endpoints</h2>
    <div class="endpoint">📊 <a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint">💚 <a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint">✅ <a href="/readyz">Ready</a> - Readiness check</div>
    <div class="endpoint">🔍 <a href="/api/search?q=">Search</a> - Catalog search</div>
    <div class="endpoint">📁 <a href="/api/browse?uri=tidal:directory">Browse</a> - Catalog browse</div>
    <div class="endpoint">🎶 <a href="/api/playlists">Playlists</a> - User playlists</div>

    <h2>Status</h2>
    <p>Service is running. While logged out, catalog endpoints answer with login placeholders.</p>
</body>
</html>`)); err != nil {
		s.logger.Warn("Failed to write home page", zap.Error(err))
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}

func (s *Server) SetLoggedIn(loggedIn bool) {
	if loggedIn {
		s.metrics.LoginState.Set(1)
	} else {
		s.metrics.LoginState.Set(0)
	}
}

func (s *Server) SetStreamCacheSize(size int) {
	s.metrics.StreamCacheSize.Set(float64(size))
}
