// Package main provides the TidalBridge CLI application entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"tidalbridge/internal/audiocache"
	"tidalbridge/internal/authstore"
	"tidalbridge/internal/backend"
	"tidalbridge/internal/core"
	httpserver "tidalbridge/internal/http"
	"tidalbridge/internal/library"
	"tidalbridge/internal/playback"
	"tidalbridge/internal/playlists"
	"tidalbridge/internal/session"
	"tidalbridge/internal/store"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tidalbridge",
	Short: "TidalBridge - TIDAL catalog bridge with deferred device-link login",
	Long: `TidalBridge exposes the TIDAL catalog (library, playlists, playback) over a
local HTTP API. With the link login method the service starts serving
immediately: until the device-link approval resolves, every provider answers
with login placeholders instead of failing.`,
	RunE: runTidalBridge,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("tidal-client-id", "", "TIDAL client ID")
	rootCmd.PersistentFlags().String("tidal-client-secret", "", "TIDAL client secret")
	rootCmd.PersistentFlags().String("tidal-quality", "LOSSLESS", "stream quality (LOSSLESS, HIGH, LOW)")
	rootCmd.PersistentFlags().String("login-method", core.LoginMethodOAuth, "login method (oauth, link)")
	rootCmd.PersistentFlags().Bool("lazy-connect", false, "defer login until first session access")
	rootCmd.PersistentFlags().String("data-dir", "", "data directory for caches")
	rootCmd.PersistentFlags().String("auth-store-path", "", "path of the credential cache database")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
	}

	viper.SetEnvPrefix("TIDALBRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Tidal.ClientID = viper.GetString("tidal-client-id")
	cfg.Tidal.ClientSecret = viper.GetString("tidal-client-secret")
	if q := viper.GetString("tidal-quality"); q != "" {
		cfg.Tidal.Quality = q
	}
	if m := viper.GetString("login-method"); m != "" {
		cfg.Tidal.LoginMethod = m
	}
	cfg.Tidal.LazyConnect = viper.GetBool("lazy-connect")
	if dir := viper.GetString("data-dir"); dir != "" {
		cfg.Tidal.DataDir = dir
	}
	if path := viper.GetString("auth-store-path"); path != "" {
		cfg.Tidal.AuthStorePath = path
	}
	if u := viper.GetString("placeholder-audio-url"); u != "" {
		cfg.Tidal.PlaceholderAudioURL = u
	}

	if host := viper.GetString("server-host"); host != "" {
		cfg.Server.Host = host
	}
	cfg.Server.Port = viper.GetInt("server-port")

	cfg.Log.Level = viper.GetString("log-level")

	return cfg
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runTidalBridge(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting TidalBridge",
		zap.String("login_method", config.Tidal.LoginMethod),
		zap.String("quality", config.Tidal.Quality),
		zap.String("data_dir", config.Tidal.DataDir))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	auth, err := authstore.Open(config.Tidal.AuthStorePath)
	if err != nil {
		return fmt.Errorf("failed to open credential cache: %w", err)
	}
	defer func() {
		if err := auth.Close(); err != nil {
			logger.Warn("Failed to close credential cache", zap.Error(err))
		}
	}()

	tidalSession := session.New(&config.Tidal, auth, logger.Named("session"))
	loginAudio := audiocache.New(config.Tidal.DataDir, config.Tidal.PlaceholderAudioURL, logger.Named("audiocache"))
	streams := store.NewStreamCache(10000, 0.001)

	bknd := backend.New(config, tidalSession, loginAudio, logger.Named("backend"))
	if err := bknd.Start(ctx); err != nil {
		return fmt.Errorf("failed to start backend: %w", err)
	}

	libraryProvider := library.New(bknd, logger.Named("library"))
	playlistsProvider := playlists.New(bknd, logger.Named("playlists"))
	playbackProvider := playback.New(bknd, loginAudio, streams, logger.Named("playback"))

	httpServer := httpserver.NewServer(
		&config.Server,
		bknd,
		libraryProvider,
		playlistsProvider,
		playbackProvider,
		logger.Named("http"),
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Start(gCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				httpServer.SetLoggedIn(bknd.LoggedIn())
				httpServer.SetStreamCacheSize(streams.Len())
			}
		}
	})

	logger.Info("TidalBridge started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("TidalBridge stopped with error", zap.Error(err))
		return err
	}

	logger.Info("TidalBridge stopped gracefully")
	return nil
}

func validateConfig() error {
	switch config.Tidal.LoginMethod {
	case core.LoginMethodOAuth, core.LoginMethodLink:
	default:
		return fmt.Errorf("unknown login method: %s", config.Tidal.LoginMethod)
	}

	switch config.Tidal.Quality {
	case "LOSSLESS", "HIGH", "LOW":
	default:
		return fmt.Errorf("unknown stream quality: %s", config.Tidal.Quality)
	}

	if config.Tidal.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}

	if config.Tidal.AuthStorePath == "" {
		return fmt.Errorf("credential cache path is required")
	}

	return nil
}
