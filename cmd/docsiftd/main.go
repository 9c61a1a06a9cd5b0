package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/docpane/docsift/internal/cache"
	"github.com/docpane/docsift/internal/extractor"
	"github.com/docpane/docsift/internal/server"
	"github.com/docpane/docsift/internal/session"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		addr        string
		extractURL  string
		extractUA   string
		attempts    int
		timeout     time.Duration
		cacheDir    string
		corsOrigins string
		maxUpload   int64
		verbose     bool
	)

	flag.StringVar(&addr, "addr", ":8080", "Listen address")
	flag.StringVar(&extractURL, "extract.url", os.Getenv("EXTRACT_URL"), "Extraction service URL")
	flag.StringVar(&extractUA, "extract.ua", "docsift/1.0 (+https://github.com/docpane/docsift)", "Custom User-Agent for extraction requests")
	flag.IntVar(&attempts, "extract.attempts", 3, "Maximum extraction request attempts")
	flag.DurationVar(&timeout, "extract.timeout", 30*time.Second, "Per-request timeout for the extraction call")
	flag.StringVar(&cacheDir, "cache.dir", ".docsift-cache", "Cache directory for extraction responses")
	flag.StringVar(&corsOrigins, "cors.origins", os.Getenv("CORS_ORIGINS"), "Comma-separated allowed CORS origins for browser clients")
	flag.Int64Var(&maxUpload, "max.upload", 32<<20, "Maximum upload size in bytes")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if strings.TrimSpace(extractURL) == "" {
		log.Error().Msg("extract.url is required (or set EXTRACT_URL)")
		os.Exit(1)
	}

	client := &extractor.Client{
		URL:               extractURL,
		UserAgent:         extractUA,
		MaxAttempts:       attempts,
		PerRequestTimeout: timeout,
	}
	if cacheDir != "" {
		client.Cache = &cache.ExtractionCache{Dir: cacheDir}
	}

	srv := &server.Server{
		Store:          session.NewStore(),
		Provider:       client,
		MaxUploadBytes: maxUpload,
	}
	for _, o := range strings.Split(corsOrigins, ",") {
		if v := strings.TrimSpace(o); v != "" {
			srv.AllowedOrigins = append(srv.AllowedOrigins, v)
		}
	}

	httpSrv := &http.Server{Addr: addr, Handler: srv.Router()}

	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
