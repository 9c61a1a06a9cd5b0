package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/docpane/docsift/internal/app"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath   string
		outputDir   string
		previewPath string
		formats     string
		extractURL  string
		extractUA   string
		attempts    int
		timeout     time.Duration
		modelFile   string
		cacheDir    string
		cacheMaxAge time.Duration
		configPath  string
		verbose     bool
	)

	flag.StringVar(&inputPath, "input", "", "Path to the source file to extract")
	flag.StringVar(&outputDir, "output", "out", "Directory to write export artifacts")
	flag.StringVar(&previewPath, "preview", "", "Optional path to write the HTML preview fragment")
	flag.StringVar(&formats, "formats", "txt,pdf", "Comma-separated export formats: txt, pdf, xlsx")
	flag.StringVar(&extractURL, "extract.url", os.Getenv("EXTRACT_URL"), "Extraction service URL")
	flag.StringVar(&extractUA, "extract.ua", "docsift/1.0 (+https://github.com/docpane/docsift)", "Custom User-Agent for extraction requests")
	flag.IntVar(&attempts, "extract.attempts", 3, "Maximum extraction request attempts")
	flag.DurationVar(&timeout, "extract.timeout", 30*time.Second, "Per-request timeout for the extraction call")
	flag.StringVar(&modelFile, "extract.file", os.Getenv("EXTRACT_FILE"), "Path to a pre-extracted JSON element array (offline mode)")
	flag.StringVar(&cacheDir, "cache.dir", ".docsift-cache", "Cache directory for extraction responses")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		InputPath:   inputPath,
		OutputDir:   outputDir,
		PreviewPath: previewPath,
		ExtractURL:  extractURL,
		ExtractUA:   extractUA,
		MaxAttempts: attempts,
		Timeout:     timeout,
		ModelFile:   modelFile,
		CacheDir:    cacheDir,
		CacheMaxAge: cacheMaxAge,
		Verbose:     verbose,
	}
	for _, f := range strings.Split(formats, ",") {
		if v := strings.TrimSpace(f); v != "" {
			cfg.Formats = append(cfg.Formats, v)
		}
	}

	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
		if cfg.Verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when extraction yields nothing to export,
		// 1 for every other failure.
		if errors.Is(err, app.ErrNoContent) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
