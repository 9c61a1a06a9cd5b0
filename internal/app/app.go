package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/docpane/docsift/internal/artifact"
	"github.com/docpane/docsift/internal/cache"
	"github.com/docpane/docsift/internal/export"
	"github.com/docpane/docsift/internal/extractor"
	"github.com/docpane/docsift/internal/render"
	"github.com/docpane/docsift/internal/session"
)

// ErrNoContent is returned when extraction succeeds but yields zero elements,
// so there is nothing to export. Per the exit code policy this results in a
// non-zero process exit.
var ErrNoContent = errors.New("extraction produced no content")

// App runs the extract-preview-export pipeline once for one source file.
type App struct {
	cfg      Config
	provider extractor.Provider
}

func New(_ context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg}
	if cfg.ModelFile != "" {
		a.provider = &extractor.FileProvider{Path: cfg.ModelFile}
		return a, nil
	}

	client := &extractor.Client{
		URL:               cfg.ExtractURL,
		UserAgent:         cfg.ExtractUA,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.Timeout,
	}
	if cfg.CacheDir != "" {
		c := &cache.ExtractionCache{Dir: cfg.CacheDir}
		// Purge by age is best-effort; a stale cache never fails startup.
		if err := c.Purge(context.Background(), cfg.CacheMaxAge); err != nil {
			log.Warn().Err(err).Msg("cache purge failed; continuing")
		}
		client.Cache = c
	}
	a.provider = client
	return a, nil
}

// Run executes the pipeline: read the source, extract the document model,
// write the preview and the selected export artifacts.
func (a *App) Run(ctx context.Context) error {
	source, err := os.ReadFile(a.cfg.InputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	sess := session.New()
	sess.SelectFile(a.cfg.InputPath)
	if err := sess.StartExtraction(); err != nil {
		return err
	}
	doc, err := a.provider.Extract(ctx, sess.SourceName(), source)
	if err != nil {
		sess.FailExtraction(err)
		return fmt.Errorf("extract: %w", err)
	}
	sess.CompleteExtraction(doc)
	log.Info().Int("elements", len(doc)).Msg("extraction succeeded")

	if a.cfg.PreviewPath != "" {
		if err := os.WriteFile(a.cfg.PreviewPath, render.HTML(doc), 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		log.Info().Str("path", a.cfg.PreviewPath).Msg("preview written")
	}

	// Export is gated on a non-empty model; the exporters themselves accept
	// empty documents but there is no artifact worth saving.
	if !sess.CanExport() {
		return ErrNoContent
	}

	for _, name := range a.cfg.Formats {
		format, ok := artifact.FormatFor(name)
		if !ok {
			return fmt.Errorf("unknown export format %q", name)
		}
		var data []byte
		switch format {
		case artifact.Text:
			data = export.Text(doc)
		case artifact.PDF:
			if data, err = export.PDF(doc); err != nil {
				return fmt.Errorf("export pdf: %w", err)
			}
		case artifact.XLSX:
			if data, err = export.XLSX(doc); err != nil {
				return fmt.Errorf("export xlsx: %w", err)
			}
		}
		path, err := artifact.Save(a.cfg.OutputDir, artifact.Name(sess.SourceName(), format), data)
		if err != nil {
			return err
		}
		log.Info().Str("path", path).Str("format", format.Ext).Msg("artifact written")
	}
	return nil
}
