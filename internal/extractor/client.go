// Package extractor talks to the extraction service that produces the
// document model. The service is an opaque collaborator: it receives the
// source file and returns a JSON array of elements; everything downstream of
// the decoded model is local and pure.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/docpane/docsift/internal/cache"
	"github.com/docpane/docsift/internal/model"
)

// Provider produces a document model from source file bytes.
type Provider interface {
	Extract(ctx context.Context, sourceName string, source []byte) (model.Document, error)
}

// Client wraps http.Client with timeouts and limited retry on transient
// errors. Each call uploads the source as multipart form data and decodes the
// JSON element array from the response.
type Client struct {
	URL        string
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each request.
	PerRequestTimeout time.Duration
	// Optional on-disk cache keyed by source content hash.
	Cache *cache.ExtractionCache
	// If true, skip cache lookups but still save fresh responses.
	BypassCache bool
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.PerRequestTimeout}
}

// Extract sends the source to the extraction service and returns the decoded
// document. A cache hit for identical source bytes skips the network.
func (c *Client) Extract(ctx context.Context, sourceName string, source []byte) (model.Document, error) {
	if strings.TrimSpace(c.URL) == "" {
		return nil, errors.New("extractor: service URL is empty")
	}
	var key string
	if c.Cache != nil {
		key = c.Cache.Key(source)
		if !c.BypassCache {
			if body, err := c.Cache.Load(ctx, key); err == nil {
				if doc, derr := model.Decode(body); derr == nil {
					log.Debug().Str("source", sourceName).Msg("extraction cache hit")
					return doc, nil
				}
			}
		}
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		body, err := c.tryOnce(ctx, sourceName, source)
		if err == nil {
			if c.Cache != nil {
				if cerr := c.Cache.Save(ctx, key, sourceName, body); cerr != nil {
					log.Warn().Err(cerr).Msg("cache save failed")
				}
			}
			return model.Decode(body)
		}
		if !isTransient(err) || i == attempts-1 {
			return nil, err
		}
		lastErr = err
		time.Sleep(time.Duration(i+1) * 200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, lastErr
}

func (c *Client) tryOnce(ctx context.Context, sourceName string, source []byte) ([]byte, error) {
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", sourceName)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(source); err != nil {
		return nil, fmt.Errorf("write form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, &form)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
		return nil, fmt.Errorf("server error: %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !isJSONContentType(ct) {
		return nil, fmt.Errorf("unsupported content type: %s", ct)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return b, nil
}

func isTransient(err error) bool {
	// Treat HTTP 5xx and context deadline as transient.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "server error:")
}

func isJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "application/json")
}
