package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// InputPath is the source file to extract.
	InputPath string
	// OutputDir receives the export artifacts.
	OutputDir string
	// PreviewPath, when set, receives the rendered HTML preview fragment.
	PreviewPath string
	// Formats selects which artifacts to write: txt, pdf, xlsx.
	Formats []string

	// Extraction service
	ExtractURL  string
	ExtractUA   string
	MaxAttempts int
	Timeout     time.Duration

	// ModelFile points at a pre-extracted JSON element array; when set the
	// extraction service is not contacted.
	ModelFile string

	// Behavior
	CacheDir    string
	CacheMaxAge time.Duration
	Verbose     bool
}
