// Package artifact names and saves export output. It is pure glue: content
// comes from the exporters untouched, and the save path isolates the
// filesystem side effect so the exporters stay testable without one.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Format describes one export target artifact.
type Format struct {
	Ext  string
	MIME string
}

var (
	Text = Format{Ext: "txt", MIME: "text/plain"}
	PDF  = Format{Ext: "pdf", MIME: "application/pdf"}
	XLSX = Format{Ext: "xlsx", MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}
)

// FormatFor resolves a format by its extension name.
func FormatFor(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "txt":
		return Text, true
	case "pdf":
		return PDF, true
	case "xlsx":
		return XLSX, true
	}
	return Format{}, false
}

var unsafeRunes = regexp.MustCompile(`[^a-z0-9._-]+`)

// Name derives the artifact file name from the source file's name with its
// extension replaced: extracted_content_<stem>.<ext>. Path components are
// stripped and unsafe runes collapsed; when no usable stem remains the
// fallback stem "document" is used.
func Name(sourceName string, f Format) string {
	base := filepath.Base(strings.TrimSpace(sourceName))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = unsafeRunes.ReplaceAllString(strings.ToLower(stem), "-")
	stem = strings.Trim(stem, "-.")
	if stem == "" {
		stem = "document"
	}
	return fmt.Sprintf("extracted_content_%s.%s", stem, f.Ext)
}

// Save writes an artifact under dir via a temporary file and rename, so a
// failed write never leaves a partial artifact behind. It returns the final
// path.
func Save(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close artifact: %w", err)
	}
	final := filepath.Join(dir, name)
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalize artifact: %w", err)
	}
	return final, nil
}
