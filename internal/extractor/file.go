package extractor

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/docpane/docsift/internal/model"
)

// FileProvider loads a pre-extracted JSON element array from a local file for
// offline runs and tests, ignoring the uploaded source bytes.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Extract(_ context.Context, _ string, _ []byte) (model.Document, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return model.Decode(b)
}
