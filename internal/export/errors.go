package export

import (
	"fmt"

	"github.com/docpane/docsift/internal/model"
)

// SerializationError reports an export encoder failure attributed to a single
// element. Exporters that return it discard partial output; the document value
// itself is never touched.
type SerializationError struct {
	Index int
	Kind  model.Kind
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize element %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
