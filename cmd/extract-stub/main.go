// extract-stub is a stand-in extraction service for local development and
// integration tests. It accepts the same multipart upload as the real
// collaborator and answers with a canned JSON element array, either built-in
// or read from MODEL_FILE.
package main

import (
	"log"
	"net/http"
	"os"
	"strings"
)

const builtinModel = `[
  {"type": "title", "text": "Stub Document"},
  {"type": "header", "text": "Section"},
  {"type": "paragraph", "text": "This content came from the extract-stub service."},
  {"type": "table", "rows": [["Key", "Value"], ["source", "stub"]]}
]`

func main() {
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":9090"
	}
	body := []byte(builtinModel)
	if path := strings.TrimSpace(os.Getenv("MODEL_FILE")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read MODEL_FILE: %v", err)
		}
		body = b
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST a multipart file", http.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()
		// Accept and discard the upload; the answer is canned either way.
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})

	log.Printf("extract-stub listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
