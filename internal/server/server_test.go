package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docpane/docsift/internal/model"
	"github.com/docpane/docsift/internal/session"
)

type stubProvider struct {
	doc model.Document
	err error
}

func (p stubProvider) Extract(_ context.Context, _ string, _ []byte) (model.Document, error) {
	return p.doc, p.err
}

func newTestServer(t *testing.T, p stubProvider) *httptest.Server {
	t.Helper()
	s := &Server{Store: session.NewStore(), Provider: p}
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func upload(t *testing.T, srv *httptest.Server, filename string) documentResponse {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("source bytes"))
	mw.Close()

	resp, err := http.Post(srv.URL+"/api/documents", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	var out documentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected upload status %d", resp.StatusCode)
	}
	return out
}

func sampleDoc() model.Document {
	return model.Document{
		{Kind: model.KindTitle, Text: "Q1 Report"},
		{Kind: model.KindParagraph, Text: "Revenue grew 12%."},
		{Kind: model.KindTable, Rows: [][]string{{"Name", "Age"}, {"Ann", "31"}}},
	}
}

func TestUpload_Succeeds(t *testing.T) {
	srv := newTestServer(t, stubProvider{doc: sampleDoc()})
	out := upload(t, srv, "report.pdf")
	if out.State != session.StateSucceeded {
		t.Fatalf("expected succeeded state, got %q", out.State)
	}
	if out.Elements != 3 || out.Source != "report.pdf" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestUpload_ExtractionFailureReportsState(t *testing.T) {
	srv := newTestServer(t, stubProvider{err: errors.New("collaborator down")})
	out := upload(t, srv, "report.pdf")
	if out.State != session.StateFailed {
		t.Fatalf("expected failed state, got %q", out.State)
	}
	if out.Error == "" {
		t.Fatalf("expected error message in response")
	}
}

func TestPreview_ReturnsFragment(t *testing.T) {
	srv := newTestServer(t, stubProvider{doc: sampleDoc()})
	out := upload(t, srv, "report.pdf")

	resp, err := http.Get(srv.URL + "/api/documents/" + out.ID + "/preview")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "<h1>Q1 Report</h1>") {
		t.Fatalf("expected rendered title in preview, got: %s", b)
	}
}

func TestExport_TextArtifact(t *testing.T) {
	srv := newTestServer(t, stubProvider{doc: sampleDoc()})
	out := upload(t, srv, "report.pdf")

	resp, err := http.Get(srv.URL + "/api/documents/" + out.ID + "/export/txt")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain" {
		t.Fatalf("expected text/plain, got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "extracted_content_report.txt") {
		t.Fatalf("expected naming convention in disposition, got %q", cd)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(b), "# Q1 Report\n\n") {
		t.Fatalf("unexpected artifact body: %q", b)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	srv := newTestServer(t, stubProvider{doc: sampleDoc()})
	out := upload(t, srv, "report.pdf")

	resp, err := http.Get(srv.URL + "/api/documents/" + out.ID + "/export/docx")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown format, got %d", resp.StatusCode)
	}
}

func TestExport_EmptyModelRejected(t *testing.T) {
	srv := newTestServer(t, stubProvider{doc: model.Document{}})
	out := upload(t, srv, "report.pdf")

	resp, err := http.Get(srv.URL + "/api/documents/" + out.ID + "/export/txt")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for empty model, got %d", resp.StatusCode)
	}
}

func TestExport_AfterFailedExtractionRejected(t *testing.T) {
	srv := newTestServer(t, stubProvider{err: errors.New("boom")})
	out := upload(t, srv, "report.pdf")

	resp, err := http.Get(srv.URL + "/api/documents/" + out.ID + "/export/pdf")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 after failed extraction, got %d", resp.StatusCode)
	}
}

func TestDelete_DiscardsSession(t *testing.T) {
	srv := newTestServer(t, stubProvider{doc: sampleDoc()})
	out := upload(t, srv, "report.pdf")

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/documents/"+out.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	check, err := http.Get(srv.URL + "/api/documents/" + out.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	check.Body.Close()
	if check.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", check.StatusCode)
	}
}

func TestUpload_MissingFileField(t *testing.T) {
	srv := newTestServer(t, stubProvider{doc: sampleDoc()})
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("name", "no file here")
	mw.Close()
	resp, err := http.Post(srv.URL+"/api/documents", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
