package session

import (
	"errors"
	"testing"

	"github.com/docpane/docsift/internal/model"
)

func TestLifecycle_HappyPath(t *testing.T) {
	s := New()
	if s.State() != StateIdle {
		t.Fatalf("expected idle start, got %q", s.State())
	}
	s.SelectFile("report.pdf")
	if s.State() != StateFileSelected || s.SourceName() != "report.pdf" {
		t.Fatalf("expected file selected, got %q / %q", s.State(), s.SourceName())
	}
	if err := s.StartExtraction(); err != nil {
		t.Fatalf("start extraction: %v", err)
	}
	if s.State() != StateExtracting {
		t.Fatalf("expected extracting, got %q", s.State())
	}
	doc := model.Document{{Kind: model.KindTitle, Text: "T"}}
	s.CompleteExtraction(doc)
	got, ok := s.Document()
	if !ok || len(got) != 1 {
		t.Fatalf("expected document available after success")
	}
	if !s.CanExport() {
		t.Fatalf("expected export enabled for non-empty model")
	}
}

func TestStartExtraction_RejectedWhileInFlight(t *testing.T) {
	s := New()
	s.SelectFile("a.txt")
	if err := s.StartExtraction(); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := s.StartExtraction(); !errors.Is(err, ErrExtractionInFlight) {
		t.Fatalf("expected in-flight rejection, got %v", err)
	}
}

func TestStartExtraction_RequiresFile(t *testing.T) {
	s := New()
	if err := s.StartExtraction(); !errors.Is(err, ErrNoFileSelected) {
		t.Fatalf("expected no-file rejection, got %v", err)
	}
}

func TestSelectFile_ResetsFromAnyState(t *testing.T) {
	s := New()
	s.SelectFile("a.txt")
	_ = s.StartExtraction()
	s.CompleteExtraction(model.Document{{Kind: model.KindTitle, Text: "old"}})

	s.SelectFile("b.txt")
	if s.State() != StateFileSelected {
		t.Fatalf("expected reset to file selected, got %q", s.State())
	}
	if _, ok := s.Document(); ok {
		t.Fatalf("expected previous model discarded on new selection")
	}
}

func TestFailExtraction_DiscardsModelAndRecordsError(t *testing.T) {
	s := New()
	s.SelectFile("a.txt")
	_ = s.StartExtraction()
	s.FailExtraction(errors.New("collaborator down"))
	if s.State() != StateFailed {
		t.Fatalf("expected failed state, got %q", s.State())
	}
	if s.LastError() != "collaborator down" {
		t.Fatalf("expected failure recorded, got %q", s.LastError())
	}
	if s.CanExport() {
		t.Fatalf("expected export disabled after failure")
	}
}

func TestCanExport_FalseForEmptyModel(t *testing.T) {
	s := New()
	s.SelectFile("a.txt")
	_ = s.StartExtraction()
	s.CompleteExtraction(model.Document{})
	if _, ok := s.Document(); !ok {
		t.Fatalf("empty model is still a valid success")
	}
	if s.CanExport() {
		t.Fatalf("expected export gated on at least one element")
	}
}

func TestStore_CreateGetDelete(t *testing.T) {
	st := NewStore()
	s := st.Create("report.pdf")
	if s.State() != StateFileSelected {
		t.Fatalf("expected created session in file-selected state")
	}
	got, err := st.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("expected lookup to return the same session, err=%v", err)
	}
	st.Delete(s.ID)
	if _, err := st.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}
