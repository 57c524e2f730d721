package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/fingerspell/internal/store"
)

// newTestStore creates a Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func archiveTestDataset(t *testing.T, handler *DatasetHandler, name string) datasetResponse {
	t.Helper()

	body := bytes.NewBufferString(`{"name":"` + name + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp datasetResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestDatasetHandler_Archive(t *testing.T) {
	t.Run("archives the accumulator", func(t *testing.T) {
		a := newTestApp(t)
		handler := NewDatasetHandler(a, newTestStore(t))
		recordSamples(t, a, "A", 3)

		resp := archiveTestDataset(t, handler, "session-1")

		if resp.ID == "" {
			t.Error("expected a generated id")
		}
		if resp.Name != "session-1" {
			t.Errorf("name = %s, want session-1", resp.Name)
		}
		if resp.Samples != 3 {
			t.Errorf("samples = %d, want 3", resp.Samples)
		}
		if a.Recorder().Len() != 3 {
			t.Error("archiving should not drain the accumulator")
		}
	})

	t.Run("empty accumulator is rejected", func(t *testing.T) {
		a := newTestApp(t)
		handler := NewDatasetHandler(a, newTestStore(t))

		body := bytes.NewBufferString(`{"name":"session-1"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		a := newTestApp(t)
		handler := NewDatasetHandler(a, newTestStore(t))
		recordSamples(t, a, "A", 1)

		body := bytes.NewBufferString(`{}`)
		req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestDatasetHandler_ListAndGet(t *testing.T) {
	a := newTestApp(t)
	handler := NewDatasetHandler(a, newTestStore(t))
	recordSamples(t, a, "B", 2)
	created := archiveTestDataset(t, handler, "session-1")

	t.Run("lists archived datasets", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var resp listDatasetsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Datasets) != 1 || resp.Datasets[0].ID != created.ID {
			t.Errorf("unexpected list: %+v", resp.Datasets)
		}
	})

	t.Run("fetches a dataset by id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/datasets/"+created.ID, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	})

	t.Run("re-exports archived samples in order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/datasets/"+created.ID+"/samples", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var samples []struct {
			Label    string    `json:"label"`
			Features []float64 `json:"features"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&samples); err != nil {
			t.Fatalf("failed to decode samples: %v", err)
		}
		if len(samples) != 2 {
			t.Fatalf("expected 2 samples, got %d", len(samples))
		}
		for i, s := range samples {
			if s.Label != "B" {
				t.Errorf("sample %d label = %s, want B", i, s.Label)
			}
			if len(s.Features) != 63 {
				t.Errorf("sample %d has %d features", i, len(s.Features))
			}
		}
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/datasets/no-such-id", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestDatasetHandler_Delete(t *testing.T) {
	a := newTestApp(t)
	handler := NewDatasetHandler(a, newTestStore(t))
	recordSamples(t, a, "A", 1)
	created := archiveTestDataset(t, handler, "session-1")

	req := httptest.NewRequest(http.MethodDelete, "/api/datasets/"+created.ID, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	// A second delete finds nothing
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+created.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
