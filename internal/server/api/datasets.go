package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/store"
)

// DatasetHandler handles HTTP requests for the dataset archive.
// Archiving copies the current in-memory accumulator into sqlite under a
// fresh id; the accumulator itself is untouched.
type DatasetHandler struct {
	app   *app.App
	store *store.Store
}

// NewDatasetHandler creates a new DatasetHandler with the given app and store.
func NewDatasetHandler(a *app.App, s *store.Store) *DatasetHandler {
	return &DatasetHandler{app: a, store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *DatasetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/datasets, /api/datasets/{id} or /api/datasets/{id}/samples
	path := strings.TrimPrefix(r.URL.Path, "/api/datasets")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.archive(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/samples"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.samples(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type archiveDatasetRequest struct {
	Name string `json:"name"`
}

type datasetResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Samples   int    `json:"samples"`
	CreatedAt string `json:"created_at"`
}

type listDatasetsResponse struct {
	Datasets []datasetResponse `json:"datasets"`
}

// toResponse converts a store.Dataset to a datasetResponse.
func toResponse(d *store.Dataset) datasetResponse {
	return datasetResponse{
		ID:        d.ID,
		Name:      d.Name,
		Samples:   d.Samples,
		CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// archive handles POST /api/datasets and snapshots the current accumulator
// into the archive.
func (h *DatasetHandler) archive(w http.ResponseWriter, r *http.Request) {
	var req archiveDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	samples := h.app.Recorder().Samples()
	if len(samples) == 0 {
		writeError(w, http.StatusBadRequest, "No samples recorded")
		return
	}

	dataset := &store.Dataset{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Samples: len(samples),
	}

	if err := h.store.Datasets().Create(dataset, samples); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to archive dataset")
		return
	}

	created, err := h.store.Datasets().GetByID(dataset.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to archive dataset")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(created))
}

// list handles GET /api/datasets and returns all archived datasets.
func (h *DatasetHandler) list(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.store.Datasets().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list datasets")
		return
	}

	response := listDatasetsResponse{
		Datasets: make([]datasetResponse, 0, len(datasets)),
	}
	for _, d := range datasets {
		response.Datasets = append(response.Datasets, toResponse(d))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/datasets/{id} and returns a single dataset.
func (h *DatasetHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	dataset, err := h.store.Datasets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Dataset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get dataset")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(dataset))
}

// samples handles GET /api/datasets/{id}/samples and re-exports the archived
// samples in recording order.
func (h *DatasetHandler) samples(w http.ResponseWriter, r *http.Request, id string) {
	samples, err := h.store.Datasets().GetSamples(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Dataset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get samples")
		return
	}

	writeJSON(w, http.StatusOK, samples)
}

// delete handles DELETE /api/datasets/{id} and removes an archived dataset.
func (h *DatasetHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Datasets().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Dataset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete dataset")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
