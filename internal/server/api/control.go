// Package api provides HTTP API handlers for the Fingerspell recognition system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/dataset"
)

// ControlHandler exposes the runtime control surface: status, mode,
// recording and dataset export.
type ControlHandler struct {
	app *app.App
}

// NewControlHandler creates a new ControlHandler for the given application.
func NewControlHandler(a *app.App) *ControlHandler {
	return &ControlHandler{app: a}
}

// Request and response types

type setModeRequest struct {
	Mode string `json:"mode"`
}

type recordingRequest struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

type statusResponse struct {
	Status     string      `json:"status"`
	Mode       string      `json:"mode"`
	Label      string      `json:"label,omitempty"`
	Recording  bool        `json:"recording"`
	Samples    int         `json:"samples"`
	LastResult *app.Result `json:"last_result,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// Status handles GET /api/status.
func (h *ControlHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	settings := h.app.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		Status:     string(h.app.Status()),
		Mode:       string(settings.Mode),
		Label:      settings.Label,
		Recording:  settings.Recording,
		Samples:    h.app.Recorder().Len(),
		LastResult: h.app.LastResult(),
	})
}

// SetMode handles POST /api/mode.
func (h *ControlHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req setModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.app.SetMode(app.Mode(req.Mode)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"mode": req.Mode})
}

// Recording handles POST /api/recording with {"action":"start","label":...}
// or {"action":"stop"}.
func (h *ControlHandler) Recording(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req recordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Action {
	case "start":
		if err := h.app.StartRecording(req.Label); err != nil {
			if errors.Is(err, dataset.ErrEmptyLabel) {
				writeError(w, http.StatusBadRequest, "Label is required")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to start recording")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recording": true, "label": req.Label})

	case "stop":
		h.app.StopRecording()
		writeJSON(w, http.StatusOK, map[string]any{"recording": false})

	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

// Export handles GET /api/export and downloads the accumulated dataset.
// An empty accumulator is a client error, not an empty file.
func (h *ControlHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := h.app.Recorder().ExportJSON()
	if err != nil {
		if errors.Is(err, dataset.ErrEmptyDataset) {
			writeError(w, http.StatusBadRequest, "No samples recorded")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to export dataset")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="dataset.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
