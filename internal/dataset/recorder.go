// Package dataset provides the in-memory accumulator for labeled landmark samples.
package dataset

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/ayusman/fingerspell/internal/detector"
)

// ErrEmptyLabel is returned when a sample is recorded without a label.
var ErrEmptyLabel = errors.New("label is empty")

// ErrEmptyDataset is returned when exporting before any samples were recorded.
var ErrEmptyDataset = errors.New("no samples recorded")

// Sample is one labeled recording: the letter being signed and the raw,
// unnormalized landmark coordinates flattened to 63 values. Normalization
// is deliberately left to the training pipeline, which must apply the same
// wrist-centering and max-distance scaling the live classifier uses.
type Sample struct {
	Label    string    `json:"label"`
	Features []float64 `json:"features"`
}

// Recorder accumulates samples for the lifetime of a session.
// The list is append-only and never deduplicated; samples live in memory
// until exported.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends the hand's raw features under the given label.
func (r *Recorder) Record(label string, hand *detector.Hand) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if hand == nil {
		return nil // no hand this frame, nothing to record
	}

	raw := hand.RawFeatures()
	features := make([]float64, len(raw))
	copy(features, raw[:])

	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, Sample{Label: label, Features: features})
	return nil
}

// Len returns the number of accumulated samples.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Samples returns a copy of the accumulated samples in append order.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// ExportJSON serializes the accumulated samples as a JSON array in append
// order. Repeated exports without new recordings yield identical output.
// Returns ErrEmptyDataset when nothing has been recorded.
func (r *Recorder) ExportJSON() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.samples) == 0 {
		return nil, ErrEmptyDataset
	}

	return json.Marshal(r.samples)
}

// Reset discards all accumulated samples.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = nil
}
