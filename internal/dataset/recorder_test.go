package dataset

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ayusman/fingerspell/internal/detector"
)

func TestRecorder_Record(t *testing.T) {
	t.Run("appends samples in order", func(t *testing.T) {
		r := NewRecorder()

		handA := detector.LetterALandmarks()
		handB := detector.LetterBLandmarks()

		// Three frames of "A", then two of "B"
		for i := 0; i < 3; i++ {
			if err := r.Record("A", &handA); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}
		for i := 0; i < 2; i++ {
			if err := r.Record("B", &handB); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}

		samples := r.Samples()
		if len(samples) != 5 {
			t.Fatalf("expected 5 samples, got %d", len(samples))
		}

		wantLabels := []string{"A", "A", "A", "B", "B"}
		for i, s := range samples {
			if s.Label != wantLabels[i] {
				t.Errorf("sample %d label = %s, want %s", i, s.Label, wantLabels[i])
			}
			if len(s.Features) != detector.NumFeatures {
				t.Errorf("sample %d has %d features, want %d", i, len(s.Features), detector.NumFeatures)
			}
		}
	})

	t.Run("records raw unnormalized coordinates", func(t *testing.T) {
		r := NewRecorder()
		hand := detector.LetterALandmarks()

		if err := r.Record("A", &hand); err != nil {
			t.Fatalf("Record() error = %v", err)
		}

		s := r.Samples()[0]
		if s.Features[0] != hand.Points[detector.Wrist].X {
			t.Error("expected raw wrist X, not a normalized value")
		}
	})

	t.Run("rejects empty label", func(t *testing.T) {
		r := NewRecorder()
		hand := detector.LetterALandmarks()

		if err := r.Record("", &hand); err != ErrEmptyLabel {
			t.Errorf("expected ErrEmptyLabel, got %v", err)
		}
		if r.Len() != 0 {
			t.Error("no sample should be stored for an empty label")
		}
	})

	t.Run("skips frames without a hand", func(t *testing.T) {
		r := NewRecorder()

		if err := r.Record("A", nil); err != nil {
			t.Errorf("Record() with no hand error = %v", err)
		}
		if r.Len() != 0 {
			t.Error("no sample should be stored when no hand is detected")
		}
	})
}

func TestRecorder_ExportJSON(t *testing.T) {
	t.Run("empty recorder refuses export", func(t *testing.T) {
		r := NewRecorder()

		if _, err := r.ExportJSON(); err != ErrEmptyDataset {
			t.Errorf("expected ErrEmptyDataset, got %v", err)
		}
	})

	t.Run("exports a JSON array of labeled samples", func(t *testing.T) {
		r := NewRecorder()
		hand := detector.LetterALandmarks()
		r.Record("A", &hand)

		data, err := r.ExportJSON()
		if err != nil {
			t.Fatalf("ExportJSON() error = %v", err)
		}

		var exported []Sample
		if err := json.Unmarshal(data, &exported); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		if len(exported) != 1 {
			t.Fatalf("expected 1 sample, got %d", len(exported))
		}
		if exported[0].Label != "A" {
			t.Errorf("label = %s, want A", exported[0].Label)
		}
		if len(exported[0].Features) != detector.NumFeatures {
			t.Errorf("features length = %d, want %d", len(exported[0].Features), detector.NumFeatures)
		}
	})

	t.Run("repeated export is identical", func(t *testing.T) {
		r := NewRecorder()
		hand := detector.LetterBLandmarks()
		r.Record("B", &hand)

		first, err := r.ExportJSON()
		if err != nil {
			t.Fatalf("ExportJSON() error = %v", err)
		}
		second, err := r.ExportJSON()
		if err != nil {
			t.Fatalf("ExportJSON() error = %v", err)
		}

		if !bytes.Equal(first, second) {
			t.Error("exports should be byte-identical when no new samples were recorded")
		}
	})
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder()
	hand := detector.LetterALandmarks()
	r.Record("A", &hand)

	r.Reset()

	if r.Len() != 0 {
		t.Errorf("expected empty recorder after reset, got %d samples", r.Len())
	}
	if _, err := r.ExportJSON(); err != ErrEmptyDataset {
		t.Error("reset recorder should refuse export")
	}
}
