// Package app provides the main application logic for the Fingerspell letter recognition system.
package app

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ayusman/fingerspell/internal/capture"
	"github.com/ayusman/fingerspell/internal/classify"
	"github.com/ayusman/fingerspell/internal/dataset"
	"github.com/ayusman/fingerspell/internal/detector"
	"github.com/ayusman/fingerspell/internal/store"
)

// Mode selects what the frame pipeline does with a detected hand.
type Mode string

const (
	// ModePredict classifies each detected hand and publishes the letter.
	ModePredict Mode = "predict"
	// ModeCollect records raw labeled samples instead of classifying.
	ModeCollect Mode = "collect"
)

// Status reports whether the classifier can be used.
type Status string

const (
	// StatusNotReady means the model and class list have not both loaded yet.
	StatusNotReady Status = "not_ready"
	// StatusReady means classification is available.
	StatusReady Status = "ready"
	// StatusError means an asset failed to load; classification stays
	// disabled for the rest of the session.
	StatusError Status = "error"
)

// Settings is the control state shared between the interactive surfaces and
// the frame pipeline. The pipeline reads one snapshot per frame, so changes
// take effect on the next frame boundary and never tear mid-frame.
type Settings struct {
	Mode      Mode
	Label     string
	Recording bool
}

// Result is what one processed frame produced.
type Result struct {
	Hand       *detector.Hand       `json:"hand,omitempty"`
	Prediction *classify.Prediction `json:"prediction,omitempty"`
	Timestamp  int64                `json:"timestamp"`
}

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64

	// ModelPath and ClassesPath locate the trained letter model.
	ModelPath   string
	ClassesPath string

	// Heuristic selects the baseline open/closed classifier instead of
	// the learned model.
	Heuristic bool
}

// App is the main application that orchestrates capture, detection,
// classification and sample collection.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	recorder   *dataset.Recorder
	classifier classify.Classifier
	ready      bool
	loadErr    error

	settings atomic.Pointer[Settings]
	last     atomic.Pointer[Result]

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
}

// New creates a new App instance with the given configuration.
// The classifier assets are loaded immediately; a load failure leaves
// classification disabled for the session but is not fatal.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		motion:   capture.NewMotionDetector(motionThreshold),
		recorder: dataset.NewRecorder(),
		enabled:  true,
	}

	a.settings.Store(&Settings{Mode: ModePredict})

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	a.loadClassifier()

	return a
}

// loadClassifier wires the configured classification strategy.
func (a *App) loadClassifier() {
	if a.config.Heuristic {
		a.classifier = classify.NewHeuristic()
		a.ready = true
		log.Println("Using open/closed heuristic classifier")
		return
	}

	if a.config.ModelPath == "" || a.config.ClassesPath == "" {
		return // no model configured; stays not ready
	}

	model, err := classify.LoadModel(a.config.ModelPath, a.config.ClassesPath)
	if err != nil {
		// No retry: classification stays disabled for the session
		a.loadErr = err
		log.Printf("Failed to load letter model: %v", err)
		return
	}

	a.classifier = model
	a.ready = true
	log.Printf("Loaded letter model with %d classes", len(model.Classes()))
}

// Status reports classifier availability.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	switch {
	case a.ready:
		return StatusReady
	case a.loadErr != nil:
		return StatusError
	default:
		return StatusNotReady
	}
}

// SetClassifier replaces the classification strategy. Used by tests.
func (a *App) SetClassifier(c classify.Classifier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.classifier = c
	a.ready = c != nil
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use. Used by tests.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetEnabled enables or disables frame processing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frame processing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Snapshot returns the current control settings.
func (a *App) Snapshot() Settings {
	return *a.settings.Load()
}

// swapSettings atomically replaces the settings under the write lock so
// concurrent control requests do not lose updates.
func (a *App) swapSettings(mutate func(*Settings)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := *a.settings.Load()
	mutate(&next)
	a.settings.Store(&next)
}

// SetMode switches between predict and collect. Takes effect on the next
// frame boundary.
func (a *App) SetMode(mode Mode) error {
	if mode != ModePredict && mode != ModeCollect {
		return fmt.Errorf("invalid mode %q", mode)
	}

	a.swapSettings(func(s *Settings) {
		s.Mode = mode
		if mode != ModeCollect {
			s.Recording = false
		}
	})
	return nil
}

// StartRecording arms sample collection under the given label.
// An empty label is rejected synchronously and recording does not start.
func (a *App) StartRecording(label string) error {
	if label == "" {
		return dataset.ErrEmptyLabel
	}

	a.swapSettings(func(s *Settings) {
		s.Mode = ModeCollect
		s.Label = label
		s.Recording = true
	})
	return nil
}

// StopRecording disarms sample collection. Already-recorded samples stay
// in the accumulator.
func (a *App) StopRecording() {
	a.swapSettings(func(s *Settings) {
		s.Recording = false
	})
}

// Recorder returns the in-memory sample accumulator.
func (a *App) Recorder() *dataset.Recorder {
	return a.recorder
}

// LastResult returns the most recent frame result, or nil before the first
// processed frame.
func (a *App) LastResult() *Result {
	return a.last.Load()
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Store returns the dataset archive, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// classify runs the configured strategy if it is ready.
func (a *App) classify(hand *detector.Hand) (*classify.Prediction, error) {
	a.mu.RLock()
	classifier := a.classifier
	ready := a.ready
	a.mu.RUnlock()

	if !ready || classifier == nil {
		return nil, classify.ErrNotReady
	}

	pred, err := classifier.Classify(hand)
	if err != nil {
		return nil, err
	}
	return &pred, nil
}

// Start begins the frame pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Frame pipeline started")
	return nil
}

// Stop halts the frame pipeline and releases the camera and detector on
// every exit path.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Frame pipeline stopped")
}
