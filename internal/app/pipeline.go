package app

import (
	"log"
	"time"

	"github.com/ayusman/fingerspell/internal/detector"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// runPipeline is the main loop that processes frames from the camera.
// One frame is in flight at a time: the ticker paces reads, and a frame
// that arrives while the previous one is still being processed is simply
// never read, so unprocessed frames cannot accumulate.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Read the control snapshot once for the frame
// 4. Run hand detection
// 5. Predict mode: normalize and classify, publish the result
// 6. Collect mode: record the raw landmarks under the armed label
// 7. After 2s without motion, switch back to idle mode
func (a *App) runPipeline(stopCh <-chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if disabled from the tray
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode {
				frame.Close()
				continue
			}

			// Step 2: read the control snapshot once for this frame.
			// Mode and label changes land on the next frame boundary.
			snapshot := a.Snapshot()

			// Step 3: Hand detection
			hands, err := a.Detector().Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting hand: %v", err)
				continue
			}

			a.processFrame(snapshot, hands)
		}
	}
}

// processFrame applies one frame's detection result under the given
// control snapshot. Split out of the loop so tests can drive it directly.
func (a *App) processFrame(snapshot Settings, hands []detector.Hand) {
	now := time.Now().UnixMilli()

	// No hand this frame: not an error, just nothing to do
	if len(hands) == 0 {
		a.last.Store(&Result{Timestamp: now})
		return
	}

	hand := &hands[0]

	switch snapshot.Mode {
	case ModeCollect:
		if snapshot.Recording && snapshot.Label != "" {
			if err := a.recorder.Record(snapshot.Label, hand); err != nil {
				log.Printf("Error recording sample: %v", err)
			}
		}
		a.last.Store(&Result{Hand: hand, Timestamp: now})

	default: // ModePredict
		pred, err := a.classify(hand)
		if err != nil {
			// Not ready: publish the hand without a prediction
			a.last.Store(&Result{Hand: hand, Timestamp: now})
			return
		}
		a.last.Store(&Result{Hand: hand, Prediction: pred, Timestamp: now})
	}
}
