// Package detector provides hand detection interfaces and types for letter recognition.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumFeatures is the length of a flattened feature vector (21 landmarks x 3 axes).
const NumFeatures = NumLandmarks * 3

// Connections lists the finger-joint landmark pairs that form the hand skeleton.
// Used for overlay rendering; never mutated.
var Connections = [20][2]int{
	// Thumb
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	// Index finger
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	// Middle finger
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	// Ring finger
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	// Pinky
	{RingMCP, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Point3D represents a 3D point in space with x, y, z coordinates.
// X and Y are normalized to the frame dimensions; Z is a relative depth estimate.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand represents the 21 hand landmarks detected for a single hand.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Features returns the normalized feature vector consumed by the classifier.
//
// The transform binds the trained model weights to runtime behavior and must
// match the offline training pipeline exactly:
//  1. Translate all points so the wrist sits at the origin.
//  2. Divide every component by the largest per-point Euclidean norm.
//     A zero scale (all points coincide with the wrist) divides by 1 instead.
//  3. Flatten in landmark order, x then y then z per point.
//
// The result is invariant to uniform translation and uniform positive scaling
// of the input landmarks.
func (h *Hand) Features() [NumFeatures]float64 {
	var features [NumFeatures]float64
	if h == nil {
		return features
	}

	wrist := h.Points[Wrist]

	var centered [NumLandmarks]Point3D
	scale := 0.0
	for i := 0; i < NumLandmarks; i++ {
		centered[i] = Point3D{
			X: h.Points[i].X - wrist.X,
			Y: h.Points[i].Y - wrist.Y,
			Z: h.Points[i].Z - wrist.Z,
		}
		norm := math.Sqrt(centered[i].X*centered[i].X + centered[i].Y*centered[i].Y + centered[i].Z*centered[i].Z)
		if norm > scale {
			scale = norm
		}
	}

	// Degenerate hand: defined fallback, not an error
	if scale == 0 {
		scale = 1
	}

	for i := 0; i < NumLandmarks; i++ {
		features[i*3] = centered[i].X / scale
		features[i*3+1] = centered[i].Y / scale
		features[i*3+2] = centered[i].Z / scale
	}

	return features
}

// RawFeatures returns the landmarks flattened without normalization,
// x then y then z per point in landmark order. Collection mode records
// these so the offline trainer can apply the normalization itself.
func (h *Hand) RawFeatures() [NumFeatures]float64 {
	var features [NumFeatures]float64
	if h == nil {
		return features
	}

	for i := 0; i < NumLandmarks; i++ {
		features[i*3] = h.Points[i].X
		features[i*3+1] = h.Points[i].Y
		features[i*3+2] = h.Points[i].Z
	}

	return features
}
