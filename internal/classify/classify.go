// Package classify provides letter classification strategies over hand landmarks.
package classify

import (
	"errors"

	"github.com/ayusman/fingerspell/internal/detector"
)

// ErrNotReady is returned when classification is attempted before the
// model and class list have both loaded successfully.
var ErrNotReady = errors.New("classifier not ready")

// Prediction is the result of classifying a single hand.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Index      int     `json:"index"`
}

// Classifier maps a detected hand to a label. Implementations are
// swappable: the learned model and the open/closed heuristic both
// satisfy the same contract.
type Classifier interface {
	Classify(hand *detector.Hand) (Prediction, error)
}
