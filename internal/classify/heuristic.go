package classify

import (
	"errors"

	"github.com/ayusman/fingerspell/internal/detector"
)

// Hand state labels produced by the heuristic classifier.
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
)

// ErrNoHand is returned when a nil hand is passed to a classifier.
var ErrNoHand = errors.New("no hand provided")

// Heuristic is the baseline open/closed hand classifier that predates the
// learned model. It compares the index fingertip to the index PIP joint:
// the hand is open when the fingertip sits above the joint in image
// coordinates (smaller y, since y increases downward).
type Heuristic struct{}

// NewHeuristic creates a new Heuristic classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Classify returns StateOpen or StateClosed for the given hand.
func (c *Heuristic) Classify(hand *detector.Hand) (Prediction, error) {
	if hand == nil {
		return Prediction{}, ErrNoHand
	}

	tip := hand.Points[detector.IndexTip]
	pip := hand.Points[detector.IndexPIP]

	if tip.Y < pip.Y {
		return Prediction{Label: StateOpen, Confidence: 1.0}, nil
	}
	return Prediction{Label: StateClosed, Confidence: 1.0, Index: 1}, nil
}
