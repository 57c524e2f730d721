package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ayusman/fingerspell/internal/detector"
)

// Activation names accepted in a model file.
const (
	ActivationReLU    = "relu"
	ActivationSoftmax = "softmax"
)

// Layer is a single dense layer of the letter model.
// Weights[i][j] connects input i to output j, matching the row-major
// layout the offline trainer exports.
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}

// Model is a feed-forward letter classifier loaded from a weights file
// and a companion ordered class list. Classification is unavailable until
// both files have loaded; a load failure is terminal for the session.
type Model struct {
	layers  []Layer
	classes []string
}

type modelFile struct {
	Layers []Layer `json:"layers"`
}

// LoadModel reads the dense-layer weights and the ordered class list from
// the given files and validates that the layer shapes chain together and
// that the final layer width matches the class count.
func LoadModel(weightsPath, classesPath string) (*Model, error) {
	weightsData, err := os.ReadFile(weightsPath)
	if err != nil {
		return nil, fmt.Errorf("read model weights: %w", err)
	}

	var mf modelFile
	if err := json.Unmarshal(weightsData, &mf); err != nil {
		return nil, fmt.Errorf("parse model weights: %w", err)
	}

	classesData, err := os.ReadFile(classesPath)
	if err != nil {
		return nil, fmt.Errorf("read class list: %w", err)
	}

	var classes []string
	if err := json.Unmarshal(classesData, &classes); err != nil {
		return nil, fmt.Errorf("parse class list: %w", err)
	}

	m := &Model{layers: mf.Layers, classes: classes}
	if err := m.validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// NewModel builds a model directly from layers and classes. Used by tests
// and by callers that load weights from somewhere other than disk.
func NewModel(layers []Layer, classes []string) (*Model, error) {
	m := &Model{layers: layers, classes: classes}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) validate() error {
	if len(m.layers) == 0 {
		return fmt.Errorf("model has no layers")
	}
	if len(m.classes) == 0 {
		return fmt.Errorf("class list is empty")
	}

	inputs := detector.NumFeatures
	for i, layer := range m.layers {
		if len(layer.Weights) == 0 || len(layer.Biases) == 0 {
			return fmt.Errorf("layer %d has no weights", i)
		}
		if len(layer.Weights) != inputs {
			return fmt.Errorf("layer %d expects %d inputs, got %d weight rows", i, inputs, len(layer.Weights))
		}
		if len(layer.Weights[0]) != len(layer.Biases) {
			return fmt.Errorf("layer %d has %d outputs but %d biases", i, len(layer.Weights[0]), len(layer.Biases))
		}
		for r, row := range layer.Weights {
			if len(row) != len(layer.Biases) {
				return fmt.Errorf("layer %d weight row %d has length %d, expected %d", i, r, len(row), len(layer.Biases))
			}
		}
		if layer.Activation != ActivationReLU && layer.Activation != ActivationSoftmax {
			return fmt.Errorf("layer %d has unknown activation %q", i, layer.Activation)
		}
		inputs = len(layer.Biases)
	}

	if inputs != len(m.classes) {
		return fmt.Errorf("model outputs %d values but class list has %d entries", inputs, len(m.classes))
	}

	return nil
}

// Classes returns the ordered label list the model was trained against.
func (m *Model) Classes() []string {
	return m.classes
}

// Classify normalizes the hand landmarks and classifies the resulting
// feature vector.
func (m *Model) Classify(hand *detector.Hand) (Prediction, error) {
	if hand == nil {
		return Prediction{}, ErrNoHand
	}
	features := hand.Features()
	return m.Predict(features[:])
}

// Predict runs the forward pass over a 63-element feature vector and
// returns the arg-max class with its softmax probability.
func (m *Model) Predict(features []float64) (Prediction, error) {
	if m == nil || len(m.layers) == 0 || len(m.classes) == 0 {
		return Prediction{}, ErrNotReady
	}
	if len(features) != detector.NumFeatures {
		return Prediction{}, fmt.Errorf("expected %d features, got %d", detector.NumFeatures, len(features))
	}

	values := features
	for _, layer := range m.layers {
		values = layer.forward(values)
	}

	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}

	return Prediction{
		Label:      m.classes[best],
		Confidence: values[best],
		Index:      best,
	}, nil
}

// forward computes activation(input*W + b) for one dense layer.
func (l Layer) forward(input []float64) []float64 {
	out := make([]float64, len(l.Biases))
	copy(out, l.Biases)

	for i, v := range input {
		if v == 0 {
			continue
		}
		row := l.Weights[i]
		for j, w := range row {
			out[j] += v * w
		}
	}

	switch l.Activation {
	case ActivationReLU:
		for j, v := range out {
			if v < 0 {
				out[j] = 0
			}
		}
	case ActivationSoftmax:
		softmax(out)
	}

	return out
}

// softmax rescales values in place to a probability distribution.
// Shifting by the max keeps the exponentials finite.
func softmax(values []float64) {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}

	sum := 0.0
	for i, v := range values {
		values[i] = math.Exp(v - max)
		sum += values[i]
	}
	for i := range values {
		values[i] /= sum
	}
}
