package mlkit

import "fmt"

// LinearModel is a multi-class linear classifier scored as argmax(W·x + b).
// Weights are loaded from a persisted artifact; this package never trains.
type LinearModel struct {
	Classes []string    `json:"classes"`
	Weights [][]float64 `json:"weights"` // one row per class
	Bias    []float64   `json:"bias"`
}

// Validate checks the weight shapes against the class list.
func (m *LinearModel) Validate() error {
	if len(m.Classes) == 0 {
		return fmt.Errorf("linear: no classes")
	}
	if len(m.Weights) != len(m.Classes) {
		return fmt.Errorf("linear: %d weight rows for %d classes", len(m.Weights), len(m.Classes))
	}
	if len(m.Bias) != len(m.Classes) {
		return fmt.Errorf("linear: %d bias terms for %d classes", len(m.Bias), len(m.Classes))
	}
	dim := len(m.Weights[0])
	for i, row := range m.Weights {
		if len(row) != dim {
			return fmt.Errorf("linear: weight row %d has %d features, want %d", i, len(row), dim)
		}
	}
	return nil
}

// Dim returns the expected feature vector length.
func (m *LinearModel) Dim() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

// Predict returns the argmax class for a feature vector. Ties resolve to the
// earliest class in the list.
func (m *LinearModel) Predict(x []float64) (string, error) {
	if len(m.Weights) == 0 {
		return "", fmt.Errorf("linear: model not loaded")
	}
	if len(x) != m.Dim() {
		return "", fmt.Errorf("linear: feature vector has %d features, want %d", len(x), m.Dim())
	}

	best := 0
	bestScore := m.score(0, x)
	for c := 1; c < len(m.Classes); c++ {
		if s := m.score(c, x); s > bestScore {
			best = c
			bestScore = s
		}
	}
	return m.Classes[best], nil
}

func (m *LinearModel) score(class int, x []float64) float64 {
	s := m.Bias[class]
	row := m.Weights[class]
	for i, v := range x {
		if v != 0 {
			s += row[i] * v
		}
	}
	return s
}
