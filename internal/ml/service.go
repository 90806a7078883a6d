package ml

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

// Accuracy metrics of the trained model, measured on the held-out set during
// training.
const (
	ModelRMSE = 0.2488
	OverallR2 = 0.94
)

// Metrics is the static accuracy metadata attached to every prediction
// response.
type Metrics struct {
	RMSE                  float64 `json:"rmse"`
	OverallR2             float64 `json:"overall_r2"`
	InputFeaturesCount    int     `json:"input_features_count"`
	OutputPropertiesCount int     `json:"output_properties_count"`
}

// Prediction maps output property names to predicted values for one input
// row. It marshals as a JSON object preserving output-column order.
type Prediction struct {
	Names  []string
	Values []float64
}

func (p Prediction) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(p.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Value returns the predicted value for the named output property.
func (p Prediction) Value(name string) (float64, bool) {
	for i, n := range p.Names {
		if n == name {
			return p.Values[i], true
		}
	}
	return 0, false
}

// Service serves predictions from an immutable model bundle. The bundle is
// published atomically, so a Predict racing LoadModel either sees the full
// bundle or fails fast with ErrModelNotLoaded.
type Service struct {
	bundle atomic.Pointer[Bundle]
}

func NewService() *Service {
	return &Service{}
}

// LoadModel loads the four model artifacts from dir and publishes them as
// one unit. A failed load leaves any previously loaded bundle in place.
func (s *Service) LoadModel(dir string) error {
	b, err := LoadBundle(dir)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	s.bundle.Store(b)
	return nil
}

// Loaded reports whether a model bundle is available.
func (s *Service) Loaded() bool {
	return s.bundle.Load() != nil
}

// Metrics returns the static model metrics. Counts are zero while no bundle
// is loaded.
func (s *Service) Metrics() Metrics {
	m := Metrics{RMSE: ModelRMSE, OverallR2: OverallR2}
	if b := s.bundle.Load(); b != nil {
		m.InputFeaturesCount = len(b.InputCols)
		m.OutputPropertiesCount = len(b.OutputCols)
	}
	return m
}

// Predict parses raw input according to dataType ("csv" or "json"),
// validates it against the bundle's input schema, scales it and runs the
// regressor. Every failure past the not-loaded check is re-signaled as a
// prediction error wrapping the original cause, so callers can still
// distinguish validation failures with errors.As.
func (s *Service) Predict(data json.RawMessage, dataType string) ([]Prediction, error) {
	b := s.bundle.Load()
	if b == nil {
		return nil, ErrModelNotLoaded
	}

	results, err := s.predict(b, data, dataType)
	if err != nil {
		return nil, fmt.Errorf("prediction error: %w", err)
	}
	return results, nil
}

func (s *Service) predict(b *Bundle, data json.RawMessage, dataType string) ([]Prediction, error) {
	tbl, err := parseInput(data, dataType)
	if err != nil {
		return nil, err
	}

	if !stringSlicesEqual(tbl.Columns, b.InputCols) {
		return nil, validationf("%s columns don't match expected features: expected %v, got %v",
			dataType, b.InputCols, tbl.Columns)
	}
	for _, row := range tbl.Rows {
		if len(row) != len(b.InputCols) {
			return nil, validationf("expected %d features, got %d", len(b.InputCols), len(row))
		}
	}

	rows := len(tbl.Rows)
	flat := make([]float64, 0, rows*len(b.InputCols))
	for _, row := range tbl.Rows {
		flat = append(flat, row...)
	}
	features := mat.NewDense(rows, len(b.InputCols), flat)

	scaled := b.Scaler.Transform(features)
	predicted := b.Model.Predict(scaled)

	results := make([]Prediction, rows)
	for i := 0; i < rows; i++ {
		values := make([]float64, len(b.OutputCols))
		for j := range b.OutputCols {
			values[j] = predicted.At(i, j)
		}
		results[i] = Prediction{Names: b.OutputCols, Values: values}
	}
	return results, nil
}

// parseInput resolves the tagged input union into the canonical table form.
// JSON input is also accepted double-encoded as a string, matching clients
// that stringify the payload before embedding it.
func parseInput(data json.RawMessage, dataType string) (*Table, error) {
	switch dataType {
	case "csv":
		text, ok := unwrapString(data)
		if !ok {
			return nil, validationf("csv input must be a string")
		}
		return ParseCSV(text)
	case "json":
		if inner, ok := unwrapString(data); ok {
			data = []byte(inner)
		}
		return ParseRecords(data)
	default:
		return nil, validationf("unsupported data type: %s", dataType)
	}
}
