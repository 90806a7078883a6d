package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// Artifact file names inside the model directory. They mirror the objects
// exported by the training pipeline.
const (
	modelFile      = "fuel_model.json"
	scalerFile     = "scaler.json"
	inputColsFile  = "input_cols.json"
	outputColsFile = "output_cols.json"
)

// Scaler centers and scales features with per-column statistics learned at
// training time.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform applies (x - mean) / scale column-wise and returns a new matrix.
func (s *Scaler) Transform(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			scale := s.Scale[j]
			if scale == 0 {
				// zero-variance column, scaling is a no-op
				scale = 1
			}
			out.Set(i, j, (x.At(i, j)-s.Mean[j])/scale)
		}
	}
	return out
}

// Regressor is a fitted multi-output linear model: y = x·Wᵀ + b.
type Regressor struct {
	Coefficients [][]float64 `json:"coefficients"` // outputs × inputs
	Intercepts   []float64   `json:"intercepts"`
}

// Predict returns one output vector per input row.
func (r *Regressor) Predict(x *mat.Dense) *mat.Dense {
	rows, _ := x.Dims()
	outputs := len(r.Coefficients)
	inputs := len(r.Coefficients[0])

	flat := make([]float64, 0, outputs*inputs)
	for _, row := range r.Coefficients {
		flat = append(flat, row...)
	}
	w := mat.NewDense(outputs, inputs, flat)

	out := mat.NewDense(rows, outputs, nil)
	out.Mul(x, w.T())
	for i := 0; i < rows; i++ {
		for j := 0; j < outputs; j++ {
			out.Set(i, j, out.At(i, j)+r.Intercepts[j])
		}
	}
	return out
}

// Bundle holds the four model artifacts. A Bundle is immutable once built
// and always published as a whole, so readers never observe a partial load.
type Bundle struct {
	Model      *Regressor
	Scaler     *Scaler
	InputCols  []string
	OutputCols []string
}

// LoadBundle reads the regressor, scaler and column schemas from dir and
// verifies that their dimensions agree. Any missing or inconsistent artifact
// fails the whole load.
func LoadBundle(dir string) (*Bundle, error) {
	var model Regressor
	if err := readArtifact(dir, modelFile, &model); err != nil {
		return nil, err
	}
	var scaler Scaler
	if err := readArtifact(dir, scalerFile, &scaler); err != nil {
		return nil, err
	}
	var inputCols []string
	if err := readArtifact(dir, inputColsFile, &inputCols); err != nil {
		return nil, err
	}
	var outputCols []string
	if err := readArtifact(dir, outputColsFile, &outputCols); err != nil {
		return nil, err
	}

	if len(inputCols) == 0 || len(outputCols) == 0 {
		return nil, fmt.Errorf("empty column schema in %s", dir)
	}
	if len(model.Coefficients) != len(outputCols) {
		return nil, fmt.Errorf("model has %d coefficient rows, expected %d outputs",
			len(model.Coefficients), len(outputCols))
	}
	for i, row := range model.Coefficients {
		if len(row) != len(inputCols) {
			return nil, fmt.Errorf("coefficient row %d has %d values, expected %d inputs",
				i, len(row), len(inputCols))
		}
	}
	if len(model.Intercepts) != len(outputCols) {
		return nil, fmt.Errorf("model has %d intercepts, expected %d outputs",
			len(model.Intercepts), len(outputCols))
	}
	if len(scaler.Mean) != len(inputCols) || len(scaler.Scale) != len(inputCols) {
		return nil, fmt.Errorf("scaler dimensions (%d mean, %d scale) don't match %d inputs",
			len(scaler.Mean), len(scaler.Scale), len(inputCols))
	}

	return &Bundle{
		Model:      &model,
		Scaler:     &scaler,
		InputCols:  inputCols,
		OutputCols: outputCols,
	}, nil
}

func readArtifact(dir, name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode artifact %s: %w", name, err)
	}
	return nil
}
