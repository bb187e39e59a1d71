package dataset

import (
	"fmt"
	"sort"
)

// Encoder expands categorical columns into one-hot indicator columns and
// passes numeric columns through. Level order is fixed at Fit time (sorted
// lexicographically) so the design matrix layout is stable across runs.
type Encoder struct {
	exclude map[string]bool
	levels  map[string][]string // categorical column -> sorted levels
	fitted  bool
}

// NewEncoder creates an encoder; excluded columns (labels, group keys) are
// left out of the design matrix entirely
func NewEncoder(exclude ...string) *Encoder {
	ex := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		ex[name] = true
	}
	return &Encoder{exclude: ex, levels: make(map[string][]string)}
}

// Fit records the level set of every categorical column
func (e *Encoder) Fit(f *Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	for _, col := range f.Columns {
		if e.exclude[col.Name] || col.Kind != KindCategorical {
			continue
		}
		seen := make(map[string]bool)
		for _, v := range col.Categorical {
			seen[v] = true
		}
		levels := make([]string, 0, len(seen))
		for v := range seen {
			levels = append(levels, v)
		}
		sort.Strings(levels)
		e.levels[col.Name] = levels
	}
	e.fitted = true
	return nil
}

// Transform builds the design matrix and its feature names. A categorical
// value unseen at Fit time maps to all-zero indicators.
func (e *Encoder) Transform(f *Frame) ([][]float64, []string, error) {
	if !e.fitted {
		return nil, nil, fmt.Errorf("encoder not fitted")
	}
	if err := f.Validate(); err != nil {
		return nil, nil, err
	}

	var names []string
	for _, col := range f.Columns {
		if e.exclude[col.Name] {
			continue
		}
		switch col.Kind {
		case KindNumeric:
			names = append(names, col.Name)
		case KindCategorical:
			for _, level := range e.levels[col.Name] {
				names = append(names, col.Name+"="+level)
			}
		}
	}

	rows := f.RowCount()
	matrix := make([][]float64, rows)
	for i := range matrix {
		matrix[i] = make([]float64, 0, len(names))
	}

	for _, col := range f.Columns {
		if e.exclude[col.Name] {
			continue
		}
		switch col.Kind {
		case KindNumeric:
			for i := 0; i < rows; i++ {
				matrix[i] = append(matrix[i], col.Numeric[i])
			}
		case KindCategorical:
			levels := e.levels[col.Name]
			index := make(map[string]int, len(levels))
			for j, level := range levels {
				index[level] = j
			}
			for i := 0; i < rows; i++ {
				indicators := make([]float64, len(levels))
				if j, known := index[col.Categorical[i]]; known {
					indicators[j] = 1
				}
				matrix[i] = append(matrix[i], indicators...)
			}
		}
	}

	return matrix, names, nil
}
