package dataset

import "fmt"

// ColumnKind is the statistical type of a column
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Column is one named column of a tabular dataset. Exactly one of Numeric
// or Categorical is populated, matching Kind.
type Column struct {
	Name        string     `json:"name"`
	Kind        ColumnKind `json:"kind"`
	Numeric     []float64  `json:"numeric,omitempty"`
	Categorical []string   `json:"categorical,omitempty"`
}

// Len returns the number of rows in the column
func (c Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Numeric)
	}
	return len(c.Categorical)
}

// Frame is a fully materialized tabular dataset with named, typed columns
type Frame struct {
	Columns []Column `json:"columns"`
}

// RowCount returns the number of rows; all columns are equal length
func (f *Frame) RowCount() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return f.Columns[0].Len()
}

// Column looks up a column by name
func (f *Frame) Column(name string) (*Column, error) {
	for i := range f.Columns {
		if f.Columns[i].Name == name {
			return &f.Columns[i], nil
		}
	}
	return nil, fmt.Errorf("column %q not found", name)
}

// Validate checks that all columns share one length and names are unique
func (f *Frame) Validate() error {
	seen := make(map[string]bool)
	for _, col := range f.Columns {
		if seen[col.Name] {
			return fmt.Errorf("duplicate column %q", col.Name)
		}
		seen[col.Name] = true
		if col.Len() != f.RowCount() {
			return fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), f.RowCount())
		}
	}
	return nil
}
