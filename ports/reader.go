package ports

import "fairselect/domain/dataset"

// TableReaderPort loads a tabular dataset from an external file
type TableReaderPort interface {
	ReadFrame() (*dataset.Frame, error)
}
