package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"fairselect/domain/dataset"
	"fairselect/internal/errors"
)

// FileReader reads CSV and Excel files into a dataset.Frame
type FileReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewFileReader creates a reader; the file type is inferred from the extension
func NewFileReader(filePath string) *FileReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &FileReader{filePath: filePath, fileType: fileType}
}

// ReadFrame reads the file into a typed frame. The first row is the header;
// a column is numeric when every non-empty cell parses as a float, otherwise
// categorical. Numeric columns must be fully populated: a missing cell is an
// input error, never an implicit zero.
func (r *FileReader) ReadFrame() (*dataset.Frame, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.InvalidInput("input file not found: " + r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	return buildFrame(rows)
}

func (r *FileReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CSV file")
	}
	return rows, nil
}

func (r *FileReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "failed to read Excel rows")
	}
	return rows, nil
}

func buildFrame(rows [][]string) (*dataset.Frame, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("input needs a header row and at least one data row")
	}

	header := rows[0]
	data := rows[1:]

	frame := &dataset.Frame{}
	for colIdx, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.InvalidInput("empty column name in header")
		}

		cells := make([]string, len(data))
		numeric := true
		for rowIdx, row := range data {
			cell := ""
			if colIdx < len(row) {
				cell = strings.TrimSpace(row[colIdx])
			}
			cells[rowIdx] = cell
			if cell != "" {
				if _, err := strconv.ParseFloat(cell, 64); err != nil {
					numeric = false
				}
			}
		}

		if numeric {
			values := make([]float64, len(cells))
			for i, cell := range cells {
				if cell == "" {
					// a blank score or label silently becoming 0.0
					// would corrupt the audit downstream
					return nil, errors.InvalidInput(fmt.Sprintf(
						"column %q has a missing value at data row %d", name, i+1))
				}
				values[i], _ = strconv.ParseFloat(cell, 64)
			}
			frame.Columns = append(frame.Columns, dataset.Column{
				Name: name, Kind: dataset.KindNumeric, Numeric: values,
			})
		} else {
			frame.Columns = append(frame.Columns, dataset.Column{
				Name: name, Kind: dataset.KindCategorical, Categorical: cells,
			})
		}
	}

	if err := frame.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid tabular input")
	}
	return frame, nil
}
