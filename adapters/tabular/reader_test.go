package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fairselect/domain/dataset"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp CSV: %v", err)
	}
	return path
}

func TestFileReader_CSVTyping(t *testing.T) {
	path := writeTempCSV(t, "score,label,group\n0.91,1,blue\n0.42,0,green\n0.10,0,blue\n")

	frame, err := NewFileReader(path).ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if frame.RowCount() != 3 {
		t.Fatalf("got %d rows, want 3", frame.RowCount())
	}

	score, err := frame.Column("score")
	if err != nil {
		t.Fatal(err)
	}
	if score.Kind != dataset.KindNumeric {
		t.Errorf("score column detected as %s, want numeric", score.Kind)
	}
	if score.Numeric[0] != 0.91 {
		t.Errorf("score[0] = %v, want 0.91", score.Numeric[0])
	}

	group, err := frame.Column("group")
	if err != nil {
		t.Fatal(err)
	}
	if group.Kind != dataset.KindCategorical {
		t.Errorf("group column detected as %s, want categorical", group.Kind)
	}
	if group.Categorical[1] != "green" {
		t.Errorf("group[1] = %q, want green", group.Categorical[1])
	}
}

func TestFileReader_MixedColumnFallsBackToCategorical(t *testing.T) {
	path := writeTempCSV(t, "v\n1.5\nnot-a-number\n")

	frame, err := NewFileReader(path).ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	col, err := frame.Column("v")
	if err != nil {
		t.Fatal(err)
	}
	if col.Kind != dataset.KindCategorical {
		t.Errorf("mixed column detected as %s, want categorical", col.Kind)
	}
}

func TestFileReader_MissingNumericCellRejected(t *testing.T) {
	path := writeTempCSV(t, "score,group\n0.91,blue\n,green\n0.10,blue\n")

	_, err := NewFileReader(path).ReadFrame()
	if err == nil {
		t.Fatal("expected error for missing numeric cell")
	}
	if !strings.Contains(err.Error(), "score") {
		t.Errorf("error should name the offending column, got: %v", err)
	}
}

func TestFileReader_MissingFile(t *testing.T) {
	if _, err := NewFileReader("/nonexistent/input.csv").ReadFrame(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileReader_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "a,b\n")
	if _, err := NewFileReader(path).ReadFrame(); err == nil {
		t.Fatal("expected error for header-only input")
	}
}
