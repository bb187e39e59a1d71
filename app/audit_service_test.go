package app

import (
	"context"
	"errors"
	"testing"

	"fairselect/domain/core"
	"fairselect/domain/dataset"
	"fairselect/domain/selection"
	"fairselect/internal"
	"fairselect/internal/testkit"
)

func newTestService() *AuditService {
	return NewAuditService(nil, internal.NewLogger(internal.LogLevelError), 2)
}

func TestRunAudit_EndToEnd(t *testing.T) {
	individuals := testkit.GeneratePopulation(testkit.DefaultPopulationConfig())
	svc := newTestService()

	cfg := selection.Config{
		TargetSelectionCount: 100,
		StepSize:             0.005,
		ReferenceGroup:       "blue",
		RandomSeed:           42,
	}
	record, err := svc.RunAudit(context.Background(), AuditRequest{Individuals: individuals, Config: cfg})
	if err != nil {
		t.Fatalf("RunAudit failed: %v", err)
	}

	if record.ID.String() == "" {
		t.Error("record has no ID")
	}
	if record.AchievedK < cfg.TargetSelectionCount {
		t.Errorf("achieved K=%d below target %d", record.AchievedK, cfg.TargetSelectionCount)
	}
	if record.Cutoffs.Total() != record.AchievedK {
		t.Errorf("cutoff total %d != achieved K %d", record.Cutoffs.Total(), record.AchievedK)
	}
	if record.Report.SelectedCount != record.AchievedK {
		t.Errorf("selected %d individuals, equalizer reported %d", record.Report.SelectedCount, record.AchievedK)
	}
	if len(record.Report.Groups) != 2 {
		t.Errorf("got %d report groups, want 2", len(record.Report.Groups))
	}
}

func TestRunAudit_Reproducible(t *testing.T) {
	individuals := testkit.GeneratePopulation(testkit.DefaultPopulationConfig())
	svc := newTestService()
	cfg := selection.Config{
		TargetSelectionCount: 50,
		StepSize:             0.01,
		ReferenceGroup:       "green",
		RandomSeed:           7,
	}

	first, err := svc.RunAudit(context.Background(), AuditRequest{Individuals: individuals, Config: cfg})
	if err != nil {
		t.Fatalf("RunAudit failed: %v", err)
	}
	second, err := svc.RunAudit(context.Background(), AuditRequest{Individuals: individuals, Config: cfg})
	if err != nil {
		t.Fatalf("RunAudit failed: %v", err)
	}

	for group, k := range first.Cutoffs {
		if second.Cutoffs[group] != k {
			t.Errorf("group %s cutoff differs across runs: %d vs %d", group, k, second.Cutoffs[group])
		}
	}
	if first.AchievedK != second.AchievedK {
		t.Errorf("achieved K differs across runs: %d vs %d", first.AchievedK, second.AchievedK)
	}
}

func TestRunAudit_InfeasibleBudget(t *testing.T) {
	individuals := testkit.GeneratePopulation(testkit.DefaultPopulationConfig())
	svc := newTestService()

	_, err := svc.RunAudit(context.Background(), AuditRequest{
		Individuals: individuals,
		Config: selection.Config{
			TargetSelectionCount: len(individuals) + 1,
			StepSize:             0.01,
			ReferenceGroup:       "blue",
		},
	})
	if !errors.Is(err, core.ErrInfeasibleBudget) {
		t.Fatalf("expected ErrInfeasibleBudget, got %v", err)
	}
}

func TestRunAudit_InvalidConfig(t *testing.T) {
	svc := newTestService()
	_, err := svc.RunAudit(context.Background(), AuditRequest{
		Individuals: testkit.GeneratePopulation(testkit.DefaultPopulationConfig()),
		Config:      selection.Config{TargetSelectionCount: 5, StepSize: 0},
	})
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestIndividualsFromFrame(t *testing.T) {
	frame := &dataset.Frame{Columns: []dataset.Column{
		{Name: "score", Kind: dataset.KindNumeric, Numeric: []float64{0.9, 0.2}},
		{Name: "label", Kind: dataset.KindNumeric, Numeric: []float64{1, 0}},
		{Name: "group", Kind: dataset.KindCategorical, Categorical: []string{"a", "b"}},
	}}

	individuals, err := IndividualsFromFrame(frame, "score", "label", "group")
	if err != nil {
		t.Fatalf("IndividualsFromFrame failed: %v", err)
	}
	want := []selection.Individual{
		{Score: 0.9, Label: true, Group: "a"},
		{Score: 0.2, Label: false, Group: "b"},
	}
	for i := range want {
		if individuals[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, individuals[i], want[i])
		}
	}
}

func TestIndividualsFromFrame_ScoreOutOfRange(t *testing.T) {
	frame := &dataset.Frame{Columns: []dataset.Column{
		{Name: "score", Kind: dataset.KindNumeric, Numeric: []float64{1.7}},
		{Name: "label", Kind: dataset.KindNumeric, Numeric: []float64{0}},
		{Name: "group", Kind: dataset.KindCategorical, Categorical: []string{"a"}},
	}}
	if _, err := IndividualsFromFrame(frame, "score", "label", "group"); err == nil {
		t.Fatal("expected error for score outside [0,1]")
	}
}

func TestTrainAndScore_UsesScorerPort(t *testing.T) {
	frame := &dataset.Frame{Columns: []dataset.Column{
		{Name: "x", Kind: dataset.KindNumeric, Numeric: []float64{1, 2, 3, 4}},
		{Name: "label", Kind: dataset.KindNumeric, Numeric: []float64{0, 0, 1, 1}},
		{Name: "group", Kind: dataset.KindCategorical, Categorical: []string{"a", "a", "b", "b"}},
	}}

	stub := &stubScorer{score: 0.5}
	individuals, err := TrainAndScore(context.Background(), frame, "label", "group", stub)
	if err != nil {
		t.Fatalf("TrainAndScore failed: %v", err)
	}
	if !stub.trained {
		t.Error("scorer was not trained")
	}
	if stub.featureWidth != 1 {
		t.Errorf("design matrix width %d, want 1 (label and group excluded)", stub.featureWidth)
	}
	if len(individuals) != 4 {
		t.Fatalf("got %d individuals, want 4", len(individuals))
	}
	if individuals[2].Group != "b" || !individuals[2].Label {
		t.Errorf("row 2 mis-assembled: %+v", individuals[2])
	}
}

type stubScorer struct {
	score        float64
	trained      bool
	featureWidth int
}

func (s *stubScorer) Train(_ context.Context, features [][]float64, _ []bool) error {
	s.trained = true
	if len(features) > 0 {
		s.featureWidth = len(features[0])
	}
	return nil
}

func (s *stubScorer) Score(_ context.Context, features [][]float64) ([]float64, error) {
	scores := make([]float64, len(features))
	for i := range scores {
		scores[i] = s.score
	}
	return scores, nil
}
