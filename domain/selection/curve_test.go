package selection

import (
	"errors"
	"math"
	"testing"

	"fairselect/domain/core"
)

func TestBuildCurve_KnownLabelSequence(t *testing.T) {
	// Scores descend, labels F,F,T,F: three negatives, one positive
	individuals := []Individual{
		{Score: 0.9, Label: false, Group: "a"},
		{Score: 0.8, Label: false, Group: "a"},
		{Score: 0.7, Label: true, Group: "a"},
		{Score: 0.6, Label: false, Group: "a"},
	}

	curve, err := BuildCurve("a", individuals, 1)
	if err != nil {
		t.Fatalf("BuildCurve failed: %v", err)
	}
	if curve.NegativeCount != 3 {
		t.Fatalf("expected 3 negatives, got %d", curve.NegativeCount)
	}

	// Selecting top 1 gives FPR 1/3; top 3 gives 2/3 (the positive at
	// rank 2 does not move the count)
	expected := []float64{1.0 / 3, 2.0 / 3, 2.0 / 3, 1.0}
	for rank, want := range expected {
		got := curve.Entries[rank].CumulativeFPR
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("rank %d: cumulative FPR = %v, want %v", rank, got, want)
		}
	}
}

func TestBuildCurve_MonotoneStepFunction(t *testing.T) {
	individuals := []Individual{
		{Score: 0.95, Label: true, Group: "g"},
		{Score: 0.90, Label: false, Group: "g"},
		{Score: 0.70, Label: false, Group: "g"},
		{Score: 0.55, Label: true, Group: "g"},
		{Score: 0.40, Label: false, Group: "g"},
		{Score: 0.10, Label: false, Group: "g"},
	}

	curve, err := BuildCurve("g", individuals, 7)
	if err != nil {
		t.Fatalf("BuildCurve failed: %v", err)
	}

	step := 1.0 / float64(curve.NegativeCount)
	prev := 0.0
	for _, entry := range curve.Entries {
		if entry.CumulativeFPR < prev {
			t.Fatalf("cumulative FPR decreased at rank %d: %v < %v", entry.Rank, entry.CumulativeFPR, prev)
		}
		if entry.CumulativeFPR < 0 || entry.CumulativeFPR > 1 {
			t.Fatalf("cumulative FPR out of [0,1] at rank %d: %v", entry.Rank, entry.CumulativeFPR)
		}
		delta := entry.CumulativeFPR - prev
		if entry.Individual.Label {
			if delta != 0 {
				t.Errorf("rank %d: positive label changed FPR by %v", entry.Rank, delta)
			}
		} else {
			if math.Abs(delta-step) > 1e-12 {
				t.Errorf("rank %d: negative label stepped FPR by %v, want %v", entry.Rank, delta, step)
			}
		}
		prev = entry.CumulativeFPR
	}
	if math.Abs(prev-1.0) > 1e-12 {
		t.Errorf("final cumulative FPR = %v, want 1.0", prev)
	}
}

func TestBuildCurve_TieBreakReproducible(t *testing.T) {
	// All scores tie; ordering must come from the seeded permutation only
	individuals := make([]Individual, 20)
	for i := range individuals {
		individuals[i] = Individual{Score: 0.5, Label: i%3 == 0, Group: "t"}
	}

	first, err := BuildCurve("t", individuals, 99)
	if err != nil {
		t.Fatalf("BuildCurve failed: %v", err)
	}
	second, err := BuildCurve("t", individuals, 99)
	if err != nil {
		t.Fatalf("BuildCurve failed: %v", err)
	}
	for rank := range first.Entries {
		if first.Entries[rank] != second.Entries[rank] {
			t.Fatalf("same seed produced different orderings at rank %d", rank)
		}
	}
}

func TestBuildCurve_DegenerateGroup(t *testing.T) {
	individuals := []Individual{
		{Score: 0.9, Label: true, Group: "p"},
		{Score: 0.4, Label: true, Group: "p"},
	}
	_, err := BuildCurve("p", individuals, 1)
	if !errors.Is(err, core.ErrDegenerateGroup) {
		t.Fatalf("expected ErrDegenerateGroup, got %v", err)
	}
}

func TestBuildCurve_EmptyGroup(t *testing.T) {
	if _, err := BuildCurve("e", nil, 1); !errors.Is(err, core.ErrEmptyGroup) {
		t.Fatalf("expected ErrEmptyGroup, got %v", err)
	}
}
