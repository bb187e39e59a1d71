package testkit

import (
	"reflect"
	"testing"

	"fairselect/domain/selection"
)

func TestGeneratePopulation_Deterministic(t *testing.T) {
	config := DefaultPopulationConfig()
	first := GeneratePopulation(config)
	second := GeneratePopulation(config)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same seed produced different populations")
	}

	config.Seed = 7
	third := GeneratePopulation(config)
	if reflect.DeepEqual(first, third) {
		t.Fatal("different seeds produced identical populations")
	}
}

func TestGeneratePopulation_Shape(t *testing.T) {
	config := DefaultPopulationConfig()
	individuals := GeneratePopulation(config)

	counts := make(map[selection.GroupKey]int)
	for _, ind := range individuals {
		counts[ind.Group]++
		if ind.Score < 0 || ind.Score > 1 {
			t.Fatalf("score %v outside [0,1]", ind.Score)
		}
	}
	for group, size := range config.GroupSizes {
		if counts[group] != size {
			t.Errorf("group %s has %d individuals, want %d", group, counts[group], size)
		}
	}
}
