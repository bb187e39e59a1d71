package testkit

import (
	"math/rand"
	"sort"

	"fairselect/domain/selection"
)

// PopulationConfig configures the synthetic scored-population generator
type PopulationConfig struct {
	// GroupSizes maps each group to its individual count
	GroupSizes map[selection.GroupKey]int
	// BaseRates maps each group to its adverse-outcome probability
	BaseRates map[selection.GroupKey]float64
	// Separation shifts positive-labeled scores upward; 0 makes scores
	// uninformative, values near 0.5 make them strongly informative
	Separation float64
	Seed       int64
}

// DefaultPopulationConfig returns a two-group population with a mild base
// rate gap, the shape most audit tests need
func DefaultPopulationConfig() PopulationConfig {
	return PopulationConfig{
		GroupSizes: map[selection.GroupKey]int{"blue": 400, "green": 400},
		BaseRates:  map[selection.GroupKey]float64{"blue": 0.3, "green": 0.2},
		Separation: 0.3,
		Seed:       42,
	}
}

// GeneratePopulation produces a deterministic synthetic population: for each
// individual the label is drawn from the group's base rate and the score is
// uniform noise shifted by Separation when the label is positive, clamped to
// [0,1]. Groups are generated in sorted key order so one seed always yields
// the same population.
func GeneratePopulation(config PopulationConfig) []selection.Individual {
	rng := rand.New(rand.NewSource(config.Seed))

	groups := make([]selection.GroupKey, 0, len(config.GroupSizes))
	for group := range config.GroupSizes {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })

	var individuals []selection.Individual
	for _, group := range groups {
		baseRate := config.BaseRates[group]
		for i := 0; i < config.GroupSizes[group]; i++ {
			label := rng.Float64() < baseRate
			score := rng.Float64() * (1 - config.Separation)
			if label {
				score += config.Separation
			}
			if score > 1 {
				score = 1
			}
			individuals = append(individuals, selection.Individual{
				Score: score,
				Label: label,
				Group: group,
			})
		}
	}
	return individuals
}
