package selection

import (
	"hash/fnv"
	"math/rand"
	"sort"

	"fairselect/domain/core"
)

// BuildCurve converts one group's scored individuals into a monotone step
// function mapping "number selected" to "false-positive rate among the
// group's negatives".
//
// Score ties are broken by a seeded uniform permutation applied before a
// stable sort, so ordering never depends on input order and a single seed
// reproduces identical output. The false-positive and true-negative counters
// are local to this call; curves for different groups share no state.
func BuildCurve(group GroupKey, individuals []Individual, seed int64) (*GroupCurve, error) {
	if len(individuals) == 0 {
		return nil, core.ErrEmptyGroup
	}

	negativeCount := 0
	for _, ind := range individuals {
		if !ind.Label {
			negativeCount++
		}
	}
	if negativeCount == 0 {
		return nil, core.NewDegenerateGroupError(group.String())
	}

	// Independent permutation per group, derived from the run seed
	ordered := make([]Individual, len(individuals))
	copy(ordered, individuals)
	rng := rand.New(rand.NewSource(groupSeed(seed, group)))
	rng.Shuffle(len(ordered), func(i, j int) {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	})
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	// falsePositives + trueNegatives == negativeCount at every rank
	falsePositives := 0
	trueNegatives := negativeCount

	entries := make([]RankedEntry, len(ordered))
	for rank, ind := range ordered {
		if !ind.Label {
			// A true negative pulled into the selected set becomes a
			// false positive under select-everyone-above-this-rank semantics
			falsePositives++
			trueNegatives--
		}
		entries[rank] = RankedEntry{
			Individual:    ind,
			Rank:          rank,
			CumulativeFPR: float64(falsePositives) / float64(negativeCount),
		}
	}

	return &GroupCurve{
		Group:         group,
		Entries:       entries,
		NegativeCount: negativeCount,
	}, nil
}

// groupSeed derives a per-group RNG seed from the run seed so each group's
// tie-break permutation is independent but still reproducible
func groupSeed(seed int64, group GroupKey) int64 {
	h := fnv.New64a()
	h.Write([]byte(group))
	return seed ^ int64(h.Sum64())
}

// PartitionByGroup splits individuals into per-group slices, preserving
// input order within each group
func PartitionByGroup(individuals []Individual) map[GroupKey][]Individual {
	byGroup := make(map[GroupKey][]Individual)
	for _, ind := range individuals {
		byGroup[ind.Group] = append(byGroup[ind.Group], ind)
	}
	return byGroup
}
