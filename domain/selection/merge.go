package selection

import "sort"

// MergedEntry is one row of the cross-group ordering used to drive the
// equalizer's threshold search. It does not represent a single global score
// ranking; entries from different groups are comparable only by FPR.
type MergedEntry struct {
	Group         GroupKey
	Rank          int
	CumulativeFPR float64
}

// MergeCurves combines all groups' ranked entries into one sequence ordered
// by cumulative FPR ascending, ties broken by rank ascending (favoring
// entries earlier in their own group's score order) and then by group key
// for determinism.
func MergeCurves(curves map[GroupKey]*GroupCurve) []MergedEntry {
	total := 0
	for _, curve := range curves {
		total += len(curve.Entries)
	}

	merged := make([]MergedEntry, 0, total)
	for group, curve := range curves {
		for _, entry := range curve.Entries {
			merged = append(merged, MergedEntry{
				Group:         group,
				Rank:          entry.Rank,
				CumulativeFPR: entry.CumulativeFPR,
			})
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].CumulativeFPR != merged[j].CumulativeFPR {
			return merged[i].CumulativeFPR < merged[j].CumulativeFPR
		}
		if merged[i].Rank != merged[j].Rank {
			return merged[i].Rank < merged[j].Rank
		}
		return merged[i].Group < merged[j].Group
	})

	return merged
}
