package selection

import "sort"

// Assign applies the cutoff map to the group curves, marking every
// individual with rank below its group's cutoff as selected. Pure function:
// the only output is the decision set, ordered by group key then rank.
func Assign(curves map[GroupKey]*GroupCurve, cutoffs CutoffMap) []Decision {
	groups := make([]GroupKey, 0, len(curves))
	for group := range curves {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })

	var decisions []Decision
	for _, group := range groups {
		k := cutoffs[group]
		for _, entry := range curves[group].Entries {
			decisions = append(decisions, Decision{
				Individual: entry.Individual,
				Rank:       entry.Rank,
				Selected:   entry.Rank < k,
			})
		}
	}
	return decisions
}
