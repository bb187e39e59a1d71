package selection

import "fairselect/domain/core"

// GroupKey identifies one value of the protected attribute
type GroupKey string

// String returns the string representation
func (g GroupKey) String() string { return string(g) }

// Individual is one scored row from the classifier: a continuous risk score,
// the ground-truth outcome, and the protected-group membership. Immutable
// once scored; the selection pipeline reads it but never mutates it.
type Individual struct {
	Score float64  `json:"score"`
	Label bool     `json:"label"` // true = adverse outcome occurred
	Group GroupKey `json:"group"`
}

// RankedEntry is one row of a group's score ordering.
// INVARIANT: within a group, CumulativeFPR is non-decreasing in Rank.
type RankedEntry struct {
	Individual    Individual `json:"individual"`
	Rank          int        `json:"rank"`           // 0-based position in score-descending order
	CumulativeFPR float64    `json:"cumulative_fpr"` // FPR if everyone up to this rank is selected
}

// GroupCurve is the rolling FPR curve for a single group
type GroupCurve struct {
	Group         GroupKey      `json:"group"`
	Entries       []RankedEntry `json:"entries"`
	NegativeCount int           `json:"negative_count"`
}

// Size returns the number of individuals in the group
func (c *GroupCurve) Size() int { return len(c.Entries) }

// CutoffMap maps each group to the number of its top-ranked individuals
// selected under the equalized policy
type CutoffMap map[GroupKey]int

// Total sums the per-group cutoffs
func (m CutoffMap) Total() int {
	total := 0
	for _, k := range m {
		total += k
	}
	return total
}

// Config holds the selection policy parameters
type Config struct {
	// TargetSelectionCount is the total budget N across all groups
	TargetSelectionCount int `json:"target_selection_count"`

	// StepSize is the threshold search increment, in (0, 1]
	StepSize float64 `json:"step_size"`

	// PerGroupCap optionally limits how many individuals a group may
	// contribute; groups absent from the map are uncapped
	PerGroupCap map[GroupKey]int `json:"per_group_cap,omitempty"`

	// ReferenceGroup is the parity-ratio denominator group
	ReferenceGroup GroupKey `json:"reference_group"`

	// RandomSeed drives the score tie-break permutation; a single seed
	// reproduces identical output
	RandomSeed int64 `json:"random_seed"`
}

// Validate checks the config against its contract
func (c Config) Validate() error {
	if c.TargetSelectionCount < 0 {
		return core.NewConfigError("target_selection_count", "must be >= 0")
	}
	if c.StepSize <= 0 || c.StepSize > 1 {
		return core.NewConfigError("step_size", "must be in (0, 1]")
	}
	for group, limit := range c.PerGroupCap {
		if limit < 0 {
			return core.NewConfigError("per_group_cap", "negative cap for group "+group.String())
		}
	}
	return nil
}

// EqualizeResult is the outcome of the budget-constrained threshold search.
// AchievedK may overshoot the target by up to the amount the final step
// added; Iterations counts threshold increments so callers can judge the
// overshoot of the linear scan.
type EqualizeResult struct {
	Cutoffs    CutoffMap `json:"cutoffs"`
	AchievedK  int       `json:"achieved_k"`
	Iterations int       `json:"iterations"`
	Threshold  float64   `json:"threshold"`
}

// Decision is the final per-individual selection outcome
type Decision struct {
	Individual Individual `json:"individual"`
	Rank       int        `json:"rank"`
	Selected   bool       `json:"selected"`
}
