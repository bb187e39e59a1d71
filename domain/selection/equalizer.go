package selection

import "fairselect/domain/core"

// Equalize searches for a shared FPR threshold x such that selecting, in
// every group, all individuals whose cumulative FPR lies below x reaches the
// target budget. The search is a forward linear scan over threshold
// increments: it returns the first iteration where the summed selection
// count K meets or exceeds the target, so K may overshoot by up to the
// amount the final step added.
//
// A per-group cap, when configured, clamps that group's count; capped groups
// stop contributing to further growth in K. If caps or the dataset size make
// the target unreachable the scan terminates with ErrInfeasibleBudget
// instead of walking x past 1.0 forever.
func Equalize(merged []MergedEntry, cfg Config) (*EqualizeResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	target := cfg.TargetSelectionCount
	if target > len(merged) {
		return nil, core.NewInfeasibleBudgetError(target, len(merged))
	}

	// Qualifying entries form a prefix of each group's curve (cumulative
	// FPR is non-decreasing in rank), so counting qualifying entries per
	// group equals one plus the maximum qualifying rank.
	counts := make(CutoffMap)
	for _, entry := range merged {
		if _, seen := counts[entry.Group]; !seen {
			counts[entry.Group] = 0
		}
	}

	x := 0.0
	next := 0 // index of the first merged entry not yet below x
	iterations := 0
	for {
		for next < len(merged) && merged[next].CumulativeFPR < x {
			counts[merged[next].Group]++
			next++
		}

		achieved := 0
		for group, count := range counts {
			if limit, capped := cfg.PerGroupCap[group]; capped && count > limit {
				count = limit
			}
			achieved += count
		}

		if achieved >= target {
			cutoffs := make(CutoffMap, len(counts))
			for group, count := range counts {
				if limit, capped := cfg.PerGroupCap[group]; capped && count > limit {
					count = limit
				}
				cutoffs[group] = count
			}
			return &EqualizeResult{
				Cutoffs:    cutoffs,
				AchievedK:  achieved,
				Iterations: iterations,
				Threshold:  x,
			}, nil
		}

		// Every curve tops out at FPR 1.0; once x clears that, no
		// further step can grow K
		if x > 1.0 {
			return nil, core.NewInfeasibleBudgetError(target, achieved)
		}
		x += cfg.StepSize
		iterations++
	}
}
