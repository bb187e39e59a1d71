package audit

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"fairselect/domain/core"
	"fairselect/domain/selection"
)

// ScoreSummary describes the score distribution of one group
type ScoreSummary struct {
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// GroupOutcome holds the realized confusion counts and parity figures for
// one group under the final selection
type GroupOutcome struct {
	Group          selection.GroupKey `json:"group"`
	Total          int                `json:"total"`
	Selected       int                `json:"selected"`
	FalsePositives int                `json:"false_positives"`
	TrueNegatives  int                `json:"true_negatives"`
	TruePositives  int                `json:"true_positives"`
	FalseNegatives int                `json:"false_negatives"`
	FPR            float64            `json:"fpr"`
	ParityRatio    float64            `json:"parity_ratio"`
	// PValue is a two-proportion z-test of this group's FPR against the
	// reference group's; 1.0 for the reference group itself
	PValue       float64      `json:"p_value"`
	ScoreSummary ScoreSummary `json:"score_summary"`
}

// ParityReport is the per-group FPR and parity-ratio table for a finished
// selection, plus the overall recall the budget-equalized policy achieved
type ParityReport struct {
	ReferenceGroup selection.GroupKey `json:"reference_group"`
	Groups         []GroupOutcome     `json:"groups"`
	SelectedCount  int                `json:"selected_count"`
	Recall         float64            `json:"recall"`
}

// BuildReport recomputes per-group false-positive rates on the final
// decisions and the parity ratio against the reference group. Recall is
// reported because budget-driven equalization can degrade it relative to an
// unconstrained top-N selection.
func BuildReport(decisions []selection.Decision, reference selection.GroupKey) (*ParityReport, error) {
	outcomes := make(map[selection.GroupKey]*GroupOutcome)
	scores := make(map[selection.GroupKey][]float64)

	totalTP, totalFN, totalSelected := 0, 0, 0
	for _, d := range decisions {
		group := d.Individual.Group
		out, ok := outcomes[group]
		if !ok {
			out = &GroupOutcome{Group: group}
			outcomes[group] = out
		}
		out.Total++
		scores[group] = append(scores[group], d.Individual.Score)

		if d.Selected {
			out.Selected++
			totalSelected++
		}
		switch {
		case d.Selected && !d.Individual.Label:
			out.FalsePositives++
		case !d.Selected && !d.Individual.Label:
			out.TrueNegatives++
		case d.Selected && d.Individual.Label:
			out.TruePositives++
			totalTP++
		default:
			out.FalseNegatives++
			totalFN++
		}
	}

	ref, ok := outcomes[reference]
	if !ok || ref.Total == 0 {
		return nil, core.NewReferenceGroupNotFoundError(reference.String())
	}

	for _, out := range outcomes {
		negatives := out.FalsePositives + out.TrueNegatives
		if negatives > 0 {
			out.FPR = float64(out.FalsePositives) / float64(negatives)
		}
		out.ScoreSummary = summarizeScores(scores[out.Group])
	}

	refNegatives := ref.FalsePositives + ref.TrueNegatives
	for _, out := range outcomes {
		if out.Group == reference {
			out.ParityRatio = 1.0
			out.PValue = 1.0
			continue
		}
		if ref.FPR > 0 {
			out.ParityRatio = out.FPR / ref.FPR
		}
		out.PValue = twoProportionPValue(
			out.FalsePositives, out.FalsePositives+out.TrueNegatives,
			ref.FalsePositives, refNegatives,
		)
	}

	groups := make([]GroupOutcome, 0, len(outcomes))
	for _, out := range outcomes {
		groups = append(groups, *out)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })

	recall := 0.0
	if totalTP+totalFN > 0 {
		recall = float64(totalTP) / float64(totalTP+totalFN)
	}

	return &ParityReport{
		ReferenceGroup: reference,
		Groups:         groups,
		SelectedCount:  totalSelected,
		Recall:         recall,
	}, nil
}

// twoProportionPValue runs a two-tailed two-proportion z-test: does the
// group's realized FPR differ from the reference group's beyond sampling
// noise?
func twoProportionPValue(x1, n1, x2, n2 int) float64 {
	if n1 == 0 || n2 == 0 {
		return 1.0
	}
	p1 := float64(x1) / float64(n1)
	p2 := float64(x2) / float64(n2)
	pooled := float64(x1+x2) / float64(n1+n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(n1) + 1/float64(n2)))
	if se == 0 {
		return 1.0
	}
	z := (p1 - p2) / se
	return 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))
}

func summarizeScores(scores []float64) ScoreSummary {
	if len(scores) == 0 {
		return ScoreSummary{}
	}
	min, _ := stats.Min(scores)
	mean, _ := stats.Mean(scores)
	median, _ := stats.Median(scores)
	p90, _ := stats.Percentile(scores, 90)
	return ScoreSummary{Min: min, Mean: mean, Median: median, P90: p90}
}
