package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"fairselect/domain/audit"
)

// RenderMarkdown renders an audit record as a markdown document: the parity
// table, the equalized cutoffs, and the search diagnostics.
func RenderMarkdown(record *audit.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fairness Audit %s\n\n", record.ID)
	fmt.Fprintf(&b, "Reference group: **%s** | Budget: %d | Selected: %d (K overshoot %d) | Search iterations: %d | Threshold: %.4f\n\n",
		record.Report.ReferenceGroup,
		record.Config.TargetSelectionCount,
		record.AchievedK,
		record.AchievedK-record.Config.TargetSelectionCount,
		record.Iterations,
		record.Threshold,
	)

	b.WriteString("## Group parity\n\n")
	b.WriteString("| Group | Total | Selected | Cutoff | FP | TN | FPR | Parity ratio | p-value |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, g := range record.Report.Groups {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %d | %.4f | %.3f | %.3f |\n",
			g.Group, g.Total, g.Selected, record.Cutoffs[g.Group],
			g.FalsePositives, g.TrueNegatives, g.FPR, g.ParityRatio, g.PValue)
	}

	b.WriteString("\n## Score distributions\n\n")
	b.WriteString("| Group | Min | Mean | Median | P90 |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, g := range record.Report.Groups {
		s := g.ScoreSummary
		fmt.Fprintf(&b, "| %s | %.3f | %.3f | %.3f | %.3f |\n", g.Group, s.Min, s.Mean, s.Median, s.P90)
	}

	fmt.Fprintf(&b, "\nOverall recall of the equalized selection: **%.4f**\n", record.Report.Recall)
	fmt.Fprintf(&b, "\n_Run completed in %dms (seed %d, step %.4f)._\n",
		record.RuntimeMs, record.Config.RandomSeed, record.Config.StepSize)

	return b.String()
}

// RenderHTML renders the markdown report as a standalone HTML fragment
func RenderHTML(record *audit.Record) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(RenderMarkdown(record)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
