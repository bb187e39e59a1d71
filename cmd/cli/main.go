// Command cli runs a one-shot fairness audit against a CSV or Excel file and
// prints the parity report as markdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fairselect/adapters/report"
	"fairselect/adapters/scorer"
	"fairselect/adapters/tabular"
	"fairselect/app"
	"fairselect/domain/selection"
	"fairselect/internal"
)

func main() {
	var (
		input     = flag.String("input", "", "CSV or XLSX input file (required)")
		scoreCol  = flag.String("score-col", "score", "column holding classifier scores")
		labelCol  = flag.String("label-col", "label", "column holding binary outcome labels")
		groupCol  = flag.String("group-col", "group", "column holding the protected attribute")
		budget    = flag.Int("budget", 0, "total number of individuals to select")
		step      = flag.Float64("step", 0.001, "threshold search increment")
		reference = flag.String("reference", "", "reference group for parity ratios (required)")
		seed      = flag.Int64("seed", 42, "tie-break random seed")
		caps      = flag.String("caps", "", "per-group caps, e.g. blue=50,green=80")
		train     = flag.Bool("train", false, "train a logistic scorer via grid search instead of using -score-col")
		xlsxOut   = flag.String("xlsx-out", "", "optional path for an Excel export of the report")
	)
	flag.Parse()

	if *input == "" || *reference == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*input, *scoreCol, *labelCol, *groupCol, *budget, *step, *reference, *seed, *caps, *train, *xlsxOut); err != nil {
		fmt.Fprintf(os.Stderr, "audit failed: %v\n", err)
		os.Exit(1)
	}
}

func run(input, scoreCol, labelCol, groupCol string, budget int, step float64, reference string, seed int64, caps string, train bool, xlsxOut string) error {
	ctx := context.Background()
	logger := internal.NewDefaultLogger()

	frame, err := tabular.NewFileReader(input).ReadFrame()
	if err != nil {
		return err
	}
	logger.Info("loaded %d rows from %s", frame.RowCount(), input)

	var individuals []selection.Individual
	if train {
		gridScorer := &scorer.GridScorer{Search: scorer.GridSearch{Seed: seed}}
		individuals, err = app.TrainAndScore(ctx, frame, labelCol, groupCol, gridScorer)
		if err != nil {
			return err
		}
		logger.Info("grid search selected lr=%.3f l2=%.3f epochs=%d (mean log-loss %.4f)",
			gridScorer.Results[0].Config.LearningRate, gridScorer.Results[0].Config.L2,
			gridScorer.Results[0].Config.Epochs, gridScorer.Results[0].MeanLogLoss)
	} else {
		individuals, err = app.IndividualsFromFrame(frame, scoreCol, labelCol, groupCol)
		if err != nil {
			return err
		}
	}

	perGroupCap, err := parseCaps(caps)
	if err != nil {
		return err
	}

	svc := app.NewAuditService(nil, logger, 4)
	record, err := svc.RunAudit(ctx, app.AuditRequest{
		Individuals: individuals,
		Config: selection.Config{
			TargetSelectionCount: budget,
			StepSize:             step,
			PerGroupCap:          perGroupCap,
			ReferenceGroup:       selection.GroupKey(reference),
			RandomSeed:           seed,
		},
	})
	if err != nil {
		return err
	}

	fmt.Println(report.RenderMarkdown(record))

	if xlsxOut != "" {
		if err := report.WriteWorkbook(record, xlsxOut); err != nil {
			return err
		}
		logger.Info("report exported to %s", xlsxOut)
	}
	return nil
}

func parseCaps(caps string) (map[selection.GroupKey]int, error) {
	if caps == "" {
		return nil, nil
	}
	parsed := make(map[selection.GroupKey]int)
	for _, pair := range strings.Split(caps, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed cap %q, want group=count", pair)
		}
		count, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed cap count in %q: %w", pair, err)
		}
		parsed[selection.GroupKey(parts[0])] = count
	}
	return parsed, nil
}
