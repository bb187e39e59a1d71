package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fairselect/domain/audit"
	"fairselect/domain/core"
	"fairselect/domain/dataset"
	"fairselect/domain/selection"
	"fairselect/internal"
	"fairselect/ports"
)

// AuditService runs the full audit pipeline: per-group FPR curves, the
// cross-group merge, the budget-constrained equalizer, selection assignment,
// and the parity report
type AuditService struct {
	repo              ports.AuditRepository // nil disables persistence
	logger            *internal.Logger
	maxParallelCurves int64
}

// AuditRequest defines the inputs for one audit run
type AuditRequest struct {
	Individuals []selection.Individual
	Config      selection.Config
}

// NewAuditService creates an audit service; repo may be nil for one-shot
// runs that are not persisted
func NewAuditService(repo ports.AuditRepository, logger *internal.Logger, maxParallelCurves int64) *AuditService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if maxParallelCurves < 1 {
		maxParallelCurves = 4
	}
	return &AuditService{repo: repo, logger: logger, maxParallelCurves: maxParallelCurves}
}

// RunAudit executes the pipeline end to end. Any error aborts before a
// selection decision is finalized; no partial record is saved or returned.
func (s *AuditService) RunAudit(ctx context.Context, req AuditRequest) (*audit.Record, error) {
	startTime := time.Now()

	if err := req.Config.Validate(); err != nil {
		return nil, err
	}
	if len(req.Individuals) == 0 {
		return nil, fmt.Errorf("no individuals to audit")
	}

	curves, err := selection.BuildCurves(ctx, req.Individuals, req.Config.RandomSeed, s.maxParallelCurves)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("built %d group curves", len(curves))

	merged := selection.MergeCurves(curves)
	result, err := selection.Equalize(merged, req.Config)
	if err != nil {
		return nil, err
	}
	s.logger.Info("equalized selection: K=%d (target %d) after %d iterations at threshold %.4f",
		result.AchievedK, req.Config.TargetSelectionCount, result.Iterations, result.Threshold)

	decisions := selection.Assign(curves, result.Cutoffs)
	parityReport, err := audit.BuildReport(decisions, req.Config.ReferenceGroup)
	if err != nil {
		return nil, err
	}

	record := &audit.Record{
		ID:         core.NewAuditID(),
		CreatedAt:  time.Now().UTC(),
		Config:     req.Config,
		Cutoffs:    result.Cutoffs,
		AchievedK:  result.AchievedK,
		Iterations: result.Iterations,
		Threshold:  result.Threshold,
		Report:     parityReport,
		RuntimeMs:  time.Since(startTime).Milliseconds(),
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// IndividualsFromFrame builds scored individuals from a frame that already
// carries classifier scores
func IndividualsFromFrame(frame *dataset.Frame, scoreColumn, labelColumn, groupColumn string) ([]selection.Individual, error) {
	scoreCol, err := frame.Column(scoreColumn)
	if err != nil {
		return nil, err
	}
	if scoreCol.Kind != dataset.KindNumeric {
		return nil, fmt.Errorf("score column %q is not numeric", scoreColumn)
	}
	labels, err := labelVector(frame, labelColumn)
	if err != nil {
		return nil, err
	}
	groups, err := groupVector(frame, groupColumn)
	if err != nil {
		return nil, err
	}

	individuals := make([]selection.Individual, frame.RowCount())
	for i := range individuals {
		score := scoreCol.Numeric[i]
		if score < 0 || score > 1 {
			return nil, fmt.Errorf("row %d: score %.4f outside [0,1]", i, score)
		}
		individuals[i] = selection.Individual{Score: score, Label: labels[i], Group: groups[i]}
	}
	return individuals, nil
}

// TrainAndScore encodes the frame's feature columns, trains the scorer on
// the outcome labels, and returns scored individuals. The protected group
// column is excluded from the design matrix; the classifier never sees it.
func TrainAndScore(ctx context.Context, frame *dataset.Frame, labelColumn, groupColumn string, scorer ports.ScorerPort) ([]selection.Individual, error) {
	labels, err := labelVector(frame, labelColumn)
	if err != nil {
		return nil, err
	}
	groups, err := groupVector(frame, groupColumn)
	if err != nil {
		return nil, err
	}

	encoder := dataset.NewEncoder(labelColumn, groupColumn)
	if err := encoder.Fit(frame); err != nil {
		return nil, err
	}
	features, _, err := encoder.Transform(frame)
	if err != nil {
		return nil, err
	}

	if err := scorer.Train(ctx, features, labels); err != nil {
		return nil, err
	}
	scores, err := scorer.Score(ctx, features)
	if err != nil {
		return nil, err
	}

	individuals := make([]selection.Individual, len(scores))
	for i, score := range scores {
		individuals[i] = selection.Individual{Score: score, Label: labels[i], Group: groups[i]}
	}
	return individuals, nil
}

func labelVector(frame *dataset.Frame, labelColumn string) ([]bool, error) {
	col, err := frame.Column(labelColumn)
	if err != nil {
		return nil, err
	}
	labels := make([]bool, col.Len())
	switch col.Kind {
	case dataset.KindNumeric:
		for i, v := range col.Numeric {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("row %d: label %v is not binary", i, v)
			}
			labels[i] = v == 1
		}
	case dataset.KindCategorical:
		for i, v := range col.Categorical {
			switch strings.ToLower(v) {
			case "true", "yes", "1":
				labels[i] = true
			case "false", "no", "0":
				labels[i] = false
			default:
				return nil, fmt.Errorf("row %d: unrecognized label %q", i, v)
			}
		}
	}
	return labels, nil
}

func groupVector(frame *dataset.Frame, groupColumn string) ([]selection.GroupKey, error) {
	col, err := frame.Column(groupColumn)
	if err != nil {
		return nil, err
	}
	if col.Kind != dataset.KindCategorical {
		return nil, fmt.Errorf("group column %q must be categorical", groupColumn)
	}
	groups := make([]selection.GroupKey, col.Len())
	for i, v := range col.Categorical {
		groups[i] = selection.GroupKey(v)
	}
	return groups, nil
}
