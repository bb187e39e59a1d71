package ports

import "context"

// ScorerPort is the external classifier collaborator: it learns from a
// design matrix with binary outcomes and produces risk scores in [0,1].
// The selection core never depends on how scores were produced.
type ScorerPort interface {
	// Train fits the scorer on a design matrix and outcome labels
	Train(ctx context.Context, features [][]float64, labels []bool) error

	// Score produces a risk score in [0,1] per row
	Score(ctx context.Context, features [][]float64) ([]float64, error)
}
