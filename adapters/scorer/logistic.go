package scorer

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TrainConfig holds one hyperparameter combination for the logistic scorer
type TrainConfig struct {
	LearningRate float64 `json:"learning_rate"`
	L2           float64 `json:"l2"`
	Epochs       int     `json:"epochs"`
}

// LogisticScorer is a logistic-regression risk scorer trained by batch
// gradient descent. It implements ports.ScorerPort.
type LogisticScorer struct {
	config  TrainConfig
	weights *mat.VecDense
	bias    float64
}

// NewLogisticScorer creates an untrained scorer with the given hyperparameters
func NewLogisticScorer(config TrainConfig) *LogisticScorer {
	return &LogisticScorer{config: config}
}

// Train fits weights by batch gradient descent on the cross-entropy loss
// with L2 regularization
func (s *LogisticScorer) Train(ctx context.Context, features [][]float64, labels []bool) error {
	if len(features) == 0 {
		return fmt.Errorf("no training rows")
	}
	if len(features) != len(labels) {
		return fmt.Errorf("feature rows (%d) and labels (%d) differ", len(features), len(labels))
	}

	rows := len(features)
	cols := len(features[0])
	x := mat.NewDense(rows, cols, nil)
	for i, row := range features {
		if len(row) != cols {
			return fmt.Errorf("ragged feature row %d", i)
		}
		x.SetRow(i, row)
	}
	y := make([]float64, rows)
	for i, label := range labels {
		if label {
			y[i] = 1
		}
	}

	weights := mat.NewVecDense(cols, nil)
	bias := 0.0
	grad := mat.NewVecDense(cols, nil)
	logits := mat.NewVecDense(rows, nil)
	residual := mat.NewVecDense(rows, nil)

	for epoch := 0; epoch < s.config.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		logits.MulVec(x, weights)
		biasGrad := 0.0
		for i := 0; i < rows; i++ {
			p := sigmoid(logits.AtVec(i) + bias)
			r := p - y[i]
			residual.SetVec(i, r)
			biasGrad += r
		}

		grad.MulVec(x.T(), residual)
		grad.AddScaledVec(grad, s.config.L2, weights)
		weights.AddScaledVec(weights, -s.config.LearningRate/float64(rows), grad)
		bias -= s.config.LearningRate * biasGrad / float64(rows)
	}

	s.weights = weights
	s.bias = bias
	return nil
}

// Score produces a probability in [0,1] per row
func (s *LogisticScorer) Score(ctx context.Context, features [][]float64) ([]float64, error) {
	if s.weights == nil {
		return nil, fmt.Errorf("scorer not trained")
	}
	scores := make([]float64, len(features))
	for i, row := range features {
		if len(row) != s.weights.Len() {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), s.weights.Len())
		}
		dot := s.bias
		for j, v := range row {
			dot += v * s.weights.AtVec(j)
		}
		scores[i] = sigmoid(dot)
	}
	return scores, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// logLoss is the mean cross-entropy of predictions against labels, clamped
// away from 0 and 1 so a confident miss stays finite
func logLoss(predictions []float64, labels []bool) float64 {
	const eps = 1e-12
	total := 0.0
	for i, p := range predictions {
		p = math.Min(math.Max(p, eps), 1-eps)
		if labels[i] {
			total -= math.Log(p)
		} else {
			total -= math.Log(1 - p)
		}
	}
	return total / float64(len(predictions))
}
