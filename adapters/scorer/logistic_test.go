package scorer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separableData builds rows where the first feature fully determines the
// label, so any sensible fit ranks positives above negatives
func separableData(n int) ([][]float64, []bool) {
	features := make([][]float64, n)
	labels := make([]bool, n)
	for i := range features {
		if i%2 == 0 {
			features[i] = []float64{1.5, float64(i%5) * 0.1}
			labels[i] = true
		} else {
			features[i] = []float64{-1.5, float64(i%5) * 0.1}
		}
	}
	return features, labels
}

func TestLogisticScorer_SeparatesClasses(t *testing.T) {
	ctx := context.Background()
	features, labels := separableData(40)

	model := NewLogisticScorer(TrainConfig{LearningRate: 0.5, L2: 0, Epochs: 500})
	require.NoError(t, model.Train(ctx, features, labels))

	scores, err := model.Score(ctx, features)
	require.NoError(t, err)

	for i, score := range scores {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		if labels[i] {
			assert.Greater(t, score, 0.5, "positive row %d scored %v", i, score)
		} else {
			assert.Less(t, score, 0.5, "negative row %d scored %v", i, score)
		}
	}
}

func TestLogisticScorer_InputValidation(t *testing.T) {
	ctx := context.Background()
	model := NewLogisticScorer(TrainConfig{LearningRate: 0.1, Epochs: 10})

	assert.Error(t, model.Train(ctx, nil, nil))
	assert.Error(t, model.Train(ctx, [][]float64{{1}}, []bool{true, false}))

	_, err := model.Score(ctx, [][]float64{{1}})
	assert.Error(t, err, "untrained scorer must refuse to score")
}

func TestGridSearch_PicksAndTrains(t *testing.T) {
	ctx := context.Background()
	features, labels := separableData(40)

	search := &GridSearch{
		Grid: []TrainConfig{
			{LearningRate: 0.01, Epochs: 50},
			{LearningRate: 0.5, Epochs: 300},
		},
		Folds: 4,
		Seed:  9,
	}
	model, results, err := search.Run(ctx, features, labels)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.LessOrEqual(t, results[0].MeanLogLoss, results[1].MeanLogLoss, "results must be sorted best first")

	scores, err := model.Score(ctx, features)
	require.NoError(t, err)
	assert.Len(t, scores, len(features))
}

func TestGridSearch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	features, labels := separableData(40)

	search := &GridSearch{Seed: 9, MaxParallel: 1}
	model, results, err := search.Run(ctx, features, labels)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, model)
	assert.Nil(t, results)
}

func TestGridScorer_ImplementsPort(t *testing.T) {
	ctx := context.Background()
	features, labels := separableData(40)

	g := &GridScorer{Search: GridSearch{Seed: 3, Folds: 4, Grid: []TrainConfig{{LearningRate: 0.3, Epochs: 100}}}}
	_, err := g.Score(ctx, features)
	assert.Error(t, err, "untrained grid scorer must refuse to score")

	require.NoError(t, g.Train(ctx, features, labels))
	require.NotEmpty(t, g.Results)

	scores, err := g.Score(ctx, features)
	require.NoError(t, err)
	assert.Len(t, scores, len(features))
}
