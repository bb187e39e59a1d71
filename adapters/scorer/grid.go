package scorer

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"
)

// GridResult summarizes cross-validation for one hyperparameter combination
type GridResult struct {
	Config      TrainConfig `json:"config"`
	MeanLogLoss float64     `json:"mean_log_loss"`
	StdLogLoss  float64     `json:"std_log_loss"`
}

// GridSearch selects logistic hyperparameters by seeded K-fold
// cross-validation, training folds concurrently under a weighted semaphore
type GridSearch struct {
	Grid        []TrainConfig
	Folds       int
	Seed        int64
	MaxParallel int64
}

// DefaultGrid returns the hyperparameter grid used when callers do not
// supply one
func DefaultGrid() []TrainConfig {
	var grid []TrainConfig
	for _, lr := range []float64{0.01, 0.1, 0.5} {
		for _, l2 := range []float64{0, 0.01, 0.1} {
			grid = append(grid, TrainConfig{LearningRate: lr, L2: l2, Epochs: 200})
		}
	}
	return grid
}

// Run evaluates every combination and returns the full ranking (best first)
// plus a scorer trained on all rows with the winning combination.
func (g *GridSearch) Run(ctx context.Context, features [][]float64, labels []bool) (*LogisticScorer, []GridResult, error) {
	if len(g.Grid) == 0 {
		g.Grid = DefaultGrid()
	}
	folds := g.Folds
	if folds < 2 {
		folds = 5
	}
	if len(features) < folds {
		return nil, nil, fmt.Errorf("need at least %d rows for %d-fold validation, have %d", folds, folds, len(features))
	}
	maxParallel := g.MaxParallel
	if maxParallel < 1 {
		maxParallel = 4
	}

	// Seeded permutation so fold membership is reproducible per run
	perm := rand.New(rand.NewSource(g.Seed)).Perm(len(features))

	sem := semaphore.NewWeighted(maxParallel)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  = make([]GridResult, 0, len(g.Grid))
		firstErr error
	)

	for _, config := range g.Grid {
		if err := sem.Acquire(ctx, 1); err != nil {
			// in-flight workers also touch firstErr, so the write
			// happens under the same lock
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(config TrainConfig) {
			defer wg.Done()
			defer sem.Release(1)

			losses, err := g.crossValidate(ctx, config, features, labels, perm, folds)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			mean, _ := stats.Mean(losses)
			std, _ := stats.StandardDeviation(losses)
			results = append(results, GridResult{Config: config, MeanLogLoss: mean, StdLogLoss: std})
		}(config)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, nil, firstErr
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].MeanLogLoss != results[j].MeanLogLoss {
			return results[i].MeanLogLoss < results[j].MeanLogLoss
		}
		// deterministic order among equal losses
		return results[i].Config.LearningRate < results[j].Config.LearningRate
	})

	best := NewLogisticScorer(results[0].Config)
	if err := best.Train(ctx, features, labels); err != nil {
		return nil, nil, err
	}
	return best, results, nil
}

func (g *GridSearch) crossValidate(ctx context.Context, config TrainConfig, features [][]float64, labels []bool, perm []int, folds int) ([]float64, error) {
	losses := make([]float64, 0, folds)
	for fold := 0; fold < folds; fold++ {
		var trainX, valX [][]float64
		var trainY, valY []bool
		for i, idx := range perm {
			if i%folds == fold {
				valX = append(valX, features[idx])
				valY = append(valY, labels[idx])
			} else {
				trainX = append(trainX, features[idx])
				trainY = append(trainY, labels[idx])
			}
		}

		model := NewLogisticScorer(config)
		if err := model.Train(ctx, trainX, trainY); err != nil {
			return nil, err
		}
		predictions, err := model.Score(ctx, valX)
		if err != nil {
			return nil, err
		}
		losses = append(losses, logLoss(predictions, valY))
	}
	return losses, nil
}

// GridScorer implements ports.ScorerPort by selecting hyperparameters with
// cross-validated grid search at Train time
type GridScorer struct {
	Search  GridSearch
	Results []GridResult

	model *LogisticScorer
}

// Train runs the grid search and keeps the winning model
func (g *GridScorer) Train(ctx context.Context, features [][]float64, labels []bool) error {
	model, results, err := g.Search.Run(ctx, features, labels)
	if err != nil {
		return err
	}
	g.model = model
	g.Results = results
	return nil
}

// Score delegates to the winning model
func (g *GridScorer) Score(ctx context.Context, features [][]float64) ([]float64, error) {
	if g.model == nil {
		return nil, fmt.Errorf("grid scorer not trained")
	}
	return g.model.Score(ctx, features)
}
