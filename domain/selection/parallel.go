package selection

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// BuildCurves constructs every group's FPR curve, running groups in
// parallel under a weighted semaphore. Curve construction shares no state
// across groups, so no coordination beyond the bound is needed. The first
// error cancels the batch; no partial curve set is returned.
func BuildCurves(ctx context.Context, individuals []Individual, seed int64, maxConcurrent int64) (map[GroupKey]*GroupCurve, error) {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	byGroup := PartitionByGroup(individuals)

	sem := semaphore.NewWeighted(maxConcurrent)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		curves   = make(map[GroupKey]*GroupCurve, len(byGroup))
		firstErr error
	)

	for group, members := range byGroup {
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
		go func(group GroupKey, members []Individual) {
			defer wg.Done()
			defer sem.Release(1)

			curve, err := BuildCurve(group, members, seed)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			curves[group] = curve
		}(group, members)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return curves, nil
}
