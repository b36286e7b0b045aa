package gallery

import (
	"image"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-hover/common"
)

// decoded is the result of one slide image decode.
type decoded struct {
	texture common.TextureStagingData
	size    image.Point // source size before any downscale
	err     error
}

// taskPool is the part of the worker pool decodeAll uses.
type taskPool interface {
	SubmitTask(t worker.Task)
	Stop()
}

// newDecodePool builds the pool for one decodeAll call.
var newDecodePool = func(workers, queueSize int) taskPool {
	return worker.NewDynamicWorkerPool(workers, queueSize, time.Second)
}

// decodeAll decodes every source on a bounded worker pool and waits for all of them. Each task
// writes only its own slot, so the results need no further synchronization once the barrier passes.
// The pool is stopped before returning.
//
// Parameters:
//   - sources: the images to decode
//   - workers: the maximum number of concurrent decodes
//
// Returns:
//   - []decoded: one result per source, in order
func decodeAll(sources []common.ImageSource, workers int) []decoded {
	results := make([]decoded, len(sources))
	if len(sources) == 0 {
		return results
	}

	pool := newDecodePool(max(workers, 1), len(sources))
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		slot := &results[i]
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				tex, size, err := src.Decode()
				*slot = decoded{texture: tex, size: size, err: err}
				return nil, err
			},
		})
	}
	wg.Wait()
	return results
}
