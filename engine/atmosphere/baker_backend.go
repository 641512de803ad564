package atmosphere

import (
	"context"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// BakerBackendType identifies the compute backend implementation used by the Baker.
type BakerBackendType int

const (
	// BackendTypeCPU selects the CPU backend, which spreads table rows across a worker pool.
	BackendTypeCPU BakerBackendType = iota
)

// String returns the backend name.
func (t BakerBackendType) String() string {
	switch t {
	case BackendTypeCPU:
		return "cpu"
	default:
		return "unknown"
	}
}

// taskQueueSize bounds the pool's pending task queue. SubmitTask blocks while it is full,
// which throttles the producer to the workers' pace.
const taskQueueSize = 256

// BakerBackend is the top-level backend interface for the Baker.
// It embeds the concrete backend interface for the selected compute backend.
type BakerBackend interface {
	cpuBakerBackend
}

type cpuBakerBackend interface {
	// Type returns the backend type.
	//
	// Returns:
	//   - BakerBackendType: the backend identifier
	Type() BakerBackendType

	// Workers returns the number of workers units are spread across.
	//
	// Returns:
	//   - int: the worker count
	Workers() int

	// Dispatch runs every work unit and blocks until all submitted units have returned.
	// The context is checked before each unit is submitted and again when a worker picks it up,
	// so cancellation latency is bounded by the duration of one unit.
	//
	// Parameters:
	//   - ctx: the bake context
	//   - units: independent work units; each writes a disjoint region of the output
	//
	// Returns:
	//   - error: ctx.Err() if the context was cancelled, otherwise nil
	Dispatch(ctx context.Context, units []func()) error

	// Close stops the worker pool. The backend must not be used afterwards.
	Close()
}

type cpuBakerBackendImpl struct {
	workers int
	pool    worker.DynamicWorkerPool
}

var _ BakerBackend = (*cpuBakerBackendImpl)(nil)

// newCPUBakerBackend creates the CPU backend with a long-lived worker pool.
func newCPUBakerBackend(workers int) *cpuBakerBackendImpl {
	return &cpuBakerBackendImpl{
		workers: workers,
		pool:    worker.NewDynamicWorkerPool(workers, taskQueueSize, 1*time.Second),
	}
}

func (b *cpuBakerBackendImpl) Type() BakerBackendType {
	return BackendTypeCPU
}

func (b *cpuBakerBackendImpl) Workers() int {
	return b.workers
}

func (b *cpuBakerBackendImpl) Dispatch(ctx context.Context, units []func()) error {
	// pool.Wait() blocks until workers idle-exit, so a WaitGroup provides the per-dispatch barrier.
	var wg sync.WaitGroup
	for i, unit := range units {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		b.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				unit()
				return nil, nil
			},
		})
	}
	wg.Wait()
	return ctx.Err()
}

func (b *cpuBakerBackendImpl) Close() {
	b.pool.Stop()
}
