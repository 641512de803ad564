package atmosphere

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-atmos/engine/profiler"
	"github.com/sirupsen/logrus"
)

// DefaultMaxTableBytes is the default cap on the size of a single output table.
const DefaultMaxTableBytes int64 = 4 << 30

const bytesPerFloat = 4

// baker implements the Baker interface.
type baker struct {
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup

	// closeCtx is cancelled by Close to abort in-flight bakes.
	closeCtx    context.Context
	closeCancel context.CancelFunc

	backendType BakerBackendType
	backend     BakerBackend
	workers     int

	transmittanceSteps int
	viewSteps          int
	sunSteps           int
	irradianceSteps    int

	maxTableBytes int64

	logger           logrus.FieldLogger
	profilingEnabled bool
}

// Baker is the capability object that turns AtmosParams into baked lookup tables.
// Callers hold a Baker explicitly and pass it to whatever needs to bake; there is no global
// backend to configure. A Baker is safe for concurrent use.
type Baker interface {
	// Bake fills the transmittance, single-scattering and direct-irradiance tables.
	// On success every buffer of the result is allocated and fully populated, and ownership
	// transfers to the caller. On failure the result is nil and no buffers are retained.
	//
	// Parameters:
	//   - ctx: cancels the bake between work units
	//   - params: the atmosphere parameters
	//
	// Returns:
	//   - *AtmosResult: the baked tables
	//   - error: ErrInvalidConfig, ErrAllocation, ErrCanceled or ErrClosed (wrapped)
	Bake(ctx context.Context, params AtmosParams) (*AtmosResult, error)

	// Backend returns the compute backend this baker was built with.
	//
	// Returns:
	//   - BakerBackendType: the backend identifier
	Backend() BakerBackendType

	// Close aborts any in-flight bakes, which return ErrClosed, waits for them to release
	// their workers and then stops the worker pool. Safe to call multiple times.
	Close()
}

// NewBaker creates a Baker with the provided options.
// The worker pool is created after options are applied so WithWorkers can size it.
//
// Parameters:
//   - options: functional options for step counts, workers, logging and limits
//
// Returns:
//   - Baker: the newly created baker
func NewBaker(options ...BakerBuilderOption) Baker {
	b := &baker{
		backendType:        BackendTypeCPU,
		workers:            max(runtime.NumCPU()-1, 1),
		transmittanceSteps: DefaultTransmittanceSteps,
		viewSteps:          DefaultViewSteps,
		sunSteps:           DefaultSunSteps,
		irradianceSteps:    DefaultTransmittanceSteps,
		maxTableBytes:      DefaultMaxTableBytes,
		logger:             logrus.StandardLogger(),
	}

	for _, option := range options {
		option(b)
	}

	switch b.backendType {
	case BackendTypeCPU:
		b.backend = newCPUBakerBackend(b.workers)
	default:
		panic(fmt.Sprintf("atmosphere: unsupported baker backend %d", b.backendType))
	}
	b.closeCtx, b.closeCancel = context.WithCancel(context.Background())

	return b
}

func (b *baker) Backend() BakerBackendType {
	return b.backend.Type()
}

func (b *baker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.closeCancel()
	// the pool must outlive every Dispatch still draining its submitted units
	b.inflight.Wait()
	b.backend.Close()
}

func (b *baker) Bake(ctx context.Context, params AtmosParams) (*AtmosResult, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	b.inflight.Add(1)
	b.mu.Unlock()
	defer b.inflight.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(b.closeCtx, cancel)
	defer stop()

	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.ScatteringOrders > 1 {
		b.logger.WithField("orders", params.ScatteringOrders).
			Warn("atmosphere: multiple scattering is not implemented; baking single scattering only")
	}

	result, err := allocateResult(params, b.maxTableBytes)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log := b.logger.WithFields(logrus.Fields{
		"backend": b.backend.Type().String(),
		"workers": b.backend.Workers(),
	})
	log.WithFields(logrus.Fields{
		"transmittance": fmt.Sprintf("%dx%d", params.Transmittance.Width, params.Transmittance.Height),
		"scattering":    fmt.Sprintf("%dx%dx%dx%d", params.Scattering.R, params.Scattering.Mu, params.Scattering.MuS, params.Scattering.Nu),
		"irradiance":    fmt.Sprintf("%dx%d", params.Irradiance.Width, params.Irradiance.Height),
	}).Info("atmosphere: bake started")

	d := driver{
		params:             params,
		geom:               NewPlanetGeom(params),
		result:             result,
		transmittanceSteps: b.transmittanceSteps,
		viewSteps:          b.viewSteps,
		sunSteps:           b.sunSteps,
		irradianceSteps:    b.irradianceSteps,
	}
	passes := []struct {
		name  string
		total int
		units func(tick func(int)) []func()
	}{
		{"transmittance", params.Transmittance.Texels(), d.transmittanceUnits},
		{"scattering", params.Scattering.Texels(), d.scatteringUnits},
		{"irradiance", params.Irradiance.Texels(), d.irradianceUnits},
	}
	for _, pass := range passes {
		tick := func(int) {}
		var finish func() time.Duration
		if b.profilingEnabled {
			prof := profiler.NewProfiler(b.logger, pass.name, pass.total)
			tick = func(n int) { prof.Tick(n) }
			finish = prof.Finish
		}

		if err := b.backend.Dispatch(ctx, pass.units(tick)); err != nil {
			result.Release()
			if b.closeCtx.Err() != nil {
				log.WithField("table", pass.name).Warn("atmosphere: baker closed during bake")
				return nil, fmt.Errorf("%w: %s table", ErrClosed, pass.name)
			}
			log.WithField("table", pass.name).WithError(err).Warn("atmosphere: bake canceled")
			return nil, fmt.Errorf("%w: %s table: %w", ErrCanceled, pass.name, err)
		}
		if finish != nil {
			finish()
		}
	}

	summary := Summarize(result)
	log.WithFields(logrus.Fields{
		"elapsed":          time.Since(start),
		"transmittanceMin": summary.Transmittance.Min,
		"scatteringMax":    summary.Scattering.Max,
		"irradianceMax":    summary.Irradiance.Max,
	}).Info("atmosphere: bake finished")

	return result, nil
}

// allocateResult allocates the three output tables, failing as a whole if any one cannot be allocated.
func allocateResult(params AtmosParams, limit int64) (*AtmosResult, error) {
	result := &AtmosResult{
		Transmittance: params.Transmittance,
		Scattering:    params.Scattering,
		Irradiance:    params.Irradiance,
	}

	var err error
	if result.TransmittanceRGB, err = allocTable("transmittance", []int{params.Transmittance.Width, params.Transmittance.Height, TransmittanceChannels}, limit); err != nil {
		result.Release()
		return nil, err
	}
	if result.ScatteringRGBA, err = allocTable("scattering", []int{params.Scattering.R, params.Scattering.Mu, params.Scattering.MuS, params.Scattering.Nu, ScatteringChannels}, limit); err != nil {
		result.Release()
		return nil, err
	}
	if result.IrradianceRGB, err = allocTable("irradiance", []int{params.Irradiance.Width, params.Irradiance.Height, IrradianceChannels}, limit); err != nil {
		result.Release()
		return nil, err
	}
	return result, nil
}

// allocTable allocates a float32 table with the product of dims elements. Overflowing sizes,
// sizes above limit and runtime allocation panics are reported as ErrAllocation.
func allocTable(name string, dims []int, limit int64) (table []float32, err error) {
	elements := int64(1)
	for _, d := range dims {
		if d <= 0 || elements > math.MaxInt64/int64(d) {
			return nil, fmt.Errorf("%w: %s table dimensions %v overflow", ErrAllocation, name, dims)
		}
		elements *= int64(d)
	}
	if elements > math.MaxInt64/bytesPerFloat || elements*bytesPerFloat > limit || elements > int64(math.MaxInt) {
		return nil, fmt.Errorf("%w: %s table needs %d elements, limit is %d bytes", ErrAllocation, name, elements, limit)
	}

	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = fmt.Errorf("%w: %s table: %v", ErrAllocation, name, r)
		}
	}()
	return make([]float32, int(elements)), nil
}
