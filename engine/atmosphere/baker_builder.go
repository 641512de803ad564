package atmosphere

import "github.com/sirupsen/logrus"

// BakerBuilderOption is a functional option applied to a baker during construction via NewBaker.
type BakerBuilderOption func(*baker)

// WithBackend selects the compute backend. BackendTypeCPU is the default and only backend.
//
// Parameters:
//   - backendType: the backend to use
//
// Returns:
//   - BakerBuilderOption: a function that applies the backend option to a baker
func WithBackend(backendType BakerBackendType) BakerBuilderOption {
	return func(b *baker) {
		b.backendType = backendType
	}
}

// WithWorkers sets the number of pool workers table rows are spread across.
// Values <= 0 keep the default of max(runtime.NumCPU()-1, 1).
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - BakerBuilderOption: a function that applies the worker option to a baker
func WithWorkers(workers int) BakerBuilderOption {
	return func(b *baker) {
		if workers > 0 {
			b.workers = workers
		}
	}
}

// WithTransmittanceSteps sets the quadrature step count for the transmittance table.
//
// Parameters:
//   - steps: steps per ray (DefaultTransmittanceSteps if <= 0)
//
// Returns:
//   - BakerBuilderOption: a function that applies the step option to a baker
func WithTransmittanceSteps(steps int) BakerBuilderOption {
	return func(b *baker) {
		b.transmittanceSteps = steps
	}
}

// WithScatteringSteps sets the step counts for the single-scattering table.
//
// Parameters:
//   - view: samples along each view ray (DefaultViewSteps if <= 0)
//   - sun: quadrature steps toward the sun per sample (DefaultSunSteps if <= 0)
//
// Returns:
//   - BakerBuilderOption: a function that applies the step options to a baker
func WithScatteringSteps(view, sun int) BakerBuilderOption {
	return func(b *baker) {
		b.viewSteps = view
		b.sunSteps = sun
	}
}

// WithIrradianceSteps sets the quadrature step count for the sun transmittance used by the irradiance table.
//
// Parameters:
//   - steps: steps per sun ray (DefaultTransmittanceSteps if <= 0)
//
// Returns:
//   - BakerBuilderOption: a function that applies the step option to a baker
func WithIrradianceSteps(steps int) BakerBuilderOption {
	return func(b *baker) {
		b.irradianceSteps = steps
	}
}

// WithMaxTableBytes caps the size of any single output table. A bake whose table would exceed
// the cap fails with ErrAllocation instead of attempting the allocation.
//
// Parameters:
//   - limit: the per-table byte limit; values <= 0 keep DefaultMaxTableBytes
//
// Returns:
//   - BakerBuilderOption: a function that applies the limit option to a baker
func WithMaxTableBytes(limit int64) BakerBuilderOption {
	return func(b *baker) {
		if limit > 0 {
			b.maxTableBytes = limit
		}
	}
}

// WithLogger sets the logger used for bake progress and warnings.
// When not specified, the logrus standard logger is used.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - BakerBuilderOption: a function that applies the logger option to a baker
func WithLogger(logger logrus.FieldLogger) BakerBuilderOption {
	return func(b *baker) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithProfiling enables or disables periodic throughput and memory logging during a bake.
//
// Parameters:
//   - enabled: if true, each table is tracked by a profiler
//
// Returns:
//   - BakerBuilderOption: a function that applies the profiling option to a baker
func WithProfiling(enabled bool) BakerBuilderOption {
	return func(b *baker) {
		b.profilingEnabled = enabled
	}
}
