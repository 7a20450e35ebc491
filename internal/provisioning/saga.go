package provisioning

import (
	"errors"
	"fmt"
	"time"

	"github.com/imamik/sitegen/internal/config"
	"github.com/imamik/sitegen/internal/manifest"
	"github.com/imamik/sitegen/internal/metrics"
)

// Saga names used for metrics and log fields.
const (
	SagaProvision = "provision"
	SagaTeardown  = "teardown"
)

// Step is one entry of the saga catalogue.
type Step struct {
	Name string

	// Enabled gates Forward on the run configuration. Nil means always.
	Enabled func(cfg config.Config) bool

	// Forward creates the step's resources and records them in ctx.Manifest.
	Forward func(ctx *Context) error

	// Applies gates Compensate on the manifest being torn down. Nil means always.
	Applies func(m *manifest.Manifest) bool

	// Compensate removes what Forward created. Nil means the step has no inverse.
	Compensate func(ctx *Context, m *manifest.Manifest) error
}

// Saga runs a step catalogue forwards or backwards.
type Saga struct {
	Steps []Step

	// Persist is called with the manifest after every forward step that ran,
	// including a failed one, so that partial runs stay tear-down-able.
	Persist func(m *manifest.Manifest) error

	// Metrics is optional.
	Metrics *metrics.Recorder
}

// Forward executes the enabled steps in order and stops at the first failure.
// Nothing is retried and nothing is compensated automatically.
func (s *Saga) Forward(ctx *Context) error {
	start := time.Now()
	err := s.forward(ctx)
	s.Metrics.RecordRun(SagaProvision, err, time.Since(start))
	return err
}

func (s *Saga) forward(ctx *Context) error {
	total := len(s.Steps)
	for i, step := range s.Steps {
		label := fmt.Sprintf("%s (%d/%d)", step.Name, i+1, total)

		if step.Enabled != nil && !step.Enabled(ctx.Config) {
			LogStepSkipped(ctx.Observer, label, "disabled")
			s.Metrics.RecordStep(SagaProvision, step.Name, metrics.ResultSkipped, 0)
			continue
		}

		LogStepStart(ctx.Observer, label)
		stepStart := time.Now()

		err := step.Forward(ctx)
		persistErr := s.persist(ctx.Manifest)
		duration := time.Since(stepStart)

		if err != nil {
			if persistErr != nil {
				err = errors.Join(err, persistErr)
			}
			LogStepFailed(ctx.Observer, label, err)
			s.Metrics.RecordStep(SagaProvision, step.Name, metrics.ResultFailure, duration)
			return fmt.Errorf("%s step failed: %w", step.Name, err)
		}
		if persistErr != nil {
			LogStepFailed(ctx.Observer, label, persistErr)
			s.Metrics.RecordStep(SagaProvision, step.Name, metrics.ResultFailure, duration)
			return fmt.Errorf("%s step failed: %w", step.Name, persistErr)
		}

		LogStepComplete(ctx.Observer, label, duration)
		s.Metrics.RecordStep(SagaProvision, step.Name, metrics.ResultSuccess, duration)
	}
	return nil
}

// Compensate runs the inverse of every applicable step in reverse catalogue
// order and stops at the first failure. m is never modified.
func (s *Saga) Compensate(ctx *Context, m *manifest.Manifest) error {
	start := time.Now()
	err := s.compensate(ctx, m)
	s.Metrics.RecordRun(SagaTeardown, err, time.Since(start))
	return err
}

func (s *Saga) compensate(ctx *Context, m *manifest.Manifest) error {
	for i := len(s.Steps) - 1; i >= 0; i-- {
		step := s.Steps[i]
		if step.Compensate == nil {
			continue
		}
		if step.Applies != nil && !step.Applies(m) {
			LogStepSkipped(ctx.Observer, step.Name, "not in manifest")
			s.Metrics.RecordStep(SagaTeardown, step.Name, metrics.ResultSkipped, 0)
			continue
		}

		LogStepStart(ctx.Observer, step.Name)
		stepStart := time.Now()

		if err := step.Compensate(ctx, m); err != nil {
			LogStepFailed(ctx.Observer, step.Name, err)
			s.Metrics.RecordStep(SagaTeardown, step.Name, metrics.ResultFailure, time.Since(stepStart))
			return fmt.Errorf("%s compensation failed: %w", step.Name, err)
		}

		LogStepComplete(ctx.Observer, step.Name, time.Since(stepStart))
		s.Metrics.RecordStep(SagaTeardown, step.Name, metrics.ResultSuccess, time.Since(stepStart))
	}
	return nil
}

func (s *Saga) persist(m *manifest.Manifest) error {
	if s.Persist == nil {
		return nil
	}
	return s.Persist(m)
}
