package toolkit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"azmcp/internal/observe"
)

// Dispatcher routes a tool invocation (name + argument bag) through the
// lookup-validate-invoke pipeline and converts every outcome — success or
// any failure — into an [Envelope]. No failure is retried and none escapes
// as an error or panic: the transport layer never needs to branch on
// failure modes.
//
// Dispatch touches no mutable shared state (the registry is read-only after
// startup), so a single Dispatcher may be used from any number of goroutines
// without locking.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *observe.Metrics
}

// NewDispatcher creates a Dispatcher over reg. logger and metrics may be nil,
// in which case the default slog logger is used and no metrics are recorded.
func NewDispatcher(reg *Registry, logger *slog.Logger, metrics *observe.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: reg, logger: logger, metrics: metrics}
}

// Registry returns the registry the dispatcher routes over.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch executes the named tool with args and returns the uniform result
// envelope. Per-invocation pipeline: registry lookup, required-argument
// validation, handler invocation, failure classification. Each invocation is
// independent; nothing carries over between calls.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args Args) Envelope {
	invocationID := uuid.NewString()

	ctx, span := observe.StartSpan(ctx, "tool "+name,
		trace.WithAttributes(
			attribute.String("tool", name),
			attribute.String("invocation_id", invocationID),
		),
	)
	defer span.End()

	logger := d.logger.With("tool", name, "invocation_id", invocationID)
	logger.InfoContext(ctx, "executing tool")

	start := time.Now()
	env := d.run(ctx, name, args)
	elapsed := time.Since(start)

	d.record(ctx, name, env, elapsed)

	if env.OK() {
		logger.InfoContext(ctx, "tool succeeded", "duration", elapsed)
	} else {
		logger.ErrorContext(ctx, "tool failed",
			"category", string(env.Failure.Category),
			"message", env.Failure.Message,
			"duration", elapsed,
		)
	}
	return env
}

// run is the linear per-call pipeline: Received → Validating → {Rejected |
// Dispatching} → {HandlerSucceeded | HandlerFailed} → Enveloped.
func (d *Dispatcher) run(ctx context.Context, name string, args Args) Envelope {
	desc, ok := d.registry.Lookup(name)
	if !ok {
		return Fail(CategoryUnsupportedOperation, "unsupported tool: "+name)
	}

	if missing := missingArgs(desc, args); len(missing) > 0 {
		return Fail(CategoryInvalidArgument,
			"invalid arguments: missing "+strings.Join(missing, ", "))
	}

	result, err := d.invoke(ctx, desc, args)
	if err != nil {
		category := Classify(err)
		return Fail(category, failureMessage(category, err))
	}
	return Success(result)
}

// invoke calls the handler, converting a panic into an ordinary error so the
// failure boundary stays total. Panicking handlers land in the catch-all
// category like any other unclassified failure.
func (d *Dispatcher) invoke(ctx context.Context, desc *Descriptor, args Args) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", desc.Name, r)
		}
	}()
	return desc.Handler(ctx, args)
}

// record emits the per-invocation metrics when a metrics sink is configured.
func (d *Dispatcher) record(ctx context.Context, name string, env Envelope, elapsed time.Duration) {
	if d.metrics == nil {
		return
	}

	status := "ok"
	if !env.OK() {
		status = "error"
	}
	d.metrics.ToolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", name),
		attribute.String("status", status),
	))
	d.metrics.ToolDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("tool", name),
	))
	if !env.OK() {
		d.metrics.ToolFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", name),
			attribute.String("category", string(env.Failure.Category)),
		))
	}
}
