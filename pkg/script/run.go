package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/DrSkyle/graphkit/pkg/metrics"
	"github.com/DrSkyle/graphkit/pkg/policy"
)

// Runner executes scripts. It is safe to reuse across scripts.
type Runner struct {
	cel     *policy.CELEngine
	logger  *slog.Logger
	metrics func(name string) (graph.Metric, error)
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics overrides the metric lookup used by apply_metric steps.
func WithMetrics(lookup func(name string) (graph.Metric, error)) RunnerOption {
	return func(r *Runner) { r.metrics = lookup }
}

// NewRunner builds a runner with the built-in metrics.
func NewRunner(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{logger: slog.Default(), metrics: metrics.ByName}
	for _, opt := range opts {
		opt(r)
	}
	engine, err := policy.NewCELEngine(r.logger)
	if err != nil {
		return nil, err
	}
	r.cel = engine
	return r, nil
}

// Run registers the script's triggers on g, then executes its steps in
// order. On failure it returns the graph as of the last successful step
// together with the error, so callers can still inspect or persist it.
func (r *Runner) Run(ctx context.Context, g *graph.Graph, s *Script) (*graph.Graph, error) {
	for _, decl := range s.Triggers {
		t, err := r.trigger(ctx, decl)
		if err != nil {
			return g, err
		}
		if g, err = g.AddTrigger(t); err != nil {
			return g, fmt.Errorf("trigger %q: %w", decl.Name, err)
		}
	}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return g, err
		}
		next, err := r.step(ctx, g, st)
		if err != nil {
			var te *graph.TriggerError
			if errors.As(err, &te) {
				// The step itself committed.
				g = next
			}
			return g, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		g = next
	}
	return g, nil
}

func (r *Runner) trigger(ctx context.Context, decl TriggerDecl) (graph.Trigger, error) {
	t := graph.Trigger{Name: decl.Name}
	if decl.When != "" {
		cond, err := r.cel.Condition(decl.When)
		if err != nil {
			return t, fmt.Errorf("trigger %q: %w", decl.Name, err)
		}
		t.When = cond
	}
	steps := decl.Do
	t.Action = func(g *graph.Graph) (*graph.Graph, error) {
		for i, st := range steps {
			next, err := r.step(ctx, g, st)
			if err != nil {
				return g, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
			}
			g = next
		}
		return g, nil
	}
	return t, nil
}

func (r *Runner) step(ctx context.Context, g *graph.Graph, st Step) (*graph.Graph, error) {
	h, ok := handlers[st.Op]
	if !ok {
		return g, fmt.Errorf("unknown op %q", st.Op)
	}
	next, err := h(ctx, r, g, st)
	if err != nil && st.Optional && (errors.Is(err, graph.ErrEmptySelection) || errors.Is(err, graph.ErrNoActiveSelection)) {
		r.logger.Debug("Optional step skipped", "op", st.Op, "reason", err)
		return g, nil
	}
	return next, err
}
