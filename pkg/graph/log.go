package graph

import (
	"context"
	"slices"
	"time"
)

// LogEntry is one row of the action log: one logical mutation.
type LogEntry struct {
	Seq      int           `json:"version_id"`
	Op       string        `json:"function_used"`
	Time     time.Time     `json:"time_modified"`
	Duration time.Duration `json:"duration"`
	Nodes    int           `json:"nodes"`
	Edges    int           `json:"edges"`
	DN       int           `json:"d_n"`
	DE       int           `json:"d_e"`
}

// Event describes one committed mutation cycle: the primary operation and
// every operation its triggers ran, in log order.
type Event struct {
	Graph   *Graph
	Entries []LogEntry
}

// Observer is notified synchronously after every committed mutation cycle.
// Errors are logged and never undo the mutation.
type Observer interface {
	OnChange(ctx context.Context, ev Event) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event) error

func (f ObserverFunc) OnChange(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Log returns a copy of the action log.
func (g *Graph) Log() []LogEntry { return slices.Clone(g.log) }

// apply runs one logical mutation: validate and mutate a private copy, log
// once, fire triggers, then notify observers. When fn fails the receiver is
// returned unchanged. When a trigger fails the committed graph is returned
// together with a *TriggerError.
func (g *Graph) apply(op string, fn func(next *Graph) error) (*Graph, error) {
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	start := g.rt.now()
	next := g.clone()
	if err := fn(next); err != nil {
		return g, opErr(op, err)
	}

	entry := LogEntry{
		Seq:      len(g.log) + 1,
		Op:       op,
		Time:     start,
		Duration: g.rt.now().Sub(start),
		Nodes:    next.nodes.len(),
		Edges:    next.edges.len(),
		DN:       next.nodes.len() - g.nodes.len(),
		DE:       next.edges.len() - g.edges.len(),
	}
	next.log = append(slices.Clip(g.log), entry)
	g.rt.logger.Debug("graph mutation committed",
		"op", op, "seq", entry.Seq, "d_n", entry.DN, "d_e", entry.DE, "duration", entry.Duration)

	if next.inTrigger {
		return next, nil
	}

	var trigErr error
	if len(next.triggers) > 0 {
		next, trigErr = next.fireTriggers(entry)
	}
	next.notify(next.log[len(g.log):])
	return next, trigErr
}

func (g *Graph) notify(entries []LogEntry) {
	if len(g.rt.observers) == 0 {
		return
	}
	ev := Event{Graph: g, Entries: slices.Clone(entries)}
	for _, o := range g.rt.observers {
		ctx := context.Background()
		var cancel context.CancelFunc = func() {}
		if g.cfg.ObserverTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, g.cfg.ObserverTimeout)
		}
		if err := o.OnChange(ctx, ev); err != nil {
			g.rt.logger.Warn("graph observer failed", "graph", g.id, "seq", entries[len(entries)-1].Seq, "error", err)
		}
		cancel()
	}
}
