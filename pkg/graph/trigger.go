package graph

import (
	"errors"
	"fmt"
	"slices"
)

// Action is a deferred unit of work. It receives the current graph and
// returns the graph produced by its own chain of operations.
type Action func(*Graph) (*Graph, error)

// Trigger is a queued (condition, action) pair. A nil When fires after every
// mutation.
type Trigger struct {
	Name   string
	When   func(LogEntry) bool
	Action Action
}

// AddTrigger appends t to the deferred action queue. Registering a trigger
// is not a mutation and is not logged.
func (g *Graph) AddTrigger(t Trigger) (*Graph, error) {
	const op = "add_graph_action"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	if t.Name == "" || t.Action == nil {
		return g, opErr(op, errors.New("trigger needs a name and an action"))
	}
	if slices.ContainsFunc(g.triggers, func(x Trigger) bool { return x.Name == t.Name }) {
		return g, opErr(op, fmt.Errorf("%w: %q", ErrDuplicateTrigger, t.Name))
	}
	next := g.shallow()
	next.triggers = append(slices.Clip(g.triggers), t)
	return next, nil
}

// RemoveTrigger drops the named trigger from the queue.
func (g *Graph) RemoveTrigger(name string) (*Graph, error) {
	const op = "delete_graph_action"
	if err := g.check(); err != nil {
		return g, opErr(op, err)
	}
	i := slices.IndexFunc(g.triggers, func(x Trigger) bool { return x.Name == name })
	if i < 0 {
		return g, opErr(op, fmt.Errorf("%w: %q", ErrUnknownTrigger, name))
	}
	next := g.shallow()
	next.triggers = slices.Delete(slices.Clone(g.triggers), i, i+1)
	return next, nil
}

// Triggers returns the queued trigger names in firing order.
func (g *Graph) Triggers() []string {
	names := make([]string, len(g.triggers))
	for i, t := range g.triggers {
		names[i] = t.Name
	}
	return names
}

// fireTriggers runs the queue once, in order, against g. Operations issued
// by the actions are logged but do not fire the queue again.
func (g *Graph) fireTriggers(cause LogEntry) (*Graph, error) {
	cur := g.shallow()
	cur.inTrigger = true
	for _, t := range g.triggers {
		if t.When != nil && !t.When(cause) {
			continue
		}
		out, err := t.Action(cur)
		if out != nil {
			if derr := cur.checkDescendant(out); derr != nil {
				return cur.endTrigger(), &TriggerError{Cause: cause.Op, Trigger: t.Name, Err: derr}
			}
			cur = out
		}
		if err != nil {
			return cur.endTrigger(), &TriggerError{Cause: cause.Op, Trigger: t.Name, Err: err}
		}
		g.rt.logger.Debug("graph trigger fired", "trigger", t.Name, "cause", cause.Op)
	}
	return cur.endTrigger(), nil
}

// checkDescendant rejects an action result that was not derived from g by
// operations: another runtime, another graph ID, or a log that does not
// extend g's log.
func (g *Graph) checkDescendant(out *Graph) error {
	if out.rt != g.rt || out.id != g.id {
		return fmt.Errorf("%w: action returned a different graph", ErrInvalidGraphState)
	}
	if len(out.log) < len(g.log) || out.log[len(g.log)-1] != g.log[len(g.log)-1] {
		return fmt.Errorf("%w: action rewound the action log from %d to %d entries", ErrInvalidGraphState, len(g.log), len(out.log))
	}
	return nil
}

func (g *Graph) endTrigger() *Graph {
	out := g.shallow()
	out.inTrigger = false
	return out
}
