// Package policy compiles CEL expressions into graph selection predicates
// and trigger conditions.
package policy

import (
	"fmt"
	"log/slog"

	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/google/cel-go/cel"
)

// CELEngine holds one CEL environment per expression target.
//
// Node expressions see: id (int), kind (the node type, string or null),
// attrs (map). "type" is a CEL builtin, hence kind.
// Edge expressions see: id, from, to (int), rel (string or null), attrs.
// Condition expressions see the log entry: version_id, function_used,
// nodes, edges, d_n, d_e.
type CELEngine struct {
	nodeEnv  *cel.Env
	edgeEnv  *cel.Env
	entryEnv *cel.Env
	logger   *slog.Logger
}

// NewCELEngine initializes the CEL environments.
func NewCELEngine(logger *slog.Logger) (*CELEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	attrs := cel.Variable("attrs", cel.MapType(cel.StringType, cel.DynType))

	nodeEnv, err := cel.NewEnv(
		cel.CrossTypeNumericComparisons(true),
		cel.Variable("id", cel.IntType),
		cel.Variable("kind", cel.DynType),
		attrs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create node CEL env: %w", err)
	}
	edgeEnv, err := cel.NewEnv(
		cel.CrossTypeNumericComparisons(true),
		cel.Variable("id", cel.IntType),
		cel.Variable("from", cel.IntType),
		cel.Variable("to", cel.IntType),
		cel.Variable("rel", cel.DynType),
		attrs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create edge CEL env: %w", err)
	}
	entryEnv, err := cel.NewEnv(
		cel.Variable("version_id", cel.IntType),
		cel.Variable("function_used", cel.StringType),
		cel.Variable("nodes", cel.IntType),
		cel.Variable("edges", cel.IntType),
		cel.Variable("d_n", cel.IntType),
		cel.Variable("d_e", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create condition CEL env: %w", err)
	}

	return &CELEngine{nodeEnv: nodeEnv, edgeEnv: edgeEnv, entryEnv: entryEnv, logger: logger}, nil
}

// NodeFilter compiles expr into a node predicate, e.g. "kind == 'b'" or
// "has(attrs.x) && attrs.x > 2.0".
func (e *CELEngine) NodeFilter(expr string) (graph.NodePredicate, error) {
	prg, err := compile(e.nodeEnv, expr)
	if err != nil {
		return nil, err
	}
	return func(n graph.Node) bool {
		return e.eval(prg, expr, map[string]any{
			"id":    int64(n.ID),
			"kind":  n.Type.Any(),
			"attrs": attrVars(n.Attrs),
		})
	}, nil
}

// EdgeFilter compiles expr into an edge predicate, e.g. "rel == 'a'".
func (e *CELEngine) EdgeFilter(expr string) (graph.EdgePredicate, error) {
	prg, err := compile(e.edgeEnv, expr)
	if err != nil {
		return nil, err
	}
	return func(ed graph.Edge) bool {
		return e.eval(prg, expr, map[string]any{
			"id":    int64(ed.ID),
			"from":  int64(ed.From),
			"to":    int64(ed.To),
			"rel":   ed.Rel.Any(),
			"attrs": attrVars(ed.Attrs),
		})
	}, nil
}

// Condition compiles expr into a trigger condition, e.g. "d_n > 0".
func (e *CELEngine) Condition(expr string) (func(graph.LogEntry) bool, error) {
	prg, err := compile(e.entryEnv, expr)
	if err != nil {
		return nil, err
	}
	return func(entry graph.LogEntry) bool {
		return e.eval(prg, expr, map[string]any{
			"version_id":    int64(entry.Seq),
			"function_used": entry.Op,
			"nodes":         int64(entry.Nodes),
			"edges":         int64(entry.Edges),
			"d_n":           int64(entry.DN),
			"d_e":           int64(entry.DE),
		})
	}, nil
}

func compile(env *cel.Env, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("expression %q compilation error: %w", expr, issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression %q must evaluate to bool, got %s", expr, t)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("expression %q program creation error: %w", expr, err)
	}
	return prg, nil
}

// eval treats evaluation errors (such as a missing attribute key) and
// non-bool results as no match.
func (e *CELEngine) eval(prg cel.Program, expr string, vars map[string]any) bool {
	out, _, err := prg.Eval(vars)
	if err != nil {
		e.logger.Debug("Expression evaluation failed", "expr", expr, "error", err)
		return false
	}
	match, ok := out.Value().(bool)
	if !ok {
		e.logger.Error("Expression did not return bool", "expr", expr, "type", out.Type().TypeName())
		return false
	}
	return match
}

// attrVars exposes set attributes only, so has(attrs.name) is false for
// missing values.
func attrVars(a graph.Attrs) map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		if !v.IsMissing() {
			out[k] = v.Any()
		}
	}
	return out
}
