package graph

import (
	"fmt"
	"maps"
)

// NodeID identifies a node. IDs start at 1 and are never reused.
type NodeID int64

// EdgeID identifies an edge. Edge IDs are numbered independently of nodes.
type EdgeID int64

// Node is a row of the node table.
type Node struct {
	ID    NodeID `json:"id"`
	Type  Value  `json:"type"`
	Attrs Attrs  `json:"attrs,omitempty"`
}

// Edge is a row of the edge table.
type Edge struct {
	ID    EdgeID `json:"id"`
	From  NodeID `json:"from"`
	To    NodeID `json:"to"`
	Rel   Value  `json:"rel"`
	Attrs Attrs  `json:"attrs,omitempty"`
}

// NodeSpec describes a node to create.
type NodeSpec struct {
	Type  Value
	Attrs Attrs
}

// EdgeSpec describes an edge to create.
type EdgeSpec struct {
	From  NodeID
	To    NodeID
	Rel   Value
	Attrs Attrs
}

const (
	attrX = "x"
	attrY = "y"
)

var (
	reservedNodeAttrs = map[string]bool{"id": true, "type": true}
	reservedEdgeAttrs = map[string]bool{"id": true, "from": true, "to": true, "rel": true}
)

func (n Node) key() NodeID    { return n.ID }
func (n Node) attrMap() Attrs { return n.Attrs }
func (e Edge) key() EdgeID    { return e.ID }
func (e Edge) attrMap() Attrs { return e.Attrs }

// Attr returns a node attribute, resolving "id" and "type".
func (n Node) Attr(name string) Value {
	switch name {
	case "id":
		return Number(float64(n.ID))
	case "type":
		return n.Type
	}
	return n.Attrs[name]
}

// Attr returns an edge attribute, resolving "id", "from", "to" and "rel".
func (e Edge) Attr(name string) Value {
	switch name {
	case "id":
		return Number(float64(e.ID))
	case "from":
		return Number(float64(e.From))
	case "to":
		return Number(float64(e.To))
	case "rel":
		return e.Rel
	}
	return e.Attrs[name]
}

func (n Node) clone() Node {
	n.Attrs = cloneAttrs(n.Attrs)
	return n
}

func (e Edge) clone() Edge {
	e.Attrs = cloneAttrs(e.Attrs)
	return e
}

func cloneAttrs(a Attrs) Attrs {
	if a == nil {
		return nil
	}
	return maps.Clone(a)
}

// withAttr returns a copy of a with name set, never writing into a itself.
func withAttr(a Attrs, name string, v Value) Attrs {
	out := make(Attrs, len(a)+1)
	maps.Copy(out, a)
	out[name] = v
	return out
}

func checkAttrs(a Attrs, reserved map[string]bool) error {
	for name := range a {
		if reserved[name] {
			return fmt.Errorf("%w: %q", ErrReservedAttribute, name)
		}
		if name == "" {
			return fmt.Errorf("%w: empty attribute name", ErrReservedAttribute)
		}
	}
	return nil
}

func checkType(v Value, what string) error {
	if k := v.Kind(); k != KindMissing && k != KindString {
		return fmt.Errorf("%s must be a string or missing, got %s", what, k)
	}
	return nil
}
