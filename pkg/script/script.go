// Package script runs YAML operation scripts against a graph.
//
// A script declares triggers and a list of steps:
//
//	triggers:
//	  - name: mark-new
//	    when: "d_n > 0"
//	    do:
//	      - op: select_last_nodes_created
//	      - op: set_node_attrs_ws
//	        attr: fresh
//	        value: true
//	steps:
//	  - op: add_n_nodes
//	    nodes:
//	      - {type: a, attrs: {x: 1, y: 1}}
//	      - {type: b}
//	  - op: select_nodes
//	    where: "kind == 'a'"
//	  - op: nudge_node_positions_ws
//	    dx: 2
//
// Mutating steps are named after the action-log entries they produce.
// Selection and traversal steps follow the same naming (select_nodes,
// trav_out_edge) even though they are not logged.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a decoded operation script.
type Script struct {
	Triggers []TriggerDecl `yaml:"triggers"`
	Steps    []Step        `yaml:"steps"`
}

// TriggerDecl registers a deferred action. When is a CEL condition over the
// log entry; empty means every mutation.
type TriggerDecl struct {
	Name string `yaml:"name"`
	When string `yaml:"when"`
	Do   []Step `yaml:"do"`
}

// NodeDecl describes one node to add.
type NodeDecl struct {
	Type  any            `yaml:"type"`
	Attrs map[string]any `yaml:"attrs"`
}

// Step is one operation. Only the fields the operation uses are read.
type Step struct {
	Op string `yaml:"op"`

	// Selection and traversal.
	Where string  `yaml:"where"`
	SetOp string  `yaml:"set_op"`
	IDs   []int64 `yaml:"ids"`

	// Record tables.
	Nodes []NodeDecl     `yaml:"nodes"`
	Type  any            `yaml:"type"`
	Attrs map[string]any `yaml:"attrs"`
	ID    int64          `yaml:"id"`
	From  int64          `yaml:"from"`
	To    int64          `yaml:"to"`
	Rel   any            `yaml:"rel"`

	// Bulk mutations.
	DX    float64 `yaml:"dx"`
	DY    float64 `yaml:"dy"`
	Attr  string  `yaml:"attr"`
	Value any     `yaml:"value"`

	// Collaborators.
	Metric string         `yaml:"metric"`
	Params map[string]any `yaml:"params"`

	// Optional steps tolerate an empty or absent selection.
	Optional bool `yaml:"optional"`
}

// Decode parses a script. Unknown fields are rejected so typos surface.
func Decode(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse decodes a script held in memory.
func Parse(data []byte) (*Script, error) {
	return Decode(bytes.NewReader(data))
}

// Load reads and decodes a script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Validate checks operation names and trigger declarations without running
// anything.
func (s *Script) Validate() error {
	seen := make(map[string]bool)
	for i, t := range s.Triggers {
		if t.Name == "" {
			return fmt.Errorf("trigger %d: name is required", i+1)
		}
		if seen[t.Name] {
			return fmt.Errorf("trigger %q declared twice", t.Name)
		}
		seen[t.Name] = true
		if len(t.Do) == 0 {
			return fmt.Errorf("trigger %q: no steps", t.Name)
		}
		for j, st := range t.Do {
			if _, ok := handlers[st.Op]; !ok {
				return fmt.Errorf("trigger %q step %d: unknown op %q", t.Name, j+1, st.Op)
			}
		}
	}
	for i, st := range s.Steps {
		if _, ok := handlers[st.Op]; !ok {
			return fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
	}
	return nil
}
