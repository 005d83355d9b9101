/*
Copyright 2017 Google Inc. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"strings"

	"github.com/gopytype/typegraph"
)

// programSource is a tiny textual mini-language for building a demo
// Program without hand-writing Go calls: one statement per
// semicolon-separated clause, in one of three forms:
//
//	node a           declare a CFG node named a
//	a->b             connect an edge from already-declared a to b
//	bind x=v@a       bind variable x to value v at already-declared node a
//
// Variable names are created on first reference; a node must be
// declared with a node statement before an edge or bind names it. Bind
// statements accumulate, so repeating the same `x=v@a` binding a
// second time adds another Origin to the same Binding rather than
// creating a new one.
type programSource struct {
	p     *typegraph.Program
	nodes map[string]*typegraph.CFGNode
	vars  map[string]*typegraph.Variable
	binds map[string][]*typegraph.Binding
}

func newProgramSource() *programSource {
	return &programSource{
		p:     typegraph.NewProgram(),
		nodes: make(map[string]*typegraph.CFGNode),
		vars:  make(map[string]*typegraph.Variable),
		binds: make(map[string][]*typegraph.Binding),
	}
}

func (s *programSource) node(name string) *typegraph.CFGNode {
	if n, ok := s.nodes[name]; ok {
		return n
	}
	n := s.p.NewCFGNode(name)
	s.nodes[name] = n
	return n
}

func (s *programSource) variable(name string) *typegraph.Variable {
	if v, ok := s.vars[name]; ok {
		return v
	}
	v := s.p.NewVariable()
	s.vars[name] = v
	return v
}

// parseProgram parses src and returns the programSource it built, with
// a populated Program plus name->node/variable/binding lookups so a
// caller can drive further operations (IsVisible, HasCombination, ...)
// against the parsed graph by name.
func parseProgram(src string) (*programSource, error) {
	s := newProgramSource()
	for _, raw := range strings.Split(src, ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		switch {
		case strings.HasPrefix(stmt, "node "):
			name := strings.TrimSpace(strings.TrimPrefix(stmt, "node "))
			if name == "" {
				return nil, fmt.Errorf("typegraph-dump: empty node name in %q", stmt)
			}
			s.node(name)

		case strings.HasPrefix(stmt, "bind "):
			if err := s.parseBind(stmt); err != nil {
				return nil, err
			}

		case strings.Contains(stmt, "->"):
			if err := s.parseEdge(stmt); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("typegraph-dump: unrecognized statement %q", stmt)
		}
	}
	return s, nil
}

func (s *programSource) parseBind(stmt string) error {
	rest := strings.TrimSpace(strings.TrimPrefix(stmt, "bind "))
	eq := strings.IndexByte(rest, '=')
	at := strings.IndexByte(rest, '@')
	if eq < 0 || at < 0 || at < eq {
		return fmt.Errorf("typegraph-dump: malformed bind statement %q, want x=v@node", stmt)
	}
	varName := strings.TrimSpace(rest[:eq])
	value := strings.TrimSpace(rest[eq+1 : at])
	nodeName := strings.TrimSpace(rest[at+1:])
	if varName == "" || value == "" || nodeName == "" {
		return fmt.Errorf("typegraph-dump: malformed bind statement %q, want x=v@node", stmt)
	}
	node, ok := s.nodes[nodeName]
	if !ok {
		return fmt.Errorf("typegraph-dump: bind references undeclared node %q", nodeName)
	}
	v := s.variable(varName)
	b := typegraph.AddBinding(v, value, node, nil)
	s.binds[varName] = append(s.binds[varName], b)
	return nil
}

func (s *programSource) parseEdge(stmt string) error {
	parts := strings.SplitN(stmt, "->", 2)
	from := strings.TrimSpace(parts[0])
	to := strings.TrimSpace(parts[1])
	fromNode, ok := s.nodes[from]
	if !ok {
		return fmt.Errorf("typegraph-dump: edge references undeclared node %q", from)
	}
	toNode, ok := s.nodes[to]
	if !ok {
		return fmt.Errorf("typegraph-dump: edge references undeclared node %q", to)
	}
	fromNode.ConnectTo(toNode)
	return nil
}
