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

package typegraph

// Program owns the data handle registry, all CFG nodes, and all
// Variables (spec.md §3). It is the single container a host
// instantiates per independent analysis; nothing here is global.
type Program struct {
	registry *registry

	nodes     []*CFGNode
	variables []*Variable

	entrypoint *CFGNode

	nextBindingSeq int

	solver *Solver
}

// NewProgram creates an empty Program with its own data handle
// registry, ready to accept nodes and variables.
func NewProgram() *Program {
	return &Program{registry: newRegistry()}
}

// NewCFGNode creates a new CFGNode owned by this Program, optionally
// attaching an edge condition binding to its incoming side (spec.md
// §4.1). Traversing backward into the node along any incoming edge
// then requires the condition to be visible at that edge's tail.
func (p *Program) NewCFGNode(name string, condition ...*Binding) *CFGNode {
	n := p.newNodeWithoutEdge(name)
	if len(condition) > 0 && condition[0] != nil {
		n.condition = condition[0]
	}
	return n
}

func (p *Program) newNodeWithoutEdge(name string) *CFGNode {
	n := &CFGNode{
		id:      len(p.nodes),
		name:    name,
		program: p,
	}
	p.nodes = append(p.nodes, n)
	return n
}

// NewVariable creates a new, empty Variable owned by this Program.
func (p *Program) NewVariable() *Variable {
	v := &Variable{
		id:      len(p.variables),
		program: p,
	}
	p.variables = append(p.variables, v)
	return v
}

// SetEntrypoint records node as the designated root used to constrain
// visibility (spec.md §4.1, §4.4 clause 3). Passing nil clears it.
func (p *Program) SetEntrypoint(node *CFGNode) {
	p.entrypoint = node
}

// Entrypoint returns the currently designated entrypoint, or nil if
// none is set.
func (p *Program) Entrypoint() *CFGNode {
	return p.entrypoint
}

// GetSolver returns the Program's Solver, creating it on first use. The
// Solver holds its own memo caches for the lifetime of the Program;
// mutating the CFG or binding set invalidates those caches (spec.md §5),
// so a host that restructures the graph should build a fresh Program
// rather than reuse an old Solver across incompatible snapshots.
func (p *Program) GetSolver() *Solver {
	if p.solver == nil {
		p.solver = newSolver(p)
	}
	return p.solver
}

// AsDataType returns the canonical DataType for an opaque handle,
// de-duplicated by identity (spec.md §6's data handle contract).
func (p *Program) AsDataType(handle DataHandle) *DataType {
	return p.registry.asDataType(handle)
}

func (p *Program) nextBindingID() int {
	id := p.nextBindingSeq
	p.nextBindingSeq++
	return id
}

// Nodes returns every CFGNode owned by this Program, in creation order.
func (p *Program) Nodes() []*CFGNode {
	return p.nodes
}

// Variables returns every Variable owned by this Program, in creation
// order.
func (p *Program) Variables() []*Variable {
	return p.variables
}
