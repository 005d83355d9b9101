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

// CFGNode is a node in the control-flow graph (spec.md §3/§4.1). Ids
// are assigned in monotonically increasing order of NewCFGNode calls
// (program-wide, including ConnectNew) so that tie-breaking in
// PathFinder ("lowest-id successor first") is well defined.
type CFGNode struct {
	id   int
	name string

	program *Program

	// outgoing/incoming are kept in insertion order; PathFinder sorts a
	// copy by node id before iterating, so its deterministic
	// tie-breaking follows id order, not the order edges were added.
	outgoing []*CFGNode
	incoming []*CFGNode

	// condition is the edge condition attached to n's incoming side, if
	// any (spec.md §4.1): traversing backward into n from any
	// predecessor requires this binding to be visible at that
	// predecessor. It is a property of the node, not of a specific
	// incoming edge.
	condition *Binding
}

// ID returns the node's stable, monotonically assigned identifier.
func (n *CFGNode) ID() int { return n.id }

// Name returns the node's human-readable name.
func (n *CFGNode) Name() string { return n.name }

// ConnectTo adds a directed edge from n to other. Edges are simple: a
// second ConnectTo between the same ordered pair is a no-op. Self-loops
// are permitted.
func (n *CFGNode) ConnectTo(other *CFGNode) {
	for _, existing := range n.outgoing {
		if existing == other {
			return
		}
	}
	n.outgoing = append(n.outgoing, other)
	other.incoming = append(other.incoming, n)
}

// ConnectNew creates a new CFGNode owned by the same Program and
// connects n to it, optionally attaching an edge condition binding to
// the new node's incoming side. Returns the new node.
func (n *CFGNode) ConnectNew(name string, condition ...*Binding) *CFGNode {
	other := n.program.newNodeWithoutEdge(name)
	if len(condition) > 0 && condition[0] != nil {
		other.condition = condition[0]
	}
	n.ConnectTo(other)
	return other
}

// Condition returns the edge condition binding attached to n's
// incoming side, or nil if none was set.
func (n *CFGNode) Condition() *Binding {
	return n.condition
}

// HasCombination answers whether there is a single execution path on
// which every binding in bindings simultaneously holds at n. It is a
// thin forward to the Program's Solver (spec.md §4.5, §6).
func (n *CFGNode) HasCombination(bindings []*Binding) bool {
	return n.program.GetSolver().Solve(bindings, n)
}
