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

import (
	"bytes"
	"fmt"

	"github.com/gopytype/typegraph/internal/diag"
)

// Origin is a (CFG node, source-set) pair justifying a Binding at a
// node (spec.md §3). An Origin with an empty Sources is an axiom at
// Where.
type Origin struct {
	Where   *CFGNode
	Sources []*Binding
}

// Binding links a Variable to a DataType and accumulates the Origins
// that justify it. Origins are appended in insertion order and never
// removed (spec.md §3).
type Binding struct {
	// id is assigned program-wide in creation order; it is what the
	// Solver sorts on to build a deterministic memoization key for a
	// set of bindings (spec.md §4.5).
	id int

	variable *Variable
	data     *DataType
	origins  []Origin

	program *Program
}

// Variable returns the Binding's owning Variable.
func (b *Binding) Variable() *Variable { return b.variable }

// Data returns the DataType this Binding assigns to its Variable.
func (b *Binding) Data() *DataType { return b.data }

// Origins returns the Binding's justifications, in insertion order.
func (b *Binding) Origins() []Origin { return b.origins }

// IsVisible reports whether this Binding is visible at node (spec.md
// §4.4), using strict entrypoint-constrained visibility.
func (b *Binding) IsVisible(node *CFGNode) bool {
	return b.program.GetSolver().isVisible(b, node, true)
}

// IsVisibleStrict reports visibility at node with the given strictness;
// strict=false relaxes the entrypoint-reachability clause only
// (spec.md §4.4's "strict mode").
func (b *Binding) IsVisibleStrict(node *CFGNode, strict bool) bool {
	return b.program.GetSolver().isVisible(b, node, strict)
}

func (b *Binding) addOrigin(where *CFGNode, sources []*Binding) {
	// Append-only: Origins simply accumulate; an identical (where,
	// sources) pair added twice is recorded twice.
	cp := make([]*Binding, len(sources))
	copy(cp, sources)
	b.origins = append(b.origins, Origin{Where: where, Sources: cp})
}

// AddBinding is the free-standing helper from the external surface
// (spec.md §6): it returns the existing Binding for (variable, data) if
// one exists, else creates it, and in both cases appends one new
// Origin (node, sources) to it.
func AddBinding(variable *Variable, data DataHandle, node *CFGNode, sources []*Binding) *Binding {
	if variable.program != node.program {
		var buf bytes.Buffer
		diag.Dump(&buf, struct {
			Variable *Variable
			Node     *CFGNode
		}{variable, node})
		panic(fmt.Sprintf("typegraph: AddBinding: variable and node belong to different Programs\n%s", buf.String()))
	}
	dt := variable.program.registry.asDataType(data)
	b := variable.getOrCreateBinding(dt, node)
	b.addOrigin(node, sources)
	return b
}
