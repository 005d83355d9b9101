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

// Variable owns an ordered, monotonically growing set of Bindings
// (spec.md §3). Its identity is immutable; only its Binding set grows.
type Variable struct {
	id int

	program *Program

	bindings []*Binding
	byData   map[*DataType]*Binding
}

// Bindings returns all of the Variable's bindings, in insertion order.
func (v *Variable) Bindings() []*Binding {
	return v.bindings
}

// Data returns the set of DataHandles across all of the Variable's
// bindings, regardless of reachability from any node.
func (v *Variable) Data() []DataType {
	out := make([]DataType, 0, len(v.bindings))
	for _, b := range v.bindings {
		out = append(out, *b.data)
	}
	return out
}

// FilteredData returns the DataHandles of bindings visible at node
// (spec.md §4.2). The optional strict argument defaults to true; pass
// false for the relaxed "could this ever apply" mode (spec.md §4.4).
func (v *Variable) FilteredData(node *CFGNode, strict ...bool) []DataType {
	s := true
	if len(strict) > 0 {
		s = strict[0]
	}
	solver := v.program.GetSolver()
	out := make([]DataType, 0, len(v.bindings))
	for _, b := range v.bindings {
		if solver.isVisible(b, node, s) {
			out = append(out, *b.data)
		}
	}
	return out
}

// getOrCreateBinding returns the existing Binding for dt if one
// exists, otherwise creates and registers a new, origin-less Binding
// at node (the caller attaches the first Origin).
func (v *Variable) getOrCreateBinding(dt *DataType, node *CFGNode) *Binding {
	if v.byData == nil {
		v.byData = make(map[*DataType]*Binding)
	}
	if b, ok := v.byData[dt]; ok {
		return b
	}
	b := &Binding{
		id:       v.program.nextBindingID(),
		variable: v,
		data:     dt,
		program:  v.program,
	}
	v.byData[dt] = b
	v.bindings = append(v.bindings, b)
	return b
}
