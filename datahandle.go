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

// Package typegraph implements the control-flow-sensitive data-flow
// graph at the core of a static type inference engine: for every
// program variable it records the abstract values the variable may
// hold at every program point, together with the causal dependencies
// (Origins) of each value, and a Solver that answers whether a set of
// candidate bindings can simultaneously hold on some execution path.
//
// The graph is built and queried by an external AST front end and a
// higher-level type inferer; this package treats program values as
// opaque DataHandles and never inspects them.
package typegraph

// DataHandle is an opaque identity token for an abstract value held by
// some Variable. The core never inspects its contents; two handles are
// the same value iff they are the same Go value under == (for the
// pointer/interface-identity types clients are expected to pass).
type DataHandle = any

// DataType is the canonical, de-duplicated token the core stores on a
// Binding. Two DataHandles that are identical under == always map to
// the same DataType.
type DataType struct {
	handle DataHandle
}

// registry de-duplicates DataHandles by identity so that repeated
// AddBinding calls for the same handle collapse onto one DataType,
// which is what lets Variable's "at most one Binding per DataHandle"
// invariant (spec.md §3) be a plain map lookup.
type registry struct {
	byHandle map[DataHandle]*DataType
}

func newRegistry() *registry {
	return &registry{byHandle: make(map[DataHandle]*DataType)}
}

// asDataType returns the canonical DataType for handle, creating it on
// first sight. This is the registry's only public behavior; it backs
// the external AsDataType contract (spec.md §6).
func (r *registry) asDataType(handle DataHandle) *DataType {
	if dt, ok := r.byHandle[handle]; ok {
		return dt
	}
	dt := &DataType{handle: handle}
	r.byHandle[handle] = dt
	return dt
}

// Handle returns the original opaque handle this DataType was minted
// for, for callers that need to hand it back to the front end.
func (dt *DataType) Handle() DataHandle {
	return dt.handle
}
