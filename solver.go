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
	"sort"
	"strconv"
	"strings"

	"github.com/gopytype/typegraph/internal/diag"
)

// queryState is the tri-state result of a memoized query: still being
// computed (a cycle was re-entered and is tentatively granted), or
// settled one way or the other.
type queryState int

const (
	statePending queryState = iota
	stateTrue
	stateFalse
)

// searchKey memoizes one state of the combination search: a set of
// goal bindings, the fixed query node, and the set of ancestor points
// the walk has already committed to passing through. Both id sets are
// sorted, comma-joined strings, which is what makes the memo
// order-independent (TestUnordered's contract). The same key recurs
// both across repeated top-level queries and within a single cyclic
// search (TestMemoization), so one table serves both.
type searchKey struct {
	ids    string
	node   int
	pinned string
	strict bool
}

// Solver is a Program's query engine: it answers whether a single
// Binding is visible at a CFGNode, and whether a set of Bindings can
// simultaneously hold on some single execution path reaching a node.
// It owns the combination-search memo table for the lifetime of the
// Program; it is a plain map because a Pending entry evicted
// mid-recursion would silently break cycle detection.
type Solver struct {
	program *Program
	paths   *PathFinder

	memo map[searchKey]queryState

	calls     int
	cacheHits int

	trace *diag.Trace
}

func newSolver(p *Program) *Solver {
	return &Solver{
		program: p,
		paths:   newPathFinder(p),
		memo:    make(map[searchKey]queryState),
	}
}

// SetTrace attaches a diagnostic trace that records Pending/Solved
// transitions and PathFinder lookups. Passing nil disables tracing.
// Tracing has no effect on query results.
func (s *Solver) SetTrace(t *diag.Trace) {
	s.trace = t
	s.paths.trace = t
}

// Stats reports cheap call-volume counters, useful for a host deciding
// whether a query pattern is pathological; it carries no correctness
// weight.
type Stats struct {
	Calls     int
	CacheHits int
}

// Stats returns a snapshot of the Solver's call/cache counters.
func (s *Solver) Stats() Stats {
	return Stats{Calls: s.calls, CacheHits: s.cacheHits}
}

// isVisible reports whether b is visible at node under the given
// strictness (spec §4.4): some Origin (w, S) of b has a backward path
// q <- ... <- w along which every encountered edge condition is itself
// visible at its tail, every Binding in S is visible at w, and, when
// strict and an entrypoint is set, w is forward-reachable from it.
// Visibility of a single Binding is exactly solvability of the
// singleton combination {b}, so this is a thin memoized wrapper around
// the same search Solve uses.
func (s *Solver) isVisible(b *Binding, node *CFGNode, strict bool) bool {
	return s.solveFrom([]*Binding{b}, node, nil, strict, make(map[*Variable]*DataType))
}

// Solve answers whether every binding in bindings can simultaneously
// hold on some single execution path reaching node (spec §4.5); it is
// also reachable as CFGNode.HasCombination. Visibility (clause 3's
// entrypoint constraint) is applied with strict=true, matching
// Binding.IsVisible's default.
func (s *Solver) Solve(bindings []*Binding, node *CFGNode) bool {
	return s.solveFrom(bindings, node, nil, true, make(map[*Variable]*DataType))
}

// solveFrom is the shared combination search behind both isVisible and
// Solve, and behind its own recursive calls. node is the fixed query
// point for the whole search (every origin's reachability is checked
// against it directly, since reachability composes transitively
// through any number of backward hops); pinned is the set of ancestor
// points the walk has already committed to passing through, used to
// reject an origin that lives on a branch incomparable with one
// already chosen (TestDiamond) while still accepting one that simply
// extends the same chain further back, in either direction
// (TestOriginMulti); committed records the (Variable -> DataType)
// choices already locked in, so that the same Variable is never
// required to hold two different values on one walk (TestConflict).
// Every call, top-level or recursive, is served from a single
// (goal-set, node, pinned-set, strict) memo table: a Pending hit means
// the same state was already being explored higher up the call stack
// (inevitable in a cyclic Origin graph, TestMemoization) and is
// tentatively granted, which is what guarantees termination; a Solved
// hit serves a repeated query outright.
func (s *Solver) solveFrom(open []*Binding, node *CFGNode, pinned []*CFGNode, strict bool, committed map[*Variable]*DataType) bool {
	if len(open) == 0 {
		return true
	}
	open = dedupeBindings(open)

	key := searchKey{bindingSetKey(open), node.id, nodeSetKey(pinned), strict}
	s.calls++
	if st, ok := s.memo[key]; ok {
		s.cacheHits++
		pending := st == statePending
		s.trace.Solve(key.ids, node.name, pending, st != stateFalse)
		return st != stateFalse
	}
	s.memo[key] = statePending
	result := s.solveUncached(open, node, pinned, strict, committed)
	if result {
		s.memo[key] = stateTrue
	} else {
		s.memo[key] = stateFalse
	}
	s.trace.Solve(key.ids, node.name, false, result)
	return result
}

func (s *Solver) solveUncached(open []*Binding, node *CFGNode, pinned []*CFGNode, strict bool, committed map[*Variable]*DataType) bool {
	g, rest := open[0], open[1:]

	if dt, ok := committed[g.variable]; ok {
		if dt != g.data {
			return false
		}
		return s.solveFrom(rest, node, pinned, strict, committed)
	}

	next := make(map[*Variable]*DataType, len(committed)+1)
	for v, dt := range committed {
		next[v] = dt
	}
	next[g.variable] = g.data

	for _, origin := range g.origins {
		w := origin.Where
		if !s.reachesOrigin(node, w, strict) {
			continue
		}
		newPinned, ok := combinePinned(s.paths, pinned, w)
		if !ok {
			continue
		}
		combined := mergeBindings(rest, origin.Sources)
		if s.solveFrom(combined, node, newPinned, strict, next) {
			return true
		}
	}
	return false
}

// reachesOrigin reports whether w can be reached by a condition-gated
// backward walk from node, and, under strict mode with an entrypoint
// set, whether w is itself forward-reachable from that entrypoint.
func (s *Solver) reachesOrigin(node, w *CFGNode, strict bool) bool {
	if w != node {
		if ok, _ := s.paths.FindNodeBackwards(node, w, nil); !ok {
			return false
		}
	}
	if strict {
		if ep := s.program.entrypoint; ep != nil && w != ep {
			if !s.paths.FindAnyPathToNode(ep, w, nil) {
				return false
			}
		}
	}
	return true
}

// combinePinned reports whether a new origin w can join the set of
// points the walk has already committed to: w must be order-comparable
// (one forward-reaches the other, in either direction) with every
// point already in pinned. Checking against the whole accumulated set,
// not just the most recently added point, is what catches a sibling
// branch that is individually compatible with one committed point but
// not another (TestDiamond: a point reachable from the query node
// doesn't make it reachable from every other already-committed point).
func combinePinned(pf *PathFinder, pinned []*CFGNode, w *CFGNode) ([]*CFGNode, bool) {
	for _, p := range pinned {
		if p == w {
			continue
		}
		if !pf.FindAnyPathToNode(w, p, nil) && !pf.FindAnyPathToNode(p, w, nil) {
			return nil, false
		}
	}
	return addPinned(pinned, w), true
}

// addPinned returns pinned with w inserted, sorted by id with
// duplicates removed, leaving the input slice untouched (each
// recursive branch of the search owns its own pinned set).
func addPinned(pinned []*CFGNode, w *CFGNode) []*CFGNode {
	for _, p := range pinned {
		if p == w {
			return pinned
		}
	}
	out := make([]*CFGNode, 0, len(pinned)+1)
	out = append(out, pinned...)
	out = append(out, w)
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// nodeSetKey renders a pinned node set as a comma-joined id string for
// use as a map key.
func nodeSetKey(nodes []*CFGNode) string {
	if len(nodes) == 0 {
		return ""
	}
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = strconv.Itoa(n.id)
	}
	return strings.Join(parts, ",")
}

// dedupeBindings returns goals sorted by id with exact duplicates
// removed, giving a canonical, order-independent representative for a
// binding set (TestUnordered).
func dedupeBindings(bindings []*Binding) []*Binding {
	cp := append([]*Binding(nil), bindings...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].id < cp[j].id })
	out := cp[:0]
	lastID := -1
	for _, b := range cp {
		if b.id == lastID {
			continue
		}
		lastID = b.id
		out = append(out, b)
	}
	return out
}

// mergeBindings unions two binding slices into a canonical, deduped,
// id-sorted set (TestSameBinding: repeated AddBinding calls, and
// sources that re-mention a binding already pending elsewhere, must
// not inflate the goal set or loop forever).
func mergeBindings(a, b []*Binding) []*Binding {
	combined := make([]*Binding, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	return dedupeBindings(combined)
}

// bindingSetKey renders an already-deduped, id-sorted binding set as a
// comma-joined id string for use as a map key.
func bindingSetKey(goals []*Binding) string {
	if len(goals) == 0 {
		return ""
	}
	parts := make([]string, len(goals))
	for i, g := range goals {
		parts[i] = strconv.Itoa(g.id)
	}
	return strings.Join(parts, ",")
}
