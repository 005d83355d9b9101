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

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gopytype/typegraph/internal/diag"
)

// pathFinderCacheSize bounds the reachability/path memo tables. Entries
// are pure functions of a CFG snapshot, so an eviction just costs a
// recompute rather than an incorrect answer.
const pathFinderCacheSize = 4096

// PathFinder answers pure graph-reachability questions over a Program's
// CFG: conditioned reachability, shortest path around a blocklist,
// highest-weighted backward-reachable ancestor, and condition-gated
// backward walks. Every method is a function of the current CFG
// snapshot; mutating the graph between queries on the same PathFinder
// is undefined.
type PathFinder struct {
	program *Program

	anyPath  *lru.Cache[pathQueryKey, bool]
	shortest *lru.Cache[pathQueryKey, []*CFGNode]
	weighted *lru.Cache[weightQueryKey, []*CFGNode]
	backward *lru.Cache[pathQueryKey, backwardResult]

	trace *diag.Trace
}

func newPathFinder(p *Program) *PathFinder {
	anyPath, _ := lru.New[pathQueryKey, bool](pathFinderCacheSize)
	shortest, _ := lru.New[pathQueryKey, []*CFGNode](pathFinderCacheSize)
	weighted, _ := lru.New[weightQueryKey, []*CFGNode](pathFinderCacheSize)
	backward, _ := lru.New[pathQueryKey, backwardResult](pathFinderCacheSize)
	return &PathFinder{
		program:  p,
		anyPath:  anyPath,
		shortest: shortest,
		weighted: weighted,
		backward: backward,
	}
}

type pathQueryKey struct {
	start, finish int
	blocked       string
}

type weightQueryKey struct {
	start   int
	blocked string
}

type backwardResult struct {
	exists bool
	path   []*CFGNode
}

// blockedSignature renders a blocklist as a deterministic cache-key
// fragment, independent of map iteration order.
func blockedSignature(blocked map[*CFGNode]bool) string {
	if len(blocked) == 0 {
		return ""
	}
	ids := make([]int, 0, len(blocked))
	for n, in := range blocked {
		if in {
			ids = append(ids, n.id)
		}
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// sortedOutgoing/sortedIncoming return a node's neighbors ordered by
// lowest id first, the deterministic successor/predecessor order the
// tie-breaking queries below rely on.
func sortedOutgoing(n *CFGNode) []*CFGNode {
	out := append([]*CFGNode(nil), n.outgoing...)
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func sortedIncoming(n *CFGNode) []*CFGNode {
	in := append([]*CFGNode(nil), n.incoming...)
	sort.Slice(in, func(i, j int) bool { return in[i].id < in[j].id })
	return in
}

// FindAnyPathToNode reports whether a directed path start -> ... ->
// finish exists using only non-blocked intermediate nodes. start and
// finish themselves may be blocked; if start == finish the answer is
// true regardless of blocklist membership.
func (pf *PathFinder) FindAnyPathToNode(start, finish *CFGNode, blocked map[*CFGNode]bool) bool {
	if start == finish {
		return true
	}
	key := pathQueryKey{start.id, finish.id, blockedSignature(blocked)}
	if v, ok := pf.anyPath.Get(key); ok {
		return v
	}
	found := false
	visited := map[*CFGNode]bool{start: true}
	queue := []*CFGNode{start}
	for i := 0; i < len(queue) && !found; i++ {
		cur := queue[i]
		for _, next := range sortedOutgoing(cur) {
			if next == finish {
				found = true
				break
			}
			if visited[next] || blocked[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	pf.anyPath.Add(key, found)
	pf.trace.Path("FindAnyPathToNode", start.name, finish.name, found)
	return found
}

// FindShortestPathToNode returns the shortest start -> ... -> finish
// path by edge count, breaking ties by preferring the lowest-id
// successor at each step. Returns nil if no path exists. start ==
// finish always yields [start], regardless of blocklist membership of
// that single node.
func (pf *PathFinder) FindShortestPathToNode(start, finish *CFGNode, blocked map[*CFGNode]bool) []*CFGNode {
	if start == finish {
		return []*CFGNode{start}
	}
	key := pathQueryKey{start.id, finish.id, blockedSignature(blocked)}
	if v, ok := pf.shortest.Get(key); ok {
		return v
	}
	parent := map[*CFGNode]*CFGNode{start: nil}
	queue := []*CFGNode{start}
	var result []*CFGNode
	for i := 0; i < len(queue) && result == nil; i++ {
		cur := queue[i]
		for _, next := range sortedOutgoing(cur) {
			if _, seen := parent[next]; seen {
				continue
			}
			if next != finish && blocked[next] {
				continue
			}
			parent[next] = cur
			if next == finish {
				result = reconstructPath(parent, start, finish)
				break
			}
			queue = append(queue, next)
		}
	}
	pf.shortest.Add(key, result)
	return result
}

func reconstructPath(parent map[*CFGNode]*CFGNode, start, finish *CFGNode) []*CFGNode {
	var rev []*CFGNode
	for n := finish; n != nil; n = parent[n] {
		rev = append(rev, n)
		if n == start {
			break
		}
	}
	out := make([]*CFGNode, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}

// FindHighestReachableWeight returns the highest-weighted node among
// those backward-reachable from start under blocked, breaking ties by
// lowest node id. start itself is never a candidate, even when a cycle
// walks back to it (a self-loop does not make a node its own
// ancestor); a blocked node still counts as a candidate for its own
// weight, it is simply not expanded past. The second return value is
// false if no weighted node is reachable.
//
// The reachable set is a pure function of (start, blocked) and is
// memoized; weights is supplied fresh on every call (callers tend to
// build it per query) so the weight-comparison pass itself always
// runs against the live map.
func (pf *PathFinder) FindHighestReachableWeight(start *CFGNode, blocked map[*CFGNode]bool, weights map[*CFGNode]int) (*CFGNode, bool) {
	key := weightQueryKey{start.id, blockedSignature(blocked)}
	var reachable []*CFGNode
	if v, ok := pf.weighted.Get(key); ok {
		reachable = v
	} else {
		seen := map[*CFGNode]bool{start: true}
		queue := []*CFGNode{start}
		for i := 0; i < len(queue); i++ {
			cur := queue[i]
			if cur != start && blocked[cur] {
				continue
			}
			for _, pred := range sortedIncoming(cur) {
				if seen[pred] {
					continue
				}
				seen[pred] = true
				queue = append(queue, pred)
			}
		}
		reachable = queue[1:]
		pf.weighted.Add(key, reachable)
	}

	var best *CFGNode
	bestWeight := 0
	for _, n := range reachable {
		w, ok := weights[n]
		if !ok {
			continue
		}
		if best == nil || w > bestWeight || (w == bestWeight && n.id < best.id) {
			best = n
			bestWeight = w
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// FindNodeBackwards performs a backward traversal from start toward
// finish, honoring edge conditions: stepping from a node u to a
// predecessor p is allowed only if u's incoming-edge condition (if
// any) is visible at p. The returned path is the sequence of nodes at
// which the backward search made condition-satisfied progress,
// starting at start and ending at finish.
func (pf *PathFinder) FindNodeBackwards(start, finish *CFGNode, blocked map[*CFGNode]bool) (bool, []*CFGNode) {
	if start == finish {
		return true, []*CFGNode{start}
	}
	key := pathQueryKey{start.id, finish.id, blockedSignature(blocked)}
	if v, ok := pf.backward.Get(key); ok {
		return v.exists, v.path
	}

	type frame struct {
		node *CFGNode
		path []*CFGNode
	}
	visited := map[*CFGNode]bool{start: true}
	queue := []frame{{start, []*CFGNode{start}}}
	solver := pf.program.GetSolver()

	var result backwardResult
	for i := 0; i < len(queue) && !result.exists; i++ {
		f := queue[i]
		for _, pred := range sortedIncoming(f.node) {
			if visited[pred] {
				continue
			}
			if pred != finish && blocked[pred] {
				continue
			}
			if cond := f.node.condition; cond != nil {
				if !solver.isVisible(cond, pred, true) {
					continue
				}
			}
			path := append(append([]*CFGNode(nil), f.path...), pred)
			if pred == finish {
				result = backwardResult{true, path}
				break
			}
			visited[pred] = true
			queue = append(queue, frame{pred, path})
		}
	}
	pf.backward.Add(key, result)
	pf.trace.Path("FindNodeBackwards", start.name, finish.name, result.exists)
	return result.exists, result.path
}
