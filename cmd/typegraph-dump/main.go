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

// Command typegraph-dump parses a tiny demo graph out of its own
// mini-language, exercises the main query operations of the typegraph
// package against it (IsVisible, FilteredData, HasCombination, Stats,
// DumpYAML), and prints a colorized summary. It exists to
// sanity-check the public surface end to end, not as a product.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/gopytype/typegraph"
	"github.com/gopytype/typegraph/internal/diag"
)

const demoSource = `
node n0;
node n1;
node n2;
n0->n1;
n1->n2;
bind x=one@n0;
bind x=two@n1;
`

func main() {
	src, err := parseProgram(demoSource)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := src.p
	p.SetTrace(diag.NewTrace(os.Stdout))
	p.SetEntrypoint(src.nodes["n0"])

	// The mini-language has no syntax for Origin sources, so the second
	// bind above recorded x=two@n1 with no causal link back to x=one@n0.
	// Add that link directly: repeating AddBinding on the same
	// (Variable, DataType) appends a second Origin to the existing
	// Binding rather than creating a new one.
	x := src.vars["x"]
	bOne := src.binds["x"][0]
	bTwo := typegraph.AddBinding(x, "two", src.nodes["n1"], []*typegraph.Binding{bOne})

	n2 := src.nodes["n2"]

	color.New(color.FgCyan, color.Bold).Println("== typegraph-dump ==")

	fmt.Printf("x visible at n2 (strict):   %v\n", bTwo.IsVisible(n2))
	fmt.Printf("x @ n2 filtered data:       %v\n", dataHandles(x.FilteredData(n2)))
	fmt.Printf("n2.HasCombination([1,2]):   %v\n", n2.HasCombination([]*typegraph.Binding{bOne, bTwo}))

	solver := p.GetSolver()
	fmt.Printf("solver stats:               %+v\n", solver.Stats())

	if err := p.DumpYAML(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "dump failed:", err)
		os.Exit(1)
	}
}

func dataHandles(dts []typegraph.DataType) []typegraph.DataHandle {
	out := make([]typegraph.DataHandle, len(dts))
	for i, dt := range dts {
		out[i] = dt.Handle()
	}
	return out
}
