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
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/gopytype/typegraph/internal/diag"
)

// SetTrace attaches a diagnostic trace to the Program's Solver and
// PathFinder, recording Pending/Solved transitions and reachability
// queries. Pass nil to disable. Purely observational: it never
// changes a query's result.
func (p *Program) SetTrace(t *diag.Trace) {
	p.GetSolver().SetTrace(t)
}

// nodeDump and variableDump are the plain-data shapes DumpYAML
// marshals; they exist so the snapshot is stable output rather than a
// direct dump of internal pointer-heavy structs.
type nodeDump struct {
	ID        int    `yaml:"id"`
	Name      string `yaml:"name"`
	Outgoing  []int  `yaml:"outgoing"`
	Condition *int   `yaml:"condition,omitempty"`
}

type originDump struct {
	Where   int   `yaml:"where"`
	Sources []int `yaml:"sources"`
}

type bindingDump struct {
	ID      int          `yaml:"id"`
	Origins []originDump `yaml:"origins"`
}

type variableDump struct {
	ID       int           `yaml:"id"`
	Bindings []bindingDump `yaml:"bindings"`
}

type programDump struct {
	Entrypoint *int            `yaml:"entrypoint,omitempty"`
	Nodes      []nodeDump      `yaml:"nodes"`
	Variables  []variableDump  `yaml:"variables"`
}

// DumpYAML writes a structural snapshot of the Program's nodes,
// variables, bindings, and origins to w. This is a debugging aid for
// test fixtures and bug reports, not a serialization format: there is
// no corresponding loader.
func (p *Program) DumpYAML(w io.Writer) error {
	dump := programDump{
		Nodes:     make([]nodeDump, len(p.nodes)),
		Variables: make([]variableDump, len(p.variables)),
	}
	if p.entrypoint != nil {
		id := p.entrypoint.id
		dump.Entrypoint = &id
	}
	for i, n := range p.nodes {
		nd := nodeDump{ID: n.id, Name: n.name, Outgoing: make([]int, len(n.outgoing))}
		for j, o := range n.outgoing {
			nd.Outgoing[j] = o.id
		}
		if n.condition != nil {
			id := n.condition.id
			nd.Condition = &id
		}
		dump.Nodes[i] = nd
	}
	for i, v := range p.variables {
		vd := variableDump{ID: v.id, Bindings: make([]bindingDump, len(v.bindings))}
		for j, b := range v.bindings {
			origins := make([]originDump, len(b.origins))
			for k, o := range b.origins {
				sources := make([]int, len(o.Sources))
				for l, src := range o.Sources {
					sources[l] = src.id
				}
				origins[k] = originDump{Where: o.Where.id, Sources: sources}
			}
			vd.Bindings[j] = bindingDump{ID: b.id, Origins: origins}
		}
		dump.Variables[i] = vd
	}
	out, err := yaml.Marshal(dump)
	if err != nil {
		return fmt.Errorf("typegraph: marshal dump: %w", err)
	}
	_, err = w.Write(out)
	return err
}
