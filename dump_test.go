package typegraph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

// TestDumpYAML exercises Program.DumpYAML against a small fixed graph
// by round-tripping the snapshot back through yaml.Unmarshal, avoiding
// a brittle dependence on the marshaler's exact formatting.
func TestDumpYAML(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0")
	n1 := n0.ConnectNew("n1")
	p.SetEntrypoint(n0)

	x := p.NewVariable()
	xBinding := AddBinding(x, "1", n0, nil)
	AddBinding(x, "2", n1, []*Binding{xBinding})

	var buf bytes.Buffer
	require.NoError(t, p.DumpYAML(&buf))

	var got programDump
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	require.NotNil(t, got.Entrypoint)
	assert.Equal(t, n0.id, *got.Entrypoint)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, "n0", got.Nodes[0].Name)
	assert.Equal(t, []int{n1.id}, got.Nodes[0].Outgoing)
	require.Len(t, got.Variables, 1)
	require.Len(t, got.Variables[0].Bindings, 2)
	assert.Len(t, got.Variables[0].Bindings[0].Origins, 1)
}

// TestDumpYAMLDiff confirms Diff renders a non-empty report when two
// snapshots of a Program diverge, the failure-output path DumpYAML
// snapshots rely on in a larger test suite.
func TestDumpYAMLDiff(t *testing.T) {
	p := NewProgram()
	p.NewCFGNode("n0")

	var before bytes.Buffer
	require.NoError(t, p.DumpYAML(&before))

	p.NewCFGNode("n1")
	var after bytes.Buffer
	require.NoError(t, p.DumpYAML(&after))

	assert.NotEqual(t, before.String(), after.String())
	assert.NotEmpty(t, Diff(before.String(), after.String()))
}
