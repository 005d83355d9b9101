package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handles(dts []DataType) []DataHandle {
	out := make([]DataHandle, len(dts))
	for i, dt := range dts {
		out[i] = dt.Handle()
	}
	return out
}

// TestOverwrite is E1: two bindings for the same variable at the same
// node are both visible downstream.
func TestOverwrite(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0")
	n1 := n0.ConnectNew("n1")

	x := p.NewVariable()
	AddBinding(x, "1", n0, nil)
	AddBinding(x, "2", n0, nil)

	assert.ElementsMatch(t, []DataHandle{"1", "2"}, handles(x.FilteredData(n1)))
}

// TestShadow is E2: rebinding at a later node shadows the earlier
// value there, but the earlier node still only sees its own binding.
func TestShadow(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0")
	n1 := n0.ConnectNew("n1")

	x := p.NewVariable()
	AddBinding(x, "1", n0, nil)
	AddBinding(x, "2", n1, nil)

	assert.ElementsMatch(t, []DataHandle{"1"}, handles(x.FilteredData(n0)))
	assert.ElementsMatch(t, []DataHandle{"2"}, handles(x.FilteredData(n1)))
}

// TestOriginUnreachable is E3: a binding whose sole Origin depends on
// a binding from a sibling, unreachable branch is invisible.
func TestOriginUnreachable(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0")
	n1 := n0.ConnectNew("n1")
	n2 := n0.ConnectNew("n2")

	x := p.NewVariable()
	xBinding := AddBinding(x, "1", n1, nil)

	y := p.NewVariable()
	yBinding := AddBinding(y, "1", n2, []*Binding{xBinding})

	require.False(t, yBinding.IsVisible(n1))
	assert.Empty(t, y.FilteredData(n2))
}

// TestOriginReachable and TestOriginMulti (supplemented from
// original_source, not named directly in the literal scenario list)
// confirm multi-hop Origin chains accumulate through FilteredData.
func TestOriginReachable(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0")
	n1 := n0.ConnectNew("n1")

	x := p.NewVariable()
	xBinding := AddBinding(x, "1", n0, nil)

	y := p.NewVariable()
	AddBinding(y, "1", n1, []*Binding{xBinding})

	assert.ElementsMatch(t, []DataHandle{"1"}, handles(y.FilteredData(n1)))
}

func TestOriginMulti(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0")
	n1 := n0.ConnectNew("n1")
	n2 := n1.ConnectNew("n2")

	x := p.NewVariable()
	xBinding := AddBinding(x, "1", n0, nil)

	y := p.NewVariable()
	yBinding := AddBinding(y, "1", n1, []*Binding{xBinding})

	z := p.NewVariable()
	AddBinding(z, "2", n2, []*Binding{xBinding, yBinding})

	assert.ElementsMatch(t, []DataHandle{"2"}, handles(z.FilteredData(n2)))
}

// TestDiamond is E4: two incompatible downstream-merged bindings
// cannot both hold, but their common ancestor does.
func TestDiamond(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0")
	n1 := n0.ConnectNew("n1")
	n2 := n0.ConnectNew("n2")
	n3 := p.newNodeWithoutEdge("n3")
	n1.ConnectTo(n3)
	n2.ConnectTo(n3)

	x := p.NewVariable()
	xBinding := AddBinding(x, "1", n0, nil)

	y := p.NewVariable()
	yBinding := AddBinding(y, "1", n1, []*Binding{xBinding})

	z := p.NewVariable()
	zBinding := AddBinding(z, "1", n2, []*Binding{xBinding})

	yz := p.NewVariable()
	AddBinding(yz, "1", n3, []*Binding{yBinding, zBinding})

	assert.Empty(t, yz.FilteredData(n3))
	assert.ElementsMatch(t, []DataHandle{"1"}, handles(x.FilteredData(n3)))
	assert.ElementsMatch(t, []DataHandle{"1"}, handles(y.FilteredData(n3)))
	assert.ElementsMatch(t, []DataHandle{"1"}, handles(z.FilteredData(n3)))
}

// TestMonotoneData checks invariant 1: FilteredData is always a subset
// of Data.
func TestMonotoneData(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0")
	n1 := n0.ConnectNew("n1")
	n2 := n0.ConnectNew("n2")

	x := p.NewVariable()
	AddBinding(x, "1", n0, nil)
	AddBinding(x, "2", n1, nil)

	all := handles(x.Data())
	assert.ElementsMatch(t, []DataHandle{"1", "2"}, all)

	for _, dt := range x.FilteredData(n2) {
		assert.Contains(t, all, dt.Handle())
	}
}

// TestIdempotentAddBinding checks invariant 6: repeated AddBinding
// calls for the same (variable, data) pair produce one Binding that
// accumulates both Origins.
func TestIdempotentAddBinding(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0")
	n1 := n0.ConnectNew("n1")

	x := p.NewVariable()
	first := AddBinding(x, "1", n0, nil)
	second := AddBinding(x, "1", n1, nil)

	require.Same(t, first, second)
	assert.Len(t, x.Bindings(), 1)
	assert.Len(t, second.Origins(), 2)
}
