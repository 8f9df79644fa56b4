package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinearTrunk(t *testing.T) {
	g := NewContext()
	g.AddRow(3, []int{2}, 0, "trunk", "", "h3", true)
	g.AddRow(2, []int{1}, 0, "trunk", "", "h2", false)
	g.AddRow(1, nil, 0, "trunk", "", "h1", false)

	g.Finish("", 0, nil)
	require.False(t, g.Failed())
	require.Equal(t, 0, g.MaxRail())

	r1, r2, r3 := g.row(1), g.row(2), g.row(3)
	require.Equal(t, 0, r1.Rail)
	require.Equal(t, 0, r2.Rail)
	require.Equal(t, 0, r3.Rail)
	require.Equal(t, 1, r2.Risers[0])
	require.Equal(t, 2, r3.Risers[0])
}

func TestFork(t *testing.T) {
	g := NewContext()
	g.AddRow(10, []int{5}, 0, "trunk", "", "h10", true)
	g.AddRow(11, []int{5}, 0, "feat", "", "h11", true)
	g.AddRow(5, nil, 0, "trunk", "", "h5", false)

	g.Finish("", 0, nil)
	require.False(t, g.Failed())

	id10 := g.ByID(10)
	id11 := g.ByID(11)
	id5 := g.ByID(5)
	require.Equal(t, 0, id10.Rail)
	require.Equal(t, 0, id5.Rail)
	require.NotEqual(t, id5.Rail, id11.Rail)
	require.Equal(t, id10.Idx, id5.Risers[id10.Rail])
	require.Equal(t, id11.Idx, id5.Risers[id11.Rail])
}

func TestMerge(t *testing.T) {
	g := NewContext()
	g.AddRow(20, []int{15, 17}, 0, "trunk", "", "h20", false)
	g.AddRow(17, []int{16}, 0, "feat", "", "h17", false)
	g.AddRow(16, []int{15}, 0, "feat", "", "h16", false)
	g.AddRow(15, nil, 0, "trunk", "", "h15", false)

	g.Finish("", 0, nil)
	require.False(t, g.Failed())

	id17 := g.ByID(17)
	id20 := g.ByID(20)
	require.GreaterOrEqual(t, id17.MergeOut, 0)
	require.Equal(t, uint8(1), id20.MergeIn[id17.MergeOut])
	require.Equal(t, 1, id17.MergeUpto)
}

func TestCherrypickMerge(t *testing.T) {
	g := NewContext()
	g.AddRow(20, []int{15, 17}, 1, "trunk", "", "h20", false)
	g.AddRow(17, []int{16}, 0, "feat", "", "h17", false)
	g.AddRow(16, []int{15}, 0, "feat", "", "h16", false)
	g.AddRow(15, nil, 0, "trunk", "", "h15", false)

	g.Finish("", 0, nil)
	require.False(t, g.Failed())

	id17 := g.ByID(17)
	id20 := g.ByID(20)
	require.Equal(t, 1, id17.CherrypickUpto)
	require.Equal(t, 0, id17.MergeUpto)
	require.False(t, id17.HasNormalOutMerge)
	require.Equal(t, uint8(2), id20.MergeIn[id17.MergeOut])
}

func TestTimeWarp(t *testing.T) {
	g := NewContext()
	g.AddRow(1, []int{2}, 0, "trunk", "", "hA", false)
	g.AddRow(2, []int{1}, 0, "trunk", "", "hB", false)

	g.Finish("", 0, nil)
	require.False(t, g.Failed())

	a := g.ByID(1)
	b := g.ByID(2)
	// Row 2's primary parent is row 1, and row 1's idx (1) is <= row 2's
	// idx (2): a clock-skew artifact. The flag lands on the parent (row
	// 1), not the child, per the asymmetric marking the engine inherits.
	require.True(t, a.TimeWarp)
	require.NotEqual(t, a.Rail, b.Rail)
}

func TestRailExhaustion(t *testing.T) {
	// Parentless rows alone don't do it: the root-rail pass only reserves a
	// RiserMargin-sized window per row, so low rails recycle and maxRail
	// plateaus well under MaxRail. Genuine exhaustion needs full-span rails,
	// which only routeMerges hands out (one per distinct off-screen merge
	// parent, held from the row down to the bottom of the window). Give
	// every row its own off-screen primary AND a distinct off-screen merge
	// parent so routeMerges must allocate a fresh rail on every row with no
	// reuse, burning through all MaxRail slots before row 42.
	g := NewContext()
	for i := 1; i <= 42; i++ {
		g.AddRow(i, []int{1000 + i, 2000 + i}, 0, "branch", "", "h", false)
	}
	g.Finish("", 0, nil)
	require.True(t, g.Failed())
}

func TestDuplicateRowShareOneCanonicalEntry(t *testing.T) {
	g := NewContext()
	g.AddRow(1, nil, 0, "trunk", "", "h1", false)
	dup := g.AddRow(1, nil, 0, "trunk", "", "h1dup", false)

	g.Finish("", 0, nil)
	require.False(t, g.Failed())

	// The row inserted later becomes the canonical entry; the earlier one
	// is marked as the duplicate (hashInsert always re-targets forward).
	require.True(t, g.row(1).IsDup)
	require.False(t, dup.IsDup)
	require.Same(t, dup, g.ByID(1))
}

func TestPreferredLeftBranchPullsToColumnZero(t *testing.T) {
	g := NewContext()
	g.AddRow(10, []int{5}, 0, "trunk", "", "h10", true)
	g.AddRow(11, []int{5}, 0, "feat", "", "h11", true)
	g.AddRow(5, nil, 0, "trunk", "", "h5", false)

	g.Finish("feat", 0, nil)
	require.False(t, g.Failed())

	id11 := g.ByID(11)
	require.Equal(t, 0, g.RailColumn(id11.Rail))
}

func TestDeterministicLayout(t *testing.T) {
	build := func() *GraphContext {
		g := NewContext()
		g.AddRow(3, []int{2}, 0, "trunk", "", "h3", true)
		g.AddRow(2, []int{1}, 0, "trunk", "", "h2", false)
		g.AddRow(1, nil, 0, "trunk", "", "h1", false)
		g.Finish("", 0, nil)
		return g
	}
	a := build()
	b := build()
	for i := 1; i <= 3; i++ {
		require.Equal(t, a.row(i).Rail, b.row(i).Rail)
		require.Equal(t, a.row(i).Risers, b.row(i).Risers)
	}
}

func TestPrimaryChildSameBranchInvariant(t *testing.T) {
	g := NewContext()
	g.AddRow(3, []int{2}, 0, "trunk", "", "h3", true)
	g.AddRow(2, []int{1}, 0, "trunk", "", "h2", false)
	g.AddRow(1, nil, 0, "trunk", "", "h1", false)
	g.Finish("", 0, nil)

	for _, r := range g.Rows() {
		if c := r.Child(); c != nil {
			require.Same(t, r.Branch, c.Branch)
		}
	}
}
