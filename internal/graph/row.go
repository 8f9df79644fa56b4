// Package graph lays out a revision-history graph: it assigns each commit
// row and each merge edge to a vertical rail so the diagram is compact,
// readable, and faithful to branching/merging semantics.
//
// The algorithm is a Go port of Fossil's graph.c. Rows must be appended in
// display order (top to bottom); Finish runs the single-pass layout and
// mutates each Row in place with its rail assignment.
package graph

// MaxRail is the hard upper bound on simultaneously occupied rails.
const MaxRail = 40

// RiserMargin is the number of rows of rail occupation reserved above a
// terminal riser and below a terminal descender, so adjacent rails don't
// visually collide.
const RiserMargin = 4

// maxHashLen bounds the length of the stored content hash.
const maxHashLen = 64

// Row is one displayable entry in the graph.
type Row struct {
	ID      int   // caller-supplied stable key; unique per logical entity
	Idx     int   // 1-based display position, assigned at insert
	Parents []int // element 0 is the primary parent

	// nNonCherrypick is the count of Parents (starting at index 0, the
	// primary) that are normal (non-cherry-pick) parents. The remainder,
	// Parents[nNonCherrypick:], are cherry-pick merge parents.
	nNonCherrypick int

	// nParent mirrors Fossil's GraphRow.nParent: -1 marks a "ghost" row
	// that carries only background color and never participates in
	// layout. The public AddRow constructor never produces one; it exists
	// so the package's internals match the original's documented contract.
	nParent int

	Branch  *string // interned; equality is pointer identity
	BgColor *string // interned; equality is pointer identity
	Hash    string

	IsLeaf            bool
	IsDup             bool
	IsStepParent      bool
	TimeWarp          bool
	HasNormalOutMerge bool
	BDescender        bool

	// childIdx is the Idx of the Row directly above on the same rail (the
	// "primary child"), or 0 if none. Using Idx instead of a pointer keeps
	// the row arena free of pointer cycles.
	childIdx int
	IdxTop   int // smallest idx in the maximal primary-child chain rooted here

	Rail   int        // assigned rail (0-based), -1 if unassigned
	Risers [MaxRail]int // per-rail idx a riser extends up to, or -1

	SelfUp int // rows above a terminal non-leaf on which its rail continues

	MergeOut       int // rail the outgoing merge arrow ascends on, or -1
	MergeUpto      int // highest row reached by a solid merge riser
	CherrypickUpto int // highest row reached by a dashed cherry-pick extension

	MergeIn [MaxRail]uint8 // 0 none, 1 solid merge, 2 cherry-pick merge

	MergeDown      uint64 // bit set per rail: merge riser continues off the bottom
	CherrypickDown uint64 // bit set per rail: cherry-pick riser continues off the bottom

	RailInUse uint64 // bitmask of rails occupied by any line at this row

	ctx *GraphContext
}

// NNonCherrypick returns the number of Parents, counting from the primary,
// that are normal merge parents (as opposed to cherry-picks).
func (r *Row) NNonCherrypick() int { return r.nNonCherrypick }

// NCherrypick returns the number of cherry-pick merge parents.
func (r *Row) NCherrypick() int { return len(r.Parents) - r.nNonCherrypick }

// IsGhost reports whether this row is a color-only placeholder that never
// participates in layout.
func (r *Row) IsGhost() bool { return r.nParent < 0 }

// Child returns the Row directly above this one on the same rail, or nil.
func (r *Row) Child() *Row {
	if r.childIdx == 0 {
		return nil
	}
	return r.ctx.row(r.childIdx)
}

// Prev returns the Row immediately above in display order, or nil.
func (r *Row) Prev() *Row { return r.ctx.row(r.Idx - 1) }

// Next returns the Row immediately below in display order, or nil.
func (r *Row) Next() *Row { return r.ctx.row(r.Idx + 1) }

// GraphContext owns every Row inserted into it and holds the layout result
// after Finish runs.
type GraphContext struct {
	rows   []*Row
	byID   map[int]*Row
	labels map[string]*string

	maxRail   int
	railMap   [MaxRail]int
	nErr      bool
	nextIdx   int
	timeWarps int
	finished  bool
}

// NewContext returns an empty graph context ready to accept rows.
func NewContext() *GraphContext {
	return &GraphContext{
		byID:    make(map[int]*Row),
		labels:  make(map[string]*string),
		maxRail: -1, // rails are 0-based; newRail's pre-increment yields 0 first
		nErr:    true, // assume error until Finish succeeds, mirroring graph_init
	}
}

// intern returns the canonical pointer for s; repeated calls with equal
// strings return the same pointer so callers can compare by identity.
func (g *GraphContext) intern(s string) *string {
	if p, ok := g.labels[s]; ok {
		return p
	}
	cp := s
	g.labels[s] = &cp
	return &cp
}

// row returns the Row at the given 1-based idx, or nil if out of range.
func (g *GraphContext) row(idx int) *Row {
	if idx < 1 || idx > len(g.rows) {
		return nil
	}
	return g.rows[idx-1]
}

func (g *GraphContext) first() *Row {
	if len(g.rows) == 0 {
		return nil
	}
	return g.rows[0]
}

func (g *GraphContext) last() *Row {
	if len(g.rows) == 0 {
		return nil
	}
	return g.rows[len(g.rows)-1]
}

// AddRow appends a new row in display order. parents[0], if present, is the
// primary parent; the following nCherrypick entries from the tail of
// parents are cherry-pick merge parents, the rest (after the primary)
// normal merge parents. Returns the new Row, or nil if the context has
// already been finished.
func (g *GraphContext) AddRow(id int, parents []int, nCherrypick int, branch, bgColor, hash string, isLeaf bool) *Row {
	if g.finished {
		return nil
	}
	nParent := len(parents)
	if nCherrypick >= nParent {
		nCherrypick = nParent - 1 // safety; should never happen
	}
	if nCherrypick < 0 {
		nCherrypick = 0
	}
	if len(hash) > maxHashLen {
		hash = hash[:maxHashLen]
	}

	ownParents := make([]int, nParent)
	copy(ownParents, parents)

	r := &Row{
		ID:             id,
		Parents:        ownParents,
		nNonCherrypick: nParent - nCherrypick,
		nParent:        nParent,
		Branch:         g.intern(branch),
		BgColor:        g.intern(bgColor),
		Hash:           hash,
		IsLeaf:         isLeaf,
		Rail:           -1,
		MergeOut:       -1,
		ctx:            g,
	}
	for i := range r.Risers {
		r.Risers[i] = -1
	}

	g.nextIdx++
	r.Idx = g.nextIdx
	r.IdxTop = r.Idx

	g.rows = append(g.rows, r)
	return r
}

// AddGhostRow appends a placeholder row that carries only branch/background
// color and never participates in layout (Fossil's nParent==-1 convention;
// see Row.IsGhost).
func (g *GraphContext) AddGhostRow(id int, branch, bgColor string) *Row {
	r := g.AddRow(id, nil, 0, branch, bgColor, "", false)
	if r != nil {
		r.nParent = -1
	}
	return r
}

// hashInsert registers r under its ID, marking any prior row with the same
// ID as a duplicate. The new row always becomes the authoritative entry.
func (g *GraphContext) hashInsert(r *Row) {
	if prior, ok := g.byID[r.ID]; ok && prior != r {
		prior.IsDup = true
	}
	g.byID[r.ID] = r
}

// ByID returns the canonical (non-duplicate) row for id, or nil.
func (g *GraphContext) ByID(id int) *Row {
	return g.byID[id]
}

// MaxRail returns the highest rail index in use after Finish.
func (g *GraphContext) MaxRail() int { return g.maxRail }

// RailColumn returns the rendered column for a rail after Finish.
func (g *GraphContext) RailColumn(rail int) int {
	if rail < 0 || rail >= MaxRail {
		return rail
	}
	return g.railMap[rail]
}

// Failed reports whether the graph could not be laid out within the rail
// budget; the caller must treat the layout as unavailable.
func (g *GraphContext) Failed() bool { return g.nErr }

// Rows returns every row in display order. The returned slice must not be
// mutated by the caller.
func (g *GraphContext) Rows() []*Row { return g.rows }
