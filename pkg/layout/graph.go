package layout

// constraintGraph is the incremental constraint graph from spec.md
// §4.1: one input node per placement, feeding a derived node holding
// that placement's local violations, all feeding a deduplicated global
// violations node, which feeds a score node. Equality-gated propagation
// (unchanged local violation set, or score within 1e-10) short-circuits
// recomputation of everything downstream.
//
// This is a single-call, single-goroutine structure — it holds no
// reference to anything beyond one Solve invocation and is discarded
// when that call returns (spec.md §5).
type constraintGraph struct {
	local       map[int][]Violation // placement index -> its local violations
	stale       map[int]bool        // indices invalidated since their local node was last recomputed
	globalDirty bool
	global      []Violation
	scoreDirty  bool
	lastScore   float64
}

func newConstraintGraph(n int) *constraintGraph {
	return &constraintGraph{
		local:       make(map[int][]Violation, n),
		stale:       make(map[int]bool, n),
		globalDirty: true,
		scoreDirty:  true,
	}
}

// updateLocal records the local violation set for placement idx,
// reporting whether it actually changed (equality predicate from
// spec.md §4.1). An unchanged set leaves globalDirty/scoreDirty alone,
// so a move that doesn't actually alter any violation set short-circuits
// every downstream recompute.
func (g *constraintGraph) updateLocal(idx int, vs []Violation) (changed bool) {
	delete(g.stale, idx)
	old, ok := g.local[idx]
	if ok && violationSetsEqual(old, vs) {
		return false
	}
	g.local[idx] = vs
	g.globalDirty = true
	g.scoreDirty = true
	return true
}

// invalidate marks idx's local node stale without recomputing it — used
// when a spatial neighbor within `expand` of a moved placement might be
// affected even though its own position did not change. The stale entry
// is lazily recomputed the next time globalViolations is queried.
func (g *constraintGraph) invalidate(idx int) {
	g.stale[idx] = true
	g.globalDirty = true
}

// globalViolations returns the deduplicated union of every placement's
// local violation set, short-circuiting to the cached value when nothing
// is dirty. Any index invalidated since the last call is recomputed via
// recompute before the union is taken.
func (g *constraintGraph) globalViolations(recompute func(idx int) []Violation) []Violation {
	if !g.globalDirty {
		return g.global
	}
	for idx := range g.stale {
		g.local[idx] = recompute(idx)
		delete(g.stale, idx)
	}
	var all []Violation
	for _, vs := range g.local {
		all = append(all, vs...)
	}
	g.global = dedupeViolations(all)
	g.globalDirty = false
	return g.global
}

// cachedScore returns the cached weighted score when nothing feeding it
// has changed since the last call, otherwise invokes compute and caches
// the result. scoreEqual gates the actual store: a recompute that lands
// back on the same value (within tolerance) leaves lastScore untouched.
func (g *constraintGraph) cachedScore(compute func() float64) float64 {
	if !g.scoreDirty {
		return g.lastScore
	}
	s := compute()
	if !scoreEqual(s, g.lastScore) {
		g.lastScore = s
	}
	g.scoreDirty = false
	return g.lastScore
}

func violationSetsEqual(a, b []Violation) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[Violation]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// scoreEqual is the 1e-10-tolerant equality predicate used to gate score
// propagation.
func scoreEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-10
}
