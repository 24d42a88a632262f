package layout

import "math"

// FurnitureKind discriminates the furniture shapes the solver knows how
// to place and group. Kept as an exhaustive tagged variant so every
// switch over Kind is compile-time checkable (spec.md §9: "map to
// exhaustive tagged variants").
type FurnitureKind string

// The furniture kinds the solver supports.
const (
	KindChair       FurnitureKind = "chair"
	KindRoundTable  FurnitureKind = "round-table"
	KindRectTable   FurnitureKind = "rect-table"
	KindTrestle     FurnitureKind = "trestle-table"
	KindPodium      FurnitureKind = "podium"
	KindStage       FurnitureKind = "stage"
	KindBar         FurnitureKind = "bar"
)

// Zone names a fixed placement region for furniture specs that must be
// anchored to part of the room.
type Zone string

// The fixed zones a FurnitureSpec may request.
const (
	ZoneNorth  Zone = "north"
	ZoneSouth  Zone = "south"
	ZoneEast   Zone = "east"
	ZoneWest   Zone = "west"
	ZoneCenter Zone = "center"
)

// Exit is a doorway the layout must keep clear: a centre point, an
// opening width, and the facing angle in radians (0 = +x).
type Exit struct {
	X, Z    float64
	Width   float64
	Heading float64
}

// Obstacle is an axis-aligned rectangle the solver may never place
// furniture over (a column, a fixed fixture, etc).
type Obstacle struct {
	MinX, MinZ, MaxX, MaxZ float64
}

// FocalPoint is the point every chair's sightline is measured against
// (e.g. a stage or altar). A Room with no focal point scores full
// sightline coverage unconditionally.
type FocalPoint struct {
	X, Z float64
}

// Room is the immutable polygonal venue the solver places furniture
// into. Only axis-aligned rectangular rooms are modeled; W and D are in
// meters with the origin at the room's bottom-left corner.
type Room struct {
	Width, Depth float64
	Exits        []Exit
	Obstacles    []Obstacle
	Focal        *FocalPoint
}

// FurnitureSpec describes one kind of furniture to place, and how many
// instances are requested.
type FurnitureSpec struct {
	Kind          FurnitureKind
	Width, Depth  float64
	Count         int
	ChairsPerUnit int
	WallAdjacent  bool
	FixedZone     Zone
	HasFixedZone  bool
}

// Cardinal is one of the four right-angle rotations the solver snaps
// every placement to.
type Cardinal int

// The four cardinal rotations, in units of pi/2 radians.
const (
	Cardinal0 Cardinal = iota
	Cardinal90
	Cardinal180
	Cardinal270
)

// Radians returns the rotation angle in radians.
func (c Cardinal) Radians() float64 {
	return float64(c) * math.Pi / 2
}

// swapsAxes reports whether this cardinal rotation swaps the footprint's
// width and depth (the odd multiples of pi/2).
func (c Cardinal) swapsAxes() bool {
	return c == Cardinal90 || c == Cardinal270
}

// Placement is one instance of a furniture spec positioned in the room.
type Placement struct {
	SpecIndex     int
	InstanceIndex int
	X, Z          float64
	Rotation      Cardinal
	EffWidth      float64
	EffDepth      float64
	Kind          FurnitureKind
}

// AABB returns the placement's axis-aligned bounding box.
func (p Placement) AABB() (minX, minZ, maxX, maxZ float64) {
	hw, hd := p.EffWidth/2, p.EffDepth/2
	return p.X - hw, p.Z - hd, p.X + hw, p.Z + hd
}

// effectiveDims returns the width/depth of a spec's footprint once
// rotated to the given cardinal — spec.md §3 invariant (a).
func effectiveDims(spec FurnitureSpec, rot Cardinal) (w, d float64) {
	if rot.swapsAxes() {
		return spec.Depth, spec.Width
	}
	return spec.Width, spec.Depth
}

// ViolationKind discriminates the five hard-constraint failure modes.
type ViolationKind string

// The violation kinds the validator can report.
const (
	ViolationOverlap         ViolationKind = "overlap"
	ViolationOutOfBounds     ViolationKind = "out-of-bounds"
	ViolationAisleTooNarrow  ViolationKind = "aisle-too-narrow"
	ViolationExitBlocked     ViolationKind = "exit-blocked"
	ViolationObstacleOverlap ViolationKind = "obstacle-overlap"
)

// severityTable maps every ViolationKind to its severity. Kept as a
// single exhaustive map so ViolationSeverity can assert completeness
// (spec.md §8 invariant 8: "violationSeverity is total over the five
// variants").
var severityTable = map[ViolationKind]int{
	ViolationOverlap:         10,
	ViolationExitBlocked:     9,
	ViolationOutOfBounds:     8,
	ViolationObstacleOverlap: 7,
	ViolationAisleTooNarrow:  5,
}

// ViolationSeverity returns the severity of kind. It panics on an
// unrecognized kind — the five variants above are meant to be
// exhaustive, so reaching the default case indicates a programming
// error, not a data error.
func ViolationSeverity(kind ViolationKind) int {
	s, ok := severityTable[kind]
	if !ok {
		panic("layout: unhandled ViolationKind " + string(kind))
	}
	return s
}

// Violation reports one hard-constraint failure.
type Violation struct {
	Kind        ViolationKind
	Message     string
	PlacementA  int
	PlacementB  int // -1 when the violation involves only PlacementA
}

// ValidatedLayout is a tag-branded placement list. Its field is
// unexported, so code outside this package cannot fabricate a non-empty
// one. [Validate] reports ok plus a violation list and does not return a
// ValidatedLayout; no function in this package constructs one.
type ValidatedLayout struct {
	placements []Placement
}

// Placements returns a copy of the validated placement list.
func (v ValidatedLayout) Placements() []Placement {
	out := make([]Placement, len(v.placements))
	copy(out, v.placements)
	return out
}

// Grouping records which chair instances were generated for one placed
// table, by index into the final Placements slice.
type Grouping struct {
	TableIndex    int
	ChairIndices  []int
	ChairsPerUnit int
}

// Stats reports solve-time diagnostics about one Solve call.
type Stats struct {
	SolveTimeMS      float64
	PlacedCount      int
	RequestedCount   int
	AnnealIterations int
	Restarts         int
	Backtracks       int
}

// LayoutScores holds the weighted soft-objective scores, each in [0, 1]
// (spec.md §8 invariant 9).
type LayoutScores struct {
	Capacity           float64
	SpaceUtilization   float64
	SightlineCoverage  float64
	Symmetry           float64
	ExitAccess         float64
	Weighted           float64
}

// ObjectiveWeights weights the soft objectives that feed the weighted
// score. Capacity is reported but never weighted per spec.md §4.1.
type ObjectiveWeights struct {
	SpaceUtilization  float64
	SightlineCoverage float64
	Symmetry          float64
	ExitAccess        float64
}

// DefaultObjectiveWeights returns the weights named in spec.md §4.1.
func DefaultObjectiveWeights() ObjectiveWeights {
	return ObjectiveWeights{
		SpaceUtilization:  0.3,
		SightlineCoverage: 0.3,
		Symmetry:          0.2,
		ExitAccess:        0.2,
	}
}

// SolverOptions configures one Solve call. All fields have defaults
// (spec.md §6) applied by [DefaultSolverOptions].
type SolverOptions struct {
	GridCellSize          float64 `yaml:"gridCellSize" json:"gridCellSize"`
	MinAisleWidth         float64 `yaml:"minAisleWidth" json:"minAisleWidth"`
	ExitClearance         float64 `yaml:"exitClearance" json:"exitClearance"`
	AnnealingIterations   int     `yaml:"annealingIterations" json:"annealingIterations"`
	AnnealingInitialTemp  float64 `yaml:"annealingInitialTemp" json:"annealingInitialTemp"`
	AnnealingCoolingRate  float64 `yaml:"annealingCoolingRate" json:"annealingCoolingRate"`
	MaxPlacementAttempts  int     `yaml:"maxPlacementAttempts" json:"maxPlacementAttempts"`
	Seed                  uint32  `yaml:"seed" json:"seed"`
	EnableBacktracking    bool    `yaml:"enableBacktracking" json:"enableBacktracking"`
	MaxRestarts           int     `yaml:"maxRestarts" json:"maxRestarts"`
	Weights               ObjectiveWeights `yaml:"weights" json:"weights"`
}

// Solver-wide constants named explicitly in spec.md §6.
const (
	MaxBacktracks        = 20
	ConvergenceWindow    = 200
	ConvergenceThreshold = 1e-3
)

// DefaultSolverOptions returns the configuration defaults enumerated in
// spec.md §6.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		GridCellSize:         0.15,
		MinAisleWidth:        0.914,
		ExitClearance:        1.12,
		AnnealingIterations:  2000,
		AnnealingInitialTemp: 10,
		AnnealingCoolingRate: 0.995,
		MaxPlacementAttempts: 200,
		Seed:                 42,
		EnableBacktracking:   true,
		MaxRestarts:          3,
		Weights:              DefaultObjectiveWeights(),
	}
}

// LayoutRequest is the full input to [Solve].
type LayoutRequest struct {
	Room    Room
	Specs   []FurnitureSpec
	Options SolverOptions
}

// LayoutResult is the full output of [Solve]. It is always returned —
// the solver never errors on a well-formed request (spec.md §7: "the
// solver never throws").
type LayoutResult struct {
	Feasible    bool
	Placements  []Placement
	Scores      LayoutScores
	Violations  []Violation
	Groupings   []Grouping
	Stats       Stats
}
