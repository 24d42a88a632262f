package export

import (
	"bytes"
	"fmt"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/venuecore/pkg/layout"
)

// SVGOptions configures floor plan visualization export.
type SVGOptions struct {
	Width       int    // Canvas width in pixels
	Height      int    // Canvas height in pixels
	Margin      int    // Canvas margin in pixels (default: 40)
	ShowLabels  bool   // Show per-placement kind labels
	ColorByKind bool   // Color placements by furniture kind
	ShowLegend  bool   // Show legend explaining colors
	Title       string // Optional title for the visualization
	ShowStats   bool   // Show placement/score statistics
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       1000,
		Height:      800,
		Margin:      40,
		ShowLabels:  false,
		ColorByKind: true,
		ShowLegend:  true,
		Title:       "Venue Layout",
		ShowStats:   true,
	}
}

// ExportSVG renders a floor plan for room and result: the room boundary,
// obstacles, exit zones, and every placement's rotated footprint colored
// by furniture kind.
func ExportSVG(room layout.Room, result layout.LayoutResult, opts SVGOptions) ([]byte, error) {
	if room.Width <= 0 || room.Depth <= 0 {
		return nil, fmt.Errorf("export: room dimensions must be positive")
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.Margin <= 0 {
		opts.Margin = 40
	}

	headerSpace := 0
	if opts.Title != "" || opts.ShowStats {
		headerSpace = 50
	}
	legendSpace := 0
	if opts.ShowLegend {
		legendSpace = 160
	}

	drawW := float64(opts.Width - 2*opts.Margin - legendSpace)
	drawH := float64(opts.Height - 2*opts.Margin - headerSpace)
	scale := math.Min(drawW/room.Width, drawH/room.Depth)

	toPx := func(x, z float64) (int, int) {
		return opts.Margin + int(x*scale), opts.Margin + headerSpace + int(z*scale)
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	rx0, ry0 := toPx(0, 0)
	rx1, ry1 := toPx(room.Width, room.Depth)
	canvas.Rect(rx0, ry0, rx1-rx0, ry1-ry0, "fill:#f7fafc;stroke:#2d3748;stroke-width:2")

	for _, ob := range room.Obstacles {
		ox0, oy0 := toPx(ob.MinX, ob.MinZ)
		ox1, oy1 := toPx(ob.MaxX, ob.MaxZ)
		canvas.Rect(ox0, oy0, ox1-ox0, oy1-oy0, "fill:#718096;stroke:#4a5568")
	}

	for _, exit := range room.Exits {
		ex, ey := toPx(exit.X, exit.Z)
		r := int(exit.Width / 2 * scale)
		if r < 4 {
			r = 4
		}
		canvas.Circle(ex, ey, r, "fill:none;stroke:#48bb78;stroke-width:2;stroke-dasharray:4,2")
	}

	for _, p := range result.Placements {
		drawPlacement(canvas, p, toPx, scale, opts)
	}

	if opts.ShowLegend {
		drawLegend(canvas, opts)
	}
	if opts.Title != "" || opts.ShowStats {
		drawHeader(canvas, result, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile renders a floor plan and writes it to path.
func SaveSVGToFile(room layout.Room, result layout.LayoutResult, path string, opts SVGOptions) error {
	data, err := ExportSVG(room, result, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func drawPlacement(canvas *svg.SVG, p layout.Placement, toPx func(x, z float64) (int, int), scale float64, opts SVGOptions) {
	minX, minZ, maxX, maxZ := p.AABB()
	corners := [][2]float64{
		{minX, minZ}, {maxX, minZ}, {maxX, maxZ}, {minX, maxZ},
	}
	xs := make([]int, 4)
	ys := make([]int, 4)
	for i, c := range corners {
		xs[i], ys[i] = toPx(c[0], c[1])
	}

	color := kindColor(p.Kind, opts)
	canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;stroke:#1a202c;stroke-width:1;opacity:0.9", color))

	cx, cy := toPx(p.X, p.Z)
	headingLen := 0.3 * scale
	hx := cx + int(headingLen*math.Cos(p.Rotation.Radians()))
	hy := cy + int(headingLen*math.Sin(p.Rotation.Radians()))
	canvas.Line(cx, cy, hx, hy, "stroke:#1a202c;stroke-width:1")

	if opts.ShowLabels {
		canvas.Text(cx, cy-8, string(p.Kind), "text-anchor:middle;font-size:9px;fill:#1a202c;font-family:monospace")
	}
}

func kindColor(kind layout.FurnitureKind, opts SVGOptions) string {
	if !opts.ColorByKind {
		return "#a0aec0"
	}
	switch kind {
	case layout.KindChair:
		return "#4299e1"
	case layout.KindRoundTable:
		return "#48bb78"
	case layout.KindRectTable:
		return "#38a169"
	case layout.KindTrestle:
		return "#2f855a"
	case layout.KindPodium:
		return "#ed8936"
	case layout.KindStage:
		return "#f56565"
	case layout.KindBar:
		return "#9f7aea"
	default:
		return "#a0aec0"
	}
}

func drawLegend(canvas *svg.SVG, opts SVGOptions) {
	legendX := opts.Width - opts.Margin - 140
	legendY := opts.Margin + 20

	canvas.Rect(legendX-10, legendY-15, 150, 210, "fill:#2d3748;stroke:#4a5568;opacity:0.95;rx:5")
	canvas.Text(legendX, legendY, "Furniture", "font-size:13px;font-weight:bold;fill:#e2e8f0")
	legendY += 22

	entries := []struct {
		name string
		kind layout.FurnitureKind
	}{
		{"Chair", layout.KindChair},
		{"Round table", layout.KindRoundTable},
		{"Rect table", layout.KindRectTable},
		{"Trestle", layout.KindTrestle},
		{"Podium", layout.KindPodium},
		{"Stage", layout.KindStage},
		{"Bar", layout.KindBar},
	}
	for _, e := range entries {
		canvas.Rect(legendX, legendY-8, 12, 12, fmt.Sprintf("fill:%s", kindColor(e.kind, opts)))
		canvas.Text(legendX+18, legendY+2, e.name, "font-size:11px;fill:#cbd5e0")
		legendY += 20
	}
}

func drawHeader(canvas *svg.SVG, result layout.LayoutResult, opts SVGOptions) {
	headerY := 22
	if opts.Title != "" {
		canvas.Text(opts.Width/2, headerY, opts.Title, "text-anchor:middle;font-size:18px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
		headerY += 24
	}
	if opts.ShowStats {
		stats := fmt.Sprintf("Placed: %d/%d | Feasible: %v | Score: %.2f",
			result.Stats.PlacedCount, result.Stats.RequestedCount, result.Feasible, result.Scores.Weighted)
		canvas.Text(opts.Width/2, headerY, stats, "text-anchor:middle;font-size:12px;fill:#a0aec0;font-family:monospace")
	}
}
