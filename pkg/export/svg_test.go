package export

import (
	"bytes"
	"testing"

	"github.com/dshills/venuecore/pkg/layout"
)

func sampleRoomAndResult() (layout.Room, layout.LayoutResult) {
	room := layout.Room{
		Width: 10, Depth: 8,
		Exits:     []layout.Exit{{X: 5, Z: 8, Width: 1.2}},
		Obstacles: []layout.Obstacle{{MinX: 0, MinZ: 0, MaxX: 1, MaxZ: 1}},
	}
	result := layout.LayoutResult{
		Feasible: true,
		Placements: []layout.Placement{
			{Kind: layout.KindRoundTable, X: 3, Z: 3, EffWidth: 1.8, EffDepth: 1.8},
			{Kind: layout.KindChair, X: 3, Z: 4.5, EffWidth: 0.5, EffDepth: 0.5},
		},
		Scores: layout.LayoutScores{Weighted: 0.82},
		Stats:  layout.Stats{PlacedCount: 2, RequestedCount: 2},
	}
	return room, result
}

func TestExportSVG_ProducesValidHeader(t *testing.T) {
	room, result := sampleRoomAndResult()
	data, err := ExportSVG(room, result, DefaultSVGOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Fatal("expected output to contain an <svg> tag")
	}
	if !bytes.Contains(data, []byte("</svg>")) {
		t.Fatal("expected output to be a closed SVG document")
	}
}

func TestExportSVG_RejectsZeroRoom(t *testing.T) {
	_, err := ExportSVG(layout.Room{Width: 0, Depth: 5}, layout.LayoutResult{}, DefaultSVGOptions())
	if err == nil {
		t.Fatal("expected error for zero-width room")
	}
}

func TestExportSVG_WithLabelsAndLegend(t *testing.T) {
	room, result := sampleRoomAndResult()
	opts := DefaultSVGOptions()
	opts.ShowLabels = true
	opts.ShowLegend = true
	data, err := ExportSVG(room, result, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(data, []byte("Furniture")) {
		t.Fatal("expected legend title in output")
	}
}

func TestKindColor_DefaultsToGrayWhenDisabled(t *testing.T) {
	opts := DefaultSVGOptions()
	opts.ColorByKind = false
	if c := kindColor(layout.KindChair, opts); c != "#a0aec0" {
		t.Fatalf("expected neutral color when ColorByKind disabled, got %s", c)
	}
}
