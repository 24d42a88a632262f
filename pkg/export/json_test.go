package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/venuecore/pkg/layout"
)

func TestExportJSON_RoundTrips(t *testing.T) {
	_, result := sampleRoomAndResult()
	data, err := ExportJSON(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back layout.LayoutResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Feasible != result.Feasible || len(back.Placements) != len(result.Placements) {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, result)
	}
}

func TestExportJSONCompact_IsSmallerThanIndented(t *testing.T) {
	_, result := sampleRoomAndResult()
	indented, _ := ExportJSON(result)
	compact, _ := ExportJSONCompact(result)
	if len(compact) >= len(indented) {
		t.Fatalf("expected compact output to be smaller: %d vs %d", len(compact), len(indented))
	}
}

func TestSaveJSONToFile_WritesReadableFile(t *testing.T) {
	_, result := sampleRoomAndResult()
	dir := t.TempDir()
	path := filepath.Join(dir, "result.json")
	if err := SaveJSONToFile(result, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty file contents")
	}
}
