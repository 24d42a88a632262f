package export

import (
	"encoding/json"
	"os"
)

// ExportJSON serializes any of the core result types (layout.LayoutResult,
// transport.Result, optim.CMAESResult, ...) to JSON with 2-space
// indentation.
func ExportJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// ExportJSONCompact serializes v to JSON without indentation, suitable
// for storage or transmission.
func ExportJSONCompact(v any) ([]byte, error) {
	return json.Marshal(v)
}

// SaveJSONToFile exports v to a JSON file with indentation.
func SaveJSONToFile(v any, path string) error {
	data, err := ExportJSON(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SaveJSONCompactToFile exports v to a compact JSON file.
func SaveJSONCompactToFile(v any, path string) error {
	data, err := ExportJSONCompact(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
