package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/fitr/internal/progress"
)

// snapshotExport wraps the tracked state with export metadata. The same
// envelope is used for JSON and YAML.
type snapshotExport struct {
	ExportedAt       string         `json:"exported_at" yaml:"exported_at"`
	MeasurementCount int            `json:"measurement_count" yaml:"measurement_count"`
	Snapshot         progress.State `json:"snapshot" yaml:"snapshot"`
}

func newSnapshotExport(st progress.State) snapshotExport {
	return snapshotExport{
		ExportedAt:       time.Now().UTC().Format(time.RFC3339),
		MeasurementCount: len(st.Measurements),
		Snapshot:         st,
	}
}

func SnapshotToJSON(st progress.State, path string) error {
	data, err := json.MarshalIndent(newSnapshotExport(st), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
