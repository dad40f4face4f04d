package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sadopc/fitr/internal/progress"
	"gopkg.in/yaml.v3"
)

func SnapshotToYAML(st progress.State, path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newSnapshotExport(st)); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write yaml file: %w", err)
	}
	return nil
}
