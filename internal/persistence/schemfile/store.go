package schemfile

import (
	"os"
	"path/filepath"

	"schemsplit/internal/schematic"
)

// Store implements the splitter's chunk persistence on the local
// filesystem.
type Store struct{}

func (Store) WriteChunkVolume(dir, baseName string, chunk *schematic.Schematic) error {
	return Write(filepath.Join(dir, baseName+Extension), chunk)
}

func (Store) WriteTextReport(dir, fileName, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fileName), []byte(content), 0o644)
}
