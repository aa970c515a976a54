package schematic

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LoadHierarchy reads a root schematic and, recursively, every sheet file it
// references, resolving child file names relative to the root's directory.
// It returns the root file name and all loaded sheets keyed by file name.
// A referenced file that does not exist is skipped, not an error: the
// connectivity layer reports it as a missing-sheet finding.
func LoadHierarchy(rootPath string) (string, map[string]*Schematic, error) {
	dir := filepath.Dir(rootPath)
	rootFile := filepath.Base(rootPath)
	sheets := make(map[string]*Schematic)

	var load func(file string) error
	load = func(file string) error {
		if _, ok := sheets[file]; ok {
			return nil
		}
		sch, err := ParseFile(filepath.Join(dir, file))
		if err != nil {
			if file != rootFile && errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("loading sheet %q: %w", file, err)
		}
		sheets[file] = sch
		for i := range sch.Sheets {
			if err := load(sch.Sheets[i].FileName.Name); err != nil {
				return err
			}
		}
		return nil
	}

	if err := load(rootFile); err != nil {
		return "", nil, err
	}
	return rootFile, sheets, nil
}
