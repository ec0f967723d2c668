// Package patient provides patient directory discovery and ordered
// navigation across sibling patient folders.
package patient

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"nifti-viewer/internal/nifti"
)

// Discover scans parentDir for subdirectories containing NIfTI files and
// returns them sorted by name.
func Discover(parentDir string) ([]string, error) {
	entries, err := os.ReadDir(parentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", parentDir, err)
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(parentDir, e.Name())
		if hasVolumeFiles(dir) {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func hasVolumeFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && nifti.IsVolumeFile(e.Name()) {
			return true
		}
	}
	return false
}

// VolumeFiles lists the NIfTI files directly inside a patient directory.
func VolumeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && nifti.IsVolumeFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Navigator tracks the ordered patient list and the current position.
type Navigator struct {
	dirs    []string
	current int
}

// NewNavigator builds a navigator positioned at the selected directory. The
// list is discovered from the selected directory's parent; if the selection
// is not found it becomes position 0.
func NewNavigator(selectedDir string) (*Navigator, error) {
	dirs, err := Discover(filepath.Dir(selectedDir))
	if err != nil {
		return nil, err
	}
	n := &Navigator{dirs: dirs}
	for i, d := range dirs {
		if d == selectedDir {
			n.current = i
			break
		}
	}
	return n, nil
}

// Len returns the number of discovered patients.
func (n *Navigator) Len() int { return len(n.dirs) }

// Current returns the active patient directory, "" when the list is empty.
func (n *Navigator) Current() string {
	if len(n.dirs) == 0 {
		return ""
	}
	return n.dirs[n.current]
}

// Position returns the 1-based index of the current patient.
func (n *Navigator) Position() int { return n.current + 1 }

// HasPrev reports whether a previous patient exists.
func (n *Navigator) HasPrev() bool { return n.current > 0 }

// HasNext reports whether a next patient exists.
func (n *Navigator) HasNext() bool { return n.current < len(n.dirs)-1 }

// Prev moves to the previous patient and returns its directory. At the
// start of the list the position is unchanged and ok is false.
func (n *Navigator) Prev() (string, bool) {
	if !n.HasPrev() {
		return n.Current(), false
	}
	n.current--
	return n.dirs[n.current], true
}

// Next moves to the next patient and returns its directory.
func (n *Navigator) Next() (string, bool) {
	if !n.HasNext() {
		return n.Current(), false
	}
	n.current++
	return n.dirs[n.current], true
}

// Label formats the patient label shown in the top bar and the fullscreen
// panel: "name (i/total)", or just the name when navigation is unavailable.
func (n *Navigator) Label() string {
	cur := n.Current()
	if cur == "" {
		return "No patient loaded"
	}
	name := filepath.Base(cur)
	if len(n.dirs) > 1 {
		return fmt.Sprintf("%s (%d/%d)", name, n.Position(), len(n.dirs))
	}
	return name
}
