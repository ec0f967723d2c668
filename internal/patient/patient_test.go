package patient

import (
	"os"
	"path/filepath"
	"testing"
)

// makePatients lays out a parent directory with patient folders; names
// without volume files are created as decoys.
func makePatients(t *testing.T, withVolumes []string, decoys []string) string {
	t.Helper()
	parent := t.TempDir()
	for _, name := range withVolumes {
		dir := filepath.Join(parent, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "t1_gd.nii.gz"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range decoys {
		dir := filepath.Join(parent, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return parent
}

// TestDiscoverFiltersAndSorts verifies only folders holding volume files are
// returned, in name order.
func TestDiscoverFiltersAndSorts(t *testing.T) {
	parent := makePatients(t, []string{"case3", "case1", "case2"}, []string{"empty", "docs"})

	dirs, err := Discover(parent)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(dirs) != 3 {
		t.Fatalf("Expected 3 patients, got %d: %v", len(dirs), dirs)
	}
	for i, want := range []string{"case1", "case2", "case3"} {
		if filepath.Base(dirs[i]) != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, filepath.Base(dirs[i]))
		}
	}
}

// TestNavigatorClampsAtEnds verifies prev/next stop at the list bounds.
func TestNavigatorClampsAtEnds(t *testing.T) {
	parent := makePatients(t, []string{"case1", "case2", "case3"}, nil)

	nav, err := NewNavigator(filepath.Join(parent, "case1"))
	if err != nil {
		t.Fatalf("NewNavigator failed: %v", err)
	}
	if nav.HasPrev() {
		t.Error("First patient must have no previous")
	}
	if _, ok := nav.Prev(); ok {
		t.Error("Prev at the start must report false")
	}

	if dir, ok := nav.Next(); !ok || filepath.Base(dir) != "case2" {
		t.Errorf("Expected case2, got %s ok=%v", dir, ok)
	}
	if dir, ok := nav.Next(); !ok || filepath.Base(dir) != "case3" {
		t.Errorf("Expected case3, got %s ok=%v", dir, ok)
	}
	if nav.HasNext() {
		t.Error("Last patient must have no next")
	}
	if _, ok := nav.Next(); ok {
		t.Error("Next at the end must report false")
	}
}

func TestNavigatorLabel(t *testing.T) {
	parent := makePatients(t, []string{"case1", "case2"}, nil)
	nav, err := NewNavigator(filepath.Join(parent, "case2"))
	if err != nil {
		t.Fatal(err)
	}
	if got := nav.Label(); got != "case2 (2/2)" {
		t.Errorf("Expected 'case2 (2/2)', got %q", got)
	}

	empty := &Navigator{}
	if got := empty.Label(); got != "No patient loaded" {
		t.Errorf("Expected empty label, got %q", got)
	}
}

// TestVolumeFiles verifies listing ignores subdirectories and other files.
func TestVolumeFiles(t *testing.T) {
	parent := makePatients(t, []string{"case1"}, nil)
	dir := filepath.Join(parent, "case1")
	if err := os.WriteFile(filepath.Join(dir, "seg.nii"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := VolumeFiles(dir)
	if err != nil {
		t.Fatalf("VolumeFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 volume files, got %d: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "seg.nii" || filepath.Base(files[1]) != "t1_gd.nii.gz" {
		t.Errorf("Unexpected listing: %v", files)
	}
}
