package volume

import "sort"

// DefaultModalityOrder is the preferred ordering of modality names in
// selectors. Names not listed sort after, alphabetically.
var DefaultModalityOrder = []string{"bravo", "seg", "t1_gd", "t1_pre", "flair"}

// Store holds the loaded modalities for the active subject. It is replaced
// wholesale on patient navigation.
type Store struct {
	byName map[string]*Volume
	order  []string
}

// NewStore creates an empty modality store with the default display order.
func NewStore() *Store {
	return &Store{byName: make(map[string]*Volume), order: DefaultModalityOrder}
}

// SetOrder overrides the preferred display order.
func (s *Store) SetOrder(order []string) {
	s.order = order
}

// Add registers a modality. A later Add with the same name replaces it.
func (s *Store) Add(v *Volume) {
	s.byName[v.Name] = v
}

// Get returns the modality with the given name, or nil.
func (s *Store) Get(name string) *Volume {
	return s.byName[name]
}

// Len returns the number of loaded modalities.
func (s *Store) Len() int {
	return len(s.byName)
}

// Segmentation returns the segmentation modality if one is loaded, or nil.
func (s *Store) Segmentation() *Volume {
	for _, name := range s.Names() {
		if v := s.byName[name]; v.IsSegmentation() {
			return v
		}
	}
	return nil
}

// OverlayFor returns the segmentation mask to composite over the named base
// modality, or nil. A segmentation is never its own overlay.
func (s *Store) OverlayFor(base string) *Volume {
	b := s.byName[base]
	if b == nil || b.IsSegmentation() {
		return nil
	}
	return s.Segmentation()
}

// Names returns the modality names in display order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := s.rank(names[i]), s.rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

func (s *Store) rank(name string) int {
	for i, n := range s.order {
		if n == name {
			return i
		}
	}
	return len(s.order)
}
