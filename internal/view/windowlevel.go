// Package view holds the presentation-agnostic view state: window/level
// contrast mapping, synchronized slice indices, and 2D zoom/pan.
package view

// Window/level state is kept in tenths of a percent of the data range
// (0..1000), never in absolute intensities. Absolute bounds are derived per
// volume, so contrast survives switching to a modality with a different
// intensity range.

// WindowScale is the slider resolution for contrast percentages.
const WindowScale = 1000

// WindowLevel is a percentage-based contrast window.
type WindowLevel struct {
	MinPct int // 0..1000, tenths of a percent
	MaxPct int
}

// FullRange returns the default window covering the entire data range.
func FullRange() WindowLevel {
	return WindowLevel{MinPct: 0, MaxPct: WindowScale}
}

// SetMinPct sets the lower bound, clamped to the slider range. If the result
// would not leave room below the upper bound, the upper bound is widened.
func (w *WindowLevel) SetMinPct(pct int) {
	w.MinPct = clampInt(pct, 0, WindowScale)
	if w.MinPct >= w.MaxPct {
		w.MaxPct = clampInt(w.MinPct+1, 0, WindowScale)
		if w.MaxPct <= w.MinPct {
			w.MinPct = w.MaxPct - 1
		}
	}
}

// SetMaxPct sets the upper bound, clamped, widening upward past the lower
// bound when necessary.
func (w *WindowLevel) SetMaxPct(pct int) {
	w.MaxPct = clampInt(pct, 0, WindowScale)
	if w.MaxPct <= w.MinPct {
		w.MaxPct = clampInt(w.MinPct+1, 0, WindowScale)
		if w.MaxPct <= w.MinPct {
			w.MinPct = w.MaxPct - 1
		}
	}
}

// Resolve converts the percentage window into absolute intensity bounds for
// the given data range. The result always satisfies lo < hi:
//
//   - a constant volume (dataMax == dataMin) yields [lo, lo+1]
//   - an inverted or collapsed window widens hi by 1% of the data range
func (w WindowLevel) Resolve(dataMin, dataMax float64) (lo, hi float64) {
	span := dataMax - dataMin
	if span <= 0 {
		lo = dataMin
		return lo, lo + 1
	}
	lo = dataMin + float64(w.MinPct)/WindowScale*span
	hi = dataMin + float64(w.MaxPct)/WindowScale*span
	if lo >= hi {
		hi = lo + 0.01*span
	}
	return lo, hi
}

// Preset is a named contrast window in whole percent.
type Preset struct {
	Name   string
	MinPct int // percent, not tenths
	MaxPct int
}

// WindowPresets are the quick contrast settings for common tissue types.
var WindowPresets = []Preset{
	{"Full Range", 0, 100},
	{"Brain", 0, 40},
	{"Soft Tissue", 10, 50},
	{"Bone", 50, 100},
	{"Tumor", 5, 30},
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range WindowPresets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetNames lists the preset names in menu order.
func PresetNames() []string {
	names := make([]string, len(WindowPresets))
	for i, p := range WindowPresets {
		names[i] = p.Name
	}
	return names
}

// ApplyPreset sets both window bounds from the named preset. Unknown names
// leave the window unchanged.
func (w *WindowLevel) ApplyPreset(name string) bool {
	p, ok := LookupPreset(name)
	if !ok {
		return false
	}
	w.MinPct = p.MinPct * 10
	w.MaxPct = p.MaxPct * 10
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
