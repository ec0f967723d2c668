package render

import "testing"

// TestColormapEndpoints verifies t=0 and t=1 hit the first and last control
// colors for every map.
func TestColormapEndpoints(t *testing.T) {
	for _, cmap := range Colormaps {
		lo := cmap.Map(0)
		hi := cmap.Map(1)
		if lo == hi {
			t.Errorf("%s: endpoints must differ", cmap)
		}
		if lo.A != 255 || hi.A != 255 {
			t.Errorf("%s: colors must be opaque", cmap)
		}
	}

	if c := CmapGray.Map(0); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("gray(0) expected black, got %v", c)
	}
	if c := CmapGray.Map(1); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("gray(1) expected white, got %v", c)
	}
}

// TestColormapClamps verifies out-of-range values clamp to the endpoints.
func TestColormapClamps(t *testing.T) {
	if CmapViridis.Map(-2) != CmapViridis.Map(0) {
		t.Error("Negative values must clamp to the first stop")
	}
	if CmapViridis.Map(7) != CmapViridis.Map(1) {
		t.Error("Values above one must clamp to the last stop")
	}
}

func TestColormapMidpointInterpolates(t *testing.T) {
	c := CmapGray.Map(0.5)
	if c.R < 120 || c.R > 135 {
		t.Errorf("gray(0.5) expected mid gray, got %v", c)
	}
	if c.R != c.G || c.G != c.B {
		t.Errorf("gray must stay neutral, got %v", c)
	}
}

func TestValidColormap(t *testing.T) {
	if !ValidColormap("bone") {
		t.Error("bone must be valid")
	}
	if ValidColormap("jet") {
		t.Error("jet is not in the fixed set")
	}
}

// TestOpacityTransferMonotonic verifies every preset is monotonic with
// f(0) = 0.
func TestOpacityTransferMonotonic(t *testing.T) {
	for _, p := range OpacityPresets {
		if p.Transfer(0) != 0 {
			t.Errorf("%s: f(0) must be 0", p)
		}
		prev := 0.0
		for i := 1; i <= 10; i++ {
			v := p.Transfer(float64(i) / 10)
			if v < prev {
				t.Errorf("%s: not monotonic at %f", p, float64(i)/10)
			}
			prev = v
		}
		if p.Transfer(1) != 1 {
			t.Errorf("%s: f(1) must be 1, got %f", p, p.Transfer(1))
		}
	}
}
