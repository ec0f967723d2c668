package image

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"nifti-viewer/internal/render"
	"nifti-viewer/internal/volume"
)

// Overlay drawing constants: segmentation voxels are splatted in red at half
// opacity over the grayscale slice.
var (
	overlayColor   = color.RGBA{R: 255, A: 255}
	crosshairColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

const overlayAlpha = 0.5

// Composite assembles one 2D view: the windowed base slice, an optional
// segmentation mask, and the crosshair lines marking the other two axes.
type Composite struct {
	Base    *Layer
	Mask    *volume.SlicePlane // nil when no overlay applies
	MaskOn  bool

	// Crosshair positions in plane coordinates; negative disables a line.
	CrossH int
	CrossV int
}

// NewComposite creates a composite over the base layer with crosshairs off.
func NewComposite(base *Layer) *Composite {
	return &Composite{Base: base, CrossH: -1, CrossV: -1}
}

// Render produces the composited slice image at full plane resolution.
func (c *Composite) Render() *image.RGBA {
	img := c.Base.Render()
	if c.MaskOn && c.Mask != nil {
		c.blendMask(img)
	}
	c.drawCrosshairs(img)
	return img
}

// blendMask splats the overlay color wherever the mask is positive.
func (c *Composite) blendMask(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.Mask.At(x, y) <= 0 {
				continue
			}
			base := img.RGBAAt(x, y)
			img.SetRGBA(x, y, blend(base, overlayColor, overlayAlpha))
		}
	}
}

// drawCrosshairs draws the horizontal and vertical slice-position lines.
func (c *Composite) drawCrosshairs(img *image.RGBA) {
	b := img.Bounds()
	if c.CrossH >= b.Min.Y && c.CrossH < b.Max.Y {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, c.CrossH, crosshairColor)
		}
	}
	if c.CrossV >= b.Min.X && c.CrossV < b.Max.X {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			img.SetRGBA(c.CrossV, y, crosshairColor)
		}
	}
}

// blend mixes src over dst at the given opacity.
func blend(dst, src color.RGBA, opacity float64) color.RGBA {
	mix := func(d, s uint8) uint8 {
		v := float64(d)*(1-opacity) + float64(s)*opacity
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint8(v + 0.5)
	}
	return color.RGBA{
		R: mix(dst.R, src.R),
		G: mix(dst.G, src.G),
		B: mix(dst.B, src.B),
		A: 255,
	}
}

// ScaleRegion scales the source rectangle of a slice raster into a
// destination of the given pixel size. Used to realize the 2D zoom/pan
// bounds inside the widget viewport.
func ScaleRegion(src *image.RGBA, region image.Rectangle, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	region = region.Intersect(src.Bounds())
	if region.Empty() {
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, region, draw.Src, nil)
	return dst
}

// ScalarBar renders a vertical color scale for the given colormap, top = Hi.
func ScalarBar(cmap render.Colormap, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 2 {
		h = 2
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := cmap.Map(1 - float64(y)/float64(h-1))
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
