// Package app provides application state, the event bus, and lifecycle
// helpers for the viewer.
package app

import (
	"fmt"
	"log"
	"sync"

	"nifti-viewer/internal/config"
	"nifti-viewer/internal/nifti"
	"nifti-viewer/internal/patient"
	"nifti-viewer/internal/render"
	"nifti-viewer/internal/view"
	"nifti-viewer/internal/volume"
)

// Loader is the collaborator contract for reading one volume file.
type Loader func(path string) (*volume.Volume, error)

// EventType identifies application events.
type EventType int

const (
	EventPatientLoaded EventType = iota
	EventModalityChanged
	EventSlicesChanged
	EventParamsChanged
	EventFullscreenEntered
	EventFullscreenExited
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the viewer state: the active subject's modalities, slice and
// canvas view state, the primary renderer, and the fullscreen mirror while
// one is active. All mutation happens on the UI thread; the mutex only
// guards the listener registry.
type State struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventListener

	Load Loader

	Store     *volume.Store
	Navigator *patient.Navigator
	Modality  string

	Slices   *view.SliceState
	Canvases [3]*view.Canvas2D // per-axis zoom/pan, indexed by volume.Axis

	Renderer *render.Renderer
	Mirror   *render.Mirror

	modalityOrder []string
}

// NewState creates viewer state over the given 3D engine (nil for 2D-only
// mode).
func NewState(engine render.Engine) *State {
	s := &State{
		listeners: make(map[EventType][]EventListener),
		Load:      nifti.Load,
		Store:     volume.NewStore(),
		Slices:    view.NewSliceState(),
		Renderer:  render.NewRenderer(engine),
	}
	for i := range s.Canvases {
		s.Canvases[i] = view.NewCanvas2D()
	}
	return s
}

// ApplyConfig applies viewer configuration: subsampling bounds, render
// defaults, and the modality display order.
func (s *State) ApplyConfig(cfg *config.Config) {
	sub := s.Renderer.Subsampler()
	if cfg.Rendering.PerformanceThreshold > 0 {
		sub.Threshold = cfg.Rendering.PerformanceThreshold
	}
	if cfg.Rendering.SubsampleStride > 1 {
		sub.Stride = cfg.Rendering.SubsampleStride
	}
	if render.ValidColormap(cfg.Rendering.DefaultColormap) {
		s.Renderer.Params.Colormap = render.Colormap(cfg.Rendering.DefaultColormap)
	}
	if render.ValidOpacityPreset(cfg.Rendering.DefaultOpacityPreset) {
		s.Renderer.Params.Opacity = render.OpacityPreset(cfg.Rendering.DefaultOpacityPreset)
	}
	if len(cfg.ModalityOrder) > 0 {
		s.modalityOrder = cfg.ModalityOrder
		s.Store.SetOrder(cfg.ModalityOrder)
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Browse discovers the sibling patients of the selected directory and loads
// it as the active patient.
func (s *State) Browse(dir string) error {
	nav, err := patient.NewNavigator(dir)
	if err != nil {
		return err
	}
	s.Navigator = nav
	return s.loadPatient(dir)
}

// PrevPatient navigates to the previous patient if one exists.
func (s *State) PrevPatient() error {
	if s.Navigator == nil {
		return nil
	}
	dir, ok := s.Navigator.Prev()
	if !ok {
		return nil
	}
	return s.loadPatient(dir)
}

// NextPatient navigates to the next patient if one exists.
func (s *State) NextPatient() error {
	if s.Navigator == nil {
		return nil
	}
	dir, ok := s.Navigator.Next()
	if !ok {
		return nil
	}
	return s.loadPatient(dir)
}

// loadPatient replaces the modality store from the files in dir. Per-file
// load failures are logged and skipped; the load fails only when no
// modality could be read. The previously selected modality is kept when the
// new patient has it.
func (s *State) loadPatient(dir string) error {
	files, err := patient.VolumeFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no volume files found in %s", dir)
	}

	store := volume.NewStore()
	if len(s.modalityOrder) > 0 {
		store.SetOrder(s.modalityOrder)
	}
	for _, f := range files {
		v, err := s.Load(f)
		if err != nil {
			log.Printf("Error loading %s: %v", f, err)
			continue
		}
		store.Add(v)
	}
	if store.Len() == 0 {
		return fmt.Errorf("failed to load any volume from %s", dir)
	}
	s.Store = store

	names := store.Names()
	target := names[0]
	if s.Modality != "" && store.Get(s.Modality) != nil {
		target = s.Modality
	}

	s.Emit(EventPatientLoaded, dir)
	s.setModality(target, true)
	return nil
}

// SetModality switches the active modality, preserving the held window
// percentages and the 3D camera.
func (s *State) SetModality(name string) {
	s.setModality(name, false)
}

func (s *State) setModality(name string, resetCamera bool) {
	v := s.Store.Get(name)
	if v == nil {
		return
	}
	prev := s.Store.Get(s.Modality)
	s.Modality = name

	// A new shape recenters the slice indices and clears 2D zoom.
	if prev == nil || prev.Dims != v.Dims {
		s.Slices.SetShape(v.Dims)
		for _, c := range s.Canvases {
			c.Reset()
		}
	}
	for i, c := range s.Canvases {
		p := v.ExtractSlice(volume.Axis(i), s.Slices.Get(volume.Axis(i)))
		c.SetExtent(float64(p.W), float64(p.H))
	}

	s.Renderer.SetVolume(v, s.Store.OverlayFor(name), false)
	s.Renderer.Render(resetCamera)

	s.Emit(EventModalityChanged, name)
	s.Emit(EventSlicesChanged, nil)
}

// ActiveVolume returns the active modality's volume, nil when none loaded.
func (s *State) ActiveVolume() *volume.Volume {
	return s.Store.Get(s.Modality)
}

// ActiveOverlay returns the segmentation mask overlaid on the active
// modality, nil when absent or when the active modality is the mask itself.
func (s *State) ActiveOverlay() *volume.Volume {
	return s.Store.OverlayFor(s.Modality)
}

// ClickSlice maps a 2D click on one view onto the other two axes and
// notifies listeners.
func (s *State) ClickSlice(axis volume.Axis, x, y int) {
	s.Slices.Click(axis, x, y)
	s.Emit(EventSlicesChanged, nil)
}

// SetSlice moves one axis index and notifies listeners.
func (s *State) SetSlice(axis volume.Axis, index int) {
	s.Slices.Set(axis, index)
	s.Emit(EventSlicesChanged, nil)
}

// ResetView restores every view parameter to its default: midpoint slices,
// full-range window, gray colormap, medium opacity, shading off, hidden
// overlay, black background, cleared 2D zoom, and a refit camera.
func (s *State) ResetView() {
	if s.ActiveVolume() == nil {
		return
	}
	s.Slices.ResetToMidpoints()
	for _, c := range s.Canvases {
		c.Reset()
	}
	s.Renderer.Params = render.DefaultParams()
	s.Renderer.Render(true)
	s.Emit(EventParamsChanged, nil)
	s.Emit(EventSlicesChanged, nil)
}

// EnterFullscreen creates the mirror over an independent engine. The
// reconciliation callback fires on exit with the final parameters, before
// the primary surface re-renders.
func (s *State) EnterFullscreen(engine render.Engine, onExit func(render.Params)) *render.Mirror {
	if s.Mirror != nil && s.Mirror.Active() {
		return s.Mirror
	}
	m := render.EnterMirror(s.Renderer, engine, onExit)
	m.Modalities = s.Store.Names()
	m.Current = s.Modality
	if s.Navigator != nil {
		m.PatientLabel = s.Navigator.Label()
	}
	s.Mirror = m
	s.Emit(EventFullscreenEntered, nil)
	return m
}

// ExitFullscreen reconciles the mirror back into the primary renderer and
// discards it.
func (s *State) ExitFullscreen() {
	if s.Mirror == nil {
		return
	}
	s.Mirror.Exit()
	s.Mirror = nil
	s.Emit(EventFullscreenExited, nil)
	s.Emit(EventParamsChanged, nil)
}

// MirrorSwitchModality switches modality from the fullscreen panel: the 2D
// views follow, and the mirror re-expresses the held window percentages
// against the new volume's range.
func (s *State) MirrorSwitchModality(name string) {
	v := s.Store.Get(name)
	if v == nil || s.Mirror == nil {
		return
	}
	s.Modality = name
	if s.Slices.Dims != v.Dims {
		s.Slices.SetShape(v.Dims)
	}
	s.Mirror.SwitchModality(name, v, s.Store.OverlayFor(name))
	// Keep the primary renderer's volumes in step for the eventual exit.
	s.Renderer.SetVolume(v, s.Store.OverlayFor(name), false)
	s.Emit(EventModalityChanged, name)
	s.Emit(EventSlicesChanged, nil)
}

// MirrorNavigatePatient runs prev/next patient from the fullscreen panel and
// refreshes every derived quantity on the mirror without losing the
// in-progress contrast selection.
func (s *State) MirrorNavigatePatient(next bool) error {
	if s.Mirror == nil {
		return nil
	}
	var err error
	if next {
		err = s.NextPatient()
	} else {
		err = s.PrevPatient()
	}
	if err != nil {
		return err
	}
	v := s.ActiveVolume()
	if v == nil {
		return nil
	}
	label := ""
	if s.Navigator != nil {
		label = s.Navigator.Label()
	}
	s.Mirror.RefreshAfterPatientChange(label, s.Store.Names(), s.Modality, v, s.ActiveOverlay())
	return nil
}
