// Package fullscreen provides the enlarged 3D surface: an independent render
// engine plus a control panel bound to the mirrored parameter model.
package fullscreen

import (
	"log"

	"nifti-viewer/internal/app"
	"nifti-viewer/internal/render"
	"nifti-viewer/internal/view"
	"nifti-viewer/ui/volumeview"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Surface is the fullscreen window wrapping the mirror.
type Surface struct {
	win    fyne.Window
	state  *app.State
	mirror *render.Mirror
	volume *volumeview.View

	patientLabel *widget.Label
	modality     *widget.Select

	// updating suppresses widget callbacks during programmatic sync.
	updating bool
}

// Show enters fullscreen: it creates the window and engine, duplicates the
// renderer state into a mirror, and returns the live surface. onExit is the
// reconciliation callback invoked with the final parameters.
func Show(fyneApp fyne.App, state *app.State, onExit func(render.Params)) *Surface {
	s := &Surface{
		win:    fyneApp.NewWindow("3D View"),
		state:  state,
		volume: volumeview.New(),
	}
	s.mirror = state.EnterFullscreen(s.volume.Engine(), onExit)

	s.volume.OnToggleFullscreen = s.Close

	s.patientLabel = widget.NewLabel(s.mirror.PatientLabel)
	s.buildContent()

	s.win.SetOnClosed(func() {
		if s.mirror.Active() {
			state.ExitFullscreen()
		}
	})
	s.win.SetFullScreen(true)
	s.win.Show()
	return s
}

// Close exits fullscreen: the mirror reconciles back into the primary
// renderer, then the window is discarded.
func (s *Surface) Close() {
	s.state.ExitFullscreen()
	s.win.Close()
}

func (s *Surface) buildContent() {
	panel := s.buildPanel()
	split := container.NewHSplit(panel, s.volume)
	split.SetOffset(0.2)
	s.win.SetContent(split)
}

// setParams writes the working parameter copy and re-renders the mirror.
func (s *Surface) setParams(p render.Params) {
	s.mirror.SetParams(p)
	s.volume.Refresh()
}

func (s *Surface) buildPanel() fyne.CanvasObject {
	p := s.mirror.Params()

	prevBtn := widget.NewButton("< Prev", func() { s.navigate(false) })
	nextBtn := widget.NewButton("Next >", func() { s.navigate(true) })

	s.modality = widget.NewSelect(s.mirror.Modalities, func(name string) {
		if s.updating {
			return
		}
		s.state.MirrorSwitchModality(name)
		s.volume.Refresh()
	})
	s.modality.SetSelected(s.mirror.Current)

	colormap := widget.NewSelect(colormapNames(), func(name string) {
		if s.updating {
			return
		}
		p := s.mirror.Params()
		p.Colormap = render.Colormap(name)
		s.setParams(p)
	})
	colormap.SetSelected(string(p.Colormap))

	opacity := widget.NewSelect(opacityNames(), func(name string) {
		if s.updating {
			return
		}
		p := s.mirror.Params()
		p.Opacity = render.OpacityPreset(name)
		s.setParams(p)
	})
	opacity.SetSelected(string(p.Opacity))

	shading := widget.NewCheck("Shading", func(on bool) {
		if s.updating {
			return
		}
		p := s.mirror.Params()
		p.Shade = on
		s.setParams(p)
	})
	shading.SetChecked(p.Shade)

	minSlider := widget.NewSlider(0, view.WindowScale)
	minSlider.Step = 1
	minSlider.SetValue(float64(p.Window.MinPct))
	maxSlider := widget.NewSlider(0, view.WindowScale)
	maxSlider.Step = 1
	maxSlider.SetValue(float64(p.Window.MaxPct))

	syncWindow := func() {
		s.updating = true
		p := s.mirror.Params()
		minSlider.SetValue(float64(p.Window.MinPct))
		maxSlider.SetValue(float64(p.Window.MaxPct))
		s.updating = false
	}

	minSlider.OnChangeEnded = func(val float64) {
		if s.updating {
			return
		}
		p := s.mirror.Params()
		p.Window.SetMinPct(int(val))
		s.setParams(p)
		syncWindow()
	}
	maxSlider.OnChangeEnded = func(val float64) {
		if s.updating {
			return
		}
		p := s.mirror.Params()
		p.Window.SetMaxPct(int(val))
		s.setParams(p)
		syncWindow()
	}

	preset := widget.NewSelect(view.PresetNames(), func(name string) {
		if s.updating {
			return
		}
		p := s.mirror.Params()
		if p.Window.ApplyPreset(name) {
			s.setParams(p)
			syncWindow()
		}
	})

	overlayOpacity := widget.NewSlider(0, 100)
	overlayOpacity.SetValue(p.OverlayOpacity * 100)
	overlayOpacity.OnChangeEnded = func(val float64) {
		if s.updating {
			return
		}
		p := s.mirror.Params()
		p.OverlayOpacity = val / 100
		s.setParams(p)
	}

	alwaysVisible := widget.NewCheck("Overlay always visible", func(on bool) {
		if s.updating {
			return
		}
		p := s.mirror.Params()
		p.OverlayAlwaysVisible = on
		s.setParams(p)
	})
	alwaysVisible.SetChecked(p.OverlayAlwaysVisible)

	background := widget.NewSlider(0, 100)
	background.SetValue(p.Background * 100)
	background.OnChangeEnded = func(val float64) {
		if s.updating {
			return
		}
		p := s.mirror.Params()
		p.Background = val / 100
		s.setParams(p)
	}

	resetCam := widget.NewButton("Reset Camera", func() {
		s.mirror.ResetCamera()
		s.volume.Refresh()
	})
	exitBtn := widget.NewButton("Exit Fullscreen", s.Close)

	return container.NewVBox(
		s.patientLabel,
		container.NewGridWithColumns(2, prevBtn, nextBtn),
		widget.NewLabel("Modality:"),
		s.modality,
		widget.NewLabel("Colormap:"),
		colormap,
		widget.NewLabel("Opacity:"),
		opacity,
		shading,
		widget.NewLabel("Window Min:"),
		minSlider,
		widget.NewLabel("Window Max:"),
		maxSlider,
		widget.NewLabel("Preset:"),
		preset,
		widget.NewLabel("Overlay Opacity:"),
		overlayOpacity,
		alwaysVisible,
		widget.NewLabel("Background:"),
		background,
		resetCam,
		exitBtn,
	)
}

// navigate runs prev/next patient while mirrored and refreshes the derived
// labels and modality list without losing the contrast selection.
func (s *Surface) navigate(next bool) {
	if err := s.state.MirrorNavigatePatient(next); err != nil {
		log.Printf("Patient navigation failed: %v", err)
		return
	}
	s.updating = true
	s.patientLabel.SetText(s.mirror.PatientLabel)
	s.modality.Options = s.mirror.Modalities
	s.modality.SetSelected(s.mirror.Current)
	s.modality.Refresh()
	s.updating = false
	s.volume.Refresh()
}

func colormapNames() []string {
	names := make([]string, len(render.Colormaps))
	for i, c := range render.Colormaps {
		names[i] = string(c)
	}
	return names
}

func opacityNames() []string {
	names := make([]string, len(render.OpacityPresets))
	for i, p := range render.OpacityPresets {
		names[i] = string(p)
	}
	return names
}
