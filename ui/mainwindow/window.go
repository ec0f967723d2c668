// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"

	"nifti-viewer/internal/app"
	"nifti-viewer/internal/render"
	"nifti-viewer/internal/version"
	"nifti-viewer/internal/view"
	"nifti-viewer/internal/volume"
	"nifti-viewer/ui/fullscreen"
	"nifti-viewer/ui/prefs"
	"nifti-viewer/ui/sliceview"
	"nifti-viewer/ui/volumeview"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	slices  [3]*sliceview.SliceView
	volView *volumeview.View // nil in 2D-only mode
	fs      *fullscreen.Surface

	patientLabel *widget.Label
	statusBar    *widget.Label

	modality       *widget.Select
	colormap       *widget.Select
	opacity        *widget.Select
	shading        *widget.Check
	minSlider      *widget.Slider
	maxSlider      *widget.Slider
	preset         *widget.Select
	overlayOpacity *widget.Slider
	alwaysVisible  *widget.Check
	background     *widget.Slider
	infoLabel      *widget.Label

	// updating suppresses control callbacks while syncing from state.
	updating bool
}

// New creates the main window. volView carries the primary 3D surface and is
// nil when 3D rendering is unavailable; the viewer then runs 2D-only.
func New(fyneApp fyne.App, state *app.State, volView *volumeview.View, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("NIfTI Viewer")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		prefs:   appPrefs,
		volView: volView,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.syncControls()
	mw.Resize(fyne.NewSize(1280, 900))

	return mw
}

// setupUI creates the main layout: control panel | 2x2 view grid.
func (mw *MainWindow) setupUI() {
	for i := range mw.slices {
		mw.slices[i] = sliceview.New(mw.state, volume.Axis(i))
	}

	mw.patientLabel = widget.NewLabel("No patient loaded")
	mw.statusBar = widget.NewLabel("Ready")

	var threeD fyne.CanvasObject
	if mw.volView != nil {
		mw.volView.OnToggleFullscreen = mw.onToggleFullscreen
		threeD = mw.volView
	} else {
		threeD = widget.NewLabel("3D rendering unavailable")
	}

	grid := container.NewGridWithColumns(2,
		mw.slices[volume.Sagittal].Container(),
		mw.slices[volume.Coronal].Container(),
		mw.slices[volume.Axial].Container(),
		threeD,
	)

	topBar := container.NewHBox(
		widget.NewButton("Browse...", mw.onBrowse),
		widget.NewButton("< Prev", func() { mw.navigate(false) }),
		widget.NewButton("Next >", func() { mw.navigate(true) }),
		mw.patientLabel,
	)

	split := container.NewHSplit(mw.buildControlPanel(), grid)
	split.SetOffset(0.22)

	content := container.NewBorder(
		topBar,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)
	mw.SetContent(content)
}

// buildControlPanel assembles the render-parameter controls bound to the
// primary surface.
func (mw *MainWindow) buildControlPanel() fyne.CanvasObject {
	mw.modality = widget.NewSelect(nil, func(name string) {
		if mw.updating {
			return
		}
		mw.state.SetModality(name)
	})

	mw.colormap = widget.NewSelect(colormapNames(), func(name string) {
		if mw.updating {
			return
		}
		mw.mutateParams(func(p *render.Params) { p.Colormap = render.Colormap(name) })
		mw.prefs.SetString(prefs.KeyColormap, name)
	})

	mw.opacity = widget.NewSelect(opacityNames(), func(name string) {
		if mw.updating {
			return
		}
		mw.mutateParams(func(p *render.Params) { p.Opacity = render.OpacityPreset(name) })
	})

	mw.shading = widget.NewCheck("Shading", func(on bool) {
		if mw.updating {
			return
		}
		mw.mutateParams(func(p *render.Params) { p.Shade = on })
	})

	mw.minSlider = widget.NewSlider(0, view.WindowScale)
	mw.minSlider.Step = 1
	mw.minSlider.OnChangeEnded = func(val float64) {
		if mw.updating {
			return
		}
		mw.mutateParams(func(p *render.Params) { p.Window.SetMinPct(int(val)) })
		mw.syncControls()
	}

	mw.maxSlider = widget.NewSlider(0, view.WindowScale)
	mw.maxSlider.Step = 1
	mw.maxSlider.SetValue(view.WindowScale)
	mw.maxSlider.OnChangeEnded = func(val float64) {
		if mw.updating {
			return
		}
		mw.mutateParams(func(p *render.Params) { p.Window.SetMaxPct(int(val)) })
		mw.syncControls()
	}

	mw.preset = widget.NewSelect(view.PresetNames(), func(name string) {
		if mw.updating {
			return
		}
		mw.mutateParams(func(p *render.Params) { p.Window.ApplyPreset(name) })
		mw.syncControls()
	})

	mw.overlayOpacity = widget.NewSlider(0, 100)
	mw.overlayOpacity.OnChangeEnded = func(val float64) {
		if mw.updating {
			return
		}
		mw.mutateParams(func(p *render.Params) { p.OverlayOpacity = val / 100 })
	}

	mw.alwaysVisible = widget.NewCheck("Overlay always visible", func(on bool) {
		if mw.updating {
			return
		}
		mw.mutateParams(func(p *render.Params) { p.OverlayAlwaysVisible = on })
	})

	mw.background = widget.NewSlider(0, 100)
	mw.background.OnChangeEnded = func(val float64) {
		if mw.updating {
			return
		}
		mw.mutateParams(func(p *render.Params) { p.Background = val / 100 })
		mw.prefs.SetFloat(prefs.KeyBackground, val/100)
	}

	mw.infoLabel = widget.NewLabel("")
	mw.infoLabel.Wrapping = fyne.TextWrapWord

	return container.NewVScroll(container.NewVBox(
		widget.NewCard("Modality", "", mw.modality),
		widget.NewCard("Contrast", "", container.NewVBox(
			widget.NewLabel("Min %:"),
			mw.minSlider,
			widget.NewLabel("Max %:"),
			mw.maxSlider,
			widget.NewLabel("Preset:"),
			mw.preset,
		)),
		widget.NewCard("3D Rendering", "", container.NewVBox(
			widget.NewLabel("Colormap:"),
			mw.colormap,
			widget.NewLabel("Opacity:"),
			mw.opacity,
			mw.shading,
			widget.NewLabel("Background:"),
			mw.background,
		)),
		widget.NewCard("Segmentation", "", container.NewVBox(
			widget.NewLabel("Overlay Opacity:"),
			mw.overlayOpacity,
			mw.alwaysVisible,
		)),
		widget.NewCard("Info", "", mw.infoLabel),
		widget.NewButton("Reset View", mw.onResetView),
		widget.NewButton("Fullscreen 3D", mw.onToggleFullscreen),
	))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Patient Directory...", mw.onBrowse),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Previous Patient", func() { mw.navigate(false) }),
		fyne.NewMenuItem("Next Patient", func() { mw.navigate(true) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset View", mw.onResetView),
		fyne.NewMenuItem("Fullscreen 3D", mw.onToggleFullscreen),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventPatientLoaded, func(data interface{}) {
		if mw.state.Navigator != nil {
			mw.patientLabel.SetText(mw.state.Navigator.Label())
		}
		if dir, ok := data.(string); ok {
			mw.updateStatus("Loaded patient: " + dir)
		}
	})

	mw.state.On(app.EventModalityChanged, func(data interface{}) {
		mw.updating = true
		mw.modality.Options = mw.state.Store.Names()
		mw.modality.SetSelected(mw.state.Modality)
		mw.modality.Refresh()
		mw.updating = false
		mw.updateInfo()
		mw.refreshViews()
	})

	mw.state.On(app.EventParamsChanged, func(interface{}) {
		mw.syncControls()
		mw.refreshViews()
	})

	mw.state.On(app.EventSlicesChanged, func(interface{}) {
		mw.refreshViews()
	})
}

// mutateParams applies a parameter change and re-renders, preserving the
// camera.
func (mw *MainWindow) mutateParams(f func(*render.Params)) {
	f(&mw.state.Renderer.Params)
	mw.state.Renderer.Render(false)
	mw.refreshViews()
}

// syncControls writes the primary renderer's parameters back into the
// control widgets; used after reset and after fullscreen reconciliation.
func (mw *MainWindow) syncControls() {
	p := mw.state.Renderer.Params
	mw.updating = true
	mw.colormap.SetSelected(string(p.Colormap))
	mw.opacity.SetSelected(string(p.Opacity))
	mw.shading.SetChecked(p.Shade)
	mw.minSlider.SetValue(float64(p.Window.MinPct))
	mw.maxSlider.SetValue(float64(p.Window.MaxPct))
	mw.overlayOpacity.SetValue(p.OverlayOpacity * 100)
	mw.alwaysVisible.SetChecked(p.OverlayAlwaysVisible)
	mw.background.SetValue(p.Background * 100)
	mw.updating = false
}

func (mw *MainWindow) refreshViews() {
	for _, sv := range mw.slices {
		sv.Refresh()
	}
	if mw.volView != nil {
		mw.volView.Refresh()
	}
}

// updateInfo fills the info panel from the active modality's statistics.
func (mw *MainWindow) updateInfo() {
	v := mw.state.ActiveVolume()
	if v == nil {
		mw.infoLabel.SetText("")
		return
	}
	s := v.Summary()
	mw.infoLabel.SetText(fmt.Sprintf(
		"Shape: %d x %d x %d\nSpacing: %.2f x %.2f x %.2f mm\nRange: [%.1f, %.1f]\nMean: %.2f\nStd: %.2f",
		v.Dims[0], v.Dims[1], v.Dims[2],
		v.Spacing[0], v.Spacing[1], v.Spacing[2],
		s.Min, s.Max, s.Mean, s.Std))
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// onBrowse opens the patient directory chooser.
func (mw *MainWindow) onBrowse() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		dir := uri.Path()
		mw.prefs.SetString(prefs.KeyLastDirectory, dir)
		if err := mw.state.Browse(dir); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
	}, mw.Window)
	if last := mw.prefs.String(prefs.KeyLastDirectory, ""); last != "" {
		if loc, err := storage.ListerForURI(storage.NewFileURI(last)); err == nil {
			fd.SetLocation(loc)
		}
	}
	fd.Show()
}

func (mw *MainWindow) navigate(next bool) {
	var err error
	if next {
		err = mw.state.NextPatient()
	} else {
		err = mw.state.PrevPatient()
	}
	if err != nil {
		log.Printf("Patient navigation failed: %v", err)
		mw.updateStatus(fmt.Sprintf("Navigation failed: %v", err))
	}
}

func (mw *MainWindow) onResetView() {
	mw.state.ResetView()
	mw.updateStatus("View reset")
}

// onToggleFullscreen enters the mirrored fullscreen surface, or exits it when
// already active.
func (mw *MainWindow) onToggleFullscreen() {
	if mw.state.Mirror != nil && mw.state.Mirror.Active() {
		if mw.fs != nil {
			mw.fs.Close()
			mw.fs = nil
		}
		return
	}
	if mw.state.ActiveVolume() == nil {
		mw.updateStatus("Load a patient before entering fullscreen")
		return
	}
	mw.fs = fullscreen.Show(mw.app, mw.state, func(p render.Params) {
		// Reconciliation: the mirror's final parameters become the primary
		// surface's state; EventParamsChanged re-syncs the controls.
		mw.updateStatus(fmt.Sprintf("Fullscreen closed (colormap %s)", p.Colormap))
	})
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About NIfTI Viewer",
		fmt.Sprintf("NIfTI Viewer v%s\n\n"+
			"Synchronized multi-view volume visualization.\n\n"+
			"Built: %s\nCommit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
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
