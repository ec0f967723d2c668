// Package main provides the entry point for the NIfTI Viewer application.
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"nifti-viewer/internal/app"
	"nifti-viewer/internal/config"
	"nifti-viewer/internal/render"
	"nifti-viewer/ui/mainwindow"
	"nifti-viewer/ui/prefs"
	"nifti-viewer/ui/volumeview"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const (
	appTitle   = "NIfTI Viewer"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Printf("Config load failed, using defaults: %v", err)
		cfg = config.Default()
	}

	fyneApp := fyneapp.NewWithID("nifti-viewer")
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	appPrefs := prefs.Load()

	var volView *volumeview.View
	var engine render.Engine
	if cfg.Rendering.Enable3D {
		volView = volumeview.New()
		volView.SetDoubleClickTimeout(cfg.DoubleClickTimeout())
		engine = volView.Engine()
	} else {
		log.Println("3D rendering disabled; running in 2D-only mode")
	}

	state := app.NewState(engine)
	state.ApplyConfig(cfg)

	// Preferences override the config defaults.
	if name := appPrefs.String(prefs.KeyColormap, ""); render.ValidColormap(name) {
		state.Renderer.Params.Colormap = render.Colormap(name)
	}
	state.Renderer.Params.Background = appPrefs.Float(prefs.KeyBackground, state.Renderer.Params.Background)

	win := mainwindow.New(fyneApp, state, volView, appPrefs)
	win.SetTitle(appTitle)

	// A directory argument loads that patient immediately.
	if len(os.Args) > 1 {
		if err := state.Browse(os.Args[1]); err != nil {
			log.Printf("Failed to load patient %s: %v", os.Args[1], err)
		}
	}

	setupHotReload(win, appPrefs)

	win.Show()
	fyneApp.Run()

	if err := appPrefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "nifti-viewer", "config.yaml")
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled.
func setupHotReload(win *mainwindow.MainWindow, appPrefs *prefs.Prefs) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s", reloader.ExecPath())

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					return
				}
				if err := appPrefs.Save(); err != nil {
					log.Printf("Hot reload: failed to save preferences: %v", err)
				}
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win)
	})

	reloader.Start()
}
