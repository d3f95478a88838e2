// Package main provides the entry point for the Peak Marker application.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"peak-marker/internal/app"
	"peak-marker/internal/config"
	"peak-marker/internal/version"
	"peak-marker/ui/mainwindow"
	"peak-marker/ui/prefs"
)

const appTitle = "Peak Marker"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	cfgPath, err := config.DefaultConfigPath()
	if err != nil {
		log.Printf("Config path unavailable: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Config error, using defaults: %v", err)
	}

	fyneApp := fyneapp.NewWithID("io.peakmarker.app")
	state := app.NewState(cfg)
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, state, appPrefs)
	win.SetTitle(appTitle)

	// Load a table passed on the command line, falling back to the file
	// from the previous session.
	path := appPrefs.String(prefs.KeyLastFile)
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path != "" {
		if err := state.LoadTable(path); err != nil {
			log.Printf("Failed to load %s: %v", path, err)
		}
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary is recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s", reloader.ExecPath())

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm(
			"New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				win.SavePreferences()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			},
			win.Window,
		)
	})

	reloader.Start()
}
