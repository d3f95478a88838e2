// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"peak-marker/internal/app"
	"peak-marker/internal/export"
	"peak-marker/internal/session"
	"peak-marker/internal/version"
	"peak-marker/ui/dialogs"
	"peak-marker/ui/plotview"
	"peak-marker/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	plot      *plotview.PlotView
	rowLabel  *widget.Label
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Peak Marker")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	w := float32(p.FloatWithFallback(prefs.KeyWindowW, 1100))
	h := float32(p.FloatWithFallback(prefs.KeyWindowH, 760))
	win.Resize(fyne.NewSize(w, h))

	win.SetCloseIntercept(func() {
		mw.SavePreferences()
		win.Close()
	})

	return mw
}

// SavePreferences persists window geometry and the last opened file.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowW, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowH, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// setupUI creates the main layout.
func (mw *MainWindow) setupUI() {
	mw.plot = plotview.New()
	mw.plot.OnClick(func(x, y float64) {
		mw.state.ClickAt(x, y)
	})

	mw.rowLabel = widget.NewLabel("No data loaded")
	mw.statusBar = widget.NewLabel("Open a data file (Excel/CSV) to begin")

	toolbar := container.NewHBox(
		widget.NewButton("← Previous Row", func() { mw.state.PrevRow() }),
		widget.NewButton("Next Row →", func() { mw.state.NextRow() }),
		widget.NewSeparator(),
		widget.NewButton("Clear", func() { mw.state.ClearCurrent() }),
		widget.NewButton("Manual Input", mw.onManualEntry),
		widget.NewSeparator(),
		widget.NewButton("Save Results", mw.onSaveResults),
		widget.NewButton("Save Plot", mw.onSavePlot),
		widget.NewButton("Switch File", mw.onOpenFile),
		mw.rowLabel,
	)

	content := container.NewBorder(
		toolbar,                            // top
		container.NewPadded(mw.statusBar),  // bottom
		nil,                                // left
		nil,                                // right
		mw.plot,                            // center
	)
	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Data File...", mw.onOpenFile),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Results", mw.onSaveResults),
		fyne.NewMenuItem("Save Plot", mw.onSavePlot),
		fyne.NewMenuItem("Save All Plots", mw.onSaveAllPlots),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Clear Selection", func() { mw.state.ClearCurrent() }),
		fyne.NewMenuItem("Manual Input...", mw.onManualEntry),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Instructions", mw.onShowInstructions),
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About",
				fmt.Sprintf("Peak Marker v%s", version.Version), mw.Window)
		}),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// setupShortcuts wires the single-key commands: arrows navigate, c clears,
// m opens manual input, s saves results, o opens a file, p saves the
// current plot, a saves all plots.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyRight:
			mw.state.NextRow()
		case fyne.KeyLeft:
			mw.state.PrevRow()
		case fyne.KeyC:
			mw.state.ClearCurrent()
		case fyne.KeyM:
			mw.onManualEntry()
		case fyne.KeyS:
			mw.onSaveResults()
		case fyne.KeyO:
			mw.onOpenFile()
		case fyne.KeyP:
			mw.onSavePlot()
		case fyne.KeyA:
			mw.onSaveAllPlots()
		}
	})
}

// setupEventHandlers re-renders on every state change.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventTableLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Peak Marker - " + filepath.Base(path))
			mw.prefs.SetString(prefs.KeyLastFile, path)
			mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		}
		mw.refresh()
	})
	mw.state.On(app.EventRowChanged, func(interface{}) { mw.refresh() })
	mw.state.On(app.EventAnnotationChanged, func(interface{}) { mw.refresh() })
	mw.state.On(app.EventDiagnostic, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.statusBar.SetText(msg)
		}
	})
	mw.state.On(app.EventResultsSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.statusBar.SetText("Results saved to " + path)
		}
	})
	mw.state.On(app.EventPlotSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.statusBar.SetText("Plot saved to " + path)
		}
	})
}

// refresh re-renders the current row's chart.
func (mw *MainWindow) refresh() {
	if !mw.state.HasTable() {
		mw.rowLabel.SetText("No data loaded")
		return
	}
	view, err := mw.state.CurrentView()
	if err != nil {
		mw.statusBar.SetText(err.Error())
		return
	}

	cfg := mw.state.Config().Export
	img, geom, err := export.RenderRowImage(view, cfg.ChartWidth, cfg.ChartHeight, fillHint(view.Annotation))
	if err != nil {
		mw.statusBar.SetText(err.Error())
		return
	}
	mw.plot.SetChart(img, geom)
	mw.rowLabel.SetText(fmt.Sprintf("Row %d/%d: %s", view.Index+1, mw.state.RowCount(), view.Label))
}

// fillHint tells the operator which landmark the next click confirms.
func fillHint(ann session.RowAnnotation) string {
	for _, slot := range session.Slots() {
		if ann.Get(slot) == nil {
			return fmt.Sprintf("Click to select the %s point", slot)
		}
	}
	return "All landmarks set - the next click resets this row"
}

func (mw *MainWindow) onOpenFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if rc == nil {
			return // cancelled, keep the current table
		}
		path := rc.URI().Path()
		rc.Close()
		if err := mw.state.LoadTable(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".xlsx", ".xls"}))
	if dir := mw.prefs.String(prefs.KeyLastDir); dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fd.SetLocation(lister)
		}
	}
	fd.Show()
}

func (mw *MainWindow) onManualEntry() {
	if !mw.state.HasTable() {
		mw.statusBar.SetText("No data loaded, cannot perform manual input")
		return
	}
	view, err := mw.state.CurrentView()
	if err != nil {
		mw.statusBar.SetText(err.Error())
		return
	}
	dialogs.NewManualEntryDialog(mw.Window, func(entries map[session.Slot]string) {
		mw.state.ApplyManual(entries)
	}).Show(view.Annotation)
}

func (mw *MainWindow) onSaveResults() {
	if _, err := mw.state.SaveResults(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSavePlot() {
	if _, err := mw.state.SaveCurrentPlot(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveAllPlots() {
	saved, failed, err := mw.state.SaveAllPlots()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.statusBar.SetText(fmt.Sprintf("Saved %d plots (%d errors)", saved, failed))
}

func (mw *MainWindow) onShowInstructions() {
	dialog.ShowInformation("Instructions",
		"Click on the plot to select the LEFT point first, then TOP, then RIGHT.\n"+
			"Clicking again after RIGHT resets the selection for the current row.\n\n"+
			"Left/Right arrows: navigate between rows\n"+
			"c: clear selection for current row\n"+
			"m: manual coordinate input\n"+
			"s: save all results to CSV\n"+
			"o: open a new data file\n"+
			"p: save current plot image\n"+
			"a: save all plot images",
		mw.Window)
}
