// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"peak-marker/internal/config"
	"peak-marker/internal/export"
	"peak-marker/internal/peaks"
	"peak-marker/internal/session"
	"peak-marker/internal/table"
)

// ErrBusy is returned when an annotation or navigation event arrives while
// an export or table replacement is still running. The synchronous model
// requires those to finish without interleaved session mutation.
var ErrBusy = errors.New("app: operation in progress")

// EventType identifies different application events.
type EventType int

const (
	EventTableLoaded EventType = iota
	EventRowChanged
	EventAnnotationChanged
	EventResultsSaved
	EventPlotSaved
	EventDiagnostic
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State is the session controller. It owns the annotation session and
// translates UI intents (clicks, navigation, manual entry, save commands)
// into session and export operations, emitting events the UI listens to
// for re-rendering.
type State struct {
	mu sync.RWMutex

	cfg  config.Config
	sess *session.Session

	// busy blocks session mutation while an export or load runs.
	busy bool

	listeners map[EventType][]EventListener
}

// NewState creates a controller with a detector configured from cfg.
func NewState(cfg config.Config) *State {
	opts := peaks.Options{
		Prominence: cfg.Detection.Prominence,
		MinWidth:   cfg.Detection.MinWidth,
	}
	finder := func(y []float64) []int { return peaks.Detect(y, opts) }
	return &State{
		cfg:       cfg,
		sess:      session.New(finder),
		listeners: make(map[EventType][]EventListener),
	}
}

// Config returns the active configuration.
func (s *State) Config() config.Config { return s.cfg }

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

// Diagnose logs a non-fatal problem and surfaces it to the UI.
func (s *State) Diagnose(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Print(msg)
	s.Emit(EventDiagnostic, msg)
}

// HasTable reports whether a table is loaded.
func (s *State) HasTable() bool { return s.sess.Table() != nil }

// RowCount returns the loaded table's row count, 0 when none is loaded.
func (s *State) RowCount() int { return s.sess.RowCount() }

// CurrentRow returns the current row index.
func (s *State) CurrentRow() int { return s.sess.Current() }

// CurrentView returns the render snapshot of the current row.
func (s *State) CurrentView() (session.RowView, error) {
	return s.sess.RowView(s.sess.Current())
}

// LoadTable replaces the loaded table with the file at path. On failure the
// previous table, annotations, and cache stay active. On success every
// annotation is reset, the cache is cleared, and the current row returns
// to 0.
func (s *State) LoadTable(path string) error {
	if err := s.beginExclusive(); err != nil {
		return err
	}
	defer s.endExclusive()

	t, err := table.Load(path)
	if err != nil {
		s.Diagnose("Load failed, keeping current table: %v", err)
		return err
	}
	s.sess.SetTable(t)
	log.Printf("Loaded table %s with %d rows", path, t.RowCount())
	s.Emit(EventTableLoaded, path)
	s.Emit(EventRowChanged, 0)
	return nil
}

// NextRow advances to the next row, wrapping. Partial annotations on the
// row being left persist.
func (s *State) NextRow() { s.navigate(1) }

// PrevRow moves to the previous row, wrapping.
func (s *State) PrevRow() { s.navigate(-1) }

func (s *State) navigate(dir int) {
	if s.isBusy() || s.sess.RowCount() == 0 {
		return
	}
	var idx int
	if dir > 0 {
		idx = s.sess.Next()
	} else {
		idx = s.sess.Prev()
	}
	s.Emit(EventRowChanged, idx)
}

// ClickAt handles a pointer click already converted to data-space
// coordinates: snap to the nearest sample and confirm the next landmark
// slot, or reset the row when it was full.
func (s *State) ClickAt(x, y float64) {
	if s.isBusy() || !s.HasTable() {
		return
	}
	row := s.sess.Current()
	res, err := s.sess.ConfirmPoint(row, x, y)
	if err != nil {
		s.Diagnose("Cannot confirm point on row %d: %v", row, err)
		return
	}
	if res.Reset {
		log.Printf("Row %d: all landmarks set, selection reset", row)
	} else {
		log.Printf("Row %d: %s = (%.4f, %.4f)", row, res.Slot, res.Point.X, res.Point.Y)
	}
	s.Emit(EventAnnotationChanged, res)
}

// ClearCurrent unsets all three landmarks of the current row.
func (s *State) ClearCurrent() {
	if s.isBusy() || !s.HasTable() {
		return
	}
	row := s.sess.Current()
	if err := s.sess.Clear(row); err != nil {
		s.Diagnose("Cannot clear row %d: %v", row, err)
		return
	}
	log.Printf("Cleared selection for row %d", row)
	s.Emit(EventAnnotationChanged, session.ConfirmResult{Reset: true})
}

// ApplyManual stores typed coordinates per slot. Blank entries are skipped,
// each slot is validated and applied independently, and the errors of
// malformed slots are returned without blocking the others.
func (s *State) ApplyManual(entries map[session.Slot]string) []error {
	if s.isBusy() || !s.HasTable() {
		return nil
	}
	row := s.sess.Current()
	var errs []error
	applied := false
	for _, slot := range session.Slots() {
		text, ok := entries[slot]
		if !ok || text == "" {
			continue
		}
		p, err := s.sess.ConfirmManual(row, slot, text)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", slot, err))
			continue
		}
		log.Printf("Row %d: %s = (%.4f, %.4f) (manual)", row, slot, p.X, p.Y)
		applied = true
	}
	if applied {
		s.Emit(EventAnnotationChanged, nil)
	}
	for _, err := range errs {
		s.Diagnose("Manual input: %v", err)
	}
	return errs
}

// SaveResults writes the results CSV next to the working directory and then
// a plot of the current row, matching the tool's long-standing save
// behavior. In-memory state is never altered, even on failure.
func (s *State) SaveResults() (string, error) {
	if !s.HasTable() {
		return "", session.ErrNoTable
	}
	if err := s.beginExclusive(); err != nil {
		return "", err
	}
	defer s.endExclusive()

	source := s.sess.Table().Source
	path, err := export.WriteResults(".", source, s.sess.Records())
	if err != nil {
		s.Diagnose("Save failed: %v", err)
		return "", err
	}
	log.Printf("Results saved to %s", path)
	s.Emit(EventResultsSaved, path)

	if _, err := s.savePlotLocked(s.sess.Current()); err != nil {
		s.Diagnose("Results saved but plot export failed: %v", err)
	}
	return path, nil
}

// SaveCurrentPlot renders the current row to a PNG in the configured plots
// directory.
func (s *State) SaveCurrentPlot() (string, error) {
	if !s.HasTable() {
		return "", session.ErrNoTable
	}
	if err := s.beginExclusive(); err != nil {
		return "", err
	}
	defer s.endExclusive()
	return s.savePlotLocked(s.sess.Current())
}

// SaveAllPlots exports every row's plot in ascending row order, waiting for
// each write before advancing. Annotation and navigation events are
// rejected for the duration. Returns saved and failed counts.
func (s *State) SaveAllPlots() (saved, failed int, err error) {
	if !s.HasTable() {
		return 0, 0, session.ErrNoTable
	}
	if err := s.beginExclusive(); err != nil {
		return 0, 0, err
	}
	defer s.endExclusive()

	for i := 0; i < s.sess.RowCount(); i++ {
		if _, perr := s.savePlotLocked(i); perr != nil {
			log.Printf("Plot export failed for row %d: %v", i, perr)
			failed++
			continue
		}
		saved++
	}
	log.Printf("Finished saving plots: %d saved, %d errors", saved, failed)
	return saved, failed, nil
}

func (s *State) savePlotLocked(row int) (string, error) {
	view, err := s.sess.RowView(row)
	if err != nil {
		return "", err
	}
	path, err := export.SavePlot(
		s.cfg.Export.PlotDir,
		s.sess.Table().Source,
		view,
		s.cfg.Export.ChartWidth,
		s.cfg.Export.ChartHeight,
	)
	if err != nil {
		return "", err
	}
	log.Printf("Plot saved to %s", path)
	s.Emit(EventPlotSaved, path)
	return path, nil
}

func (s *State) isBusy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

func (s *State) beginExclusive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *State) endExclusive() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
