// Package session implements the row annotation state machine: per-row
// LEFT/TOP/RIGHT landmark slots, the fixed fill cycle, row navigation, and
// snapping of raw coordinates onto sampled data points.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"peak-marker/internal/peaks"
	"peak-marker/internal/table"
	"peak-marker/pkg/geometry"
)

// ErrNoTable is returned when an operation needs a loaded table and none is
// present.
var ErrNoTable = errors.New("session: no table loaded")

// ErrEmptyRow is returned when snap or confirm targets a row with no samples.
var ErrEmptyRow = errors.New("session: row has no samples")

// Slot identifies one of the three landmark roles on a curve.
type Slot int

const (
	SlotLeft Slot = iota
	SlotTop
	SlotRight
)

// fillOrder is the fixed order clicks walk through before the cycle resets.
var fillOrder = [3]Slot{SlotLeft, SlotTop, SlotRight}

// Slots lists all landmark slots in fill order.
func Slots() [3]Slot { return fillOrder }

func (s Slot) String() string {
	switch s {
	case SlotLeft:
		return "LEFT"
	case SlotTop:
		return "TOP"
	case SlotRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// RowAnnotation holds the confirmed landmark of each slot, nil when unset.
type RowAnnotation struct {
	Left  *geometry.Point2D
	Top   *geometry.Point2D
	Right *geometry.Point2D
}

// Get returns the point stored in the given slot, or nil.
func (a *RowAnnotation) Get(slot Slot) *geometry.Point2D {
	switch slot {
	case SlotLeft:
		return a.Left
	case SlotTop:
		return a.Top
	case SlotRight:
		return a.Right
	}
	return nil
}

func (a *RowAnnotation) set(slot Slot, p *geometry.Point2D) {
	switch slot {
	case SlotLeft:
		a.Left = p
	case SlotTop:
		a.Top = p
	case SlotRight:
		a.Right = p
	}
}

// FilledCount returns how many slots hold a point. Recomputed from slot
// contents so out-of-band manual overwrites need no separate bookkeeping.
func (a *RowAnnotation) FilledCount() int {
	n := 0
	for _, s := range fillOrder {
		if a.Get(s) != nil {
			n++
		}
	}
	return n
}

// clone returns a deep copy, safe to hand to renderers.
func (a *RowAnnotation) clone() RowAnnotation {
	var out RowAnnotation
	for _, s := range fillOrder {
		if p := a.Get(s); p != nil {
			cp := *p
			out.set(s, &cp)
		}
	}
	return out
}

// ConfirmResult reports what a confirm operation did.
type ConfirmResult struct {
	// Reset is true when all three slots were already filled and the
	// confirmation cleared the row instead of recording a point.
	Reset bool
	Slot  Slot
	Point geometry.Point2D
}

// RowView is a read-only snapshot of one row for rendering.
type RowView struct {
	Index      int
	Label      string
	Samples    []geometry.Point2D
	Candidates []geometry.Point2D
	Annotation RowAnnotation
}

// Record is one row of the exportable results, landmark pointers nil when
// the slot is unset.
type Record struct {
	Label string
	Left  *geometry.Point2D
	Top   *geometry.Point2D
	Right *geometry.Point2D
}

// Session owns the annotation state of a loaded table: one RowAnnotation per
// row, the current row index, and the candidate cache. All mutation flows
// through its methods; the table itself is immutable.
type Session struct {
	tbl         *table.Table
	current     int
	annotations []RowAnnotation
	cache       *peaks.Cache
}

// New creates an empty session. The finder may be nil to use the default
// peak detector.
func New(finder peaks.Finder) *Session {
	return &Session{cache: peaks.NewCache(finder)}
}

// SetTable replaces the loaded table, discarding every prior annotation and
// cache entry and resetting the current row to 0. A nil table empties the
// session.
func (s *Session) SetTable(t *table.Table) {
	s.tbl = t
	s.current = 0
	s.cache.Clear()
	s.annotations = make([]RowAnnotation, t.RowCount())
}

// Table returns the loaded table, nil when the session is empty.
func (s *Session) Table() *table.Table { return s.tbl }

// RowCount returns the number of rows, 0 for an empty session.
func (s *Session) RowCount() int { return s.tbl.RowCount() }

// Current returns the current row index. Meaningless when RowCount is 0.
func (s *Session) Current() int { return s.current }

// Next advances the current row, wrapping past the last row. No-op on an
// empty session.
func (s *Session) Next() int { return s.step(1) }

// Prev moves the current row backward, wrapping before the first row. No-op
// on an empty session.
func (s *Session) Prev() int { return s.step(-1) }

func (s *Session) step(dir int) int {
	n := s.RowCount()
	if n == 0 {
		return s.current
	}
	s.current = (s.current + dir + n) % n
	return s.current
}

// ConfirmPoint snaps (x,y) to the nearest sample of the row and records it
// in the next empty slot of the LEFT, TOP, RIGHT cycle. When all three
// slots are already filled the row is cleared instead and no point is
// recorded; the returned result has Reset set.
func (s *Session) ConfirmPoint(row int, x, y float64) (ConfirmResult, error) {
	if err := s.checkRow(row); err != nil {
		return ConfirmResult{}, err
	}

	ann := &s.annotations[row]
	slot, ok := nextSlot(ann)
	if !ok {
		*ann = RowAnnotation{}
		return ConfirmResult{Reset: true}, nil
	}

	p, err := s.Snap(row, x, y)
	if err != nil {
		return ConfirmResult{}, err
	}
	ann.set(slot, &p)
	return ConfirmResult{Slot: slot, Point: p}, nil
}

// nextSlot finds the first empty slot in fill order.
func nextSlot(a *RowAnnotation) (Slot, bool) {
	for _, slot := range fillOrder {
		if a.Get(slot) == nil {
			return slot, true
		}
	}
	return 0, false
}

// ConfirmManual parses "x,y" text and stores the exact typed coordinate in
// the addressed slot, bypassing both the fill order and snapping. A parse
// failure leaves the slot unchanged.
func (s *Session) ConfirmManual(row int, slot Slot, text string) (geometry.Point2D, error) {
	if err := s.checkRow(row); err != nil {
		return geometry.Point2D{}, err
	}
	p, err := ParseCoordinate(text)
	if err != nil {
		return geometry.Point2D{}, err
	}
	s.annotations[row].set(slot, &p)
	return p, nil
}

// Clear unsets all three slots of the row. Idempotent.
func (s *Session) Clear(row int) error {
	if err := s.checkRow(row); err != nil {
		return err
	}
	s.annotations[row] = RowAnnotation{}
	return nil
}

// Candidates returns the cached peak candidates of the row, computing them
// on first access.
func (s *Session) Candidates(row int) ([]geometry.Point2D, error) {
	if err := s.checkRow(row); err != nil {
		return nil, err
	}
	return s.cache.Candidates(s.tbl, row), nil
}

// RowView builds a read-only snapshot of the row for rendering: samples,
// candidate list, and a deep copy of the annotation.
func (s *Session) RowView(row int) (RowView, error) {
	if err := s.checkRow(row); err != nil {
		return RowView{}, err
	}
	return RowView{
		Index:      row,
		Label:      s.tbl.Label(row),
		Samples:    s.tbl.Samples(row),
		Candidates: s.cache.Candidates(s.tbl, row),
		Annotation: s.annotations[row].clone(),
	}, nil
}

// Records returns the full results in ascending row order, one record per
// row, unset slots as nil.
func (s *Session) Records() []Record {
	out := make([]Record, s.RowCount())
	for i := range out {
		ann := s.annotations[i].clone()
		out[i] = Record{
			Label: s.tbl.Label(i),
			Left:  ann.Left,
			Top:   ann.Top,
			Right: ann.Right,
		}
	}
	return out
}

func (s *Session) checkRow(row int) error {
	if s.tbl == nil {
		return ErrNoTable
	}
	if row < 0 || row >= s.tbl.RowCount() {
		return fmt.Errorf("session: row %d out of range [0,%d)", row, s.tbl.RowCount())
	}
	return nil
}

// ParseCoordinate parses manual "x,y" input into a point.
func ParseCoordinate(text string) (geometry.Point2D, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return geometry.Point2D{}, fmt.Errorf("session: expected \"x,y\", got %q", text)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("session: bad x in %q: %w", text, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("session: bad y in %q: %w", text, err)
	}
	return geometry.Point2D{X: x, Y: y}, nil
}
