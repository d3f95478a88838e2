// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"peak-marker/internal/session"
)

// ManualEntryDialog collects typed "x,y" coordinates for the three landmark
// slots. Blank fields are skipped; each slot is applied independently.
type ManualEntryDialog struct {
	window fyne.Window

	leftEntry  *widget.Entry
	topEntry   *widget.Entry
	rightEntry *widget.Entry

	onApply func(entries map[session.Slot]string)
}

// NewManualEntryDialog creates the dialog. onApply receives the non-blank
// slot texts when the user confirms.
func NewManualEntryDialog(window fyne.Window, onApply func(entries map[session.Slot]string)) *ManualEntryDialog {
	return &ManualEntryDialog{
		window:  window,
		onApply: onApply,
	}
}

// Show displays the dialog, prefilled with the current annotation so a
// single slot can be corrected without retyping the others.
func (d *ManualEntryDialog) Show(current session.RowAnnotation) {
	d.leftEntry = newCoordEntry(current, session.SlotLeft)
	d.topEntry = newCoordEntry(current, session.SlotTop)
	d.rightEntry = newCoordEntry(current, session.SlotRight)

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("LEFT (x,y):"), d.leftEntry,
		widget.NewLabel("TOP (x,y):"), d.topEntry,
		widget.NewLabel("RIGHT (x,y):"), d.rightEntry,
	)

	dlg := dialog.NewCustomConfirm(
		"Manual Input",
		"Apply",
		"Cancel",
		form,
		func(apply bool) {
			if !apply || d.onApply == nil {
				return
			}
			d.onApply(map[session.Slot]string{
				session.SlotLeft:  d.leftEntry.Text,
				session.SlotTop:   d.topEntry.Text,
				session.SlotRight: d.rightEntry.Text,
			})
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(360, 240))
	dlg.Show()
}

func newCoordEntry(current session.RowAnnotation, slot session.Slot) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder("leave blank to skip")
	if p := current.Get(slot); p != nil {
		e.SetText(fmt.Sprintf("%g,%g", p.X, p.Y))
	}
	return e
}
