// Package plotview provides the clickable chart display.
package plotview

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"peak-marker/internal/export"
)

// PlotView displays a rendered row chart and reports clicks on it in
// data-space coordinates.
type PlotView struct {
	widget.BaseWidget

	img  *fynecanvas.Image
	geom export.PlotGeometry

	onClick func(x, y float64) // data-space coordinates
}

var _ fyne.Tappable = (*PlotView)(nil)

// New creates an empty plot view.
func New() *PlotView {
	v := &PlotView{img: &fynecanvas.Image{FillMode: fynecanvas.ImageFillContain}}
	v.img.ScaleMode = fynecanvas.ImageScaleFastest
	v.ExtendBaseWidget(v)
	return v
}

// SetChart swaps in a freshly rendered chart and its click geometry.
func (v *PlotView) SetChart(img image.Image, geom export.PlotGeometry) {
	v.img.Image = img
	v.geom = geom
	v.img.Refresh()
}

// OnClick registers the callback invoked with the data-space position of
// clicks that land inside the plot area.
func (v *PlotView) OnClick(callback func(x, y float64)) {
	v.onClick = callback
}

// CreateRenderer implements fyne.Widget.
func (v *PlotView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

// MinSize keeps the chart readable.
func (v *PlotView) MinSize() fyne.Size {
	return fyne.NewSize(640, 400)
}

// Tapped converts the click position from widget space through the
// contain-fitted image into data space and fires the callback.
func (v *PlotView) Tapped(ev *fyne.PointEvent) {
	if v.onClick == nil || v.img.Image == nil {
		return
	}
	size := v.Size()
	// Reject positions outside the widget; Fyne occasionally delivers them.
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	imgW := float32(v.geom.Width)
	imgH := float32(v.geom.Height)
	if imgW <= 0 || imgH <= 0 {
		return
	}

	// Contain fit: the image is scaled uniformly and centered.
	scale := size.Width / imgW
	if s := size.Height / imgH; s < scale {
		scale = s
	}
	if scale <= 0 {
		return
	}
	drawX := (size.Width - imgW*scale) / 2
	drawY := (size.Height - imgH*scale) / 2

	px := float64((ev.Position.X - drawX) / scale)
	py := float64((ev.Position.Y - drawY) / scale)

	if x, y, ok := v.geom.DataAt(px, py); ok {
		v.onClick(x, y)
	}
}
