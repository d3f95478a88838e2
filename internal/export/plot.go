package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"peak-marker/internal/session"
	"peak-marker/pkg/geometry"
)

var (
	curveColor     = drawing.Color{R: 0x1F, G: 0x77, B: 0xB4, A: 0xFF}
	candidateColor = drawing.Color{R: 0x2C, G: 0xA0, B: 0x2C, A: 0x90}
	slotColors     = map[session.Slot]drawing.Color{
		session.SlotLeft:  {R: 0xD6, G: 0x27, B: 0x28, A: 0xFF}, // red
		session.SlotTop:   {R: 0x1F, G: 0x3F, B: 0xD6, A: 0xFF}, // blue
		session.SlotRight: {R: 0x94, G: 0x3C, B: 0xB4, A: 0xFF}, // purple
	}
)

// Approximate space go-chart consumes around the plot area (axis ticks,
// names, title) on top of the configured padding. Click positions mapped
// through these are snapped to the nearest sample afterwards, so small
// deviations are tolerable.
const (
	gutterLeft   = 70.0
	gutterRight  = 28.0
	gutterTop    = 36.0
	gutterBottom = 70.0
)

// PlotGeometry maps pixel positions on a rendered chart back to data-space
// coordinates.
type PlotGeometry struct {
	Width  int
	Height int

	// Plot box edges in image pixels.
	Left, Top, Right, Bottom float64

	// Data ranges the axes were rendered with.
	XMin, XMax, YMin, YMax float64
}

// DataAt converts an image-pixel position to data-space coordinates. ok is
// false when the position falls outside the plot box.
func (g PlotGeometry) DataAt(px, py float64) (x, y float64, ok bool) {
	w := float64(g.Width) - g.Left - g.Right
	h := float64(g.Height) - g.Top - g.Bottom
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	if px < g.Left || px > float64(g.Width)-g.Right || py < g.Top || py > float64(g.Height)-g.Bottom {
		return 0, 0, false
	}
	x = g.XMin + (px-g.Left)/w*(g.XMax-g.XMin)
	y = g.YMax - (py-g.Top)/h*(g.YMax-g.YMin)
	return x, y, true
}

// Rendered is a chart rendered to PNG plus the geometry needed to convert
// clicks on it back to data space.
type Rendered struct {
	PNG  []byte
	Geom PlotGeometry
}

// RenderRow renders the row chart: the curve, peak candidate markers, and
// confirmed landmarks with coordinate labels.
func RenderRow(view session.RowView, width, height int) (Rendered, error) {
	xs, ys := finiteSeries(view.Samples)
	if len(xs) == 0 {
		return Rendered{}, fmt.Errorf("export: row %q has no finite samples to plot", view.Label)
	}
	// go-chart needs at least two x values.
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	geom := PlotGeometry{
		Width: width, Height: height,
		Left: gutterLeft, Top: gutterTop, Right: gutterRight, Bottom: gutterBottom,
	}
	geom.XMin, geom.XMax = paddedRange(xs)
	geom.YMin, geom.YMax = paddedRange(ys)

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    view.Label,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: curveColor, StrokeWidth: 1.2},
		},
	}
	if len(view.Candidates) > 0 {
		series = append(series, scatter("Candidates", view.Candidates, candidateColor, 6))
	}

	var marks []chart.Value2
	for _, slot := range session.Slots() {
		p := view.Annotation.Get(slot)
		if p == nil {
			continue
		}
		series = append(series, scatter(slot.String(), []geometry.Point2D{*p}, slotColors[slot], 9))
		marks = append(marks, chart.Value2{
			XValue: p.X,
			YValue: p.Y,
			Label:  fmt.Sprintf("%s: (%.2f, %.2f)", slot, p.X, p.Y),
		})
	}
	if len(marks) > 0 {
		series = append(series, chart.AnnotationSeries{
			Annotations: marks,
			Style:       chart.Style{StrokeColor: drawing.ColorBlack, FontSize: 9},
		})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("Row: %s", view.Label),
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 28}},
		XAxis: chart.XAxis{
			Name:  "X Values",
			Range: &chart.ContinuousRange{Min: geom.XMin, Max: geom.XMax},
		},
		YAxis: chart.YAxis{
			Name:  "Y Values",
			Range: &chart.ContinuousRange{Min: geom.YMin, Max: geom.YMax},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return Rendered{}, fmt.Errorf("export: render row %q: %w", view.Label, err)
	}
	return Rendered{PNG: buf.Bytes(), Geom: geom}, nil
}

// RenderRowImage renders the row chart to an image for on-screen display.
// A non-empty footer is drawn along the bottom edge.
func RenderRowImage(view session.RowView, width, height int, footer string) (image.Image, PlotGeometry, error) {
	r, err := RenderRow(view, width, height)
	if err != nil {
		return nil, PlotGeometry{}, err
	}
	img, err := png.Decode(bytes.NewReader(r.PNG))
	if err != nil {
		return nil, PlotGeometry{}, fmt.Errorf("export: decode rendered chart: %w", err)
	}
	if footer != "" {
		img = drawFooter(img, footer)
	}
	return img, r.Geom, nil
}

// PlotFileName derives the plot image name from the source file and row
// label.
func PlotFileName(source, label string) string {
	return fmt.Sprintf("%s_peak_plot_%s.png", SafeBaseName(source), Sanitize(label))
}

// SavePlot renders the row chart and writes it into dir, creating the
// directory if needed. Returns the written path.
func SavePlot(dir, source string, view session.RowView, width, height int) (string, error) {
	r, err := RenderRow(view, width, height)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create plot directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, PlotFileName(source, view.Label))
	if err := os.WriteFile(path, r.PNG, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func scatter(name string, pts []geometry.Point2D, col drawing.Color, dot float64) chart.ContinuousSeries {
	xs := make([]float64, 0, len(pts)+1)
	ys := make([]float64, 0, len(pts)+1)
	for _, p := range pts {
		if !p.Finite() {
			continue
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	// Pad single points so go-chart accepts the series; the duplicate
	// lands on the same pixel.
	if len(xs) == 1 {
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: 0,
			DotWidth:    dot,
			DotColor:    col,
		},
	}
}

// paddedRange returns the min/max of vs widened by 5% on each side so
// markers at the extremes stay visible.
func paddedRange(vs []float64) (float64, float64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.05, hi + span*0.05
}

// finiteSeries splits samples into x/y slices, skipping non-finite points
// so gaps in the source data do not break the line rendering.
func finiteSeries(samples []geometry.Point2D) ([]float64, []float64) {
	xs := make([]float64, 0, len(samples))
	ys := make([]float64, 0, len(samples))
	for _, p := range samples {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			continue
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	return xs, ys
}

// drawFooter copies the image and draws a status line along its bottom
// edge, shadow first for contrast.
func drawFooter(img image.Image, text string) image.Image {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	x := b.Min.X + 8
	y := b.Max.Y - 6

	shadow := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.RGBA{A: 180}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)},
	}
	shadow.DrawString(text)

	main := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 255}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	main.DrawString(text)
	return rgba
}
