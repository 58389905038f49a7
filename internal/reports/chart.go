package reports

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// ContentTypePNG is the content type of rendered charts.
const ContentTypePNG = "image/png"

type Orientation int

const (
	// Vertical bars grow upwards from a category axis along the bottom.
	Vertical Orientation = iota
	// Horizontal bars grow rightwards from a category axis along the left.
	Horizontal
)

type ValueFormat int

const (
	FormatCount ValueFormat = iota
	FormatAverage
)

// ChartSpec describes what a chart says. How it looks is in Style.
type ChartSpec struct {
	Title         string
	CategoryLabel string
	ValueLabel    string
	Orientation   Orientation
	Format        ValueFormat
}

// Image is an encoded chart.
type Image struct {
	Data        []byte
	ContentType string
}

// FormatValue renders a bar annotation.
func (f ValueFormat) FormatValue(v float64) string {
	if f == FormatAverage {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatInt(int64(math.Round(v)), 10)
}

// bar is the resolved placement of one series point.
type bar struct {
	Pos   float64
	Value float64
	Label string
	Text  string
	Color color.Color
}

func layout(series Series, spec ChartSpec, style Style) []bar {
	bars := make([]bar, len(series))
	for i, p := range series {
		bars[i] = bar{
			Pos:   float64(i),
			Value: p.Value,
			Label: p.Label,
			Text:  spec.Format.FormatValue(p.Value),
			Color: style.ColorAt(i),
		}
	}
	return bars
}

// Render draws series as a bar chart, one bar per point in series order, and
// encodes it as PNG. An empty series yields a chart with axes and title only.
func Render(series Series, spec ChartSpec, style Style) (*Image, error) {
	p := plot.New()
	p.BackgroundColor = style.Background
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = style.TitleSize

	horizontal := spec.Orientation == Horizontal
	catAxis, valAxis := &p.X, &p.Y
	if horizontal {
		catAxis, valAxis = &p.Y, &p.X
	}
	catAxis.Label.Text = spec.CategoryLabel
	valAxis.Label.Text = spec.ValueLabel
	for _, a := range []*plot.Axis{catAxis, valAxis} {
		a.Label.TextStyle.Font.Size = style.LabelSize
		a.Tick.Label.Font.Size = style.TickSize
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = style.GridColor
	grid.Horizontal.Color = style.GridColor
	// only lines across the value axis
	if horizontal {
		grid.Horizontal.Color = nil
	} else {
		grid.Vertical.Color = nil
	}
	p.Add(grid)

	bars := layout(series, spec, style)
	width := barWidth(len(bars), spec.Orientation, style)
	for _, b := range bars {
		chart, err := plotter.NewBarChart(plotter.Values{b.Value}, width)
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", b.Label, err)
		}
		chart.XMin = b.Pos
		chart.Horizontal = horizontal
		chart.Color = b.Color
		chart.LineStyle.Color = style.BarOutline
		chart.LineStyle.Width = vg.Points(0.5)
		p.Add(chart)
	}

	if len(bars) > 0 {
		annotations, err := valueLabels(bars, horizontal, style)
		if err != nil {
			return nil, err
		}
		p.Add(annotations)

		if horizontal {
			p.NominalY(series.Labels()...)
		} else {
			p.NominalX(series.Labels()...)
			p.X.Tick.Label.Rotation = style.TickRotation
			p.X.Tick.Label.XAlign = text.XRight
			p.X.Tick.Label.YAlign = text.YCenter
		}
		catAxis.Min = -0.6
		catAxis.Max = float64(len(bars)) - 0.4
	}

	valAxis.Min = 0
	valAxis.Max = valueAxisMax(series.Max())

	wt, err := p.WriterTo(style.Width, style.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("create png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &Image{Data: buf.Bytes(), ContentType: ContentTypePNG}, nil
}

func valueLabels(bars []bar, horizontal bool, style Style) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(bars))
	texts := make([]string, len(bars))
	for i, b := range bars {
		if horizontal {
			xys[i] = plotter.XY{X: b.Value, Y: b.Pos}
		} else {
			xys[i] = plotter.XY{X: b.Pos, Y: b.Value}
		}
		texts[i] = b.Text
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("value labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = style.ValueSize
		if horizontal {
			labels.TextStyle[i].XAlign = text.XLeft
			labels.TextStyle[i].YAlign = text.YCenter
		} else {
			labels.TextStyle[i].XAlign = text.XCenter
			labels.TextStyle[i].YAlign = text.YBottom
		}
	}
	if horizontal {
		labels.Offset = vg.Point{X: vg.Points(3)}
	} else {
		labels.Offset = vg.Point{Y: vg.Points(3)}
	}
	return labels, nil
}

// barWidth spreads the bars over roughly the plotting area along the category axis.
func barWidth(n int, o Orientation, style Style) vg.Length {
	span := style.Width
	if o == Horizontal {
		span = style.Height
	}
	if n < 1 {
		n = 1
	}
	w := vg.Length(float64(span) * 0.75 / float64(n) * style.BarFill)
	if limit := vg.Points(60); w > limit {
		w = limit
	}
	if floor := vg.Points(1); w < floor {
		w = floor
	}
	return w
}

// valueAxisMax leaves headroom for the annotations.
func valueAxisMax(top float64) float64 {
	if top <= 0 {
		return 1
	}
	return top * 1.15
}
