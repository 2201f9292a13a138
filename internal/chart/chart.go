package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/sekarsister/energi-dashboard/internal/energy"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

type View string

const (
	Distribution View = "distribution"
	Composition  View = "composition"
	Relationship View = "relationship"
	Comparison   View = "comparison"
)

var Views = []View{Distribution, Composition, Relationship, Comparison}

var (
	ErrNoData      = errors.New("no records to plot")
	ErrUnknownView = errors.New("unknown view")
)

const DefaultDPI = 96

var (
	colorRoyalBlue   = color.RGBA{R: 65, G: 105, B: 225, A: 255}
	colorFossil      = color.RGBA{R: 217, G: 95, B: 2, A: 255}
	colorNuclear     = color.RGBA{R: 117, G: 112, B: 179, A: 255}
	colorRenewable   = color.RGBA{R: 27, G: 158, B: 119, A: 255}
	colorScatter     = color.RGBA{R: 44, G: 123, B: 182, A: 255}
	colorFit         = color.RGBA{R: 215, G: 25, B: 28, A: 255}
	colorProduction  = colorRenewable
	colorConsumption = colorFossil
	colorDeficit     = color.NRGBA{R: 240, G: 128, B: 128, A: 77}
)

func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Label is the tab name.
func (v View) Label() string {
	switch v {
	case Distribution:
		return "Distribution"
	case Composition:
		return "Composition"
	case Relationship:
		return "Relationship"
	case Comparison:
		return "Comparison"
	}
	return string(v)
}

// Heading is the subheader shown above the chart.
func (v View) Heading() string {
	switch v {
	case Distribution:
		return "Distribution of Total Primary Energy Consumption"
	case Composition:
		return "Composition of Energy Production"
	case Relationship:
		return "Relationship between Production and Consumption"
	case Comparison:
		return "Comparison of Production vs Consumption"
	}
	return string(v)
}

type Renderer struct {
	DPI int
}

func NewRenderer(dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{DPI: dpi}
}

// Render draws view over records and writes it to w as PNG.
func (r *Renderer) Render(view View, records []energy.Record, w io.Writer) error {
	if len(records) == 0 {
		return ErrNoData
	}

	var (
		p             *plot.Plot
		width, height vg.Length
		err           error
	)

	switch view {
	case Distribution:
		p, err = distributionPlot(records)
		width, height = 12*vg.Inch, 6*vg.Inch
	case Composition:
		p, err = compositionPlot(records)
		width, height = 14*vg.Inch, 6*vg.Inch
	case Relationship:
		p, err = relationshipPlot(records)
		width, height = 10*vg.Inch, 6*vg.Inch
	case Comparison:
		p, err = comparisonPlot(records)
		width, height = 14*vg.Inch, 6*vg.Inch
	default:
		return fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	if err != nil {
		return fmt.Errorf("build %s plot: %w", view, err)
	}

	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	canvas := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	p.Draw(draw.New(canvas))

	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(w); err != nil {
		return fmt.Errorf("encode %s png: %w", view, err)
	}
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, tick := range ticks {
		if tick.Label == "" {
			continue
		}
		if tick.Value != math.Trunc(tick.Value) {
			ticks[i].Label = ""
			continue
		}
		ticks[i].Label = strconv.Itoa(int(tick.Value))
	}
	return ticks
}

func yearSeries(records []energy.Record, value func(energy.Record) float64) plotter.XYs {
	points := make(plotter.XYs, len(records))
	for i, record := range records {
		points[i].X = float64(record.Year)
		points[i].Y = value(record)
	}
	return points
}

func distributionPlot(records []energy.Record) (*plot.Plot, error) {
	p := newPlot("Distribusi Konsumsi Energi Utama per Tahun", "Tahun", "Konsumsi Energi (EJ)")
	p.X.Tick.Marker = yearTicks{}

	line, err := plotter.NewLine(yearSeries(records, func(r energy.Record) float64 { return r.Consumption }))
	if err != nil {
		return nil, err
	}
	line.Color = colorRoyalBlue
	line.Width = vg.Points(1.5)

	p.Add(plotter.NewGrid())
	p.Add(line)
	return p, nil
}

func compositionPlot(records []energy.Record) (*plot.Plot, error) {
	p := newPlot("Komposisi Produksi Energi per Tahun", "Tahun", "Produksi Energi (EJ)")
	p.X.Tick.Marker = yearTicks{}
	p.Legend.Top = true
	p.Legend.Left = true

	layers := []struct {
		label string
		color color.Color
		value func(energy.Record) float64
	}{
		{"Fosil", colorFossil, func(r energy.Record) float64 { return r.FossilProduction }},
		{"Nuklir", colorNuclear, func(r energy.Record) float64 { return r.NuclearProduction }},
		{"Terbarukan", colorRenewable, func(r energy.Record) float64 { return r.RenewableProduction }},
	}

	p.Add(plotter.NewGrid())

	base := make([]float64, len(records))
	for _, layer := range layers {
		top := make([]float64, len(records))
		for i, record := range records {
			top[i] = base[i] + layer.value(record)
		}

		outline := make(plotter.XYs, 0, 2*len(records))
		for i, record := range records {
			outline = append(outline, plotter.XY{X: float64(record.Year), Y: top[i]})
		}
		for i := len(records) - 1; i >= 0; i-- {
			outline = append(outline, plotter.XY{X: float64(records[i].Year), Y: base[i]})
		}

		area, err := plotter.NewPolygon(outline)
		if err != nil {
			return nil, err
		}
		area.Color = layer.color
		area.LineStyle.Width = vg.Length(0)

		p.Add(area)
		p.Legend.Add(layer.label, area)
		base = top
	}

	return p, nil
}

func relationshipPlot(records []energy.Record) (*plot.Plot, error) {
	p := newPlot("Korelasi Produksi vs Konsumsi Energi", "Produksi Energi (EJ)", "Konsumsi Energi (EJ)")

	points := make(plotter.XYs, len(records))
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, record := range records {
		points[i].X = record.Production
		points[i].Y = record.Consumption
		minX = math.Min(minX, record.Production)
		maxX = math.Max(maxX, record.Production)
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = colorScatter
	scatter.GlyphStyle.Radius = vg.Points(4)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(plotter.NewGrid())
	p.Add(scatter)

	fit, err := energy.FitRegression(records)
	switch {
	case errors.Is(err, energy.ErrInsufficientData):
		return p, nil
	case err != nil:
		return nil, err
	}

	line := plotter.NewFunction(fit.At)
	line.XMin = minX
	line.XMax = maxX
	line.Color = colorFit
	line.Width = vg.Points(2)
	p.Add(line)

	return p, nil
}

func comparisonPlot(records []energy.Record) (*plot.Plot, error) {
	p := newPlot("Perbandingan Produksi vs Konsumsi Energi", "Tahun", "Energi (EJ)")
	p.X.Tick.Marker = yearTicks{}

	production, err := plotter.NewLine(yearSeries(records, func(r energy.Record) float64 { return r.Production }))
	if err != nil {
		return nil, err
	}
	production.Color = colorProduction
	production.Width = vg.Points(2.5)

	consumption, err := plotter.NewLine(yearSeries(records, func(r energy.Record) float64 { return r.Consumption }))
	if err != nil {
		return nil, err
	}
	consumption.Color = colorConsumption
	consumption.Width = vg.Points(2.5)

	p.Add(plotter.NewGrid())

	var swatch *plotter.Polygon
	for _, run := range energy.DeficitRuns(records) {
		if run.Len() < 2 {
			continue
		}

		segment := records[run.Start:run.End]
		outline := make(plotter.XYs, 0, 2*len(segment))
		for _, record := range segment {
			outline = append(outline, plotter.XY{X: float64(record.Year), Y: record.Production})
		}
		for i := len(segment) - 1; i >= 0; i-- {
			outline = append(outline, plotter.XY{X: float64(segment[i].Year), Y: segment[i].Consumption})
		}

		fill, err := plotter.NewPolygon(outline)
		if err != nil {
			return nil, err
		}
		fill.Color = colorDeficit
		fill.LineStyle.Width = vg.Length(0)
		p.Add(fill)

		if swatch == nil {
			swatch = fill
		}
	}

	if swatch == nil {
		swatch, err = plotter.NewPolygon(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
		if err != nil {
			return nil, err
		}
		swatch.Color = colorDeficit
		swatch.LineStyle.Width = vg.Length(0)
	}

	p.Add(production, consumption)
	p.Legend.Add("Produksi", production)
	p.Legend.Add("Konsumsi", consumption)
	p.Legend.Add("Defisit Energi", swatch)

	return p, nil
}
