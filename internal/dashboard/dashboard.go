package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sekarsister/energi-dashboard/internal/chart"
	"github.com/sekarsister/energi-dashboard/internal/energy"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Snapshot is everything derived from one year-range selection.
type Snapshot struct {
	Range   energy.YearRange
	Records []energy.Record
	// Period is nil when the range holds no records or no consumption.
	Period       *energy.Metrics
	DeficitYears []int
	// Fit is nil when fewer than two distinct production values are selected.
	Fit   *energy.Regression
	Trend *energy.Trend
}

// Dashboard recomputes the filtered view and re-renders every chart each
// time the selected year range changes.
type Dashboard struct {
	data     *energy.Dataset
	headline energy.Metrics
	renderer *chart.Renderer
	log      logrus.FieldLogger
}

func New(data *energy.Dataset, renderer *chart.Renderer, log logrus.FieldLogger) (*Dashboard, error) {
	headline, err := data.Metrics()
	if err != nil {
		return nil, fmt.Errorf("headline metrics: %w", err)
	}

	log.WithFields(logrus.Fields{
		"records":          data.Len(),
		"years":            data.Bounds().String(),
		"production":       headline.TotalProduction,
		"consumption":      headline.TotalConsumption,
		"self_sufficiency": headline.SelfSufficiency,
	}).Info("dashboard ready")

	return &Dashboard{
		data:     data,
		headline: headline,
		renderer: renderer,
		log:      log,
	}, nil
}

// Headline returns the metrics of the full dataset.
func (d *Dashboard) Headline() energy.Metrics {
	return d.headline
}

func (d *Dashboard) Bounds() energy.YearRange {
	return d.data.Bounds()
}

func (d *Dashboard) Len() int {
	return d.data.Len()
}

func (d *Dashboard) Snapshot(r energy.YearRange) (*Snapshot, error) {
	records, err := d.data.Filter(r)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Range:        r,
		Records:      records,
		DeficitYears: energy.DeficitYears(records),
	}

	period, err := energy.ComputeMetrics(records)
	switch {
	case err == nil:
		snap.Period = &period
	case errors.Is(err, energy.ErrInvalidInput):
		d.log.WithField("range", r.String()).WithError(err).Debug("period metrics unavailable")
	default:
		return nil, err
	}

	fit, err := energy.FitRegression(records)
	if err == nil {
		snap.Fit = &fit
	}

	trend, err := energy.ConsumptionTrend(records)
	if err == nil {
		snap.Trend = &trend
	}

	return snap, nil
}

func (d *Dashboard) Render(view chart.View, r energy.YearRange, w io.Writer) error {
	records, err := d.data.Filter(r)
	if err != nil {
		return err
	}
	return d.renderer.Render(view, records, w)
}

// RenderAll renders all four views for r concurrently and returns the PNG
// bytes keyed by view.
func (d *Dashboard) RenderAll(ctx context.Context, r energy.YearRange) (map[chart.View][]byte, error) {
	records, err := d.data.Filter(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, chart.ErrNoData
	}

	images := make([][]byte, len(chart.Views))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, view := range chart.Views {
		i, view := i, view
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := d.renderer.Render(view, records, &buf); err != nil {
				return fmt.Errorf("render %s: %w", view, err)
			}
			images[i] = buf.Bytes()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[chart.View][]byte, len(chart.Views))
	for i, view := range chart.Views {
		out[view] = images[i]
	}

	d.log.WithFields(logrus.Fields{
		"range":   r.String(),
		"records": len(records),
	}).Debug("charts rendered")

	return out, nil
}
