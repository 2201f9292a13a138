package web

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sekarsister/energi-dashboard/internal/chart"
	"github.com/sekarsister/energi-dashboard/internal/energy"
	"github.com/sekarsister/energi-dashboard/internal/export"
	"github.com/sirupsen/logrus"
)

type metricCard struct {
	Label  string
	Value  string
	Period string
}

type chartTab struct {
	ID      string
	Label   string
	Heading string
	Image   template.URL
}

type pageData struct {
	Bounds       energy.YearRange
	Selected     energy.YearRange
	Range        energy.YearRange
	Cards        []metricCard
	Tabs         []chartTab
	NoData       bool
	Records      int
	DeficitYears []int
	Fit          *energy.Regression
	Trend        *energy.Trend
	ExportURL    string
}

type errorData struct {
	Message string
}

func (s *Server) logger(r *http.Request) logrus.FieldLogger {
	return s.log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"path":       r.URL.Path,
	})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, message string, status int) {
	var buf bytes.Buffer
	if err := s.errorTmpl.ExecuteTemplate(&buf, "base", errorData{Message: message}); err != nil {
		s.logger(r).WithError(err).Error("failed to execute error template")
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// handleDashboard is the year-range change handler: each request recomputes
// the filtered view and re-renders all four charts.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	bounds := s.dash.Bounds()
	selected, err := parseRange(r, bounds)
	if err != nil {
		s.renderError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := s.dash.Snapshot(selected)
	if err != nil {
		s.logger(r).WithError(err).Error("failed to build snapshot")
		s.renderError(w, r, "Something went wrong while filtering the data.", http.StatusInternalServerError)
		return
	}

	headline := s.dash.Headline()
	period := func(value func(energy.Metrics) float64) string {
		if snap.Period == nil {
			return "n/a"
		}
		return fixed(value(*snap.Period))
	}

	data := pageData{
		Bounds:   bounds,
		Selected: selected.Clamp(bounds),
		Range:    selected,
		Cards: []metricCard{
			{"Total Production", fixed(headline.TotalProduction), period(func(m energy.Metrics) float64 { return m.TotalProduction })},
			{"Total Consumption", fixed(headline.TotalConsumption), period(func(m energy.Metrics) float64 { return m.TotalConsumption })},
			{"Self Sufficiency Ratio", fixed(headline.SelfSufficiency), period(func(m energy.Metrics) float64 { return m.SelfSufficiency })},
		},
		NoData:       len(snap.Records) == 0,
		Records:      len(snap.Records),
		DeficitYears: snap.DeficitYears,
		Fit:          snap.Fit,
		Trend:        snap.Trend,
		ExportURL:    "/export.xlsx?" + rangeValues(selected).Encode(),
	}

	if !data.NoData {
		images, err := s.dash.RenderAll(r.Context(), selected)
		if err != nil {
			s.logger(r).WithError(err).Error("failed to render charts")
			s.renderError(w, r, "Something went wrong while drawing the charts.", http.StatusInternalServerError)
			return
		}

		for _, view := range chart.Views {
			data.Tabs = append(data.Tabs, chartTab{
				ID:      string(view),
				Label:   view.Label(),
				Heading: view.Heading(),
				Image:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(images[view])),
			})
		}
	}

	var buf bytes.Buffer
	if err := s.pageTmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		s.logger(r).WithError(err).Error("failed to execute dashboard template")
		s.renderError(w, r, "Something went wrong while displaying the page.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	view, err := chart.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	selected, err := parseRange(r, s.dash.Bounds())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := s.dash.Render(view, selected, &buf); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			http.Error(w, fmt.Sprintf("no records in %s", selected), http.StatusNotFound)
			return
		}
		s.logger(r).WithError(err).WithField("view", view).Error("failed to render chart")
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

type metricsResponse struct {
	energy.Metrics
	Years   energy.YearRange `json:"years"`
	Records int              `json:"records"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, metricsResponse{
		Metrics: s.dash.Headline(),
		Years:   s.dash.Bounds(),
		Records: s.dash.Len(),
	})
}

type recordsResponse struct {
	Range        energy.YearRange   `json:"range"`
	Records      []energy.Record    `json:"records"`
	Metrics      *energy.Metrics    `json:"metrics"`
	DeficitYears []int              `json:"deficit_years"`
	Regression   *energy.Regression `json:"regression"`
	Trend        *energy.Trend      `json:"trend"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	selected, err := parseRange(r, s.dash.Bounds())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := s.dash.Snapshot(selected)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := recordsResponse{
		Range:        snap.Range,
		Records:      snap.Records,
		Metrics:      snap.Period,
		DeficitYears: snap.DeficitYears,
		Regression:   snap.Fit,
		Trend:        snap.Trend,
	}
	if resp.DeficitYears == nil {
		resp.DeficitYears = []int{}
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	selected, err := parseRange(r, s.dash.Bounds())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := s.dash.Snapshot(selected)
	if err != nil {
		s.logger(r).WithError(err).Error("failed to build snapshot")
		http.Error(w, "failed to build export", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = export.Write(&buf, export.Workbook{
		Headline: s.dash.Headline(),
		Period:   snap.Period,
		Range:    selected,
		Records:  snap.Records,
		Trend:    snap.Trend,
	})
	if err != nil {
		s.logger(r).WithError(err).Error("failed to write workbook")
		http.Error(w, "failed to build export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="energi_%d_%d.xlsx"`, selected.From, selected.To))
	w.Write(buf.Bytes())
}

type health struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Records   int              `json:"records"`
	Years     energy.YearRange `json:"years"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, health{
		Status:    "ok",
		Timestamp: time.Now(),
		Records:   s.dash.Len(),
		Years:     s.dash.Bounds(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	body, err := sonic.Marshal(v)
	if err != nil {
		s.logger(r).WithError(err).Error("failed to encode response")
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if isClientError(err) {
		status = http.StatusBadRequest
	} else {
		s.logger(r).WithError(err).Error("request failed")
	}
	s.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func rangeValues(r energy.YearRange) url.Values {
	return url.Values{
		"from": {strconv.Itoa(r.From)},
		"to":   {strconv.Itoa(r.To)},
	}
}
