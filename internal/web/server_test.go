package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sekarsister/energi-dashboard/internal/chart"
	"github.com/sekarsister/energi-dashboard/internal/dashboard"
	"github.com/sekarsister/energi-dashboard/internal/energy"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	var records []energy.Record
	for i := 0; i <= 10; i++ {
		offset := float64(i)
		records = append(records, energy.Record{
			Year:                2000 + i,
			Consumption:         100 + 3*offset,
			Production:          108 + offset,
			FossilProduction:    85 + offset/2,
			NuclearProduction:   7,
			RenewableProduction: 16 + offset/2,
		})
	}

	data, err := energy.NewDataset(records)
	if err != nil {
		t.Fatal(err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	dash, err := dashboard.New(data, chart.NewRenderer(30), log)
	if err != nil {
		t.Fatal(err)
	}

	srv, err := NewServer(dash, log)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleDashboard(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/?from=2003&to=2006")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, want := range []string{
		"Total Production",
		"Self Sufficiency Ratio",
		"4 years selected",
		"Deficit years: 2005, 2006",
		"Distribution",
		"Composition",
		"Relationship",
		"Comparison",
		"data:image/png;base64,",
		`value="2003"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard body missing %q", want)
		}
	}
	if n := strings.Count(body, "data:image/png;base64,"); n != len(chart.Views) {
		t.Errorf("dashboard embeds %d charts, want %d", n, len(chart.Views))
	}
}

func TestHandleDashboardDefaultsAndEmpty(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "11 years selected") {
		t.Errorf("GET / status = %d", rec.Code)
	}

	rec = get(t, srv, "/?from=1950&to=1960")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "No records fall within") || !strings.Contains(body, "n/a") {
		t.Errorf("empty range body does not show the no-data notice")
	}
}

func TestHandleDashboardBadRange(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{"/?from=2006&to=2003", "/?from=abc"} {
		rec := get(t, srv, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestHandleRecords(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/records?from=2003&to=2006")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Range   energy.YearRange `json:"range"`
		Records []energy.Record  `json:"records"`
		Metrics *energy.Metrics  `json:"metrics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.Records) != 4 {
		t.Fatalf("records = %d, want 4", len(resp.Records))
	}
	for i, year := range []int{2003, 2004, 2005, 2006} {
		if resp.Records[i].Year != year {
			t.Errorf("records[%d].Year = %d, want %d", i, resp.Records[i].Year, year)
		}
	}
	if resp.Metrics == nil || resp.Metrics.TotalProduction != 111+112+113+114 {
		t.Errorf("metrics = %+v", resp.Metrics)
	}

	rec = get(t, srv, "/api/records?from=2006&to=2003")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("inverted range status = %d, want 400", rec.Code)
	}
}

func TestHandleMetrics(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		TotalProduction  float64          `json:"total_production"`
		TotalConsumption float64          `json:"total_consumption"`
		SelfSufficiency  float64          `json:"self_sufficiency_ratio"`
		Years            energy.YearRange `json:"years"`
		Records          int              `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Records != 11 || resp.Years.From != 2000 || resp.Years.To != 2010 {
		t.Errorf("metrics response = %+v", resp)
	}
	if resp.SelfSufficiency != resp.TotalProduction/resp.TotalConsumption {
		t.Errorf("ratio = %v, want %v", resp.SelfSufficiency, resp.TotalProduction/resp.TotalConsumption)
	}
}

func TestHandleChart(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/charts/composition.png?from=2001&to=2009")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	if rec := get(t, srv, "/charts/pie.png"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown view status = %d, want 404", rec.Code)
	}
	if rec := get(t, srv, "/charts/comparison.png?from=1900&to=1901"); rec.Code != http.StatusNotFound {
		t.Errorf("empty range status = %d, want 404", rec.Code)
	}
}

func TestHandleExport(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/export.xlsx?from=2003&to=2006")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "energi_2003_2006.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Data_Tahunan")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Errorf("data rows = %d, want 5", len(rows))
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}
