package export

import (
	"fmt"
	"io"

	"github.com/sekarsister/energi-dashboard/internal/energy"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Ringkasan"
	DataSheet    = "Data_Tahunan"
)

// Workbook is the content of one XLSX download.
type Workbook struct {
	Headline energy.Metrics
	// Period is nil when the selected range has no consumption.
	Period  *energy.Metrics
	Range   energy.YearRange
	Records []energy.Record
	// Trend is nil when Records is empty.
	Trend *energy.Trend
}

func Write(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(DataSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", DataSheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("number style: %w", err)
	}

	if err := writeSummary(f, wb, headerStyle, numberStyle); err != nil {
		return err
	}
	if err := writeRecords(f, wb.Records, headerStyle, numberStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, wb Workbook, headerStyle, numberStyle int) error {
	headers := []string{"Metrik", "Seluruh Data", fmt.Sprintf("Periode %s", wb.Range)}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SummarySheet, cell, header)
	}
	f.SetColWidth(SummarySheet, "A", "C", 24)
	f.SetCellStyle(SummarySheet, "A1", "C1", headerStyle)

	rows := []struct {
		label  string
		full   float64
		period func(energy.Metrics) float64
	}{
		{"Total Production", wb.Headline.TotalProduction, func(m energy.Metrics) float64 { return m.TotalProduction }},
		{"Total Consumption", wb.Headline.TotalConsumption, func(m energy.Metrics) float64 { return m.TotalConsumption }},
		{"Self Sufficiency Ratio", wb.Headline.SelfSufficiency, func(m energy.Metrics) float64 { return m.SelfSufficiency }},
	}

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", r), row.label)
		f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", r), row.full)
		if wb.Period != nil {
			f.SetCellValue(SummarySheet, fmt.Sprintf("C%d", r), row.period(*wb.Period))
		} else {
			f.SetCellValue(SummarySheet, fmt.Sprintf("C%d", r), "n/a")
		}
	}
	if err := f.SetCellStyle(SummarySheet, "B2", "C4", numberStyle); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}

	f.SetCellValue(SummarySheet, "A6", "Rentang Tahun")
	f.SetCellValue(SummarySheet, "B6", wb.Range.String())
	f.SetCellValue(SummarySheet, "A7", "Jumlah Tahun")
	f.SetCellValue(SummarySheet, "B7", len(wb.Records))
	f.SetCellValue(SummarySheet, "A8", "Tahun Defisit")
	f.SetCellValue(SummarySheet, "B8", len(energy.DeficitYears(wb.Records)))

	if wb.Trend != nil {
		f.SetCellValue(SummarySheet, "A9", "Tahun Puncak Konsumsi")
		f.SetCellValue(SummarySheet, "B9", wb.Trend.PeakYear)
		f.SetCellValue(SummarySheet, "A10", "Pertumbuhan Rata-rata (%)")
		f.SetCellValue(SummarySheet, "B10", wb.Trend.AverageGrowth)
		f.SetCellValue(SummarySheet, "A11", "Volatilitas (%)")
		f.SetCellValue(SummarySheet, "B11", wb.Trend.Volatility)
		if err := f.SetCellStyle(SummarySheet, "B10", "B11", numberStyle); err != nil {
			return fmt.Errorf("style trend: %w", err)
		}
	}

	return nil
}

func writeRecords(f *excelize.File, records []energy.Record, headerStyle, numberStyle int) error {
	headers := append(append([]string{}, energy.RequiredColumns...), "Defisit Energi")
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(DataSheet, cell, header)
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(DataSheet, "A", last, 20)
	f.SetCellStyle(DataSheet, "A1", last+"1", headerStyle)

	for i, record := range records {
		row := i + 2
		values := []interface{}{
			record.Year,
			record.Consumption,
			record.Production,
			record.FossilProduction,
			record.NuclearProduction,
			record.RenewableProduction,
			deficitLabel(record),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(DataSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", record.Year, err)
		}
	}

	if len(records) > 0 {
		end, _ := excelize.CoordinatesToCellName(6, len(records)+1)
		if err := f.SetCellStyle(DataSheet, "B2", end, numberStyle); err != nil {
			return fmt.Errorf("style records: %w", err)
		}
	}

	return nil
}

func deficitLabel(record energy.Record) string {
	if record.Deficit() {
		return "Ya"
	}
	return "Tidak"
}
