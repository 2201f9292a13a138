package energy

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var columnTypes = map[string]series.Type{
	ColumnYear:        series.Int,
	ColumnConsumption: series.Float,
	ColumnProduction:  series.Float,
	ColumnFossil:      series.Float,
	ColumnNuclear:     series.Float,
	ColumnRenewable:   series.Float,
}

// Load reads the cleaned yearly CSV at path.
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	dataset, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return dataset, nil
}

// Read parses a CSV with a header row. Columns other than RequiredColumns
// are ignored.
func Read(r io.Reader) (*Dataset, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	present := make(map[string]bool, len(rows[0]))
	for _, name := range rows[0] {
		present[name] = true
	}
	for _, name := range RequiredColumns {
		if !present[name] {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	// gota refuses a header without rows, so the empty case is caught here.
	if len(rows) == 1 {
		return nil, ErrEmptyDataset
	}

	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, df.Err)
	}

	years, err := df.Col(ColumnYear).Int()
	if err != nil {
		return nil, fmt.Errorf("%w: column %q: %v", ErrMalformed, ColumnYear, err)
	}

	floats := make(map[string][]float64, len(RequiredColumns)-1)
	for _, name := range RequiredColumns[1:] {
		values := df.Col(name).Float()
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: column %q row %d", ErrMalformed, name, i+1)
			}
		}
		floats[name] = values
	}

	records := make([]Record, len(years))
	for i, year := range years {
		records[i] = Record{
			Year:                year,
			Consumption:         floats[ColumnConsumption][i],
			Production:          floats[ColumnProduction][i],
			FossilProduction:    floats[ColumnFossil][i],
			NuclearProduction:   floats[ColumnNuclear][i],
			RenewableProduction: floats[ColumnRenewable][i],
		}
	}

	return NewDataset(records)
}
