package energy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validCSV = `Year,Total Primary Energy Consumption,Total Primary Energy Production,Total Fossil Fuels Production,Nuclear Electric Power Production,Total Renewable Energy Production,Notes
2000,20,10,7,1,2,a
2001,20,20,15,2,3,b
2002,20,30,22,3,5,c
`

func TestRead(t *testing.T) {
	dataset, err := Read(strings.NewReader(validCSV))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if dataset.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", dataset.Len())
	}

	want := Record{
		Year:                2001,
		Consumption:         20,
		Production:          20,
		FossilProduction:    15,
		NuclearProduction:   2,
		RenewableProduction: 3,
	}
	if got := dataset.Records()[1]; got != want {
		t.Errorf("Records()[1] = %+v, want %+v", got, want)
	}

	m, err := dataset.Metrics()
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if m.TotalProduction != 60 || m.TotalConsumption != 60 || m.SelfSufficiency != 1 {
		t.Errorf("Metrics() = %+v", m)
	}
}

func TestReadMissingColumn(t *testing.T) {
	csv := `Year,Total Primary Energy Consumption,Total Primary Energy Production,Total Fossil Fuels Production,Nuclear Electric Power Production
2000,20,10,7,1
`
	_, err := Read(strings.NewReader(csv))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Read() error = %v, want ErrMissingColumn", err)
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "bad year",
			csv: `Year,Total Primary Energy Consumption,Total Primary Energy Production,Total Fossil Fuels Production,Nuclear Electric Power Production,Total Renewable Energy Production
twenty,20,10,7,1,2
`,
		},
		{
			name: "bad number",
			csv: `Year,Total Primary Energy Consumption,Total Primary Energy Production,Total Fossil Fuels Production,Nuclear Electric Power Production,Total Renewable Energy Production
2000,lots,10,7,1,2
`,
		},
		{
			name: "infinite value",
			csv: `Year,Total Primary Energy Consumption,Total Primary Energy Production,Total Fossil Fuels Production,Nuclear Electric Power Production,Total Renewable Energy Production
2000,20,Inf,7,1,2
`,
		},
		{
			name: "ragged row",
			csv: `Year,Total Primary Energy Consumption,Total Primary Energy Production,Total Fossil Fuels Production,Nuclear Electric Power Production,Total Renewable Energy Production
2000,20,10
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.csv))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Read() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestReadEmpty(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want error
	}{
		{name: "empty file", csv: "", want: ErrEmptyDataset},
		{
			name: "header only",
			csv:  "Year,Total Primary Energy Consumption,Total Primary Energy Production,Total Fossil Fuels Production,Nuclear Electric Power Production,Total Renewable Energy Production\n",
			want: ErrEmptyDataset,
		},
		{name: "header only missing column", csv: "Year,Notes\n", want: ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.csv))
			if !errors.Is(err, tt.want) {
				t.Errorf("Read() error = %v, want %v", err, tt.want)
			}
			if errors.Is(err, ErrMalformed) {
				t.Errorf("Read() error = %v, must not be ErrMalformed", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cleaned_data.csv")
	if err := os.WriteFile(path, []byte(validCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	dataset, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if bounds := dataset.Bounds(); bounds.From != 2000 || bounds.To != 2002 {
		t.Errorf("Bounds() = %v, want 2000-2002", bounds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}
