package energy

import (
	"errors"
	"fmt"
)

const (
	ColumnYear        = "Year"
	ColumnConsumption = "Total Primary Energy Consumption"
	ColumnProduction  = "Total Primary Energy Production"
	ColumnFossil      = "Total Fossil Fuels Production"
	ColumnNuclear     = "Nuclear Electric Power Production"
	ColumnRenewable   = "Total Renewable Energy Production"
)

var RequiredColumns = []string{
	ColumnYear,
	ColumnConsumption,
	ColumnProduction,
	ColumnFossil,
	ColumnNuclear,
	ColumnRenewable,
}

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmptyDataset     = fmt.Errorf("%w: dataset is empty", ErrInvalidInput)
	ErrZeroConsumption  = fmt.Errorf("%w: total consumption is zero", ErrInvalidInput)
	ErrInvalidRange     = fmt.Errorf("%w: range start is after range end", ErrInvalidInput)
	ErrInsufficientData = fmt.Errorf("%w: not enough distinct points", ErrInvalidInput)
	ErrMissingColumn    = errors.New("missing column")
	ErrMalformed        = errors.New("malformed value")
)

// Record is one calendar year of world energy figures, in exajoules.
type Record struct {
	Year                int     `json:"year"`
	Consumption         float64 `json:"consumption"`
	Production          float64 `json:"production"`
	FossilProduction    float64 `json:"fossil_production"`
	NuclearProduction   float64 `json:"nuclear_production"`
	RenewableProduction float64 `json:"renewable_production"`
}

func (r Record) Deficit() bool {
	return r.Consumption > r.Production
}

// YearRange is a closed interval of years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

func (r YearRange) Validate() error {
	if r.From > r.To {
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, r.From, r.To)
	}
	return nil
}

// Clamp limits both ends of r to bounds. The result may still be inverted
// when r lies entirely outside bounds.
func (r YearRange) Clamp(bounds YearRange) YearRange {
	out := r
	if out.From < bounds.From {
		out.From = bounds.From
	}
	if out.From > bounds.To {
		out.From = bounds.To
	}
	if out.To > bounds.To {
		out.To = bounds.To
	}
	if out.To < bounds.From {
		out.To = bounds.From
	}
	return out
}

func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// Dataset is the loaded, read-only sequence of records in file order.
type Dataset struct {
	records []Record
	bounds  YearRange
}

func NewDataset(records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	copied := make([]Record, len(records))
	copy(copied, records)

	bounds := YearRange{From: copied[0].Year, To: copied[0].Year}
	for _, record := range copied[1:] {
		if record.Year < bounds.From {
			bounds.From = record.Year
		}
		if record.Year > bounds.To {
			bounds.To = record.Year
		}
	}

	return &Dataset{records: copied, bounds: bounds}, nil
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all records.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Bounds returns [min(Year), max(Year)].
func (d *Dataset) Bounds() YearRange {
	return d.bounds
}

func (d *Dataset) Filter(r YearRange) ([]Record, error) {
	return Filter(d.records, r)
}

func (d *Dataset) Metrics() (Metrics, error) {
	return ComputeMetrics(d.records)
}
