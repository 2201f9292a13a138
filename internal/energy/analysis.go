package energy

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DeficitYears lists the years in which consumption exceeded production.
func DeficitYears(records []Record) []int {
	var years []int
	for _, record := range records {
		if record.Deficit() {
			years = append(years, record.Year)
		}
	}
	return years
}

// Run is a half-open index interval [Start, End) into a record slice.
type Run struct {
	Start int
	End   int
}

func (r Run) Len() int {
	return r.End - r.Start
}

// DeficitRuns returns the maximal runs of consecutive records in deficit.
// Crossings are not interpolated, so a run covers only the records that are
// themselves in deficit.
func DeficitRuns(records []Record) []Run {
	var runs []Run
	start := -1
	for i, record := range records {
		switch {
		case record.Deficit() && start < 0:
			start = i
		case !record.Deficit() && start >= 0:
			runs = append(runs, Run{Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, Run{Start: start, End: len(records)})
	}
	return runs
}

// Regression is the least squares fit consumption = Intercept + Slope*production.
type Regression struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	N         int     `json:"n"`
}

func (r Regression) At(production float64) float64 {
	return r.Intercept + r.Slope*production
}

func FitRegression(records []Record) (Regression, error) {
	if len(records) < 2 {
		return Regression{}, ErrInsufficientData
	}

	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, record := range records {
		xs[i] = record.Production
		ys[i] = record.Consumption
	}

	if stat.Variance(xs, nil) == 0 {
		return Regression{}, ErrInsufficientData
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		// constant consumption: the horizontal fit is exact
		r2 = 1
	}

	return Regression{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  r2,
		N:         len(records),
	}, nil
}

// Trend summarises how consumption moved over a sequence of years.
// Growth figures are year-over-year percentages.
type Trend struct {
	PeakYear        int     `json:"peak_year"`
	PeakConsumption float64 `json:"peak_consumption"`
	AverageGrowth   float64 `json:"average_growth"`
	Volatility      float64 `json:"volatility"`
}

func GrowthRates(records []Record) []float64 {
	var rates []float64
	for i := 1; i < len(records); i++ {
		previous := records[i-1].Consumption
		if previous > 0 {
			rates = append(rates, (records[i].Consumption-previous)/previous*100)
		}
	}
	return rates
}

func ConsumptionTrend(records []Record) (Trend, error) {
	if len(records) == 0 {
		return Trend{}, ErrEmptyDataset
	}

	trend := Trend{PeakYear: records[0].Year, PeakConsumption: records[0].Consumption}
	for _, record := range records[1:] {
		if record.Consumption > trend.PeakConsumption {
			trend.PeakYear = record.Year
			trend.PeakConsumption = record.Consumption
		}
	}

	if rates := GrowthRates(records); len(rates) > 0 {
		mean, variance := stat.PopMeanVariance(rates, nil)
		trend.AverageGrowth = mean
		trend.Volatility = math.Sqrt(variance)
	}

	return trend, nil
}
