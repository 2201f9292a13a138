package energy

type Metrics struct {
	TotalProduction  float64 `json:"total_production"`
	TotalConsumption float64 `json:"total_consumption"`
	SelfSufficiency  float64 `json:"self_sufficiency_ratio"`
}

// ComputeMetrics sums production and consumption over records and returns
// their ratio. It fails with ErrEmptyDataset or ErrZeroConsumption, both of
// which match ErrInvalidInput.
func ComputeMetrics(records []Record) (Metrics, error) {
	if len(records) == 0 {
		return Metrics{}, ErrEmptyDataset
	}

	var m Metrics
	for _, record := range records {
		m.TotalProduction += record.Production
		m.TotalConsumption += record.Consumption
	}

	if m.TotalConsumption == 0 {
		return m, ErrZeroConsumption
	}

	m.SelfSufficiency = m.TotalProduction / m.TotalConsumption
	return m, nil
}
