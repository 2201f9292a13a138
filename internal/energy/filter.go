package energy

// Filter returns the records whose Year lies in r, inclusive on both ends,
// in their original order. An inverted range fails with ErrInvalidRange.
func Filter(records []Record, r YearRange) ([]Record, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		if r.Contains(record.Year) {
			filtered = append(filtered, record)
		}
	}

	return filtered, nil
}
