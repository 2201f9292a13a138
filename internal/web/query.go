package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sekarsister/energi-dashboard/internal/energy"
)

var errBadQuery = errors.New("bad query parameter")

var validate = validator.New()

type rangeQuery struct {
	From int `validate:"ltefield=To"`
	To   int
}

// parseRange reads ?from=&to= from r. Missing values default to the
// dataset bounds.
func parseRange(r *http.Request, bounds energy.YearRange) (energy.YearRange, error) {
	q := rangeQuery{From: bounds.From, To: bounds.To}

	for name, dst := range map[string]*int{"from": &q.From, "to": &q.To} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return energy.YearRange{}, fmt.Errorf("%w: %s=%q is not a year", errBadQuery, name, raw)
		}
		*dst = v
	}

	if err := validate.Struct(q); err != nil {
		return energy.YearRange{}, fmt.Errorf("%w: from %d is after to %d", energy.ErrInvalidRange, q.From, q.To)
	}

	return energy.YearRange{From: q.From, To: q.To}, nil
}

func isClientError(err error) bool {
	return errors.Is(err, errBadQuery) || errors.Is(err, energy.ErrInvalidInput)
}
