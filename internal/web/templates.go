package web

import (
	"embed"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcMap = template.FuncMap{
	"fixed": fixed,
	"join": func(years []int) string {
		parts := make([]string, len(years))
		for i, year := range years {
			parts[i] = strconv.Itoa(year)
		}
		return strings.Join(parts, ", ")
	},
}

func parseTemplates(files ...string) (*template.Template, error) {
	return template.New("base").Funcs(funcMap).ParseFS(templateFS, files...)
}

// fixed formats v with exactly two decimals. Rounding is applied to the
// exact binary value of v, ties to even, the same as printf-style "%.2f".
func fixed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloatWithExponent(v, math.MinInt32).StringFixedBank(2)
}
