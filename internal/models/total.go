package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Costs outside these bounds are treated as not numeric. Exponents like
// 1e10000000 would otherwise expand to millions of digits when summed.
const (
	maxCostExponent = 15
	minCostExponent = -20
)

var maxCost = decimal.New(1, maxCostExponent)

// ParseCost parses a free-text cost. Surrounding whitespace is ignored.
func ParseCost(cost string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(cost))
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxCostExponent || exp < minCostExponent {
		return decimal.Zero, false
	}
	if d.Abs().GreaterThan(maxCost) {
		return decimal.Zero, false
	}
	return d, true
}

// TotalCost sums the cost of every expense. Costs that are not numbers add
// nothing; their IDs are returned so the caller can point them out.
func TotalCost(expenses []Expense) (total decimal.Decimal, invalid []int64) {
	total = decimal.Zero
	for _, e := range expenses {
		d, ok := ParseCost(e.Cost)
		if !ok {
			invalid = append(invalid, e.ID)
			continue
		}
		total = total.Add(d)
	}
	return total, invalid
}
