package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalCost(t *testing.T) {
	tests := []struct {
		name        string
		costs       []string
		wantTotal   string
		wantInvalid int
	}{
		{"empty", nil, "0.00", 0},
		{"decimal and integer", []string{"10.50", "5"}, "15.50", 0},
		{"exact cents", []string{"0.10", "0.20"}, "0.30", 0},
		{"whitespace trimmed", []string{" 20 ", "1.25"}, "21.25", 0},
		{"negative refund", []string{"100", "-30"}, "70.00", 0},
		{"garbage skipped", []string{"12", "abc", ""}, "12.00", 2},
		{"huge exponent skipped", []string{"5", "1e10000000"}, "5.00", 1},
		{"tiny exponent skipped", []string{"5", "1e-2000000000"}, "5.00", 1},
		{"too large skipped", []string{"5", "10000000000000001"}, "5.00", 1},
		{"upper bound kept", []string{"1e15"}, "1000000000000000.00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expenses := make([]Expense, 0, len(tt.costs))
			for i, c := range tt.costs {
				expenses = append(expenses, Expense{ID: int64(i + 1), Cost: c})
			}

			total, invalid := TotalCost(expenses)
			assert.Equal(t, tt.wantTotal, total.StringFixed(2))
			assert.Len(t, invalid, tt.wantInvalid)
		})
	}
}

func TestParseCost(t *testing.T) {
	d, ok := ParseCost("1e2")
	assert.True(t, ok)
	assert.Equal(t, "100", d.String())

	_, ok = ParseCost("twelve")
	assert.False(t, ok)

	_, ok = ParseCost("1e2000000000")
	assert.False(t, ok)
}
