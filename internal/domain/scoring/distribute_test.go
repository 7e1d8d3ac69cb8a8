package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributeSumsExactly(t *testing.T) {
	cases := []struct {
		name  string
		total float64
		years []int
	}{
		{"even split", 12.0, []int{2021, 2022, 2023}},
		{"repeating decimal", 10.0, []int{2021, 2022, 2023}},
		{"single year", 7.3, []int{2025}},
		{"awkward total", 11.5, []int{2022, 2023, 2024, 2025}},
		{"tiny total", 0.1, []int{2021, 2022, 2023, 2024, 2025}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shares := Distribute(tc.total, tc.years)
			require.Len(t, shares, len(tc.years))

			sum := decimal.Zero
			for _, year := range tc.years {
				sum = sum.Add(decimal.NewFromFloat(shares[year]))
			}
			assert.True(t, sum.Equal(decimal.NewFromFloat(tc.total)),
				"distributed sum %s != total %v", sum, tc.total)
		})
	}
}

func TestDistributeRemainderOnLastYear(t *testing.T) {
	shares := Distribute(10, []int{2021, 2022, 2023})

	assert.Equal(t, 3.3, shares[2021])
	assert.Equal(t, 3.3, shares[2022])
	assert.Equal(t, 3.4, shares[2023])
}

func TestDistributeEmptyYears(t *testing.T) {
	assert.Empty(t, Distribute(10, nil))
}
