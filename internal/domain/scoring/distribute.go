package scoring

import "github.com/shopspring/decimal"

// Distribute splits a known historical total across the active years,
// rounding each share to one decimal place. Every year except the last
// active one receives round(total/n, 1); the last active year absorbs the
// exact remainder so the distributed values always sum back to total. The
// remainder-to-last ordering is a deliberate tie-break: do not change it,
// migrated legacy totals must reproduce byte-for-byte.
func Distribute(total float64, activeYears []int) map[int]float64 {
	out := make(map[int]float64, len(activeYears))
	if len(activeYears) == 0 {
		return out
	}

	totalDec := decimal.NewFromFloat(total)
	share := totalDec.Div(decimal.NewFromInt(int64(len(activeYears)))).Round(1)

	assigned := decimal.Zero
	for _, year := range activeYears[:len(activeYears)-1] {
		out[year], _ = share.Float64()
		assigned = assigned.Add(share)
	}

	last := activeYears[len(activeYears)-1]
	out[last], _ = totalDec.Sub(assigned).Round(1).Float64()
	return out
}
