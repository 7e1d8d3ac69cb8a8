package scoring

// ThresholdFor picks the threshold for a level and year, falling back to the
// most recent configured year at or below the requested one. The second
// return is false when the level has no usable configuration at all, in
// which case eligibility must evaluate to not-met, never to met.
func ThresholdFor(thresholds []LevelThreshold, level, year int) (LevelThreshold, bool) {
	var best LevelThreshold
	found := false
	for _, th := range thresholds {
		if th.Level != level || th.Year > year {
			continue
		}
		if !found || th.Year > best.Year {
			best = th
			found = true
		}
	}
	return best, found
}

// Evaluate derives the met flags, each independently false when no threshold
// is configured.
func Evaluate(cumPoints, cumCredits float64, threshold *LevelThreshold) (pointMet, creditMet bool) {
	if threshold == nil {
		return false, false
	}
	return cumPoints >= threshold.RequiredPoints, cumCredits >= threshold.RequiredCredits
}
