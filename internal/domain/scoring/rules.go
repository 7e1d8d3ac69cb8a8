package scoring

import "strings"

// RuleSet resolves (grade, year) pairs to points. Matching order: exact-year
// rule, then span rule containing the year, then DefaultGradePoints.
type RuleSet struct {
	rules []GradeScoreRule
}

func NewRuleSet(rules []GradeScoreRule) *RuleSet {
	return &RuleSet{rules: rules}
}

func (rs *RuleSet) Score(grade string, year int) float64 {
	normalized := normalizeGrade(grade)
	if normalized == "" {
		return DefaultGradePoints
	}

	var spanMatch *GradeScoreRule
	for i := range rs.rules {
		rule := &rs.rules[i]
		if normalizeGrade(rule.Grade) != normalized {
			continue
		}
		if rule.YearFrom == year && rule.YearTo == year {
			return rule.Points
		}
		if spanMatch == nil && rule.YearFrom <= year && year <= rule.YearTo {
			spanMatch = rule
		}
	}
	if spanMatch != nil {
		return spanMatch.Points
	}
	return DefaultGradePoints
}

func normalizeGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}
