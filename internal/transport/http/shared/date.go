package shared

import "time"

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate accepts RFC3339 or YYYY-MM-DD. An empty value parses to the zero
// time so optional fields pass through.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range dateLayouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, err
}
