package scoring

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNoActiveYears    = errors.New("distribution requires at least one active year")
	ErrUnknownMetric    = errors.New("unknown score metric")
)
