// Package filter evaluates JQ expressions against command output, so
// scripted callers can shape JSON without piping through jq.
package filter

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Apply runs a JQ expression over data. An empty expression is the
// identity. A single result is returned unwrapped; multiple results
// come back as a slice.
func Apply(data any, expression string) (any, error) {
	if expression == "" {
		return data, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	var results []any
	iter := query.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}
