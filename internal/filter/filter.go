// Package filter applies jq expressions to command output.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeExpression fixes shell-escaped operators in jq expressions.
// Zsh escapes ! to \! even in single quotes, breaking operators like !=.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// Apply applies a jq filter expression to the input data. An empty
// expression returns the data unchanged. A single jq result is returned
// as-is; multiple results collapse into a slice.
func Apply(data interface{}, expression string) (interface{}, error) {
	if expression == "" {
		return data, nil
	}

	query, err := gojq.Parse(NormalizeExpression(expression))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	iter := query.Run(data)
	var results []interface{}
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

// ApplyToJSON applies filter to JSON bytes and returns filtered JSON bytes (pretty-printed).
func ApplyToJSON(jsonData []byte, expression string) ([]byte, error) {
	if expression == "" {
		return jsonData, nil
	}

	result, err := ApplyFromJSON(jsonData, expression)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}

// ApplyFromJSON applies a jq filter to JSON bytes and returns the result as a
// Go value for the caller to format.
func ApplyFromJSON(jsonData []byte, expression string) (interface{}, error) {
	var data interface{}
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(data, expression)
}
