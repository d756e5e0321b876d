package report

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrNoMatch is returned by Query when the path selects nothing.
var ErrNoMatch = errors.New("no match")

// Query evaluates a gjson path against raw report data. Scalars are returned
// as plain strings and objects or arrays as raw JSON.
func Query(data []byte, path string) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: not valid JSON", ErrInvalidReport)
	}
	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return "", fmt.Errorf("%w for %q", ErrNoMatch, path)
	}
	if result.IsObject() || result.IsArray() {
		return result.Raw, nil
	}
	return result.String(), nil
}

// FailedNames lists the names of assertions that did not pass, in document
// order.
func FailedNames(data []byte) []string {
	var names []string
	gjson.GetBytes(data, "tests.#.assertions").ForEach(func(_, assertions gjson.Result) bool {
		assertions.ForEach(func(_, a gjson.Result) bool {
			if a.Get("outcome").String() != "passed" {
				names = append(names, a.Get("name").String())
			}
			return true
		})
		return true
	})
	return names
}
