package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var ErrPenaltyNotNumeric = errors.New("penalty must be numeric")

// CoercePenalty turns the free-form penalty field of a submission into a
// number. Judge UIs historically send it as either a number or a numeric
// string; anything else is rejected before any write happens.
func CoercePenalty(v interface{}) (float64, error) {
	switch p := v.(type) {
	case float64:
		return p, nil
	case int:
		return float64(p), nil
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0, ErrPenaltyNotNumeric
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, ErrPenaltyNotNumeric
		}
		return f, nil
	default:
		return 0, ErrPenaltyNotNumeric
	}
}
