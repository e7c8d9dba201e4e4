package recommend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPayload matches any PayloadError via errors.Is.
var ErrInvalidPayload = errors.New("invalid payload")

// PayloadError indicates recommender input without a usable features list.
type PayloadError struct {
	Reason string
}

func (e *PayloadError) Error() string { return "invalid payload: " + e.Reason }

func (e *PayloadError) Is(target error) bool { return target == ErrInvalidPayload }

// ParsePayload reads {"features": [...]}. null elements read as NaN, the
// same encoding extraction output uses for undefined features.
func ParsePayload(data []byte) ([]float64, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &PayloadError{Reason: "empty input"}
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &PayloadError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}
	raw, ok := doc["features"]
	if !ok {
		return nil, &PayloadError{Reason: `missing "features" key`}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, &PayloadError{Reason: `"features" is not a list`}
	}
	out := make([]float64, len(items))
	for i, it := range items {
		if string(bytes.TrimSpace(it)) == "null" {
			out[i] = math.NaN()
			continue
		}
		if err := json.Unmarshal(it, &out[i]); err != nil {
			return nil, &PayloadError{Reason: fmt.Sprintf("features[%d] is not a number", i)}
		}
	}
	return out, nil
}
