package compat

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

var fenceStripper = strings.NewReplacer("```json", "", "```", "")

// cleanJSON removes markdown code fences anywhere in the text and trims
// surrounding whitespace.
func cleanJSON(text string) string {
	return strings.TrimSpace(fenceStripper.Replace(text))
}

// analysisWire mirrors the JSON object requested by BuildPrompt. Pointers
// distinguish a missing field from a zero value.
type analysisWire struct {
	Overall     *float64 `json:"overall"`
	Cognitive   *float64 `json:"cognitive"`
	Social      *float64 `json:"social"`
	Values      *float64 `json:"values"`
	Explanation *string  `json:"explanation"`
}

// parseAnalysis decodes a backend reply into a Result. TrustLayer and Source
// are left for the caller to set. The sum contract stated in the prompt is
// not checked here.
func parseAnalysis(text string) (Result, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return Result{}, fmt.Errorf("%w: empty response", ErrBackendResponseMalformed)
	}

	var w analysisWire
	if err := json.Unmarshal([]byte(cleaned), &w); err != nil {
		return Result{}, fmt.Errorf("%w: decoding analysis: %w", ErrBackendResponseMalformed, err)
	}

	var r Result
	scores := []struct {
		name string
		src  *float64
		dst  *int
	}{
		{"overall", w.Overall, &r.Overall},
		{"cognitive", w.Cognitive, &r.Cognitive},
		{"social", w.Social, &r.Social},
		{"values", w.Values, &r.Values},
	}
	for _, s := range scores {
		v, err := scoreField(s.name, s.src)
		if err != nil {
			return Result{}, err
		}
		*s.dst = v
	}

	if w.Explanation == nil || strings.TrimSpace(*w.Explanation) == "" {
		return Result{}, fmt.Errorf("%w: missing field %q", ErrBackendResponseMalformed, "explanation")
	}
	r.Explanation = *w.Explanation
	return r, nil
}

func scoreField(name string, v *float64) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: missing field %q", ErrBackendResponseMalformed, name)
	}
	if *v != math.Trunc(*v) || *v < 0 || *v > 100 {
		return 0, fmt.Errorf("%w: field %q = %v is not an integer in [0,100]", ErrBackendResponseMalformed, name, *v)
	}
	return int(*v), nil
}
