package compat

// Profile is the minimal descriptor the scorer needs for one person.
// Only Name takes part in the deterministic fallback; Major and
// PersonalityAnswer are forwarded to the external backend prompt.
type Profile struct {
	Name              string `json:"name" yaml:"name"`
	PersonalityAnswer string `json:"personality_answer,omitempty" yaml:"personality_answer,omitempty"`
	Major             string `json:"major,omitempty" yaml:"major,omitempty"`
}

// Source identifies which path produced a Result.
type Source string

const (
	SourceExternal Source = "external"
	SourceFallback Source = "fallback"
)

// Result is the compatibility bundle for a pair of profiles.
type Result struct {
	Overall     int    `json:"overall" yaml:"overall"`
	Cognitive   int    `json:"cognitive" yaml:"cognitive"`
	Social      int    `json:"social" yaml:"social"`
	Values      int    `json:"values" yaml:"values"`
	Explanation string `json:"explanation" yaml:"explanation"`
	TrustLayer  string `json:"trustLayer" yaml:"trust_layer"`
	Source      Source `json:"source" yaml:"source"`
}

// Dimension is one axis of the radar breakdown shown next to a match.
type Dimension struct {
	Subject string `json:"subject" yaml:"subject"`
	Score   int    `json:"score" yaml:"score"`
}

// Dimensions expands the three sub-scores into the five radar axes.
// Energy and Trust are derived from cognitive and values and capped at 99.
func (r Result) Dimensions() []Dimension {
	return []Dimension{
		{Subject: "Cognitive", Score: r.Cognitive},
		{Subject: "Social", Score: r.Social},
		{Subject: "Values", Score: r.Values},
		{Subject: "Energy", Score: min(r.Cognitive+4, 99)},
		{Subject: "Trust", Score: min(r.Values+2, 99)},
	}
}
