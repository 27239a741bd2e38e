package compat

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func p(name string) Profile { return Profile{Name: name} }

func TestFallback_GoldenValues(t *testing.T) {
	tests := []struct {
		a, b                              string
		overall, cognitive, social, value int
		template                          TemplateID
		shared, style                     string
		trust                             int
	}{
		{"Audrey", "Kevin", 72, 72, 63, 81, TemplateCrossDimensional, "authentic communication", "adaptive openness", 1},
		{"Alice", "Bob", 86, 82, 88, 88, TemplateAlignment, "intellectual curiosity", "expressive decisiveness", 4},
		{"Priya", "Sam", 77, 74, 86, 71, TemplateBehavioral, "value consistency", "reflective depth", 2},
		{"Maya", "Jordan", 69, 77, 62, 68, TemplateAlignment, "authentic communication", "laid-back confidence", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			r := Fallback(p(tt.a), p(tt.b))
			assert.Equal(t, tt.overall, r.Overall, "overall")
			assert.Equal(t, tt.cognitive, r.Cognitive, "cognitive")
			assert.Equal(t, tt.social, r.Social, "social")
			assert.Equal(t, tt.value, r.Values, "values")
			assert.Equal(t, trustLayers[tt.trust], r.TrustLayer)
			assert.Equal(t, SourceFallback, r.Source)

			d := derive(pairSeed(p(tt.a), p(tt.b)))
			assert.Equal(t, tt.template, d.template)
			assert.Equal(t, tt.shared, d.shared)
			assert.Equal(t, tt.style, d.style)
		})
	}
}

func TestFallback_AudreyKevinGolden(t *testing.T) {
	r := Fallback(p("Audrey"), p("Kevin"))
	data, err := json.MarshalIndent(r, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "audrey_kevin", data)
}

func TestFallback_Deterministic(t *testing.T) {
	a := Profile{Name: "Audrey", Major: "CS", PersonalityAnswer: "curious"}
	b := Profile{Name: "Kevin"}
	first := Fallback(a, b)
	for range 50 {
		if diff := cmp.Diff(first, Fallback(a, b)); diff != "" {
			t.Fatalf("Fallback not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestFallback_IgnoresNonNameFields(t *testing.T) {
	bare := Fallback(p("Audrey"), p("Kevin"))
	rich := Fallback(
		Profile{Name: "Audrey", Major: "Biology", PersonalityAnswer: "night owl"},
		Profile{Name: "Kevin", Major: "Math", PersonalityAnswer: "early bird"},
	)
	if diff := cmp.Diff(bare, rich); diff != "" {
		t.Errorf("major/personality changed the fallback (-bare +rich):\n%s", diff)
	}
}

func TestFallback_OrderIndependentScores(t *testing.T) {
	ab := Fallback(p("Alice"), p("Bob"))
	ba := Fallback(p("Bob"), p("Alice"))

	// Explanations reference names positionally and may differ.
	if diff := cmp.Diff(ab, ba, cmpIgnoreExplanation); diff != "" {
		t.Errorf("scores depend on argument order (-ab +ba):\n%s", diff)
	}
}

var cmpIgnoreExplanation = cmp.FilterPath(func(path cmp.Path) bool {
	return path.Last().String() == ".Explanation"
}, cmp.Ignore())

func TestFallback_ExplanationUsesCallOrder(t *testing.T) {
	ab := Fallback(p("Alice"), p("Bob"))
	ba := Fallback(p("Bob"), p("Alice"))

	assert.Equal(t,
		"Gemini analysis detected 86% overall alignment. Alice and Bob share a strong signal in intellectual curiosity, while Alice's expressive decisiveness creates a complementary dynamic that the model flags as a high-trust compatibility signature.",
		ab.Explanation)
	assert.Equal(t,
		"Gemini analysis detected 86% overall alignment. Bob and Alice share a strong signal in intellectual curiosity, while Bob's expressive decisiveness creates a complementary dynamic that the model flags as a high-trust compatibility signature.",
		ba.Explanation)
}

func TestFallback_BehavioralTemplate(t *testing.T) {
	r := Fallback(p("Priya"), p("Sam"))
	assert.Equal(t,
		"Behavioral modeling detects 77% compatibility. The system identified Sam's reflective depth as a strong asymmetric complement to Priya's profile — a pattern historically associated with durable social bonds in the WingRU network.",
		r.Explanation)
}

// Zoë/Zoe has offsets (+9, +12, -21) on overall 93: cognitive and social are
// clamped, so the sub-scores no longer average to overall. This is kept.
func TestFallback_ClampBreaksSumAtExtremes(t *testing.T) {
	r := Fallback(p("Zoë"), p("Zoe"))
	assert.Equal(t, 93, r.Overall)
	assert.Equal(t, 99, r.Cognitive)
	assert.Equal(t, 99, r.Social)
	assert.Equal(t, 72, r.Values)
	assert.NotEqual(t, r.Overall*3, r.Cognitive+r.Social+r.Values)

	d := derive(pairSeed(p("Zoë"), p("Zoe")))
	assert.Equal(t, [3]int{9, 12, -21}, d.offsets)
}

func TestFallback_Properties(t *testing.T) {
	names := []string{"", "A", "Audrey", "Kevin", "Zoë", "Zoe", "李雷", "😀", "O'Brien", "a b c", "::", "Jordan"}
	for _, a := range names {
		for _, b := range names {
			d := derive(pairSeed(p(a), p(b)))
			if sum := d.offsets[0] + d.offsets[1] + d.offsets[2]; sum != 0 {
				t.Errorf("(%q,%q) offsets %v sum to %d, want 0", a, b, d.offsets, sum)
			}
			for i, v := range d.offsets[:2] {
				if v < -12 || v > 12 {
					t.Errorf("(%q,%q) offset %d = %d outside [-12,12]", a, b, i, v)
				}
			}

			r := Fallback(p(a), p(b))
			if r.Overall < 68 || r.Overall > 95 {
				t.Errorf("(%q,%q) overall %d outside [68,95]", a, b, r.Overall)
			}
			for name, v := range map[string]int{"cognitive": r.Cognitive, "social": r.Social, "values": r.Values} {
				if v < 45 || v > 99 {
					t.Errorf("(%q,%q) %s %d outside [45,99]", a, b, name, v)
				}
			}
			if r.Explanation == "" || r.TrustLayer == "" {
				t.Errorf("(%q,%q) empty text fields: %+v", a, b, r)
			}
		}
	}
}

func TestQuickScore_MatchesFallbackOverall(t *testing.T) {
	for i := range 100 {
		a, b := p(fmt.Sprintf("user-%d", i)), p(fmt.Sprintf("cand-%d", i*7))
		if q, f := QuickScore(a, b), Fallback(a, b).Overall; q != f {
			t.Errorf("QuickScore(%q,%q) = %d, Fallback overall = %d", a.Name, b.Name, q, f)
		}
	}
	assert.Equal(t, 72, QuickScore(p("Kevin"), p("Audrey")))
}

func TestDimensions(t *testing.T) {
	r := Result{Cognitive: 97, Social: 63, Values: 81}
	want := []Dimension{
		{"Cognitive", 97},
		{"Social", 63},
		{"Values", 81},
		{"Energy", 99},
		{"Trust", 83},
	}
	if diff := cmp.Diff(want, r.Dimensions()); diff != "" {
		t.Errorf("Dimensions() mismatch (-want +got):\n%s", diff)
	}
}
