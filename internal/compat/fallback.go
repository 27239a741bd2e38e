package compat

const (
	overallMin = 68
	overallMax = 95

	offsetSpan = 24 // offsets are deriveScore(.., 0, 24) - 12
	offsetBias = 12

	subScoreMin = 45
	subScoreMax = 99
)

// breakdown holds every value the fallback derives from the pair seed.
type breakdown struct {
	seed     int64
	overall  int
	offsets  [3]int
	template TemplateID
	shared   string
	style    string
	trust    string
}

func derive(h int64) breakdown {
	overall := deriveScore(h, overallMin, overallMax)
	v1 := deriveScore(shr(h, 3), 0, offsetSpan) - offsetBias
	v2 := deriveScore(shr(h, 5), 0, offsetSpan) - offsetBias
	return breakdown{
		seed:     h,
		overall:  overall,
		offsets:  [3]int{v1, v2, -(v1 + v2)},
		template: TemplateID(pick(h, templateCount)),
		shared:   sharedTraits[pick(h, len(sharedTraits))],
		style:    styleTraits[pick(shr(h, 2), len(styleTraits))],
		trust:    trustLayerFor(h),
	}
}

// Fallback computes the deterministic analysis for a and b. It is a pure
// function of the two names. Sub-scores are clamped to [45, 99] after the
// zero-sum offsets are applied, so at the edges their mean may drift from
// Overall.
func Fallback(a, b Profile) Result {
	d := derive(pairSeed(a, b))
	return Result{
		Overall:   d.overall,
		Cognitive: clamp(d.overall+d.offsets[0], subScoreMin, subScoreMax),
		Social:    clamp(d.overall+d.offsets[1], subScoreMin, subScoreMax),
		Values:    clamp(d.overall+d.offsets[2], subScoreMin, subScoreMax),
		Explanation: d.template.Render(templateArgs{
			Overall:     d.overall,
			Names:       [2]string{a.Name, b.Name},
			SharedTrait: d.shared,
			StyleTrait:  d.style,
		}),
		TrustLayer: d.trust,
		Source:     SourceFallback,
	}
}

// QuickScore returns only the fallback overall score, without delay or
// backend access.
func QuickScore(a, b Profile) int {
	return deriveScore(pairSeed(a, b), overallMin, overallMax)
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}
