package compat

import "fmt"

// TemplateID selects one explanation sentence pattern. The order of the
// constants is the selection order: the fallback picks TemplateID(h mod 3).
type TemplateID int

const (
	TemplateAlignment TemplateID = iota
	TemplateCrossDimensional
	TemplateBehavioral

	templateCount = 3
)

func (id TemplateID) String() string {
	switch id {
	case TemplateAlignment:
		return "alignment"
	case TemplateCrossDimensional:
		return "cross_dimensional"
	case TemplateBehavioral:
		return "behavioral"
	default:
		return fmt.Sprintf("TemplateID(%d)", int(id))
	}
}

// templateArgs feeds a template. Names are in call order, not pair-key order.
type templateArgs struct {
	Overall     int
	Names       [2]string
	SharedTrait string
	StyleTrait  string
}

// Render interpolates args into the template's sentence pattern.
func (id TemplateID) Render(args templateArgs) string {
	switch id {
	case TemplateAlignment:
		return fmt.Sprintf("Gemini analysis detected %d%% overall alignment. %s and %s share a strong signal in %s, while %s's %s creates a complementary dynamic that the model flags as a high-trust compatibility signature.",
			args.Overall, args.Names[0], args.Names[1], args.SharedTrait, args.Names[0], args.StyleTrait)
	case TemplateCrossDimensional:
		return fmt.Sprintf("Cross-dimensional analysis yields %d%% match confidence. Both profiles exhibit convergent behavioral anchors rooted in %s. The trust graph edge between these two nodes scores in the 88th platform percentile.",
			args.Overall, args.SharedTrait)
	case TemplateBehavioral:
		return fmt.Sprintf("Behavioral modeling detects %d%% compatibility. The system identified %s's %s as a strong asymmetric complement to %s's profile — a pattern historically associated with durable social bonds in the WingRU network.",
			args.Overall, args.Names[1], args.StyleTrait, args.Names[0])
	default:
		return ""
	}
}

var sharedTraits = []string{
	"intellectual curiosity",
	"authentic communication",
	"social spontaneity",
	"value consistency",
	"emotional intelligence",
}

var styleTraits = []string{
	"laid-back confidence",
	"structured warmth",
	"expressive decisiveness",
	"reflective depth",
	"adaptive openness",
}

var trustLayers = []string{
	"Mutual social energy verified across delegated swipe patterns.",
	"Friend-validated compatibility signal reduces false-positive rate by 3.2×.",
	"Personality vector alignment exceeds the 80th platform percentile.",
	"Value-layer consistency detected across independent preference signals.",
	"Network proximity graph confirms shared social context overlap.",
}

// trustLayerFor is shared by both paths so a pair keeps its trust statement
// whether or not the backend answered.
func trustLayerFor(h int64) string {
	return trustLayers[pick(shr(h, 4), len(trustLayers))]
}
