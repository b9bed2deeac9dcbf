package timeline

import (
	"strings"

	"shortsmith/types"
)

// classifierRules are evaluated in order; the first matching rule wins.
// The ordering is a deliberate tie-break policy: hype words beat intro
// words beat footage words beat CTA words.
var classifierRules = []struct {
	kind     types.VisualKind
	keywords []string
}{
	{types.KindDynamicText, []string{"epic", "amazing", "incredible", "shock"}},
	{types.KindTitleCard, []string{"hook", "intro", "welcome"}},
	{types.KindImageSequence, []string{"moment", "scene", "clip"}},
	{types.KindCTAAnimation, []string{"subscribe", "like", "comment"}},
}

// Classify maps scene text to its visual treatment. Matching is
// case-insensitive substring containment; unmatched text falls back to a
// plain text overlay.
func Classify(text string) types.VisualKind {
	lower := strings.ToLower(text)
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.kind
			}
		}
	}
	return types.KindTextOverlay
}
