package studio

import (
	"strings"
	"unicode/utf8"

	"github.com/studycircle/studycircle/internal/observability"
)

// minDiagramLen is the shortest stripped output still treated as a real
// diagram; anything shorter gets replaced by a fallback.
const minDiagramLen = 10

// longDraftLen is the draft length (in runes) above which the generic
// fallback is a flowchart rather than a mind map.
const longDraftLen = 50

// diagramKeywords are the recognized leading diagram-type tokens.
var diagramKeywords = []string{"graph", "mindmap"}

// Repairer validates generated Mermaid source and substitutes deterministic
// fallback content when the model output is unusable. The model is
// unreliable about omitting code fences and diagram-type keywords; the
// display layer must always receive renderable source.
type Repairer struct {
	rules []FallbackRule
}

// NewRepairer creates a repairer with the given theme rules; nil or empty
// falls back to the built-in defaults.
func NewRepairer(rules []FallbackRule) *Repairer {
	if len(rules) == 0 {
		rules = DefaultFallbackRules()
	}
	return &Repairer{rules: rules}
}

// Repair strips code-fence markers from raw, validates the result, and
// returns either the cleaned source or a fallback diagram chosen from the
// original draft. The returned text always starts with a recognized
// diagram-type keyword, for any input.
func (r *Repairer) Repair(raw, draft string) string {
	clean := strings.ReplaceAll(raw, "```mermaid", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	if utf8.RuneCountInString(clean) < minDiagramLen {
		return r.fallback(draft)
	}

	if !startsWithDiagramKeyword(clean) {
		return r.fallback(draft)
	}

	return clean
}

func startsWithDiagramKeyword(code string) bool {
	for _, kw := range diagramKeywords {
		if strings.HasPrefix(code, kw) {
			return true
		}
	}
	return false
}

// fallback picks canned content for the draft: first by theme keywords, then
// by a length heuristic (longer drafts read as linear, shorter as divergent).
func (r *Repairer) fallback(draft string) string {
	observability.IncDiagramFallback()

	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(draft, kw) {
				return rule.Diagram
			}
		}
	}

	if utf8.RuneCountInString(draft) > longDraftLen {
		return genericFlowchart
	}
	return genericMindmap
}
