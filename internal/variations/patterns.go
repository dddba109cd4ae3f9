package variations

import (
	"fmt"
	"strings"
)

// Pattern is one A/B testing layout strategy a variation is generated for.
type Pattern struct {
	ID          string
	Name        string
	Description string
	Strategy    string
	KeyChanges  []string
}

// Patterns lists the layout strategies in generation order.
var Patterns = []Pattern{
	{
		ID:          "hero-first",
		Name:        "Hero-First Layout",
		Description: "Prominent hero section with clear CTA, minimal navigation",
		Strategy:    "hero_dominant",
		KeyChanges: []string{
			"Large hero section (60% of viewport)",
			"Single primary CTA button",
			"Minimal navigation menu",
			"Social proof below hero",
		},
	},
	{
		ID:          "feature-grid",
		Name:        "Feature-Grid Layout",
		Description: "Grid-based feature showcase with multiple CTAs",
		Strategy:    "feature_grid",
		KeyChanges: []string{
			"3-column feature grid",
			"Multiple CTA buttons",
			"Tabbed navigation",
			"Testimonials sidebar",
		},
	},
	{
		ID:          "content-heavy",
		Name:        "Content-Heavy Layout",
		Description: "Information-rich design with detailed explanations",
		Strategy:    "content_rich",
		KeyChanges: []string{
			"Detailed product descriptions",
			"FAQ section prominent",
			"Multiple content blocks",
			"Secondary navigation",
		},
	},
	{
		ID:          "conversion-optimized",
		Name:        "Conversion-Optimized Layout",
		Description: "Focused on conversion with urgency and social proof",
		Strategy:    "conversion_focused",
		KeyChanges: []string{
			"Urgency indicators (limited time)",
			"Social proof badges",
			"Sticky CTA button",
			"Minimal distractions",
		},
	},
}

// PatternByID returns the pattern with the given identifier, or nil.
func PatternByID(id string) *Pattern {
	for i := range Patterns {
		if Patterns[i].ID == id {
			return &Patterns[i]
		}
	}
	return nil
}

// ByIDs resolves pattern identifiers, rejecting unknown ones with an
// error naming the valid set. An empty list selects every pattern.
func ByIDs(ids []string) ([]Pattern, error) {
	if len(ids) == 0 {
		out := make([]Pattern, len(Patterns))
		copy(out, Patterns)
		return out, nil
	}
	out := make([]Pattern, 0, len(ids))
	for _, id := range ids {
		p := PatternByID(id)
		if p == nil {
			known := make([]string, 0, len(Patterns))
			for _, kp := range Patterns {
				known = append(known, kp.ID)
			}
			return nil, fmt.Errorf("unknown pattern %q, known patterns: %s", id, strings.Join(known, ", "))
		}
		out = append(out, *p)
	}
	return out, nil
}
