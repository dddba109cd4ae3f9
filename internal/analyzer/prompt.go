package analyzer

import (
	"fmt"
	"strings"

	"github.com/kamilpajak/designlens/pkg/models"
)

const systemPrompt = `You are an expert UI/UX designer and front-end developer with 15+ years of experience analyzing design systems. You have an exceptional eye for design details and can extract precise technical specifications from visual elements.

Your expertise includes:
- Typography analysis (font families, weights, sizes, spacing)
- Color system extraction (brand colors, neutrals, semantic colors)
- Layout and grid system analysis
- Component design patterns
- Accessibility considerations
- Modern design trends and best practices

You analyze screenshots with the precision of a developer and the aesthetic understanding of a seasoned designer.`

// analysisPrompt is the single-stage instruction: extract every catalog
// category from one screenshot in one pass.
func analysisPrompt(schemaJSON string) string {
	var b strings.Builder
	b.WriteString("Analyze this website screenshot with expert-level precision and extract comprehensive design system metadata.\n\n")
	b.WriteString("Provide specific measurements where possible (px, rem, percentages) and exact color values (hex, RGB, HSL). This analysis will be used to recreate the design system, so accuracy and completeness are critical.\n\n")
	b.WriteString("RESPONSE FORMAT:\n")
	b.WriteString("Return a single JSON object inside a ```json fenced block. Its top-level keys MUST be the category identifiers from the schema below. For each category, return the extracted specification following that category's instruction. Omit a category entirely if the screenshot gives no evidence for it.\n\n")
	b.WriteString("SCHEMA:\n")
	b.WriteString(schemaJSON)
	return b.String()
}

// focusedPrompt narrows the extraction to one thematic group.
func focusedPrompt(group string, categories []models.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Focus exclusively on the %s aspects of this screenshot.\n\n", group)
	b.WriteString("Extract the following categories:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %q (%s): %s\n", c.ID, c.Label, c.Instruction)
	}
	b.WriteString("\nReturn a single JSON object inside a ```json fenced block, keyed by the quoted category identifiers above. Be precise: exact values, not vague descriptions. Omit a category if the screenshot gives no evidence for it.")
	return b.String()
}

// synthesisPrompt consolidates the focused findings into the full schema,
// filling gaps directly from the screenshot.
func synthesisPrompt(findingsJSON, schemaJSON string) string {
	var b strings.Builder
	b.WriteString("Based on the following focused analyses, create a comprehensive design system analysis:\n\n")
	b.WriteString(findingsJSON)
	b.WriteString("\n\nSynthesize this information into the complete schema structure:\n")
	b.WriteString(schemaJSON)
	b.WriteString("\n\nFill in any categories not covered by the focused analyses by examining the screenshot directly. Ensure consistency across all design elements and provide precise technical specifications.\n\n")
	b.WriteString("Return a single JSON object inside a ```json fenced block, keyed by category identifier. Omit a category only if the screenshot gives no evidence for it.")
	return b.String()
}

// validationPrompt asks the model to review the current analysis and
// return corrections for the categories it refines.
func validationPrompt(analysisJSON string) string {
	var b strings.Builder
	b.WriteString("Review and validate this design analysis against the screenshot:\n\n")
	b.WriteString(analysisJSON)
	b.WriteString("\n\nCheck for consistency across similar elements, verify measurements and color values are realistic and precise, and refine anything inaccurate or incomplete.\n\n")
	b.WriteString("Return a single JSON object inside a ```json fenced block containing ONLY the categories you corrected or refined, keyed by category identifier. Return an empty object if the analysis needs no changes.")
	return b.String()
}

// segmentPrompt analyzes one scroll segment of the page.
func segmentPrompt(segment, schemaJSON string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This screenshot shows the %s portion of a web page. Extract design system details visible in this region.\n\n", segment)
	b.WriteString("Return a single JSON object inside a ```json fenced block, keyed by the category identifiers from the schema below. Only include categories this region gives evidence for.\n\n")
	b.WriteString("SCHEMA:\n")
	b.WriteString(schemaJSON)
	return b.String()
}
