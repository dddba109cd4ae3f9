// Package catalog defines the fixed set of design-system categories the
// pipeline extracts. The catalog is read-only process-wide state: every
// analysis document carries exactly one result per category defined here.
package catalog

import (
	"encoding/json"
	"strings"

	"github.com/kamilpajak/designlens/pkg/models"
)

// Thematic groups used for the focused analysis stage.
const (
	GroupTypography = "typography"
	GroupColor      = "color"
	GroupLayout     = "layout"
	GroupComponents = "components"
	GroupImagery    = "imagery"
)

// GroupOrder is the canonical group iteration order.
var GroupOrder = []string{GroupTypography, GroupColor, GroupLayout, GroupComponents, GroupImagery}

var categories = []models.Category{
	{
		ID:    "typography",
		Label: "Typography",
		Instruction: checklist(
			"Primary, secondary and fallback font families (web-safe or web-hosted)",
			"Weight spectrum in use (e.g. 300, 400, 600, 700)",
			"Heading sizes H1-H6 with exact px/rem values",
			"Body, sub-body, caption and micro-copy sizes",
			"Line-height and paragraph spacing rules",
			"Letter-spacing / tracking values by text role",
			"Case usage rules (Title Case, ALL CAPS, small-caps)",
			"Link, hover, visited and focus styles",
		),
		Shape: models.ShapeMapping,
		Group: GroupTypography,
	},
	{
		ID:    "color-contrast",
		Label: "Color & Contrast",
		Instruction: checklist(
			"Brand primaries, secondaries, accents (hex/RGB/HSL)",
			"Neutral/gray scale set",
			"Success, warning, error, info colors",
			"Gradient definitions (angle, stops)",
			"Overlay and scrim tints (opacity levels)",
			"Minimum contrast ratios and WCAG targets",
		),
		Shape: models.ShapeMapping,
		Group: GroupColor,
	},
	{
		ID:    "layout-grid",
		Label: "Layout & Grid System",
		Instruction: checklist(
			"Maximum content width / full-bleed rules",
			"Column count, gutter width and margin specs",
			"Responsive breakpoints and how the grid adapts",
			"Vertical rhythm unit (e.g. 4px or 8px scale)",
			"Section spacing above/below hero, feature blocks, footer",
		),
		Shape: models.ShapeMapping,
		Group: GroupLayout,
	},
	{
		ID:    "spacing-tokens",
		Label: "Spacing & Sizing Tokens",
		Instruction: checklist(
			"Base spacing unit and multiplier scale (e.g. 4-pt, 8-pt)",
			"Standard padding/margin tiers (XS-XL)",
			"Corner-radius scale for buttons, cards, inputs, images",
		),
		Shape: models.ShapeMapping,
		Group: GroupLayout,
	},
	{
		ID:    "imagery",
		Label: "Imagery",
		Instruction: checklist(
			"Hero image style (photo, illustration, 3-D render)",
			"Subject-matter guidelines and mood",
			"Color treatment (duotone, desaturation, overlays)",
			"Acceptable aspect ratios and cropping rules",
			"Minimum resolution and file formats",
		),
		Shape: models.ShapeMapping,
		Group: GroupImagery,
	},
	{
		ID:    "iconography",
		Label: "Illustration & Iconography",
		Instruction: checklist(
			"Illustration style (flat, outline, skeuomorphic, 3-D, isometric)",
			"Line weight range and corner radius for icons",
			"Filled vs outlined icon usage rules",
			"Icon grid size and padding",
		),
		Shape: models.ShapeMapping,
		Group: GroupImagery,
	},
	{
		ID:    "logo-usage",
		Label: "Logo Usage",
		Instruction: checklist(
			"Color variants (full-color, mono-light, mono-dark)",
			"Minimum size and clear-space requirements",
			"Preferred placements on desktop and mobile",
			"Backgrounds the logo may or may not sit on",
		),
		Shape: models.ShapeMapping,
		Group: GroupImagery,
	},
	{
		ID:    "buttons-cta",
		Label: "Buttons & Calls-to-Action",
		Instruction: checklist(
			"Primary, secondary, tertiary button styles",
			"Padding, min-width and height, corner radius",
			"Text style (size, weight, letter-spacing)",
			"State styles: default, hover, active, focus, disabled",
			"Shadow/elevation or border usage rules",
		),
		Shape: models.ShapeMapping,
		Group: GroupComponents,
	},
	{
		ID:    "forms",
		Label: "Form & Input Styling",
		Instruction: checklist(
			"Field height and internal padding",
			"Border shape (radius, stroke, or none)",
			"Label, helper text and placeholder typography",
			"Focus, hover, error and success states",
			"Checkbox, radio and switch visual design",
		),
		Shape: models.ShapeMapping,
		Group: GroupComponents,
	},
	{
		ID:    "navigation",
		Label: "Navigation & Header",
		Instruction: checklist(
			"Desktop vs mobile navbar height and padding",
			"Link spacing and separator rules",
			"Hover/active indicators (underline, highlight, color)",
			"Sticky or scroll-hide/show behavior",
		),
		Shape: models.ShapeMapping,
		Group: GroupComponents,
	},
	{
		ID:    "cards",
		Label: "Cards / Panels / Containers",
		Instruction: checklist(
			"Default background (solid, translucent, glass, gradient)",
			"Border, radius and shadow tiers",
			"Internal padding and media/text alignment",
		),
		Shape: models.ShapeMapping,
		Group: GroupComponents,
	},
	{
		ID:    "shadows-elevation",
		Label: "Shadows & Elevation",
		Instruction: checklist(
			"Elevation tier naming",
			"X/Y offset, blur, spread and color opacity per tier",
			"When to swap shadows for borders in dark mode",
		),
		Shape: models.ShapeMapping,
		Group: GroupLayout,
	},
	{
		ID:    "borders-dividers",
		Label: "Borders & Dividers",
		Instruction: checklist(
			"Standard stroke widths and styles (solid, dashed)",
			"Divider thickness and color",
			"Inset vs outset rules",
		),
		Shape: models.ShapeMapping,
		Group: GroupLayout,
	},
	{
		ID:    "motion",
		Label: "Motion & Animation",
		Instruction: checklist(
			"Primary easing curves",
			"Duration bands (very-fast <150ms, normal 200-400ms, slow >600ms)",
			"Preferred motion directions (fade-in up, scale-in)",
			"Reduced-motion fallbacks",
		),
		Shape: models.ShapeMapping,
		Group: GroupComponents,
	},
	{
		ID:    "micro-interactions",
		Label: "Micro-Interactions",
		Instruction: checklist(
			"Button tap ripple or scale effect",
			"Form field shake on error vs color change",
			"Tooltip styling and animation",
			"Loading spinners / skeleton screens style",
		),
		Shape: models.ShapeMapping,
		Group: GroupComponents,
	},
	{
		ID:    "media-blocks",
		Label: "Media Blocks (Video / Audio / 3-D)",
		Instruction: checklist(
			"Aspect ratio and max width rules",
			"Autoplay, loop, mute defaults and overlay icon style",
			"Poster frame treatment",
		),
		Shape: models.ShapeMapping,
		Group: GroupImagery,
	},
	{
		ID:    "backgrounds",
		Label: "Backgrounds",
		Instruction: checklist(
			"Solid vs gradient vs pattern hierarchy",
			"Texture use (noise, grain) and opacity limits",
			"Parallax or fixed attachment behavior",
		),
		Shape: models.ShapeMapping,
		Group: GroupColor,
	},
	{
		ID:    "dark-mode",
		Label: "Dark-Mode / High-Contrast Variants",
		Instruction: checklist(
			"Token swaps for colors, shadows, borders",
			"Image/illustration adaptations (tinted, inverted)",
			"Focus ring color adjustments",
		),
		Shape: models.ShapeMapping,
		Group: GroupColor,
	},
	{
		ID:    "accessibility-visuals",
		Label: "Accessibility Visuals",
		Instruction: checklist(
			"Focus indicator thickness and color",
			"Link underline rules for color-blind safety",
			"High-contrast palette mapping",
		),
		Shape: models.ShapeMapping,
		Group: GroupColor,
	},
	{
		ID:    "data-viz",
		Label: "Data-Viz & Infographics",
		Instruction: checklist(
			"Chart color palette and order",
			"Gridline weight and opacity",
			"Label typography and number formatting rules",
		),
		Shape: models.ShapeMapping,
		Group: GroupImagery,
	},
	{
		ID:    "cursors",
		Label: "Cursors & Pointer States",
		Instruction: checklist(
			"Cursor override for draggable, clickable, custom hover",
			"Pointer animation (subtle grow, color pulse)",
		),
		Shape: models.ShapeMapping,
		Group: GroupComponents,
	},
	{
		ID:    "tone-mood",
		Label: "Tone & Mood Descriptors",
		Instruction: checklist(
			"Three to five adjectives defining the visual vibe",
			"Emotional goals (trust, excitement, calm)",
		),
		Shape: models.ShapeList,
		Group: GroupImagery,
	},
	{
		ID:    "brand-motifs",
		Label: "Reusable Brand Motifs",
		Instruction: checklist(
			"Shapes, lines or patterns (e.g. angled lines at 30 degrees, dotted wave)",
			"Frequency and placement guidance",
		),
		Shape: models.ShapeMapping,
		Group: GroupImagery,
	},
	{
		ID:    "favicons-social",
		Label: "Favicons & Social Preview Assets",
		Instruction: checklist(
			"Favicon shapes, background transparency rules",
			"Open Graph / social card imagery style and typography",
		),
		Shape: models.ShapeMapping,
		Group: GroupImagery,
	},
}

func checklist(items ...string) string {
	return "Document the following: " + strings.Join(items, "; ") + "."
}

// Categories returns the fixed catalog in canonical order.
func Categories() []models.Category {
	out := make([]models.Category, len(categories))
	copy(out, categories)
	return out
}

// ByID returns the category with the given identifier, or nil.
func ByID(id string) *models.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}

// ByGroup returns the categories belonging to a thematic group,
// in catalog order.
func ByGroup(group string) []models.Category {
	var out []models.Category
	for _, c := range categories {
		if c.Group == group {
			out = append(out, c)
		}
	}
	return out
}

// IDs returns every category identifier in catalog order.
func IDs() []string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

// SchemaJSON renders the catalog as an indented JSON template mapping
// category IDs to their extraction checklists. Embedded in analysis
// prompts so the model mirrors the expected structure.
func SchemaJSON() string {
	type entry struct {
		Label       string `json:"label"`
		Instruction string `json:"instruction"`
	}
	template := make(map[string]entry, len(categories))
	for _, c := range categories {
		template[c.ID] = entry{Label: c.Label, Instruction: c.Instruction}
	}
	data, _ := json.MarshalIndent(template, "", "  ")
	return string(data)
}
