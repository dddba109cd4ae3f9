package variations

import "strings"

// StylePreset is a pre-configured aesthetic applied by restyling an
// existing screenshot.
type StylePreset struct {
	Name   string
	Prompt string
}

// StylePresets lists the available restyling aesthetics.
var StylePresets = []StylePreset{
	{
		Name:   "Neo-Brutalism",
		Prompt: "Raw unfinished neo-brutalist design with stark black #111 backgrounds and punchy primary colors like bright red #FF4433 and cyan #00CFFF paired with white. Typography uses monospace or grotesque sans fonts like Söhne or Space Grotesk in gigantic weights from 700-900. Layout features thick 2-4px solid borders, boxy grids, oversized offsets with no shadows. Imagery includes unedited screenshots, deliberately pixelated icons, and lo-fi GIFs. Motion is abrupt with on-scroll reveals and no easing, hover states only swap background and text colors.",
	},
	{
		Name:   "Glassmorphism",
		Prompt: "Frosted glass panels floating over vibrant radial gradients from purple #8A2BE2 to cyan #00FFFF with plenty of negative space. Typography uses thin light weights 300-400 with letter-spacing 0.02em for an airy feel. Layout layers translucent cards with backdrop blur filter at 16px and brightness 1.2, creating 3D stacking via translateZ. Features abstract blobs and soft focus photography behind glass panels. Motion includes subtle parallax on cursor with glass cards popping 2px on hover.",
	},
	{
		Name:   "Claymorphism",
		Prompt: "Soft clay-like 3D design with pastel colors like pink #F5B5FF and yellow #FFF6AC plus gentle neutrals #F8F9FA. Typography uses rounded sans fonts like Baloo 2 or Nunito at medium weights. Layout has thick 8-16px inner padding with 4-8px fully rounded corners at 28-48px border-radius. Features 3D clay figures and hand-modelled icons made in Spline or Blender. Motion includes micro-bounces with spring physics when buttons are tapped and skeleton loaders shaped like blobs. Uses double box-shadow for extruded look with light top-left and dark bottom-right.",
	},
	{
		Name:   "Cyberpunk Neon Noir",
		Prompt: "Dystopian cyberpunk aesthetic with pure #0A0A0F black base and vivid neon colors hot pink #FF005C, cyan #00F0FF, purple #AC00FF with additive glow using drop-shadow filter. Typography uses condensed uppercase glitched fonts like Orbitron or Angst. Layout features diagonal section cuts with clip-path, terminal-style cards, and vivid glitch dividers. Includes chromatic-aberration photos, render-line cityscapes, and code overlays at 20% opacity. Motion has RGB glitch keyframes on hover and CRT scanline background loops with overlay blend-mode.",
	},
	{
		Name:   "Swiss Minimalism",
		Prompt: "Hyper-disciplined Swiss design using only black #000, white #fff, and one red accent #E63946. Typography strictly uses Helvetica Now or Neue Haas Grotesk with tight leading 1.1 for headlines and generous 1.6 for body text. Layout follows 12-column modular grid with baseline rhythm where decimals align to 4px. Features sparse full-bleed editorial photos with no drop shadows. Motion is minimal with fade-ins at 50ms and no parallax. Uses CSS Grid with baseline-grid utility and strictly audited spacing tokens.",
	},
	{
		Name:   "Dark Luxury",
		Prompt: "High-end cinematic luxury design with #0D0D0D base, deep bronze #C08B55 and muted emerald #1B4537 accents. Typography uses display serif fonts like Canela or Tiempos at 800 weight for H1 with thin grotesque body text. Layout features edge-to-edge hero video, centered typography, and sticky nav that auto-hides. Includes 4K slow-motion product glamour shots with soft bloom lens effects. Motion uses fade-in with opacity blur filter and scroll-triggered 50% speed parallax.",
	},
	{
		Name:   "Editorial Magazine",
		Prompt: "Sophisticated editorial magazine layout with ivory #FAF9F7 background, charcoal #1A1A1A text, and spot color #DA1212. Typography combines serif headline Recoleta with classic Georgia body at 18-20px and 30px line height. Layout uses CSS multicolumn for long reads, pull-quotes in grid breaks, and drop-cap first letters. Features high-res reportage photography, inline infographics, and captioned galleries. Motion includes scroll-driven progress bar, figure zoom on click, and reading-time indicator.",
	},
	{
		Name:   "Pastel Soft Gradient",
		Prompt: "Calm wellness design with diagonal multi-stop gradients from pink #FDEBFB to mint #D4F7F5 to yellow #FFFCD1. Typography uses elegant sans-serif Galano Grotesque at lightweight 300 with letter-spacing +0.5px. Layout has wide 1440px container with 64px breathing space throughout. Features soft-shadow product renders with floating SVG petals or shapes. Motion includes fade-up with slight 1.02 scale entrance and continuous 10-second gradient background shift.",
	},
}

// PresetByName returns the named style preset, case-insensitively, or nil.
func PresetByName(name string) *StylePreset {
	for i := range StylePresets {
		if strings.EqualFold(StylePresets[i].Name, name) {
			return &StylePresets[i]
		}
	}
	return nil
}

// PresetNames lists the preset names in catalog order.
func PresetNames() []string {
	names := make([]string, len(StylePresets))
	for i, p := range StylePresets {
		names[i] = p.Name
	}
	return names
}
