package report

import (
	"strconv"
	"strings"
)

// DefaultCategoryEmoji marks categories whose color is unknown.
const DefaultCategoryEmoji = "📂"

var namedColorEmoji = map[string]string{
	"red":    "🔴",
	"blue":   "🔵",
	"green":  "🟢",
	"yellow": "🟡",
	"orange": "🟠",
	"purple": "🟣",
	"brown":  "🟤",
	"gray":   "⚫",
	"grey":   "⚫",
}

// ColorEmoji maps a category color, either a name such as "blue" or a
// "#RRGGBB" code, to a colored circle emoji.
func ColorEmoji(color string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	if emoji, ok := namedColorEmoji[color]; ok {
		return emoji
	}
	r, g, b, ok := parseHexColor(color)
	if !ok {
		return DefaultCategoryEmoji
	}
	return namedColorEmoji[classifyRGB(r, g, b)]
}

func parseHexColor(color string) (r, g, b int, ok bool) {
	if len(color) != 7 || color[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(color[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), true
}

// classifyRGB buckets a color by hue. Low-chroma colors are gray; dark
// oranges are brown.
func classifyRGB(r, g, b int) string {
	maxC := max(r, g, b)
	minC := min(r, g, b)
	chroma := maxC - minC
	if chroma < 30 {
		return "gray"
	}

	var hue float64
	switch maxC {
	case r:
		hue = 60 * float64(g-b) / float64(chroma)
	case g:
		hue = 60 * (2 + float64(b-r)/float64(chroma))
	default:
		hue = 60 * (4 + float64(r-g)/float64(chroma))
	}
	if hue < 0 {
		hue += 360
	}

	switch {
	case hue < 15 || hue >= 330:
		return "red"
	case hue < 45:
		if maxC < 160 {
			return "brown"
		}
		return "orange"
	case hue < 70:
		return "yellow"
	case hue < 170:
		return "green"
	case hue < 260:
		return "blue"
	default:
		return "purple"
	}
}
