package ui

// icons maps a symbolic icon name to a terminal glyph. Pure lookup table.
var icons = map[string]string{
	"home":      "⌂",
	"chat":      "💬",
	"tag":       "🏷",
	"lock":      "🔒",
	"radar":     "📡",
	"megaphone": "📣",
	"invoice":   "🧾",
	"inbox":     "📥",
}

// fallbackIcon is rendered for names the registry does not know.
const fallbackIcon = "◦"

// Icon returns the glyph for a symbolic name, or a neutral fallback.
func Icon(name string) string {
	if glyph, ok := icons[name]; ok {
		return glyph
	}
	return fallbackIcon
}
