package widget

// IconKind identifies which glyph a row shows.
type IconKind int

// Icon kinds.
const (
	IconFile IconKind = iota
	IconDirClosed
	IconDirOpen
	IconError
)

// Icons maps each IconKind to the glyph drawn before the row name.
type Icons map[IconKind]string

// DefaultIcons uses plain Unicode glyphs that render in any terminal font.
func DefaultIcons() Icons {
	return Icons{
		IconFile:      "·",
		IconDirClosed: "▸",
		IconDirOpen:   "▾",
		IconError:     "✗",
	}
}

// ASCIIIcons is for terminals without Unicode support.
func ASCIIIcons() Icons {
	return Icons{
		IconFile:      "-",
		IconDirClosed: "+",
		IconDirOpen:   "~",
		IconError:     "!",
	}
}

// NerdFontIcons requires a patched Nerd Font.
func NerdFontIcons() Icons {
	return Icons{
		IconFile:      "\uf15b",
		IconDirClosed: "\uf07b",
		IconDirOpen:   "\uf07c",
		IconError:     "\uf071",
	}
}

// Glyph returns the icon for kind, or a blank of the same width when unset.
func (i Icons) Glyph(kind IconKind) string {
	if glyph, ok := i[kind]; ok {
		return glyph
	}

	return " "
}
