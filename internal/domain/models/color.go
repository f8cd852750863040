package models

// NoteColor is one of the named note colors. The name is what gets persisted
// and what backups carry; resolving a name to actual theme colors is the
// presentation layer's concern.
type NoteColor string

const (
	ColorRed    NoteColor = "RED"
	ColorOrange NoteColor = "ORANGE"
	ColorYellow NoteColor = "YELLOW"
	ColorGreen  NoteColor = "GREEN"
	ColorTeal   NoteColor = "TEAL"
	ColorBlue   NoteColor = "BLUE"
	ColorIndigo NoteColor = "INDIGO"
	ColorPurple NoteColor = "PURPLE"
	ColorPink   NoteColor = "PINK"
	ColorBrown  NoteColor = "BROWN"
	ColorGray   NoteColor = "GRAY"
)

// NoteColors lists every valid color in display order.
var NoteColors = []NoteColor{
	ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorTeal, ColorBlue,
	ColorIndigo, ColorPurple, ColorPink, ColorBrown, ColorGray,
}

func (c NoteColor) Valid() bool {
	for _, known := range NoteColors {
		if c == known {
			return true
		}
	}
	return false
}

// ParseNoteColor resolves a stored color name. Unknown names report ok=false
// so malformed rows degrade to "no color" instead of failing a load.
func ParseNoteColor(name string) (NoteColor, bool) {
	c := NoteColor(name)
	return c, c.Valid()
}
