package model

// Palette maps every category to a display color.
type Palette map[Category]string

var defaultColors = map[Category]string{
	CategoryFoodDining:    "#F87171",
	CategoryShopping:      "#60A5FA",
	CategoryTransport:     "#34D399",
	CategoryBills:         "#FBBF24",
	CategoryEntertainment: "#A78BFA",
	CategoryHealth:        "#F472B6",
	CategoryTravel:        "#2DD4BF",
	CategoryEducation:     "#FB923C",
	CategoryOthers:        "#94A3B8",
}

// DefaultPalette returns a fresh copy of the default colors.
func DefaultPalette() Palette {
	p := make(Palette, len(defaultColors))
	for c, color := range defaultColors {
		p[c] = color
	}
	return p
}

// Complete returns a palette with unknown keys dropped and missing categories
// filled from the defaults.
func (p Palette) Complete() Palette {
	out := DefaultPalette()
	for c, color := range p {
		if c.Valid() && color != "" {
			out[c] = color
		}
	}
	return out
}

// Color returns the color for c, falling back to the default.
func (p Palette) Color(c Category) string {
	if color, ok := p[c]; ok && color != "" {
		return color
	}
	return defaultColors[c]
}
