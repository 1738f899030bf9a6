package display

import (
	"fmt"
	"strings"
)

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// ParseHex parses "#RGB" or "#RRGGBB" into a Color.
func ParseHex(s string) (Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Color{}, fmt.Errorf("invalid color %q: missing # prefix", s)
	}

	var r, g, b uint8
	var err error
	switch len(hex) {
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b)
		r, g, b = r*0x11, g*0x11, b*0x11
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	default:
		return Color{}, fmt.Errorf("invalid color %q: want 3 or 6 hex digits", s)
	}
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return Color{R: r, G: g, B: b}, nil
}

// Palette is a foreground/background color pair for the monochrome display.
type Palette struct {
	FG, BG Color
}

func rgb(hex uint32) Color {
	return Color{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
	}
}

// DefaultPalettes are the built-in palettes cycled with the palette keys.
var DefaultPalettes = []Palette{
	{FG: rgb(0xdddddd), BG: rgb(0x000000)},
	// https://lospec.com/palette-list/1bit-monitor-glow
	{FG: rgb(0xf0f6f0), BG: rgb(0x222323)},
	// https://lospec.com/palette-list/vanilla-milkshake
	{FG: rgb(0xd9c8bf), BG: rgb(0x28282e)},
	// https://lospec.com/palette-list/lcd-drab-4
	{FG: rgb(0xa9a77f), BG: rgb(0x1a1b00)},
	// https://lospec.com/palette-list/ammo-8
	{FG: rgb(0xbedc7f), BG: rgb(0x112318)},
	// https://lospec.com/palette-list/slso8
	{FG: rgb(0xffd4a3), BG: rgb(0x0d2b45)},
	// https://lospec.com/palette-list/twilight-5
	{FG: rgb(0xee8695), BG: rgb(0x292831)},
	// https://lospec.com/palette-list/kirokaze-gameboy
	{FG: rgb(0xe2f3e4), BG: rgb(0x332c50)},
}

// Default returns the default palette.
func Default() Palette {
	return DefaultPalettes[0]
}

// ParsePalettes parses a semicolon-separated list of "#FG,#BG" pairs,
// e.g. "#fff,#000;#e0f8d0,#081820".
func ParsePalettes(s string) ([]Palette, error) {
	var palettes []Palette
	for _, part := range strings.Split(s, ";") {
		fgStr, bgStr, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("invalid palette %q: want \"#FG,#BG\"", part)
		}
		fg, err := ParseHex(strings.TrimSpace(fgStr))
		if err != nil {
			return nil, err
		}
		bg, err := ParseHex(strings.TrimSpace(bgStr))
		if err != nil {
			return nil, err
		}
		palettes = append(palettes, Palette{FG: fg, BG: bg})
	}
	return palettes, nil
}
