package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
		want  Color
	}{
		{desc: "six digit", input: "#e0f8d0", want: Color{R: 0xE0, G: 0xF8, B: 0xD0}},
		{desc: "six digit uppercase", input: "#FFD4A3", want: Color{R: 0xFF, G: 0xD4, B: 0xA3}},
		{desc: "three digit expands", input: "#fff", want: Color{R: 0xFF, G: 0xFF, B: 0xFF}},
		{desc: "three digit mixed", input: "#a3c", want: Color{R: 0xAA, G: 0x33, B: 0xCC}},
		{desc: "black", input: "#000", want: Color{}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, err := ParseHex(tC.input)
			require.NoError(t, err)
			assert.Equal(t, tC.want, c)
		})
	}
}

func TestParseHex_errors(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
	}{
		{desc: "missing prefix", input: "e0f8d0"},
		{desc: "wrong length", input: "#ffff"},
		{desc: "not hex", input: "#zzzzzz"},
		{desc: "empty", input: ""},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := ParseHex(tC.input)
			assert.Error(t, err)
		})
	}
}

func TestParsePalettes(t *testing.T) {
	palettes, err := ParsePalettes("#fff,#000;#e0f8d0, #081820")
	require.NoError(t, err)

	require.Len(t, palettes, 2)
	assert.Equal(t, Palette{FG: Color{0xFF, 0xFF, 0xFF}, BG: Color{}}, palettes[0])
	assert.Equal(t, Color{R: 0xE0, G: 0xF8, B: 0xD0}, palettes[1].FG)
	assert.Equal(t, Color{R: 0x08, G: 0x18, B: 0x20}, palettes[1].BG)
}

func TestParsePalettes_errors(t *testing.T) {
	_, err := ParsePalettes("#fff")
	assert.Error(t, err, "a pair needs a comma")

	_, err = ParsePalettes("#fff,#000;#bad")
	assert.Error(t, err, "every pair must parse")
}

func TestDefaultPalettes(t *testing.T) {
	assert.NotEmpty(t, DefaultPalettes)
	assert.Equal(t, DefaultPalettes[0], Default())
}
