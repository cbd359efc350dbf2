package colour

import (
	"image/color"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNewPalette(t *testing.T) {
	colors := []color.Color{
		color.RGBA{R: 255, G: 0, B: 0, A: 255},
		color.RGBA{R: 0, G: 255, B: 0, A: 255},
		color.RGBA{R: 0, G: 0, B: 255, A: 255},
	}

	palette := NewPalette(colors)

	if palette == nil {
		t.Fatal("NewPalette returned nil")
	}

	if palette.Len() != 3 {
		t.Errorf("Expected palette length 3, got %d", palette.Len())
	}
	if palette.Weights != nil {
		t.Errorf("Expected nil weights, got %v", palette.Weights)
	}
}

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{
			name:  "red",
			color: color.RGBA{R: 255, G: 0, B: 0, A: 255},
			want:  RGB{R: 255, G: 0, B: 0},
		},
		{
			name:  "gray16",
			color: color.Gray16{Y: 0x8080},
			want:  RGB{R: 128, G: 128, B: 128},
		},
		{
			name:  "nrgba ignores alpha scaling at full opacity",
			color: color.NRGBA{R: 10, G: 20, B: 30, A: 255},
			want:  RGB{R: 10, G: 20, B: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRGBHexAndString(t *testing.T) {
	rgb := RGB{R: 0x1a, G: 0x2b, B: 0x3c}
	if got := rgb.Hex(); got != "#1a2b3c" {
		t.Errorf("Hex() = %s, want #1a2b3c", got)
	}
	if got := rgb.String(); got != "rgb(26, 43, 60)" {
		t.Errorf("String() = %s, want rgb(26, 43, 60)", got)
	}
}

func TestPaletteColorPalette(t *testing.T) {
	palette := NewPalette([]color.Color{
		color.NRGBA{R: 1, G: 2, B: 3, A: 255},
		color.Gray{Y: 200},
	})

	got := palette.ColorPalette()
	want := color.Palette{
		color.RGBA{R: 1, G: 2, B: 3, A: 255},
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
	}
	if len(got) != len(want) {
		t.Fatalf("ColorPalette() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ColorPalette()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPaletteToJSON(t *testing.T) {
	palette := NewPaletteWithWeights([]color.Color{
		color.RGBA{R: 255, A: 255},
		color.RGBA{B: 255, A: 255},
	}, []float64{0.75, 0.25})

	data, err := palette.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded PaletteJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if decoded.Count != 2 {
		t.Errorf("Count = %d, want 2", decoded.Count)
	}
	if decoded.Colors[0].Hex != "#ff0000" || decoded.Colors[0].Weight != 0.75 {
		t.Errorf("Colors[0] = %+v, want #ff0000 with weight 0.75", decoded.Colors[0])
	}
	if decoded.Colors[1].RGB != (RGB{B: 255}) {
		t.Errorf("Colors[1].RGB = %v, want blue", decoded.Colors[1].RGB)
	}
}

func TestPaletteString(t *testing.T) {
	if got := NewPalette(nil).String(); got != "Empty palette" {
		t.Errorf("String() = %q, want %q", got, "Empty palette")
	}

	got := NewPalette([]color.Color{color.RGBA{R: 255, A: 255}}).String()
	if !strings.Contains(got, "#ff0000") || !strings.Contains(got, "1 colors") {
		t.Errorf("String() = %q, missing expected content", got)
	}
}
