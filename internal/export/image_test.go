package export

import (
	"image"
	"image/color"
	"testing"
)

func TestDimensions(t *testing.T) {
	tests := []struct {
		aspect string
		want   image.Point
	}{
		{"16:9", image.Point{X: 1280, Y: 720}},
		{"9:16", image.Point{X: 720, Y: 1280}},
		{"1:1", image.Point{X: 1080, Y: 1080}},
		{"4:5", image.Point{X: 1080, Y: 1350}},
		{"21:9", image.Point{X: 1280, Y: 720}},
		{"", image.Point{X: 1280, Y: 720}},
	}
	for _, tt := range tests {
		if got := Dimensions(tt.aspect); got != tt.want {
			t.Errorf("Dimensions(%q) = %v, want %v", tt.aspect, got, tt.want)
		}
	}
}

func TestResizeCover(t *testing.T) {
	tests := []struct {
		name          string
		srcW, srcH    int
		width, height int
	}{
		{"landscape to portrait", 1920, 1080, 720, 1280},
		{"portrait to landscape", 1080, 1920, 1280, 720},
		{"square to square", 500, 500, 1080, 1080},
		{"upscale", 100, 100, 720, 1280},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.srcW, tt.srcH))
			got := resizeCover(src, tt.width, tt.height)

			b := got.Bounds()
			if b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("bounds = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.width, tt.height)
			}
		})
	}
}

func TestResizeCover_FillsFrame(t *testing.T) {
	// A uniformly red source must leave no blank borders after cover-crop.
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	red := color.RGBA{R: 255, A: 255}
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			src.Set(x, y, red)
		}
	}

	got := resizeCover(src, 100, 100)
	for _, pt := range []image.Point{{0, 0}, {99, 0}, {0, 99}, {99, 99}, {50, 50}} {
		r, _, _, a := got.At(pt.X, pt.Y).RGBA()
		if r == 0 || a == 0 {
			t.Errorf("pixel %v not covered: r=%d a=%d", pt, r, a)
		}
	}
}
