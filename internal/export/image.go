package export

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// Canonical pixel dimensions per aspect-ratio preset.
var aspectRatioDimensions = map[string]image.Point{
	"16:9": {X: 1280, Y: 720},
	"9:16": {X: 720, Y: 1280},
	"1:1":  {X: 1080, Y: 1080},
	"4:5":  {X: 1080, Y: 1350},
}

// Dimensions returns the output frame size for an aspect-ratio preset,
// falling back to 16:9 for unknown values.
func Dimensions(aspectRatio string) image.Point {
	if dims, ok := aspectRatioDimensions[aspectRatio]; ok {
		return dims
	}
	return aspectRatioDimensions["16:9"]
}

var imageClient = &http.Client{Timeout: 30 * time.Second}

// stageBackgroundImage fetches the override image, center-crops and scales it
// to the aspect preset's canonical dimensions, and writes it as a normalized
// PNG inside the workspace.
func stageBackgroundImage(ctx context.Context, ws *Workspace, src, aspectRatio string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("build image request: %w", err)
	}
	resp, err := imageClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch background image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch background image: status %d", resp.StatusCode)
	}

	src2, _, err := image.Decode(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("decode background image: %w", err)
	}

	dims := Dimensions(aspectRatio)
	resized := resizeCover(src2, dims.X, dims.Y)

	f, err := os.Create(ws.Path("background.png"))
	if err != nil {
		return fmt.Errorf("create background file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, resized); err != nil {
		return fmt.Errorf("encode background png: %w", err)
	}
	return nil
}

// resizeCover scales img to fill width x height, cropping the overflow
// dimension around the center.
func resizeCover(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	// Pick the largest centered source rect with the target aspect ratio.
	cropW, cropH := srcW, srcH
	if srcW*height > width*srcH {
		cropW = srcH * width / height
	} else {
		cropH = srcW * height / width
	}
	x0 := bounds.Min.X + (srcW-cropW)/2
	y0 := bounds.Min.Y + (srcH-cropH)/2
	srcRect := image.Rect(x0, y0, x0+cropW, y0+cropH)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, srcRect, draw.Over, nil)
	return dst
}
