// Package imagex downsizes uploaded pictures and re-encodes them as JPEG.
package imagex

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	MaxWidth    = 1290
	JPEGQuality = 60
)

// ErrDecode is returned when the input is not a supported image.
var ErrDecode = errors.New("cannot decode image")

// TargetSize returns the output dimensions for a w×h source: width is capped
// at MaxWidth, aspect ratio is kept with the height truncated, never below 1.
func TargetSize(w, h int) (int, int) {
	if w <= MaxWidth {
		return w, h
	}
	nh := int(float64(MaxWidth) / float64(w) * float64(h))
	if nh < 1 {
		nh = 1
	}
	return MaxWidth, nh
}

// OptimizePicture decodes r (JPEG, PNG or GIF), scales it down to at most
// MaxWidth pixels wide and returns JPEG bytes at JPEGQuality. Transparent
// areas are flattened onto white.
func OptimizePicture(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}
	w, h := TargetSize(b.Dx(), b.Dy())

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
