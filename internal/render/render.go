// Package render implements the server-side image edit pipeline: a square
// cover crop with a bounded pan offset, plus brightness/contrast filters
// applied at render time. The source bytes are never modified.
package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
)

// DefaultSize is the side of the rendered square, matching the editing
// canvas in the client.
const DefaultSize = 400

const jpegQuality = 70

var ErrNotAnImage = errors.New("payload is not a supported image")

type Options struct {
	Size       int
	OffsetX    float64
	OffsetY    float64
	Brightness int // signed percent
	Contrast   int // signed percent
}

// CoverScale returns the factor that scales a w×h image so it fully covers
// a size×size square.
func CoverScale(w, h, size int) float64 {
	return math.Max(float64(size)/float64(w), float64(size)/float64(h))
}

// ClampOffset bounds a pan offset so the crop window never leaves the
// scaled image: the allowed range is [-(scaledDim-size)/2, +(scaledDim-size)/2].
func ClampOffset(offset, scaledDim, size float64) float64 {
	limit := (scaledDim - size) / 2
	if limit < 0 {
		limit = 0
	}
	if offset > limit {
		return limit
	}
	if offset < -limit {
		return -limit
	}
	return offset
}

// DecodeDataURI strips an optional data-URI prefix, base64-decodes the
// payload and sniffs the content type.
func DecodeDataURI(s string) ([]byte, string, error) {
	if i := strings.Index(s, ","); i != -1 {
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image payload: %w", err)
	}
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, "", ErrNotAnImage
	}
	return data, kind.MIME.Value, nil
}

// Square renders the final square image: cover-scale, pan by the clamped
// offsets, crop, then apply the percentage filters.
func Square(src image.Image, opts Options) image.Image {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}

	b := src.Bounds()
	scale := CoverScale(b.Dx(), b.Dy(), size)
	scaledW := int(math.Round(float64(b.Dx()) * scale))
	scaledH := int(math.Round(float64(b.Dy()) * scale))

	scaled := imaging.Resize(src, scaledW, scaledH, imaging.Lanczos)

	offX := ClampOffset(opts.OffsetX, float64(scaledW), float64(size))
	offY := ClampOffset(opts.OffsetY, float64(scaledH), float64(size))

	// A positive offset pans the image right/down, so the crop window moves
	// the opposite way within the scaled image.
	x0 := int(math.Round(float64(scaledW-size)/2 - offX))
	y0 := int(math.Round(float64(scaledH-size)/2 - offY))
	out := imaging.Crop(scaled, image.Rect(x0, y0, x0+size, y0+size))

	if opts.Brightness != 0 {
		factor := float64(100+opts.Brightness) / 100
		out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
			c.R = clamp8(float64(c.R) * factor)
			c.G = clamp8(float64(c.G) * factor)
			c.B = clamp8(float64(c.B) * factor)
			return c
		})
	}
	if opts.Contrast != 0 {
		out = imaging.AdjustContrast(out, float64(opts.Contrast))
	}
	return out
}

// FromDataURI runs the full pipeline on an encoded payload and returns the
// rendered square as a JPEG data URI.
func FromDataURI(dataURI string, opts Options) (string, error) {
	data, _, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	out := Square(src, opts)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func clamp8(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v + 0.5)
}
