package imagefile

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

const (
	// MaxImageSize is the largest width or height kept after downscaling.
	MaxImageSize = 2048
	// MaxFileSize is the byte threshold above which a record is downscaled.
	MaxFileSize = 10 * 1024 * 1024

	jpegQuality = 80
)

// ScaledDimensions fits (width, height) into a max×max box preserving the
// aspect ratio. Dimensions already within the box are returned unchanged; the
// scaled axis is rounded to the nearest pixel.
func ScaledDimensions(width, height, max int) (int, int) {
	if width <= max && height <= max {
		return width, height
	}
	ratio := float64(width) / float64(height)
	if width > height {
		return max, int(math.Round(float64(max) / ratio))
	}
	return int(math.Round(float64(max) * ratio)), max
}

// Downscale re-encodes records larger than MaxFileSize so that neither side
// exceeds MaxImageSize. Smaller records are returned unchanged. The record's
// ID and name are retained; data, size, content type and preview are
// replaced. PNG sources stay PNG, everything else is re-encoded as JPEG.
func Downscale(f ImageFile) (ImageFile, error) {
	if f.Size <= MaxFileSize {
		return f, nil
	}
	src, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return ImageFile{}, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	bounds := src.Bounds()
	w, h := ScaledDimensions(bounds.Dx(), bounds.Dy(), MaxImageSize)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	ct := "image/jpeg"
	if f.ContentType == "image/png" {
		ct = "image/png"
		err = png.Encode(&buf, dst)
	} else {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return ImageFile{}, fmt.Errorf("encode %s: %w", f.Name, err)
	}

	scaled := f
	scaled.Data = buf.Bytes()
	scaled.Size = int64(buf.Len())
	scaled.ContentType = ct
	scaled.Preview = DataURL(scaled)
	return scaled, nil
}
