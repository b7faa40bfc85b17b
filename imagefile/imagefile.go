// Package imagefile holds the normalized representation of a user-supplied
// image. Records are the sole input of the conversion pipeline: an ordered
// slice of them determines the page order of the resulting PDF.
//
// Ingestion accepts a wider set of encodings (PNG, JPEG, WebP, BMP, TIFF)
// than the PDF assembler can embed; a record that decodes here may still be
// rejected at page-embedding time.
package imagefile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedUpload reports that the supplied bytes are not in any of the
// accepted image encodings.
var ErrUnsupportedUpload = errors.New("unsupported image upload format")

// ImageFile is one user-supplied image plus its display metadata. ID is
// assigned at ingestion and never changes; re-adding the same file yields a
// new ID.
type ImageFile struct {
	// Data holds the raw encoded image bytes.
	Data []byte
	// ID uniquely identifies the record within a session.
	ID string
	// Preview is a data URL rendering of the image, consumed only by
	// presentation code, never by the pipeline.
	Preview string
	// Name is the display label, usually the original file name.
	Name string
	// Size is the byte length of Data.
	Size int64
	// ContentType is the detected media type (e.g. "image/png").
	ContentType string
}

// FromBytes builds a record from raw image bytes. The content type is
// detected from the data itself, not from the name.
func FromBytes(name string, data []byte) (ImageFile, error) {
	ct, err := detectContentType(data)
	if err != nil {
		return ImageFile{}, fmt.Errorf("ingest %s: %w", name, err)
	}
	f := ImageFile{
		Data:        data,
		ID:          uuid.NewString(),
		Name:        name,
		Size:        int64(len(data)),
		ContentType: ct,
	}
	f.Preview = DataURL(f)
	return f, nil
}

// FromFile reads path and builds a record named after its base name.
func FromFile(path string) (ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageFile{}, fmt.Errorf("read image: %w", err)
	}
	return FromBytes(filepath.Base(path), data)
}

// Dimensions reports the native pixel width and height of the record.
func (f ImageFile) Dimensions() (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	return cfg.Width, cfg.Height, nil
}

// DataURL renders the record as a base64 data URL for preview display.
func DataURL(f ImageFile) string {
	return "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

func detectContentType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnsupportedUpload
	}
	switch format {
	case "png", "jpeg", "webp", "bmp", "tiff":
		return "image/" + format, nil
	}
	return "", ErrUnsupportedUpload
}
