// Package assembler owns the in-progress PDF document of one conversion run.
// Pages are appended in call order, each sized to the source image's native
// pixel dimensions with the image drawn full-bleed and the recognized text
// overlaid invisibly so the page becomes searchable.
package assembler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	_ "image/jpeg"
	_ "image/png"
)

var (
	// ErrUnsupportedImageFormat reports a media type the PDF writer cannot
	// embed natively. Only PNG and JPEG are embeddable.
	ErrUnsupportedImageFormat = errors.New("unsupported image encoding for embedding")
	// ErrDocumentFinalized reports use of a document after Finalize.
	ErrDocumentFinalized = errors.New("document already finalized")
	// ErrEmptyDocument reports an attempt to finalize a document without
	// pages.
	ErrEmptyDocument = errors.New("document has no pages")
)

// Overlay geometry. The text run sits at a fixed offset from the top-left
// corner regardless of image size or text volume; it is rendered at alpha 0
// so it stays selectable without being visible.
const (
	overlayFontSize = 12.0
	overlayLeft     = 10.0
	overlayTop      = 30.0
)

// Document is an in-progress PDF. It is exclusively owned by one run and is
// not safe for concurrent use. Pages grow monotonically; Finalize may be
// called exactly once.
type Document struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
	pages     int
	finalized bool
}

// New returns a new, empty document.
func New() *Document {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &Document{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// PageCount reports the number of pages added so far.
func (d *Document) PageCount() int { return d.pages }

// AddImagePage appends one page sized to the image's native pixel dimensions,
// draws the image at the origin filling the page, and overlays overlayText
// invisibly when it is non-empty after trimming. The image bytes are decoded
// according to contentType: a type containing "png" is embedded as PNG, one
// containing "jpeg" or "jpg" as JPEG, anything else fails with
// ErrUnsupportedImageFormat. On failure no page is added.
func (d *Document) AddImagePage(data []byte, contentType, overlayText string) error {
	if d.finalized {
		return ErrDocumentFinalized
	}
	imgType, err := embedType(contentType)
	if err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: imgType, ReadDpi: false}

	// Parse the image in a scratch document first so a writer-level failure
	// cannot poison the page already being assembled.
	probe := fpdf.New("P", "pt", "A4", "")
	probe.RegisterImageOptionsReader("probe", opts, bytes.NewReader(data))
	if probe.Err() {
		return fmt.Errorf("embed image: %w", probe.Error())
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	name := fmt.Sprintf("page-%d", d.pages)
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")

	if text := strings.TrimSpace(overlayText); text != "" {
		d.drawInvisibleText(text)
	}
	if d.pdf.Err() {
		return fmt.Errorf("embed image: %w", d.pdf.Error())
	}
	d.pages++
	return nil
}

// drawInvisibleText writes the OCR text near the top-left corner at full
// transparency. The position is fixed and not aligned to the source layout.
func (d *Document) drawInvisibleText(text string) {
	d.pdf.SetFont("Helvetica", "", overlayFontSize)
	d.pdf.SetAlpha(0, "Normal")
	for i, line := range strings.Split(text, "\n") {
		d.pdf.Text(overlayLeft, overlayTop+float64(i)*overlayFontSize, d.translate(line))
	}
	d.pdf.SetAlpha(1, "Normal")
}

// Finalize serializes the document to an immutable byte sequence. It may be
// called once; the document accepts no further pages afterwards. A document
// without pages fails with ErrEmptyDocument.
func (d *Document) Finalize() ([]byte, error) {
	if d.finalized {
		return nil, ErrDocumentFinalized
	}
	d.finalized = true
	if d.pages == 0 {
		// The writer invents a blank A4 page when serializing an empty
		// document; the output must only ever contain image pages.
		return nil, ErrEmptyDocument
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

// embedType maps a declared media type onto the writer's image type keys.
func embedType(contentType string) (string, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "png"):
		return "PNG", nil
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return "JPG", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageFormat, contentType)
	}
}
