package assembler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func mediaBox(w, h float64) []byte {
	return []byte(fmt.Sprintf("/MediaBox [0 0 %.2f %.2f]", w, h))
}

func TestAddImagePageSizesPagesToImages(t *testing.T) {
	doc := New()
	sizes := [][2]int{{100, 200}, {300, 150}, {50, 50}}
	for i, s := range sizes {
		data := pngBytes(t, s[0], s[1])
		if err := doc.AddImagePage(data, "image/png", fmt.Sprintf("page %d text", i)); err != nil {
			t.Fatalf("AddImagePage(%d) error = %v", i, err)
		}
	}
	if doc.PageCount() != 3 {
		t.Fatalf("page count = %d, want 3", doc.PageCount())
	}
	out, err := doc.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", out[:8])
	}
	last := -1
	for _, s := range sizes {
		idx := bytes.Index(out, mediaBox(float64(s[0]), float64(s[1])))
		if idx < 0 {
			t.Fatalf("missing MediaBox for %dx%d", s[0], s[1])
		}
		if idx < last {
			t.Fatalf("pages out of input order")
		}
		last = idx
	}
}

func TestAddImagePageEmbedsJPEG(t *testing.T) {
	doc := New()
	if err := doc.AddImagePage(jpegBytes(t, 40, 30), "image/jpeg", "hello"); err != nil {
		t.Fatalf("AddImagePage() error = %v", err)
	}
	out, err := doc.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if !bytes.Contains(out, mediaBox(40, 30)) {
		t.Fatalf("missing 40x30 MediaBox")
	}
}

func TestOverlayTextIsInvisibleButPresent(t *testing.T) {
	doc := New()
	if err := doc.AddImagePage(pngBytes(t, 60, 60), "image/png", "searchable words"); err != nil {
		t.Fatalf("AddImagePage() error = %v", err)
	}
	out, err := doc.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if !bytes.Contains(out, []byte("/BaseFont /Helvetica")) {
		t.Fatalf("overlay font not embedded")
	}
	// SetAlpha(0) materializes as a fully transparent graphics state.
	if !bytes.Contains(out, []byte("/ca 0.000")) {
		t.Fatalf("transparent graphics state missing")
	}
}

func TestEmptyOverlayAddsNoTextState(t *testing.T) {
	doc := New()
	if err := doc.AddImagePage(pngBytes(t, 20, 20), "image/png", "   \n  "); err != nil {
		t.Fatalf("AddImagePage() error = %v", err)
	}
	out, err := doc.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if bytes.Contains(out, []byte("/BaseFont /Helvetica")) {
		t.Fatalf("font embedded although overlay text was blank")
	}
}

func TestAddImagePageRejectsUnsupportedType(t *testing.T) {
	doc := New()
	err := doc.AddImagePage(pngBytes(t, 10, 10), "image/webp", "text")
	if !errors.Is(err, ErrUnsupportedImageFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedImageFormat", err)
	}
	if doc.PageCount() != 0 {
		t.Fatalf("page added despite rejection")
	}
}

func TestAddImagePageRejectsCorruptData(t *testing.T) {
	doc := New()
	good := pngBytes(t, 10, 10)
	if err := doc.AddImagePage(good[:16], "image/png", ""); err == nil {
		t.Fatalf("expected decode error for truncated PNG")
	}
	if doc.PageCount() != 0 {
		t.Fatalf("page added despite corrupt data")
	}
	// The document stays usable after a rejected page.
	if err := doc.AddImagePage(good, "image/png", ""); err != nil {
		t.Fatalf("AddImagePage() after rejection error = %v", err)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("page count = %d, want 1", doc.PageCount())
	}
	if _, err := doc.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
}

func TestFinalizeEmptyDocumentFails(t *testing.T) {
	doc := New()
	if _, err := doc.Finalize(); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("Finalize() error = %v, want ErrEmptyDocument", err)
	}
	// The rejected finalize still consumed the document's single use.
	if _, err := doc.Finalize(); !errors.Is(err, ErrDocumentFinalized) {
		t.Fatalf("second Finalize() error = %v, want ErrDocumentFinalized", err)
	}
}

func TestFinalizeIsSingleUse(t *testing.T) {
	doc := New()
	if err := doc.AddImagePage(pngBytes(t, 10, 10), "image/png", ""); err != nil {
		t.Fatalf("AddImagePage() error = %v", err)
	}
	if _, err := doc.Finalize(); err != nil {
		t.Fatalf("first Finalize() error = %v", err)
	}
	if _, err := doc.Finalize(); !errors.Is(err, ErrDocumentFinalized) {
		t.Fatalf("second Finalize() error = %v, want ErrDocumentFinalized", err)
	}
	if err := doc.AddImagePage(pngBytes(t, 10, 10), "image/png", ""); !errors.Is(err, ErrDocumentFinalized) {
		t.Fatalf("AddImagePage() after Finalize error = %v, want ErrDocumentFinalized", err)
	}
}
