package ocr

import "context"

// Input encapsulates a single image submitted for OCR.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in the
	// corresponding Result.
	ID string
	// Image is the encoded image payload (PNG, JPEG, WebP, BMP or TIFF).
	Image []byte
	// Languages lists language hints (e.g. "eng", "deu") that providers use
	// to select trained data. Empty means the provider default.
	Languages []string
	// Metadata passes engine-specific knobs (e.g. "tessedit_pageseg_mode" for
	// Tesseract) without hard-coding them into the API surface.
	Metadata map[string]string
}

// Result captures OCR output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// Text contains the linearized text extracted from the image. Empty means
	// no text was detected, which is not an error.
	Text string
}

// Engine is the OCR provider contract: one image in, one result out. The call
// owns a scoped engine resource and must release it on every exit path;
// callers never retry, skip-or-retry policy lives in the pipeline.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
