package ocr

// Package ocr defines the abstraction for plugging OCR engines into the
// image-to-PDF pipeline. The interface is intentionally small and
// transport-agnostic so engines can be backed by native libraries or remote
// APIs without leaking provider-specific concerns into callers.
