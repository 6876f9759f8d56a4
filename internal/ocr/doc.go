// Package ocr defines the text extraction boundary for cover photos and the
// heuristics that turn raw extracted lines into structured record fields.
// Actual model inference lives behind the Extractor interface; this package
// never runs a model itself.
package ocr
