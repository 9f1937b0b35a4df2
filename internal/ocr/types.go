package ocr

// Word represents a single recognized word with its bounding box
type Word struct {
	// Text is the recognized text content
	Text string

	// BoundingBox is the position and size of the word in image pixels
	BoundingBox Rectangle

	// Confidence is the recognition confidence score (0-100)
	Confidence float64
}

// Rectangle represents a rectangular bounding box
type Rectangle struct {
	// X is the left coordinate (pixels from left edge)
	X int

	// Y is the top coordinate (pixels from top edge)
	Y int

	// Width is the width of the rectangle in pixels
	Width int

	// Height is the height of the rectangle in pixels
	Height int
}

// Right returns the right edge coordinate
func (r Rectangle) Right() int {
	return r.X + r.Width
}

// Bottom returns the bottom edge coordinate
func (r Rectangle) Bottom() int {
	return r.Y + r.Height
}

// Request describes a single OCR invocation on a preprocessed page image.
type Request struct {
	// Image is the preprocessed page raster, PNG-encoded.
	Image []byte

	// EngineCode is the Tesseract language code (e.g. "eng", "jpn").
	EngineCode string

	// CharWhitelist restricts recognition to the given characters
	// (empty = engine default character set).
	CharWhitelist string
}

// Engine is the OCR collaborator boundary. Implementations return either
// word-level tuples with positions and confidences, or a plain multi-line
// transcription for the fallback path.
type Engine interface {
	// RecognizeWords returns word tuples in reading order.
	RecognizeWords(req Request) ([]Word, error)

	// RecognizeText returns a plain text transcription of the image.
	RecognizeText(req Request) (string, error)
}
