// Package ocr wraps the Tesseract engine behind a small interface that
// returns word-level text, position, and confidence tuples.
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/platinummonkey/outliner/internal/logger"
)

// TesseractEngine implements Engine using the gosseract client. A fresh
// client is created per call; gosseract clients are not safe for
// concurrent use and batch workers run in parallel.
type TesseractEngine struct {
	logger *logger.Logger
}

// Config holds configuration for the Tesseract engine
type Config struct {
	Logger *logger.Logger
}

// NewTesseractEngine creates a new Tesseract-backed OCR engine
func NewTesseractEngine(cfg *Config) *TesseractEngine {
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	return &TesseractEngine{logger: log}
}

func (e *TesseractEngine) configureClient(client *gosseract.Client, req Request) error {
	if err := client.SetLanguage(req.EngineCode); err != nil {
		return fmt.Errorf("failed to set OCR language %q: %w", req.EngineCode, err)
	}
	// PSM 6: assume a single uniform block of text.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if req.CharWhitelist != "" {
		if err := client.SetWhitelist(req.CharWhitelist); err != nil {
			return fmt.Errorf("failed to set character whitelist: %w", err)
		}
	}
	if err := client.SetImageFromBytes(req.Image); err != nil {
		return fmt.Errorf("failed to set image data: %w", err)
	}
	return nil
}

// RecognizeWords performs OCR and returns word tuples with bounding boxes
// in reading order.
func (e *TesseractEngine) RecognizeWords(req Request) ([]Word, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := e.configureClient(client, req); err != nil {
		return nil, err
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word bounding boxes: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{
			Text: b.Word,
			BoundingBox: Rectangle{
				X:      b.Box.Min.X,
				Y:      b.Box.Min.Y,
				Width:  b.Box.Dx(),
				Height: b.Box.Dy(),
			},
			Confidence: b.Confidence,
		})
	}

	e.logger.WithFields("engine_code", req.EngineCode, "words", len(words)).
		Debug("OCR word recognition completed")

	return words, nil
}

// RecognizeText performs whole-image OCR and returns the plain
// transcription. Used as a fallback when word grouping yields nothing.
func (e *TesseractEngine) RecognizeText(req Request) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := e.configureClient(client, req); err != nil {
		return "", err
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to get OCR text: %w", err)
	}
	return text, nil
}
