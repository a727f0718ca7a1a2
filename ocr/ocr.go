//go:build ocr

// Package ocr recovers positioned text elements from scanned pages that
// carry no usable text layer.
//
// This build wraps the Tesseract engine via gosseract and requires
// Tesseract to be installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/moghammed/epstein-universal-unredaction/model"
)

// Client wraps Tesseract. Close it when no longer needed to release the
// engine's resources. Not safe for concurrent use.
type Client struct {
	client *gosseract.Client

	// DPI is the resolution pages are rasterised at (default: 300).
	DPI int

	// MinConfidence drops words the engine is unsure about, in percent
	// (default: 40).
	MinConfidence float64

	// MinWidthPx upscales rasters narrower than this before recognition
	// (default: 1200).
	MinWidthPx int
}

// New creates a recognition client with English as the language.
func New() (*Client, error) {
	return &Client{
		client:        gosseract.NewClient(),
		DPI:           300,
		MinConfidence: 40,
		MinWidthPx:    1200,
	}, nil
}

// Close releases the engine's resources.
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the recognition language(s). Multiple languages are
// "+" separated, e.g. "eng+fra".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// RecognizeWords runs recognition on encoded image data (PNG, TIFF,
// JPEG) and returns every word with its pixel bounding box.
func (c *Client) RecognizeWords(imageData []byte) ([]Word, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognise: %w", err)
	}
	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{
			Text:       b.Word,
			Box:        b.Box,
			Confidence: b.Confidence,
		})
	}
	return words, nil
}

// RecognizePage prepares a page raster, runs recognition and converts
// the result into normalized page elements.
func (c *Client) RecognizePage(img image.Image) ([]model.Element, error) {
	prepared := PrepareImage(img, c.MinWidthPx)
	data, err := EncodePNG(prepared)
	if err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}
	words, err := c.RecognizeWords(data)
	if err != nil {
		return nil, err
	}
	bounds := prepared.Bounds()
	// The raster may have been upscaled; scale the DPI with it so the
	// size estimate stays anchored to the physical page.
	dpi := c.DPI
	if orig := img.Bounds().Dx(); orig > 0 && bounds.Dx() != orig {
		dpi = int(float64(c.DPI)*float64(bounds.Dx())/float64(orig) + 0.5)
	}
	return ElementsFromWords(words, bounds.Dx(), bounds.Dy(), dpi, c.MinConfidence), nil
}
