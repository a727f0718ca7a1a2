//go:build !ocr

// Package ocr recovers positioned text elements from scanned pages that
// carry no usable text layer.
//
// This is the stub build used when the "ocr" build tag is not set: all
// recognition calls return ErrNotEnabled. To enable recognition,
// rebuild with the tag:
//
//	go build -tags ocr
//
// That build requires Tesseract to be installed on the system.
package ocr

import (
	"errors"
	"image"

	"github.com/moghammed/epstein-universal-unredaction/model"
)

// ErrNotEnabled is returned when recognition is requested but support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("ocr support not enabled; rebuild with -tags ocr")

// Client is the stub recognition client.
type Client struct{}

// New returns an error indicating recognition is not compiled in.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op. Safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns ErrNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrNotEnabled
}

// RecognizeWords returns ErrNotEnabled.
func (c *Client) RecognizeWords(imageData []byte) ([]Word, error) {
	return nil, ErrNotEnabled
}

// RecognizePage returns ErrNotEnabled.
func (c *Client) RecognizePage(img image.Image) ([]model.Element, error) {
	return nil, ErrNotEnabled
}
