package ocr

import (
	"bytes"
	"image"
	"image/png"
	"sort"

	"golang.org/x/image/draw"

	"github.com/moghammed/epstein-universal-unredaction/geom"
	"github.com/moghammed/epstein-universal-unredaction/model"
)

// Provider recognises the positioned words of a rasterised page. The
// pipeline depends on this interface so that callers without the engine
// compiled in can supply their own.
type Provider interface {
	RecognizePage(img image.Image) ([]model.Element, error)
}

// Word is one recognised word with its bounding box in raster pixels.
type Word struct {
	// Text is the recognised word.
	Text string

	// Box is the pixel bounding box, top-left origin.
	Box image.Rectangle

	// Confidence is the engine's confidence in percent, 0 to 100.
	Confidence float64
}

// ElementsFromWords converts pixel-space words into normalized page
// elements. dpi is the resolution the page was rasterised at; it fixes
// the physical scale used to estimate font sizes. Words below
// minConfidence are dropped. Output is sorted top-to-bottom then
// left-to-right.
func ElementsFromWords(words []Word, imgW, imgH, dpi int, minConfidence float64) []model.Element {
	if imgW <= 0 || imgH <= 0 || dpi <= 0 {
		return nil
	}
	elements := make([]model.Element, 0, len(words))
	for _, w := range words {
		if w.Text == "" || w.Confidence < minConfidence {
			continue
		}
		r := w.Box.Canon()
		if r.Dx() <= 0 || r.Dy() <= 0 {
			continue
		}
		box := geom.Box{
			X: float64(r.Min.X) / float64(imgW),
			Y: float64(r.Min.Y) / float64(imgH),
			W: float64(r.Dx()) / float64(imgW),
			H: float64(r.Dy()) / float64(imgH),
		}
		// A word box spans roughly the cap height, so its pixel height
		// at the render DPI approximates the font size in points.
		sizePt := float64(r.Dy()) / float64(dpi) * 72.0
		elements = append(elements, model.Element{
			Text:       w.Text,
			Box:        box,
			FontSizePt: sizePt,
		})
	}
	sort.SliceStable(elements, func(i, j int) bool {
		if elements[i].Box.Y != elements[j].Box.Y {
			return elements[i].Box.Y < elements[j].Box.Y
		}
		return elements[i].Box.X < elements[j].Box.X
	})
	return elements
}

// PrepareImage normalises a page raster for recognition: converts to
// grayscale and upscales anything narrower than minWidth pixels, since
// the engine degrades sharply on low-resolution scans.
func PrepareImage(img image.Image, minWidth int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return img
	}

	outW, outH := w, h
	if minWidth > 0 && w < minWidth {
		scale := float64(minWidth) / float64(w)
		outW = minWidth
		outH = int(float64(h)*scale + 0.5)
	}

	gray := image.NewGray(image.Rect(0, 0, outW, outH))
	if outW == w && outH == h {
		draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(gray, gray.Bounds(), img, bounds, draw.Src, nil)
	}
	return gray
}

// EncodePNG renders an image to PNG bytes for the recognition engine.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
