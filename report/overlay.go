package report

import (
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"

	"github.com/moghammed/epstein-universal-unredaction/pipeline"
)

// Overlay renders a review PDF: one page per input page at its physical
// size, with detected blocks in light grey, redactions outlined in red
// and the best candidate written next to each redaction.
func Overlay(st *pipeline.State, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 7)

	for i := range st.Document.Pages {
		page := &st.Document.Pages[i]
		size := page.Size
		if size.WidthMM <= 0 || size.HeightMM <= 0 {
			// Malformed pages keep their slot so page numbers line up.
			pdf.AddPage()
			pdf.SetTextColor(200, 0, 0)
			pdf.Text(10, 10, fmt.Sprintf("page %d skipped: invalid size", i))
			continue
		}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: size.WidthMM, Ht: size.HeightMM})

		if i < len(st.Segments) && st.Segments[i] != nil {
			pdf.SetDrawColor(180, 180, 180)
			for _, blk := range st.Segments[i].Blocks {
				pdf.Rect(blk.Box.X*size.WidthMM, blk.Box.Y*size.HeightMM,
					blk.Box.W*size.WidthMM, blk.Box.H*size.HeightMM, "D")
			}
		}

		if i >= len(st.Redactions) || st.Redactions[i] == nil {
			continue
		}
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetTextColor(200, 0, 0)
		for _, red := range st.Redactions[i].Redactions {
			x := red.Box.X * size.WidthMM
			y := red.Box.Y * size.HeightMM
			pdf.Rect(x, y, red.Box.W*size.WidthMM, red.Box.H*size.HeightMM, "D")
			pdf.Text(x, y-1, annotation(st, red.ID))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render overlay: %w", err)
	}
	return nil
}

// annotation builds the label drawn above a redaction box.
func annotation(st *pipeline.State, redactionID string) string {
	label := redactionID
	if pred, ok := st.Predictions[redactionID]; ok {
		label += fmt.Sprintf(" [%s %.2f]", pred.Type, pred.Confidence)
	}
	if gap, ok := st.Gaps[redactionID]; ok {
		label += fmt.Sprintf(" ~%d ch", gap.PointEstimate)
	}
	if candidates := st.Rankings[redactionID]; len(candidates) > 0 {
		label += " " + candidates[0].Text
	}
	return label
}
