package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/moghammed/epstein-universal-unredaction/classify"
	"github.com/moghammed/epstein-universal-unredaction/geom"
	"github.com/moghammed/epstein-universal-unredaction/match"
	"github.com/moghammed/epstein-universal-unredaction/model"
	"github.com/moghammed/epstein-universal-unredaction/pipeline"
)

// runFixture pushes a one-page labelled document through the pipeline.
func runFixture(t *testing.T) (*pipeline.State, []pipeline.Timing) {
	t.Helper()
	names := match.NewDictionary([]match.Entry{
		{Text: "Jeffrey Epstein", Freq: 5},
		{Text: "Jane Doe", Freq: 3},
	})
	corpus := match.NewCorpus(map[classify.ContentType]*match.Dictionary{
		classify.TypeName: names,
	}, match.NewDictionary(nil))

	opts := pipeline.DefaultOptions()
	opts.Corpus = corpus
	p, err := pipeline.New(opts)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	el := func(text string, x, y, w, h float64) model.Element {
		return model.Element{Text: text, Box: geom.NewBox(x, y, w, h), FontFamily: "Helvetica", FontSizePt: 11}
	}
	doc := &model.Document{
		Filename: "exhibit-12.pdf",
		Pages: []model.Page{{
			Index: 0,
			Size:  geom.PageSize{WidthMM: 210, HeightMM: 297},
			Elements: []model.Element{
				el("Name:", 0.10, 0.100, 0.10, 0.020),
				el("was", 0.60, 0.100, 0.06, 0.020),
				el("here", 0.67, 0.100, 0.06, 0.020),
			},
			Primitives: []model.Primitive{{
				Kind:           model.PrimitiveFill,
				Box:            geom.NewBox(0.35, 0.100, 0.20, 0.020),
				Fill:           model.Color{},
				Opacity:        1,
				Rectangularity: 1,
			}},
		}},
	}
	st, timings, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return st, timings
}

func TestBuild(t *testing.T) {
	st, timings := runFixture(t)
	r := Build(st, timings)

	if r.Filename != "exhibit-12.pdf" || r.Pages != 1 {
		t.Errorf("header = %+v", r)
	}
	if len(r.Redactions) != 1 {
		t.Fatalf("redactions = %+v", r.Redactions)
	}
	res := r.Redactions[0]
	if res.ID != "p0_r0" || res.Page != 0 {
		t.Errorf("result = %+v", res)
	}
	if res.Gap == nil || res.Gap.PointEstimate <= 0 {
		t.Errorf("gap = %+v", res.Gap)
	}
	if res.Prediction == nil || res.Prediction.Type != "name" {
		t.Errorf("prediction = %+v", res.Prediction)
	}
	if len(res.Candidates) == 0 {
		t.Error("no candidates")
	}
	if len(r.Timings) != len(timings) {
		t.Errorf("timings = %+v", r.Timings)
	}
}

func TestReportJSON(t *testing.T) {
	st, timings := runFixture(t)
	data, err := Build(st, timings).JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var back map[string]any
	if err := sonic.Unmarshal(data, &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if _, ok := back["redactions"]; !ok {
		t.Errorf("missing redactions key: %s", data)
	}
}

func TestOverlay(t *testing.T) {
	st, _ := runFixture(t)
	var buf bytes.Buffer
	if err := Overlay(st, &buf); err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("output does not look like a PDF")
	}
}
