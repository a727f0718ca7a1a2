// Package pipeline wires the analysis stages into a single run over an
// ingested document: text triage, segmentation, redaction location,
// typographic profiling, gap estimation, classification and candidate
// ranking. Each stage writes one section of an append-only state; the
// runner enforces stage ordering and records timings.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/moghammed/epstein-universal-unredaction/classify"
	"github.com/moghammed/epstein-universal-unredaction/match"
	"github.com/moghammed/epstein-universal-unredaction/model"
	"github.com/moghammed/epstein-universal-unredaction/ocr"
	"github.com/moghammed/epstein-universal-unredaction/redact"
	"github.com/moghammed/epstein-universal-unredaction/segment"
	"github.com/moghammed/epstein-universal-unredaction/typo"
)

// RasterSource supplies the page raster for recognition. It is only
// called for pages whose text layer is absent.
type RasterSource func(pageIndex int) (image.Image, error)

// Options configures a pipeline. Zero-value component configs take the
// package defaults.
type Options struct {
	Segment  segment.Config
	Redact   redact.Config
	Typo     typo.Config
	Classify classify.Config
	Match    match.Config

	// Corpus is the candidate dictionary corpus. Required.
	Corpus *match.Corpus

	// Workers bounds concurrent candidate ranking (default: GOMAXPROCS).
	Workers int

	// MatchDeadline caps the wall time of the ranking stage. Zero means
	// no deadline beyond the caller's context; a negative value counts
	// as already expired.
	MatchDeadline time.Duration

	// Recognizer and Rasters enable text recovery for image-only pages.
	// Both optional; with either missing, such pages are skipped with an
	// anomaly.
	Recognizer ocr.Provider
	Rasters    RasterSource

	// Logger receives stage progress. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns options with every component at its default
// tuning and no corpus.
func DefaultOptions() Options {
	return Options{
		Segment:  segment.DefaultConfig(),
		Redact:   redact.DefaultConfig(),
		Typo:     typo.DefaultConfig(),
		Classify: classify.DefaultConfig(),
		Match:    match.DefaultConfig(),
		Workers:  runtime.GOMAXPROCS(0),
	}
}

// Pipeline runs the full analysis over ingested documents. Safe for
// concurrent use across documents.
type Pipeline struct {
	opts       Options
	segmenter  *segment.Engine
	locator    *redact.Locator
	profiler   *typo.Builder
	classifier classify.Classifier
	matcher    *match.Matcher
	logger     *zap.Logger
}

// New creates a pipeline from the options.
func New(opts Options) (*Pipeline, error) {
	if opts.Corpus == nil {
		return nil, fmt.Errorf("pipeline: corpus is required")
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		opts:       opts,
		segmenter:  segment.NewEngineWithConfig(opts.Segment),
		locator:    redact.NewLocatorWithConfig(opts.Redact),
		profiler:   typo.NewBuilderWithConfig(opts.Typo),
		classifier: classify.NewRuleClassifierWithConfig(classify.DefaultRules(), opts.Classify),
		matcher:    match.NewMatcherWithConfig(opts.Corpus, opts.Match),
		logger:     logger,
	}, nil
}

// Process runs every stage over the document and returns the filled
// state with per-stage timings. Structurally broken pages are skipped
// and reported in State.PageErrors; a document-level violation fails
// the run.
func (p *Pipeline) Process(ctx context.Context, doc *model.Document) (*State, []Timing, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("pipeline: nil document")
	}
	st := NewState(doc)
	st.PageErrors = make([]error, len(doc.Pages))
	for i := range doc.Pages {
		st.PageErrors[i] = validatePage(&doc.Pages[i], i)
		if st.PageErrors[i] != nil {
			p.logger.Warn("skipping malformed page",
				zap.Int("page", i),
				zap.Error(st.PageErrors[i]))
		}
	}

	runner := NewRunner(p.stages(), p.logger)
	timings, err := runner.Run(ctx, st)
	if err != nil {
		return st, timings, err
	}
	return st, timings, nil
}

func validatePage(page *model.Page, position int) error {
	if page.Index != position {
		return &model.MalformedInputError{Page: position, Reason: fmt.Sprintf("page index %d at position %d", page.Index, position)}
	}
	if page.Size.WidthMM <= 0 || page.Size.HeightMM <= 0 {
		return &model.MalformedInputError{Page: position, Reason: fmt.Sprintf("non-positive page size %+v", page.Size)}
	}
	return nil
}

func (p *Pipeline) stages() []Stage {
	return []Stage{
		{
			Name:     "triage",
			Produces: []Section{SectionText},
			Run:      p.runTriage,
		},
		{
			Name:     "segment",
			Requires: []Section{SectionText},
			Produces: []Section{SectionBlocks},
			Run:      p.runSegment,
		},
		{
			Name:     "locate",
			Requires: []Section{SectionBlocks},
			Produces: []Section{SectionRedactions},
			Run:      p.runLocate,
		},
		{
			Name:     "profile",
			Requires: []Section{SectionText},
			Produces: []Section{SectionProfile},
			Run:      p.runProfile,
		},
		{
			Name:     "estimate",
			Requires: []Section{SectionRedactions, SectionProfile},
			Produces: []Section{SectionGaps},
			Run:      p.runEstimate,
		},
		{
			Name:     "classify",
			Requires: []Section{SectionGaps},
			Produces: []Section{SectionPredictions},
			Run:      p.runClassify,
		},
		{
			Name:     "rank",
			Requires: []Section{SectionGaps, SectionPredictions},
			Produces: []Section{SectionRankings},
			Run:      p.runRank,
		},
	}
}

// runTriage recovers text for image-only pages via recognition when a
// recogniser and raster source are configured.
func (p *Pipeline) runTriage(ctx context.Context, st *State) error {
	for i := range st.Document.Pages {
		if st.PageErrors[i] != nil {
			continue
		}
		page := &st.Document.Pages[i]
		if page.TextLayer != model.TextLayerAbsent {
			continue
		}
		if p.opts.Recognizer == nil || p.opts.Rasters == nil {
			st.AddAnomalies(model.Anomaly{
				Kind:   model.AnomalyTextLayerMissing,
				Page:   i,
				Detail: "image-only page and no recogniser configured",
			})
			continue
		}
		img, err := p.opts.Rasters(i)
		if err != nil {
			st.AddAnomalies(model.Anomaly{
				Kind:   model.AnomalyTextLayerMissing,
				Page:   i,
				Detail: fmt.Sprintf("raster unavailable: %v", err),
			})
			continue
		}
		elements, err := p.opts.Recognizer.RecognizePage(img)
		if err != nil {
			st.AddAnomalies(model.Anomaly{
				Kind:   model.AnomalyTextLayerMissing,
				Page:   i,
				Detail: fmt.Sprintf("recognition failed: %v", err),
			})
			continue
		}
		page.Elements = elements
		page.TextLayer = model.TextLayerPresent
		p.logger.Debug("recovered text layer",
			zap.Int("page", i),
			zap.Int("elements", len(elements)))
	}
	return nil
}

func (p *Pipeline) runSegment(ctx context.Context, st *State) error {
	st.Segments = make([]*segment.Result, len(st.Document.Pages))
	for i := range st.Document.Pages {
		if st.PageErrors[i] != nil {
			continue
		}
		res := p.segmenter.Segment(&st.Document.Pages[i])
		st.Segments[i] = res
		st.AddAnomalies(res.Anomalies...)
	}
	return nil
}

func (p *Pipeline) runLocate(ctx context.Context, st *State) error {
	st.Redactions = make([]*redact.Result, len(st.Document.Pages))
	for i := range st.Document.Pages {
		if st.PageErrors[i] != nil || st.Segments[i] == nil {
			continue
		}
		res := p.locator.Locate(&st.Document.Pages[i], st.Segments[i])
		st.Redactions[i] = res
		st.AddAnomalies(res.Anomalies...)
	}
	return nil
}

func (p *Pipeline) runProfile(ctx context.Context, st *State) error {
	st.Profile = p.profiler.Build(st.Document)
	return nil
}

func (p *Pipeline) runEstimate(ctx context.Context, st *State) error {
	estimator := typo.NewEstimator(st.Profile)
	for i := range st.Document.Pages {
		if st.PageErrors[i] != nil || st.Segments[i] == nil || st.Redactions[i] == nil {
			continue
		}
		gaps, anomalies := estimator.EstimateAll(&st.Document.Pages[i], st.Segments[i], st.Redactions[i])
		for _, g := range gaps {
			st.Gaps[g.RedactionID] = g
		}
		st.AddAnomalies(anomalies...)
	}
	return nil
}

func (p *Pipeline) runClassify(ctx context.Context, st *State) error {
	for _, red := range st.AllRedactions() {
		gap, ok := st.Gaps[red.ID]
		if !ok {
			continue
		}
		if pred, ok := p.classifier.Classify(&red, &gap); ok {
			st.Predictions[red.ID] = pred
		}
	}
	return nil
}

// rankItem is one unit of ranking work.
type rankItem struct {
	page int
	red  redact.Redaction
}

// runRank fans the redactions out over a bounded worker pool. Each
// worker writes its own redaction's slot, so results land identically
// regardless of scheduling.
func (p *Pipeline) runRank(ctx context.Context, st *State) error {
	if p.opts.MatchDeadline != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.MatchDeadline)
		defer cancel()
	}

	var items []rankItem
	for i, res := range st.Redactions {
		if res == nil {
			continue
		}
		for _, red := range res.Redactions {
			items = append(items, rankItem{page: i, red: red})
		}
	}

	work := make(chan rankItem)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				if err := p.rankOne(ctx, st, item); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}

	for _, item := range items {
		work <- item
	}
	close(work)
	wg.Wait()
	return firstErr
}

func (p *Pipeline) rankOne(ctx context.Context, st *State, item rankItem) error {
	gap, ok := st.Gaps[item.red.ID]
	if !ok {
		return st.SetRanking(item.red.ID, nil)
	}
	var pred *classify.Prediction
	if pr, ok := st.Predictions[item.red.ID]; ok {
		pred = &pr
	}
	metrics, _ := st.Profile.Family(gap.Family)
	candidates, anomalies := p.matcher.Rank(ctx, item.page, &gap, pred, metrics)
	st.AddAnomalies(anomalies...)
	return st.SetRanking(item.red.ID, candidates)
}
