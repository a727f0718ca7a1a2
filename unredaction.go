// Package unredaction infers the likely content hidden behind black-box
// redactions in documents, using only geometry and typography: block
// segmentation, redaction location, font profiling, gap estimation,
// semantic classification and width-based candidate ranking.
//
// Basic usage:
//
//	rep, err := unredaction.Analyze("ingested.json").
//	    Dictionaries("./dicts").
//	    Run(context.Background())
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(rep.Redactions[0].Candidates)
//
// For control over individual stages the lower-level pipeline package is
// also available.
package unredaction

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/moghammed/epstein-universal-unredaction/config"
	"github.com/moghammed/epstein-universal-unredaction/match"
	"github.com/moghammed/epstein-universal-unredaction/model"
	"github.com/moghammed/epstein-universal-unredaction/ocr"
	"github.com/moghammed/epstein-universal-unredaction/pipeline"
	"github.com/moghammed/epstein-universal-unredaction/report"
)

// Analysis is a fluent builder for one document run. Configure it with
// the chained methods, then call Run.
type Analysis struct {
	path    string
	doc     *model.Document
	dictDir string
	corpus  *match.Corpus
	opts    pipeline.Options
	err     error
}

// Analyze starts an analysis of an ingested-document JSON file.
func Analyze(path string) *Analysis {
	return &Analysis{path: path, opts: pipeline.DefaultOptions()}
}

// FromDocument starts an analysis of an already decoded document.
func FromDocument(doc *model.Document) *Analysis {
	return &Analysis{doc: doc, opts: pipeline.DefaultOptions()}
}

// Dictionaries sets the directory candidate dictionaries are loaded
// from. Ignored when a corpus is set explicitly.
func (a *Analysis) Dictionaries(dir string) *Analysis {
	a.dictDir = dir
	return a
}

// Corpus sets an explicit candidate corpus.
func (a *Analysis) Corpus(c *match.Corpus) *Analysis {
	a.corpus = c
	return a
}

// Config applies a loaded configuration file to every stage.
func (a *Analysis) Config(cfg *config.Config) *Analysis {
	a.opts.Segment = cfg.SegmentConfig()
	a.opts.Redact = cfg.RedactConfig()
	a.opts.Typo = cfg.TypoConfig()
	a.opts.Classify = cfg.ClassifyConfig()
	a.opts.Match = cfg.MatchConfig()
	a.opts.Workers = cfg.Workers()
	a.opts.MatchDeadline = time.Duration(cfg.Pipeline.MatchDeadlineMS) * time.Millisecond
	if a.dictDir == "" {
		a.dictDir = cfg.DictionaryDir
	}
	return a
}

// Logger sets the logger stages report progress to.
func (a *Analysis) Logger(logger *zap.Logger) *Analysis {
	a.opts.Logger = logger
	return a
}

// Workers bounds concurrent candidate ranking.
func (a *Analysis) Workers(n int) *Analysis {
	a.opts.Workers = n
	return a
}

// Deadline caps the wall time of candidate ranking.
func (a *Analysis) Deadline(d time.Duration) *Analysis {
	a.opts.MatchDeadline = d
	return a
}

// Recognizer enables text recovery for image-only pages.
func (a *Analysis) Recognizer(provider ocr.Provider, rasters pipeline.RasterSource) *Analysis {
	a.opts.Recognizer = provider
	a.opts.Rasters = rasters
	return a
}

// Run executes the pipeline and consolidates the result. The returned
// state carries the raw stage outputs for callers that need more than
// the report.
func (a *Analysis) Run(ctx context.Context) (*report.Report, *pipeline.State, error) {
	doc := a.doc
	if doc == nil {
		data, err := os.ReadFile(a.path)
		if err != nil {
			return nil, nil, fmt.Errorf("read document: %w", err)
		}
		doc, err = model.DecodeDocument(data)
		if err != nil {
			return nil, nil, err
		}
	}

	corpus := a.corpus
	if corpus == nil {
		if a.dictDir == "" {
			return nil, nil, fmt.Errorf("no dictionaries: set Dictionaries or Corpus")
		}
		var err error
		corpus, err = match.LoadDir(a.dictDir)
		if err != nil {
			return nil, nil, fmt.Errorf("load dictionaries: %w", err)
		}
	}
	a.opts.Corpus = corpus

	p, err := pipeline.New(a.opts)
	if err != nil {
		return nil, nil, err
	}
	st, timings, err := p.Process(ctx, doc)
	if err != nil {
		return nil, st, err
	}
	return report.Build(st, timings), st, nil
}

// Must is a helper that wraps a call returning (T, error) and panics on
// error. Intended for scripts and tests.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
