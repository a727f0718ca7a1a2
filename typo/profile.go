package typo

import (
	"sort"
	"unicode/utf8"

	"github.com/moghammed/epstein-universal-unredaction/geom"
	"github.com/moghammed/epstein-universal-unredaction/model"
)

// Config holds the profiling parameters.
type Config struct {
	// TrackingTolerance widens the plausible per-character width range to
	// absorb tracking and kerning, as a fraction (default: 0.15).
	TrackingTolerance float64

	// DefaultSizePt is the font size assumed when a family was observed
	// without any size information (default: 11).
	DefaultSizePt float64
}

// DefaultConfig returns the provisional default profiling parameters.
func DefaultConfig() Config {
	return Config{
		TrackingTolerance: 0.15,
		DefaultSizePt:     11.0,
	}
}

// FamilyMetrics is the width model for one font family.
type FamilyMetrics struct {
	// Family is the reported family name.
	Family string

	// SizePt is the dominant observed font size in points.
	SizePt float64

	// Heuristic is true when no metric table exists for the family and
	// widths come from the character-class fallback.
	Heuristic bool

	// widths is the metric table in 1000ths of em; nil for heuristic
	// families.
	widths map[rune]float64

	// observedAvgMM is the average character width measured from the
	// family's own visible text, in millimetres. Zero when no text with
	// usable boxes was observed.
	observedAvgMM float64

	// Cached aggregates in millimetres.
	avgMM, minMM, maxMM float64
}

// CharWidthMM returns the rendered width of r in millimetres.
func (m *FamilyMetrics) CharWidthMM(r rune) float64 {
	if m.widths != nil {
		if units, ok := m.widths[r]; ok {
			return m.emUnitsToMM(units)
		}
		return m.avgMM
	}
	return classEmWidths[ClassOf(r)] * m.heuristicScaleMM()
}

// StringWidthMM returns the rendered width of s in millimetres: the sum
// of its per-character widths under this family's model.
func (m *FamilyMetrics) StringWidthMM(s string) float64 {
	total := 0.0
	for _, r := range s {
		total += m.CharWidthMM(r)
	}
	return total
}

// AvgCharWidthMM returns the model's average character width.
func (m *FamilyMetrics) AvgCharWidthMM() float64 { return m.avgMM }

// MinCharWidthMM returns the narrowest plausible character width.
func (m *FamilyMetrics) MinCharWidthMM() float64 { return m.minMM }

// MaxCharWidthMM returns the widest plausible character width.
func (m *FamilyMetrics) MaxCharWidthMM() float64 { return m.maxMM }

func (m *FamilyMetrics) emUnitsToMM(units float64) float64 {
	return units / 1000.0 * m.SizePt * geom.PtToMM
}

// heuristicScaleMM converts a class em-fraction into millimetres. When
// visible text was observed its average width calibrates the scale;
// otherwise the font size alone does.
func (m *FamilyMetrics) heuristicScaleMM() float64 {
	if m.observedAvgMM > 0 {
		return m.observedAvgMM / classEmWidths[ClassLower]
	}
	return m.SizePt * geom.PtToMM
}

// finalize computes the aggregate widths after construction.
func (m *FamilyMetrics) finalize() {
	if m.widths != nil {
		// Plausible range over letters, digits, and space; extremes like
		// '@' or '|' would skew the character-count bounds.
		total, count := 0.0, 0
		min, max := 0.0, 0.0
		for r, units := range m.widths {
			if !plausibleRune(r) {
				continue
			}
			w := m.emUnitsToMM(units)
			total += w
			count++
			if min == 0 || w < min {
				min = w
			}
			if w > max {
				max = w
			}
		}
		if count > 0 {
			m.avgMM = total / float64(count)
			m.minMM = min
			m.maxMM = max
			return
		}
	}
	scale := m.heuristicScaleMM()
	m.avgMM = classEmWidths[ClassLower] * scale
	m.minMM = classEmWidths[ClassSpace] * scale
	m.maxMM = classEmWidths[ClassUpper] * scale
}

func plausibleRune(r rune) bool {
	return r == ' ' ||
		(r >= '0' && r <= '9') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z')
}

// Profile is the document-wide typographic model: one FamilyMetrics per
// observed font family plus a document-dominant fallback. Read-only after
// construction.
type Profile struct {
	config   Config
	families map[string]*FamilyMetrics

	// DominantFamily is the most observed family, weighted by text length.
	DominantFamily string
}

// Family returns the metrics for the given family, falling back to the
// document-dominant family and finally to a pure heuristic model. The
// second return reports whether the exact family was profiled.
func (p *Profile) Family(family string) (*FamilyMetrics, bool) {
	if m, ok := p.families[family]; ok {
		return m, true
	}
	if m, ok := p.families[p.DominantFamily]; ok {
		return m, false
	}
	m := &FamilyMetrics{Family: family, SizePt: p.config.DefaultSizePt, Heuristic: true}
	m.finalize()
	return m, false
}

// Builder accumulates font observations across a document.
type Builder struct {
	config Config
}

// NewBuilder creates a profile builder with default configuration.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// NewBuilderWithConfig creates a profile builder with custom configuration.
func NewBuilderWithConfig(config Config) *Builder {
	return &Builder{config: config}
}

// Build scans every element of the document and assembles the profile.
func (b *Builder) Build(doc *model.Document) *Profile {
	type obs struct {
		runes      int
		sizeWeight map[float64]int
		widthMM    float64
		measured   int
	}
	observed := make(map[string]*obs)

	for pi := range doc.Pages {
		page := &doc.Pages[pi]
		for _, el := range page.Elements {
			family := el.FontFamily
			o := observed[family]
			if o == nil {
				o = &obs{sizeWeight: make(map[float64]int)}
				observed[family] = o
			}
			n := utf8.RuneCountInString(el.Text)
			if n == 0 {
				continue
			}
			o.runes += n
			o.sizeWeight[el.FontSizePt] += n
			if !el.Box.IsDegenerate() {
				o.widthMM += el.Box.WidthMM(page.Size)
				o.measured += n
			}
		}
	}

	profile := &Profile{
		config:   b.config,
		families: make(map[string]*FamilyMetrics, len(observed)),
	}

	best := 0
	for family, o := range observed {
		m := &FamilyMetrics{
			Family: family,
			SizePt: dominantSize(o.sizeWeight, b.config.DefaultSizePt),
		}
		if m.widths = lookupStandardWidths(family); m.widths == nil {
			m.Heuristic = true
		}
		if o.measured > 0 {
			m.observedAvgMM = o.widthMM / float64(o.measured)
		}
		m.finalize()
		profile.families[family] = m

		if o.runes > best {
			best = o.runes
			profile.DominantFamily = family
		}
	}
	return profile
}

// dominantSize picks the most frequent positive size, weighted by rune
// count; ties resolve to the smaller size for determinism.
func dominantSize(weights map[float64]int, fallback float64) float64 {
	sizes := make([]float64, 0, len(weights))
	for size := range weights {
		if size > 0 {
			sizes = append(sizes, size)
		}
	}
	if len(sizes) == 0 {
		return fallback
	}
	sort.Float64s(sizes)
	bestSize, bestWeight := sizes[0], weights[sizes[0]]
	for _, size := range sizes[1:] {
		if weights[size] > bestWeight {
			bestSize, bestWeight = size, weights[size]
		}
	}
	return bestSize
}
