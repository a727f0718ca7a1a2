// Package classify assigns a coarse content-type label to redactions by
// matching ordered rules against their context windows and checking the
// label's typical length against the measured gap.
//
// The rule set is an extension point: anything implementing [Classifier]
// can replace it (a trained model, an LLM adapter), selected by
// configuration rather than inheritance.
package classify

import (
	"regexp"

	"github.com/moghammed/epstein-universal-unredaction/redact"
	"github.com/moghammed/epstein-universal-unredaction/typo"
)

// ContentType is the fixed label set for redacted content.
type ContentType string

const (
	TypeName         ContentType = "name"
	TypePhone        ContentType = "phone"
	TypeEmail        ContentType = "email"
	TypeAddress      ContentType = "address"
	TypeDate         ContentType = "date"
	TypeIDNumber     ContentType = "id_number"
	TypeMonetary     ContentType = "monetary"
	TypeOrganisation ContentType = "organisation"
)

// Prediction is a classified content type for one redaction. Zero or one
// per redaction; absence means unclassified.
type Prediction struct {
	// RedactionID ties the prediction to its redaction.
	RedactionID string

	// Type is the predicted content type.
	Type ContentType

	// Confidence is the classifier's confidence in [0,1].
	Confidence float64

	// Rule names the rule that fired, for explainability.
	Rule string
}

// Classifier maps a redaction's context window and gap estimate to an
// optional prediction. Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(red *redact.Redaction, gap *typo.Gap) (Prediction, bool)
}

// Rule is one classification rule: a pattern over the context window plus
// a character-count plausibility range.
type Rule struct {
	// Name identifies the rule in predictions and reports.
	Name string

	// Type is the content type the rule predicts.
	Type ContentType

	// Pre matches against the tail of the pre-context (the text directly
	// before the redaction). Nil means no pre-context requirement.
	Pre *regexp.Regexp

	// Post matches against the head of the post-context. Nil means no
	// post-context requirement. At least one of Pre/Post must be set.
	Post *regexp.Regexp

	// MinChars and MaxChars bound the typical rendered length of the
	// content type; the rule only fires when this range intersects the
	// gap's character-count bounds.
	MinChars, MaxChars int

	// BaseConfidence is the confidence contributed on match, before
	// plausibility adjustment.
	BaseConfidence float64
}

// matches reports whether the rule's patterns and length range agree with
// the redaction and gap.
func (r *Rule) matches(red *redact.Redaction, gap *typo.Gap) bool {
	if r.Pre == nil && r.Post == nil {
		return false
	}
	if r.Pre != nil && !r.Pre.MatchString(red.PreContext) {
		return false
	}
	if r.Post != nil && !r.Post.MatchString(red.PostContext) {
		return false
	}
	// Plausibility: the gap must be able to hold a typical instance.
	return gap.MinChars <= r.MaxChars && gap.MaxChars >= r.MinChars
}

// Config holds the classifier tuning knobs.
type Config struct {
	// PlausibilityBoost is added when the gap's point estimate falls
	// inside the rule's typical range (default: 0.10).
	PlausibilityBoost float64

	// WideBoundPenalty is subtracted when the gap's bound is degenerate
	// or wider than WideBoundSpread (default: 0.15).
	WideBoundPenalty float64

	// WideBoundSpread is the character-count spread above which a gap
	// counts as weak (default: 12).
	WideBoundSpread int
}

// DefaultConfig returns the provisional default tuning.
func DefaultConfig() Config {
	return Config{
		PlausibilityBoost: 0.10,
		WideBoundPenalty:  0.15,
		WideBoundSpread:   12,
	}
}

// RuleClassifier evaluates an ordered rule set; the first matching rule
// wins. It is immutable after construction and safe for concurrent use.
type RuleClassifier struct {
	rules  []Rule
	config Config
}

// NewRuleClassifier creates a classifier with the default rules and tuning.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{rules: DefaultRules(), config: DefaultConfig()}
}

// NewRuleClassifierWithConfig creates a classifier with a custom rule set
// and tuning. Rules are evaluated in the order given.
func NewRuleClassifierWithConfig(rules []Rule, config Config) *RuleClassifier {
	return &RuleClassifier{rules: rules, config: config}
}

// Classify returns the first matching rule's prediction, or ok=false when
// no rule fires. It never guesses a default label.
func (c *RuleClassifier) Classify(red *redact.Redaction, gap *typo.Gap) (Prediction, bool) {
	for i := range c.rules {
		rule := &c.rules[i]
		if !rule.matches(red, gap) {
			continue
		}

		confidence := rule.BaseConfidence
		if gap.PointEstimate >= rule.MinChars && gap.PointEstimate <= rule.MaxChars {
			confidence += c.config.PlausibilityBoost
		}
		if gap.ReducedConfidence || gap.BoundSpread() > c.config.WideBoundSpread {
			confidence -= c.config.WideBoundPenalty
		}
		if confidence < 0 {
			confidence = 0
		} else if confidence > 1 {
			confidence = 1
		}

		return Prediction{
			RedactionID: red.ID,
			Type:        rule.Type,
			Confidence:  confidence,
			Rule:        rule.Name,
		}, true
	}
	return Prediction{}, false
}

// DefaultRules returns the built-in rule set, in priority order. Patterns
// anchor on the tail of the pre-context so only the text adjacent to the
// redaction counts.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "label-phone", Type: TypePhone,
			Pre:      regexp.MustCompile(`(?i)\b(phone|telephone|tel|fax|cell|mobile)\s*(no|number|#)?\s*[.:]?\s*$`),
			MinChars: 7, MaxChars: 17, BaseConfidence: 0.85,
		},
		{
			Name: "label-email", Type: TypeEmail,
			Pre:      regexp.MustCompile(`(?i)\be-?mail\s*(address)?\s*[.:]?\s*$`),
			MinChars: 6, MaxChars: 40, BaseConfidence: 0.85,
		},
		{
			Name: "label-date", Type: TypeDate,
			Pre:      regexp.MustCompile(`(?i)\b(date|dob|dated|born)\s*(of\s+birth)?\s*[.:]?\s*(on\s*)?$`),
			MinChars: 6, MaxChars: 20, BaseConfidence: 0.80,
		},
		{
			Name: "label-ssn", Type: TypeIDNumber,
			Pre:      regexp.MustCompile(`(?i)\b(ssn|social\s+security|passport|account|case|file|id)\s*(no|number|#)?\s*[.:]?\s*$`),
			MinChars: 4, MaxChars: 20, BaseConfidence: 0.75,
		},
		{
			Name: "label-monetary", Type: TypeMonetary,
			Pre:      regexp.MustCompile(`(?i)(\b(amount|sum|total|paid|fee)\s*(of)?\s*[.:]?\s*\$?|\$)\s*$`),
			MinChars: 1, MaxChars: 15, BaseConfidence: 0.75,
		},
		{
			Name: "post-monetary", Type: TypeMonetary,
			Post:     regexp.MustCompile(`(?i)^\s*(dollars|usd)\b`),
			MinChars: 1, MaxChars: 15, BaseConfidence: 0.65,
		},
		{
			Name: "label-address", Type: TypeAddress,
			Pre:      regexp.MustCompile(`(?i)\b(address|residence|residing\s+at|located\s+at|lives?\s+at)\s*[.:]?\s*$`),
			MinChars: 10, MaxChars: 60, BaseConfidence: 0.75,
		},
		{
			Name: "label-organisation", Type: TypeOrganisation,
			Pre:      regexp.MustCompile(`(?i)\b(company|organi[sz]ation|employer|firm|agency)\s*[.:]?\s*$`),
			MinChars: 5, MaxChars: 40, BaseConfidence: 0.70,
		},
		{
			Name: "label-name", Type: TypeName,
			Pre:      regexp.MustCompile(`(?i)\b(name|mr|mrs|ms|dr|witness|victim|signed|by)\s*[.:]?\s*$`),
			MinChars: 3, MaxChars: 30, BaseConfidence: 0.80,
		},
	}
}
