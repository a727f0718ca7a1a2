package typo

import "strings"

// Metric width tables for the standard font families, in 1000ths of em.
// Aliases such as Arial and Times New Roman map onto the matching table.

var standardWidths = map[string]map[rune]float64{
	"Helvetica":      helveticaWidths,
	"Helvetica-Bold": helveticaBoldWidths,
	"Times-Roman":    timesWidths,
	"Times-Bold":     timesBoldWidths,
	"Courier":        courierWidths,
}

// familyAliases maps common reported names onto standard table keys.
var familyAliases = map[string]string{
	"helvetica":             "Helvetica",
	"helvetica-oblique":     "Helvetica",
	"helvetica-bold":        "Helvetica-Bold",
	"helvetica-boldoblique": "Helvetica-Bold",
	"arial":                 "Helvetica",
	"arialmt":               "Helvetica",
	"arial-bold":            "Helvetica-Bold",
	"arial-boldmt":          "Helvetica-Bold",
	"times-roman":           "Times-Roman",
	"times-italic":          "Times-Roman",
	"times new roman":       "Times-Roman",
	"timesnewroman":         "Times-Roman",
	"timesnewromanpsmt":     "Times-Roman",
	"times-bold":            "Times-Bold",
	"times-bolditalic":      "Times-Bold",
	"courier":               "Courier",
	"courier-bold":          "Courier",
	"courier-oblique":       "Courier",
	"courier new":           "Courier",
	"couriernew":            "Courier",
}

// lookupStandardWidths resolves a reported font family to a metric table,
// stripping any subset prefix ("ABCDEF+Helvetica"). Returns nil when the
// family has no table.
func lookupStandardWidths(family string) map[rune]float64 {
	name := family
	if i := strings.IndexByte(name, '+'); i >= 0 && i == 6 {
		name = name[i+1:]
	}
	if w, ok := standardWidths[name]; ok {
		return w
	}
	if key, ok := familyAliases[strings.ToLower(name)]; ok {
		return standardWidths[key]
	}
	return nil
}

// CharClass buckets a rune for the heuristic fallback model.
type CharClass int

const (
	ClassLower CharClass = iota
	ClassUpper
	ClassDigit
	ClassSpace
	ClassPunct
)

// ClassOf buckets r into its character class. Runes outside the basic
// classes count as lowercase, the most common bucket.
func ClassOf(r rune) CharClass {
	switch {
	case r == ' ':
		return ClassSpace
	case r >= '0' && r <= '9':
		return ClassDigit
	case r >= 'A' && r <= 'Z':
		return ClassUpper
	case r >= 'a' && r <= 'z':
		return ClassLower
	case r > 127:
		return ClassLower
	default:
		return ClassPunct
	}
}

// Relative class widths in em fractions. The lowercase value doubles as
// the model's reference average, so the fallback calibration divides the
// observed average width by classEmWidths[ClassLower].
var classEmWidths = map[CharClass]float64{
	ClassLower: 0.50,
	ClassUpper: 0.68,
	ClassDigit: 0.55,
	ClassSpace: 0.28,
	ClassPunct: 0.33,
}

var helveticaWidths = map[rune]float64{
	' ': 278, '!': 278, '"': 355, '#': 556, '$': 556, '%': 889,
	'&': 667, '\'': 191, '(': 333, ')': 333, '*': 389, '+': 584,
	',': 278, '-': 333, '.': 278, '/': 278,
	'0': 556, '1': 556, '2': 556, '3': 556, '4': 556,
	'5': 556, '6': 556, '7': 556, '8': 556, '9': 556,
	':': 278, ';': 278, '<': 584, '=': 584, '>': 584, '?': 556, '@': 1015,
	'A': 667, 'B': 667, 'C': 722, 'D': 722, 'E': 667, 'F': 611, 'G': 778,
	'H': 722, 'I': 278, 'J': 500, 'K': 667, 'L': 556, 'M': 833, 'N': 722,
	'O': 778, 'P': 667, 'Q': 778, 'R': 722, 'S': 667, 'T': 611, 'U': 722,
	'V': 667, 'W': 944, 'X': 667, 'Y': 667, 'Z': 611,
	'[': 278, '\\': 278, ']': 278, '^': 469, '_': 556, '`': 333,
	'a': 556, 'b': 556, 'c': 500, 'd': 556, 'e': 556, 'f': 278, 'g': 556,
	'h': 556, 'i': 222, 'j': 222, 'k': 500, 'l': 222, 'm': 833, 'n': 556,
	'o': 556, 'p': 556, 'q': 556, 'r': 333, 's': 500, 't': 278, 'u': 556,
	'v': 500, 'w': 722, 'x': 500, 'y': 500, 'z': 500,
	'{': 334, '|': 260, '}': 334, '~': 584,
}

var helveticaBoldWidths = map[rune]float64{
	' ': 278, ',': 278, '.': 278, '-': 333, ':': 333, ';': 333,
	'0': 556, '1': 556, '2': 556, '3': 556, '4': 556,
	'5': 556, '6': 556, '7': 556, '8': 556, '9': 556,
	'A': 722, 'B': 722, 'C': 722, 'D': 722, 'E': 667, 'F': 611, 'G': 778,
	'H': 722, 'I': 278, 'J': 556, 'K': 722, 'L': 611, 'M': 833, 'N': 722,
	'O': 778, 'P': 667, 'Q': 778, 'R': 722, 'S': 667, 'T': 611, 'U': 722,
	'V': 667, 'W': 944, 'X': 667, 'Y': 667, 'Z': 611,
	'a': 556, 'b': 611, 'c': 556, 'd': 611, 'e': 556, 'f': 333, 'g': 611,
	'h': 611, 'i': 278, 'j': 278, 'k': 556, 'l': 278, 'm': 889, 'n': 611,
	'o': 611, 'p': 611, 'q': 611, 'r': 389, 's': 556, 't': 333, 'u': 611,
	'v': 556, 'w': 778, 'x': 556, 'y': 556, 'z': 500,
}

var timesWidths = map[rune]float64{
	' ': 250, ',': 250, '.': 250, '-': 333, ':': 278, ';': 278,
	'0': 500, '1': 500, '2': 500, '3': 500, '4': 500,
	'5': 500, '6': 500, '7': 500, '8': 500, '9': 500,
	'A': 722, 'B': 667, 'C': 667, 'D': 722, 'E': 611, 'F': 556, 'G': 722,
	'H': 722, 'I': 333, 'J': 389, 'K': 722, 'L': 611, 'M': 889, 'N': 722,
	'O': 722, 'P': 556, 'Q': 722, 'R': 667, 'S': 556, 'T': 611, 'U': 722,
	'V': 722, 'W': 944, 'X': 722, 'Y': 722, 'Z': 611,
	'a': 444, 'b': 500, 'c': 444, 'd': 500, 'e': 444, 'f': 333, 'g': 500,
	'h': 500, 'i': 278, 'j': 278, 'k': 500, 'l': 278, 'm': 778, 'n': 500,
	'o': 500, 'p': 500, 'q': 500, 'r': 333, 's': 389, 't': 278, 'u': 500,
	'v': 500, 'w': 722, 'x': 500, 'y': 500, 'z': 444,
}

var timesBoldWidths = map[rune]float64{
	' ': 250, ',': 250, '.': 250, '-': 333, ':': 333, ';': 333,
	'0': 500, '1': 500, '2': 500, '3': 500, '4': 500,
	'5': 500, '6': 500, '7': 500, '8': 500, '9': 500,
	'A': 722, 'B': 667, 'C': 722, 'D': 722, 'E': 667, 'F': 611, 'G': 778,
	'H': 778, 'I': 389, 'J': 500, 'K': 778, 'L': 667, 'M': 944, 'N': 722,
	'O': 778, 'P': 611, 'Q': 778, 'R': 722, 'S': 556, 'T': 667, 'U': 722,
	'V': 722, 'W': 1000, 'X': 722, 'Y': 722, 'Z': 667,
	'a': 500, 'b': 556, 'c': 444, 'd': 556, 'e': 444, 'f': 333, 'g': 500,
	'h': 556, 'i': 278, 'j': 333, 'k': 556, 'l': 278, 'm': 833, 'n': 556,
	'o': 500, 'p': 556, 'q': 556, 'r': 444, 's': 389, 't': 333, 'u': 556,
	'v': 500, 'w': 722, 'x': 500, 'y': 500, 'z': 444,
}

// Courier is monospaced at 600/1000 em for every glyph.
var courierWidths = func() map[rune]float64 {
	w := make(map[rune]float64, 95)
	for r := rune(32); r <= 126; r++ {
		w[r] = 600
	}
	return w
}()
