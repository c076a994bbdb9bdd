// =============================================================================
// Ennovatis Header Converter - Header Transformer
// =============================================================================
//
// This module maps one raw column header from the institution's export format
// to the header convention expected by Ennovatis.
//
// TRANSFORMATION STEPS (applied in order):
//   1. Umlaut substitution:  ä -> ae, ö -> oe, ü -> ue, ß -> ss
//   2. Truncation: keep the first two comma-delimited fields and drop
//      everything from the second comma onwards.
//
//   Example:
//   Input:  "Außentemperatur, °C, Zone1, extra"
//   Output: "Aussentemperatur, °C"
//
// Only the lowercase umlauts are substituted. Uppercase Ä, Ö and Ü pass
// through unchanged unless FoldUppercase is enabled; existing Ennovatis
// imports were created with that behavior.
//
// =============================================================================

package header

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Delimiter separates the metadata fields inside a header.
const Delimiter = ","

// lowerUmlauts holds the substitutions applied by default.
var lowerUmlauts = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

// upperUmlauts holds the opt-in substitutions for capital letters.
var upperUmlauts = strings.NewReplacer(
	"Ä", "Ae",
	"Ö", "Oe",
	"Ü", "Ue",
	"ẞ", "SS",
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Options controls the optional parts of the transformation.
// The zero value reproduces Transform exactly.
type Options struct {
	// FoldUppercase also substitutes Ä, Ö, Ü and capital ẞ.
	FoldUppercase bool

	// NormalizeNFC composes decomposed characters (a + U+0308) before the
	// substitution so they are matched as umlauts.
	NormalizeNFC bool
}

// Transformer applies the header rules with a fixed set of options.
type Transformer struct {
	opts Options
}

// NewTransformer creates a new Transformer with the given options.
func NewTransformer(opts Options) *Transformer {
	return &Transformer{opts: opts}
}

// Transform converts a single header.
func (t *Transformer) Transform(col string) string {
	if t.opts.NormalizeNFC {
		col = norm.NFC.String(col)
	}

	col = lowerUmlauts.Replace(col)
	if t.opts.FoldUppercase {
		col = upperUmlauts.Replace(col)
	}

	return Truncate(col)
}

// Columns converts every header in cols and returns them in a new slice.
// Duplicate results are kept; callers decide whether that matters.
func (t *Transformer) Columns(cols []string) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = t.Transform(col)
	}
	return out
}

// =============================================================================
// PACKAGE-LEVEL HELPERS
// =============================================================================

// Transform converts a header with the default options.
func Transform(col string) string {
	return Truncate(lowerUmlauts.Replace(col))
}

// Truncate keeps everything before the second comma.
// Strings with fewer than two commas are returned unchanged.
func Truncate(col string) string {
	first := strings.Index(col, Delimiter)
	if first < 0 {
		return col
	}

	second := strings.Index(col[first+len(Delimiter):], Delimiter)
	if second < 0 {
		return col
	}

	return col[:first+len(Delimiter)+second]
}
