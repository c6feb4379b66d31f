// Package normalize provides a deterministic text normalizer used before crisis detection
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Drop control characters except line breaks and tabs
// 3 Unicode NFKD decomposition and case folding
// 4 Remove combining marks (í -> i), then recompose with NFC
// 5 Remove format characters (ZWJ, ZWNJ, BOM)
// 6 Width fold fullwidth to ASCII
// 7 Typographic quote folding eg ’ -> '
// 8 Collapse whitespace and trim
//
// There is no leet folding: digits matter for time references ("by 5am")
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe; transformer chains are pooled
type Normalizer struct{}

// isUnwantedControl matches C0/C1 controls and DEL but keeps \n \r \t
func isUnwantedControl(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return unicode.IsControl(r)
}

var chainPool = sync.Pool{
	New: func() any {
		// marks must be stripped from decomposed text; NFKC would recompose
		// e+U+0301 into é and leave nothing for the Mn filter.
		// Folding can emit precomposed runes, hence the second NFD
		return transform.Chain(
			runes.Remove(runes.Predicate(isUnwantedControl)),
			norm.NFKD,
			cases.Fold(),
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			runes.Map(foldQuote),
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

var std = New()

// String normalizes s with a shared Normalizer
func String(s string) string { return std.Normalize(s) }

// Normalize returns the normalized form of s following the pipeline above
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// a transformer should never fail on valid UTF-8; fall back to plain lowering
		ns = strings.ToLower(s)
	}

	return collapseSpaces(ns)
}

// foldQuote maps typographic apostrophes and quotes to ASCII
func foldQuote(r rune) rune {
	switch r {
	case '‘', '’', '‚', '‛', '′', 'ʼ':
		return '\''
	case '“', '”', '„', '‟', '″':
		return '"'
	}
	return r
}

// collapseSpaces converts whitespace runs to a single ASCII space, but preserves line breaks.
// Runs that contain any newline are collapsed to a single newline. Edges are trimmed
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	sawNL := false
	flush := func() {
		if !inWS {
			return
		}
		if sawNL {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		inWS = false
		sawNL = false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			if r == '\n' || r == '\r' {
				sawNL = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return strings.Trim(b.String(), " \n\t\r")
}
