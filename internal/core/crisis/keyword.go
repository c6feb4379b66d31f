package crisis

import (
	"math"
	"sync"

	"safeharbor/internal/core/lexicon"
	"safeharbor/internal/core/normalize"

	"github.com/cloudflare/ahocorasick"
)

// keyword confidence: base + step per distinct matched phrase, capped
const (
	keywordBaseConfidence = 0.5
	keywordStepConfidence = 0.1
	keywordMaxConfidence  = 0.9
)

type keywordRef struct {
	cat int
	kw  int
}

// KeywordDetector emits at most one indicator per lexicon category, scored by
// how many distinct phrases of that category occur in the text
type KeywordDetector struct {
	cats []lexicon.Category
	refs [][]keywordRef // dictionary index -> every (category, keyword) using that phrase

	// ahocorasick.Matcher keeps per-call dedup state; one matcher per caller
	matchers *sync.Pool
}

// NewKeywordDetector builds one matcher over every category keyword in p.
// A phrase shared by several categories is matched once and credited to each
func NewKeywordDetector(p *lexicon.Pack) *KeywordDetector {
	d := &KeywordDetector{}
	if p == nil {
		return d
	}
	d.cats = p.Categories

	var dict []string
	index := map[string]int{}
	for ci, c := range p.Categories {
		for ki, kw := range c.Keywords {
			i, ok := index[kw]
			if !ok {
				i = len(dict)
				index[kw] = i
				dict = append(dict, kw)
				d.refs = append(d.refs, nil)
			}
			d.refs[i] = append(d.refs[i], keywordRef{cat: ci, kw: ki})
		}
	}
	if len(dict) > 0 {
		first := ahocorasick.NewStringMatcher(dict)
		d.matchers = &sync.Pool{
			New: func() any { return ahocorasick.NewStringMatcher(dict) },
		}
		d.matchers.Put(first)
	}
	return d
}

// match returns the distinct dictionary indexes found in norm
func (d *KeywordDetector) match(norm string) []int {
	m := d.matchers.Get().(*ahocorasick.Matcher)
	hits := m.Match([]byte(norm))
	d.matchers.Put(m)
	return hits
}

// Name implements Detector
func (d *KeywordDetector) Name() string { return string(KindKeyword) }

// Detect implements Detector
func (d *KeywordDetector) Detect(text string, cfg Config) []Indicator {
	out := []Indicator{}
	if text == "" || !cfg.EnableKeywordDetection || d.matchers == nil {
		return out
	}
	norm := normalize.String(text)
	if norm == "" {
		return out
	}

	// matched[cat][kw]; allocated lazily per category
	matched := make([][]bool, len(d.cats))
	for _, id := range d.match(norm) {
		for _, ref := range d.refs[id] {
			if matched[ref.cat] == nil {
				matched[ref.cat] = make([]bool, len(d.cats[ref.cat].Keywords))
			}
			matched[ref.cat][ref.kw] = true
		}
	}

	for ci, c := range d.cats {
		if matched[ci] == nil {
			continue
		}
		phrases := make([]string, 0, 4)
		for ki, ok := range matched[ci] {
			if ok {
				phrases = append(phrases, c.Keywords[ki])
			}
		}
		conf := math.Min(keywordMaxConfidence, keywordBaseConfidence+keywordStepConfidence*float64(len(phrases)))
		out = append(out, newIndicator(KindKeyword, c.Weight, round2(conf), c.Description, Details{
			Category:  c.Key,
			Matches:   phrases,
			MatchType: "keyword_category",
		}))
	}
	return out
}
