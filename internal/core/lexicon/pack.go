// Package lexicon loads and compiles the crisis keyword categories and pattern
// families from the embedded v1 lexicon.json, or from an override file
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"safeharbor/internal/core/normalize"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.json
var embedded []byte

// Version is the only pack format we understand
const Version = 1

// Bounds shared with the detectors
const (
	MinSeverity = 0
	MaxSeverity = 10
)

type rawCategory struct {
	Key         string   `json:"key"         yaml:"key"`
	Weight      int      `json:"weight"      yaml:"weight"`
	Description string   `json:"description" yaml:"description"`
	Keywords    []string `json:"keywords"    yaml:"keywords"`
}

type rawPattern struct {
	ID        string `json:"id"         yaml:"id"`
	Pattern   string `json:"pattern"    yaml:"pattern"`
	MatchType string `json:"match_type" yaml:"match_type"`
}

type rawFamily struct {
	Key         string       `json:"key"         yaml:"key"`
	Description string       `json:"description" yaml:"description"`
	Severity    int          `json:"severity"    yaml:"severity"`
	Confidence  float64      `json:"confidence"  yaml:"confidence"`
	Patterns    []rawPattern `json:"patterns"    yaml:"patterns"`
}

type rawPack struct {
	Version    int            `json:"version"    yaml:"version"`
	Meta       map[string]any `json:"meta"       yaml:"meta"`
	Categories []rawCategory  `json:"categories" yaml:"categories"`
	Families   []rawFamily    `json:"families"   yaml:"families"`
}

// Category is a weighted, labeled group of related risk phrases
type Category struct {
	Key         string
	Weight      int
	Description string
	Keywords    []string // normalized, deduped; declaration order kept
}

// Pattern is one compiled detector within a family
type Pattern struct {
	ID        string
	Source    string // pattern as authored
	MatchType string
	Re        *regexp.Regexp
}

// Family is a named group of patterns sharing one severity and confidence
type Family struct {
	Key         string
	Description string
	Severity    int
	Confidence  float64
	Patterns    []Pattern
}

// Pack is a compiled lexicon. Treat it as read-only once loaded
type Pack struct {
	Version    int
	Meta       map[string]any
	Categories []Category // non-increasing by Weight
	Families   []Family
}

// Format names a pack encoding
type Format string

const (
	// FormatJSON is the embedded encoding
	FormatJSON Format = "json"
	// FormatYAML is accepted for hand-edited override packs
	FormatYAML Format = "yaml"
)

var (
	defaultOnce sync.Once
	defaultPack *Pack
)

// Default returns the embedded pack, compiled once.
// Panics if the embedded data is broken since nothing can run without it
func Default() *Pack {
	defaultOnce.Do(func() {
		p, err := Load()
		if err != nil {
			panic(err)
		}
		defaultPack = p
	})
	return defaultPack
}

// Load returns the compiled pack from the embedded lexicon.json
func Load() (*Pack, error) {
	return Parse(embedded, FormatJSON)
}

// LoadFile reads and compiles a pack from disk; the extension picks the format
func LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Parse(data, FormatYAML)
	case ".json", "":
		return Parse(data, FormatJSON)
	default:
		return nil, fmt.Errorf("lexicon: unsupported file extension %q", filepath.Ext(path))
	}
}

// Parse decodes and validates a pack in the given format
func Parse(data []byte, format Format) (*Pack, error) {
	var rp rawPack
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &rp); err != nil {
			return nil, fmt.Errorf("lexicon: parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &rp); err != nil {
			return nil, fmt.Errorf("lexicon: parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("lexicon: unknown format %q", format)
	}
	return compile(rp)
}

func compile(rp rawPack) (*Pack, error) {
	if rp.Version != Version {
		return nil, fmt.Errorf("lexicon: unsupported version %d (want %d)", rp.Version, Version)
	}
	if len(rp.Categories) == 0 {
		return nil, fmt.Errorf("lexicon: no categories")
	}

	p := &Pack{
		Version:    rp.Version,
		Meta:       rp.Meta,
		Categories: make([]Category, 0, len(rp.Categories)),
		Families:   make([]Family, 0, len(rp.Families)),
	}

	seenCat := make(map[string]struct{}, len(rp.Categories))
	prevWeight := MaxSeverity
	for i, c := range rp.Categories {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			return nil, fmt.Errorf("lexicon: category %d has no key", i)
		}
		if _, dup := seenCat[key]; dup {
			return nil, fmt.Errorf("lexicon: duplicate category %q", key)
		}
		seenCat[key] = struct{}{}
		if c.Weight < MinSeverity || c.Weight > MaxSeverity {
			return nil, fmt.Errorf("lexicon: category %q weight %d outside %d..%d", key, c.Weight, MinSeverity, MaxSeverity)
		}
		if c.Weight > prevWeight {
			return nil, fmt.Errorf("lexicon: category %q weight %d exceeds preceding weight %d", key, c.Weight, prevWeight)
		}
		prevWeight = c.Weight

		kws := foldKeywords(c.Keywords)
		if len(kws) == 0 {
			return nil, fmt.Errorf("lexicon: category %q has no keywords", key)
		}
		p.Categories = append(p.Categories, Category{
			Key:         key,
			Weight:      c.Weight,
			Description: c.Description,
			Keywords:    kws,
		})
	}

	seenFam := make(map[string]struct{}, len(rp.Families))
	for i, f := range rp.Families {
		key := strings.TrimSpace(f.Key)
		if key == "" {
			return nil, fmt.Errorf("lexicon: family %d has no key", i)
		}
		if _, dup := seenFam[key]; dup {
			return nil, fmt.Errorf("lexicon: duplicate family %q", key)
		}
		seenFam[key] = struct{}{}
		if f.Severity < MinSeverity || f.Severity > MaxSeverity {
			return nil, fmt.Errorf("lexicon: family %q severity %d outside %d..%d", key, f.Severity, MinSeverity, MaxSeverity)
		}
		if math.IsNaN(f.Confidence) || f.Confidence < 0 || f.Confidence > 1 {
			return nil, fmt.Errorf("lexicon: family %q confidence %v outside 0..1", key, f.Confidence)
		}

		fam := Family{
			Key:         key,
			Description: f.Description,
			Severity:    f.Severity,
			Confidence:  f.Confidence,
			Patterns:    make([]Pattern, 0, len(f.Patterns)),
		}
		for _, rpat := range f.Patterns {
			src := strings.TrimSpace(rpat.Pattern)
			if src == "" {
				return nil, fmt.Errorf("lexicon: family %q has an empty pattern", key)
			}
			// case-insensitive; dot spans line breaks kept by the normalizer
			re, err := regexp.Compile("(?is)" + src)
			if err != nil {
				return nil, fmt.Errorf("lexicon: compile %q: %w", src, err)
			}
			mt := rpat.MatchType
			if mt == "" {
				mt = key
			}
			fam.Patterns = append(fam.Patterns, Pattern{
				ID:        rpat.ID,
				Source:    src,
				MatchType: mt,
				Re:        re,
			})
		}
		p.Families = append(p.Families, fam)
	}

	return p, nil
}

// foldKeywords runs keywords through the same normalizer as scanned text,
// then dedupes while keeping declaration order
func foldKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		k = normalize.String(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Category returns the category with key, if present
func (p *Pack) Category(key string) (Category, bool) {
	for _, c := range p.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}
