package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	kit "safeharbor/internal/platform/testkit"
)

func TestLoad_Embedded(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if p.Version != Version {
		t.Fatalf("version = %d, want %d", p.Version, Version)
	}

	want := []string{"suicidal", "selfHarm", "hopelessness", "isolation", "distress", "depression"}
	if len(p.Categories) != len(want) {
		t.Fatalf("categories = %d, want %d", len(p.Categories), len(want))
	}
	for i, k := range want {
		if p.Categories[i].Key != k {
			t.Fatalf("category[%d] = %q, want %q", i, p.Categories[i].Key, k)
		}
	}

	for _, f := range p.Families {
		for _, pat := range f.Patterns {
			if pat.Re == nil {
				t.Fatalf("family %s pattern %s not compiled", f.Key, pat.ID)
			}
		}
	}
	if len(p.Families) != 3 {
		t.Fatalf("families = %d, want 3", len(p.Families))
	}
}

func TestLoad_CategoriesNonIncreasingWeight(t *testing.T) {
	p := Default()
	for i := 1; i < len(p.Categories); i++ {
		prev, cur := p.Categories[i-1], p.Categories[i]
		if cur.Weight > prev.Weight {
			t.Fatalf("category %q (weight %d) follows %q (weight %d)", cur.Key, cur.Weight, prev.Key, prev.Weight)
		}
	}
	if p.Categories[0].Key != "suicidal" {
		t.Fatalf("highest weight category should be suicidal, got %q", p.Categories[0].Key)
	}
	if last := p.Categories[len(p.Categories)-1]; last.Key != "depression" {
		t.Fatalf("lowest weight category should be depression, got %q", last.Key)
	}
}

func TestLoad_KeywordsNormalized(t *testing.T) {
	for _, c := range Default().Categories {
		seen := map[string]bool{}
		for _, k := range c.Keywords {
			if k != strings.ToLower(strings.TrimSpace(k)) {
				t.Fatalf("keyword %q in %s not normalized", k, c.Key)
			}
			if seen[k] {
				t.Fatalf("duplicate keyword %q in %s", k, c.Key)
			}
			seen[k] = true
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"bad version", `{"version":2,"categories":[{"key":"a","weight":1,"keywords":["x"]}]}`, "unsupported version"},
		{"no categories", `{"version":1}`, "no categories"},
		{"order violation", `{"version":1,"categories":[
			{"key":"low","weight":3,"keywords":["x"]},
			{"key":"high","weight":9,"keywords":["y"]}]}`, "exceeds preceding weight"},
		{"weight out of range", `{"version":1,"categories":[{"key":"a","weight":11,"keywords":["x"]}]}`, "outside"},
		{"duplicate category", `{"version":1,"categories":[
			{"key":"a","weight":5,"keywords":["x"]},
			{"key":"a","weight":4,"keywords":["y"]}]}`, "duplicate category"},
		{"empty keywords", `{"version":1,"categories":[{"key":"a","weight":5,"keywords":["  "]}]}`, "no keywords"},
		{"bad confidence", `{"version":1,"categories":[{"key":"a","weight":5,"keywords":["x"]}],
			"families":[{"key":"f","severity":5,"confidence":1.5,"patterns":[{"pattern":"x"}]}]}`, "confidence"},
		{"bad regex", `{"version":1,"categories":[{"key":"a","weight":5,"keywords":["x"]}],
			"families":[{"key":"f","severity":5,"confidence":0.5,"patterns":[{"pattern":"("}]}]}`, "compile"},
		{"malformed json", `{"version":`, "parse json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc), FormatJSON)
			if err == nil {
				t.Fatalf("expected error")
			}
			kit.MustContain(t, err.Error(), tc.want)
		})
	}
}

func TestParse_MatchTypeDefaultsToFamily(t *testing.T) {
	p, err := Parse([]byte(`{"version":1,
		"categories":[{"key":"a","weight":5,"keywords":["X ", "x"]}],
		"families":[{"key":"fam","severity":5,"confidence":0.5,"patterns":[{"id":"p","pattern":"abc"}]}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := p.Families[0].Patterns[0].MatchType; got != "fam" {
		t.Fatalf("match type = %q, want fam", got)
	}
	if got := p.Categories[0].Keywords; len(got) != 1 || got[0] != "x" {
		t.Fatalf("keywords = %v, want [x]", got)
	}
	if !p.Families[0].Patterns[0].Re.MatchString("ABC") {
		t.Fatalf("patterns should compile case-insensitive")
	}
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.yaml")
	doc := `version: 1
categories:
  - key: grief
    weight: 4
    description: Grief
    keywords: ["lost everything", "miss her"]
families:
  - key: plan
    severity: 7
    confidence: 0.75
    patterns:
      - id: have_a_plan
        pattern: "i have a plan"
        match_type: plan_statement
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	c, ok := p.Category("grief")
	if !ok || c.Weight != 4 || len(c.Keywords) != 2 {
		t.Fatalf("unexpected category: %+v", c)
	}
	if p.Families[0].Patterns[0].MatchType != "plan_statement" {
		t.Fatalf("unexpected family: %+v", p.Families[0])
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
	path := filepath.Join(t.TempDir(), "pack.toml")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadFile(path)
	if err == nil {
		t.Fatalf("expected extension error")
	}
	kit.MustContain(t, err.Error(), "unsupported file extension")
}
