package raw

import "testing"

func TestConfGet(t *testing.T) {
	t.Setenv("LOG_SERVICE", " safeharbor-api ")

	log := New().Prefix("LOG_")
	if got := log.Get("SERVICE", "x"); got != "safeharbor-api" {
		t.Fatalf("Get = %q", got)
	}
	if got := log.Get("MISSING", "defv"); got != "defv" {
		t.Fatalf("Get default = %q", got)
	}
}

func TestConfGetBool(t *testing.T) {
	c := New().Prefix("B_")
	env := map[string]string{"T1": "true", "T2": "1", "T3": "YES", "WS": "  true  ", "F1": "false", "F2": "0", "F3": "nah"}
	for k, v := range env {
		t.Setenv("B_"+k, v)
	}

	tests := []struct {
		key  string
		def  bool
		want bool
	}{
		{"T1", false, true},
		{"T2", false, true},
		{"T3", false, true},
		{"WS", false, true},
		{"F1", true, false},
		{"F2", true, false},
		{"F3", true, false},
		{"MISSING", true, true},
		{"MISSING", false, false},
	}
	for _, tt := range tests {
		if got := c.GetBool(tt.key, tt.def); got != tt.want {
			t.Fatalf("GetBool(%q, %v) = %v, want %v", tt.key, tt.def, got, tt.want)
		}
	}
}

func TestConfGetInt(t *testing.T) {
	c := New().Prefix("SYS_")
	t.Setenv("SYS_OK", "42")
	t.Setenv("SYS_WS", "  7  ")
	t.Setenv("SYS_NONNUM", "12x")
	t.Setenv("SYS_NEG", "-5")

	tests := []struct {
		key  string
		def  int
		want int
	}{
		{"OK", 0, 42},
		{"WS", 1, 7},
		{"NONNUM", 9, 9},
		{"NEG", 3, 3},
		{"MISSING", 11, 11},
	}
	for _, tt := range tests {
		if got := c.GetInt(tt.key, tt.def); got != tt.want {
			t.Fatalf("GetInt(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestPrefixComposition(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("CORE_LOG_LEVEL", "warn")

	if got := New().Prefix("LOG_").Get("LEVEL", ""); got != "info" {
		t.Fatalf("LOG_LEVEL = %q", got)
	}
	if got := New().Prefix("CORE_").Prefix("LOG_").Get("LEVEL", ""); got != "warn" {
		t.Fatalf("CORE_LOG_LEVEL = %q", got)
	}
}
