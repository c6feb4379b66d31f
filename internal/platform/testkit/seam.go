package testkit

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

var seamMu sync.Mutex

// Swap points target at replacement until the test ends
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
}

// Serial holds a process-wide lock for the rest of the test. Use it in tests
// that swap package-level seams shared with parallel tests
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}

// Sequence returns an ID generator yielding prefix-1, prefix-2, ...
// Safe for concurrent use, so worker pools can share it
func Sequence(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}
