package reconcile

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// TransferMap maps obfuscated code points to their true strings.
// It is safe for concurrent use; batches may merge their results while
// others are still being recognized.
type TransferMap struct {
	mx sync.RWMutex
	m  map[rune]string
}

// NewTransferMap creates an empty map.
func NewTransferMap() *TransferMap {
	return &TransferMap{m: make(map[rune]string)}
}

// FromMap creates a transfer map holding a copy of m.
func FromMap(m map[rune]string) *TransferMap {
	tm := NewTransferMap()
	tm.Merge(m)
	return tm
}

// Get returns the true string of code point r.
func (tm *TransferMap) Get(r rune) (string, bool) {
	tm.mx.RLock()
	defer tm.mx.RUnlock()
	s, ok := tm.m[r]
	return s, ok
}

// Len returns the number of mapped code points.
func (tm *TransferMap) Len() int {
	tm.mx.RLock()
	defer tm.mx.RUnlock()
	return len(tm.m)
}

// CodePoints returns the mapped code points in ascending order.
func (tm *TransferMap) CodePoints() []rune {
	tm.mx.RLock()
	cps := make([]rune, 0, len(tm.m))
	for r := range tm.m {
		cps = append(cps, r)
	}
	tm.mx.RUnlock()
	slices.Sort(cps)
	return cps
}

// Entries returns a copy of the mapping.
func (tm *TransferMap) Entries() map[rune]string {
	tm.mx.RLock()
	defer tm.mx.RUnlock()
	m := make(map[rune]string, len(tm.m))
	for r, s := range tm.m {
		m[r] = s
	}
	return m
}

// Merge adds all pairs of m. Code points which are already mapped to a
// different string are overwritten; the number of such collisions is
// returned.
func (tm *TransferMap) Merge(m map[rune]string) (collisions int) {
	tm.mx.Lock()
	defer tm.mx.Unlock()
	for r, s := range m {
		if old, ok := tm.m[r]; ok && old != s {
			tracer().Infof("U+%04X re-mapped from %q to %q", r, old, s)
			collisions++
		}
		tm.m[r] = s
	}
	return
}

// Translate replaces every mapped code point of s by its true string.
// Unmapped characters are copied unchanged.
func (tm *TransferMap) Translate(s string) string {
	tm.mx.RLock()
	defer tm.mx.RUnlock()
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if t, ok := tm.m[r]; ok {
			b.WriteString(t)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (tm *TransferMap) String() string {
	var b strings.Builder
	b.WriteString("TransferMap{")
	for i, r := range tm.CodePoints() {
		if i > 0 {
			b.WriteString(", ")
		}
		s, _ := tm.Get(r)
		fmt.Fprintf(&b, "U+%04X→%q", r, s)
	}
	b.WriteString("}")
	return b.String()
}
