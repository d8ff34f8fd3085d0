package sink

import (
	"strings"
	"sync"

	"github.com/teranos/decl2ts/decl"
)

// Accumulator collects the fragments of one run so the artifact can be
// written once. Empty fragments are dropped without consuming a sequence number.
type Accumulator struct {
	mu    sync.Mutex
	frags []decl.Fragment
	bytes int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add records text and returns its fragment
func (acc *Accumulator) Add(text string) decl.Fragment {
	acc.mu.Lock()
	defer acc.mu.Unlock()

	f := decl.Fragment{Seq: len(acc.frags), Text: text}
	if f.Empty() {
		return f
	}
	acc.frags = append(acc.frags, f)
	acc.bytes += len(text)
	return f
}

// Len returns the number of non-empty fragments
func (acc *Accumulator) Len() int {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return len(acc.frags)
}

// Fragments returns a copy of the fragments in emission order
func (acc *Accumulator) Fragments() []decl.Fragment {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	out := make([]decl.Fragment, len(acc.frags))
	copy(out, acc.frags)
	return out
}

// String concatenates the fragments in emission order
func (acc *Accumulator) String() string {
	acc.mu.Lock()
	defer acc.mu.Unlock()

	var sb strings.Builder
	sb.Grow(acc.bytes)
	for _, f := range acc.frags {
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// Reset drops every fragment
func (acc *Accumulator) Reset() {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.frags = nil
	acc.bytes = 0
}

// Flush replaces the artifact with the accumulated text and resets.
// On failure the fragments are kept so the caller can retry.
func (acc *Accumulator) Flush(a *Artifact) (int, error) {
	text := acc.String()
	if err := a.Replace(text); err != nil {
		return 0, err
	}
	acc.Reset()
	return len(text), nil
}
