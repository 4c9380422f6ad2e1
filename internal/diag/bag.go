package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds the diagnostics collected for one compilation unit. The parser
// and analyzer both append to a Bag rather than aborting on first error
// (§7 propagation policy).
type Bag struct {
	items   []Diagnostic
	maximum uint16
}

// NewBag creates a Bag with a capacity limit. A limit of 0 means unbounded.
func NewBag(maximum int) *Bag {
	result, err := safecast.Conv[uint16](maximum)
	if err != nil {
		panic(fmt.Errorf("bag maximum overflow: %w", err))
	}
	return &Bag{items: make([]Diagnostic, 0, 8), maximum: result}
}

// Add appends a diagnostic, honoring the capacity limit. Returns false if the
// diagnostic was dropped because the limit was reached.
func (b *Bag) Add(d Diagnostic) bool {
	if b.maximum != 0 && len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any diagnostic has severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics in the bag.
func (b *Bag) Len() int { return len(b.items) }

// Items returns a read-only view of the collected diagnostics.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends all diagnostics from other into b.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, span start/end, severity (desc), then code.
// Deterministic ordering matters: downstream tooling diffs diagnostic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
