// Package alloc tracks word positions while a UM file is laid out.
package alloc

import (
	"github.com/cockroachdb/errors"
)

// Allocator hands out consecutive word ranges of a file being written.
// Positions are 0-based word offsets.
type Allocator struct {
	// eof is the next free word
	eof int64

	// base is the first word that can be allocated
	// (after the fixed length header)
	base int64

	// allocations tracks all allocations made (for debugging/validation)
	allocations []Allocation

	stats Stats
}

// Allocation represents a single allocation made.
type Allocation struct {
	Word  int64
	Words int64
	Tag   string
}

// Stats contains allocation statistics.
type Stats struct {
	TotalAllocations int64
	TotalWords       int64
	PaddingWords     int64
	LargestAlloc     int64
}

// New creates an Allocator whose first allocation starts at word base.
func New(base int64) *Allocator {
	return &Allocator{
		eof:  base,
		base: base,
	}
}

// Alloc allocates words at the end of the file and returns the first word.
func (a *Allocator) Alloc(words int64, tag string) int64 {
	if words <= 0 {
		return a.eof
	}

	word := a.eof
	a.eof += words

	a.allocations = append(a.allocations, Allocation{
		Word:  word,
		Words: words,
		Tag:   tag,
	})

	a.stats.TotalAllocations++
	a.stats.TotalWords += words
	if words > a.stats.LargestAlloc {
		a.stats.LargestAlloc = words
	}

	return word
}

// Align moves the end of file to the next multiple of alignment words and
// returns the number of padding words skipped.
func (a *Allocator) Align(alignment int64) int64 {
	if alignment <= 1 {
		return 0
	}
	remainder := a.eof % alignment
	if remainder == 0 {
		return 0
	}
	pad := alignment - remainder
	a.eof += pad
	a.stats.PaddingWords += pad
	return pad
}

// EOF returns the next free word.
func (a *Allocator) EOF() int64 {
	return a.eof
}

// Stats returns a copy of the allocation statistics.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// Allocations returns a copy of all allocations made.
func (a *Allocator) Allocations() []Allocation {
	result := make([]Allocation, len(a.allocations))
	copy(result, a.allocations)
	return result
}

// Validate checks that allocations don't overlap and are within bounds.
func (a *Allocator) Validate() error {
	for _, al := range a.allocations {
		if al.Word < a.base {
			return errors.Newf("allocation %q at word %d is before base word %d", al.Tag, al.Word, a.base)
		}
		if al.Word+al.Words > a.eof {
			return errors.Newf("allocation %q at word %d size %d extends past EOF %d", al.Tag, al.Word, al.Words, a.eof)
		}
	}

	// Allocations are appended in position order, so neighbours suffice.
	for i := 1; i < len(a.allocations); i++ {
		prev, cur := a.allocations[i-1], a.allocations[i]
		if cur.Word < prev.Word+prev.Words {
			return errors.Newf("overlapping allocations: %q [%d, size %d] and %q [%d, size %d]",
				prev.Tag, prev.Word, prev.Words, cur.Tag, cur.Word, cur.Words)
		}
	}

	return nil
}
